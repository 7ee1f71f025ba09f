package postgres

import (
	"context"
	"database/sql"

	"moija/internal/domain"
)

type UnavailabilityRepository struct {
	DB *sql.DB
}

func NewUnavailabilityRepository(db *sql.DB) domain.UnavailabilityRepository {
	return &UnavailabilityRepository{
		DB: db,
	}
}

// ReplaceForParticipant swaps the participant's complete slot set inside one
// transaction, so readers never observe a partial state.
func (r *UnavailabilityRepository) ReplaceForParticipant(ctx context.Context, participantID string, slots []domain.Slot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM unavailabilities WHERE participant_id = $1`, participantID); err != nil {
		return err
	}
	for _, slot := range slots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO unavailabilities (participant_id, day, hour) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			participantID, slot.Day, slot.Hour,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *UnavailabilityRepository) ListBySessionID(ctx context.Context, sessionID string) (map[string][]domain.Slot, error) {
	query := `
		SELECT u.participant_id, u.day, u.hour
		FROM unavailabilities u
		INNER JOIN participants p ON p.id = u.participant_id
		WHERE p.session_id = $1
		ORDER BY u.participant_id, u.day, u.hour
	`
	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slotsByParticipant := make(map[string][]domain.Slot)
	for rows.Next() {
		var participantID string
		var slot domain.Slot
		if err := rows.Scan(&participantID, &slot.Day, &slot.Hour); err != nil {
			return nil, err
		}
		slotsByParticipant[participantID] = append(slotsByParticipant[participantID], slot)
	}
	return slotsByParticipant, rows.Err()
}
