package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"moija/internal/domain"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type ParticipantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &ParticipantRepository{
		DB: db,
	}
}

func (r *ParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (session_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.SessionID, p.Name, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	query := `
		SELECT id, session_id, name, created_at
		FROM participants
		WHERE id = $1
	`
	p := &domain.Participant{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.SessionID, &p.Name, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepository) ListBySessionID(ctx context.Context, sessionID string) ([]*domain.Participant, error) {
	query := `
		SELECT id, session_id, name, created_at
		FROM participants
		WHERE session_id = $1
		ORDER BY created_at, name
	`
	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var participants []*domain.Participant
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
