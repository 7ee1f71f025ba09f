package postgres

import (
	"context"
	"database/sql"

	"moija/internal/domain"
)

type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &SessionRepository{
		DB: db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (share_id, timezone, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, s.ShareID, s.Timezone, s.StartDate, s.EndDate, s.CreatedAt).Scan(&s.ID)
}

func (r *SessionRepository) GetByShareID(ctx context.Context, shareID string) (*domain.Session, error) {
	query := `
		SELECT id, share_id, timezone, start_date, end_date, created_at
		FROM sessions
		WHERE share_id = $1
	`
	s := &domain.Session{}
	err := r.DB.QueryRowContext(ctx, query, shareID).Scan(&s.ID, &s.ShareID, &s.Timezone, &s.StartDate, &s.EndDate, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
