package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"moija/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()
	startDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		session *domain.Session
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name:    "success",
			session: domain.NewSession("abc123", "Asia/Seoul", startDate, endDate, createdAt),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO sessions`).
					WithArgs("abc123", "Asia/Seoul", startDate, endDate, createdAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("session-uuid-1"))
			},
			wantID:  "session-uuid-1",
			wantErr: false,
		},
		{
			name:    "db error",
			session: domain.NewSession("abc124", "UTC", startDate, endDate, createdAt),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO sessions`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewSessionRepository(db)
			err = repo.Create(ctx, tt.session)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.session.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_GetByShareID(t *testing.T) {
	ctx := context.Background()
	startDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, share_id, timezone, start_date, end_date, created_at`).
			WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows([]string{"id", "share_id", "timezone", "start_date", "end_date", "created_at"}).
				AddRow("session-uuid-1", "abc123", "Asia/Seoul", startDate, endDate, createdAt))

		repo := NewSessionRepository(db)
		s, err := repo.GetByShareID(ctx, "abc123")
		require.NoError(t, err)
		require.Equal(t, "session-uuid-1", s.ID)
		require.Equal(t, "Asia/Seoul", s.Timezone)
		require.Equal(t, []string{"2025-06-01", "2025-06-02", "2025-06-03"}, s.Days())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, share_id, timezone, start_date, end_date, created_at`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewSessionRepository(db)
		_, err = repo.GetByShareID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
