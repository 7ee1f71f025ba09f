package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"moija/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestParticipantRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		participant *domain.Participant
		mock        func(mock sqlmock.Sqlmock)
		wantID      string
		wantErr     error
	}{
		{
			name:        "success",
			participant: domain.NewParticipant("session-1", "민수", createdAt),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participants`).
					WithArgs("session-1", "민수", createdAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("participant-uuid-1"))
			},
			wantID: "participant-uuid-1",
		},
		{
			name:        "duplicate name maps to conflict",
			participant: domain.NewParticipant("session-1", "민수", createdAt),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participants`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrConflict,
		},
		{
			name:        "db error",
			participant: domain.NewParticipant("session-1", "영희", createdAt),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participants`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewParticipantRepository(db)
			err = repo.Create(ctx, tt.participant)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.participant.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestParticipantRepository_ListBySessionID(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, session_id, name, created_at`).
		WithArgs("session-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "name", "created_at"}).
			AddRow("p1", "session-1", "민수", createdAt).
			AddRow("p2", "session-1", "영희", createdAt))

	repo := NewParticipantRepository(db)
	participants, err := repo.ListBySessionID(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, participants, 2)
	require.Equal(t, "민수", participants[0].Name)
	require.Equal(t, "영희", participants[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, session_id, name, created_at`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewParticipantRepository(db)
	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
