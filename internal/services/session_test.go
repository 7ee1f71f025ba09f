package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moija/internal/domain"
)

func TestSessionService_CreateSession(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates a session with a share slug", func(t *testing.T) {
		repo := newFakeSessionRepo()
		svc := NewSessionService(repo, time.Second)

		session, err := svc.CreateSession(ctx, "Asia/Seoul", start, start.AddDate(0, 0, 6))
		require.NoError(t, err)
		require.NotEmpty(t, session.ShareID)
		require.Equal(t, "Asia/Seoul", session.Timezone)
		require.Len(t, repo.created, 1)
		require.Len(t, session.Days(), 7)
	})

	t.Run("defaults empty timezone to UTC", func(t *testing.T) {
		repo := newFakeSessionRepo()
		svc := NewSessionService(repo, time.Second)

		session, err := svc.CreateSession(ctx, "", start, start)
		require.NoError(t, err)
		require.Equal(t, "UTC", session.Timezone)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		svc := NewSessionService(newFakeSessionRepo(), time.Second)
		_, err := svc.CreateSession(ctx, "Mars/Olympus", start, start)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		svc := NewSessionService(newFakeSessionRepo(), time.Second)
		_, err := svc.CreateSession(ctx, "UTC", start, start.AddDate(0, 0, -1))
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects a range over 31 days", func(t *testing.T) {
		svc := NewSessionService(newFakeSessionRepo(), time.Second)
		_, err := svc.CreateSession(ctx, "UTC", start, start.AddDate(0, 0, 31))
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSessionService_GetSessionByShareID(t *testing.T) {
	ctx := context.Background()
	session := domain.NewSession("abc123", "UTC",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		time.Now())
	session.ID = "session-1"

	svc := NewSessionService(newFakeSessionRepo(session), time.Second)

	got, err := svc.GetSessionByShareID(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, "session-1", got.ID)

	_, err = svc.GetSessionByShareID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
