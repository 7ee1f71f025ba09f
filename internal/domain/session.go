package domain

import (
	"context"
	"time"
)

// DayFormat is the wire format for a day on the grid axis (local calendar date).
const DayFormat = "2006-01-02"

// Session is a scheduling event with a fixed date range and a public share slug.
// Immutable after creation.
type Session struct {
	ID        string    `json:"id"`
	ShareID   string    `json:"share_id"`
	Timezone  string    `json:"timezone"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession returns a new Session. ID is set by the repository on create.
func NewSession(shareID, timezone string, startDate, endDate, createdAt time.Time) *Session {
	return &Session{
		ShareID:   shareID,
		Timezone:  timezone,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: createdAt,
	}
}

// Days returns the inclusive sequence of calendar dates from StartDate to
// EndDate, formatted with DayFormat. This is the day axis of the grid.
func (s *Session) Days() []string {
	var days []string
	for d := s.StartDate; !d.After(s.EndDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayFormat))
	}
	return days
}

// Location resolves the session's IANA timezone, falling back to UTC when the
// stored name does not load.
func (s *Session) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionRepository defines storage for sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByShareID(ctx context.Context, shareID string) (*Session, error)
}

// SessionService defines session lifecycle operations.
type SessionService interface {
	CreateSession(ctx context.Context, timezone string, startDate, endDate time.Time) (*Session, error)
	GetSessionByShareID(ctx context.Context, shareID string) (*Session, error)
}
