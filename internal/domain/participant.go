package domain

import (
	"context"
	"regexp"
	"time"
)

// nameRegexp matches a valid display name: 2-24 characters of Unicode letters,
// digits, underscore or hyphen.
var nameRegexp = regexp.MustCompile(`^[\p{L}\p{N}_-]{2,24}$`)

// ValidParticipantName reports whether name is an acceptable display name.
func ValidParticipantName(name string) bool {
	return nameRegexp.MatchString(name)
}

// Participant is a member of a session. The name is unique (case-sensitive)
// within a session and never changes after join.
type Participant struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewParticipant returns a new Participant. ID is set by the repository on create.
func NewParticipant(sessionID, name string, createdAt time.Time) *Participant {
	return &Participant{
		SessionID: sessionID,
		Name:      name,
		CreatedAt: createdAt,
	}
}

// ParticipantRepository defines storage for participants.
type ParticipantRepository interface {
	// Create inserts the participant. Returns ErrConflict when the name is
	// already taken within the session.
	Create(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id string) (*Participant, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]*Participant, error)
}

// ParticipantService defines participant-facing operations.
type ParticipantService interface {
	// Join creates a participant in the session identified by shareID.
	Join(ctx context.Context, shareID, name string) (*Participant, error)
	ListBySession(ctx context.Context, shareID string) ([]*Participant, error)
}
