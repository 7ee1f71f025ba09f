package domain

import "context"

// Slot is one (day, hour) cell of the grid marked unavailable for a participant.
type Slot struct {
	Day  string `json:"day"`
	Hour int    `json:"hour"`
}

// ParticipantUnavailability bundles a participant with their stored
// unavailability slots. An empty slot set means the participant has not
// submitted yet and is excluded from aggregate counts.
type ParticipantUnavailability struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slots     []Slot `json:"slots"`
	Submitted bool   `json:"submitted"`
}

// HeatmapCell is the derived availability of one (day, hour) cell.
type HeatmapCell struct {
	Day            string   `json:"day"`
	Hour           int      `json:"hour"`
	AvailableCount int      `json:"available_count"`
	AvailableIDs   []string `json:"available_ids"`
}

// RecommendedBlock is a contiguous multi-hour range on one day, ranked by
// simultaneous attendee count.
type RecommendedBlock struct {
	Day            string   `json:"day"`
	StartHour      int      `json:"start_hour"`
	EndHour        int      `json:"end_hour"`
	Length         int      `json:"length"`
	AvailableCount int      `json:"available_count"`
	Names          []string `json:"names"`
	Label          string   `json:"label"`
}

// Aggregates is the full derived view of a session: heatmap plus ranked blocks.
// Recomputed on every pass, never stored.
type Aggregates struct {
	Days           []string                     `json:"days"`
	Hours          []int                        `json:"hours"`
	SubmittedCount int                          `json:"submitted_count"`
	Participants   []*ParticipantUnavailability `json:"participants"`
	Heatmap        []HeatmapCell                `json:"heatmap"`
	Blocks         []RecommendedBlock           `json:"blocks"`
}

// UnavailabilityRepository defines storage for unavailability slots.
type UnavailabilityRepository interface {
	// ReplaceForParticipant atomically replaces the participant's complete
	// slot set with the given one.
	ReplaceForParticipant(ctx context.Context, participantID string, slots []Slot) error
	// ListBySessionID returns the stored slots per participant ID.
	ListBySessionID(ctx context.Context, sessionID string) (map[string][]Slot, error)
}

// ScheduleService defines the availability operations of a session.
type ScheduleService interface {
	// Replace validates and stores a participant's full slot set. When final
	// is false the snapshot is staged and flushed after a quiescence window;
	// when true it is flushed immediately.
	Replace(ctx context.Context, shareID, participantID string, slots []Slot, final bool) error
	// ListUnavailabilities returns all participants of the session with their
	// stored slots.
	ListUnavailabilities(ctx context.Context, shareID string) ([]*ParticipantUnavailability, error)
	// ComputeAggregates recomputes the heatmap and ranked blocks from the
	// current stored state.
	ComputeAggregates(ctx context.Context, shareID string) (*Aggregates, error)
}
