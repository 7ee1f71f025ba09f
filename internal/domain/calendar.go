package domain

import (
	"context"
	"time"
)

// BusyEvent is one busy interval fetched from an external calendar. Start and
// End are raw timestamp strings as returned by the provider; they are untrusted
// input and validated during conversion.
type BusyEvent struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
}

// CalendarSpan is one contiguous grid range covered by a single event on a
// single day, used for conflict display. An event spanning multiple days
// yields one span per day.
type CalendarSpan struct {
	Day       string `json:"day"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Title     string `json:"title"`
}

// CellConflict lists the event titles overlapping one grid cell.
type CellConflict struct {
	Day    string   `json:"day"`
	Hour   int      `json:"hour"`
	Titles []string `json:"titles"`
}

// CalendarImportResult is what a calendar import produced: the slot set that
// replaced the participant's unavailability, plus display metadata.
type CalendarImportResult struct {
	Slots     []Slot         `json:"slots"`
	Spans     []CalendarSpan `json:"spans"`
	Conflicts []CellConflict `json:"conflicts"`
	Skipped   int            `json:"skipped"`
}

// CalendarFetcher fetches busy intervals from an external calendar provider.
type CalendarFetcher interface {
	FetchBusy(ctx context.Context, accessToken string, from, to time.Time) ([]BusyEvent, error)
}

// TokenExchanger exchanges an OAuth authorization code for an access token.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// CalendarImportService maps a participant's external calendar onto the grid,
// replacing their stored unavailability.
type CalendarImportService interface {
	Import(ctx context.Context, shareID, participantID, accessToken string) (*CalendarImportResult, error)
	ExchangeCode(ctx context.Context, code string) (string, error)
}
