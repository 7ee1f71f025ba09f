package services

import (
	"context"
	"fmt"
	"time"

	"moija/internal/domain"
	"moija/internal/schedule"
)

type calendarImportService struct {
	sessionRepo        domain.SessionRepository
	participantRepo    domain.ParticipantRepository
	unavailabilityRepo domain.UnavailabilityRepository
	fetcher            domain.CalendarFetcher
	exchanger          domain.TokenExchanger
	notifier           domain.ChangeNotifier
	contextTimeout     time.Duration
}

// NewCalendarImportService wires the calendar import flow: fetch busy events,
// map them onto the grid, replace the participant's stored unavailability.
func NewCalendarImportService(
	sessionRepo domain.SessionRepository,
	participantRepo domain.ParticipantRepository,
	unavailabilityRepo domain.UnavailabilityRepository,
	fetcher domain.CalendarFetcher,
	exchanger domain.TokenExchanger,
	notifier domain.ChangeNotifier,
	timeout time.Duration,
) domain.CalendarImportService {
	return &calendarImportService{
		sessionRepo:        sessionRepo,
		participantRepo:    participantRepo,
		unavailabilityRepo: unavailabilityRepo,
		fetcher:            fetcher,
		exchanger:          exchanger,
		notifier:           notifier,
		contextTimeout:     timeout,
	}
}

func (s *calendarImportService) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if code == "" {
		return "", fmt.Errorf("missing authorization code: %w", domain.ErrInvalidInput)
	}
	token, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

func (s *calendarImportService) Import(ctx context.Context, shareID, participantID, accessToken string) (*domain.CalendarImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if accessToken == "" {
		return nil, fmt.Errorf("missing access token: %w", domain.ErrInvalidInput)
	}

	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if participant.SessionID != session.ID {
		return nil, domain.ErrNotFound
	}

	loc := session.Location()
	from := time.Date(session.StartDate.Year(), session.StartDate.Month(), session.StartDate.Day(), 0, 0, 0, 0, loc)
	to := time.Date(session.EndDate.Year(), session.EndDate.Month(), session.EndDate.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	// A failed fetch leaves the stored slots untouched.
	events, err := s.fetcher.FetchBusy(ctx, accessToken, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch busy events: %w", err)
	}

	conv := schedule.ConvertBusy(events, session.Days(), loc)
	if err := s.unavailabilityRepo.ReplaceForParticipant(ctx, participant.ID, conv.Slots); err != nil {
		return nil, fmt.Errorf("replace unavailability: %w", err)
	}
	s.notifier.Publish(session.ID)

	slots := conv.Slots
	if slots == nil {
		slots = []domain.Slot{}
	}
	spans := conv.Spans
	if spans == nil {
		spans = []domain.CalendarSpan{}
	}
	conflicts := conv.Conflicts
	if conflicts == nil {
		conflicts = []domain.CellConflict{}
	}
	return &domain.CalendarImportResult{
		Slots:     slots,
		Spans:     spans,
		Conflicts: conflicts,
		Skipped:   conv.Skipped,
	}, nil
}
