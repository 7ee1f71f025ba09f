package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moija/internal/domain"
)

// maxSessionDays bounds the day axis so the grid stays a sane size.
const maxSessionDays = 31

type sessionService struct {
	sessionRepo    domain.SessionRepository
	contextTimeout time.Duration
}

// NewSessionService creates a SessionService with the given repository.
func NewSessionService(sessionRepo domain.SessionRepository, timeout time.Duration) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		contextTimeout: timeout,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, timezone string, startDate, endDate time.Time) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, domain.ErrInvalidInput)
	}
	startDate = startDate.Truncate(24 * time.Hour)
	endDate = endDate.Truncate(24 * time.Hour)
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date before start date: %w", domain.ErrInvalidInput)
	}
	if days := int(endDate.Sub(startDate).Hours()/24) + 1; days > maxSessionDays {
		return nil, fmt.Errorf("date range of %d days exceeds the maximum of %d: %w", days, maxSessionDays, domain.ErrInvalidInput)
	}

	session := domain.NewSession(uuid.NewString(), timezone, startDate, endDate, time.Now())
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *sessionService) GetSessionByShareID(ctx context.Context, shareID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}
