package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moija/internal/domain"
)

type participantService struct {
	sessionRepo     domain.SessionRepository
	participantRepo domain.ParticipantRepository
	contextTimeout  time.Duration
}

// NewParticipantService creates a ParticipantService with the given repositories.
func NewParticipantService(sessionRepo domain.SessionRepository, participantRepo domain.ParticipantRepository, timeout time.Duration) domain.ParticipantService {
	return &participantService{
		sessionRepo:     sessionRepo,
		participantRepo: participantRepo,
		contextTimeout:  timeout,
	}
}

func (s *participantService) Join(ctx context.Context, shareID, name string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if !domain.ValidParticipantName(name) {
		return nil, fmt.Errorf("display name must be 2-24 letters, digits, underscore or hyphen: %w", domain.ErrInvalidInput)
	}

	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	participant := domain.NewParticipant(session.ID, name, time.Now())
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if err == domain.ErrConflict {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return participant, nil
}

func (s *participantService) ListBySession(ctx context.Context, shareID string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	participants, err := s.participantRepo.ListBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}
