package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"moija/internal/coalesce"
	"moija/internal/domain"
	"moija/internal/schedule"
)

// ScheduleService implements domain.ScheduleService. Writes go through a
// per-participant debounced saver, reads are served from fresh recomputation
// with the last good result kept as a fallback, and a background refresh loop
// re-derives state for sessions that changed.
type ScheduleService struct {
	sessionRepo        domain.SessionRepository
	participantRepo    domain.ParticipantRepository
	unavailabilityRepo domain.UnavailabilityRepository
	notifier           domain.ChangeNotifier
	logger             *slog.Logger
	contextTimeout     time.Duration
	saveWindow         time.Duration

	saverMu sync.Mutex
	savers  map[string]*coalesce.Saver

	cacheMu sync.RWMutex
	cache   map[string]*domain.Aggregates

	refresher *coalesce.Refresher

	watchMu sync.Mutex
	runCtx  context.Context
	watched map[string]*domain.Session

	dirtyMu sync.Mutex
	dirty   map[string]*domain.Session
}

var _ domain.ScheduleService = (*ScheduleService)(nil)

// NewScheduleService wires the schedule service. saveWindow controls how long
// a staged snapshot waits for further edits before it is written; non-positive
// uses the coalesce default.
func NewScheduleService(
	sessionRepo domain.SessionRepository,
	participantRepo domain.ParticipantRepository,
	unavailabilityRepo domain.UnavailabilityRepository,
	notifier domain.ChangeNotifier,
	logger *slog.Logger,
	timeout, saveWindow time.Duration,
) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ScheduleService{
		sessionRepo:        sessionRepo,
		participantRepo:    participantRepo,
		unavailabilityRepo: unavailabilityRepo,
		notifier:           notifier,
		logger:             logger,
		contextTimeout:     timeout,
		saveWindow:         saveWindow,
		savers:             make(map[string]*coalesce.Saver),
		cache:              make(map[string]*domain.Aggregates),
		watched:            make(map[string]*domain.Session),
		dirty:              make(map[string]*domain.Session),
	}
	s.refresher = coalesce.NewRefresher(s.refreshDirty, 0, 0, logger)
	return s
}

// Run drives the background refresh loop until ctx is done. Sessions are
// watched lazily on their first aggregate read; without Run the service still
// works, reads just always recompute inline.
func (s *ScheduleService) Run(ctx context.Context) {
	s.watchMu.Lock()
	s.runCtx = ctx
	s.watchMu.Unlock()
	s.refresher.Run(ctx)
}

func (s *ScheduleService) Replace(ctx context.Context, shareID, participantID string, slots []domain.Slot, final bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get session: %w", err)
	}
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get participant: %w", err)
	}
	if participant.SessionID != session.ID {
		return domain.ErrNotFound
	}

	dayAxis := make(map[string]struct{})
	for _, day := range session.Days() {
		dayAxis[day] = struct{}{}
	}
	seen := make(map[domain.Slot]struct{}, len(slots))
	cleaned := make([]domain.Slot, 0, len(slots))
	for _, slot := range slots {
		if _, ok := dayAxis[slot.Day]; !ok {
			return fmt.Errorf("day %q is outside the session range: %w", slot.Day, domain.ErrInvalidInput)
		}
		if !schedule.ValidHour(slot.Hour) {
			return fmt.Errorf("hour %d is outside the grid: %w", slot.Hour, domain.ErrInvalidInput)
		}
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		cleaned = append(cleaned, slot)
	}

	saver := s.saverFor(session.ID, participant.ID)
	saver.Offer(cleaned)
	if final {
		saver.Flush()
	}
	return nil
}

func (s *ScheduleService) saverFor(sessionID, participantID string) *coalesce.Saver {
	s.saverMu.Lock()
	defer s.saverMu.Unlock()
	if saver, ok := s.savers[participantID]; ok {
		return saver
	}
	saver := coalesce.NewSaver(func(ctx context.Context, slots []domain.Slot) error {
		ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
		defer cancel()
		if err := s.unavailabilityRepo.ReplaceForParticipant(ctx, participantID, slots); err != nil {
			s.logger.Error("unavailability flush failed", "participant_id", participantID, "err", err)
			return err
		}
		s.notifier.Publish(sessionID)
		return nil
	}, s.saveWindow)
	s.savers[participantID] = saver
	return saver
}

func (s *ScheduleService) ListUnavailabilities(ctx context.Context, shareID string) ([]*domain.ParticipantUnavailability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s.listUnavailabilities(ctx, session)
}

func (s *ScheduleService) listUnavailabilities(ctx context.Context, session *domain.Session) ([]*domain.ParticipantUnavailability, error) {
	participants, err := s.participantRepo.ListBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	slotsByParticipant, err := s.unavailabilityRepo.ListBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list unavailabilities: %w", err)
	}

	out := make([]*domain.ParticipantUnavailability, 0, len(participants))
	for _, p := range participants {
		slots := slotsByParticipant[p.ID]
		if slots == nil {
			slots = []domain.Slot{}
		}
		out = append(out, &domain.ParticipantUnavailability{
			ID:        p.ID,
			Name:      p.Name,
			Slots:     slots,
			Submitted: len(slots) > 0,
		})
	}
	return out, nil
}

func (s *ScheduleService) ComputeAggregates(ctx context.Context, shareID string) (*domain.Aggregates, error) {
	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.ensureWatched(session)

	agg, err := s.recompute(ctx, session)
	if err != nil {
		s.cacheMu.RLock()
		cached := s.cache[session.ID]
		s.cacheMu.RUnlock()
		if cached != nil {
			s.logger.Warn("aggregate recompute failed, serving previous state", "share_id", shareID, "err", err)
			return cached, nil
		}
		return nil, err
	}
	return agg, nil
}

// recompute derives the full aggregate view from stored state and replaces the
// session's cached copy on success.
func (s *ScheduleService) recompute(ctx context.Context, session *domain.Session) (*domain.Aggregates, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	unavailabilities, err := s.listUnavailabilities(ctx, session)
	if err != nil {
		return nil, err
	}

	input := make([]schedule.ParticipantSchedule, 0, len(unavailabilities))
	for _, u := range unavailabilities {
		input = append(input, schedule.ParticipantSchedule{ID: u.ID, Name: u.Name, Unavailable: u.Slots})
	}
	days := session.Days()
	grid := schedule.Aggregate(input, days)
	blocks := schedule.Rank(grid)

	heatmap := make([]domain.HeatmapCell, 0, len(days)*schedule.GridHours)
	for _, day := range days {
		for _, hour := range schedule.Hours() {
			cell := grid.Cell(day, hour)
			ids := make([]string, 0, len(cell.Available))
			for id := range cell.Available {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			heatmap = append(heatmap, domain.HeatmapCell{
				Day:            day,
				Hour:           hour,
				AvailableCount: cell.AvailableCount,
				AvailableIDs:   ids,
			})
		}
	}

	recommended := make([]domain.RecommendedBlock, 0, len(blocks))
	for _, b := range blocks {
		recommended = append(recommended, domain.RecommendedBlock{
			Day:            b.Day,
			StartHour:      b.StartHour,
			EndHour:        b.EndHour,
			Length:         b.Length,
			AvailableCount: b.AvailableCount,
			Names:          b.Names,
			Label:          b.Label(),
		})
	}

	agg := &domain.Aggregates{
		Days:           days,
		Hours:          schedule.Hours(),
		SubmittedCount: grid.SubmittedCount,
		Participants:   unavailabilities,
		Heatmap:        heatmap,
		Blocks:         recommended,
	}

	s.cacheMu.Lock()
	s.cache[session.ID] = agg
	s.cacheMu.Unlock()
	return agg, nil
}

// ensureWatched subscribes the session to change signals once, so the refresh
// loop keeps its cache warm. A no-op until Run has started.
func (s *ScheduleService) ensureWatched(session *domain.Session) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.runCtx == nil {
		return
	}
	if _, ok := s.watched[session.ID]; ok {
		return
	}
	copied := *session
	s.watched[session.ID] = &copied

	ch, unsubscribe := s.notifier.Subscribe(session.ID)
	runCtx := s.runCtx
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-runCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				s.dirtyMu.Lock()
				s.dirty[copied.ID] = &copied
				s.dirtyMu.Unlock()
				s.refresher.Poke()
			}
		}
	}()
}

// refreshDirty recomputes every session marked dirty since the last pass. When
// nothing is dirty (the periodic fallback tick) all watched sessions are
// recomputed, covering missed signals.
func (s *ScheduleService) refreshDirty(ctx context.Context) error {
	s.dirtyMu.Lock()
	pending := s.dirty
	s.dirty = make(map[string]*domain.Session)
	s.dirtyMu.Unlock()

	if len(pending) == 0 {
		s.watchMu.Lock()
		pending = make(map[string]*domain.Session, len(s.watched))
		for id, sess := range s.watched {
			pending[id] = sess
		}
		s.watchMu.Unlock()
	}

	var firstErr error
	for _, session := range pending {
		if _, err := s.recompute(ctx, session); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
