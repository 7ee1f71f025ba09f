package services

import (
	"context"
	"sync"
	"time"

	"moija/internal/domain"
)

// fakeSessionRepo is an in-memory SessionRepository for tests.
type fakeSessionRepo struct {
	byShareID map[string]*domain.Session
	created   []*domain.Session
	err       error
}

func newFakeSessionRepo(sessions ...*domain.Session) *fakeSessionRepo {
	repo := &fakeSessionRepo{byShareID: make(map[string]*domain.Session)}
	for _, s := range sessions {
		repo.byShareID[s.ShareID] = s
	}
	return repo
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if f.err != nil {
		return f.err
	}
	session.ID = "session-" + session.ShareID
	f.byShareID[session.ShareID] = session
	f.created = append(f.created, session)
	return nil
}

func (f *fakeSessionRepo) GetByShareID(ctx context.Context, shareID string) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	session, ok := f.byShareID[shareID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// fakeParticipantRepo is an in-memory ParticipantRepository for tests.
type fakeParticipantRepo struct {
	byID      map[string]*domain.Participant
	createErr error
	listErr   error
	nextID    int
}

func newFakeParticipantRepo(participants ...*domain.Participant) *fakeParticipantRepo {
	repo := &fakeParticipantRepo{byID: make(map[string]*domain.Participant), nextID: 1}
	for _, p := range participants {
		repo.byID[p.ID] = p
	}
	return repo
}

func (f *fakeParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.SessionID == p.SessionID && existing.Name == p.Name {
			return domain.ErrConflict
		}
	}
	p.ID = "p" + string(rune('0'+f.nextID))
	f.nextID++
	f.byID[p.ID] = p
	return nil
}

func (f *fakeParticipantRepo) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeParticipantRepo) ListBySessionID(ctx context.Context, sessionID string) ([]*domain.Participant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Participant
	for _, p := range f.byID {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeUnavailabilityRepo is an in-memory UnavailabilityRepository. It is
// mutex-guarded because saver flushes run on their own goroutines.
type fakeUnavailabilityRepo struct {
	mu            sync.Mutex
	byParticipant map[string][]domain.Slot
	sessionOf     map[string]string
	replaceCalls  int
	replaceErr    error
	listErr       error
}

func newFakeUnavailabilityRepo() *fakeUnavailabilityRepo {
	return &fakeUnavailabilityRepo{
		byParticipant: make(map[string][]domain.Slot),
		sessionOf:     make(map[string]string),
	}
}

func (f *fakeUnavailabilityRepo) ReplaceForParticipant(ctx context.Context, participantID string, slots []domain.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.byParticipant[participantID] = append([]domain.Slot(nil), slots...)
	return nil
}

func (f *fakeUnavailabilityRepo) ListBySessionID(ctx context.Context, sessionID string) (map[string][]domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string][]domain.Slot)
	for id, slots := range f.byParticipant {
		if f.sessionOf[id] == "" || f.sessionOf[id] == sessionID {
			out[id] = append([]domain.Slot(nil), slots...)
		}
	}
	return out, nil
}

func (f *fakeUnavailabilityRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replaceCalls
}

func (f *fakeUnavailabilityRepo) slotsFor(participantID string) []domain.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Slot(nil), f.byParticipant[participantID]...)
}

// fakeNotifier records Publish calls and hands out buffered subscriptions.
type fakeNotifier struct {
	mu        sync.Mutex
	published []string
	subs      map[string][]chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{subs: make(map[string][]chan struct{})}
}

func (f *fakeNotifier) Publish(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, sessionID)
	for _, ch := range f.subs[sessionID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (f *fakeNotifier) Subscribe(sessionID string) (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{}, 1)
	f.subs[sessionID] = append(f.subs[sessionID], ch)
	return ch, func() {}
}

func (f *fakeNotifier) publishCount(sessionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range f.published {
		if id == sessionID {
			n++
		}
	}
	return n
}

// fakeFetcher returns canned busy events.
type fakeFetcher struct {
	events []domain.BusyEvent
	err    error
	from   time.Time
	to     time.Time
}

func (f *fakeFetcher) FetchBusy(ctx context.Context, accessToken string, from, to time.Time) ([]domain.BusyEvent, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

// fakeExchanger maps codes to tokens.
type fakeExchanger struct {
	token string
	err   error
	code  string
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (string, error) {
	f.code = code
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

// fakeMailer records sent mail and can fail for selected recipients.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]error)}
}

func (f *fakeMailer) Send(to, subject, htmlBody, textBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

// fakeIssuer issues deterministic tokens.
type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) Issue(name string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + name, nil
}
