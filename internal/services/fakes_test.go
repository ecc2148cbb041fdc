package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"joiny/internal/domain"
)

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	mu        sync.Mutex
	byID      map[int64]*domain.Event
	nextID    int64
	calls     int
	createErr []error
	err       error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[int64]*domain.Event), nextID: 1}
	for _, e := range events {
		f.byID[e.ID] = e
		if e.ID >= f.nextID {
			f.nextID = e.ID + 1
		}
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		if err != nil {
			return err
		}
	}
	e.ID = f.nextID
	f.nextID++
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) get(id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return f.get(id)
}

func (f *fakeEventRepo) GetByInviteCode(ctx context.Context, code string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.InviteCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) LockByID(ctx context.Context, id int64) (*domain.Event, error) {
	return f.get(id)
}

func (f *fakeEventRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Patch(ctx context.Context, id int64, p domain.EventPatch) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.MaxMembers != nil {
		e.MaxMembers = *p.MaxMembers
	}
	if p.Theme != nil {
		e.Theme = *p.Theme
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeParticipantRepo is an in-memory participant store that enforces the
// (event, user) unique constraint like the database does.
type fakeParticipantRepo struct {
	mu     sync.Mutex
	rows   []*domain.Participant
	nextID int64
	// raceOnCreate simulates a concurrent join committing first.
	raceOnCreate bool
	err          error
}

func newFakeParticipantRepo(rows ...*domain.Participant) *fakeParticipantRepo {
	f := &fakeParticipantRepo{nextID: 1}
	for _, p := range rows {
		f.rows = append(f.rows, p)
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return f
}

func (f *fakeParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.raceOnCreate {
		f.raceOnCreate = false
		winner := *p
		winner.ID = f.nextID
		f.nextID++
		f.rows = append(f.rows, &winner)
		return domain.ErrAlreadyJoined
	}
	for _, r := range f.rows {
		if p.UserID != nil && r.EventID == p.EventID && r.BelongsTo(*p.UserID) {
			return domain.ErrAlreadyJoined
		}
	}
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeParticipantRepo) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.EventID == eventID && r.BelongsTo(userID) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (f *fakeParticipantRepo) ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]bool, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = true
	}
	out := []*domain.Participant{}
	for _, r := range f.rows {
		if want[r.EventID] {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) List(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Participant{}
	for _, r := range f.rows {
		if filter.EventID == nil || r.EventID == *filter.EventID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) UpdateName(ctx context.Context, id int64, name string) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			r.Name = name
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeParticipantRepo) count(eventID int64) int {
	n, _ := f.CountByEvent(context.Background(), eventID)
	return n
}

// fakeTxManager runs fn inline and serialises transactions.
type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return fn(ctx)
}

// fakeNotifier records published notifications.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (f *fakeNotifier) Publish(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, n := range f.sent {
		out[i] = n.Type
	}
	return out
}

// fakeInvitationRepo implements domain.EventInvitationRepository for tests.
type fakeInvitationRepo struct {
	rows []*domain.EventInvitation
	err  error
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.EventInvitation) error {
	if f.err != nil {
		return f.err
	}
	inv.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, inv)
	return nil
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.EventInvitation, error) {
	var out []*domain.EventInvitation
	for _, r := range f.rows {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	welcome     []*domain.WelcomeMessageEmailData
	invitations []*domain.EventInvitationEmailData
	failFor     map[string]bool
	welcomeErr  error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if f.welcomeErr != nil {
		return f.welcomeErr
	}
	f.welcome = append(f.welcome, data)
	return nil
}

func (f *fakeEmailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if f.failFor[data.Email] {
		return errors.New("smtp error")
	}
	f.invitations = append(f.invitations, data)
	return nil
}
