package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joiny/internal/domain"
)

// fakeTodoRepo implements domain.TodoRepository for tests.
type fakeTodoRepo struct {
	byID   map[int64]*domain.Todo
	nextID int64
}

func newFakeTodoRepo(todos ...*domain.Todo) *fakeTodoRepo {
	f := &fakeTodoRepo{byID: make(map[int64]*domain.Todo), nextID: 100}
	for _, t := range todos {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTodoRepo) Create(ctx context.Context, t *domain.Todo) error {
	t.ID = f.nextID
	f.nextID++
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodoRepo) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Todo, error) {
	out := []*domain.Todo{}
	for _, t := range f.byID {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTodoRepo) Patch(ctx context.Context, id int64, p domain.TodoPatch) (*domain.Todo, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Task != nil {
		t.Task = *p.Task
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func TestTodoService_Access(t *testing.T) {
	ctx := context.Background()
	host := domain.Requester{UserID: 1, Username: "host"}
	guest := domain.Requester{UserID: 2, Username: "guest"}
	stranger := domain.Requester{UserID: 3, Username: "stranger"}

	tests := []struct {
		name   string
		caller domain.Requester
		errIs  error
	}{
		{name: "host", caller: host},
		{name: "participant", caller: guest},
		{name: "stranger", caller: stranger, errIs: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos := newFakeTodoRepo(&domain.Todo{ID: 1, EventID: 1, Task: "balloons"})
			events := newFakeEventRepo(&domain.Event{ID: 1, HostID: int64Ptr(host.UserID)})
			participants := newFakeParticipantRepo(&domain.Participant{ID: 1, EventID: 1, UserID: int64Ptr(guest.UserID), Name: "guest"})
			notifier := &fakeNotifier{}
			svc := NewTodoService(todos, events, participants, notifier, time.Second)

			todo := &domain.Todo{EventID: 1, Task: " cake "}
			err := svc.Create(ctx, tt.caller, todo)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				done := true
				_, err = svc.Update(ctx, 1, tt.caller, domain.TodoPatch{IsCompleted: &done})
				require.ErrorIs(t, err, tt.errIs)
				require.ErrorIs(t, svc.Delete(ctx, 1, tt.caller), tt.errIs)
				assert.Len(t, todos.byID, 1)
				assert.Empty(t, notifier.types())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "cake", todo.Task)
			assert.False(t, todo.IsCompleted)

			done := true
			updated, err := svc.Update(ctx, todo.ID, tt.caller, domain.TodoPatch{IsCompleted: &done})
			require.NoError(t, err)
			assert.True(t, updated.IsCompleted)

			require.NoError(t, svc.Delete(ctx, todo.ID, tt.caller))
			assert.Equal(t, []string{domain.NotifyTodoCreated, domain.NotifyTodoUpdated, domain.NotifyTodoDeleted}, notifier.types())
		})
	}
}

func TestTodoService_Validation(t *testing.T) {
	ctx := context.Background()
	caller := domain.Requester{UserID: 1}
	svc := NewTodoService(newFakeTodoRepo(), newFakeEventRepo(), newFakeParticipantRepo(), nil, time.Second)

	err := svc.Create(ctx, caller, &domain.Todo{EventID: 1, Task: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Create(ctx, caller, &domain.Todo{EventID: 404, Task: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	blank := ""
	_, err = svc.Update(ctx, 1, caller, domain.TodoPatch{Task: &blank})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Get(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
