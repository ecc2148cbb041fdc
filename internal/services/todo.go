package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"joiny/internal/domain"
)

type todoService struct {
	todoRepo        domain.TodoRepository
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	notifier        domain.Notifier
	contextTimeout  time.Duration
}

func NewTodoService(todoRepo domain.TodoRepository,
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	notifier domain.Notifier,
	timeout time.Duration,
) domain.TodoService {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &todoService{
		todoRepo:        todoRepo,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		notifier:        notifier,
		contextTimeout:  timeout,
	}
}

func (s *todoService) List(ctx context.Context, eventID int64) ([]*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	todos, err := s.todoRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) Get(ctx context.Context, id int64) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.getTodo(ctx, id)
}

func (s *todoService) Create(ctx context.Context, caller domain.Requester, todo *domain.Todo) error {
	todo.Task = strings.TrimSpace(todo.Task)
	if todo.Task == "" {
		return fmt.Errorf("%w: task is required", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.checkAccess(ctx, todo.EventID, caller); err != nil {
		return err
	}
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create todo: %w", err)
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyTodoCreated, EventID: todo.EventID, Data: todo})
	return nil
}

func (s *todoService) Update(ctx context.Context, id int64, caller domain.Requester, patch domain.TodoPatch) (*domain.Todo, error) {
	if patch.Task != nil {
		task := strings.TrimSpace(*patch.Task)
		if task == "" {
			return nil, fmt.Errorf("%w: task must not be blank", domain.ErrInvalidInput)
		}
		patch.Task = &task
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.getTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, current.EventID, caller); err != nil {
		return nil, err
	}
	updated, err := s.todoRepo.Patch(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyTodoUpdated, EventID: updated.EventID, Data: updated})
	return updated, nil
}

func (s *todoService) Delete(ctx context.Context, id int64, caller domain.Requester) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.getTodo(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkAccess(ctx, current.EventID, caller); err != nil {
		return err
	}
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyTodoDeleted, EventID: current.EventID, Data: current})
	return nil
}

func (s *todoService) getTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// checkAccess allows the event host and anyone who joined the event.
func (s *todoService) checkAccess(ctx context.Context, eventID int64, caller domain.Requester) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.IsHostedBy(caller.UserID) {
		return nil
	}
	_, err = s.participantRepo.GetByEventAndUser(ctx, eventID, caller.UserID)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrForbidden
	}
	return fmt.Errorf("get participant: %w", err)
}
