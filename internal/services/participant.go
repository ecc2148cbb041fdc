package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"joiny/internal/domain"
)

type participantService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	tx              domain.TxManager
	notifier        domain.Notifier
	joinMode        domain.JoinMode
	contextTimeout  time.Duration
}

// NewParticipantService returns the join workflow and participant management.
// An unknown join mode falls back to JoinModeAuthenticated.
func NewParticipantService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	tx domain.TxManager,
	notifier domain.Notifier,
	joinMode domain.JoinMode,
	timeout time.Duration,
) domain.ParticipantService {
	if !joinMode.Valid() {
		joinMode = domain.JoinModeAuthenticated
	}
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &participantService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		tx:              tx,
		notifier:        notifier,
		joinMode:        joinMode,
		contextTimeout:  timeout,
	}
}

func (s *participantService) Join(ctx context.Context, req domain.JoinRequest) (*domain.Participant, bool, error) {
	if req.Requester == nil && s.joinMode == domain.JoinModeAuthenticated {
		return nil, false, domain.ErrUnauthorized
	}

	ref := strings.TrimSpace(req.EventRef)
	if ref == "" {
		return nil, false, fmt.Errorf("%w: event is required", domain.ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" && req.Requester != nil {
		name = req.Requester.Username
	}
	if name == "" {
		return nil, false, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.resolveEvent(ctx, ref)
	if err != nil {
		return nil, false, err
	}

	var (
		participant *domain.Participant
		created     bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.eventRepo.LockByID(ctx, event.ID)
		if err != nil {
			return err
		}

		if req.Requester != nil {
			existing, err := s.participantRepo.GetByEventAndUser(ctx, locked.ID, req.Requester.UserID)
			if err == nil {
				participant = existing
				return nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("get participant: %w", err)
			}
		}

		count, err := s.participantRepo.CountByEvent(ctx, locked.ID)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		if locked.IsFull(count) {
			return domain.ErrCapacityExceeded
		}

		p := &domain.Participant{
			EventID:   locked.ID,
			Name:      name,
			CreatedAt: time.Now(),
		}
		if req.Requester != nil {
			userID := req.Requester.UserID
			p.UserID = &userID
		}
		if err := s.participantRepo.Create(ctx, p); err != nil {
			return err
		}
		participant = p
		created = true
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyJoined) && req.Requester != nil:
		// A concurrent join won the unique index; the transaction is aborted so read outside it.
		existing, getErr := s.participantRepo.GetByEventAndUser(ctx, event.ID, req.Requester.UserID)
		if getErr != nil {
			return nil, false, fmt.Errorf("get participant after conflict: %w", getErr)
		}
		return existing, false, nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCapacityExceeded):
		return nil, false, err
	default:
		return nil, false, fmt.Errorf("join event: %w", err)
	}

	if created {
		s.notifier.Publish(domain.Notification{Type: domain.NotifyParticipantJoined, EventID: participant.EventID, Data: participant})
	}
	return participant, created, nil
}

// resolveEvent treats an all-digit ref as an event id and anything else as an invite code.
func (s *participantService) resolveEvent(ctx context.Context, ref string) (*domain.Event, error) {
	var (
		event *domain.Event
		err   error
	)
	if id, ok := parseEventID(ref); ok {
		event, err = s.eventRepo.GetByID(ctx, id)
	} else {
		event, err = s.eventRepo.GetByInviteCode(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve event: %w", err)
	}
	return event, nil
}

func parseEventID(ref string) (int64, bool) {
	for _, r := range ref {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *participantService) List(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	participants, err := s.participantRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

func (s *participantService) Get(ctx context.Context, id int64) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}

func (s *participantService) Rename(ctx context.Context, id int64, caller domain.Requester, name string) (*domain.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.authorize(ctx, id, caller); err != nil {
		return nil, err
	}
	updated, err := s.participantRepo.UpdateName(ctx, id, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("rename participant: %w", err)
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyParticipantUpdate, EventID: updated.EventID, Data: updated})
	return updated, nil
}

func (s *participantService) Remove(ctx context.Context, id int64, caller domain.Requester) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.authorize(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := s.participantRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete participant: %w", err)
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyParticipantLeft, EventID: p.EventID, Data: p})
	return nil
}

// authorize loads the participant and allows its own user or the event host.
func (s *participantService) authorize(ctx context.Context, id int64, caller domain.Requester) (*domain.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if p.BelongsTo(caller.UserID) {
		return p, nil
	}
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsHostedBy(caller.UserID) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
