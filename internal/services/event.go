package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"joiny/internal/domain"
)

// inviteCodeAttempts bounds retries when a generated invite code collides.
const inviteCodeAttempts = 3

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	invitationRepo  domain.EventInvitationRepository
	emailService    domain.EmailService
	notifier        domain.Notifier
	logger          *slog.Logger
	contextTimeout  time.Duration
	newInviteCode   func() string
}

func NewEventService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	invitationRepo domain.EventInvitationRepository,
	emailService domain.EmailService,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		invitationRepo:  invitationRepo,
		emailService:    emailService,
		notifier:        notifier,
		logger:          logger,
		contextTimeout:  timeout,
		newInviteCode:   func() string { return uuid.NewString() },
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, host domain.Requester) error {
	if err := validateEvent(event); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	hostID := host.UserID
	event.HostID = &hostID
	if strings.TrimSpace(event.HostName) == "" {
		event.HostName = host.Username
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	for attempt := 1; ; attempt++ {
		event.InviteCode = s.newInviteCode()
		err := s.eventRepo.Create(ctx, event)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateInviteCode) && attempt < inviteCodeAttempts {
			continue
		}
		return fmt.Errorf("create event: %w", err)
	}
	event.Members = []*domain.Participant{}
	return nil
}

// validateEvent normalises the writable fields shared by create and full replace.
func validateEvent(event *domain.Event) error {
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if event.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if event.MaxMembers < 0 {
		return fmt.Errorf("%w: max_members must not be negative", domain.ErrInvalidInput)
	}
	if event.Fee < 0 {
		return fmt.Errorf("%w: fee must not be negative", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(event.Theme) == "" {
		event.Theme = domain.DefaultTheme
	}
	return nil
}

func (s *eventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if err := s.attachMembers(ctx, events...); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachMembers(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetByInviteCode(ctx context.Context, code string) (*domain.Event, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by invite code: %w", err)
	}
	if err := s.attachMembers(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ReplaceEvent(ctx context.Context, id int64, caller domain.Requester, event *domain.Event) (*domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.getHostedEvent(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	// Identity, ownership and the invite code are not replaceable.
	event.ID = current.ID
	event.HostID = current.HostID
	event.InviteCode = current.InviteCode
	event.CreatedAt = current.CreatedAt
	event.UpdatedAt = time.Now()
	if strings.TrimSpace(event.HostName) == "" {
		event.HostName = current.HostName
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := s.attachMembers(ctx, event); err != nil {
		return nil, err
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyEventUpdated, EventID: event.ID, Data: event})
	return event, nil
}

func (s *eventService) PatchEvent(ctx context.Context, id int64, caller domain.Requester, patch domain.EventPatch) (*domain.Event, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", domain.ErrInvalidInput)
		}
		patch.Name = &name
	}
	if patch.MaxMembers != nil && *patch.MaxMembers < 0 {
		return nil, fmt.Errorf("%w: max_members must not be negative", domain.ErrInvalidInput)
	}
	if patch.Fee != nil && *patch.Fee < 0 {
		return nil, fmt.Errorf("%w: fee must not be negative", domain.ErrInvalidInput)
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return nil, fmt.Errorf("%w: date must not be empty", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getHostedEvent(ctx, id, caller); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.Patch(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("patch event: %w", err)
	}
	if err := s.attachMembers(ctx, updated); err != nil {
		return nil, err
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyEventUpdated, EventID: updated.ID, Data: updated})
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64, caller domain.Requester) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getHostedEvent(ctx, id, caller); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.notifier.Publish(domain.Notification{Type: domain.NotifyEventDeleted, EventID: id})
	return nil
}

func (s *eventService) SendInvitations(ctx context.Context, id int64, caller domain.Requester, emails []string, inviteURL func(code string) string) (sent int, failed []string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getHostedEvent(ctx, id, caller)
	if err != nil {
		return 0, nil, err
	}

	hostName := event.HostName
	if hostName == "" {
		hostName = caller.Username
	}

	for _, email := range emails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			continue
		}
		inv := &domain.EventInvitation{
			EventID: event.ID,
			Email:   email,
			SentAt:  time.Now(),
		}
		if err := s.invitationRepo.Create(ctx, inv); err != nil {
			s.logger.WarnContext(ctx, "store invitation failed", "event_id", event.ID, "email", email, "err", err)
			failed = append(failed, email)
			continue
		}
		data := &domain.EventInvitationEmailData{
			Email:     email,
			HostName:  hostName,
			EventName: event.Name,
			EventDate: event.Date.String(),
			InviteURL: inviteURL(event.InviteCode),
		}
		if err := s.emailService.SendEventInvitation(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "send invitation failed", "event_id", event.ID, "email", email, "err", err)
			failed = append(failed, email)
			continue
		}
		sent++
	}
	return sent, failed, nil
}

func (s *eventService) ListInvitations(ctx context.Context, id int64, caller domain.Requester) ([]*domain.EventInvitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getHostedEvent(ctx, id, caller); err != nil {
		return nil, err
	}
	list, err := s.invitationRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	if list == nil {
		list = []*domain.EventInvitation{}
	}
	return list, nil
}

func (s *eventService) getEvent(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) getHostedEvent(ctx context.Context, id int64, caller domain.Requester) (*domain.Event, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsHostedBy(caller.UserID) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// attachMembers loads participants for all events in one query.
func (s *eventService) attachMembers(ctx context.Context, events ...*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]int64, len(events))
	byID := make(map[int64]*domain.Event, len(events))
	for i, e := range events {
		ids[i] = e.ID
		e.Members = []*domain.Participant{}
		byID[e.ID] = e
	}
	members, err := s.participantRepo.ListByEventIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if e, ok := byID[m.EventID]; ok {
			e.Members = append(e.Members, m)
		}
	}
	return nil
}
