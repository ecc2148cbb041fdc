package domain

import (
	"context"
	"time"
)

// EventInvitation records an invite-link email sent by the host.
// swagger:model EventInvitation
type EventInvitation struct {
	ID      int64     `json:"id" db:"id"`
	EventID int64     `json:"event_id" db:"event_id"`
	Email   string    `json:"email" db:"email"`
	SentAt  time.Time `json:"sent_at" db:"sent_at"`
}

// EventInvitationRepository defines storage operations for event invitations.
type EventInvitationRepository interface {
	Create(ctx context.Context, inv *EventInvitation) error
	ListByEventID(ctx context.Context, eventID int64) ([]*EventInvitation, error)
}
