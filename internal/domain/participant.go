package domain

import (
	"context"
	"time"
)

// JoinMode selects who may join an event.
type JoinMode string

const (
	// JoinModeAuthenticated requires a signed-in requester.
	JoinModeAuthenticated JoinMode = "authenticated"
	// JoinModeGuest also accepts anonymous requesters that supply a display name.
	JoinModeGuest JoinMode = "guest"
)

// Valid reports whether m is a known join mode.
func (m JoinMode) Valid() bool {
	return m == JoinModeAuthenticated || m == JoinModeGuest
}

// Participant links a user (or a bare display name for guests) to an event.
// swagger:model Participant
type Participant struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"event" db:"event_id"`
	UserID    *int64    `json:"user" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BelongsTo reports whether the participant row is owned by userID.
func (p *Participant) BelongsTo(userID int64) bool {
	return p.UserID != nil && *p.UserID == userID
}

// JoinRequest is the input of the join workflow. EventRef is either a numeric
// event id or an invite code. Requester is nil for anonymous callers.
type JoinRequest struct {
	EventRef  string
	Name      string
	Requester *Requester
}

// ParticipantFilter narrows participant listings.
type ParticipantFilter struct {
	EventID *int64
}

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	// Create inserts the participant. It returns ErrAlreadyJoined when the
	// (event, user) pair already exists.
	Create(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id int64) (*Participant, error)
	GetByEventAndUser(ctx context.Context, eventID, userID int64) (*Participant, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
	ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*Participant, error)
	List(ctx context.Context, filter ParticipantFilter) ([]*Participant, error)
	UpdateName(ctx context.Context, id int64, name string) (*Participant, error)
	Delete(ctx context.Context, id int64) error
}

// ParticipantService defines the join workflow and participant management.
type ParticipantService interface {
	// Join resolves the event and registers the requester. Returns (p, created, err):
	// created is false when the requester had already joined.
	Join(ctx context.Context, req JoinRequest) (*Participant, bool, error)
	List(ctx context.Context, filter ParticipantFilter) ([]*Participant, error)
	Get(ctx context.Context, id int64) (*Participant, error)
	Rename(ctx context.Context, id int64, caller Requester, name string) (*Participant, error)
	Remove(ctx context.Context, id int64, caller Requester) error
}
