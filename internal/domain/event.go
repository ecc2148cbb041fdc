package domain

import (
	"context"
	"time"
)

// DefaultTheme is stored when an event is created without a theme.
const DefaultTheme = "basic"

// Event represents a party. InviteCode is generated once at creation and never changes.
// swagger:model Event
type Event struct {
	ID              int64          `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	Description     string         `json:"description" db:"description"`
	Date            Date           `json:"date" db:"date"`
	LocationName    *string        `json:"location_name" db:"location_name"`
	Latitude        *float64       `json:"latitude" db:"latitude"`
	Longitude       *float64       `json:"longitude" db:"longitude"`
	PlaceID         *string        `json:"place_id" db:"place_id"`
	Theme           string         `json:"theme" db:"theme"`
	FoodDescription *string        `json:"food_description" db:"food_description"`
	HostID          *int64         `json:"host_id" db:"host_id"`
	HostName        string         `json:"host_name" db:"host_name"`
	Fee             int64          `json:"fee" db:"fee"`
	MaxMembers      int            `json:"max_members" db:"max_members"`
	InviteCode      string         `json:"invite_code" db:"invite_code"`
	InviteURL       string         `json:"invite_url" db:"-"`
	Members         []*Participant `json:"members" db:"-"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// IsHostedBy reports whether userID is the event host.
func (e *Event) IsHostedBy(userID int64) bool {
	return e.HostID != nil && *e.HostID == userID
}

// IsFull reports whether count participants already fill the event. A zero MaxMembers means unlimited.
func (e *Event) IsFull(count int) bool {
	return e.MaxMembers > 0 && count >= e.MaxMembers
}

// EventPatch carries a partial event update. Nil fields are left unchanged.
type EventPatch struct {
	Name            *string
	Description     *string
	Date            *Date
	LocationName    *string
	Latitude        *float64
	Longitude       *float64
	PlaceID         *string
	Theme           *string
	FoodDescription *string
	HostName        *string
	Fee             *int64
	MaxMembers      *int
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Date == nil &&
		p.LocationName == nil && p.Latitude == nil && p.Longitude == nil &&
		p.PlaceID == nil && p.Theme == nil && p.FoodDescription == nil &&
		p.HostName == nil && p.Fee == nil && p.MaxMembers == nil
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetByInviteCode(ctx context.Context, code string) (*Event, error)
	// LockByID loads the event and locks its row until the surrounding transaction ends.
	LockByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	// Update overwrites every mutable column of the event.
	Update(ctx context.Context, event *Event) error
	Patch(ctx context.Context, id int64, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventService defines event management and the invite-code lookup.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, host Requester) error
	ListEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	GetByInviteCode(ctx context.Context, code string) (*Event, error)
	ReplaceEvent(ctx context.Context, id int64, caller Requester, event *Event) (*Event, error)
	PatchEvent(ctx context.Context, id int64, caller Requester, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id int64, caller Requester) error
	SendInvitations(ctx context.Context, id int64, caller Requester, emails []string, inviteURL func(code string) string) (sent int, failed []string, err error)
	ListInvitations(ctx context.Context, id int64, caller Requester) ([]*EventInvitation, error)
}
