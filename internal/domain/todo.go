package domain

import (
	"context"
	"time"
)

// Todo is a shared task on an event's to-do board.
// swagger:model Todo
type Todo struct {
	ID          int64     `json:"id" db:"id"`
	EventID     int64     `json:"event" db:"event_id"`
	Task        string    `json:"task" db:"task"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TodoPatch carries a partial todo update. Nil fields are left unchanged.
type TodoPatch struct {
	Task        *string
	IsCompleted *bool
}

// TodoRepository defines storage operations for todos.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id int64) (*Todo, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Todo, error)
	Patch(ctx context.Context, id int64, patch TodoPatch) (*Todo, error)
	Delete(ctx context.Context, id int64) error
}

// TodoService manages an event's to-do board. Mutations require the caller to host or have joined the event.
type TodoService interface {
	List(ctx context.Context, eventID int64) ([]*Todo, error)
	Get(ctx context.Context, id int64) (*Todo, error)
	Create(ctx context.Context, caller Requester, todo *Todo) error
	Update(ctx context.Context, id int64, caller Requester, patch TodoPatch) (*Todo, error)
	Delete(ctx context.Context, id int64, caller Requester) error
}
