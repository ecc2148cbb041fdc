package domain

// Notification types pushed to clients watching an event.
const (
	NotifyParticipantJoined = "participant.joined"
	NotifyParticipantLeft   = "participant.left"
	NotifyParticipantUpdate = "participant.updated"
	NotifyTodoCreated       = "todo.created"
	NotifyTodoUpdated       = "todo.updated"
	NotifyTodoDeleted       = "todo.deleted"
	NotifyEventUpdated      = "event.updated"
	NotifyEventDeleted      = "event.deleted"
	NotifyChatMessage       = "chat.message"
)

// Notification is a message fanned out to every client watching EventID.
type Notification struct {
	Type    string `json:"type"`
	EventID int64  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

// Notifier publishes notifications for an event. Publishing never fails the caller.
type Notifier interface {
	Publish(n Notification)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Publish(Notification) {}
