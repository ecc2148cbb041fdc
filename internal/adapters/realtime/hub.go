package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olahol/melody"

	"joiny/internal/domain"
)

// Session keys.
const (
	keyEventID  = "event_id"
	keyUserID   = "user_id"
	keyUsername = "username"
)

const maxChatLength = 1000

// ChatMessage is the payload of a chat.message notification.
type ChatMessage struct {
	UserID   int64     `json:"user"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
}

type chatInput struct {
	Text string `json:"text"`
}

// Hub fans notifications out to websocket clients watching an event and
// relays party chat between them. It implements domain.Notifier.
type Hub struct {
	m      *melody.Melody
	logger *slog.Logger
	now    func() time.Time
}

var _ domain.Notifier = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	m := melody.New()
	m.Config.MaxMessageSize = 4096
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &Hub{m: m, logger: logger, now: time.Now}

	m.HandleConnect(func(s *melody.Session) {
		eventID, _ := s.Get(keyEventID)
		h.logger.Debug("ws client connected", "event_id", eventID)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		eventID, _ := s.Get(keyEventID)
		h.logger.Debug("ws client disconnected", "event_id", eventID)
	})
	m.HandleError(func(s *melody.Session, err error) {
		h.logger.Warn("ws error", "err", err)
	})
	m.HandleMessage(h.handleChat)
	return h
}

// Serve upgrades the request and subscribes the connection to eventID.
// Anonymous connections receive notifications but cannot chat.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, eventID int64, requester *domain.Requester) error {
	keys := map[string]any{keyEventID: eventID}
	if requester != nil {
		keys[keyUserID] = requester.UserID
		keys[keyUsername] = requester.Username
	}
	return h.m.HandleRequestWithKeys(w, r, keys)
}

func (h *Hub) Publish(n domain.Notification) {
	msg, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("encode notification", "type", n.Type, "err", err)
		return
	}
	err = h.m.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, ok := s.Get(keyEventID)
		return ok && id == n.EventID
	})
	if err != nil && err != melody.ErrClosed {
		h.logger.Warn("broadcast notification", "type", n.Type, "event_id", n.EventID, "err", err)
	}
}

func (h *Hub) handleChat(s *melody.Session, raw []byte) {
	userID, ok := s.Get(keyUserID)
	if !ok {
		return
	}
	eventID, _ := s.Get(keyEventID)
	username, _ := s.Get(keyUsername)

	var in chatInput
	if err := json.Unmarshal(raw, &in); err != nil {
		h.logger.Debug("drop malformed chat message", "err", err)
		return
	}
	text := strings.TrimSpace(in.Text)
	if text == "" || len(text) > maxChatLength {
		return
	}

	id, _ := eventID.(int64)
	uid, _ := userID.(int64)
	name, _ := username.(string)
	h.Publish(domain.Notification{
		Type:    domain.NotifyChatMessage,
		EventID: id,
		Data:    ChatMessage{UserID: uid, Username: name, Text: text, SentAt: h.now().UTC()},
	})
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	return h.m.Len()
}

// Shutdown closes every connection.
func (h *Hub) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- h.m.CloseWithMsg(melody.FormatCloseMessage(1001, "server shutting down")) }()
	select {
	case err := <-done:
		if err == melody.ErrClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
