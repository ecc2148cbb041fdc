package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joiny/internal/domain"
)

type subscriber struct {
	eventID   int64
	requester *domain.Requester
}

func startHub(t *testing.T, subs ...subscriber) (*Hub, []*websocket.Conn) {
	t.Helper()
	hub := NewHub(nil)

	next := make(chan subscriber, len(subs))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := <-next
		_ = hub.Serve(w, r, s.eventID, s.requester)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conns := make([]*websocket.Conn, 0, len(subs))
	for _, s := range subs {
		next <- s
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
		conns = append(conns, c)
	}
	require.Eventually(t, func() bool { return hub.Len() == len(subs) }, 2*time.Second, 10*time.Millisecond)
	return hub, conns
}

func readNotification(t *testing.T, c *websocket.Conn) (domain.Notification, json.RawMessage) {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := c.ReadMessage()
	require.NoError(t, err)
	var n struct {
		domain.Notification
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &n))
	return n.Notification, n.Data
}

func assertSilent(t *testing.T, c *websocket.Conn) {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := c.ReadMessage()
	require.Error(t, err)
}

func TestHub_PublishOnlyReachesEventWatchers(t *testing.T) {
	hub, conns := startHub(t, subscriber{eventID: 1}, subscriber{eventID: 1}, subscriber{eventID: 2})

	hub.Publish(domain.Notification{Type: domain.NotifyParticipantJoined, EventID: 1, Data: map[string]string{"name": "bob"}})

	for _, c := range conns[:2] {
		n, _ := readNotification(t, c)
		assert.Equal(t, domain.NotifyParticipantJoined, n.Type)
		assert.Equal(t, int64(1), n.EventID)
	}
	assertSilent(t, conns[2])
}

func TestHub_Chat(t *testing.T) {
	alice := &domain.Requester{UserID: 1, Username: "alice"}
	_, conns := startHub(t, subscriber{eventID: 1, requester: alice}, subscriber{eventID: 1})

	require.NoError(t, conns[0].WriteMessage(websocket.TextMessage, []byte(`{"text":"  see you at 8  "}`)))

	for _, c := range conns {
		n, data := readNotification(t, c)
		assert.Equal(t, domain.NotifyChatMessage, n.Type)
		var msg ChatMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "alice", msg.Username)
		assert.Equal(t, "see you at 8", msg.Text)
	}
}

func TestHub_AnonymousCannotChat(t *testing.T) {
	_, conns := startHub(t, subscriber{eventID: 1}, subscriber{eventID: 1})

	require.NoError(t, conns[0].WriteMessage(websocket.TextMessage, []byte(`{"text":"hello"}`)))
	assertSilent(t, conns[1])
}
