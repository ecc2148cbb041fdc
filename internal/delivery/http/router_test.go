package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"joiny/internal/delivery/http/controllers"
	"joiny/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubVerifier struct{}

func (stubVerifier) VerifyAccess(token string) (*domain.Requester, error) {
	if token == "good" {
		return &domain.Requester{UserID: 1, Username: "alice"}, nil
	}
	return nil, errors.New("bad token")
}

func (stubVerifier) VerifyRefresh(string) (*domain.Requester, error) {
	return nil, errors.New("not used")
}

// Only the methods exercised by the routes under test are implemented.
type stubEvents struct {
	domain.EventService
	lastCode string
	listed   bool
}

func (s *stubEvents) GetByInviteCode(_ context.Context, code string) (*domain.Event, error) {
	s.lastCode = code
	return &domain.Event{ID: 1, InviteCode: code}, nil
}

func (s *stubEvents) ListInvitations(context.Context, int64, domain.Requester) ([]*domain.EventInvitation, error) {
	s.listed = true
	return []*domain.EventInvitation{}, nil
}

type stubThemes struct{ domain.ThemeService }

func (stubThemes) List(context.Context) ([]*domain.Theme, error) {
	return []*domain.Theme{{ID: 1, Name: "basic"}}, nil
}

func newTestRouter(events *stubEvents) *http.ServeMux {
	return NewRouter(Controllers{
		Auth:         controllers.NewAuthController(testLogger, nil),
		Events:       controllers.NewEventController(testLogger, events, ""),
		Participants: controllers.NewParticipantController(testLogger, nil, domain.JoinModeAuthenticated),
		Todos:        controllers.NewTodoController(testLogger, nil),
		Themes:       controllers.NewThemeController(testLogger, stubThemes{}),
		Realtime:     controllers.NewRealtimeController(testLogger, events, nil),
	}, stubVerifier{}, testLogger)
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "themes without slash", method: http.MethodGet, path: "/themes", wantStatus: http.StatusOK},
		{name: "themes with slash", method: http.MethodGet, path: "/themes/", wantStatus: http.StatusOK},
		{name: "create event needs auth", method: http.MethodPost, path: "/events/", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "bad token rejected", method: http.MethodPost, path: "/events", token: "bad", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "anonymous join rejected before body checks", method: http.MethodPost, path: "/participants/", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "join with bad token rejected", method: http.MethodPost, path: "/participants/", token: "bad", body: `{"event":1}`, wantStatus: http.StatusUnauthorized},
		{name: "todo update needs auth", method: http.MethodPatch, path: "/todos/1/", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "invitations need auth", method: http.MethodGet, path: "/events/1/invitations/", wantStatus: http.StatusUnauthorized},
		{name: "unknown event subresource", method: http.MethodGet, path: "/events/1/nothing", wantStatus: http.StatusNotFound},
		{name: "method not allowed", method: http.MethodDelete, path: "/themes/", wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestRouter(&stubEvents{})
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			mux.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRouter_EventSubresources(t *testing.T) {
	events := &stubEvents{}
	mux := newTestRouter(events)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events/by_invite_code/abc-123/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc-123", events.lastCode)

	req := httptest.NewRequest(http.MethodGet, "/events/7/invitations", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, events.listed)
}
