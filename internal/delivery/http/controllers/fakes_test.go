package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"joiny/internal/delivery/http/helpers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var alice = &domain.Requester{UserID: 1, Username: "alice"}

type testRequest struct {
	method    string
	target    string
	body      string
	requester *domain.Requester
	path      map[string]string
}

func serve(t *testing.T, handler http.HandlerFunc, tr testRequest) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader = http.NoBody
	if tr.body != "" {
		body = bytes.NewBufferString(tr.body)
	}
	req := httptest.NewRequest(tr.method, tr.target, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range tr.path {
		req.SetPathValue(k, v)
	}
	if tr.requester != nil {
		req = req.WithContext(middleware.WithRequester(req.Context(), tr.requester))
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

type fakeEventService struct {
	err    error
	event  *domain.Event
	events []*domain.Event
	total  int

	sent          int
	failed        []string
	invitations   []*domain.EventInvitation
	lastCaller    domain.Requester
	lastID        int64
	lastCreate    *domain.Event
	lastPatch     domain.EventPatch
	lastEmails    []string
	lastInviteURL func(string) string
	lastParams    domain.PaginationParams
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event, host domain.Requester) error {
	f.lastCreate = event
	f.lastCaller = host
	if f.err != nil {
		return f.err
	}
	event.ID = 7
	event.HostID = &host.UserID
	event.InviteCode = "c0de"
	return nil
}

func (f *fakeEventService) ListEvents(_ context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastParams = params
	return f.events, f.total, f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, id int64) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) GetByInviteCode(context.Context, string) (*domain.Event, error) {
	return f.event, f.err
}

func (f *fakeEventService) ReplaceEvent(_ context.Context, id int64, caller domain.Requester, event *domain.Event) (*domain.Event, error) {
	f.lastID, f.lastCaller, f.lastCreate = id, caller, event
	if f.err != nil {
		return nil, f.err
	}
	event.ID = id
	event.InviteCode = "c0de"
	return event, nil
}

func (f *fakeEventService) PatchEvent(_ context.Context, id int64, caller domain.Requester, patch domain.EventPatch) (*domain.Event, error) {
	f.lastID, f.lastCaller, f.lastPatch = id, caller, patch
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id int64, caller domain.Requester) error {
	f.lastID, f.lastCaller = id, caller
	return f.err
}

func (f *fakeEventService) SendInvitations(_ context.Context, id int64, caller domain.Requester, emails []string, inviteURL func(string) string) (int, []string, error) {
	f.lastID, f.lastCaller, f.lastEmails, f.lastInviteURL = id, caller, emails, inviteURL
	return f.sent, f.failed, f.err
}

func (f *fakeEventService) ListInvitations(_ context.Context, id int64, caller domain.Requester) ([]*domain.EventInvitation, error) {
	f.lastID, f.lastCaller = id, caller
	return f.invitations, f.err
}

type fakeParticipantService struct {
	err         error
	participant *domain.Participant
	created     bool
	list        []*domain.Participant

	lastJoin   domain.JoinRequest
	lastFilter domain.ParticipantFilter
	lastName   string
	lastCaller domain.Requester
}

func (f *fakeParticipantService) Join(_ context.Context, req domain.JoinRequest) (*domain.Participant, bool, error) {
	f.lastJoin = req
	return f.participant, f.created, f.err
}

func (f *fakeParticipantService) List(_ context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error) {
	f.lastFilter = filter
	return f.list, f.err
}

func (f *fakeParticipantService) Get(context.Context, int64) (*domain.Participant, error) {
	return f.participant, f.err
}

func (f *fakeParticipantService) Rename(_ context.Context, _ int64, caller domain.Requester, name string) (*domain.Participant, error) {
	f.lastCaller, f.lastName = caller, name
	return f.participant, f.err
}

func (f *fakeParticipantService) Remove(_ context.Context, _ int64, caller domain.Requester) error {
	f.lastCaller = caller
	return f.err
}

type fakeTodoService struct {
	err  error
	todo *domain.Todo
	list []*domain.Todo

	lastEventID int64
	lastCreate  *domain.Todo
	lastPatch   domain.TodoPatch
}

func (f *fakeTodoService) List(_ context.Context, eventID int64) ([]*domain.Todo, error) {
	f.lastEventID = eventID
	return f.list, f.err
}

func (f *fakeTodoService) Get(context.Context, int64) (*domain.Todo, error) {
	return f.todo, f.err
}

func (f *fakeTodoService) Create(_ context.Context, _ domain.Requester, todo *domain.Todo) error {
	f.lastCreate = todo
	if f.err != nil {
		return f.err
	}
	todo.ID = 3
	return nil
}

func (f *fakeTodoService) Update(_ context.Context, _ int64, _ domain.Requester, patch domain.TodoPatch) (*domain.Todo, error) {
	f.lastPatch = patch
	return f.todo, f.err
}

func (f *fakeTodoService) Delete(context.Context, int64, domain.Requester) error {
	return f.err
}

type fakeThemeService struct {
	err    error
	theme  *domain.Theme
	themes []*domain.Theme
}

func (f *fakeThemeService) List(context.Context) ([]*domain.Theme, error) { return f.themes, f.err }
func (f *fakeThemeService) Get(context.Context, int64) (*domain.Theme, error) {
	return f.theme, f.err
}
func (f *fakeThemeService) Seed(context.Context) (int, error) { return len(f.themes), f.err }

type fakeUserService struct {
	err  error
	user *domain.User
	pair domain.TokenPair

	lastLogin    string
	lastUsername string
	lastRefresh  string
}

func (f *fakeUserService) Register(_ context.Context, username, _, _ string) (*domain.User, domain.TokenPair, error) {
	f.lastUsername = username
	return f.user, f.pair, f.err
}

func (f *fakeUserService) Login(_ context.Context, login, _ string) (*domain.User, domain.TokenPair, error) {
	f.lastLogin = login
	return f.user, f.pair, f.err
}

func (f *fakeUserService) Refresh(_ context.Context, token string) (domain.TokenPair, error) {
	f.lastRefresh = token
	return f.pair, f.err
}

func (f *fakeUserService) GetByID(context.Context, int64) (*domain.User, error) {
	return f.user, f.err
}
