package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"joiny/internal/delivery/http/controllers"
	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Events       *controllers.EventController
	Participants *controllers.ParticipantController
	Todos        *controllers.TodoController
	Themes       *controllers.ThemeController
	Realtime     *controllers.RealtimeController
}

// NewRouter initializes the HTTP router with all application routes.
// Every collection and item path is served with and without a trailing slash.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	optional := middleware.OptionalAuth(verifier, logger)

	route := func(method, path string, handler http.HandlerFunc) {
		mux.HandleFunc(method+" "+path, handler)
		mux.HandleFunc(method+" "+path+"/{$}", handler)
	}

	// Auth
	route("POST", "/auth/register", c.Auth.Register)
	route("POST", "/auth/login", c.Auth.Login)
	route("POST", "/auth/refresh", c.Auth.Refresh)
	route("GET", "/auth/me", auth(c.Auth.Me))

	// Events
	route("GET", "/events", c.Events.ListEvents)
	route("POST", "/events", auth(c.Events.CreateEvent))
	route("GET", "/events/{id}", c.Events.GetEvent)
	route("PUT", "/events/{id}", auth(c.Events.ReplaceEvent))
	route("PATCH", "/events/{id}", auth(c.Events.PatchEvent))
	route("DELETE", "/events/{id}", auth(c.Events.DeleteEvent))
	route("GET", "/events/{id}/{sub}", eventSubresource(c.Events.GetByInviteCode, auth(c.Events.ListInvitations)))
	route("POST", "/events/{id}/invitations", auth(c.Events.SendInvitations))

	// Participants
	route("GET", "/participants", c.Participants.ListParticipants)
	route("POST", "/participants", optional(c.Participants.Join))
	route("GET", "/participants/{id}", c.Participants.GetParticipant)
	route("PUT", "/participants/{id}", auth(c.Participants.RenameParticipant))
	route("PATCH", "/participants/{id}", auth(c.Participants.RenameParticipant))
	route("DELETE", "/participants/{id}", auth(c.Participants.RemoveParticipant))

	// Todos
	route("GET", "/todos", c.Todos.ListTodos)
	route("POST", "/todos", auth(c.Todos.CreateTodo))
	route("GET", "/todos/{id}", c.Todos.GetTodo)
	route("PUT", "/todos/{id}", auth(c.Todos.UpdateTodo))
	route("PATCH", "/todos/{id}", auth(c.Todos.UpdateTodo))
	route("DELETE", "/todos/{id}", auth(c.Todos.DeleteTodo))

	// Themes
	route("GET", "/themes", c.Themes.ListThemes)
	route("GET", "/themes/{id}", c.Themes.GetTheme)

	// Realtime
	mux.HandleFunc("GET /ws/events/{id}", optional(c.Realtime.Subscribe))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// eventSubresource serves GET /events/{id}/{sub}. The invite-code lookup and the
// invitation list share that shape, so ServeMux cannot route them separately.
func eventSubresource(byInviteCode, invitations http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.PathValue("id") == "by_invite_code":
			r.SetPathValue("code", r.PathValue("sub"))
			byInviteCode(w, r)
		case r.PathValue("sub") == "invitations":
			invitations(w, r)
		default:
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
		}
	}
}
