package controllers

import (
	"log/slog"
	"net/http"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/domain"
)

// EventStream upgrades a request into a websocket subscribed to one event.
type EventStream interface {
	Serve(w http.ResponseWriter, r *http.Request, eventID int64, requester *domain.Requester) error
}

type RealtimeController struct {
	Logger  *slog.Logger
	Events  domain.EventService
	Streams EventStream
}

func NewRealtimeController(logger *slog.Logger, events domain.EventService, streams EventStream) *RealtimeController {
	return &RealtimeController{
		Logger:  logger,
		Events:  events,
		Streams: streams,
	}
}

// Subscribe godoc
// @Summary Live event feed and party chat
// @Description Websocket. Pushes participant and todo changes for the event. Authenticated clients may send {"text": "..."} chat messages. Browsers may pass the access token as the access_token query parameter.
// @Tags realtime
// @Param id path int true "Event ID"
// @Param access_token query string false "Access token"
// @Success 101
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /ws/events/{id} [get]
func (c *RealtimeController) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := c.Events.GetEvent(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if err := c.Streams.Serve(w, r, id, middleware.RequesterFromContext(r.Context())); err != nil {
		// The upgrader has already written a response on failure.
		c.Logger.WarnContext(r.Context(), "websocket upgrade failed", "event_id", id, "err", err)
	}
}
