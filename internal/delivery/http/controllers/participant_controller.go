package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/domain"
)

// Join statuses reported in JoinResponse.
const (
	JoinStatusJoined        = "joined"
	JoinStatusAlreadyJoined = "already_joined"
)

// EventRef is an event id or invite code. It accepts a JSON number or string.
type EventRef string

func (e *EventRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = EventRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("event must be an id or an invite code")
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return errors.New("event must be an id or an invite code")
	}
	*e = EventRef(n.String())
	return nil
}

// JoinRequest is the request body for POST /participants/
type JoinRequest struct {
	Event EventRef `json:"event" swaggertype:"string"`
	Name  string   `json:"name"`
}

// Validate implements Validator.
func (j JoinRequest) Validate() []string {
	if strings.TrimSpace(string(j.Event)) == "" {
		return []string{"event is required"}
	}
	return nil
}

// JoinResponse is the body returned by POST /participants/
type JoinResponse struct {
	Status      string              `json:"status"`
	Participant *domain.Participant `json:"participant"`
}

// RenameParticipantRequest is the request body for PUT/PATCH /participants/{id}/
type RenameParticipantRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (p RenameParticipantRequest) Validate() []string {
	if strings.TrimSpace(p.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

type ParticipantController struct {
	Logger   *slog.Logger
	Service  domain.ParticipantService
	JoinMode domain.JoinMode
}

// NewParticipantController returns the participant handlers. An unknown join mode is treated as authenticated.
func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService, joinMode domain.JoinMode) *ParticipantController {
	if !joinMode.Valid() {
		joinMode = domain.JoinModeAuthenticated
	}
	return &ParticipantController{
		Logger:   logger,
		Service:  svc,
		JoinMode: joinMode,
	}
}

// Join godoc
// @Summary Join an event
// @Description Join by numeric event id or invite code. Joining twice returns the existing participant with status already_joined. Anonymous joins are allowed only when JOIN_MODE=guest.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinRequest true "Event reference and optional display name"
// @Success 201 {object} helpers.APIResponse "data.status: joined"
// @Success 200 {object} helpers.APIResponse "data.status: already_joined"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/ [post]
func (c *ParticipantController) Join(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())
	if requester == nil && c.JoinMode == domain.JoinModeAuthenticated {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req JoinRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	participant, created, err := c.Service.Join(r.Context(), domain.JoinRequest{
		EventRef:  string(req.Event),
		Name:      req.Name,
		Requester: requester,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if !created {
		h.WriteJSONSuccess(w, http.StatusOK, JoinResponse{Status: JoinStatusAlreadyJoined, Participant: participant})
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, JoinResponse{Status: JoinStatusJoined, Participant: participant})
}

// ListParticipants godoc
// @Summary List participants
// @Tags participants
// @Produce json
// @Param event query int false "Filter by event ID"
// @Success 200 {object} helpers.APIResponse "data contains the participants"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /participants/ [get]
func (c *ParticipantController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, present, err := h.QueryID(r, "event")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event")
		return
	}
	var filter domain.ParticipantFilter
	if present {
		filter.EventID = &eventID
	}
	list, err := c.Service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// GetParticipant godoc
// @Summary Get a participant
// @Tags participants
// @Produce json
// @Param id path int true "Participant ID"
// @Success 200 {object} helpers.APIResponse "data contains the participant"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /participants/{id}/ [get]
func (c *ParticipantController) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	p, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, p)
}

// RenameParticipant godoc
// @Summary Change a participant's display name
// @Description Allowed for the participant's own user and the event host.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Participant ID"
// @Param body body RenameParticipantRequest true "New name"
// @Success 200 {object} helpers.APIResponse "data contains the participant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /participants/{id}/ [patch]
func (c *ParticipantController) RenameParticipant(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req RenameParticipantRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.Rename(r.Context(), id, *caller, req.Name)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, p)
}

// RemoveParticipant godoc
// @Summary Leave an event
// @Description Allowed for the participant's own user and the event host.
// @Tags participants
// @Security BearerAuth
// @Param id path int true "Participant ID"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /participants/{id}/ [delete]
func (c *ParticipantController) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Remove(r.Context(), id, *caller); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
