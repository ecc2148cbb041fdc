package controllers

import (
	"log/slog"
	"net/http"
	"net/mail"
	"net/url"
	"strings"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/domain"
)

// EventRequest is the request body for POST /events/ and PUT /events/{id}/.
type EventRequest struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Date            domain.Date `json:"date"`
	LocationName    *string     `json:"location_name"`
	Latitude        *float64    `json:"latitude"`
	Longitude       *float64    `json:"longitude"`
	PlaceID         *string     `json:"place_id"`
	Theme           string      `json:"theme"`
	FoodDescription *string     `json:"food_description"`
	HostName        string      `json:"host_name"`
	Fee             int64       `json:"fee"`
	MaxMembers      int         `json:"max_members"`
}

// Validate implements Validator.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "name is required")
	}
	if e.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	if e.Fee < 0 {
		errs = append(errs, "fee must not be negative")
	}
	if e.MaxMembers < 0 {
		errs = append(errs, "max_members must not be negative")
	}
	return append(errs, validateCoordinates(e.Latitude, e.Longitude)...)
}

func (e EventRequest) toEvent() *domain.Event {
	return &domain.Event{
		Name:            e.Name,
		Description:     e.Description,
		Date:            e.Date,
		LocationName:    e.LocationName,
		Latitude:        e.Latitude,
		Longitude:       e.Longitude,
		PlaceID:         e.PlaceID,
		Theme:           e.Theme,
		FoodDescription: e.FoodDescription,
		HostName:        e.HostName,
		Fee:             e.Fee,
		MaxMembers:      e.MaxMembers,
	}
}

// PatchEventRequest is the request body for PATCH /events/{id}/. Omitted fields are unchanged.
type PatchEventRequest struct {
	Name            *string      `json:"name"`
	Description     *string      `json:"description"`
	Date            *domain.Date `json:"date"`
	LocationName    *string      `json:"location_name"`
	Latitude        *float64     `json:"latitude"`
	Longitude       *float64     `json:"longitude"`
	PlaceID         *string      `json:"place_id"`
	Theme           *string      `json:"theme"`
	FoodDescription *string      `json:"food_description"`
	HostName        *string      `json:"host_name"`
	Fee             *int64       `json:"fee"`
	MaxMembers      *int         `json:"max_members"`
}

// Validate implements Validator.
func (p PatchEventRequest) Validate() []string {
	var errs []string
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if p.Fee != nil && *p.Fee < 0 {
		errs = append(errs, "fee must not be negative")
	}
	if p.MaxMembers != nil && *p.MaxMembers < 0 {
		errs = append(errs, "max_members must not be negative")
	}
	return append(errs, validateCoordinates(p.Latitude, p.Longitude)...)
}

func (p PatchEventRequest) toPatch() domain.EventPatch {
	return domain.EventPatch{
		Name:            p.Name,
		Description:     p.Description,
		Date:            p.Date,
		LocationName:    p.LocationName,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		PlaceID:         p.PlaceID,
		Theme:           p.Theme,
		FoodDescription: p.FoodDescription,
		HostName:        p.HostName,
		Fee:             p.Fee,
		MaxMembers:      p.MaxMembers,
	}
}

func validateCoordinates(lat, lng *float64) []string {
	var errs []string
	if lat != nil && (*lat < -90 || *lat > 90) {
		errs = append(errs, "latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		errs = append(errs, "longitude must be between -180 and 180")
	}
	return errs
}

// SendInvitationsRequest is the request body for POST /events/{id}/invitations/.
type SendInvitationsRequest struct {
	Emails []string `json:"emails"`
}

// Validate implements Validator.
func (s SendInvitationsRequest) Validate() []string {
	if len(s.Emails) == 0 {
		return []string{"emails is required"}
	}
	var errs []string
	for _, e := range s.Emails {
		if _, err := mail.ParseAddress(strings.TrimSpace(e)); err != nil {
			errs = append(errs, "invalid email: "+e)
		}
	}
	return errs
}

// SendInvitationsResponse reports how many invitations went out.
type SendInvitationsResponse struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed"`
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event `json:"data"`
	Error *h.APIError   `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events/.
type EventListSuccessResponse struct {
	Data  h.Paginated[*domain.Event] `json:"data"`
	Error *h.APIError                `json:"error"`
}

type EventController struct {
	Logger        *slog.Logger
	Service       domain.EventService
	PublicBaseURL string
}

func NewEventController(logger *slog.Logger, svc domain.EventService, publicBaseURL string) *EventController {
	return &EventController{
		Logger:        logger,
		Service:       svc,
		PublicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// inviteURLFunc builds the invite_url shown in responses. Without PublicBaseURL it falls back to
// the request origin, which the client controls, so it must never be used for outgoing mail.
func (c *EventController) inviteURLFunc(r *http.Request) func(code string) string {
	base := c.PublicBaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return inviteURL(base)
}

func inviteURL(base string) func(code string) string {
	return func(code string) string {
		return base + "/invite/" + url.PathEscape(code)
	}
}

func (c *EventController) decorate(r *http.Request, events ...*domain.Event) {
	build := c.inviteURLFunc(r)
	for _, e := range events {
		e.InviteURL = build(e.InviteCode)
	}
}

// ListEvents godoc
// @Summary List events
// @Description Events ordered by date, newest first, each with its members.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.decorate(r, events...)
	h.WriteJSONSuccess(w, http.StatusOK, h.Paginated[*domain.Event]{
		Items:      events,
		Pagination: h.NewPaginationMeta(params, total),
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Description The caller becomes the host. The invite code is generated by the server.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent()
	if err := c.Service.CreateEvent(r.Context(), event, *caller); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.decorate(r, event)
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/ [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.decorate(r, event)
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetByInviteCode godoc
// @Summary Resolve an invite code
// @Description Public lookup used by the invite page before joining.
// @Tags events
// @Produce json
// @Param code path string true "Invite code"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/by_invite_code/{code}/ [get]
func (c *EventController) GetByInviteCode(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetByInviteCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.decorate(r, event)
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ReplaceEvent godoc
// @Summary Replace an event
// @Description Host only. The invite code and host are kept.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/ [put]
func (c *EventController) ReplaceEvent(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.ReplaceEvent(r.Context(), id, *caller, req.toEvent())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.decorate(r, event)
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// PatchEvent godoc
// @Summary Update an event
// @Description Host only. Omitted fields are unchanged.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body PatchEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/ [patch]
func (c *EventController) PatchEvent(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req PatchEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.PatchEvent(r.Context(), id, *caller, req.toPatch())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.decorate(r, event)
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Host only. Participants, todos and invitations are removed with it.
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/ [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id, *caller); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendInvitations godoc
// @Summary Email invite links
// @Description Host only. Partial failures are reported in data.failed. Requires PUBLIC_BASE_URL.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body SendInvitationsRequest true "Recipients"
// @Success 200 {object} helpers.APIResponse "data contains sent and failed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/invitations/ [post]
func (c *EventController) SendInvitations(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req SendInvitationsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if c.PublicBaseURL == "" {
		c.Logger.ErrorContext(r.Context(), "invitations disabled: PUBLIC_BASE_URL is not set", "path", r.URL.Path)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "invitations are not configured")
		return
	}
	sent, failed, err := c.Service.SendInvitations(r.Context(), id, *caller, req.Emails, inviteURL(c.PublicBaseURL))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if failed == nil {
		failed = []string{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, SendInvitationsResponse{Sent: sent, Failed: failed})
}

// ListInvitations godoc
// @Summary List sent invitations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the invitations"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/invitations/ [get]
func (c *EventController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	list, err := c.Service.ListInvitations(r.Context(), id, *caller)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}
