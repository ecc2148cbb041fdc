package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/domain"
)

// CreateTodoRequest is the request body for POST /todos/
type CreateTodoRequest struct {
	Event       int64  `json:"event"`
	Task        string `json:"task"`
	IsCompleted bool   `json:"is_completed"`
}

// Validate implements Validator.
func (t CreateTodoRequest) Validate() []string {
	var errs []string
	if t.Event < 1 {
		errs = append(errs, "event is required")
	}
	if strings.TrimSpace(t.Task) == "" {
		errs = append(errs, "task is required")
	}
	return errs
}

// UpdateTodoRequest is the request body for PUT/PATCH /todos/{id}/. Omitted fields are unchanged.
type UpdateTodoRequest struct {
	Task        *string `json:"task"`
	IsCompleted *bool   `json:"is_completed"`
	// Event is accepted so a PUT can echo the full object; it cannot be changed.
	Event *int64 `json:"event"`
}

// Validate implements Validator.
func (t UpdateTodoRequest) Validate() []string {
	var errs []string
	if t.Task != nil && strings.TrimSpace(*t.Task) == "" {
		errs = append(errs, "task must not be blank")
	}
	if t.Task == nil && t.IsCompleted == nil {
		errs = append(errs, "nothing to update")
	}
	return errs
}

type TodoController struct {
	Logger  *slog.Logger
	Service domain.TodoService
}

func NewTodoController(logger *slog.Logger, svc domain.TodoService) *TodoController {
	return &TodoController{
		Logger:  logger,
		Service: svc,
	}
}

// ListTodos godoc
// @Summary List an event's todos
// @Tags todos
// @Produce json
// @Param event query int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the todos"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /todos/ [get]
func (c *TodoController) ListTodos(w http.ResponseWriter, r *http.Request) {
	eventID, present, err := h.QueryID(r, "event")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event")
		return
	}
	if !present {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "event query parameter is required")
		return
	}
	list, err := c.Service.List(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// CreateTodo godoc
// @Summary Add a todo
// @Description Requires the event host or a participant.
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTodoRequest true "Todo"
// @Success 201 {object} helpers.APIResponse "data contains the todo"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /todos/ [post]
func (c *TodoController) CreateTodo(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateTodoRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	todo := &domain.Todo{EventID: req.Event, Task: strings.TrimSpace(req.Task), IsCompleted: req.IsCompleted}
	if err := c.Service.Create(r.Context(), *caller, todo); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, todo)
}

// GetTodo godoc
// @Summary Get a todo
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} helpers.APIResponse "data contains the todo"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /todos/{id}/ [get]
func (c *TodoController) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	todo, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, todo)
}

// UpdateTodo godoc
// @Summary Update or toggle a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Param body body UpdateTodoRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the todo"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /todos/{id}/ [patch]
func (c *TodoController) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateTodoRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := domain.TodoPatch{IsCompleted: req.IsCompleted}
	if req.Task != nil {
		task := strings.TrimSpace(*req.Task)
		patch.Task = &task
	}
	todo, err := c.Service.Update(r.Context(), id, *caller, patch)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, todo)
}

// DeleteTodo godoc
// @Summary Delete a todo
// @Tags todos
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /todos/{id}/ [delete]
func (c *TodoController) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id, *caller); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
