package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/domain"
)

// writeServiceError maps domain errors to status codes. Anything unrecognised is logged and
// reported as 500 without leaking details.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, inputMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrCapacityExceeded):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeCapacityExceeded, "event is full")
	case errors.Is(err, domain.ErrDuplicateUser):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "username or email already registered")
	case errors.Is(err, domain.ErrAlreadyJoined), errors.Is(err, domain.ErrDuplicateInviteCode):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

// inputMessage strips the sentinel prefix from "invalid input: <detail>".
func inputMessage(err error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return detail
	}
	return msg
}
