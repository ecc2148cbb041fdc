package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/domain"
)

// RegisterRequest is the request body for POST /auth/register/
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (s RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login/. Username may also be an email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Username) == "" {
		errs = append(errs, "username is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// RefreshRequest is the request body for POST /auth/refresh/
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Validate implements Validator.
func (rr RefreshRequest) Validate() []string {
	if strings.TrimSpace(rr.Refresh) == "" {
		return []string{"refresh is required"}
	}
	return nil
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User    *domain.User `json:"user"`
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewAuthController(logger *slog.Logger, svc domain.UserService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account and return an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains user, access and refresh"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/register/ [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, pair, err := c.Service.Register(r.Context(), strings.TrimSpace(req.Username), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, AuthResponse{User: user, Access: pair.Access, Refresh: pair.Refresh})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username (or email) and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains user, access and refresh"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login/ [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, pair, err := c.Service.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, AuthResponse{User: user, Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} helpers.APIResponse "data contains access and refresh"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/refresh/ [post]
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	pair, err := c.Service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, pair)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/me/ [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.RequesterFromContext(r.Context())
	if caller == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}
