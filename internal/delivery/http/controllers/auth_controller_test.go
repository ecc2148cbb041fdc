package controllers

import (
	"net/http"
	"testing"

	"joiny/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"username":" alice ","email":"alice@example.com","password":"secret123"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "short password",
			body:           `{"username":"alice","email":"alice@example.com","password":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "at least 8",
		},
		{
			name:           "missing fields",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "username is required",
		},
		{
			name:           "duplicate",
			body:           `{"username":"alice","email":"alice@example.com","password":"secret123"}`,
			fakeErr:        domain.ErrDuplicateUser,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already registered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{
				user: &domain.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "h", Salt: "s"},
				pair: domain.TokenPair{Access: "acc", Refresh: "ref"},
				err:  tt.fakeErr,
			}
			ctrl := NewAuthController(testLogger, fake)

			rr := serve(t, ctrl.Register, testRequest{method: http.MethodPost, target: "/auth/register/", body: tt.body})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusCreated {
				envelope := decodeEnvelope(t, rr, nil)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
				return
			}
			assert.NotContains(t, rr.Body.String(), "password_hash")
			var resp AuthResponse
			decodeEnvelope(t, rr, &resp)
			assert.Equal(t, "acc", resp.Access)
			assert.Equal(t, "ref", resp.Refresh)
			assert.Equal(t, "alice", resp.User.Username)
			assert.Equal(t, "alice", fake.lastUsername)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
	}{
		{name: "by username", body: `{"username":"alice","password":"secret123"}`, wantStatus: http.StatusOK},
		{name: "by email", body: `{"username":"alice@example.com","password":"secret123"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"username":"alice","password":"nope"}`, fakeErr: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "missing password", body: `{"username":"alice"}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{user: &domain.User{ID: 1, Username: "alice"}, pair: domain.TokenPair{Access: "a", Refresh: "r"}, err: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)

			rr := serve(t, ctrl.Login, testRequest{method: http.MethodPost, target: "/auth/login/", body: tt.body})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var resp AuthResponse
				decodeEnvelope(t, rr, &resp)
				assert.Equal(t, "a", resp.Access)
			}
		})
	}
}

func TestAuthController_Refresh(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", body: `{"refresh":"ref"}`, wantStatus: http.StatusOK},
		{name: "expired", body: `{"refresh":"ref"}`, fakeErr: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "missing", body: `{}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{pair: domain.TokenPair{Access: "new", Refresh: "next"}, err: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)

			rr := serve(t, ctrl.Refresh, testRequest{method: http.MethodPost, target: "/auth/refresh/", body: tt.body})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var pair domain.TokenPair
				decodeEnvelope(t, rr, &pair)
				assert.Equal(t, "new", pair.Access)
				assert.Equal(t, "ref", fake.lastRefresh)
			}
		})
	}
}

func TestAuthController_Me(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeUserService{user: &domain.User{ID: 1, Username: "alice"}})

		rr := serve(t, ctrl.Me, testRequest{method: http.MethodGet, target: "/auth/me/", requester: alice})

		require.Equal(t, http.StatusOK, rr.Code)
		var user domain.User
		decodeEnvelope(t, rr, &user)
		assert.Equal(t, "alice", user.Username)
	})
	t.Run("anonymous", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeUserService{})

		rr := serve(t, ctrl.Me, testRequest{method: http.MethodGet, target: "/auth/me/"})

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
