package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/domain"
)

type contextKey string

const requesterKey contextKey = "requester"

// accessTokenParam carries the token for clients that cannot set headers (browser websockets).
const accessTokenParam = "access_token"

// WithRequester returns a context carrying the authenticated requester.
func WithRequester(ctx context.Context, req *domain.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, req)
}

// RequesterFromContext returns the authenticated requester, or nil for anonymous requests.
func RequesterFromContext(ctx context.Context) *domain.Requester {
	req, _ := ctx.Value(requesterKey).(*domain.Requester)
	return req
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the requester in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
				return
			}
			req, err := verifier.VerifyAccess(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(WithRequester(r.Context(), req)))
		}
	}
}

// OptionalAuth lets anonymous requests through and attaches the requester when a token is present.
// A token that is present but invalid is still rejected with 401.
func OptionalAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get(accessTokenParam)
			}
			if token == "" {
				if r.Header.Get("Authorization") != "" {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
					return
				}
				next(w, r)
				return
			}
			req, err := verifier.VerifyAccess(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(WithRequester(r.Context(), req)))
		}
	}
}

// bearerToken extracts the token from the Authorization header.
// When it returns an empty token, msg explains why.
func bearerToken(r *http.Request) (token, msg string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token = strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}
