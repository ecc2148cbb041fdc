package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		_, _ = w.Write([]byte(`{"data":null}`))
	})
	handler := CORS([]string{"https://joiny.example/", " "}, next)

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllow   string
		wantMethods string
		wantNext    bool
	}{
		{name: "preflight allowed", method: http.MethodOptions, origin: "https://joiny.example", wantStatus: http.StatusNoContent, wantAllow: "https://joiny.example", wantMethods: corsAllowMethods},
		{name: "preflight other origin", method: http.MethodOptions, origin: "https://evil.example", wantStatus: http.StatusNoContent},
		{name: "implicit ok keeps headers", method: http.MethodGet, origin: "https://joiny.example", wantStatus: http.StatusOK, wantAllow: "https://joiny.example", wantNext: true},
		{name: "other origin passes without headers", method: http.MethodPost, origin: "https://evil.example", wantStatus: http.StatusOK, wantNext: true},
		{name: "request without origin", method: http.MethodGet, wantStatus: http.StatusOK, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(tt.method, "http://test/events/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, reached)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantMethods, rr.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Origin", rr.Header().Get("Vary"))
		})
	}
}

func TestCORS_WebsocketUpgradeCanHijack(t *testing.T) {
	for _, origin := range []string{"https://joiny.example", "https://evil.example", ""} {
		t.Run("origin "+origin, func(t *testing.T) {
			var hijackErr error
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			chain := CORS([]string{"https://joiny.example"}, LoggingMiddleware(logger, upgradeHandler(&hijackErr)))

			resp := serveOnce(t, chain, origin)

			require.NoError(t, hijackErr)
			assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
			assert.Equal(t, "joiny-test", resp.Header.Get("Upgrade"))
		})
	}
}
