package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PATCH, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, Accept"
	corsMaxAge       = "86400"
)

type originSet map[string]struct{}

func newOriginSet(origins []string) originSet {
	set := make(originSet, len(origins))
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

func (s originSet) allows(origin string) bool {
	_, ok := s[origin]
	return origin != "" && ok
}

// CORS marks responses for allowed origins and answers every OPTIONS request with 204.
// Headers are set before next runs and the writer is passed through untouched, so implicit
// 200s carry them and the realtime websocket upgrade can still hijack the connection.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := newOriginSet(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		hdr := w.Header()
		hdr.Add("Vary", "Origin")
		if allowed.allows(origin) {
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if allowed.allows(origin) {
			hdr.Set("Access-Control-Allow-Methods", corsAllowMethods)
			hdr.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			hdr.Set("Access-Control-Max-Age", corsMaxAge)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
