package httpapi

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

// Guard protects the staff-facing routes with two independent checks: a
// constant-time Basic-auth comparison and, for state-mutating methods, an
// Origin/Referer prefix match against the deployment base URL. Both are pure
// functions of the request plus immutable configuration.
type Guard struct {
	expectedAuth []byte
	baseURL      string
}

func NewGuard(user, password, baseURL string) *Guard {
	credentials := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return &Guard{
		expectedAuth: []byte("Basic " + credentials),
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}

		// A missing header compares against the expected value like any
		// other mismatch; there is no separate absent-credential path.
		presented := []byte(r.Header.Get("Authorization"))
		if subtle.ConstantTimeCompare(presented, g.expectedAuth) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="Admin Area"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		if isMutating(r.Method) && !g.originAllowed(r) {
			writeError(w, http.StatusForbidden, "forbidden", "cross-site request rejected")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Guard) originAllowed(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		origin = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if origin == "" {
		return false
	}
	return strings.HasPrefix(origin, g.baseURL)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

func isPublicEndpoint(r *http.Request) bool {
	switch {
	case r.URL.Path == "/healthz", r.URL.Path == "/metrics":
		return true
	case strings.HasPrefix(r.URL.Path, "/guest/"):
		return true
	default:
		return r.Method == http.MethodOptions
	}
}
