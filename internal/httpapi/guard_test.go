package httpapi

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
)

const guardBaseURL = "https://venue.example"

func basicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

func guarded() http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return NewGuard("admin", "s3cret", guardBaseURL).Middleware(ok)
}

func TestGuardAcceptsCorrectCredential(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/tickets", nil)
	req.Header.Set("Authorization", basicAuth("admin", "s3cret"))
	resp := httptest.NewRecorder()

	guarded().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestGuardRejectsAlteredCredential(t *testing.T) {
	cases := map[string]string{
		"wrong password":  basicAuth("admin", "s3creT"),
		"wrong user":      basicAuth("root", "s3cret"),
		"truncated":       basicAuth("admin", "s3cre"),
		"wrong scheme":    "Bearer abc",
		"empty header":    "",
		"raw credentials": "admin:s3cret",
	}

	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/tickets", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()

		guarded().ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status 401, got %d", name, resp.Code)
		}
		if resp.Header().Get("WWW-Authenticate") == "" {
			t.Fatalf("%s: expected WWW-Authenticate challenge", name)
		}
	}
}

func TestGuardCSRFOriginMatrix(t *testing.T) {
	cases := []struct {
		name    string
		origin  string
		referer string
		want    int
	}{
		{"matching origin", guardBaseURL + "/admin", "", http.StatusOK},
		{"exact origin", guardBaseURL, "", http.StatusOK},
		{"foreign origin", "https://evil.example", "", http.StatusForbidden},
		{"referer fallback", "", guardBaseURL + "/admin/call", http.StatusOK},
		{"foreign referer", "", "https://evil.example/form", http.StatusForbidden},
		{"neither header", "", "", http.StatusForbidden},
	}

	for _, tt := range cases {
		req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
		req.Header.Set("Authorization", basicAuth("admin", "s3cret"))
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if tt.referer != "" {
			req.Header.Set("Referer", tt.referer)
		}
		resp := httptest.NewRecorder()

		guarded().ServeHTTP(resp, req)

		if resp.Code != tt.want {
			t.Fatalf("%s: expected status %d, got %d", tt.name, tt.want, resp.Code)
		}
	}
}

func TestGuardCSRFBaseURLInQueryRejected(t *testing.T) {
	// The base URL appearing later in the origin must not satisfy the
	// prefix match.
	req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
	req.Header.Set("Authorization", basicAuth("admin", "s3cret"))
	req.Header.Set("Origin", "https://evil.example/?https://venue.example")
	resp := httptest.NewRecorder()

	guarded().ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestGuardSkipsOriginCheckForGET(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/tickets", nil)
	req.Header.Set("Authorization", basicAuth("admin", "s3cret"))
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()

	guarded().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for GET regardless of origin, got %d", resp.Code)
	}
}

func TestGuardPublicEndpointsBypass(t *testing.T) {
	for _, path := range []string{"/healthz", "/metrics", "/guest/aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()

		guarded().ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200 without credentials, got %d", path, resp.Code)
		}
	}
}

func TestGuardErrorMessagesDistinct(t *testing.T) {
	authReq := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
	authResp := httptest.NewRecorder()
	guarded().ServeHTTP(authResp, authReq)

	csrfReq := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
	csrfReq.Header.Set("Authorization", basicAuth("admin", "s3cret"))
	csrfResp := httptest.NewRecorder()
	guarded().ServeHTTP(csrfResp, csrfReq)

	if authResp.Code != http.StatusUnauthorized || csrfResp.Code != http.StatusForbidden {
		t.Fatalf("expected 401 then 403, got %d then %d", authResp.Code, csrfResp.Code)
	}
	if authResp.Body.String() == csrfResp.Body.String() {
		t.Fatal("credential and origin failures must carry distinct messages")
	}
}
