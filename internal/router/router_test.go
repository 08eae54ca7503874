package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"placeshare/internal/config"
	"placeshare/internal/geocode"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret: "test-secret",
		UploadDir: "uploads/images",
	}
}

func TestRoutesTableMatchesContract(t *testing.T) {
	expected := map[string]bool{ // method+path -> auth gated
		"GET /api/places/user/:uid": false,
		"GET /api/places/:pid":      false,
		"POST /api/places":          true,
		"PATCH /api/places/:pid":    true,
		"DELETE /api/places/:pid":   true,
		"GET /api/users":            false,
		"POST /api/users/signup":    false,
		"POST /api/users/login":     false,
	}

	routes := Routes(nil, geocode.New("k", nil), testConfig())
	if len(routes) != len(expected) {
		t.Fatalf("expected %d routes, got %d", len(expected), len(routes))
	}
	for _, route := range routes {
		key := route.Method + " " + route.Path
		auth, ok := expected[key]
		if !ok {
			t.Fatalf("unexpected route %s", key)
		}
		if route.Auth != auth {
			t.Fatalf("route %s: expected auth=%v, got %v", key, auth, route.Auth)
		}
		if route.Handler == nil {
			t.Fatalf("route %s has no handler", key)
		}
	}
}

func TestUnmatchedRouteIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(nil, geocode.New("k", nil), testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Could not find the route") {
		t.Fatalf("expected generic route message, got %s", w.Body.String())
	}
}

func TestAuthGatedRouteRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(nil, geocode.New("k", nil), testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/places", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPreflightPassesWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(nil, geocode.New("k", nil), testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/places", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected open CORS origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") {
		t.Fatalf("expected PATCH in allowed methods, got %q", got)
	}
}
