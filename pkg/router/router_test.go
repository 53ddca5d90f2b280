package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func testRouter() *Router {
	r := New(zerolog.Nop())
	r.GET("/api/v1/things", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "list")
	})
	r.POST("/api/v1/things", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "create")
	})
	r.GET("/api/v1/things/*", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "get")
	})
	r.GET("/api/v1/things/*/rows", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "rows")
	})
	r.DELETE("/api/v1/things/*", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "delete")
	})
	return r
}

func doRequest(t *testing.T, r *Router, method, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func TestRouterDispatch(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"exact GET", http.MethodGet, "/api/v1/things", http.StatusOK, "list"},
		{"exact POST", http.MethodPost, "/api/v1/things", http.StatusOK, "create"},
		{"wildcard GET", http.MethodGet, "/api/v1/things/abc", http.StatusOK, "get"},
		{"wildcard DELETE", http.MethodDelete, "/api/v1/things/abc", http.StatusOK, "delete"},
		{"unknown path", http.MethodGet, "/api/v1/other", http.StatusNotFound, ""},
		{"wrong method on known path", http.MethodPut, "/api/v1/things", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doRequest(t, r, tt.method, tt.path)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestRouterPrefersMostSpecificWildcard(t *testing.T) {
	r := testRouter()
	// /things/abc/rows matches both /things/* and /things/*/rows; the
	// longer pattern must win every time.
	for i := 0; i < 20; i++ {
		code, body := doRequest(t, r, http.MethodGet, "/api/v1/things/abc/rows")
		if code != http.StatusOK || body != "rows" {
			t.Fatalf("iteration %d: code=%d body=%q, want rows handler", i, code, body)
		}
	}
}

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/a/b/c", "/a/*/c", true},
		{"/a/b/c", "/a/*/d", false},
		{"/a/b", "/a/*", true},
		{"/a/b/c", "/a/*", true}, // trailing * swallows the rest
		{"/a", "/a/*/c", false},
		{"/x/b/c", "/a/*/c", false},
		{"/a/b/c/d", "/a/*/c", false},
	}
	for _, tt := range tests {
		if got := matchWildcardRoute(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchWildcardRoute(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}
