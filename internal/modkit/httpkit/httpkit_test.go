package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "crimecast/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestMountAPIV1(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	hit := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hit = true
			next.ServeHTTP(w, req)
		})
	}
	MountAPIV1(r, []func(http.Handler) http.Handler{mw}, func(api Router) {
		Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rec.Code != http.StatusOK || !hit {
		t.Fatalf("code=%d hit=%v", rec.Code, hit)
	}
}

func TestCommonStackRecovers(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	MountAPIV1(r, CommonStack(StackOptions{}), func(api Router) {
		api.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
	if cc := rec.Header().Get("Cache-Control"); cc == "" {
		t.Fatalf("missing no-cache headers")
	}
}
