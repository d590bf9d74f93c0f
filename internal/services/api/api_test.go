package api

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crimecast/internal/modkit/module"
	"crimecast/internal/platform/config"
	phttp "crimecast/internal/platform/net/http"
	"crimecast/internal/platform/store"
	"crimecast/internal/platform/testkit"
	"crimecast/internal/services/crimes/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func seedCrimes(n int) []domain.Crime {
	rng := rand.New(rand.NewSource(3))
	out := make([]domain.Crime, n)
	for i := range out {
		lat := 41.88 + rng.NormFloat64()*0.01
		lon := -87.63 + rng.NormFloat64()*0.01
		day := time.Date(2026, time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
		tod := time.Duration(rng.Intn(86400)) * time.Second
		out[i] = domain.Crime{Category: "THEFT", Date: &day, TimeOfDay: &tod, Latitude: &lat, Longitude: &lon, District: "001"}
	}
	return out
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
}

func call(t *testing.T, h http.Handler, method, path, body string) envelope {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	if env.StatusCode != rec.Code {
		t.Fatalf("%s %s: envelope status %d != %d", method, path, env.StatusCode, rec.Code)
	}
	return env
}

func TestMountEndToEnd(t *testing.T) {
	testkit.Serial(t)
	t.Cleanup(module.Reset)
	t.Setenv("CORE_CRIMES_ENSURE_SCHEMA", "true")
	t.Setenv("CORE_PREDICTOR_MODEL_DIR", filepath.Join(t.TempDir(), "models"))
	t.Setenv("CORE_PREDICTOR_TREES", "10")
	t.Setenv("CORE_PREDICTOR_HOTSPOTS", "4")

	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{Lite: store.LiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "crimes.db")}},
		store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close(ctx) })

	r := phttp.AdaptChi(chi.NewRouter())
	log := zerolog.New(io.Discard)
	mounted, err := Mount(r, Options{Config: config.New(), Store: st, Logger: &log, EnableSwagger: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mounted.Crimes.Service().InsertBatch(ctx, seedCrimes(80)); err != nil {
		t.Fatal(err)
	}
	h := r.Mux()

	if env := call(t, h, http.MethodGet, "/health", ""); env.StatusCode != http.StatusOK {
		t.Fatalf("health = %+v", env)
	}
	if env := call(t, h, http.MethodPost, "/api/v1/predictor/predict", `{"latitude": 41.88, "longitude": -87.63, "date": "2026-10-16"}`); env.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("predict before training = %+v", env)
	}
	if env := call(t, h, http.MethodPost, "/api/v1/predictor/predict", `{"latitude": 41.88, "longitude": -87.63, "date": "2026-13-45"}`); env.StatusCode != http.StatusUnprocessableEntity || env.Field != "date" {
		t.Fatalf("predict with bad date = %+v", env)
	}
	if env := call(t, h, http.MethodPost, "/api/v1/predictor/train", ""); env.StatusCode != http.StatusAccepted {
		t.Fatalf("train = %+v", env)
	}
	wctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := mounted.Predictor.Service().Wait(wctx); err != nil {
		t.Fatal(err)
	}

	env := call(t, h, http.MethodPost, "/api/v1/predictor/predict", `{"latitude": 41.88, "longitude": -87.63, "date": "2026-10-16", "crime_type": "ROBBERY"}`)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("predict = %+v", env)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(env.Data, &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 4 || fc.Features[3].Properties["time_of_day"] != "Evening" {
		t.Fatalf("collection = %+v", fc)
	}

	if env := call(t, h, http.MethodGet, "/api/v1/crimes/summary", ""); env.StatusCode != http.StatusOK {
		t.Fatalf("summary = %+v", env)
	}
	if env := call(t, h, http.MethodGet, "/api/v1/predictor/models", ""); env.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"is_active":true`) {
		t.Fatalf("models = %s", env.Data)
	}
	if env := call(t, h, http.MethodGet, "/api/v1/meta/ready", ""); !strings.Contains(string(env.Data), `"sqlite"`) {
		t.Fatalf("ready = %s", env.Data)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	testkit.MustContain(t, rec.Body.String(), `"openapi":"3.0.3"`)
	testkit.MustContain(t, rec.Body.String(), "/predictor/predict")
}
