package service

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"crimecast/internal/core/features"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/services/predictor/domain"
	"crimecast/internal/services/predictor/registry"

	"github.com/paulmach/orb"
)

type staticSource struct{ records []features.Record }

func (s staticSource) Records(context.Context) ([]features.Record, error) { return s.records, nil }

// gatedSource blocks until release is closed
type gatedSource struct {
	staticSource
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSource) Records(ctx context.Context) ([]features.Record, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.records, nil
}

type memMeta struct {
	mu   sync.Mutex
	rows []domain.ModelInfo
}

func (m *memMeta) Record(_ context.Context, info domain.ModelInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append([]domain.ModelInfo{info}, m.rows...)
	return nil
}

func (m *memMeta) List(_ context.Context, limit int) ([]domain.ModelInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rows) > limit {
		return m.rows[:limit], nil
	}
	return m.rows, nil
}

type memLog struct {
	mu   sync.Mutex
	rows []domain.PredictionLog
}

func (l *memLog) Append(_ context.Context, xs []domain.PredictionLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, xs...)
	return nil
}

// crimes scatters n crimes around three centres in Chicago
func crimes(n int) []features.Record {
	rng := rand.New(rand.NewSource(7))
	centres := []orb.Point{{-87.63, 41.88}, {-87.70, 41.95}, {-87.60, 41.78}}
	cats := []string{"THEFT", "BATTERY", "ROBBERY", "HOMICIDE"}
	districts := []string{"001", "002", "003"}
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]features.Record, n)
	for i := range out {
		c := centres[i%len(centres)]
		p := orb.Point{c[0] + rng.NormFloat64()*0.004, c[1] + rng.NormFloat64()*0.004}
		d := day.AddDate(0, 0, rng.Intn(300))
		tod := time.Duration(rng.Intn(24)) * time.Hour
		cat := cats[rng.Intn(len(cats))]
		out[i] = features.Record{
			ID:        string(rune('a' + i%26)),
			Location:  &p,
			Category:  cat,
			Date:      &d,
			Time:      &tod,
			IsViolent: cat == "ROBBERY" || cat == "HOMICIDE",
			District:  districts[i%len(districts)],
		}
	}
	return out
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Params.Trees = 15
	cfg.Params.Hotspots = 3
	cfg.TrainTimeout = time.Minute
	return cfg
}

func fixedClock() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }

func newService(t *testing.T, cfg Config, src domain.CrimeSource, opts ...Option) (*Service, *registry.Dir) {
	t.Helper()
	reg, err := registry.Open(filepath.Join(t.TempDir(), "models"))
	if err != nil {
		t.Fatal(err)
	}
	return New(cfg, src, reg, append([]Option{WithClock(fixedClock)}, opts...)...), reg
}

func ptr(f float64) *float64 { return &f }

func input(date, crimeType string) domain.PredictInput {
	return domain.PredictInput{Latitude: ptr(41.881), Longitude: ptr(-87.631), Date: date, CrimeType: crimeType}
}

func probabilities(t *testing.T, s *Service, in domain.PredictInput) []float64 {
	t.Helper()
	fc, err := s.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	out := make([]float64, len(fc.Features))
	for i, f := range fc.Features {
		out[i] = f.Properties["probability"].(float64)
	}
	return out
}

func TestTrainThenPredict(t *testing.T) {
	ctx := context.Background()
	meta, plog := &memMeta{}, &memLog{}
	s, _ := newService(t, testConfig(), staticSource{crimes(150)}, WithMetadata(meta), WithPredictionLog(plog))

	if st := s.Status(); st.State != domain.StateUntrained {
		t.Fatalf("initial state = %s", st.State)
	}
	m, err := s.Train(ctx)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if m.Positives != 150 || m.Negatives != 300 {
		t.Fatalf("samples = %d/%d", m.Positives, m.Negatives)
	}
	if len(m.Hotspots) != 3 || len(m.Districts) != 3 {
		t.Fatalf("hotspots=%d districts=%d", len(m.Hotspots), len(m.Districts))
	}
	st := s.Status()
	if st.State != domain.StateTrained || st.ActiveVersion != m.Version || st.TrainedAt == nil {
		t.Fatalf("status = %+v", st)
	}
	if len(meta.rows) != 1 || !meta.rows[0].IsActive || meta.rows[0].Version != m.Version {
		t.Fatalf("metadata = %+v", meta.rows)
	}

	fc, err := s.Predict(ctx, input("2026-10-16", ""))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(fc.Features) != 4 {
		t.Fatalf("features = %d", len(fc.Features))
	}
	for i, f := range fc.Features {
		props := f.Properties
		p := props["probability"].(float64)
		if p < 0 || p > 1 {
			t.Fatalf("probability %v", p)
		}
		if props["time_of_day"] != features.Segments[i].Name {
			t.Fatalf("segment %d = %v", i, props["time_of_day"])
		}
		if props["crime_type"] != AllCrimeTypes || props["radius"] != 300 || props["address"] != nil {
			t.Fatalf("props = %v", props)
		}
		if props["model_version"] != m.Version {
			t.Fatalf("model_version = %v", props["model_version"])
		}
		if fs := props["factors"].([]domain.Factor); len(fs) != features.NumFeatures {
			t.Fatalf("factors = %v", fs)
		}
		if pt, ok := f.Geometry.(orb.Point); !ok || pt[0] != -87.631 || pt[1] != 41.881 {
			t.Fatalf("geometry = %v", f.Geometry)
		}
	}
	if len(plog.rows) != 4 || plog.rows[0].ModelVersion != m.Version {
		t.Fatalf("prediction log = %d rows", len(plog.rows))
	}
}

func TestReloadGivesIdenticalPredictions(t *testing.T) {
	ctx := context.Background()
	src := staticSource{crimes(120)}
	s, reg := newService(t, testConfig(), src)
	if _, err := s.Train(ctx); err != nil {
		t.Fatal(err)
	}
	want := probabilities(t, s, input("2026-03-02", "ROBBERY"))

	fresh := New(testConfig(), src, reg)
	got := probabilities(t, fresh, input("2026-03-02", "ROBBERY"))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: %v != %v", i, got[i], want[i])
		}
	}
	if fresh.Status().State != domain.StateTrained {
		t.Fatalf("fresh state = %s", fresh.Status().State)
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	ctx := context.Background()
	src := staticSource{crimes(90)}
	a, _ := newService(t, testConfig(), src)
	b, _ := newService(t, testConfig(), src)
	if _, err := a.Train(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Train(ctx); err != nil {
		t.Fatal(err)
	}
	pa := probabilities(t, a, input("2026-07-04", ""))
	pb := probabilities(t, b, input("2026-07-04", ""))
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("segment %d: %v != %v", i, pa[i], pb[i])
		}
	}
}

func TestTrainEmptyWritesNothing(t *testing.T) {
	ctx := context.Background()
	noLocation := crimes(5)
	for i := range noLocation {
		noLocation[i].Location = nil
	}
	for name, src := range map[string]staticSource{"empty": {}, "unlocated": {noLocation}} {
		t.Run(name, func(t *testing.T) {
			s, reg := newService(t, testConfig(), src)
			_, err := s.Train(ctx)
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("err = %v", err)
			}
			if xs, _ := reg.List(ctx); len(xs) != 0 {
				t.Fatalf("artifacts = %v", xs)
			}
			st := s.Status()
			if st.State != domain.StateUntrained || st.LastError == "" {
				t.Fatalf("status = %+v", st)
			}
		})
	}
}

func TestNegativeSamplingExhausted(t *testing.T) {
	p := orb.Point{-87.63, 41.88}
	d := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	records := make([]features.Record, 10)
	for i := range records {
		records[i] = features.Record{Location: &p, Date: &d, Category: "THEFT"}
	}
	cfg := testConfig()
	cfg.Params.NegativeAttempts = 5
	s, _ := newService(t, cfg, staticSource{records})
	_, err := s.Train(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
	if e, ok := perr.As(err); !ok || e.Message() != "could not generate negative samples" {
		t.Fatalf("err = %v", err)
	}
}

func TestPredictWithoutModel(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, testConfig(), staticSource{crimes(60)})
	_, err := s.Predict(ctx, input("2026-10-16", ""))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Hotspots(ctx); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("hotspots err = %v", err)
	}

	cfg := testConfig()
	cfg.AutoTrain = true
	auto, _ := newService(t, cfg, staticSource{crimes(60)})
	fc, err := auto.Predict(ctx, input("2026-10-16", "theft"))
	if err != nil || len(fc.Features) != 4 {
		t.Fatalf("auto-train predict: %v", err)
	}
	if fc.Features[0].Properties["crime_type"] != "theft" {
		t.Fatalf("crime_type = %v", fc.Features[0].Properties["crime_type"])
	}
}

func TestPredictRejectsBadInput(t *testing.T) {
	s, _ := newService(t, testConfig(), staticSource{crimes(30)})
	cases := []domain.PredictInput{
		input("16/10/2026", ""),
		input("2026-02-30", ""),
		{Latitude: ptr(95), Longitude: ptr(0), Date: "2026-10-16"},
		{Date: "2026-10-16"},
	}
	for _, in := range cases {
		if _, err := s.Predict(context.Background(), in); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("%+v: err = %v", in, err)
		}
	}
}

func TestAutoTrainPredictWaitsForRunInFlight(t *testing.T) {
	ctx := context.Background()
	src := &gatedSource{staticSource: staticSource{crimes(60)}, entered: make(chan struct{}), release: make(chan struct{})}
	cfg := testConfig()
	cfg.AutoTrain = true
	s, _ := newService(t, cfg, src)

	if _, err := s.StartTraining(ctx); err != nil {
		t.Fatal(err)
	}
	<-src.entered

	type result struct {
		n   int
		err error
	}
	got := make(chan result, 1)
	go func() {
		fc, err := s.Predict(ctx, input("2026-10-16", ""))
		if err != nil {
			got <- result{err: err}
			return
		}
		got <- result{n: len(fc.Features)}
	}()

	select {
	case r := <-got:
		t.Fatalf("predict returned while training: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
	close(src.release)

	select {
	case r := <-got:
		if r.err != nil || r.n != 4 {
			t.Fatalf("predict = %+v", r)
		}
	case <-time.After(time.Minute):
		t.Fatal("predict did not finish")
	}
	if st := s.Status(); st.State != domain.StateTrained {
		t.Fatalf("status = %+v", st)
	}
}

func TestSingleFlightTraining(t *testing.T) {
	ctx := context.Background()
	src := &gatedSource{staticSource: staticSource{crimes(60)}, entered: make(chan struct{}), release: make(chan struct{})}
	s, _ := newService(t, testConfig(), src)

	st, err := s.StartTraining(ctx)
	if err != nil || st.State != domain.StateTraining || st.TrainingSince == nil {
		t.Fatalf("start = %+v, %v", st, err)
	}
	<-src.entered
	if _, err := s.Train(ctx); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second train err = %v", err)
	}
	if _, err := s.StartTraining(ctx); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second start err = %v", err)
	}
	close(src.release)

	wctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := s.Wait(wctx); err != nil {
		t.Fatal(err)
	}
	if st := s.Status(); st.State != domain.StateTrained || st.TrainingSince != nil {
		t.Fatalf("status = %+v", st)
	}
}

func TestStartTrainingOutlivesRequest(t *testing.T) {
	src := &gatedSource{staticSource: staticSource{crimes(45)}, entered: make(chan struct{}), release: make(chan struct{})}
	s, _ := newService(t, testConfig(), src)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := s.StartTraining(ctx); err != nil {
		t.Fatal(err)
	}
	<-src.entered
	cancel()
	close(src.release)
	if err := s.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if st := s.Status(); st.State != domain.StateTrained {
		t.Fatalf("status = %+v", st)
	}
}

func TestEnsureTrained(t *testing.T) {
	ctx := context.Background()
	s, reg := newService(t, testConfig(), staticSource{crimes(60)})
	st := s.EnsureTrained(ctx)
	if st.State != domain.StateTraining && st.State != domain.StateTrained {
		t.Fatalf("state = %s", st.State)
	}
	if err := s.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	version := s.Status().ActiveVersion
	if version == "" {
		t.Fatalf("no active version")
	}

	// a fresh service picks up the artifact without training
	fresh := New(testConfig(), staticSource{}, reg)
	if st := fresh.EnsureTrained(ctx); st.State != domain.StateTrained || st.ActiveVersion != version {
		t.Fatalf("fresh status = %+v", st)
	}
}

func TestHotspotsAndModels(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, testConfig(), staticSource{crimes(90)})
	m, err := s.Train(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, err := s.Hotspots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, f := range fc.Features {
		total += f.Properties["crime_count"].(int)
	}
	if len(fc.Features) != 3 || total != 90 {
		t.Fatalf("hotspots = %d, crimes = %d", len(fc.Features), total)
	}

	xs, err := s.Models(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 1 || xs[0].Version != m.Version || !xs[0].IsActive {
		t.Fatalf("models = %+v", xs)
	}
}

type failingLog struct{}

func (failingLog) Append(context.Context, []domain.PredictionLog) error {
	return errors.New("clickhouse down")
}

func TestPredictionLogFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, testConfig(), staticSource{crimes(45)}, WithPredictionLog(failingLog{}))
	if _, err := s.Train(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Predict(ctx, input("2026-10-16", "")); err != nil {
		t.Fatalf("predict: %v", err)
	}
}
