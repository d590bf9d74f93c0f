// Package service trains the crime classifier and serves predictions from the
// active model
package service

import (
	"context"
	"sync"
	"time"

	"crimecast/internal/core/features"
	"crimecast/internal/core/hotspot"
	"crimecast/internal/core/sampling"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/platform/logger"
	"crimecast/internal/services/predictor/domain"

	"github.com/rs/zerolog"
)

// Config tunes training and inference
type Config struct {
	ModelName string
	Params    domain.Params
	// AutoTrain trains synchronously when a prediction finds no model
	AutoTrain bool
	// TrainTimeout bounds background training runs; zero means no bound
	TrainTimeout time.Duration
	// Radius is reported on every prediction feature, in metres
	Radius int
	// LogPredictions appends every emitted segment to the prediction log
	LogPredictions bool
}

// DefaultConfig mirrors the defaults of the training pipeline
func DefaultConfig() Config {
	so := sampling.DefaultOptions()
	return Config{
		ModelName: "crime-hotspot-rf",
		Params: domain.Params{
			Hotspots:         hotspot.DefaultK,
			Trees:            100,
			Seed:             42,
			NegativeRatio:    so.Ratio,
			NegativeMinKm:    so.MinKm,
			NegativeAttempts: so.AttemptsFactor,
		},
		TrainTimeout:   10 * time.Minute,
		Radius:         300,
		LogPredictions: true,
	}
}

// Option customises a Service
type Option func(*Service)

// WithMetadata records trained models in m
func WithMetadata(m domain.MetadataStore) Option { return func(s *Service) { s.meta = m } }

// WithPredictionLog appends predictions to l
func WithPredictionLog(l domain.PredictionLogger) Option { return func(s *Service) { s.plog = l } }

// WithLogger sets the service logger
func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// Service implements domain.Port
type Service struct {
	cfg  Config
	src  domain.CrimeSource
	reg  domain.Registry
	meta domain.MetadataStore
	plog domain.PredictionLogger
	log  zerolog.Logger
	now  func() time.Time

	mu      sync.RWMutex
	model   *domain.Model
	ds      *features.Dataset
	state   domain.State
	since   *time.Time
	lastErr string
	done    chan struct{}
}

var _ domain.Port = (*Service)(nil)

// New constructs a predictor over the crime source and the model registry
func New(cfg Config, src domain.CrimeSource, reg domain.Registry, opts ...Option) *Service {
	s := &Service{
		cfg:   cfg,
		src:   src,
		reg:   reg,
		log:   logger.Named("predictor").With().Logger(),
		now:   time.Now,
		state: domain.StateUntrained,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg.ModelName == "" {
		s.cfg.ModelName = DefaultConfig().ModelName
	}
	return s
}

// Status implements domain.Port
func (s *Service) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := domain.Status{State: s.state, LastError: s.lastErr}
	if s.model != nil {
		at := s.model.TrainedAt
		st.ActiveVersion = s.model.Version
		st.TrainedAt = &at
	}
	if s.state == domain.StateTraining && s.since != nil {
		since := *s.since
		st.TrainingSince = &since
	}
	return st
}

// begin moves to training; a run already in flight is a conflict
func (s *Service) begin() (chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateTraining {
		return nil, perr.Conflictf("training already in progress")
	}
	now := s.now().UTC()
	s.state = domain.StateTraining
	s.since = &now
	s.done = make(chan struct{})
	return s.done, nil
}

func (s *Service) finish(done chan struct{}, m *domain.Model, ds *features.Dataset, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.since = nil
	switch {
	case err != nil:
		s.lastErr = err.Error()
	default:
		s.model, s.ds, s.lastErr = m, ds, ""
	}
	if s.model != nil {
		s.state = domain.StateTrained
	} else {
		s.state = domain.StateUntrained
	}
	close(done)
}

// Train implements domain.Port; it blocks until the new model is active
func (s *Service) Train(ctx context.Context) (*domain.Model, error) {
	done, err := s.begin()
	if err != nil {
		return nil, err
	}
	m, ds, err := s.train(ctx)
	s.finish(done, m, ds, err)
	return m, err
}

// StartTraining implements domain.Port; the run outlives ctx but keeps its values
func (s *Service) StartTraining(ctx context.Context) (domain.Status, error) {
	done, err := s.begin()
	if err != nil {
		return s.Status(), err
	}
	go func() {
		bg := context.WithoutCancel(ctx)
		if s.cfg.TrainTimeout > 0 {
			var cancel context.CancelFunc
			bg, cancel = context.WithTimeout(bg, s.cfg.TrainTimeout)
			defer cancel()
		}
		m, ds, err := s.train(bg)
		if err != nil {
			s.log.Error().Err(err).Msg("background training failed")
		}
		s.finish(done, m, ds, err)
	}()
	return s.Status(), nil
}

// EnsureTrained implements domain.Port: it loads the active model, or starts
// training in the background when there is none, and reports the state
func (s *Service) EnsureTrained(ctx context.Context) domain.Status {
	if _, err := s.activeModel(ctx); err == nil {
		return s.Status()
	}
	if _, err := s.StartTraining(ctx); err != nil && !perr.IsCode(err, perr.ErrorCodeConflict) {
		s.log.Warn().Err(err).Msg("ensure trained")
	}
	return s.Status()
}

// Wait blocks until the training run in flight, if any, finishes
func (s *Service) Wait(ctx context.Context) error {
	s.mu.RLock()
	done, training := s.done, s.state == domain.StateTraining
	s.mu.RUnlock()
	if !training || done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load makes the registry's active model current
func (s *Service) Load(ctx context.Context) (*domain.Model, error) {
	m, err := s.reg.LoadActive(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
	if s.state != domain.StateTraining {
		s.state = domain.StateTrained
	}
	return m, nil
}

// activeModel returns the in-memory model, loading the active artifact once
func (s *Service) activeModel(ctx context.Context) (*domain.Model, error) {
	s.mu.RLock()
	m := s.model
	s.mu.RUnlock()
	if m != nil {
		return m, nil
	}
	return s.Load(ctx)
}

// dataset returns the crime set density is measured against
func (s *Service) dataset(ctx context.Context) (*features.Dataset, error) {
	s.mu.RLock()
	ds := s.ds
	s.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}
	records, err := s.src.Records(ctx)
	if err != nil {
		return nil, err
	}
	ds = features.Prepare(records)
	s.mu.Lock()
	if s.ds == nil {
		s.ds = ds
	}
	ds = s.ds
	s.mu.Unlock()
	return ds, nil
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if id := logger.RequestID(ctx); id != "" {
		l := s.log.With().Str("request_id", id).Logger()
		return &l
	}
	return &s.log
}
