// Package module wires the predictor into the API using modkit
package module

import (
	"context"
	"errors"
	"net/http"

	"crimecast/internal/modkit"
	"crimecast/internal/modkit/httpkit"
	"crimecast/internal/services/predictor/domain"
	predictorhttp "crimecast/internal/services/predictor/http"
	"crimecast/internal/services/predictor/registry"
	"crimecast/internal/services/predictor/repo"
	"crimecast/internal/services/predictor/service"
)

// Module implements the predictor module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	register func(httpkit.Router)

	svc   *service.Service
	ports Ports
}

// New constructs the predictor. The crime source arrives through
// modkit.WithPorts; metadata and the prediction log are wired when Postgres
// and ClickHouse are enabled.
func New(deps modkit.Deps, o Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("predictor"), modkit.WithPrefix("/predictor")}, opts...)...)

	src, ok := b.Ports.(domain.CrimeSource)
	if !ok {
		return nil, errors.New("predictor: crime source port is required")
	}
	reg, err := registry.Open(o.ModelDir)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	log := deps.Log.With().Str("module", b.Name).Logger()
	svcOpts := []service.Option{service.WithLogger(log)}
	if deps.PG != nil {
		meta := repo.NewMetadata(deps.PG)
		if o.EnsureSchema {
			if err := meta.EnsureSchema(ctx); err != nil {
				log.Error().Err(err).Msg("prediction_models schema")
			}
		}
		svcOpts = append(svcOpts, service.WithMetadata(meta))
	}
	if deps.CH != nil {
		plog := repo.NewCH(deps.CH)
		if o.EnsureSchema {
			if err := plog.EnsureSchema(ctx); err != nil {
				log.Error().Err(err).Msg("crime_predictions schema")
			}
		}
		svcOpts = append(svcOpts, service.WithPredictionLog(plog))
	}
	svc := service.New(o.Service, src, reg, svcOpts...)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Predictor: svc},
	}
	external := b.Register
	m.register = func(r httpkit.Router) {
		predictorhttp.Register(r, svc)
		external(r)
	}

	switch {
	case o.TrainOnStart:
		st := svc.EnsureTrained(ctx)
		log.Info().Str("state", string(st.State)).Str("version", st.ActiveVersion).Msg("predictor warm")
	default:
		if _, err := svc.Load(ctx); err != nil && !errors.Is(err, domain.ErrNoModel) {
			log.Warn().Err(err).Msg("active model not loaded")
		}
	}
	return m, nil
}

// Service exposes the predictor to jobs that run outside the API
func (m *Module) Service() *service.Service { return m.svc }

// MountRoutes mounts the module routes
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		rr.Use(m.mws...)
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }
