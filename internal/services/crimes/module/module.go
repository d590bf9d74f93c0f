// Package module wires the crime source into the API using modkit
package module

import (
	"context"
	"net/http"

	"crimecast/internal/modkit"
	"crimecast/internal/modkit/httpkit"
	"crimecast/internal/modkit/repokit"
	crimeshttp "crimecast/internal/services/crimes/http"
	"crimecast/internal/services/crimes/repo"
	"crimecast/internal/services/crimes/service"
)

// Module implements the crimes module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	register func(httpkit.Router)

	svc   *service.Service
	ports Ports
}

// New constructs the crimes module over the backend opts select
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("crimes"), modkit.WithPrefix("/crimes")}, opts...)...)

	db, binder := pick(deps, o.Source)
	svc := service.New(db, binder)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Reader: svc, Writer: svc, Source: svc},
	}
	external := b.Register
	m.register = func(r httpkit.Router) {
		crimeshttp.Register(r, svc)
		external(r)
	}

	if o.EnsureSchema && db != nil {
		if err := svc.EnsureSchema(context.Background()); err != nil {
			deps.Log.Error().Err(err).Msg("crimes schema")
		}
	}
	return m
}

func pick(deps modkit.Deps, source string) (repokit.TxRunner, repokit.Binder[repo.Storage]) {
	switch source {
	case SourcePG:
		return deps.PG, repo.NewPG()
	case SourceSQLite:
		return deps.Lite, repo.NewLite()
	}
	if deps.PG != nil {
		return deps.PG, repo.NewPG()
	}
	return deps.Lite, repo.NewLite()
}

// Service exposes the crimes service to jobs that run outside the API
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
