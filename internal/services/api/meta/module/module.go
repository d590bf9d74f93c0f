// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"crimecast/internal/modkit"
	"crimecast/internal/modkit/httpkit"
	metahttp "crimecast/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	deps   metahttp.Deps

	register func(httpkit.Router)
}

// New constructs a meta module reporting on the storage handles in deps
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		deps: metahttp.Deps{
			ServiceName: service,
			StartedAt:   time.Now(),
			Checks:      checks(deps),
		},
	}
	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, m.deps)
		external(r)
	}
	return m
}

func checks(deps modkit.Deps) []metahttp.Check {
	return []metahttp.Check{
		{Name: "pg", Target: deps.PG},
		{Name: "ch", Target: deps.CH},
		{Name: "sqlite", Target: deps.Lite},
	}
}

// MountHealth mounts GET /health on the root router for load balancers
func (m *Module) MountHealth(r httpkit.Router) { metahttp.RegisterHealth(r, m.deps) }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		rr.Use(m.mws...)
		m.register(rr)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
