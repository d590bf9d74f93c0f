// Package api provides the HTTP API for the application
package api

import (
	"time"

	"crimecast/internal/platform/config"
	"crimecast/internal/platform/logger"
	phttp "crimecast/internal/platform/net/http"
	"crimecast/internal/platform/store"

	"crimecast/internal/modkit"
	"crimecast/internal/modkit/httpkit"
	"crimecast/internal/modkit/module"
	"crimecast/internal/modkit/swaggerkit"

	metamod "crimecast/internal/services/api/meta/module"
	crimesdomain "crimecast/internal/services/crimes/domain"
	crimesmod "crimecast/internal/services/crimes/module"
	predictordomain "crimecast/internal/services/predictor/domain"
	predictormod "crimecast/internal/services/predictor/module"
)

// ServiceName is reported by the meta endpoints
const ServiceName = "crimecast-api"

// Options are the API options
type Options struct {
	// Config is the root view; modules take their own prefixes from it
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	Origins        []string
	Timeout        time.Duration
}

// Mounted exposes what Mount built, for callers that need the services
type Mounted struct {
	Crimes    *crimesmod.Module
	Predictor *predictormod.Module
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) (*Mounted, error) {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}
	deps := modkit.DepsFrom(*log, opt.Config, opt.Store)

	crimes := crimesmod.New(deps, crimesmod.FromConfig(deps.Cfg))
	source := module.MustPortsOf[crimesdomain.RecordSource](crimes)

	predictor, err := predictormod.New(deps, predictormod.FromConfig(deps.Cfg),
		modkit.WithPorts[predictordomain.CrimeSource](source))
	if err != nil {
		return nil, err
	}
	meta := metamod.New(deps, ServiceName)

	mods := []module.Module{meta, crimes, predictor}

	meta.MountHealth(r)
	swaggerkit.Mount(r, opt.EnableSwagger)
	if opt.EnableProfiler {
		phttp.MountProfiler(r, "/debug")
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{Origins: opt.Origins, Timeout: opt.Timeout})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	log.Info().Int("modules", len(mods)).Bool("swagger", opt.EnableSwagger).Msg("api mounted")
	return &Mounted{Crimes: crimes, Predictor: predictor}, nil
}
