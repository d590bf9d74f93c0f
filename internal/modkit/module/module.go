// Package module is the minimal module contract, kept apart from modkit to avoid import cycles
package module

import phttp "crimecast/internal/platform/net/http"

// Module mounts routes and exposes ports for cross-module wiring
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
