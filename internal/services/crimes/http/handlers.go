// Package http provides the read-only crimes endpoints
package http

import (
	stdhttp "net/http"

	"crimecast/internal/modkit/httpkit"
	"crimecast/internal/services/crimes/domain"
)

// Register mounts crimes endpoints on r
func Register(r httpkit.Router, s domain.Reader) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/summary", h.summary)
}

type handlers struct{ svc domain.Reader }

// swagger:route GET /crimes/summary Crimes crimesSummary
// @Summary Summary of the crime set the predictor trains on
// @Tags Crimes
// @Produce json
// @Success 200 {object} domain.Summary "ok"
// @Failure 503 {object} httpkit.Envelope "crime store unavailable"
// @Router /crimes/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	return h.svc.Summary(r.Context())
}
