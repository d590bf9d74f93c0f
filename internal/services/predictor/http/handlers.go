// Package http provides the predictor endpoints
package http

import (
	stdhttp "net/http"
	"strconv"

	"crimecast/internal/modkit/httpkit"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/services/predictor/domain"
)

// MaxModels caps GET /models
const MaxModels = 200

// Register mounts predictor endpoints on r
func Register(r httpkit.Router, s domain.Port) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/predict", h.predict)
	r.Post("/train", httpkit.Handle(h.train))
	httpkit.Get(r, "/status", h.status)
	httpkit.Get(r, "/hotspots", h.hotspots)
	httpkit.Get(r, "/models", h.models)
}

type handlers struct{ svc domain.Port }

// swagger:route POST /predictor/predict Predictor predict
// @Summary Crime probability at a point for the four time segments of a day
// @Description Returns a GeoJSON FeatureCollection with one feature per segment (Night, Morning, Afternoon, Evening).
// @Tags Predictor
// @Accept json
// @Produce json
// @Param body body domain.PredictInput true "location, date and optional crime type"
// @Success 200 {object} domain.PredictionCollection "ok"
// @Failure 400 {object} httpkit.Envelope "validation error"
// @Failure 422 {object} httpkit.Envelope "invalid date"
// @Failure 503 {object} httpkit.Envelope "model unavailable"
// @Router /predictor/predict [post]
func (h *handlers) predict(r *stdhttp.Request, in domain.PredictInput) (any, error) {
	return h.svc.Predict(r.Context(), in)
}

// swagger:route POST /predictor/train Predictor train
// @Summary Start training a new model in the background
// @Tags Predictor
// @Produce json
// @Success 202 {object} domain.Status "training started"
// @Failure 409 {object} httpkit.Envelope "training already in progress"
// @Router /predictor/train [post]
func (h *handlers) train(r *stdhttp.Request) httpkit.Response {
	st, err := h.svc.StartTraining(r.Context())
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Accepted(st)
}

// swagger:route GET /predictor/status Predictor status
// @Summary Predictor state and active model
// @Tags Predictor
// @Produce json
// @Success 200 {object} domain.Status "ok"
// @Router /predictor/status [get]
func (h *handlers) status(*stdhttp.Request) (any, error) {
	return h.svc.Status(), nil
}

// swagger:route GET /predictor/hotspots Predictor hotspots
// @Summary Hotspot centres of the active model
// @Tags Predictor
// @Produce json
// @Success 200 {object} map[string]any "GeoJSON FeatureCollection"
// @Failure 503 {object} httpkit.Envelope "model unavailable"
// @Router /predictor/hotspots [get]
func (h *handlers) hotspots(r *stdhttp.Request) (any, error) {
	return h.svc.Hotspots(r.Context())
}

// swagger:route GET /predictor/models Predictor models
// @Summary Trained model versions, newest first
// @Tags Predictor
// @Produce json
// @Param limit query int false "max rows (default 50)"
// @Success 200 {array} domain.ModelInfo "ok"
// @Failure 422 {object} httpkit.Envelope "bad limit"
// @Router /predictor/models [get]
func (h *handlers) models(r *stdhttp.Request) (any, error) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, perr.WithField(perr.InvalidArgf("limit must be a positive integer"), "limit")
		}
		limit = min(n, MaxModels)
	}
	xs, err := h.svc.Models(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	if xs == nil {
		xs = []domain.ModelInfo{}
	}
	return xs, nil
}
