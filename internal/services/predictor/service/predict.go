package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"crimecast/internal/core/features"
	"crimecast/internal/core/geo"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/services/predictor/domain"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DateLayout is the accepted prediction date format
const DateLayout = "2006-01-02"

// AllCrimeTypes is reported when the request names no crime type
const AllCrimeTypes = "ALL"

// Predict implements domain.Port: one feature per time segment at the point
func (s *Service) Predict(ctx context.Context, in domain.PredictInput) (*geojson.FeatureCollection, error) {
	if in.Latitude == nil || in.Longitude == nil {
		return nil, perr.InvalidArgf("latitude and longitude are required")
	}
	p := orb.Point{*in.Longitude, *in.Latitude}
	if !geo.Valid(p) {
		return nil, perr.WithField(perr.InvalidArgf("coordinates out of range"), "latitude")
	}
	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("invalid date %q, expected YYYY-MM-DD", in.Date), "date")
	}

	m, err := s.serving(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	crimeType := strings.TrimSpace(in.CrimeType)
	if crimeType == "" {
		crimeType = AllCrimeTypes
	}
	factors := factorsOf(m)
	rows := features.Prediction(ds, m.Hotspots, p, date, in.CrimeType, m.DefaultDistrict)

	now := s.now().UTC()
	fc := geojson.NewFeatureCollection()
	logs := make([]domain.PredictionLog, 0, len(rows))
	for _, row := range rows {
		prob := m.Forest.Proba(row.Vector.Slice())
		f := geojson.NewFeature(p)
		f.Properties = geojson.Properties{
			"probability":   prob,
			"crime_type":    crimeType,
			"radius":        s.cfg.Radius,
			"factors":       factors,
			"address":       nil,
			"time_of_day":   row.Segment.Name,
			"model_version": m.Version,
		}
		fc.Append(f)
		logs = append(logs, domain.PredictionLog{
			ID:           uuid.NewString(),
			ModelVersion: m.Version,
			Latitude:     *in.Latitude,
			Longitude:    *in.Longitude,
			Date:         date,
			CrimeType:    crimeType,
			TimeOfDay:    row.Segment.Name,
			Probability:  prob,
			CreatedAt:    now,
		})
	}

	if s.plog != nil && s.cfg.LogPredictions {
		if err := s.plog.Append(ctx, logs); err != nil {
			s.logger(ctx).Warn().Err(err).Msg("prediction log append failed")
		}
	}
	return fc, nil
}

// serving returns the model predictions use; with no active model it either
// trains synchronously or fails fast
func (s *Service) serving(ctx context.Context) (*domain.Model, error) {
	m, err := s.activeModel(ctx)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, domain.ErrNoModel) {
		return nil, err
	}
	if !s.cfg.AutoTrain {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "model unavailable")
	}
	s.logger(ctx).Info().Msg("no active model, training before prediction")
	m, err = s.Train(ctx)
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		return m, err
	}
	// another caller is training; use its result
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}
	m, err = s.activeModel(ctx)
	if errors.Is(err, domain.ErrNoModel) {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "model unavailable")
	}
	return m, err
}

func factorsOf(m *domain.Model) []domain.Factor {
	out := make([]domain.Factor, 0, len(m.Columns))
	for i, c := range m.Columns {
		if i >= len(m.Forest.Importances) {
			break
		}
		out = append(out, domain.Factor{Feature: c, Importance: m.Forest.Importances[i]})
	}
	return out
}

// Hotspots implements domain.Port: the active model's centres as points
func (s *Service) Hotspots(ctx context.Context) (*geojson.FeatureCollection, error) {
	m, err := s.activeModel(ctx)
	if errors.Is(err, domain.ErrNoModel) {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "model unavailable")
	}
	if err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for i, c := range m.Hotspots {
		size := 0
		if i < len(m.HotspotSizes) {
			size = m.HotspotSizes[i]
		}
		f := geojson.NewFeature(c)
		f.ID = i
		f.Properties = geojson.Properties{
			"rank":          i,
			"crime_count":   size,
			"model_version": m.Version,
		}
		fc.Append(f)
	}
	return fc, nil
}

// Models implements domain.Port; the metadata table wins, the registry directory is the fallback
func (s *Service) Models(ctx context.Context, limit int) ([]domain.ModelInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	if s.meta != nil {
		xs, err := s.meta.List(ctx, limit)
		if err == nil {
			return xs, nil
		}
		s.logger(ctx).Warn().Err(err).Msg("model metadata unavailable, listing registry")
	}
	xs, err := s.reg.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(xs) > limit {
		xs = xs[:limit]
	}
	return xs, nil
}
