package service

import (
	"context"
	"errors"
	"time"

	"crimecast/internal/core/features"
	"crimecast/internal/core/forest"
	"crimecast/internal/core/hotspot"
	"crimecast/internal/core/sampling"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/services/predictor/domain"

	"github.com/google/uuid"
)

func (s *Service) train(ctx context.Context) (*domain.Model, *features.Dataset, error) {
	start := s.now()
	p := s.cfg.Params
	log := s.logger(ctx)

	records, err := s.src.Records(ctx)
	if err != nil {
		return nil, nil, err
	}
	ds := features.Prepare(records)
	if ds.Empty() {
		return nil, nil, perr.Validationf("no crime data available for training")
	}

	hs, err := hotspot.Compute(ds.Points(), p.Hotspots, p.Seed, hotspot.DefaultOptions())
	if err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeValidation, "no crime data available for training")
	}

	pos, labels := features.Training(ds, hs.Centers, p.Target)
	neg, err := sampling.Negatives(ctx, ds, hs.Centers, len(pos), p.Seed, sampling.Options{
		Ratio:          p.NegativeRatio,
		MinKm:          p.NegativeMinKm,
		AttemptsFactor: p.NegativeAttempts,
	})
	switch {
	case errors.Is(err, sampling.ErrExhausted):
		return nil, nil, perr.Wrap(err, perr.ErrorCodeValidation, "could not generate negative samples")
	case err != nil:
		return nil, nil, err
	}

	x := make([][]float64, 0, len(pos)+len(neg))
	y := make([]int, 0, len(pos)+len(neg))
	for i, v := range pos {
		x = append(x, v.Slice())
		y = append(y, labels[i])
	}
	for _, v := range neg {
		x = append(x, v.Slice())
		y = append(y, 0)
	}

	fp := forest.DefaultParams()
	if p.Trees > 0 {
		fp.Trees = p.Trees
	}
	fp.Seed = p.Seed
	fp.MaxDepth = p.MaxDepth
	f, err := forest.Fit(ctx, x, y, fp)
	switch {
	case errors.Is(err, forest.ErrEmpty):
		return nil, nil, perr.Wrap(err, perr.ErrorCodeValidation, "no crime data available for training")
	case err != nil:
		return nil, nil, err
	}

	m := &domain.Model{
		Version:         newVersion(),
		Name:            s.cfg.ModelName,
		Algorithm:       domain.Algorithm,
		TrainedAt:       s.now().UTC(),
		Columns:         append([]string(nil), features.Columns[:]...),
		Hotspots:        hs.Centers,
		HotspotSizes:    hs.Sizes,
		Districts:       ds.Vocab,
		DefaultDistrict: ds.DefaultDistrict(),
		Params:          p,
		Positives:       len(pos),
		Negatives:       len(neg),
		Accuracy:        f.Accuracy(x, y),
		OOBScore:        f.OOBScore,
		Forest:          f,
	}

	path, err := s.reg.Save(ctx, m)
	if err != nil {
		return nil, nil, err
	}
	if err := s.reg.Activate(ctx, m.Version); err != nil {
		return nil, nil, err
	}
	if s.meta != nil {
		if err := s.meta.Record(ctx, m.Info(path, true)); err != nil {
			log.Warn().Err(err).Str("version", m.Version).Msg("model metadata not recorded")
		}
	}

	log.Info().
		Str("version", m.Version).
		Int("crimes", ds.Len()).
		Int("hotspots", len(hs.Centers)).
		Int("positives", m.Positives).
		Int("negatives", m.Negatives).
		Float64("train_accuracy", m.Accuracy).
		Float64("oob_accuracy", m.OOBScore).
		Dur("took", time.Since(start)).
		Msg("model trained")
	return m, ds, nil
}

func newVersion() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
