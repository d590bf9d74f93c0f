//go:build integration_pg

package repo

import (
	"context"
	"io"
	"testing"
	"time"

	"crimecast/internal/platform/store"
	"crimecast/internal/platform/testkit/pgtest"
	"crimecast/internal/services/predictor/domain"

	"github.com/rs/zerolog"
)

func TestMetadata_Integration(t *testing.T) {
	dsn := pgtest.Start(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2}},
		store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	meta := NewMetadata(st.PG)
	if _, err := meta.List(ctx, 10); err == nil {
		t.Fatal("expected missing table error")
	}
	if err := meta.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	t0 := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	for i, v := range []string{"v1", "v2"} {
		info := domain.ModelInfo{
			Version:   v,
			Name:      "crime-hotspot-rf",
			Algorithm: domain.Algorithm,
			Params:    domain.Params{Trees: 100, Seed: 42, Hotspots: 10},
			Accuracy:  0.9,
			IsActive:  true,
			TrainedAt: t0.Add(time.Duration(i) * time.Hour),
			Positives: 10,
			Negatives: 20,
			Path:      "/models/" + v + ".json",
		}
		if err := meta.Record(ctx, info); err != nil {
			t.Fatalf("record %s: %v", v, err)
		}
	}

	xs, err := meta.List(ctx, 10)
	if err != nil || len(xs) != 2 {
		t.Fatalf("list = %v, %v", xs, err)
	}
	if xs[0].Version != "v2" || !xs[0].IsActive || xs[1].IsActive {
		t.Fatalf("active flags = %+v", xs)
	}
	if xs[0].Params.Trees != 100 || xs[0].Params.Seed != 42 {
		t.Fatalf("params = %+v", xs[0].Params)
	}
}
