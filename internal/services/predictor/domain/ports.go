package domain

import (
	"context"
	"errors"

	"crimecast/internal/core/features"

	"github.com/paulmach/orb/geojson"
)

// ErrNoModel is returned when no model version is active
var ErrNoModel = errors.New("no active model")

// CrimeSource reads the crime set to train on
type CrimeSource interface {
	Records(ctx context.Context) ([]features.Record, error)
}

// Registry persists model artifacts and tracks the active one
type Registry interface {
	Save(ctx context.Context, m *Model) (string, error)
	Activate(ctx context.Context, version string) error
	Load(ctx context.Context, version string) (*Model, error)
	LoadActive(ctx context.Context) (*Model, error)
	List(ctx context.Context) ([]ModelInfo, error)
}

// MetadataStore records model metadata rows
type MetadataStore interface {
	Record(ctx context.Context, info ModelInfo) error
	List(ctx context.Context, limit int) ([]ModelInfo, error)
}

// PredictionLogger appends emitted predictions
type PredictionLogger interface {
	Append(ctx context.Context, xs []PredictionLog) error
}

// Port is what the HTTP layer and jobs use
type Port interface {
	Predict(ctx context.Context, in PredictInput) (*geojson.FeatureCollection, error)
	Train(ctx context.Context) (*Model, error)
	StartTraining(ctx context.Context) (Status, error)
	EnsureTrained(ctx context.Context) Status
	Status() Status
	Hotspots(ctx context.Context) (*geojson.FeatureCollection, error)
	Models(ctx context.Context, limit int) ([]ModelInfo, error)
}
