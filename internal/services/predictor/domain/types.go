// Package domain defines the trained model artifact, its metadata and the predictor ports
package domain

import (
	"time"

	"crimecast/internal/core/forest"

	"github.com/paulmach/orb"
)

// Algorithm is recorded on every model
const Algorithm = "random_forest"

// Params are the knobs a model was trained with
type Params struct {
	Hotspots         int     `json:"hotspots"`
	Trees            int     `json:"trees"`
	Seed             int64   `json:"seed"`
	MaxDepth         int     `json:"max_depth"`
	NegativeRatio    int     `json:"negative_ratio"`
	NegativeMinKm    float64 `json:"negative_min_km"`
	NegativeAttempts int     `json:"negative_attempts"`
	Target           string  `json:"target,omitempty"`
}

// Model is the persisted artifact: everything inference needs, nothing more
type Model struct {
	Version   string    `json:"version"`
	Name      string    `json:"name"`
	Algorithm string    `json:"algorithm"`
	TrainedAt time.Time `json:"trained_at"`

	// Columns is the feature order the forest was fitted on
	Columns []string `json:"columns"`
	// Hotspots are (lon, lat) centres; HotspotSizes counts crimes per centre
	Hotspots     []orb.Point `json:"hotspots"`
	HotspotSizes []int       `json:"hotspot_sizes"`
	// Districts is the sorted vocabulary district codes index
	Districts       []string `json:"districts"`
	DefaultDistrict int      `json:"default_district"`

	Params    Params  `json:"params"`
	Positives int     `json:"positives"`
	Negatives int     `json:"negatives"`
	Accuracy  float64 `json:"accuracy"`
	OOBScore  float64 `json:"oob_score"`

	Forest *forest.Forest `json:"forest"`
}

// Info summarises m for the metadata table
func (m *Model) Info(path string, active bool) ModelInfo {
	return ModelInfo{
		Version:   m.Version,
		Name:      m.Name,
		Algorithm: m.Algorithm,
		Params:    m.Params,
		Accuracy:  m.OOBScore,
		IsActive:  active,
		TrainedAt: m.TrainedAt,
		Positives: m.Positives,
		Negatives: m.Negatives,
		Path:      path,
	}
}

// ModelInfo is a row of the model metadata table
type ModelInfo struct {
	Version   string    `json:"version"    example:"01927b3e-9c1a-7d2e-8f00-5a1b2c3d4e5f"`
	Name      string    `json:"name"       example:"crime-hotspot-rf"`
	Algorithm string    `json:"algorithm"  example:"random_forest"`
	Params    Params    `json:"params"`
	Accuracy  float64   `json:"accuracy"   example:"0.91"`
	IsActive  bool      `json:"is_active"  example:"true"`
	TrainedAt time.Time `json:"trained_at" example:"2026-10-16T10:00:00Z"`
	Positives int       `json:"positives"  example:"1200"`
	Negatives int       `json:"negatives"  example:"2400"`
	Path      string    `json:"path,omitempty"`
}

// State is the predictor lifecycle state
type State string

const (
	// StateUntrained means no model is loaded or available
	StateUntrained State = "untrained"
	// StateTraining means a training run is in flight
	StateTraining State = "training"
	// StateTrained means a model is loaded and serving
	StateTrained State = "trained"
)

// Status reports the predictor state
type Status struct {
	State         State      `json:"state"                    example:"trained"`
	ActiveVersion string     `json:"active_version,omitempty" example:"01927b3e-9c1a-7d2e-8f00-5a1b2c3d4e5f"`
	TrainedAt     *time.Time `json:"trained_at,omitempty"`
	TrainingSince *time.Time `json:"training_since,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// PredictionLog is one emitted segment probability
type PredictionLog struct {
	ID           string
	ModelVersion string
	Latitude     float64
	Longitude    float64
	Date         time.Time
	CrimeType    string
	TimeOfDay    string
	Probability  float64
	CreatedAt    time.Time
}
