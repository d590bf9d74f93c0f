package repo

import (
	"context"

	"crimecast/internal/modkit/repokit"
	"crimecast/internal/services/predictor/domain"

	"github.com/google/uuid"
)

// PredictionsTable is the ClickHouse prediction log table
const PredictionsTable = "crime_predictions"

// CH is the prediction log on ClickHouse
type CH struct {
	db repokit.Clickhouse
}

// NewCH constructs the ClickHouse prediction log
func NewCH(db repokit.Clickhouse) *CH { return &CH{db: db} }

// EnsureSchema creates the log table when missing
func (c *CH) EnsureSchema(ctx context.Context) error {
	return c.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+PredictionsTable+` (
			id              UUID,
			model_version   LowCardinality(String),
			latitude        Float64,
			longitude       Float64,
			prediction_date Date,
			crime_type      LowCardinality(String),
			time_of_day     LowCardinality(String),
			probability     Float64,
			created_at      DateTime64(3, 'UTC')
		)
		ENGINE = MergeTree
		PARTITION BY toYYYYMM(created_at)
		ORDER BY (model_version, created_at)`)
}

// Append implements domain.PredictionLogger
func (c *CH) Append(ctx context.Context, xs []domain.PredictionLog) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, len(xs))
	for i, p := range xs {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			id = uuid.New()
		}
		rows[i] = []any{id, p.ModelVersion, p.Latitude, p.Longitude, p.Date, p.CrimeType, p.TimeOfDay, p.Probability, p.CreatedAt}
	}
	return c.db.InsertBatch(ctx, PredictionsTable, rows)
}
