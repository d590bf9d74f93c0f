package domain

import (
	"context"
	"strconv"

	"crimecast/internal/core/features"
)

// Reader reads crimes
type Reader interface {
	ListAll(ctx context.Context) ([]Crime, error)
	Summary(ctx context.Context) (Summary, error)
}

// Writer inserts crimes; used by the seeder
type Writer interface {
	InsertBatch(ctx context.Context, xs []Crime) (int, error)
}

// RecordSource is the read port the predictor consumes
type RecordSource interface {
	Records(ctx context.Context) ([]features.Record, error)
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
