// Package repo stores model metadata in Postgres and the prediction log in ClickHouse
package repo

import (
	"context"
	"encoding/json"

	"crimecast/internal/modkit/repokit"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/platform/store"
	"crimecast/internal/services/predictor/domain"
)

// Models is the prediction_models repository
type Models interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, info domain.ModelInfo) error
	Activate(ctx context.Context, version string) error
	List(ctx context.Context, limit int) ([]domain.ModelInfo, error)
}

type (
	pgModels struct{ q repokit.Queryer }
	binder   struct{}
)

// NewPG binds the model metadata repo to Postgres
func NewPG() repokit.Binder[Models] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Models { return &pgModels{q: q} }

func (s *pgModels) EnsureSchema(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS prediction_models (
			version        TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			algorithm_type TEXT NOT NULL,
			parameters     JSONB NOT NULL DEFAULT '{}'::jsonb,
			accuracy       DOUBLE PRECISION,
			is_active      BOOLEAN NOT NULL DEFAULT FALSE,
			trained_at     TIMESTAMPTZ NOT NULL,
			positives      INTEGER NOT NULL DEFAULT 0,
			negatives      INTEGER NOT NULL DEFAULT 0,
			artifact_path  TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS prediction_models_one_active
		ON prediction_models (is_active) WHERE is_active`)
	return err
}

func (s *pgModels) Insert(ctx context.Context, m domain.ModelInfo) error {
	params, err := json.Marshal(m.Params)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO prediction_models
			(version, name, algorithm_type, parameters, accuracy, is_active, trained_at, positives, negatives, artifact_path)
		VALUES ($1, $2, $3, $4::jsonb, $5, FALSE, $6, $7, $8, $9)
		ON CONFLICT (version) DO UPDATE SET
			accuracy = EXCLUDED.accuracy,
			artifact_path = EXCLUDED.artifact_path`,
		m.Version, m.Name, m.Algorithm, string(params), m.Accuracy, m.TrainedAt, m.Positives, m.Negatives, m.Path)
	return err
}

// Activate flips is_active; run it inside a transaction so exactly one row stays active.
// An unknown version is ErrorCodeNotFound.
func (s *pgModels) Activate(ctx context.Context, version string) error {
	if _, err := s.q.Exec(ctx, `UPDATE prediction_models SET is_active = FALSE WHERE is_active AND version <> $1`, version); err != nil {
		return err
	}
	return store.ExecOne(ctx, s.q, `UPDATE prediction_models SET is_active = TRUE WHERE version = $1`, version)
}

func (s *pgModels) List(ctx context.Context, limit int) ([]domain.ModelInfo, error) {
	return store.Many(ctx, s.q, scanModel, `
		SELECT version, name, algorithm_type, parameters::text, COALESCE(accuracy, 0), is_active,
			trained_at, positives, negatives, artifact_path
		FROM prediction_models
		ORDER BY trained_at DESC, version DESC
		LIMIT $1`, limit)
}

func scanModel(r store.Row) (domain.ModelInfo, error) {
	var (
		m      domain.ModelInfo
		params string
	)
	if err := r.Scan(&m.Version, &m.Name, &m.Algorithm, &params, &m.Accuracy, &m.IsActive,
		&m.TrainedAt, &m.Positives, &m.Negatives, &m.Path); err != nil {
		return m, err
	}
	return m, json.Unmarshal([]byte(params), &m.Params)
}

// Metadata implements domain.MetadataStore over a Postgres TxRunner
type Metadata struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[Models]
}

// NewMetadata binds the metadata store to db
func NewMetadata(db repokit.TxRunner) *Metadata { return &Metadata{DB: db, Binder: NewPG()} }

// EnsureSchema creates prediction_models when missing
func (m *Metadata) EnsureSchema(ctx context.Context) error {
	return perr.FromStore(m.Binder.Bind(m.DB).EnsureSchema(ctx), "ensure prediction_models schema")
}

// Record inserts info and makes it the only active row
func (m *Metadata) Record(ctx context.Context, info domain.ModelInfo) error {
	err := repokit.WithTx(ctx, m.DB, func(q repokit.Queryer) error {
		ms := repokit.MustBind(m.Binder, q)
		if err := ms.Insert(ctx, info); err != nil {
			return err
		}
		if !info.IsActive {
			return nil
		}
		return ms.Activate(ctx, info.Version)
	})
	return perr.WithOp(perr.FromStore(err, "record model metadata"), "models.record")
}

// List returns up to limit rows, newest first
func (m *Metadata) List(ctx context.Context, limit int) ([]domain.ModelInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	xs, err := m.Binder.Bind(m.DB).List(ctx, limit)
	if err != nil {
		if perr.IsMissingTable(err) {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "prediction_models table does not exist")
		}
		return nil, perr.WithOp(perr.FromStore(err, "list model metadata"), "models.list")
	}
	return xs, nil
}
