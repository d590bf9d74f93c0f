// Package service reads the crime set and seeds synthetic crimes
package service

import (
	"context"

	"crimecast/internal/core/features"
	"crimecast/internal/modkit/repokit"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/platform/store"
	"crimecast/internal/services/crimes/domain"
	"crimecast/internal/services/crimes/repo"
)

// Service implements domain.Reader, domain.Writer and domain.RecordSource
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs the crimes service over db
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b}
}

func (s *Service) storage() (repo.Storage, error) {
	if s.DB == nil {
		return nil, perr.Unavailablef("crime store is not configured")
	}
	return s.Binder.Bind(s.DB), nil
}

// EnsureSchema creates the crimes table when missing
func (s *Service) EnsureSchema(ctx context.Context) error {
	st, err := s.storage()
	if err != nil {
		return err
	}
	return perr.FromStore(st.EnsureSchema(ctx), "ensure crimes schema")
}

// ListAll implements domain.Reader
func (s *Service) ListAll(ctx context.Context) ([]domain.Crime, error) {
	st, err := s.storage()
	if err != nil {
		return nil, err
	}
	xs, err := st.ListAll(ctx)
	if err != nil {
		return nil, dbErr(err, "list crimes")
	}
	return xs, nil
}

// Summary implements domain.Reader
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	st, err := s.storage()
	if err != nil {
		return domain.Summary{}, err
	}
	sum, err := st.Summary(ctx)
	if err != nil {
		return domain.Summary{}, dbErr(err, "summarise crimes")
	}
	return sum, nil
}

// Count returns the number of stored crimes
func (s *Service) Count(ctx context.Context) (int64, error) {
	st, err := s.storage()
	if err != nil {
		return 0, err
	}
	n, err := st.Count(ctx)
	if err != nil {
		return 0, dbErr(err, "count crimes")
	}
	return n, nil
}

// Ping checks the backend crimes are read from
func (s *Service) Ping(ctx context.Context) error {
	if s.DB == nil {
		return perr.Unavailablef("crime store is not configured")
	}
	if p, ok := s.DB.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Records implements domain.RecordSource
func (s *Service) Records(ctx context.Context) ([]features.Record, error) {
	xs, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]features.Record, len(xs))
	for i, c := range xs {
		out[i] = c.Record()
	}
	return out, nil
}

// InsertBatch implements domain.Writer; the batch is written in one transaction
func (s *Service) InsertBatch(ctx context.Context, xs []domain.Crime) (int, error) {
	if s.DB == nil {
		return 0, perr.Unavailablef("crime store is not configured")
	}
	n := 0
	err := repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		var err error
		n, err = repokit.MustBind(s.Binder, q).InsertBatch(ctx, xs)
		return err
	})
	if err != nil {
		return 0, dbErr(err, "insert crimes")
	}
	return n, nil
}

func dbErr(err error, op string) error {
	if perr.IsMissingTable(err) {
		return perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnavailable, "crimes table does not exist"), op)
	}
	return perr.WithOp(perr.FromStore(err, "crime store failure"), op)
}
