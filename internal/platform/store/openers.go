package store

import (
	"context"
	"fmt"
	"time"

	chx "crimecast/internal/platform/store/ch"
	"crimecast/internal/platform/store/lite"
	"crimecast/internal/platform/store/pg"
)

const (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// sleep is a seam for tests
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pingWithBackoff retries ping with exponential backoff until it succeeds, attempts run out or ctx ends
func pingWithBackoff(ctx context.Context, attempts int, perTry time.Duration, ping func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if perTry <= 0 {
		perTry = 3 * time.Second
	}
	var last error
	wait := backoffStart
	for i := 0; i < attempts; i++ {
		tctx, cancel := context.WithTimeout(ctx, perTry)
		last = ping(tctx)
		cancel()
		if last == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
		wait = min(wait*2, backoffCeiling)
	}
	return fmt.Errorf("ping failed after %d attempts: %w", attempts, last)
}

func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}
	if err := pingWithBackoff(ctx, cfg.PG.ConnectRetries, cfg.PG.PingTimeout, p.Pool.Ping); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Database: cfg.CH.Database, Role: cfg.CH.Role})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	db, err := lite.Open(ctx, lite.Config{Path: cfg.Lite.Path, ReadOnly: cfg.Lite.ReadOnly, BusyMs: cfg.Lite.BusyMs})
	if err != nil {
		return nil, err
	}
	s.Log.Debug().Str("path", cfg.Lite.Path).Bool("readonly", cfg.Lite.ReadOnly).Msg("sqlite opened")
	return newLiteAdapter(db), nil
}
