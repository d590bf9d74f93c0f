package store

import (
	"context"
	"database/sql"
	"fmt"

	"crimecast/internal/platform/store/lite"
)

// sqlConn is the surface shared by *sql.DB and *sql.Tx
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type liteQuerier struct{ conn sqlConn }

func (q liteQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	res, err := q.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	return liteTag(n), nil
}

func (q liteQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rs, err := q.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &liteRows{r: rs}, nil
}

func (q liteQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	return q.conn.QueryRowContext(ctx, query, args...)
}

// liteAdapter is the TxRunner over an SQLite database
type liteAdapter struct {
	liteQuerier
	db *lite.DB
}

func newLiteAdapter(db *lite.DB) *liteAdapter {
	return &liteAdapter{liteQuerier: liteQuerier{conn: db.SQL}, db: db}
}

// Exec serialises writes outside transactions
func (a *liteAdapter) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	defer a.db.LockWrite()()
	return a.liteQuerier.Exec(ctx, query, args...)
}

// Tx holds the write lock for the whole transaction
func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	defer a.db.LockWrite()()
	tx, err := a.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(liteQuerier{conn: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Ping checks the connection
func (a *liteAdapter) Ping(ctx context.Context) error { return a.db.SQL.PingContext(ctx) }

// Close closes the database
func (a *liteAdapter) Close() error { return a.db.Close() }

type liteRows struct{ r *sql.Rows }

func (x *liteRows) Next() bool            { return x.r.Next() }
func (x *liteRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *liteRows) Err() error            { return x.r.Err() }
func (x *liteRows) Close()                { _ = x.r.Close() }
func (x *liteRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type liteTag int64

func (t liteTag) String() string      { return fmt.Sprintf("OK %d", int64(t)) }
func (t liteTag) RowsAffected() int64 { return int64(t) }
