// Package repokit holds the types and helpers repository implementations share
package repokit

import (
	"context"

	"crimecast/internal/platform/store"
)

// Queryer is the read and write surface SQL repos use
type Queryer = store.RowQuerier

// TxRunner runs a function inside a transaction
type TxRunner = store.TxRunner

// Clickhouse is the columnar append seam
type Clickhouse = store.Clickhouse

type (
	// Rows is a result set
	Rows = store.Rows

	// Row is a single row
	Row = store.Row

	// CommandTag is the outcome of a write
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
