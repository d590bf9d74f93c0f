package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromPostgres(t *testing.T) {
	cases := []struct {
		state string
		want  ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"57P03", ErrorCodeUnavailable},
		{"42P01", ErrorCodeDB},
	}
	for _, c := range cases {
		err := FromPostgres(&pgconn.PgError{Code: c.state}, "query")
		if CodeOf(err) != c.want {
			t.Fatalf("%s: code %v, want %v", c.state, CodeOf(err), c.want)
		}
	}

	withCol := FromPostgres(&pgconn.PgError{Code: "23502", ColumnName: "version"}, "insert")
	if e, _ := As(withCol); e.Field() != "version" {
		t.Fatalf("field = %q", e.Field())
	}
	if CodeOf(FromPostgres(stderrs.New("plain"), "q")) != ErrorCodeDB {
		t.Fatalf("non-pg errors should map to db")
	}
	if FromPostgres(nil, "q") != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestUndefinedTableAndRetry(t *testing.T) {
	wrapped := fmt.Errorf("list: %w", &pgconn.PgError{Code: "42P01"})
	if !IsUndefinedTable(wrapped) {
		t.Fatalf("IsUndefinedTable should see through wrapping")
	}

	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{&pgconn.PgError{Code: "40001"}, true},
		{&pgconn.PgError{Code: "40P01"}, true},
		{&pgconn.PgError{Code: "23505"}, false},
		{stderrs.New("dial tcp: connection refused"), true},
		{stderrs.New("syntax"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("IsRetryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestFromSQLiteForeign(t *testing.T) {
	if CodeOf(FromSQLite(stderrs.New("x"), "scan")) != ErrorCodeDB {
		t.Fatalf("foreign sqlite error should map to db")
	}
	if FromSQLite(nil, "x") != nil || IsSQLiteBusy(stderrs.New("x")) {
		t.Fatalf("nil/foreign handling wrong")
	}
}
