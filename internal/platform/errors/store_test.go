package errors

import (
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromStore(t *testing.T) {
	if FromStore(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	if got := CodeOf(FromStore(stderrs.New("boom"), "list")); got != ErrorCodeDB {
		t.Fatalf("plain error code = %v", got)
	}
	dup := &pgconn.PgError{Code: "23505"}
	if got := CodeOf(FromStore(dup, "insert")); got != ErrorCodeDuplicateKey {
		t.Fatalf("pg unique code = %v", got)
	}
	coded := Conflictf("busy")
	if FromStore(coded, "x") != coded {
		t.Fatalf("coded errors pass through")
	}
}

func TestIsMissingTable(t *testing.T) {
	if !IsMissingTable(&pgconn.PgError{Code: "42P01"}) {
		t.Fatalf("42P01 is a missing table")
	}
	if IsMissingTable(stderrs.New("no such table: crimes")) {
		t.Fatalf("non-driver errors are not classified")
	}
}
