package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values that get a specific code
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
	sqlstateNotNullViolation    = "23502"
	sqlstateCheckViolation      = "23514"
	sqlstateInvalidText         = "22P02"
	sqlstateUndefinedTable      = "42P01"
	sqlstateSerialization       = "40001"
	sqlstateDeadlock            = "40P01"
	sqlstateCannotConnectNow    = "57P03"
	sqlstateAdminShutdown       = "57P01"
)

// PgError returns the *pgconn.PgError in err's chain
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, state string) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == state
}

// IsUndefinedTable reports a missing relation, e.g. the crimes table not migrated yet
func IsUndefinedTable(err error) bool { return IsSQLState(err, sqlstateUndefinedTable) }

// pgCode maps a Postgres error to a code; ok is false for non-pg errors
func pgCode(err error) (ErrorCode, bool) {
	pgErr, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case sqlstateUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case sqlstateForeignKeyViolation, sqlstateInvalidText:
		return ErrorCodeInvalidArgument, true
	case sqlstateNotNullViolation, sqlstateCheckViolation:
		return ErrorCodeValidation, true
	case sqlstateCannotConnectNow, sqlstateAdminShutdown:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with the code its SQLSTATE implies and attaches the column as field
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := pgCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if pgErr, ok := PgError(err); ok && strings.TrimSpace(pgErr.ColumnName) != "" {
		out = WithField(out, pgErr.ColumnName)
	}
	return out
}

// IsRetryable reports transient storage failures worth another attempt
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := PgError(err); ok {
		switch pgErr.Code {
		case sqlstateSerialization, sqlstateDeadlock, sqlstateCannotConnectNow:
			return true
		}
		return false
	}
	if IsSQLiteBusy(err) {
		return true
	}
	s := strings.ToLower(Root(err).Error())
	return strings.Contains(s, "connection refused") || strings.Contains(s, "connection reset")
}
