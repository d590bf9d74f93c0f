package errors

import (
	stderrs "errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteCode returns the primary result code of a modernc sqlite error
func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if !stderrs.As(err, &se) {
		return 0, false
	}
	return se.Code() & 0xff, true
}

// IsSQLiteBusy reports SQLITE_BUSY or SQLITE_LOCKED
func IsSQLiteBusy(err error) bool {
	c, ok := sqliteCode(err)
	return ok && (c == sqlite3.SQLITE_BUSY || c == sqlite3.SQLITE_LOCKED)
}

// FromSQLite wraps a sqlite error with the code its result code implies
func FromSQLite(err error, msg string) error {
	if err == nil {
		return nil
	}
	c, ok := sqliteCode(err)
	switch {
	case !ok:
		return Wrap(err, ErrorCodeDB, msg)
	case c == sqlite3.SQLITE_BUSY || c == sqlite3.SQLITE_LOCKED:
		return Wrap(err, ErrorCodeUnavailable, msg)
	case c == sqlite3.SQLITE_CONSTRAINT:
		return Wrap(err, ErrorCodeValidation, msg)
	default:
		return Wrap(err, ErrorCodeDB, msg)
	}
}
