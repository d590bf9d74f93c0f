package errors

import "strings"

// IsMissingTable reports an undefined relation on either SQL backend
func IsMissingTable(err error) bool {
	if IsUndefinedTable(err) {
		return true
	}
	if _, ok := sqliteCode(err); ok {
		return strings.Contains(err.Error(), "no such table")
	}
	return false
}

// FromStore maps a driver error from any SQL backend to a coded error
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := PgError(err); ok {
		return FromPostgres(err, msg)
	}
	if _, ok := sqliteCode(err); ok {
		return FromSQLite(err, msg)
	}
	if _, ok := As(err); ok {
		return err
	}
	return Wrap(err, ErrorCodeDB, msg)
}
