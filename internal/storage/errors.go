package storage

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3lib.SQLITE_CONSTRAINT:
			return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

// IsMissingTable reports whether err comes from a query on a table that does not exist.
func IsMissingTable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return strings.Contains(sqliteErr.Error(), "no such table")
	}
	return false
}
