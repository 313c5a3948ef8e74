package db

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrSchema is returned when the todos table cannot be created or verified.
	ErrSchema = errors.New("schema error")

	// ErrConstraint is returned when a write violates a table constraint,
	// such as a duplicate primary key.
	ErrConstraint = errors.New("constraint violation")

	// ErrIO covers every other storage failure: disk, locking, driver.
	ErrIO = errors.New("storage error")

	// ErrNotFound is returned by Get when no row has the requested id.
	ErrNotFound = errors.New("todo row not found")
)

// classify wraps a driver error with the matching sentinel.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConstraint(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}

func isConstraint(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
