// Package nrdb provides an in-process, non-relational document store. A
// Database owns a set of named Tables; each Table holds loosely-typed
// Records keyed by an auto-assigned integer id. Records are selected with
// Query, a small expression tree built from field paths, comparisons and
// AND/OR combinators, and evaluated lazily one record at a time. A whole
// Database is persisted as a versioned JSON snapshot.
//
// Nothing in this package is safe for concurrent use. Callers sharing a
// Database or Table between goroutines must wrap every call in their own
// mutex. Sequences returned by Rows, All and Limit hold no locks or files,
// so abandoning one mid-range leaks nothing.
package nrdb

import (
	"errors"
	"fmt"
)

// Root sentinels for the three error kinds. Every error the engine raises
// itself matches exactly one of them; I/O errors are passed through wrapped.
var (
	ErrDB    = errors.New("nrdb")        // engine: snapshots, binding, tables, query building
	ErrIndex = errors.New("nrdb: index") // identity: bad, duplicate or unknown id
	ErrType  = errors.New("nrdb: type")  // shape: argument is not a record
)

// Engine errors.
var (
	ErrCorruptSnapshot = fmt.Errorf("%w: corrupt snapshot", ErrDB)
	ErrVersion         = fmt.Errorf("%w: incompatible snapshot version", ErrDB)
	ErrNoDatabase      = fmt.Errorf("%w: query has no database", ErrDB)
	ErrDatabaseBound   = fmt.Errorf("%w: query is already bound to a database", ErrDB)
	ErrTableNotFound   = fmt.Errorf("%w: table not found", ErrDB)
	ErrTableMismatch   = fmt.Errorf("%w: queries reference different tables", ErrDB)
	ErrQueryFinalized  = fmt.Errorf("%w: query already has a comparison", ErrDB)
	ErrQueryCombinator = fmt.Errorf("%w: query combines other queries and cannot be extended", ErrDB)
	ErrEmptyQuery      = fmt.Errorf("%w: query was not built with NewQuery", ErrDB)
)

// Identity errors. They always arrive wrapped in an *IndexError.
var (
	ErrInvalidID   = errors.New("id must be an integer")
	ErrDuplicateID = errors.New("id already exists")
	ErrIDNotFound  = errors.New("id not found")
	ErrMissingID   = errors.New("record has no id")
)

// ErrFieldNotFound is returned by Row.Get for a missing field.
var ErrFieldNotFound = errors.New("field not found")

// IndexError reports an identity failure on a table operation.
type IndexError struct {
	Table string
	Op    string
	ID    any
	Err   error
}

func (e *IndexError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("nrdb: table %q: %s: %v (id %v)", e.Table, e.Op, e.Err, e.ID)
	}
	return fmt.Sprintf("nrdb: table %q: %s: %v", e.Table, e.Op, e.Err)
}

// Unwrap exposes both the ErrIndex kind and the specific cause.
func (e *IndexError) Unwrap() []error {
	return []error{ErrIndex, e.Err}
}

// TypeError reports a call made with something other than a record.
type TypeError struct {
	Table string
	Op    string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("nrdb: table %q: %s: expected a record", e.Table, e.Op)
}

func (e *TypeError) Unwrap() error {
	return ErrType
}
