package nrdb

import (
	"errors"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	roots := []error{ErrDB, ErrIndex, ErrType}

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"corrupt", ErrCorruptSnapshot, ErrDB},
		{"version", ErrVersion, ErrDB},
		{"no database", ErrNoDatabase, ErrDB},
		{"bound", ErrDatabaseBound, ErrDB},
		{"table not found", ErrTableNotFound, ErrDB},
		{"mismatch", ErrTableMismatch, ErrDB},
		{"finalized", ErrQueryFinalized, ErrDB},
		{"combinator", ErrQueryCombinator, ErrDB},
		{"empty query", ErrEmptyQuery, ErrDB},
		{"index", &IndexError{Table: "t", Op: "insert", Err: ErrDuplicateID}, ErrIndex},
		{"type", &TypeError{Table: "t", Op: "insert"}, ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, root := range roots {
				want := root == tt.kind
				if got := errors.Is(tt.err, root); got != want {
					t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, root, got, want)
				}
			}
		})
	}
}

func TestIndexErrorMessage(t *testing.T) {
	err := &IndexError{Table: "users", Op: "insert", ID: int64(3), Err: ErrDuplicateID}
	if got, want := err.Error(), `nrdb: table "users": insert: id already exists (id 3)`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &IndexError{Table: "users", Op: "update", Err: ErrMissingID}
	if got, want := err.Error(), `nrdb: table "users": update: record has no id`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrMissingID) {
		t.Error("IndexError does not unwrap to its cause")
	}
}
