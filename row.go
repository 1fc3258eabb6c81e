// Row views and result materialisation.
//
// A Row wraps a single Record without copying it. Keyed access (Get) is
// strict and fails on a missing field; named access (Attr) is permissive and
// returns nil instead. Writes through either form land in the shared map, so
// the table, the caller and every other Row over the same record observe
// them immediately.
//
// Sequences from Table.Rows and Query.All yield raw Records. Materialize
// maps them through one of a closed set of strategies: AsRecord, AsRow, or
// a caller-supplied constructor.
package nrdb

import (
	"fmt"
	"iter"
)

// Row is a non-owning view over one Record.
type Row struct {
	data Record
}

// NewRow wraps r. A nil r is replaced by an empty record so that writes
// through the view have somewhere to go.
func NewRow(r Record) *Row {
	if r == nil {
		r = Record{}
	}
	return &Row{data: r}
}

// Get returns the value of field, or ErrFieldNotFound.
func (r *Row) Get(field string) (any, error) {
	v, ok := r.data[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	return v, nil
}

// Attr returns the value of field, or nil when it is missing.
func (r *Row) Attr(field string) any {
	return r.data[field]
}

// Set assigns field in the underlying record.
func (r *Row) Set(field string, v any) {
	r.data[field] = v
}

// SetAttr is the named-property form of Set.
func (r *Row) SetAttr(field string, v any) {
	r.Set(field, v)
}

// Record returns the backing map.
func (r *Row) Record() Record {
	return r.data
}

// Materializer turns a stored record into the value handed to the caller.
type Materializer[T any] func(Record) T

// AsRecord yields records unchanged.
func AsRecord(r Record) Record { return r }

// AsRow wraps each record in a Row view.
func AsRow(r Record) *Row { return NewRow(r) }

// Materialize lazily applies m to every record of seq.
func Materialize[T any](seq iter.Seq[Record], m Materializer[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for r := range seq {
			if !yield(m(r)) {
				return
			}
		}
	}
}
