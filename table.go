// Tables: identity-indexed record collections.
//
// Records live in a map keyed by id. A parallel slice remembers insertion
// order, which is the table's natural iteration order and the order rows
// are written to a snapshot. Records are never removed, so the slice has no
// holes and its length always equals the map's.
package nrdb

import (
	"fmt"
	"iter"
	"slices"
)

// Table is a named collection of Records. Tables are created through
// Database.InitTable and must not be shared between goroutines without
// external locking.
type Table struct {
	name    string
	convert bool
	exclude map[string]struct{}
	next    int64
	rows    map[int64]Record
	order   []int64
}

// TableOption configures a table when it is first created.
type TableOption func(*Table)

// WithConvert enables or disables numeric coercion on insert.
func WithConvert(on bool) TableOption {
	return func(t *Table) { t.convert = on }
}

// WithConvertExclude lists fields that are never coerced.
func WithConvertExclude(fields ...string) TableOption {
	return func(t *Table) {
		for _, f := range fields {
			t.exclude[f] = struct{}{}
		}
	}
}

func newTable(name string, opts ...TableOption) *Table {
	t := &Table{
		name:    name,
		convert: true,
		exclude: make(map[string]struct{}),
		next:    1,
		rows:    make(map[int64]Record),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Convert reports whether numeric coercion is enabled.
func (t *Table) Convert() bool { return t.convert }

// ConvertExclude returns the fields exempt from coercion, sorted.
func (t *Table) ConvertExclude() []string {
	out := make([]string, 0, len(t.exclude))
	for f := range t.exclude {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// NextID returns the counter the next automatic id search starts from.
func (t *Table) NextID() int64 { return t.next }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) String() string {
	return fmt.Sprintf("<nrdb.Table:%s> %d rows", t.name, len(t.rows))
}

// Get returns the record stored under id.
func (t *Table) Get(id int64) (Record, error) {
	r, ok := t.rows[id]
	if !ok {
		return nil, &IndexError{Table: t.name, Op: "get", ID: id, Err: ErrIDNotFound}
	}
	return r, nil
}

// GetRow returns the record stored under id wrapped in a Row view.
func (t *Table) GetRow(id int64) (*Row, error) {
	r, err := t.Get(id)
	if err != nil {
		return nil, err
	}
	return NewRow(r), nil
}

// Rows yields every record in insertion order. The set of ids is fixed
// when iteration starts; ranging again starts over.
func (t *Table) Rows() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		ids := t.order[:len(t.order):len(t.order)]
		for _, id := range ids {
			if !yield(t.rows[id]) {
				return
			}
		}
	}
}
