// Query expressions.
//
// A Query is an immutable value wrapping an expression tree over one named
// table. The tree has two node kinds: a leaf, which walks a field path into
// a record and optionally compares the value found there, and a
// combinator, which joins two sub-trees with AND or OR (see logic.go).
// Every builder method returns a new Query; the receiver is never
// modified, so a partially built query can be reused as a prefix:
//
//	users := nrdb.NewQuery("users")
//	adults := users.Field("age").Ge(18)
//	named := users.Field("name").Exists()
//
// Builders that cannot fail return a Query directly. A misuse, such as
// extending the path of a leaf that already carries a comparison, is
// recorded on the returned Query and reported by Err, All, Limit and any
// combinator built from it. Combining queries over different tables fails
// immediately with an explicit error.
//
// A leaf with no comparison is an existence test. So is a comparison
// against nil, since nil is the absent value. A leaf with an empty path
// refers to the record itself and so matches every record, which makes
// NewQuery(table) a "select all".
package nrdb

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// node is one vertex of the expression tree.
type node interface {
	check(r Record) bool
	String() string
}

// Query is a predicate over the records of one table, optionally bound to
// a Database.
type Query struct {
	table string
	db    *Database
	expr  node
	err   error
}

// NewQuery starts a query over table. With no further building it matches
// every record.
func NewQuery(table string) Query {
	return Query{table: table, expr: &leaf{}}
}

// Table returns the table name the query reads.
func (q Query) Table() string { return q.table }

// Err returns the first building error, if any. A zero Query, which
// And and Or return alongside their errors, reports ErrEmptyQuery.
func (q Query) Err() error {
	if q.err == nil && q.expr == nil {
		return ErrEmptyQuery
	}
	return q.err
}

// Bound reports whether the query carries its own Database.
func (q Query) Bound() bool { return q.db != nil }

func (q Query) String() string {
	if err := q.Err(); err != nil {
		return fmt.Sprintf("%s: <invalid: %v>", q.table, err)
	}
	return q.table + ": " + q.expr.String()
}

// Field appends name to the field path.
func (q Query) Field(name string) Query {
	l, ok := q.openLeaf()
	if !ok {
		return q.fail(q.misuse())
	}
	n := *l
	n.path = append(slices.Clone(l.path), name)
	return q.with(&n)
}

// Path appends each name in turn, as repeated calls to Field.
func (q Query) Path(names ...string) Query {
	for _, name := range names {
		q = q.Field(name)
	}
	return q
}

// Exists turns the leaf into a pure existence test.
func (q Query) Exists() Query {
	return q.compare(OpNone, nil)
}

// Eq matches records whose field equals v.
func (q Query) Eq(v any) Query { return q.compare(OpEq, v) }

// Ne matches records whose field differs from a comparable v.
func (q Query) Ne(v any) Query { return q.compare(OpNe, v) }

// Lt matches records whose field is less than v.
func (q Query) Lt(v any) Query { return q.compare(OpLt, v) }

// Le matches records whose field is less than or equal to v.
func (q Query) Le(v any) Query { return q.compare(OpLe, v) }

// Ge matches records whose field is greater than or equal to v.
func (q Query) Ge(v any) Query { return q.compare(OpGe, v) }

// Gt matches records whose field is greater than v.
func (q Query) Gt(v any) Query { return q.compare(OpGt, v) }

// compare finalizes the leaf. A later comparison replaces an earlier one;
// only path extension is refused once a leaf is final.
func (q Query) compare(op Op, v any) Query {
	l, ok := q.leaf()
	if !ok {
		return q.fail(q.misuse())
	}
	n := leaf{path: l.path, op: op, operand: v, final: true}
	return q.with(&n)
}

// Check reports whether r satisfies the query. An invalid query matches
// nothing.
func (q Query) Check(r Record) bool {
	if q.err != nil || q.expr == nil {
		return false
	}
	return q.expr.check(r)
}

// All yields every record of the query's table that passes Check. The
// Database comes either from the query itself (see Database.Query) or from
// db, never both.
func (q Query) All(db *Database) (iter.Seq[Record], error) {
	t, err := q.resolve(db)
	if err != nil {
		return nil, err
	}
	return func(yield func(Record) bool) {
		for r := range t.Rows() {
			if q.expr.check(r) && !yield(r) {
				return
			}
		}
	}, nil
}

// Limit is All truncated after n records. n <= 0 yields nothing.
func (q Query) Limit(n int, db *Database) (iter.Seq[Record], error) {
	all, err := q.All(db)
	if err != nil {
		return nil, err
	}
	return func(yield func(Record) bool) {
		if n <= 0 {
			return
		}
		left := n
		for r := range all {
			if !yield(r) {
				return
			}
			left--
			if left == 0 {
				return
			}
		}
	}, nil
}

// resolve applies the binding rule and looks up the table.
func (q Query) resolve(db *Database) (*Table, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	switch {
	case q.db != nil && db != nil:
		return nil, ErrDatabaseBound
	case q.db == nil && db == nil:
		return nil, ErrNoDatabase
	case db == nil:
		db = q.db
	}
	return db.Table(q.table)
}

func (q Query) with(n node) Query {
	q.expr = n
	return q
}

func (q Query) fail(err error) Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// misuse is the error for extending or comparing q when it cannot take
// it.
func (q Query) misuse() error {
	if err := q.Err(); err != nil {
		return err
	}
	if _, ok := q.expr.(*combinator); ok {
		return ErrQueryCombinator
	}
	return ErrQueryFinalized
}

// leaf returns the root when it is a leaf.
func (q Query) leaf() (*leaf, bool) {
	if q.Err() != nil {
		return nil, false
	}
	l, ok := q.expr.(*leaf)
	return l, ok
}

// openLeaf returns the root when it is a leaf that can still be extended.
func (q Query) openLeaf() (*leaf, bool) {
	l, ok := q.leaf()
	if !ok || l.final {
		return nil, false
	}
	return l, true
}

// leaf tests the value at path. Leaves are never modified after
// construction; builders copy them.
type leaf struct {
	path    []string
	op      Op
	operand any
	final   bool
}

// lookup walks the path through nested maps. A missing key, a non-map
// intermediate or a nil final value all count as absent.
func (l *leaf) lookup(r Record) (any, bool) {
	var cur any = map[string]any(r)
	for _, k := range l.path {
		var m map[string]any
		switch v := cur.(type) {
		case map[string]any:
			m = v
		case Record:
			m = v
		default:
			return nil, false
		}
		next, ok := m[k]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

func (l *leaf) check(r Record) bool {
	v, ok := l.lookup(r)
	if !ok {
		return false
	}
	if l.op == OpNone || l.operand == nil {
		return true
	}
	return apply(l.op, v, l.operand)
}

func (l *leaf) String() string {
	p := strings.Join(l.path, ".")
	if p == "" {
		p = "*"
	}
	if l.op == OpNone || l.operand == nil {
		if l.final {
			return p + "?"
		}
		return p
	}
	return fmt.Sprintf("%s %s %s", p, l.op, literal(l.operand))
}

func literal(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
