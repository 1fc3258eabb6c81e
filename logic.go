// Logical combinators.
//
// And and Or join two queries over the same table into a combinator node.
// Both sides are always evaluated; evaluation has no side effects, so the
// order does not matter. The combined query is unbound even when an
// operand was bound: bind the finished expression with Database.Query.
package nrdb

import (
	"fmt"
)

// Logic is the operator of a combinator node.
type Logic int

// Combinator operators.
const (
	LogicAnd Logic = iota + 1
	LogicOr
)

func (l Logic) String() string {
	if l == LogicOr {
		return "|"
	}
	return "&"
}

type combinator struct {
	logic       Logic
	left, right node
}

func (c *combinator) check(r Record) bool {
	a := c.left.check(r)
	b := c.right.check(r)
	if c.logic == LogicOr {
		return a || b
	}
	return a && b
}

func (c *combinator) String() string {
	return fmt.Sprintf("(%s) %s (%s)", c.left, c.logic, c.right)
}

// And matches records satisfying both q and other.
func (q Query) And(other Query) (Query, error) {
	return combine(LogicAnd, q, other)
}

// Or matches records satisfying q, other, or both.
func (q Query) Or(other Query) (Query, error) {
	return combine(LogicOr, q, other)
}

func combine(logic Logic, left, right Query) (Query, error) {
	if err := left.Err(); err != nil {
		return Query{}, err
	}
	if err := right.Err(); err != nil {
		return Query{}, err
	}
	if left.table != right.table {
		return Query{}, fmt.Errorf("%w: %q and %q", ErrTableMismatch, left.table, right.table)
	}
	return Query{
		table: left.table,
		expr:  &combinator{logic: logic, left: left.expr, right: right.expr},
	}, nil
}
