// Value comparison for query leaves.
//
// Comparisons follow dynamic-language value semantics rather than Go's
// static ones. Every integer kind, every float kind and bool form one
// numeric class and compare by value, so 1 == 1.0 == true. Strings compare
// lexicographically by byte. Lists compare element by element and then by
// length. Maps support equality only. Any pairing outside these classes is
// not comparable, and a leaf whose comparison is not comparable fails: that
// includes Ne, so "5" != 5 does not match. Named types, typed slices and
// string-keyed maps take the class of their kind (see plain).
package nrdb

import (
	"cmp"
	"math"
)

// Op is a comparison operator on a query leaf.
type Op int

// Comparison operators. OpNone marks a leaf without a comparison.
const (
	OpNone Op = iota
	OpEq
	OpNe
	OpLt
	OpLe
	OpGe
	OpGt
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpGt:
		return ">"
	}
	return ""
}

// apply evaluates "a op b". Incomparable operands yield false.
func apply(op Op, a, b any) bool {
	switch op {
	case OpEq:
		eq, ok := equal(a, b)
		return ok && eq
	case OpNe:
		eq, ok := equal(a, b)
		return ok && !eq
	}
	c, ok := order(a, b)
	if !ok {
		return false
	}
	switch op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGe:
		return c >= 0
	case OpGt:
		return c > 0
	}
	return false
}

// number is a numeric value split so that int64 precision survives
// comparison with other integers.
type number struct {
	i     int64
	f     float64
	float bool
}

func toNumber(v any) (number, bool) {
	switch n := v.(type) {
	case bool:
		if n {
			return number{i: 1}, true
		}
		return number{}, true
	case float32:
		return number{f: float64(n), float: true}, true
	case float64:
		return number{f: n, float: true}, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return number{f: float64(n), float: true}, true
		}
	case uint64:
		if n > math.MaxInt64 {
			return number{f: float64(n), float: true}, true
		}
	}
	if i, ok := toID(v); ok {
		return number{i: i}, true
	}
	return number{}, false
}

func (n number) cmp(m number) (int, bool) {
	if !n.float && !m.float {
		return cmp.Compare(n.i, m.i), true
	}
	a, b := n.f, m.f
	if !n.float {
		a = float64(n.i)
	}
	if !m.float {
		b = float64(m.i)
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	return cmp.Compare(a, b), true
}

// equal reports whether a == b and whether the pair is comparable at all.
func equal(a, b any) (eq, ok bool) {
	a, b = plain(a), plain(b)
	if na, okA := toNumber(a); okA {
		nb, okB := toNumber(b)
		if !okB {
			return false, false
		}
		c, ok := na.cmp(nb)
		if !ok {
			// NaN is comparable but never equal.
			return false, true
		}
		return c == 0, true
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return false, false
		}
		return x == y, true
	case []any:
		y, ok := b.([]any)
		if !ok {
			return false, false
		}
		if len(x) != len(y) {
			return false, true
		}
		for i := range x {
			if e, ok := equal(x[i], y[i]); !ok || !e {
				return false, true
			}
		}
		return true, true
	case map[string]any:
		return mapEqual(x, b)
	case Record:
		return mapEqual(x, b)
	case nil:
		if b == nil {
			return true, true
		}
		return false, false
	}
	return false, false
}

func mapEqual(x map[string]any, b any) (bool, bool) {
	var y map[string]any
	switch m := b.(type) {
	case map[string]any:
		y = m
	case Record:
		y = m
	default:
		return false, false
	}
	if len(x) != len(y) {
		return false, true
	}
	for k, xv := range x {
		yv, present := y[k]
		if !present {
			return false, true
		}
		if e, ok := equal(xv, yv); !ok || !e {
			return false, true
		}
	}
	return true, true
}

// order returns the ordering of a and b, or ok=false when they cannot be
// ordered.
func order(a, b any) (int, bool) {
	a, b = plain(a), plain(b)
	if na, okA := toNumber(a); okA {
		nb, okB := toNumber(b)
		if !okB {
			return 0, false
		}
		return na.cmp(nb)
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return cmp.Compare(x, y), true
	case []any:
		y, ok := b.([]any)
		if !ok {
			return 0, false
		}
		for i := 0; i < len(x) && i < len(y); i++ {
			if e, ok := equal(x[i], y[i]); ok && e {
				continue
			}
			return order(x[i], y[i])
		}
		return cmp.Compare(len(x), len(y)), true
	}
	return 0, false
}
