// Records and identity values.
//
// A Record is a plain map. The only field the engine interprets is "id",
// which must hold an integer. Ids supplied by callers may be any Go integer
// kind; the table normalises them to int64 when the record is stored, so
// lookups and comparisons never depend on the caller's choice of int type.
package nrdb

import (
	"math"
)

// IDField is the reserved identity field.
const IDField = "id"

// Record is one stored document. Values may be scalars, []any, or nested
// map[string]any. A nil value means "absent": existence tests treat it as
// missing and Update removes fields set to nil.
type Record map[string]any

// ID returns the record's identity and whether it holds a valid integer.
func (r Record) ID() (int64, bool) {
	v, ok := r[IDField]
	if !ok {
		return 0, false
	}
	return toID(v)
}

// toID converts any integer kind to int64. bool is deliberately rejected:
// it is not an identity even though it compares equal to 0 and 1.
func toID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
