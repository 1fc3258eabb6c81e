// Best-effort numeric coercion applied on insert.
//
// Tables created with conversion enabled (the default) turn string values
// that look like numbers into int64, or float64 when the string contains a
// decimal point. Anything that fails to parse is kept as the original
// string. This is a heuristic for data scraped from text sources, not a
// schema: there is no way to request a type, only to opt fields out.
package nrdb

import (
	"strconv"
	"strings"
)

// coerce parses s as a number. ok is false when s should be kept as-is.
func coerce(s string) (any, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil, false
	}
	if strings.Contains(t, ".") {
		// strconv accepts hex floats ("0x1.8p1"); plain decimal only.
		if strings.ContainsAny(t, "xXpP") {
			return nil, false
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

// conversions returns the coerced value for every eligible field of r. The
// record itself is not touched so a rejected insert leaves it unchanged.
func (t *Table) conversions(r Record) map[string]any {
	if !t.convert {
		return nil
	}
	var out map[string]any
	for k, v := range r {
		if _, skip := t.exclude[k]; skip {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if n, ok := coerce(s); ok {
			if out == nil {
				out = make(map[string]any)
			}
			out[k] = n
		}
	}
	return out
}
