package cli

import (
	"fmt"
	"strings"

	"github.com/jpl-au/nrdb"
)

// operators in match order: two-character forms before their prefixes.
var operators = []struct {
	token string
	op    nrdb.Op
}{
	{"!=", nrdb.OpNe},
	{"<=", nrdb.OpLe},
	{">=", nrdb.OpGe},
	{"==", nrdb.OpEq},
	{"=", nrdb.OpEq},
	{"<", nrdb.OpLt},
	{">", nrdb.OpGt},
}

// parseWhere turns one --where expression into a query over table.
//
//	path?          field exists (only when no operator is present)
//	path<op>value  comparison; op is one of = == != < <= >= >
//
// path is dot separated. value is read as JSON when it parses as JSON and as
// a bare string otherwise, so age>=18 compares numbers and name=bob strings.
func parseWhere(table, expr string) (nrdb.Query, error) {
	q := nrdb.NewQuery(table)
	expr = strings.TrimSpace(expr)

	at := strings.IndexAny(expr, "!=<>")
	if at < 0 {
		path, ok := strings.CutSuffix(expr, "?")
		if !ok {
			return q, fmt.Errorf("where %q: no operator", expr)
		}
		if err := validPath(path); err != nil {
			return q, fmt.Errorf("where %q: %w", expr, err)
		}
		return q.Path(strings.Split(path, ".")...).Exists(), nil
	}
	path, rest := strings.TrimSpace(expr[:at]), expr[at:]
	if err := validPath(path); err != nil {
		return q, fmt.Errorf("where %q: %w", expr, err)
	}

	for _, o := range operators {
		raw, ok := strings.CutPrefix(rest, o.token)
		if !ok {
			continue
		}
		q = q.Path(strings.Split(path, ".")...)
		v := parseOperand(strings.TrimSpace(raw))
		switch o.op {
		case nrdb.OpEq:
			q = q.Eq(v)
		case nrdb.OpNe:
			q = q.Ne(v)
		case nrdb.OpLt:
			q = q.Lt(v)
		case nrdb.OpLe:
			q = q.Le(v)
		case nrdb.OpGe:
			q = q.Ge(v)
		case nrdb.OpGt:
			q = q.Gt(v)
		}
		return q, q.Err()
	}
	return q, fmt.Errorf("where %q: unknown operator", expr)
}

func validPath(path string) error {
	if path == "" {
		return fmt.Errorf("empty field path")
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return fmt.Errorf("empty segment in field path %q", path)
		}
	}
	return nil
}

func parseOperand(raw string) any {
	if raw == "" {
		return ""
	}
	if v, err := nrdb.UnmarshalValue([]byte(raw)); err == nil {
		return v
	}
	return raw
}

// buildQuery combines where expressions with AND, or OR when or is set.
// No expressions selects every record.
func buildQuery(table string, where []string, or bool) (nrdb.Query, error) {
	q := nrdb.NewQuery(table)
	for i, expr := range where {
		w, err := parseWhere(table, expr)
		if err != nil {
			return q, err
		}
		if i == 0 {
			q = w
			continue
		}
		if or {
			q, err = q.Or(w)
		} else {
			q, err = q.And(w)
		}
		if err != nil {
			return q, err
		}
	}
	return q, nil
}
