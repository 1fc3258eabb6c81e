// Record creation and update.
//
// Insert validates everything before it mutates anything: coerced values
// are computed into a side map, the id is checked against the coerced
// value, and only then are the conversions applied and the record stored.
// A rejected insert therefore leaves both the table and the caller's map
// exactly as they were.
//
// Automatic ids start at the table counter and skip any id already taken,
// whether it was assigned automatically or supplied by the caller. Manual
// ids never move the counter. The skip is a linear walk, which is fine for
// the table sizes this store is meant for.
//
// Update merges fields into the stored record and then drops every field
// the update set to nil. Upsert is Insert falling back to Update, but only
// when the insert failed because the id was already taken.
package nrdb

import (
	"errors"
)

// Insert stores r and returns it. See the file comment for id rules.
func (t *Table) Insert(r Record) (Record, error) {
	if r == nil {
		return nil, &TypeError{Table: t.name, Op: "insert"}
	}

	conv := t.conversions(r)

	raw, has := r[IDField]
	if c, ok := conv[IDField]; ok {
		raw = c
	}

	var id int64
	if has {
		n, ok := toID(raw)
		if !ok {
			return nil, &IndexError{Table: t.name, Op: "insert", ID: raw, Err: ErrInvalidID}
		}
		if _, taken := t.rows[n]; taken {
			return nil, &IndexError{Table: t.name, Op: "insert", ID: n, Err: ErrDuplicateID}
		}
		id = n
	} else {
		for {
			if _, taken := t.rows[t.next]; !taken {
				break
			}
			t.next++
		}
		id = t.next
		t.next++
	}

	for k, v := range conv {
		r[k] = v
	}
	r[IDField] = id
	t.rows[id] = r
	t.order = append(t.order, id)
	return r, nil
}

// Update merges r into the stored record with the same id and returns the
// stored record. Fields set to nil in r are removed.
func (t *Table) Update(r Record) (Record, error) {
	if r == nil {
		return nil, &TypeError{Table: t.name, Op: "update"}
	}
	raw, ok := r[IDField]
	if !ok {
		return nil, &IndexError{Table: t.name, Op: "update", Err: ErrMissingID}
	}
	id, ok := toID(raw)
	if !ok {
		return nil, &IndexError{Table: t.name, Op: "get", ID: raw, Err: ErrIDNotFound}
	}
	stored, err := t.Get(id)
	if err != nil {
		return nil, err
	}

	for k, v := range r {
		if k == IDField {
			continue
		}
		if v == nil {
			delete(stored, k)
			continue
		}
		stored[k] = v
	}
	return stored, nil
}

// Upsert inserts r, or updates the existing record when its id is taken.
// Any other insert failure is returned as-is.
func (t *Table) Upsert(r Record) (Record, error) {
	stored, err := t.Insert(r)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, ErrDuplicateID) {
		return nil, err
	}
	// Coerce the same way Insert would have so the merged values match
	// what a fresh insert stores.
	for k, v := range t.conversions(r) {
		r[k] = v
	}
	return t.Update(r)
}
