package nrdb

import (
	"testing"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want any
		ok   bool
	}{
		{"42", int64(42), true},
		{" -7 ", int64(-7), true},
		{"1.5", 1.5, true},
		{"10.0", 10.0, true},
		{".5", 0.5, true},
		{"1e3", nil, false},
		{"0x10", nil, false},
		{"0x1.8p1", nil, false},
		{"abc", nil, false},
		{"", nil, false},
		{"   ", nil, false},
		{"12abc", nil, false},
		{"99999999999999999999", nil, false},
	}

	for _, tt := range tests {
		got, ok := coerce(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("coerce(%q) = %v (%T), %v; want %v (%T), %v",
				tt.in, got, got, ok, tt.want, tt.want, tt.ok)
		}
	}
}

func TestInsertCoercion(t *testing.T) {
	tbl := newTestTable(t, WithConvertExclude("zip"))

	r, err := tbl.Insert(Record{
		"count": "12",
		"price": "3.25",
		"zip":   "01234",
		"name":  "bob",
		"raw":   7,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	checks := map[string]any{
		"count": int64(12),
		"price": 3.25,
		"zip":   "01234",
		"name":  "bob",
		"raw":   7,
	}
	for k, want := range checks {
		if r[k] != want {
			t.Errorf("%s = %v (%T), want %v (%T)", k, r[k], r[k], want, want)
		}
	}
}

func TestInsertNoCoercion(t *testing.T) {
	tbl := newTestTable(t, WithConvert(false))

	r, err := tbl.Insert(Record{"count": "12"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if r["count"] != "12" {
		t.Errorf("count = %v (%T), want string", r["count"], r["count"])
	}
}

func TestUpdateDoesNotCoerce(t *testing.T) {
	tbl := newTestTable(t)
	tbl.Insert(Record{"a": 1})

	r, err := tbl.Update(Record{IDField: 1, "a": "2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r["a"] != "2" {
		t.Errorf("a = %v (%T), want string", r["a"], r["a"])
	}
}

func TestCoercionIdempotent(t *testing.T) {
	tbl := newTestTable(t)

	r, err := tbl.Insert(Record{"n": "123", "f": "123.5"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if r["n"] != int64(123) || r["f"] != 123.5 {
		t.Fatalf("coerced = %v", r)
	}

	again, err := tbl.Insert(Record{"n": r["n"], "f": r["f"]})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if again["n"] != int64(123) || again["f"] != 123.5 {
		t.Errorf("re-inserted values changed: %v", again)
	}
}
