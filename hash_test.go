package nrdb

import (
	"errors"
	"testing"
)

func TestHash(t *testing.T) {
	data := []byte(`{"a":1}`)
	seen := make(map[string]int)

	for _, alg := range []int{AlgXXHash3, AlgFNV1a, AlgBlake2b} {
		h := hash(data, alg)
		if len(h) != 16 {
			t.Errorf("hash alg %d = %q, want 16 hex chars", alg, h)
		}
		if h != hash(data, alg) {
			t.Errorf("hash alg %d not deterministic", alg)
		}
		if prev, ok := seen[h]; ok {
			t.Errorf("alg %d collides with alg %d", alg, prev)
		}
		seen[h] = alg
	}

	if h := hash(data, 99); h != "" {
		t.Errorf("unknown alg = %q, want empty", h)
	}
}

func TestFingerprint(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	for _, db := range []*Database{a, b} {
		tbl := db.InitTable("t")
		tbl.Insert(Record{"x": 1})
		tbl.Insert(Record{"y": "two"})
	}

	fa, err := a.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fb, _ := b.Fingerprint()
	if fa != fb {
		t.Errorf("equal databases: %s != %s", fa, fb)
	}

	tbl, _ := b.Table("t")
	tbl.Update(Record{IDField: 1, "x": 2})
	if fb2, _ := b.Fingerprint(); fb2 == fa {
		t.Error("fingerprint unchanged after update")
	}
}

func TestFingerprintAlgorithms(t *testing.T) {
	var sums []string
	for _, alg := range []int{AlgXXHash3, AlgFNV1a, AlgBlake2b} {
		db := New(Config{HashAlgorithm: alg})
		db.InitTable("t").Insert(Record{"x": 1})
		sum, err := db.Fingerprint()
		if err != nil {
			t.Fatalf("Fingerprint alg %d: %v", alg, err)
		}
		sums = append(sums, sum)
	}
	if sums[0] == sums[1] || sums[1] == sums[2] {
		t.Errorf("algorithms agree: %v", sums)
	}

	db := New(Config{HashAlgorithm: 42})
	if _, err := db.Fingerprint(); !errors.Is(err, ErrDB) {
		t.Errorf("unknown algorithm: got %v, want ErrDB", err)
	}
}
