// Snapshot envelope and codec.
//
// A snapshot is a JSON document:
//
//	{
//	  "__MemNRDB__": true,
//	  "__tables__": {
//	    "<name>": {
//	      "__Table__": true,
//	      "__convert__": true,
//	      "__convert_exclude__": ["..."],
//	      "__rows__": [{...}, ...]
//	    }
//	  },
//	  "__version__": 0
//	}
//
// Encoding and decoding go through the envelope structs below, one per
// entity kind, rather than a polymorphic hook. Struct fields are declared
// in key order so compact and pretty output list keys identically; maps
// are always written sorted.
//
// JSON has a single number type. To round-trip int64 and float64 values
// faithfully, floats with an integral value are written with a trailing
// ".0", and decoding turns every literal without a fraction or exponent
// into int64 and everything else into float64. Typed slices, arrays and
// string-keyed maps are written like []any and map[string]any so their
// floats get the same treatment; they read back as []any and
// map[string]any.
//
// Decoded rows are not copied into tables directly. They are re-inserted
// through Table.Insert, so id uniqueness and coercion are enforced on load
// exactly as on a live insert.
package nrdb

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Version is the snapshot format version written and accepted.
const Version = 0

// SaveOptions controls snapshot output.
type SaveOptions struct {
	Pretty   bool // indent with four spaces; keys are sorted either way
	Compress bool // wrap the JSON in a Zstd frame
}

type envelope struct {
	Marker  bool                      `json:"__MemNRDB__"`
	Tables  map[string]*tableEnvelope `json:"__tables__"`
	Version *int                      `json:"__version__"`
}

type tableEnvelope struct {
	Marker         bool     `json:"__Table__"`
	Convert        bool     `json:"__convert__"`
	ConvertExclude []string `json:"__convert_exclude__"`
	Rows           []Record `json:"__rows__"`
}

// encodeDatabase builds the envelope for db.
func encodeDatabase(db *Database) *envelope {
	v := Version
	env := &envelope{
		Marker:  true,
		Tables:  make(map[string]*tableEnvelope, len(db.tables)),
		Version: &v,
	}
	for name, t := range db.tables {
		env.Tables[name] = encodeTable(t)
	}
	return env
}

// encodeTable builds the envelope for t, rows in iteration order.
func encodeTable(t *Table) *tableEnvelope {
	rows := make([]Record, 0, t.Len())
	for r := range t.Rows() {
		rows = append(rows, encodeValue(r).(Record))
	}
	return &tableEnvelope{
		Marker:         true,
		Convert:        t.convert,
		ConvertExclude: t.ConvertExclude(),
		Rows:           rows,
	}
}

// decodeDatabase validates env and rebuilds a fresh Database from it.
func decodeDatabase(env *envelope, config Config) (*Database, error) {
	if !env.Marker {
		return nil, fmt.Errorf("%w: missing __MemNRDB__ marker", ErrCorruptSnapshot)
	}
	if env.Version == nil {
		return nil, fmt.Errorf("%w: missing __version__", ErrCorruptSnapshot)
	}
	if *env.Version != Version {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrVersion, Version, *env.Version)
	}
	if env.Tables == nil {
		return nil, fmt.Errorf("%w: missing __tables__", ErrCorruptSnapshot)
	}

	db := New(config)
	for name, te := range env.Tables {
		if err := decodeTable(db, name, te); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func decodeTable(db *Database, name string, te *tableEnvelope) error {
	if te == nil || !te.Marker {
		return fmt.Errorf("%w: table %q: missing __Table__ marker", ErrCorruptSnapshot, name)
	}
	t := db.InitTable(name, WithConvert(te.Convert), WithConvertExclude(te.ConvertExclude...))
	for i, r := range te.Rows {
		if r == nil {
			return fmt.Errorf("%w: table %q: row %d is not an object", ErrCorruptSnapshot, name, i)
		}
		if _, err := t.Insert(decodeValue(r).(Record)); err != nil {
			return fmt.Errorf("load: table %q: row %d: %w", name, i, err)
		}
	}
	return nil
}

// Encode writes db's snapshot to w.
func (db *Database) Encode(w io.Writer, opts SaveOptions) error {
	data, err := db.marshal(opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// marshal returns the complete snapshot bytes, compressed if requested.
func (db *Database) marshal(opts SaveOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if opts.Pretty {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(encodeDatabase(db)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if opts.Compress {
		return compress(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// Decode reads a snapshot from r, compressed or not, and returns a new
// Database configured with config. On any error no Database is returned.
func Decode(r io.Reader, config Config) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode: read: %w", err)
	}
	return unmarshal(data, config)
}

func unmarshal(data []byte, config Config) (*Database, error) {
	if compressed(data) {
		var err error
		if data, err = decompress(data); err != nil {
			return nil, err
		}
	}

	var env envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: unexpected data after snapshot", ErrCorruptSnapshot)
	}
	return decodeDatabase(&env, config)
}

// UnmarshalValue parses one JSON value with the snapshot number rules.
func UnmarshalValue(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return decodeValue(v), nil
}

// UnmarshalRecord parses one JSON object into a Record.
func UnmarshalRecord(data []byte) (Record, error) {
	v, err := UnmarshalValue(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrType)
	}
	return Record(m), nil
}

// MarshalRecord encodes r as one line of compact JSON, floats included as
// written in a snapshot.
func MarshalRecord(r Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(encodeValue(r)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// floatValue marshals a float64 so that it reads back as a float.
type floatValue float64

func (f floatValue) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unsupported float value %v", v)
	}
	b := strconv.AppendFloat(nil, v, 'g', -1, 64)
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, '.', '0')
	}
	return b, nil
}

// encodeValue copies v, replacing floats with floatValue at any depth.
// Values that marshal themselves are left alone.
func encodeValue(v any) any {
	switch v.(type) {
	case json.Marshaler, encoding.TextMarshaler:
		return v
	}
	switch x := plain(v).(type) {
	case float64:
		return floatValue(x)
	case float32:
		return floatValue(float64(x))
	case Record:
		out := make(Record, len(x))
		for k, e := range x {
			out[k] = encodeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = encodeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = encodeValue(e)
		}
		return out
	default:
		return x
	}
}

// decodeValue replaces json.Number with int64 or float64 at any depth,
// in place.
func decodeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		return parseNumber(string(x))
	case Record:
		for k, e := range x {
			x[k] = decodeValue(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = decodeValue(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = decodeValue(e)
		}
		return x
	}
	return v
}

func parseNumber(s string) any {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return f
}
