// Database type and table registry.
//
// A Database owns its tables outright: tables are created on first
// reference through InitTable and live until the Database is dropped.
// Nothing here is persistent on its own; see save.go and load.go for the
// snapshot round trip.
package nrdb

import (
	"fmt"
	"log/slog"
	"slices"
)

// Config holds database configuration options. The zero value is usable.
type Config struct {
	HashAlgorithm int          // Fingerprint hash: 1=xxHash3 (default), 2=FNV1a, 3=Blake2b
	SkipSync      bool         // Do not fsync snapshots before the rename
	Logger        *slog.Logger // Debug events for Serialize and Load (default: discard)
}

// Database is an in-memory collection of named tables.
type Database struct {
	tables map[string]*Table
	config Config
	log    *slog.Logger
}

// New returns an empty database.
func New(config Config) *Database {
	if config.HashAlgorithm == 0 {
		config.HashAlgorithm = AlgXXHash3
	}
	log := config.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Database{
		tables: make(map[string]*Table),
		config: config,
		log:    log,
	}
}

// InitTable returns the table called name, creating it with opts if it
// does not exist yet. Options are ignored for an existing table.
func (db *Database) InitTable(name string, opts ...TableOption) *Table {
	if t, ok := db.tables[name]; ok {
		return t
	}
	t := newTable(name, opts...)
	db.tables[name] = t
	return t
}

// Table returns an existing table or ErrTableNotFound.
func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

// Query returns a copy of q bound to db. q itself is left unbound.
func (db *Database) Query(q Query) Query {
	q.db = db
	return q
}

// Names returns the table names in sorted order.
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of tables.
func (db *Database) Len() int { return len(db.tables) }

func (db *Database) String() string {
	return fmt.Sprintf("<nrdb.Database> %d tables", len(db.tables))
}
