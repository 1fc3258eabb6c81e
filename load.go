// Snapshot loading.
//
// Load reads the whole file under a shared lock, then decodes it with no
// lock held. Decoding builds a brand new Database and only returns it once
// every table and row has been inserted, so a failure part way through
// leaves nothing behind for the caller to observe.
//
// The snapshot is opened before the lock is taken, so loading a missing
// path fails without creating a lock file. A Serialize that lands between
// the open and the lock replaces the file by rename and leaves the opened
// snapshot complete.
//
// The shared lock is best effort. A snapshot in a read-only directory
// cannot have its lock file created; it is loaded unlocked rather than
// refused, since readers never modify the file.
package nrdb

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Load reads the snapshot at path into a new Database configured with
// config.
func Load(path string, config Config) (*Database, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer root.Close()

	log := config.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	data, err := readLocked(root, name, log)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	db, err := unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	log.Debug("snapshot loaded",
		slogPath(path),
		"tables", len(db.tables),
		"bytes", len(data),
	)
	return db, nil
}

func readLocked(root *os.Root, name string, log *slog.Logger) ([]byte, error) {
	f, err := root.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lock, err := acquire(root, name, LockShared)
	if err != nil {
		log.Debug("snapshot read without lock", "name", name, "err", err)
	} else {
		defer lock.release()
	}
	return io.ReadAll(f)
}

func slogPath(path string) slog.Attr {
	return slog.String("path", path)
}
