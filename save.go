// Atomic snapshot writes.
//
// Serialize never writes into the snapshot file itself. The complete
// snapshot is encoded in memory first, so an encoding failure touches no
// file at all. The bytes then go to "<name>.tmp" in the same directory,
// which is synced and renamed over the target. Rename within a directory
// is atomic, so at every instant the target path holds either the previous
// snapshot or the new one. A crash before the rename at worst leaves a
// stale .tmp file, which the next Serialize removes.
//
// All file access goes through an os.Root for the snapshot's directory, so
// the temporary and lock files cannot escape it.
package nrdb

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CompressedExt is the file extension that implies SaveOptions.Compress.
const CompressedExt = ".zst"

// Serialize writes the database snapshot to path, replacing any existing
// file atomically. A path ending in CompressedExt is always compressed.
func (db *Database) Serialize(path string, opts SaveOptions) error {
	if strings.HasSuffix(path, CompressedExt) {
		opts.Compress = true
	}

	data, err := db.marshal(opts)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	defer root.Close()

	lock, err := acquire(root, name, LockExclusive)
	if err != nil {
		return fmt.Errorf("serialize: lock: %w", err)
	}
	defer lock.release()

	tmpName := name + ".tmp"
	if err := root.Remove(tmpName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("serialize: remove stale temp: %w", err)
	}

	if err := db.writeTemp(root, tmpName, data); err != nil {
		root.Remove(tmpName)
		return fmt.Errorf("serialize: %w", err)
	}

	if err := root.Rename(tmpName, name); err != nil {
		root.Remove(tmpName)
		return fmt.Errorf("serialize: rename: %w", err)
	}

	db.log.Debug("snapshot saved",
		slogPath(path),
		"tables", len(db.tables),
		"bytes", len(data),
		"compressed", opts.Compress,
	)
	return nil
}

// writeTemp writes data to a new file and, unless disabled, syncs it.
func (db *Database) writeTemp(root *os.Root, name string, data []byte) error {
	f, err := root.Create(name)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if !db.config.SkipSync {
		if err := f.Sync(); err != nil {
			f.Close()
			return fmt.Errorf("sync temp: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	return nil
}
