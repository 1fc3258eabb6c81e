// OS-level file locking for snapshot files.
//
// Serialize and Load coordinate through an advisory lock on a sidecar file
// named "<snapshot>.lock" next to the snapshot. The snapshot itself cannot
// carry the lock because Serialize replaces it by rename, and a lock on
// the old inode would not exclude a process opening the new one. Serialize
// takes the lock exclusively; Load takes it shared, so concurrent loads
// proceed together but never observe a half-finished save from another
// process. The lock file is left in place after release.
//
// A fileLock is acquired and released within a single Serialize or Load
// call and is never shared between goroutines.
package nrdb

import (
	"os"
)

// LockMode selects shared (read) or exclusive (write) locking.
type LockMode int

const (
	LockShared LockMode = iota
	LockExclusive
)

// fileLock holds flock(2) / LockFileEx on an open lock file.
type fileLock struct {
	f *os.File
}

// acquire opens (creating if needed) the lock file for name inside root
// and blocks until the lock is granted.
func acquire(root *os.Root, name string, mode LockMode) (*fileLock, error) {
	f, err := root.OpenFile(name+".lock", os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	l := &fileLock{f: f}
	if err := l.lock(mode); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// release unlocks and closes the lock file. Safe to call more than once.
func (l *fileLock) release() error {
	if l.f == nil {
		return nil
	}
	err := l.unlock()
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
