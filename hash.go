// Database fingerprints.
//
// A fingerprint is a 16 hex character hash of the compact snapshot
// encoding. Two databases with the same tables, configuration and records
// in the same order have the same fingerprint, which makes it a cheap way
// to check a round trip or notice that a snapshot on disk is stale. Three
// algorithms are supported, selectable via Config.HashAlgorithm.
package nrdb

import (
	"bytes"
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// hash generates a 16 hex character digest of data using the specified
// algorithm. Unknown algorithms yield "".
func hash(data []byte, alg int) string {
	switch alg {
	case AlgXXHash3:
		return fmt.Sprintf("%016x", xxh3.Hash(data))
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum(nil))
	default:
		return ""
	}
}

// Fingerprint hashes the database's compact snapshot encoding.
func (db *Database) Fingerprint() (string, error) {
	var buf bytes.Buffer
	if err := db.Encode(&buf, SaveOptions{}); err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := hash(buf.Bytes(), db.config.HashAlgorithm)
	if sum == "" {
		return "", fmt.Errorf("%w: fingerprint: unknown hash algorithm %d", ErrDB, db.config.HashAlgorithm)
	}
	return sum, nil
}
