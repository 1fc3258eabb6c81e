// Optional snapshot compression.
//
// A snapshot may be stored as a single Zstd frame wrapping the JSON
// envelope. Load does not need to be told: a Zstd frame always starts with
// the magic bytes 28 B5 2F FD, which can never begin a JSON document, so
// the reader sniffs the first four bytes and decompresses when they match.
package nrdb

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder, both safe for concurrent use. Allocated once at
// init since construction builds internal state tables.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func compress(data []byte) []byte {
	return zstdEncoder.EncodeAll(data, nil)
}

func compressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

func decompress(data []byte) ([]byte, error) {
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrCorruptSnapshot, err)
	}
	return out, nil
}
