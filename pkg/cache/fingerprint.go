// Package cache keys analysis results by a file fingerprint plus
// function address and instruction budget, and stores them in a
// two-tier memory+disk cache (SPEC_FULL §4.12 / C12).
package cache

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Strategy selects how a file's fingerprint is computed. All three feed
// a variable amount of material into the same running xxhash
// accumulator, so switching strategy never changes the hash function,
// only what gets written to it.
type Strategy int

const (
	// Metadata hashes (file size, modification time, canonical path).
	// Fastest; only trustworthy when the caller controls the input file
	// and knows it won't be replaced without its mtime changing.
	Metadata Strategy = iota
	// Sampling hashes (file size, first 4096 bytes, last 4096 bytes if
	// the file exceeds 8192 bytes).
	Sampling
	// Full hashes the entire file contents.
	Full
)

const sampleWindow = 4096

// Compute feeds size and, depending on strategy, modTime/absPath or
// slices of data into one xxhash accumulator and returns its 64-bit
// sum. It does no I/O itself — FingerprintFile resolves strategy
// fallback and file reads before calling this.
func Compute(strategy Strategy, size int64, modTimeUnix int64, absPath string, data []byte) uint64 {
	h := xxhash.New()
	writeUint64(h, uint64(size))

	switch strategy {
	case Metadata:
		writeUint64(h, uint64(modTimeUnix))
		h.Write([]byte(absPath))
	case Sampling:
		n := len(data)
		if n <= sampleWindow {
			h.Write(data)
		} else {
			h.Write(data[:sampleWindow])
			if n > 2*sampleWindow {
				h.Write(data[n-sampleWindow:])
			}
		}
	case Full:
		h.Write(data)
	}
	return h.Sum64()
}

func writeUint64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

// FingerprintFile stats and, if the strategy requires it, reads path,
// then computes its fingerprint. Metadata falls back to Sampling if the
// file cannot be stat'd (SPEC_FULL §4.12: "Fallback to sampling if
// metadata unavailable").
func FingerprintFile(path string, strategy Strategy) (uint64, error) {
	info, statErr := os.Stat(path)
	if statErr != nil && strategy == Metadata {
		strategy = Sampling
	}

	abs := path
	if strategy == Metadata {
		if a, err := filepath.Abs(path); err == nil {
			abs = a
		}
	}

	var data []byte
	if strategy == Sampling || strategy == Full {
		raw, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		data = raw
	}

	var size int64
	var modTime int64
	if info != nil {
		size = info.Size()
		modTime = info.ModTime().Unix()
	} else {
		size = int64(len(data))
	}

	return Compute(strategy, size, modTime, abs, data), nil
}
