package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the two-tier cache SPEC_FULL §4.12 describes: a bounded
// in-process LRU keyed by fingerprint, backed by one JSON file per
// fingerprint on disk. A read consults memory first, then disk
// (promoting on hit); a write updates memory and rewrites the disk file
// atomically.
type Store struct {
	mem *lru.Cache[uint64, EntrySet]
	dir string
}

// NewStore creates a Store backed by dir (created if missing) with a
// memory tier holding at most memSize fingerprints.
func NewStore(dir string, memSize int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	mem, err := lru.New[uint64, EntrySet](memSize)
	if err != nil {
		return nil, fmt.Errorf("cache: create memory tier: %w", err)
	}
	return &Store{mem: mem, dir: dir}, nil
}

func (s *Store) path(fp uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x.json", fp))
}

// Load returns the entry set for fp, consulting memory then disk.
func (s *Store) Load(fp uint64) (EntrySet, bool) {
	if set, ok := s.mem.Get(fp); ok {
		return set, true
	}
	raw, err := os.ReadFile(s.path(fp))
	if err != nil {
		return EntrySet{}, false
	}
	var d diskCacheFile
	if err := json.Unmarshal(raw, &d); err != nil {
		return EntrySet{}, false
	}
	set := fromDisk(d)
	s.mem.Add(fp, set)
	return set, true
}

// Save writes set for fp into both tiers: the memory LRU immediately,
// and the disk file via write-to-temp-then-rename so a crash mid-write
// never leaves a corrupt, half-written JSON file in place.
func (s *Store) Save(fp uint64, set EntrySet) error {
	set.Fingerprint = fp
	s.mem.Add(fp, set)

	raw, err := json.MarshalIndent(toDisk(set), "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal entry set: %w", err)
	}
	final := s.path(fp)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("cache: write temp file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("cache: rename temp file: %w", err)
	}
	return nil
}

// Clear empties both tiers: the memory LRU and every fingerprint file on
// disk.
func (s *Store) Clear() error {
	s.mem.Purge()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("cache: read directory: %w", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("cache: remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Stats reports the memory tier's current entry count, the disk tier's
// file count, and the backing directory path.
func (s *Store) Stats() (memCount, diskCount int, dir string) {
	memCount = s.mem.Len()
	if entries, err := os.ReadDir(s.dir); err == nil {
		diskCount = len(entries)
	}
	return memCount, diskCount, s.dir
}
