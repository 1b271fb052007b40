package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeMetadataStrategyIsDeterministic(t *testing.T) {
	a := Compute(Metadata, 1024, 1700000000, "/tmp/sample.exe", nil)
	b := Compute(Metadata, 1024, 1700000000, "/tmp/sample.exe", nil)
	if a != b {
		t.Fatalf("expected metadata fingerprint to be deterministic, got %x and %x", a, b)
	}
	c := Compute(Metadata, 1024, 1700000001, "/tmp/sample.exe", nil)
	if a == c {
		t.Fatalf("expected a changed modification time to change the fingerprint")
	}
}

func TestComputeSamplingHashesHeadAndTail(t *testing.T) {
	small := make([]byte, 100)
	large := make([]byte, 20000)
	for i := range large {
		large[i] = byte(i)
	}
	sSmall := Compute(Sampling, int64(len(small)), 0, "", small)
	sLarge := Compute(Sampling, int64(len(large)), 0, "", large)
	if sSmall == sLarge {
		t.Fatalf("expected different sampling fingerprints for different content")
	}

	// Changing only the middle of a large file (outside both sampled
	// windows) must not change the sampling fingerprint.
	middle := make([]byte, len(large))
	copy(middle, large)
	middle[10000] ^= 0xFF
	sMiddleChanged := Compute(Sampling, int64(len(middle)), 0, "", middle)
	if sLarge != sMiddleChanged {
		t.Fatalf("expected sampling to ignore changes outside the head/tail windows")
	}
}

func TestComputeFullHashesEntireContent(t *testing.T) {
	a := []byte("hello world")
	b := []byte("hello worlD")
	if Compute(Full, int64(len(a)), 0, "", a) == Compute(Full, int64(len(b)), 0, "", b) {
		t.Fatalf("expected full-content hashing to distinguish single-byte differences")
	}
}

func TestStoreSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 4)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	set := EntrySet{Entries: map[Key]Entry{
		{FunctionAddress: 0x1000, InstructionBudget: 256}: {ControlStructure: "void f() {}", CachedAt: 111, BlockCount: 3},
	}}
	if err := s.Save(0xABCD, set); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh, err := NewStore(dir, 4) // new process-equivalent instance, empty memory tier
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	got, ok := fresh.Load(0xABCD)
	if !ok {
		t.Fatalf("expected a disk hit for fingerprint 0xABCD")
	}
	entry := got.Entries[Key{FunctionAddress: 0x1000, InstructionBudget: 256}]
	if entry.ControlStructure != "void f() {}" || entry.CachedAt != 111 || entry.BlockCount != 3 {
		t.Fatalf("expected round-tripped entry to match, got %+v", entry)
	}
}

func TestStoreSaveWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 4)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Save(1, EntrySet{Entries: map[Key]Entry{}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "0000000000000001.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected the temp file to be renamed away, stat err = %v", err)
	}
}

func TestCacheGetOrComputeOnlyComputesOnce(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	calls := 0
	compute := func() (Entry, error) {
		calls++
		return Entry{ControlStructure: "result"}, nil
	}
	key := Key{FunctionAddress: 0x2000, InstructionBudget: 128}

	first, err := c.GetOrCompute(0x1, key, 1000, compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	second, err := c.GetOrCompute(0x1, key, 2000, compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected compute to run once, got %d calls", calls)
	}
	if first.CachedAt != second.CachedAt {
		t.Fatalf("expected CachedAt to stay fixed across a cache hit: %d != %d", first.CachedAt, second.CachedAt)
	}
}

func TestCacheClearRemovesBothTiers(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Put(0x1, Key{FunctionAddress: 1}, Entry{ControlStructure: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	mem, disk, _ := c.Stats()
	if mem != 0 || disk != 0 {
		t.Fatalf("expected both tiers empty after Clear, got mem=%d disk=%d", mem, disk)
	}
}
