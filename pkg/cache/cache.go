package cache

// Cache is the function-result cache's public surface: load/save/clear
// plus stats, operating at the (fingerprint, function address,
// instruction budget) granularity SPEC_FULL §4.12 specifies, with the
// fingerprint-to-EntrySet storage mechanics delegated to Store.
type Cache struct {
	store *Store
}

// New builds a Cache backed by a Store rooted at dir.
func New(dir string, memSize int) (*Cache, error) {
	store, err := NewStore(dir, memSize)
	if err != nil {
		return nil, err
	}
	return &Cache{store: store}, nil
}

// Get looks up the result for key within fp's entry set.
func (c *Cache) Get(fp uint64, key Key) (Entry, bool) {
	set, ok := c.store.Load(fp)
	if !ok {
		return Entry{}, false
	}
	e, ok := set.Entries[key]
	return e, ok
}

// Put records entry for key within fp's entry set, merging into
// whatever was already cached for that fingerprint rather than
// replacing the whole set.
func (c *Cache) Put(fp uint64, key Key, entry Entry) error {
	set, ok := c.store.Load(fp)
	if !ok {
		set = EntrySet{Fingerprint: fp, Entries: map[Key]Entry{}}
	}
	if set.Entries == nil {
		set.Entries = map[Key]Entry{}
	}
	set.Entries[key] = entry
	return c.store.Save(fp, set)
}

// GetOrCompute returns the cached entry for (fp, key) if one exists;
// otherwise it calls compute, stamps the result with nowUnix as its
// CachedAt, stores it, and returns it. A cache hit never invokes
// compute and never changes CachedAt — the property SPEC_FULL §8
// scenario S6 checks.
func (c *Cache) GetOrCompute(fp uint64, key Key, nowUnix int64, compute func() (Entry, error)) (Entry, error) {
	if e, ok := c.Get(fp, key); ok {
		return e, nil
	}
	e, err := compute()
	if err != nil {
		return Entry{}, err
	}
	e.CachedAt = nowUnix
	if err := c.Put(fp, key, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Clear empties both storage tiers.
func (c *Cache) Clear() error { return c.store.Clear() }

// Stats reports (memory-count, disk-count, directory-path).
func (c *Cache) Stats() (int, int, string) { return c.store.Stats() }
