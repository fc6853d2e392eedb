// Package diskcache implements the disk-backed lookup cache §4.7 and §4.8
// both specify: resolution/alignment results are cached to disk keyed by
// (kind, canonical_name) so repeated runs don't re-hit external services.
//
// Persistence is grounded on the teacher's CheckpointManager
// (pkg/ingestion/checkpoint.go): one JSON file per cache, written atomically
// via temp-file-then-rename so a crash mid-write never corrupts the cache.
package diskcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Cache is a process-lifetime, disk-persisted string->string map. Key is
// typically "<kind>|<canonical_name>" or "<ontology>|<canonical_name>".
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	dirty   bool
}

// Open loads path if it exists; a missing file starts an empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set records key->value in memory; call Flush to persist.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.dirty = true
}

// Flush writes the cache to disk atomically (temp file + rename), matching
// the teacher's checkpoint persistence idiom. A no-op when nothing changed.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	c.dirty = false
	return nil
}
