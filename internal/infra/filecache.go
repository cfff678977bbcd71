package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileCache persists JSON documents as <dir>/<key>.json and memoizes them in
// memory for the life of the process. Entries never go stale: a document that
// exists on disk is returned as is.
type FileCache struct {
	dir string
	mem *Cache
	mu  sync.Mutex
}

// NewFileCache creates a store rooted at dir. The directory is created on first write.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir, mem: NewCache(0)}
}

// Path returns the file backing key.
func (c *FileCache) Path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// GetOrFetch returns the document stored under key, calling fetch and
// writing its result through on a miss. A failed fetch is not cached.
// Documents that are not valid JSON are rejected before they are written.
func (c *FileCache) GetOrFetch(key string, fetch func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.mem.Get(key); ok {
		return v.([]byte), nil
	}

	path := c.Path(key)
	if data, err := os.ReadFile(path); err == nil {
		c.mem.Set(key, data)
		return data, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("cache %s: fetched document is not valid JSON", key)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write cache %s: %w", path, err)
	}
	c.mem.Set(key, data)
	return data, nil
}
