package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/questvault/pkg/core"
)

const cacheVersion = 2

// indexEntry is the parsed form of one file, valid while mtime and size match.
type indexEntry struct {
	ID           string        `json:"id"`
	Content      string        `json:"content,omitempty"`
	Metadata     core.Metadata `json:"metadata,omitempty"`
	LastModified time.Time     `json:"lastModified"`
	Size         int64         `json:"size"`
}

// index represents the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // key is the slash relative path, e.g. "careers/nurse.md"
}

// cache keeps parsed documents in {vault}/{systemDir}/index.json so List does
// not re-parse unchanged files.
type cache struct {
	path  string
	mu    sync.RWMutex
	index index
	dirty bool
}

func newCache(vaultPath, systemDir string) *cache {
	return &cache{
		path:  filepath.Join(vaultPath, systemDir, "index.json"),
		index: index{Version: cacheVersion, Entries: make(map[string]*indexEntry)},
	}
}

// Load reads the cache from disk. A missing, corrupt or outdated file yields an empty cache.
func (c *cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	var loaded index
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.Version != cacheVersion || loaded.Entries == nil {
		c.index = index{Version: cacheVersion, Entries: make(map[string]*indexEntry)}
		c.dirty = true
		return nil
	}
	c.index = loaded
	c.dirty = false
	return nil
}

// Save persists the cache if it changed since the last Load/Save.
func (c *cache) Save() error {
	c.mu.RLock()
	if !c.dirty {
		c.mu.RUnlock()
		return nil
	}
	data, err := json.Marshal(c.index)
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.path, data, 0644); err != nil {
		return err
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// Get returns the entry for relPath if it matches the file's current mtime and size.
func (c *cache) Get(relPath string, mtime time.Time, size int64) (*indexEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.index.Entries[relPath]
	if !ok || !entry.LastModified.Equal(mtime) || entry.Size != size {
		return nil, false
	}
	return entry, true
}

// Set updates an entry in the cache.
func (c *cache) Set(relPath string, entry *indexEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.Entries[relPath] = entry
	c.dirty = true
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(relPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index.Entries[relPath]; ok {
		delete(c.index.Entries, relPath)
		c.dirty = true
	}
}

// Prune removes entries under prefix that are not in keep.
func (c *cache) Prune(prefix string, keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.index.Entries {
		if prefix != "" && !hasPathPrefix(path, prefix) {
			continue
		}
		if !keep[path] {
			delete(c.index.Entries, path)
			c.dirty = true
		}
	}
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index.Entries)
}

func hasPathPrefix(path, dir string) bool {
	return len(path) > len(dir) && path[:len(dir)] == dir && path[len(dir)] == '/'
}
