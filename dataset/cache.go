package dataset

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/utils"
)

// ============================================================================
// CACHE — Loaded tables keyed by path
// ============================================================================
// An entry stays valid while the file's modification time and size are
// unchanged. Concurrent misses for one path share a single load.
// ============================================================================

// signature is comparable with ==; modTime is UnixNano so the location
// and monotonic reading of a time.Time never affect equality.
type signature struct {
	modTime int64
	size    int64
}

func newSignature(modTime time.Time, size int64) signature {
	return signature{modTime: modTime.UnixNano(), size: size}
}

type entry struct {
	sig   signature
	table *engine.Table
}

// Cache memoizes Load per path.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	log     *utils.Logger

	load func(string) (*engine.Table, error)
}

// NewCache creates an empty Cache. A nil logger discards output.
func NewCache(logger *utils.Logger) *Cache {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Cache{
		entries: make(map[string]entry),
		log:     logger,
		load:    Load,
	}
}

// GetOrLoad returns the cached table for path, reloading it when the file
// changed since the last load.
func (c *Cache) GetOrLoad(path string) (*engine.Table, error) {
	sig, err := stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && e.sig == sig {
		c.log.Debug("dataset cache hit: %s", path)
		return e.table, nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		// Another caller may have finished the load while we waited.
		c.mu.RLock()
		e, ok := c.entries[path]
		c.mu.RUnlock()
		if ok && e.sig == sig {
			return e.table, nil
		}

		start := time.Now()
		table, err := c.load(path)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[path] = entry{sig: sig, table: table}
		c.mu.Unlock()

		c.log.Info("loaded %s: %d listings, %d columns in %s",
			path, table.Len(), len(table.Fields()), time.Since(start).Round(time.Millisecond))
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*engine.Table), nil
}

// Invalidate drops the entry for path so the next GetOrLoad re-reads it.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

func stat(path string) (signature, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return signature{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return signature{}, fmt.Errorf("failed to stat dataset: %w", err)
	}
	return newSignature(info.ModTime(), info.Size()), nil
}
