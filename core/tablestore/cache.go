package tablestore

import (
	"context"
	"sync"
	"time"

	"data-curator/core/rowset"

	"golang.org/x/sync/singleflight"
)

// Snapshotter is the read side of the store, satisfied by *Store.
type Snapshotter interface {
	Snapshot(ctx context.Context, table string) (*rowset.Table, error)
}

type cacheEntry struct {
	table *rowset.Table
	built time.Time
}

// SnapshotCache caches table snapshots with a TTL. Concurrent misses for
// the same table collapse into a single load via singleflight, so a burst
// of dashboard refreshes cannot stampede the database.
type SnapshotCache struct {
	source Snapshotter
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	sf      singleflight.Group
}

// NewSnapshotCache wraps a snapshot source. A zero TTL disables caching
// entirely; every Get hits the source.
func NewSnapshotCache(source Snapshotter, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns a snapshot of the table, reusing a cached copy when fresh.
func (c *SnapshotCache) Get(ctx context.Context, table string) (*rowset.Table, error) {
	if c.ttl > 0 {
		c.mu.RLock()
		entry, ok := c.entries[table]
		c.mu.RUnlock()
		if ok && time.Since(entry.built) <= c.ttl {
			return entry.table, nil
		}
	}

	result, err, _ := c.sf.Do(table, func() (any, error) {
		// Double-check after winning the flight.
		if c.ttl > 0 {
			c.mu.RLock()
			entry, ok := c.entries[table]
			c.mu.RUnlock()
			if ok && time.Since(entry.built) <= c.ttl {
				return entry.table, nil
			}
		}

		snapshot, err := c.source.Snapshot(ctx, table)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[table] = cacheEntry{table: snapshot, built: time.Now()}
			c.mu.Unlock()
		}
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*rowset.Table), nil
}

// Invalidate drops the cached snapshot for a table, forcing the next Get
// to reload. Call it after applying a batch.
func (c *SnapshotCache) Invalidate(table string) {
	c.mu.Lock()
	delete(c.entries, table)
	c.mu.Unlock()
}
