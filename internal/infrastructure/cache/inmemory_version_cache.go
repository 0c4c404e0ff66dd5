package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryVersionCache caches the resolved current ledger version per
// owner in process memory. Suitable for single-instance deployments
// and testing.
type InMemoryVersionCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]versionEntry
	ttl     time.Duration
}

type versionEntry struct {
	version   int
	expiresAt time.Time
}

// NewInMemoryVersionCache creates a new in-memory version cache.
// A non-positive TTL disables expiry.
func NewInMemoryVersionCache(ttl time.Duration) *InMemoryVersionCache {
	return &InMemoryVersionCache{
		entries: make(map[uuid.UUID]versionEntry),
		ttl:     ttl,
	}
}

// GetCurrentVersion returns the cached version for an owner
func (c *InMemoryVersionCache) GetCurrentVersion(_ context.Context, ownerID uuid.UUID) (int, bool) {
	c.mu.RLock()
	entry, ok := c.entries[ownerID]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.Invalidate(context.Background(), ownerID)
		return 0, false
	}
	return entry.version, true
}

// SetCurrentVersion stores the version for an owner
func (c *InMemoryVersionCache) SetCurrentVersion(_ context.Context, ownerID uuid.UUID, version int) {
	entry := versionEntry{version: version}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[ownerID] = entry
	c.mu.Unlock()
}

// Invalidate drops the cached version for an owner
func (c *InMemoryVersionCache) Invalidate(_ context.Context, ownerID uuid.UUID) {
	c.mu.Lock()
	delete(c.entries, ownerID)
	c.mu.Unlock()
}
