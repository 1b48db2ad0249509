package memory

import (
	"context"
	"sync"
	"time"

	"learnquest-service/internal/domain"
)

// SnapshotCache holds leaderboard snapshots for a short TTL, keyed by the
// requested row limit.
type SnapshotCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[int]cachedSnapshot
}

type cachedSnapshot struct {
	board     domain.Leaderboard
	expiresAt time.Time
}

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[int]cachedSnapshot),
	}
}

func (c *SnapshotCache) Get(_ context.Context, limit int) (domain.Leaderboard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[limit]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.Leaderboard{}, false
	}
	return entry.board, true
}

func (c *SnapshotCache) Set(_ context.Context, limit int, board domain.Leaderboard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[limit] = cachedSnapshot{
		board:     board,
		expiresAt: c.clock().Add(c.ttl),
	}
}
