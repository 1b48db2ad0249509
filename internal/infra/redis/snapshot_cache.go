package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"learnquest-service/internal/domain"
)

// SnapshotCache keeps short-lived leaderboard snapshots in Redis as JSON
// values under leaderboard:{limit}. All operations are best-effort: a Redis
// error reads as a miss and writes are dropped.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) Get(ctx context.Context, limit int) (domain.Leaderboard, bool) {
	payload, err := c.client.Get(ctx, c.key(limit)).Bytes()
	if err != nil {
		return domain.Leaderboard{}, false
	}
	var board domain.Leaderboard
	if err := json.Unmarshal(payload, &board); err != nil {
		return domain.Leaderboard{}, false
	}
	return board, true
}

func (c *SnapshotCache) Set(ctx context.Context, limit int, board domain.Leaderboard) {
	payload, err := json.Marshal(board)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(limit), payload, c.ttl).Err()
}

func (c *SnapshotCache) key(limit int) string {
	return "leaderboard:" + strconv.Itoa(limit)
}
