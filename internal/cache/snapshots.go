// Package cache provides an optional Redis-backed snapshot cache so tight
// re-runs can skip repeat market lookups. The cache is best-effort: every
// failure degrades to a miss.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/domain"
)

// SnapshotCache stores market snapshots under chain:pair keys with a TTL.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// New wraps an existing Redis client.
func New(rdb *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "snapshot_cache").Logger(),
	}
}

// Open dials Redis and verifies connectivity.
func Open(ctx context.Context, addr string, db int, ttl time.Duration) (*SnapshotCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return New(rdb, ttl), nil
}

func key(chain, pair string) string {
	return fmt.Sprintf("memerank:snapshot:%s:%s", chain, pair)
}

// Get returns a cached snapshot, or a miss on any error.
func (c *SnapshotCache) Get(ctx context.Context, chain, pair string) (*domain.MarketSnapshot, bool) {
	raw, err := c.rdb.Get(ctx, key(chain, pair)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Msg("cache read failed")
		}
		return nil, false
	}
	var snap domain.MarketSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.log.Debug().Err(err).Msg("cache entry undecodable")
		return nil, false
	}
	return &snap, true
}

// Put stores a snapshot for the configured TTL. Write failures are logged
// and swallowed; the pipeline never depends on the cache.
func (c *SnapshotCache) Put(ctx context.Context, chain, pair string, snap *domain.MarketSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(chain, pair), raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Msg("cache write failed")
	}
}

// Close releases the underlying client.
func (c *SnapshotCache) Close() error {
	return c.rdb.Close()
}
