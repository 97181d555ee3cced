package doorconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"gatekeeper/internal/domain"
	"gatekeeper/pkg/sentinel"
)

// CacheTTL bounds staleness of cached policy. Schedule edits elsewhere become
// visible within this window; the engine accepts read-committed consistency.
const CacheTTL = 30 * time.Second

// Cached is a Redis read-through layer in front of another Store. Cache
// failures degrade to direct reads; a configuration fault from the inner
// store is never cached.
type Cached struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps inner with a Redis read-through cache.
func NewCached(inner Store, client *redis.Client, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, client: client, ttl: CacheTTL, logger: logger}
}

func cacheKey(id string) string {
	return "doorconfig:" + id
}

func (c *Cached) Get(ctx context.Context, id string) (domain.DoorConfig, error) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var cfg domain.DoorConfig
		if err := json.Unmarshal(raw, &cfg); err == nil {
			return cfg, nil
		}
		// Corrupt entry: fall through to the inner store and rewrite.
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "door config cache read failed", "error", err)
	}

	cfg, err := c.inner.Get(ctx, id)
	if err != nil {
		return domain.DoorConfig{}, err
	}

	if encoded, err := json.Marshal(cfg); err == nil {
		if err := c.client.Set(ctx, cacheKey(id), encoded, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "door config cache write failed", "error", err)
		}
	}
	return cfg, nil
}

// Put writes through to the inner store and invalidates the cached entry.
func (c *Cached) Put(ctx context.Context, cfg domain.DoorConfig) error {
	if err := c.inner.Put(ctx, cfg); err != nil {
		return err
	}
	if err := c.client.Del(ctx, cacheKey(cfg.ID)).Err(); err != nil {
		return fmt.Errorf("invalidate door config cache: %w", err)
	}
	return nil
}

// IsConfigFault reports whether err is a configuration fault rather than an
// ordinary store failure.
func IsConfigFault(err error) bool {
	return errors.Is(err, sentinel.ErrConfigMissing)
}
