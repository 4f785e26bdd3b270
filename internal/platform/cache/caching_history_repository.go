// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/usecase"
)

// CachingHistoryRepository decorates a HistoryRepository with a Redis read cache.
// Only history reads are cached; price series are always fetched fresh.
//
// List keys embed a per-ticker generation that Save increments, so a read that
// raced with a Save stores its result under a generation nobody reads anymore.
type CachingHistoryRepository struct {
	inner     usecase.HistoryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.HistoryRepository = (*CachingHistoryRepository)(nil)

// NewCachingHistoryRepository decorates a HistoryRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "analyses".
func NewCachingHistoryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.HistoryRepository, namespace string) *CachingHistoryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "analyses"
	}
	return &CachingHistoryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Save records the analysis and bumps the generation of its ticker.
func (c *CachingHistoryRepository) Save(ctx context.Context, a entity.Analysis) error {
	if err := c.inner.Save(ctx, a); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: a stale list expires with the TTL anyway
	_ = c.rdb.Incr(ctx, c.genKey(a.Ticker)).Err()
	return nil
}

// ListByTicker checks the cache first, then falls back to the inner repository.
func (c *CachingHistoryRepository) ListByTicker(ctx context.Context, ticker string, limit int) ([]entity.Analysis, error) {
	if c.rdb == nil {
		return c.inner.ListByTicker(ctx, ticker, limit)
	}

	// 0) Current generation (missing key means none saved yet)
	gen, err := c.rdb.Get(ctx, c.genKey(ticker)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return c.inner.ListByTicker(ctx, ticker, limit)
	}
	key := c.cacheKey(ticker, gen, limit)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Analysis
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListByTicker(ctx, ticker, limit)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingHistoryRepository) genKey(ticker string) string {
	return c.cacheKeyPrefix(ticker) + "gen"
}

func (c *CachingHistoryRepository) cacheKey(ticker string, gen int64, limit int) string {
	return fmt.Sprintf("%s%d:%d", c.cacheKeyPrefix(ticker), gen, limit)
}

func (c *CachingHistoryRepository) cacheKeyPrefix(ticker string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(strings.ToUpper(ticker)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
