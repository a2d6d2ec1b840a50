// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/usecase"
)

// CachingPriceRepository decorates a PriceRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Only read queries are cached; every
// write invalidates the symbol's cached entries.
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingPriceRepositoryがPriceRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PriceRepository = (*CachingPriceRepository)(nil)

// NewCachingPriceRepository decorates a PriceRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "prices".
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PriceRepository, namespace string) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindBySymbol retrieves prices, checking cache first then falling back to the database.
func (c *CachingPriceRepository) FindBySymbol(ctx context.Context, symbolID uint, limit int) ([]entity.PriceRecord, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindBySymbol(ctx, symbolID, limit)
	}

	key := c.cacheKey(symbolID, limit)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PriceRecord
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindBySymbol(ctx, symbolID, limit)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FindDates delegates to the underlying repository. Date lists feed the
// deduplication step, so they must never be stale.
func (c *CachingPriceRepository) FindDates(ctx context.Context, symbolID uint) ([]time.Time, error) {
	return c.inner.FindDates(ctx, symbolID)
}

// InsertBatch inserts records and invalidates the symbol's cached entries.
func (c *CachingPriceRepository) InsertBatch(ctx context.Context, symbolID uint, records []entity.PriceRecord) error {
	if err := c.inner.InsertBatch(ctx, symbolID, records); err != nil {
		return err
	}
	c.invalidate(ctx, symbolID)
	return nil
}

// ReplaceAll replaces the symbol's history and invalidates its cached entries.
func (c *CachingPriceRepository) ReplaceAll(ctx context.Context, symbolID uint, records []entity.PriceRecord) error {
	if err := c.inner.ReplaceAll(ctx, symbolID, records); err != nil {
		return err
	}
	c.invalidate(ctx, symbolID)
	return nil
}

// CountBySymbol delegates to the underlying repository.
func (c *CachingPriceRepository) CountBySymbol(ctx context.Context, symbolID uint) (int64, error) {
	return c.inner.CountBySymbol(ctx, symbolID)
}

// invalidate deletes all cached entries for a symbol (best effort).
func (c *CachingPriceRepository) invalidate(ctx context.Context, symbolID uint) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(symbolID)+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingPriceRepository) cacheKey(symbolID uint, limit int) string {
	return fmt.Sprintf("%s:%d:%d", c.namespace, symbolID, limit)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingPriceRepository) cacheKeyPrefix(symbolID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, symbolID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPriceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
