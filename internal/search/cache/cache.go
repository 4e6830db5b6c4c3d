// Package cache is the Redis-backed query result cache. It is strictly an
// optimization layer: any Redis failure degrades to a recompute, never to a
// request error.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gleamstack/beautysearch/internal/feature"
	"github.com/gleamstack/beautysearch/internal/search"
	"github.com/gleamstack/beautysearch/pkg/config"
	pkgredis "github.com/gleamstack/beautysearch/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// QueryCache caches ranked search responses keyed by the normalized request.
// Concurrent misses for the same key collapse into one computation.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache over an established Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached results for req, if present.
func (c *QueryCache) Get(ctx context.Context, req search.Request) ([]search.Result, bool) {
	key := c.buildKey(req)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var results []search.Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", key)
	return results, true
}

// Set stores the results for req. Failures are logged and swallowed.
func (c *QueryCache) Set(ctx context.Context, req search.Request, results []search.Result) {
	key := c.buildKey(req)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached results for req or computes and caches
// them. The bool reports whether the response was served from cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	req search.Request,
	computeFn func() ([]search.Result, error),
) ([]search.Result, bool, error) {
	if results, ok := c.Get(ctx, req); ok {
		return results, true, nil
	}
	key := c.buildKey(req)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.Get(ctx, req); ok {
			return results, nil
		}
		results, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, req, results)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]search.Result), false, nil
}

// Invalidate drops every cached search response.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters since startup.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the request into a stable cache key. The query and skin
// concerns are normalized the same way the index normalizes them, so
// requests that the engine treats identically share an entry.
func (c *QueryCache) buildKey(req search.Request) string {
	concerns := make([]string, 0, len(req.SkinConcerns))
	for _, s := range req.SkinConcerns {
		concerns = append(concerns, feature.NormalizeText(s))
	}
	sort.Strings(concerns)

	parts := []string{
		feature.NormalizeText(req.Query),
		"concerns=" + strings.Join(concerns, ","),
		"brand=" + strings.ToLower(strings.TrimSpace(req.Filters.Brand)),
		fmt.Sprintf("limit=%d", req.Limit),
	}
	if pr := req.Filters.PriceRange; pr != nil {
		parts = append(parts, fmt.Sprintf("price=%.2f-%.2f", pr.Min, pr.Max))
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
