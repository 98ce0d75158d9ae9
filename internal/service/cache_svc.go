package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/pkg/hash"
)

// DefaultFeedCacheTTL bounds how stale a cached feed page can get.
const DefaultFeedCacheTTL = time.Minute

const feedGenerationKey = "feed:gen"

// CacheService is a Redis cache-aside layer for feed listings. Keys embed a
// generation counter; bumping it invalidates every cached listing at once.
type CacheService struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client and cache
// operations become no-ops.
func NewCacheService(redisURL string, ttl time.Duration, logger zerolog.Logger) *CacheService {
	if redisURL == "" {
		logger.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{ttl: ttl, log: logger}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{ttl: ttl, log: logger}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		rdb.Close()
		return &CacheService{ttl: ttl, log: logger}
	}

	logger.Info().Msg("redis: connected, caching enabled")
	return NewCacheServiceWithClient(rdb, ttl, logger)
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *CacheService {
	if ttl <= 0 {
		ttl = DefaultFeedCacheTTL
	}
	return &CacheService{rdb: rdb, ttl: ttl, log: logger}
}

// Enabled reports whether a Redis client is attached.
func (c *CacheService) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// FeedKey resolves the cache key for a normalized filter under the current
// generation. Callers read it once per listing and use it for both GetFeed
// and SetFeed, so a listing computed before an invalidation can never be
// stored under the generation that follows it. Returns "" when caching is
// disabled.
func (c *CacheService) FeedKey(ctx context.Context, f model.PostFilter) (string, error) {
	if c.rdb == nil {
		return "", nil
	}
	gen, err := c.rdb.Get(ctx, feedGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("feed:%d:%s", gen, filterDigest(f)), nil
}

// GetFeed returns the listing cached under key. ok is false on a miss or
// when caching is disabled.
func (c *CacheService) GetFeed(ctx context.Context, key string) (posts []model.PostSummary, ok bool, err error) {
	if c.rdb == nil || key == "" {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, false, err
	}
	return posts, true, nil
}

// SetFeed stores a listing under key.
func (c *CacheService) SetFeed(ctx context.Context, key string, posts []model.PostSummary) error {
	if c.rdb == nil || key == "" {
		return nil
	}
	b, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// InvalidateFeed drops every cached listing (called after posts, replies or
// votes change).
func (c *CacheService) InvalidateFeed(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, feedGenerationKey).Err()
}

// invalidate is InvalidateFeed for write paths: a failure is logged, never
// surfaced, since the TTL bounds staleness anyway.
func (c *CacheService) invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.InvalidateFeed(ctx); err != nil {
		c.log.Warn().Err(err).Msg("cache: invalidate feed")
	}
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func filterDigest(f model.PostFilter) string {
	return hash.Prefix(f.Search+"\x00"+f.Course+"\x00"+f.Tag+"\x00"+string(f.Sort), 16)
}
