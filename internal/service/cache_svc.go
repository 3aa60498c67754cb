package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mathieu-neron/vixtube/internal/metrics"
	"github.com/mathieu-neron/vixtube/internal/reaction"
)

// CacheService provides a Redis cache-aside layer for reaction counts.
type CacheService struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// countEntry is the cached value for one (subject, kind) count.
type countEntry struct {
	Count    int64     `json:"count"`
	CachedAt time.Time `json:"cachedAt"`
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string, ttl time.Duration, log zerolog.Logger) *CacheService {
	log = log.With().Str("component", "cache").Logger()
	if redisURL == "" || ttl <= 0 {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{log: log}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{log: log}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		_ = rdb.Close()
		return &CacheService{log: log}
	}

	log.Info().Dur("ttl", ttl).Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb, ttl: ttl, log: log}
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CacheService {
	return &CacheService{rdb: rdb, ttl: ttl, log: log}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// genTTL bounds how long an invalidation generation is remembered. It only
// has to outlive a single Count call.
const genTTL = 24 * time.Hour

// setIfCurrent writes a count only while the subject's generation still
// matches the one read before the database query.
var setIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or ''
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// GetCount returns a cached count. ok is false on a miss or when caching is
// disabled; gen must then be handed to SetCount with the recomputed value.
func (c *CacheService) GetCount(ctx context.Context, t reaction.SubjectType, subjectID string, kind reaction.Kind) (n int64, gen string, ok bool) {
	if c.rdb == nil {
		return 0, "", false
	}
	vals, err := c.rdb.MGet(ctx, countKey(t, subjectID, kind), genKey(t, subjectID)).Result()
	if err != nil {
		c.log.Warn().Err(err).Msg("cache: count get error")
		return 0, "", false
	}
	gen, _ = vals[1].(string)
	data, hit := vals[0].(string)
	if !hit {
		metrics.CacheMisses.Inc()
		return 0, gen, false
	}
	var e countEntry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		metrics.CacheMisses.Inc()
		return 0, gen, false
	}
	metrics.CacheHits.Inc()
	return e.Count, gen, true
}

// SetCount stores a count for the configured TTL unless the subject was
// invalidated after gen was read. It reports whether the value was stored.
func (c *CacheService) SetCount(ctx context.Context, t reaction.SubjectType, subjectID string, kind reaction.Kind, gen string, n int64) bool {
	if c.rdb == nil {
		return false
	}
	b, err := json.Marshal(countEntry{Count: n, CachedAt: time.Now().UTC()})
	if err != nil {
		return false
	}
	stored, err := setIfCurrent.Run(ctx, c.rdb,
		[]string{genKey(t, subjectID), countKey(t, subjectID, kind)},
		gen, string(b), c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn().Err(err).Msg("cache: count set error")
		return false
	}
	return stored == 1
}

// InvalidateCounts drops every cached count of the subject and bumps its
// generation so in-flight recomputations are discarded (called after toggles).
func (c *CacheService) InvalidateCounts(ctx context.Context, t reaction.SubjectType, subjectID string) {
	if c.rdb == nil {
		return
	}
	keys := make([]string, 0, len(t.Kinds()))
	for _, k := range t.Kinds() {
		keys = append(keys, countKey(t, subjectID, k))
	}
	gk := genKey(t, subjectID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, gk)
		pipe.Expire(ctx, gk, genTTL)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("cache: invalidate counts error")
	}
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func countKey(t reaction.SubjectType, subjectID string, kind reaction.Kind) string {
	return fmt.Sprintf("reactions:count:%s:%s:%s", t, subjectID, kind)
}

func genKey(t reaction.SubjectType, subjectID string) string {
	return fmt.Sprintf("reactions:gen:%s:%s", t, subjectID)
}
