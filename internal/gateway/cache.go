package gateway

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/utility-ordering-client/internal/config"
)

// ResponseCache stores successful GET bodies keyed by request.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

// RedisCache is a ResponseCache on Redis. Entries expire after the
// configured TTL; errors are treated as misses.
type RedisCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	maxBody int
}

// NewRedisCache returns nil when caching is disabled or Redis is absent.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) ResponseCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl, maxBody: cfg.MaxBodyBytes}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	status, body, ok := decodePayload(bs)
	if !ok || status != 200 {
		return nil, false
	}
	return body, true
}

// Set skips bodies larger than the configured limit rather than storing a
// truncated document.
func (c *RedisCache) Set(ctx context.Context, key string, body []byte) {
	if c.maxBody > 0 && len(body) > c.maxBody {
		return
	}
	_ = c.rdb.SetEx(ctx, key, encodePayload(200, body), c.ttl).Err()
}

// cacheKey hashes the request identity under prefix.
func cacheKey(prefix, method, endpoint, query string) string {
	tail := strings.Join([]string{"method", method, "route", endpoint, "q", query}, ":")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodePayload packs [4 bytes status][body].
func encodePayload(status int, body []byte) []byte {
	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	copy(out[4:], body)
	return out
}

func decodePayload(bs []byte) (int, []byte, bool) {
	if len(bs) < 4 {
		return 0, nil, false
	}
	return int(binary.BigEndian.Uint32(bs[0:4])), bs[4:], true
}
