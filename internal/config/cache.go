package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the outbound response cache. Only GET
// requests whose endpoint is listed in Endpoints are cached, which by default
// is the public service catalog. When Enabled is false or no Redis client is
// available the gateway talks to the API directly.
type CacheConfig struct {
	Enabled      bool
	Endpoints    map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables. Endpoints are normalized to carry
// leading and trailing slashes the way the remote API spells them.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Endpoints:    envSet("CACHE_ENDPOINTS", "/services/", normalizeEndpoint),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "catalog"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func normalizeEndpoint(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
