// Package config loads application configuration from environment variables,
// optionally seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envFile = ".env"

// ErrMissingEnv is returned when a required variable is unset or empty.
var ErrMissingEnv = errors.New("missing required env var")

// Config holds all runtime configuration values. Nested structs group the
// settings of optional infrastructure (Redis cache, rate limiting, the
// order event queue) so each can be switched off independently.
type Config struct {
	Env      string // application environment (dev/test/prod)
	Port     string // port the BFF listens on
	LogLevel string // zap level name

	APIBaseURL string        // remote ordering API root, e.g. http://127.0.0.1:8000/api
	APITimeout time.Duration // per-request timeout of the outbound HTTP client

	VisitorSecret string        // HMAC secret signing the visitor cookie
	VisitorTTL    time.Duration // lifetime of a visitor cookie and its workspace

	// CheckoutSingleFlight rejects a second checkout while one is in flight
	// for the same workspace.
	CheckoutSingleFlight bool

	Notify    NotifyConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Queue     QueueConfig
}

// NotifyConfig controls the lifecycle of transient notices: a notice turns
// visible after ShowDelay, starts hiding after DisplayFor and is dropped
// RemoveAfter later.
type NotifyConfig struct {
	ShowDelay   time.Duration
	DisplayFor  time.Duration
	RemoveAfter time.Duration
}

// Load reads the .env file (if any) without overriding variables already
// present in the process environment, then builds a Config.
func Load() (Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	secret := os.Getenv("VISITOR_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("%w: VISITOR_SECRET", ErrMissingEnv)
	}

	base := strings.TrimRight(envStr("API_BASE_URL", "http://127.0.0.1:8000/api"), "/")
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("invalid API_BASE_URL %q", base)
	}

	return Config{
		Env:                  envStr("APP_ENV", "dev"),
		Port:                 envStr("APP_PORT", "8080"),
		LogLevel:             envStr("LOG_LEVEL", "info"),
		APIBaseURL:           base,
		APITimeout:           envDur("API_TIMEOUT", 30*time.Second),
		VisitorSecret:        secret,
		VisitorTTL:           envDur("VISITOR_TTL", 12*time.Hour),
		CheckoutSingleFlight: envBool("CHECKOUT_SINGLE_FLIGHT", true),
		Notify: NotifyConfig{
			ShowDelay:   envDur("NOTIFY_SHOW_DELAY", 100*time.Millisecond),
			DisplayFor:  envDur("NOTIFY_DISPLAY_FOR", 3*time.Second),
			RemoveAfter: envDur("NOTIFY_REMOVE_AFTER", 300*time.Millisecond),
		},
		Cache:     LoadCacheConfig(),
		RateLimit: LoadRateLimitConfig(),
		Redis:     LoadRedisConfig(),
		Queue:     LoadQueueConfig(),
	}, nil
}
