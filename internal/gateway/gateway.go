// Package gateway wraps every call to the remote ordering API. It attaches
// the session cookie and default headers, and normalizes transport and
// application failures into a single Error type.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/iliyamo/utility-ordering-client/internal/metrics"
)

const maxResponseBytes = 8 << 20

// Config configures a Gateway.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Transport overrides the HTTP transport; nil uses the default.
	Transport http.RoundTripper

	// Cache, when set, serves GET requests to CacheEndpoints.
	Cache          ResponseCache
	CachePrefix    string
	CacheEndpoints map[string]bool
}

// Options describe one call. Body is JSON encoded when non-nil. Headers
// override the defaults.
type Options struct {
	Method  string
	Body    any
	Headers map[string]string
	Query   url.Values
}

// Gateway issues requests on behalf of one client session. Each Gateway
// owns its own cookie jar so sessions never leak between workspaces.
type Gateway struct {
	log        *zap.SugaredLogger
	httpClient *http.Client
	baseURL    string

	cache          ResponseCache
	cachePrefix    string
	cacheEndpoints map[string]bool
}

// New builds a Gateway with a fresh cookie jar.
func New(cfg Config, log *zap.SugaredLogger) (*Gateway, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	prefix := cfg.CachePrefix
	if prefix == "" {
		prefix = "catalog"
	}
	return &Gateway{
		log: log.Named("gateway"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: cfg.Transport,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		cache:          cfg.Cache,
		cachePrefix:    prefix,
		cacheEndpoints: cfg.CacheEndpoints,
	}, nil
}

// Do performs the call and decodes a successful body into out (skipped
// when out is nil or the body is empty). Every failure is a *Error.
func (g *Gateway) Do(ctx context.Context, endpoint string, opts Options, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	label := metrics.EndpointLabel(endpoint)
	query := opts.Query.Encode()

	cacheable := g.cache != nil && method == http.MethodGet && g.cacheEndpoints[endpoint]
	key := ""
	if cacheable {
		key = cacheKey(g.cachePrefix, method, endpoint, query)
		if body, ok := g.cache.Get(ctx, key); ok {
			if err := decodeInto(body, out); err == nil {
				metrics.GatewayRequests.WithLabelValues(method, label, "cache_hit").Inc()
				return nil
			}
		}
	}

	target := g.baseURL + endpoint
	if query != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		target += sep + query
	}

	var reader io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return transportError(fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return transportError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(method, label, "transport").Inc()
		g.log.Warnw("request failed", "method", method, "endpoint", endpoint, "error", err)
		return transportError(fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(method, label, "transport").Inc()
		return transportError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := normalize(resp.StatusCode, body)
		metrics.GatewayRequests.WithLabelValues(method, label, "error").Inc()
		g.log.Debugw("api error", "method", method, "endpoint", endpoint,
			"status", resp.StatusCode, "kind", apiErr.Kind, "message", apiErr.Message)
		return apiErr
	}

	if err := decodeInto(body, out); err != nil {
		metrics.GatewayRequests.WithLabelValues(method, label, "transport").Inc()
		return transportError(err)
	}
	metrics.GatewayRequests.WithLabelValues(method, label, "ok").Inc()

	if cacheable && resp.StatusCode == http.StatusOK {
		g.cache.Set(ctx, key, body)
	}
	return nil
}

// Get is Do with GET and optional query parameters.
func (g *Gateway) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return g.Do(ctx, endpoint, Options{Method: http.MethodGet, Query: query}, out)
}

// Post is Do with POST and a JSON body.
func (g *Gateway) Post(ctx context.Context, endpoint string, body, out any) error {
	return g.Do(ctx, endpoint, Options{Method: http.MethodPost, Body: body}, out)
}

func decodeInto(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Requester is the capability workflows need from the gateway.
type Requester interface {
	Do(ctx context.Context, endpoint string, opts Options, out any) error
}

var _ Requester = (*Gateway)(nil)
