package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/config"
)

const secret = "test-secret"

func echoVisitor(c echo.Context) error {
	return c.String(http.StatusOK, VisitorID(c))
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestVisitorIssuesAndReusesCookie(t *testing.T) {
	e := echo.New()
	e.Use(Visitor(secret, time.Hour, false, zap.NewNop().Sugar()))
	e.GET("/", echoVisitor)

	first := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, VisitorCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	id := first.Body.String()
	assert.NotEqual(t, "anon", id)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	second := serve(e, req)
	assert.Equal(t, id, second.Body.String())
	assert.Empty(t, second.Result().Cookies())
}

func TestVisitorReplacesTamperedCookie(t *testing.T) {
	e := echo.New()
	e.Use(Visitor(secret, time.Hour, false, zap.NewNop().Sugar()))
	e.GET("/", echoVisitor)

	forged, err := SignVisitor("other-secret", "victim", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: forged})

	rec := serve(e, req)
	assert.NotEqual(t, "victim", rec.Body.String())
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestParseVisitor(t *testing.T) {
	tok, err := SignVisitor(secret, "v-1", time.Hour)
	require.NoError(t, err)
	id, err := ParseVisitor(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "v-1", id)

	expired, err := SignVisitor(secret, "v-1", -time.Minute)
	require.NoError(t, err)
	_, err = ParseVisitor(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidVisitorToken)

	_, err = ParseVisitor(secret, "garbage")
	assert.ErrorIs(t, err, ErrInvalidVisitorToken)
}

func TestLocalTokenBucket(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "visitor_route",
		Prefix:         "rl",
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, nil, zap.NewNop().Sugar()))
	e.POST("/api/checkout", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/checkout", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}
	rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/checkout", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestTokenBucketDisabled(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, zap.NewNop().Sugar()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/checkout", nil), httptest.NewRecorder())
	c.SetPath("/api/checkout")
	c.Set(visitorKey, "v-1")

	assert.Equal(t, "rl:visitor:v-1:route:POST /api/checkout",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "visitor_route"}, c))
	assert.Equal(t, "rl:visitor:v-1",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "visitor"}, c))
}
