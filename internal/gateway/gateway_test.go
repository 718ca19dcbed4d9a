package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	return b, ok
}

func (m *memCache) Set(_ context.Context, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = body
}

func newTestGateway(t *testing.T, h http.Handler, cfg Config) *Gateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL + "/api"
	g, err := New(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	return g
}

func TestDoDecodesSuccessAndSendsDefaults(t *testing.T) {
	var gotPath, gotCT, gotCustom, gotBody string
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		gotCustom = r.Header.Get("X-Trace")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":1,"username":"alice"}}`))
	}), Config{})

	var out struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	err := g.Do(context.Background(), "/auth/signin/", Options{
		Method:  http.MethodPost,
		Body:    map[string]string{"mobile_number": "0770"},
		Headers: map[string]string{"X-Trace": "abc"},
	}, &out)
	require.NoError(t, err)
	require.Equal(t, "alice", out.User.Username)
	require.Equal(t, "/api/auth/signin/", gotPath)
	require.Equal(t, "application/json", gotCT)
	require.Equal(t, "abc", gotCustom)
	require.JSONEq(t, `{"mobile_number":"0770"}`, gotBody)
}

func TestDoCallerHeaderOverridesDefault(t *testing.T) {
	var gotCT string
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}), Config{})

	err := g.Do(context.Background(), "/x/", Options{Headers: map[string]string{"Content-Type": "text/plain"}}, nil)
	require.NoError(t, err)
	require.Equal(t, "text/plain", gotCT)
}

func TestDoKeepsSessionCookie(t *testing.T) {
	var probeCookie string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signin/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/profile/", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sessionid"); err == nil {
			probeCookie = c.Value
		}
		_, _ = w.Write([]byte(`{"username":"alice"}`))
	})
	g := newTestGateway(t, mux, Config{})

	require.NoError(t, g.Post(context.Background(), "/auth/signin/", map[string]string{}, nil))
	require.NoError(t, g.Get(context.Background(), "/profile/", nil, nil))
	require.Equal(t, "s1", probeCookie)
}

func TestDoQueryParameters(t *testing.T) {
	var got url.Values
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	}), Config{})

	q := url.Values{"service_id": {"3"}, "quantity": {"10"}}
	require.NoError(t, g.Get(context.Background(), "/services/calculate_cost/", q, nil))
	require.Equal(t, "3", got.Get("service_id"))
	require.Equal(t, "10", got.Get("quantity"))
}

func TestDoNormalizesErrorBody(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"non_field_errors": []string{"Insufficient balance"}})
	}), Config{})

	err := g.Post(context.Background(), "/orders/checkout/", map[string]int{"service_id": 1}, nil)
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, KindGeneral, gwErr.Kind)
	require.Equal(t, http.StatusBadRequest, gwErr.Status)
	require.Equal(t, "Insufficient balance", gwErr.Message)
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	g, err := New(Config{BaseURL: base}, zap.NewNop().Sugar())
	require.NoError(t, err)

	err = g.Get(context.Background(), "/profile/", nil, nil)
	require.True(t, IsKind(err, KindTransport))
	require.Equal(t, FallbackMessage, Message(err))
}

func TestDoUndecodableSuccessBody(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}), Config{})

	var out map[string]any
	err := g.Get(context.Background(), "/services/", nil, &out)
	require.True(t, IsKind(err, KindTransport))
}

func TestDoServesCatalogFromCache(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/services/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[{"id":1,"name_en":"Water"}]`))
	})
	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[]`))
	})
	cache := newMemCache()
	g := newTestGateway(t, mux, Config{Cache: cache, CacheEndpoints: map[string]bool{"/services/": true}})

	for i := 0; i < 3; i++ {
		var out []map[string]any
		require.NoError(t, g.Get(context.Background(), "/services/", nil, &out))
		require.Len(t, out, 1)
	}
	require.Equal(t, 1, calls)

	for i := 0; i < 2; i++ {
		require.NoError(t, g.Get(context.Background(), "/orders/", nil, nil))
	}
	require.Equal(t, 3, calls)
}

func TestPayloadRoundTrip(t *testing.T) {
	status, body, ok := decodePayload(encodePayload(200, []byte("abc")))
	require.True(t, ok)
	require.Equal(t, 200, status)
	require.Equal(t, "abc", string(body))

	_, _, ok = decodePayload([]byte{1})
	require.False(t, ok)
}

func TestCacheKeyStable(t *testing.T) {
	a := cacheKey("catalog", "GET", "/services/", "")
	require.Equal(t, a, cacheKey("catalog", "GET", "/services/", ""))
	require.NotEqual(t, a, cacheKey("catalog", "GET", "/services/", "x=1"))
	require.Contains(t, a, "catalog:")
}
