package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/billing/internal/observability"
	"github.com/mobileshop/billing/internal/refresh"
	"github.com/mobileshop/billing/internal/settings"
	"github.com/mobileshop/billing/jobs"
)

func testConfig() *Config {
	return &Config{AppEnv: "test", RateLimitPerMinute: 1000}
}

func newTestServer(t *testing.T, params RouterParams) *httptest.Server {
	t.Helper()
	if params.Logger == nil {
		params.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if params.Config == nil {
		params.Config = testConfig()
	}
	srv := httptest.NewServer(NewRouter(params))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealthzAndSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, RouterParams{})

	resp, body := get(t, srv.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	srv := newTestServer(t, RouterParams{
		Readiness: map[string]Pinger{
			"postgres": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
			"redis":    PingFunc(func(context.Context) error { return nil }),
		},
	})

	resp, body := get(t, srv.URL+"/readyz")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "unavailable", got["postgres"])
	assert.Equal(t, "ok", got["redis"])
}

func TestRateLimitAnswersWithProblem(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	srv := newTestServer(t, RouterParams{Config: cfg})

	for i := 0; i < 2; i++ {
		resp, _ := get(t, srv.URL+"/healthz")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestAPIRoutesMounted(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()

	srv := newTestServer(t, RouterParams{
		Logger:          logger,
		Metrics:         metrics,
		SettingsHandler: settings.NewHandler(logger, settings.NewStore(client, logger)),
		RefreshHandler:  refresh.NewHandler(logger, refresh.NewSignal(client, logger, nil)),
		JobHandler:      jobs.NewHandler(nil, logger),
	})

	resp, body := get(t, srv.URL+"/api/settings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cfg settings.Settings
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, settings.Defaults().ShopName, cfg.ShopName)

	resp, body = get(t, srv.URL+"/api/refresh")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"changed":false}`, string(body))

	resp, body = get(t, srv.URL+"/api/jobs/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"queue":"default","pending":0,"failed":0}`, string(body))

	resp, _ = get(t, srv.URL+"/api/products")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "unconfigured modules are not mounted")

	resp, body = get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "billing_http_requests_total")
}
