package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordAuthOutcome("authenticated")
	m.RecordAuthOutcome("authenticated")
	m.RecordAuthOutcome("expired")
	m.RecordTokenIssued("CLIENT")
	m.RecordError("/api/users/me", "GET", "UNAUTHORIZED")
	m.RecordRequest("/health/live", "GET", 200, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authOutcomes.WithLabelValues("authenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authOutcomes.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokensIssued.WithLabelValues("CLIENT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("GET", "/api/users/me", "UNAUTHORIZED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/health/live", "200")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAuthOutcome("anonymous")
		m.RecordTokenIssued("ADMIN")
		m.RecordError("/", "GET", "X")
		m.RecordRequest("/", "GET", 200, time.Second)
	})
}

func TestMetricsHandlerAndRequestLogger(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthOutcome("anonymous")

	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/metrics", m.Handler())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ecodeli_auth_outcomes_total{outcome="anonymous"} 1`)
	assert.Contains(t, string(body), `ecodeli_http_requests_total{method="GET",path="/ping",status="200"} 2`)
}
