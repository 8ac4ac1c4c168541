package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "storefront/internal/http"
)

func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.5:27017: connection refused")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	status, raw := call(t, app, "GET", "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, string(raw), "10.0.0.5")
	assert.Equal(t, "Something went wrong. Please try again.", decode[errBody](t, raw).Error)

	status, raw = call(t, app, "GET", "/teapot", nil)
	assert.Equal(t, http.StatusTeapot, status)
	assert.Equal(t, "short and stout", decode[errBody](t, raw).Error)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app, _ := newTestApp(t, testConfig(), apphttp.MountProducts)

	status, raw := call(t, app, "GET", "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", decode[errBody](t, raw).Error)

	// users routes are not mounted on the product service
	status, _ = call(t, app, "POST", "/users/login", map[string]string{"email": "a@b.co"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthDB(t *testing.T) {
	app, st := newTestApp(t, testConfig())

	status, raw := call(t, app, "GET", "/health/db", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	h := decode[struct {
		Status    string  `json:"status"`
		DB        string  `json:"db"`
		LatencyMs float64 `json:"latency_ms"`
	}](t, raw)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "ecommerce", h.DB)
	assert.GreaterOrEqual(t, h.LatencyMs, 0.0)

	require.NoError(t, st.Close(context.Background()))
	status, raw = call(t, app, "GET", "/health/db", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Database unavailable", decode[errBody](t, raw).Error)
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, testConfig(), apphttp.MountProducts)
	call(t, app, "GET", "/products", nil)

	status, raw := call(t, app, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "storefront_")
	assert.Contains(t, string(raw), "go_goroutines")
}

func TestGlobalRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 3
	app, _ := newTestApp(t, cfg, apphttp.MountProducts)

	for i := 0; i < 3; i++ {
		status, _ := call(t, app, "GET", "/products", nil)
		require.Equal(t, http.StatusOK, status, "hit %d", i+1)
	}
	status, raw := call(t, app, "GET", "/products", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.NotEmpty(t, decode[errBody](t, raw).Error)

	// probes are not counted
	status, _ = call(t, app, "GET", "/health/db", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.BodyLimit = 1024
	app, _ := newTestApp(t, cfg, apphttp.MountProducts)

	big := `{"name":"` + strings.Repeat("x", 4096) + `","price":1}`
	req := httptest.NewRequest("POST", "/products", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		msg := err.Error()
		assert.True(t, strings.Contains(msg, "body size exceeds") || strings.Contains(msg, "too large"), msg)
		return
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
