package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	apphttp "storefront/internal/http"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/storage"
)

func testConfig() config.Config {
	return config.Config{
		DBDriver:          config.DriverSQLite,
		SQLitePath:        ":memory:",
		DBName:            "ecommerce",
		ConnectAttempts:   1,
		ConnectTimeout:    time.Second,
		JWTSecret:         "test-secret",
		BcryptCost:        bcrypt.MinCost,
		RateLimitMax:      1000,
		LoginRateLimitMax: 1000,
		BodyLimit:         1 << 20,
	}
}

var allServices = []apphttp.Mounter{apphttp.MountUsers, apphttp.MountProducts, apphttp.MountOrders}

func newTestApp(t *testing.T, cfg config.Config, mounts ...apphttp.Mounter) (*fiber.App, *storage.Store) {
	t.Helper()
	st, err := storage.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	deps := handlers.NewDeps(st, cfg)
	app := apphttp.Build(apphttp.Options{Service: "test", Config: cfg}, deps, mounts...)
	return app, st
}

// call sends body (JSON-encoded unless it is already a string) and returns
// the status and raw response body.
func call(t *testing.T, app *fiber.App, method, path string, body any, header ...string) (int, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Kind   string         `json:"kind"`
	ReqID  string         `json:"req_id"`
	Status int            `json:"status"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

