package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/alchemist/pkg/channels/gochannel"
	"github.com/dukex/alchemist/pkg/eventbus"
	"github.com/dukex/alchemist/pkg/events"
	"github.com/dukex/alchemist/pkg/log"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/otelhelper"
	"github.com/dukex/alchemist/pkg/persistence/file"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, bus eventbus.EventBus) *fiber.App {
	t.Helper()

	api := NewAPI(slog.Default(), file.NewPersistence(t.TempDir()), bus, otelhelper.NoopTracer())

	return api.App()
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t, nil)

	status, body := get(t, app, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alchemist API", body)
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t, nil)

	for _, path := range []string{"/livez", "/readyz"} {
		status, body := get(t, app, path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, "OK", body, path)
	}

	status, body := get(t, app, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"healthy"`)
}

func TestAPI_GetSessions_Empty(t *testing.T) {
	app := setupTestApp(t, nil)

	status, body := get(t, app, "/sessions")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)
}

// syncBuffer guards the audit output written from the subscriber goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestAPI_EventsReachAuditLog(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() { _ = bus.Close() })

	out := &syncBuffer{}
	require.NoError(t, registerAuditLog(bus, log.NewLogger(out, "info")))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	app := setupTestApp(t, bus)

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(`{"name": "Audit"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session models.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))

	assert.Eventually(t, func() bool {
		logged := out.String()

		return strings.Contains(logged, "event_type="+string(events.SessionCreatedEvent)) &&
			strings.Contains(logged, "session_id="+session.ID)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAuditHandler_IgnoresUnknownPayloads(t *testing.T) {
	out := &syncBuffer{}
	handler := auditHandler(log.NewLogger(out, "info"))

	require.NoError(t, handler(t.Context(), "not an event"))
	assert.Contains(t, out.String(), "Received event without envelope")

	require.NoError(t, handler(t.Context(), &events.RuleRemoved{
		BaseEvent: events.NewBaseEvent(events.RuleRemovedEvent, "s1"),
		RuleID:    "r1",
	}))
	assert.Contains(t, out.String(), "session_id=s1")
}
