package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTokenResolver struct {
	LookupFunc func(ctx context.Context, token string) (string, bool, error)
	DeleteFunc func(ctx context.Context, token string) error
}

func (m *MockTokenResolver) Lookup(ctx context.Context, token string) (string, bool, error) {
	return m.LookupFunc(ctx, token)
}

func (m *MockTokenResolver) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func knownTokenResolver(t *testing.T, wantToken, email string) *MockTokenResolver {
	t.Helper()
	return &MockTokenResolver{
		LookupFunc: func(ctx context.Context, token string) (string, bool, error) {
			if token == wantToken {
				return email, true, nil
			}
			return "", false, nil
		},
	}
}

func wsURL(server *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub(knownTokenResolver(t, "Bearer valid-token", "alice@example.com"), testLogger())
	t.Cleanup(func() { hub.Shutdown(context.Background()) })

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "valid-token"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	resp.Body.Close()

	// The registration happens in HandleWS before the goroutine; the
	// dial returning means the upgrade completed.
	hub.Publish("task-status/updates", "Task created: t1 - OPEN")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, "task-status/updates", event.Topic)
	assert.Equal(t, "Task created: t1 - OPEN", event.Message)
}

func TestHub_RejectsMissingToken(t *testing.T) {
	hub := NewHub(knownTokenResolver(t, "Bearer valid-token", "alice@example.com"), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	hub.HandleWS(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHub_RejectsUnknownToken(t *testing.T) {
	hub := NewHub(knownTokenResolver(t, "Bearer valid-token", "alice@example.com"), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/ws?token=someone-else", nil)
	rec := httptest.NewRecorder()
	hub.HandleWS(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHub_StoreOutageFailsClosed(t *testing.T) {
	hub := NewHub(&MockTokenResolver{
		LookupFunc: func(ctx context.Context, token string) (string, bool, error) {
			return "", false, context.DeadlineExceeded
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid-token", nil)
	rec := httptest.NewRecorder()
	hub.HandleWS(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHub_PublishWithNoSubscribers(t *testing.T) {
	hub := NewHub(knownTokenResolver(t, "Bearer valid-token", "alice@example.com"), testLogger())

	// Must not panic or block.
	hub.Publish("task-status/updates", "Task created: t1 - OPEN")
}
