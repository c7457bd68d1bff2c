package notify

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/taskflow/taskflow/internal/auth"
)

// Event is pushed to every connected client when a topic fires.
type Event struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

// Publisher is the slice of the hub that services push through.
type Publisher interface {
	Publish(topic, message string)
}

// Hub broadcasts status events to websocket subscribers. Clients
// authenticate the upgrade with a ?token= query parameter resolved
// against the token store; the socket itself is one-way, server to
// client, and anything the client writes is drained and dropped.
type Hub struct {
	store    auth.TokenResolver
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}

	// gorilla/websocket permits one concurrent writer per connection;
	// broadcasts are serialized hub-wide.
	writeMu sync.Mutex
}

func NewHub(store auth.TokenResolver, logger *slog.Logger) *Hub {
	return &Hub{
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWS authenticates and upgrades a subscriber connection.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if !strings.HasPrefix(token, auth.BearerPrefix) {
		token = auth.BearerPrefix + token
	}

	email, found, err := h.store.Lookup(r.Context(), token)
	if err != nil {
		h.logger.Error("websocket token lookup failed", slog.Any("error", err))
		http.Error(w, "unable to verify credential", http.StatusServiceUnavailable)
		return
	}
	if !found {
		http.Error(w, "identity not resolved for token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("websocket subscriber connected", slog.String("email", email))

	// Drain reads so close frames and pings are processed; drop the
	// connection when the client goes away.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish broadcasts an event to all subscribers. Connections that fail
// the write are dropped.
func (h *Hub) Publish(topic, message string) {
	event := Event{Topic: topic, Message: message}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Warn("websocket write failed, dropping subscriber", slog.Any("error", err))
			h.remove(conn)
		}
	}
}

// Shutdown closes every subscriber connection.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
	return nil
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
