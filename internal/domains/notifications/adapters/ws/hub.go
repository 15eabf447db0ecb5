// Package ws streams notification transitions to connected UI clients over
// websockets. Each client gets a JSON message per transition; slow clients
// are dropped rather than allowed to block the hub.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/ports"
)

const (
	writeTimeout     = 5 * time.Second
	clientBufferSize = 8
)

var _ ports.Publisher = (*Hub)(nil)

type message struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
	At      string `json:"at"`
}

// Hub fans notification transitions out to websocket subscribers.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan message]struct{}
}

// NewHub builds a hub. Origin checking is left permissive; the API carries
// no credentials and the stream is read-only.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: map[chan message]struct{}{},
	}
}

// Publish implements the publisher port.
func (h *Hub) Publish(n domain.Notification) {
	msg := message{
		ID:      n.ID,
		Status:  string(n.Status),
		Title:   n.Title,
		Message: n.Message,
		At:      n.At.UTC().Format(time.RFC3339Nano),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client <- msg:
		default:
			delete(h.clients, client)
			close(client)
		}
	}
}

// Serve upgrades the request and streams transitions until the client hangs
// up or the context ends.
func (h *Hub) Serve(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	client := h.subscribe()
	defer h.unsubscribe(client)

	// drain the reader so close frames and pings are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func (h *Hub) subscribe() chan message {
	client := make(chan message, clientBufferSize)
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	return client
}

func (h *Hub) unsubscribe(client chan message) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client)
	}
	h.mu.Unlock()
}
