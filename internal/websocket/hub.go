package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"aimmkit/internal/infrastructure"
)

// Hub tracks the open demo streams
type Hub struct {
	mu               sync.RWMutex
	clients          map[string]*Client
	totalConnections int64

	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewHub creates a hub. metrics may be nil.
func NewHub(metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]*Client),
		metrics: metrics,
		logger:  logger.With(slog.String("component", "websocket.hub")),
	}
}

// Register adds a client
func (h *Hub) Register(ctx context.Context, client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	h.totalConnections++
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.DemoStreams.Add(ctx, 1)
	}
	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr))
}

// Unregister removes a client; unknown clients are ignored
func (h *Hub) Unregister(ctx context.Context, client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.id]
	delete(h.clients, client.id)
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	if h.metrics != nil {
		h.metrics.DemoStreams.Add(ctx, -1)
	}
	messages, bytes := client.Stats()
	h.logger.InfoContext(ctx, "Client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Int64("messages_sent", messages),
		slog.Int64("bytes_sent", bytes),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConnections returns the number of streams opened since start
func (h *Hub) TotalConnections() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConnections
}

// CloseAll sends a going-away close frame to every open stream. The stream
// handlers unregister their clients as they return.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.CloseWith(websocket.CloseGoingAway, "server shutting down"); err != nil {
			h.logger.Debug("Failed to close client",
				slog.String("client_id", c.id),
				slog.String("error", err.Error()))
		}
	}
	if len(clients) > 0 {
		h.logger.Info("Closed open streams", slog.Int("count", len(clients)))
	}
}
