package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aimmkit/pkg/contracts/events"
)

const (
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512

	defaultWriteWait = 10 * time.Second
)

// Client is one open demo stream
type Client struct {
	conn        Connection
	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	writeWait   time.Duration
	logger      *slog.Logger

	mu           sync.Mutex
	messagesSent int64
	bytesSent    int64
}

// NewClient wraps an upgraded connection
func NewClient(conn Connection, traceID string, writeWait time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if writeWait <= 0 {
		writeWait = defaultWriteWait
	}

	id := uuid.NewString()
	remoteAddr := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remoteAddr = addr.String()
	}

	return &Client{
		conn:        conn,
		id:          id,
		traceID:     traceID,
		remoteAddr:  remoteAddr,
		connectedAt: time.Now(),
		writeWait:   writeWait,
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
		),
	}
}

// ID returns the client identifier
func (c *Client) ID() string {
	return c.id
}

// Send writes one message as a single text frame
func (c *Client) Send(msg events.WebSocketMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", msg.Type, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write %s message: %w", msg.Type, err)
	}
	c.messagesSent++
	c.bytesSent += int64(len(data))
	return nil
}

// CloseWith sends a close frame with the given code and reason, then
// closes the connection
func (c *Client) CloseWith(code int, reason string) error {
	c.mu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	c.mu.Unlock()

	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadPump drains the connection until the peer goes away, then calls
// cancel. Clients are not expected to send anything but heartbeats.
func (c *Client) ReadPump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.WarnContext(ctx, "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.logger.DebugContext(ctx, "Ignoring client message",
			slog.Int("size", len(message)))
	}
}

// Stats returns the number of messages and bytes written
func (c *Client) Stats() (messages, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messagesSent, c.bytesSent
}
