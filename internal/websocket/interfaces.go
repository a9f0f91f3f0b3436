package websocket

import (
	"context"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"aimmkit/internal/demo"
)

// Connection is the part of *websocket.Conn a Client uses, so tests can
// substitute their own
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	RemoteAddr() net.Addr
}

var _ Connection = (*websocket.Conn)(nil)

// DemoRunner runs one seeded toy demonstration, reporting each step
type DemoRunner interface {
	Run(ctx context.Context, seed uint64, date time.Time, reporter demo.Reporter) (*demo.Result, error)
}
