// Package events contains the WebSocket message contracts used to stream
// toy demonstration runs.
package events

import (
	"time"

	"github.com/google/uuid"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeDemoStarted opens a stream
	MessageTypeDemoStarted MessageType = "demo:started"
	// MessageTypeDemoStep carries one finished workflow step
	MessageTypeDemoStep MessageType = "demo:step"
	// MessageTypeDemoCompleted closes a successful stream
	MessageTypeDemoCompleted MessageType = "demo:completed"
	// MessageTypeError closes a failed stream
	MessageTypeError MessageType = "error"
)

// Error codes sent in ErrorData
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeRunFailed      = "RUN_FAILED"
	ErrCodeCancelled      = "CANCELLED"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	RunID string `json:"run_id,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// NewMessage stamps a message with a fresh ID and the current time
func NewMessage(msgType MessageType, runID, traceID string, data any) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			ID:        uuid.NewString(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		RunID: runID,
		Data:  data,
	}
}

// DemoStartedData announces the seed and date a run uses
type DemoStartedData struct {
	Seed  uint64 `json:"seed"`
	Date  string `json:"date,omitempty"`
	Steps int    `json:"steps"`
}

// DemoStepData mirrors one workflow step
type DemoStepData struct {
	Number  int            `json:"number"`
	Name    string         `json:"name"`
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// DemoCompletedData summarises a finished run
type DemoCompletedData struct {
	RiskScore  float64 `json:"risk_score"`
	RiskLevel  string  `json:"risk_level"`
	DurationMS int64   `json:"duration_ms"`
}

// ErrorData describes why a stream stopped
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Step    int    `json:"step,omitempty"`
}
