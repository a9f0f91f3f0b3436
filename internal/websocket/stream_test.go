package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimmkit/internal/demo"
	"aimmkit/internal/services"
	"aimmkit/internal/shared/testutil"
	"aimmkit/pkg/contracts/events"
)

type streamMessage struct {
	Type  events.MessageType `json:"type"`
	RunID string             `json:"run_id"`
	Data  json.RawMessage    `json:"data"`
}

type failingRunner struct {
	err error
}

func (f failingRunner) Run(ctx context.Context, _ uint64, _ time.Time, reporter demo.Reporter) (*demo.Result, error) {
	reporter.OnStep(ctx, demo.Step{Number: 1, Name: demo.StepGenerate, Status: demo.StepCompleted})
	return nil, f.err
}

func newStreamServer(t *testing.T, runner DemoRunner, cfg StreamConfig) (*httptest.Server, *Hub) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(nil, logger)
	srv := httptest.NewServer(NewStreamHandler(hub, runner, cfg, nil, logger))
	t.Cleanup(srv.Close)
	return srv, hub
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/demo" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readAll reads messages until the server closes the stream
func readAll(t *testing.T, conn *websocket.Conn) ([]streamMessage, *websocket.CloseError) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msgs []streamMessage
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			require.True(t, errors.As(err, &closeErr), "unexpected read error: %v", err)
			return msgs, closeErr
		}
		var msg streamMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		msgs = append(msgs, msg)
	}
}

func TestStreamHandler_CompletedRun(t *testing.T) {
	srv, hub := newStreamServer(t, services.NewDemoService(nil, nil), StreamConfig{DefaultSeed: 42})

	conn := dial(t, srv, "?seed=7&date=2025-12-28")
	msgs, closeErr := readAll(t, conn)

	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
	require.Len(t, msgs, demo.StepCount+2)

	assert.Equal(t, events.MessageTypeDemoStarted, msgs[0].Type)
	var started events.DemoStartedData
	require.NoError(t, json.Unmarshal(msgs[0].Data, &started))
	assert.Equal(t, uint64(7), started.Seed)
	assert.Equal(t, "2025-12-28", started.Date)
	assert.Equal(t, demo.StepCount, started.Steps)

	for i, msg := range msgs[1 : demo.StepCount+1] {
		assert.Equal(t, events.MessageTypeDemoStep, msg.Type)
		var step events.DemoStepData
		require.NoError(t, json.Unmarshal(msg.Data, &step))
		assert.Equal(t, i+1, step.Number)
		assert.Equal(t, string(demo.StepCompleted), step.Status)
	}

	last := msgs[len(msgs)-1]
	assert.Equal(t, events.MessageTypeDemoCompleted, last.Type)
	assert.NotEmpty(t, last.RunID)

	want, err := demo.Run(context.Background(), demo.Options{Seed: 7})
	require.NoError(t, err)
	var completed events.DemoCompletedData
	require.NoError(t, json.Unmarshal(last.Data, &completed))
	assert.Equal(t, want.RiskScore, completed.RiskScore)
	assert.Equal(t, string(want.RiskLevel), completed.RiskLevel)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), hub.TotalConnections())
}

func TestStreamHandler_RunFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantStep int
	}{
		{
			name:     "step failure",
			err:      &demo.StepError{Step: demo.Step{Number: 2}, Err: errors.New("missing required features")},
			wantCode: events.ErrCodeRunFailed,
			wantStep: 2,
		},
		{
			name:     "cancelled",
			err:      context.Canceled,
			wantCode: events.ErrCodeCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newStreamServer(t, failingRunner{err: tt.err}, StreamConfig{})

			msgs, closeErr := readAll(t, dial(t, srv, ""))
			assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
			require.Len(t, msgs, 3)
			assert.Equal(t, events.MessageTypeDemoStep, msgs[1].Type)
			assert.Equal(t, events.MessageTypeError, msgs[2].Type)

			var data events.ErrorData
			require.NoError(t, json.Unmarshal(msgs[2].Data, &data))
			assert.Equal(t, tt.wantCode, data.Code)
			assert.Equal(t, tt.wantStep, data.Step)
		})
	}
}

func TestStreamHandler_InvalidQuery(t *testing.T) {
	srv, hub := newStreamServer(t, services.NewDemoService(nil, nil), StreamConfig{})

	for _, query := range []string{"?seed=-1", "?seed=abc", "?date=28-12-2025"} {
		resp, err := http.Get(srv.URL + "/ws/demo" + query)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
	assert.Zero(t, hub.TotalConnections())
}

func TestStreamHandler_CheckOrigin(t *testing.T) {
	srv, _ := newStreamServer(t, services.NewDemoService(nil, nil), StreamConfig{
		AllowedOrigins: []string{"http://localhost:8080"},
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	header := http.Header{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "http://localhost:8080")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	resp.Body.Close()
	conn.Close()
}

func TestHub_CloseAll(t *testing.T) {
	release := make(chan struct{})
	blocking := demoRunnerFunc(func(ctx context.Context, _ uint64, _ time.Time, _ demo.Reporter) (*demo.Result, error) {
		select {
		case <-ctx.Done():
		case <-release:
		}
		return nil, context.Canceled
	})
	defer close(release)

	srv, hub := newStreamServer(t, blocking, StreamConfig{})
	conn := dial(t, srv, "")

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.CloseAll()

	_, closeErr := readAll(t, conn)
	assert.Equal(t, websocket.CloseGoingAway, closeErr.Code)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

type demoRunnerFunc func(ctx context.Context, seed uint64, date time.Time, reporter demo.Reporter) (*demo.Result, error)

func (f demoRunnerFunc) Run(ctx context.Context, seed uint64, date time.Time, reporter demo.Reporter) (*demo.Result, error) {
	return f(ctx, seed, date, reporter)
}
