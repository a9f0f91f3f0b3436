package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"aimmkit/internal/demo"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/infrastructure"
	"aimmkit/internal/middleware"
	"aimmkit/pkg/contracts/domain"
	"aimmkit/pkg/contracts/events"
)

// StreamConfig configures the demo stream endpoint
type StreamConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	WriteWait       time.Duration
	// StepDelay paces the step messages; zero sends them as fast as they run
	StepDelay   time.Duration
	DefaultSeed uint64
	// AllowedOrigins lists browser origins allowed to connect. Requests
	// without an Origin header are always accepted.
	AllowedOrigins []string
}

// StreamHandler upgrades a request and streams one demo run over it
type StreamHandler struct {
	hub          *Hub
	runner       DemoRunner
	cfg          StreamConfig
	upgrader     websocket.Upgrader
	params       *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewStreamHandler creates the demo stream handler
func NewStreamHandler(hub *Hub, runner DemoRunner, cfg StreamConfig, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	h := &StreamHandler{
		hub:          hub,
		runner:       runner,
		cfg:          cfg,
		params:       middleware.NewQueryParamValidator(errorHandler),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "websocket.stream")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *StreamHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(h.cfg.AllowedOrigins, "*") || slices.Contains(h.cfg.AllowedOrigins, origin) {
		return true
	}
	h.logger.Warn("Rejected WebSocket origin", slog.String("origin", origin))
	return false
}

// ServeHTTP handles GET /ws/demo?seed=&date=
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	seed, ok := h.params.ValidateUint(w, r, "seed", h.cfg.DefaultSeed)
	if !ok {
		return
	}
	dateParam, ok := h.params.ValidateDate(w, r, "date")
	if !ok {
		return
	}
	var date time.Time
	if dateParam != "" {
		date, _ = time.Parse(domain.DateLayout, dateParam)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the handshake failure
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	ctx := infrastructure.EnsureTraceID(context.WithoutCancel(r.Context()))
	traceID := infrastructure.GetTraceID(ctx)
	client := NewClient(conn, traceID, h.cfg.WriteWait, h.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.hub.Register(ctx, client)
	defer h.hub.Unregister(ctx, client)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		client.ReadPump(ctx, cancel)
	}()

	h.stream(ctx, cancel, client, seed, dateParam, date)

	client.CloseWith(websocket.CloseNormalClosure, "")
	cancel()
	<-readDone
}

func (h *StreamHandler) stream(ctx context.Context, cancel context.CancelFunc, client *Client, seed uint64, dateParam string, date time.Time) {
	streamID := client.ID()
	logger := h.logger.With(slog.String("client_id", streamID), slog.Uint64("seed", seed))

	if err := client.Send(events.NewMessage(events.MessageTypeDemoStarted, streamID, client.traceID, events.DemoStartedData{
		Seed:  seed,
		Date:  dateParam,
		Steps: demo.StepCount,
	})); err != nil {
		logger.WarnContext(ctx, "Failed to send start message", slog.String("error", err.Error()))
		return
	}

	var sendErr error
	reporter := demo.ReporterFunc(func(ctx context.Context, step demo.Step) {
		if sendErr != nil {
			return
		}
		sendErr = client.Send(events.NewMessage(events.MessageTypeDemoStep, streamID, client.traceID, events.DemoStepData{
			Number:  step.Number,
			Name:    step.Name,
			Status:  string(step.Status),
			Message: step.Message,
			Details: step.Data,
		}))
		if sendErr != nil {
			cancel()
			return
		}
		if h.cfg.StepDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(h.cfg.StepDelay):
			}
		}
	})

	start := time.Now()
	result, err := h.runner.Run(ctx, seed, date, reporter)
	if sendErr != nil {
		logger.WarnContext(ctx, "Stream write failed", slog.String("error", sendErr.Error()))
		return
	}

	if err != nil {
		data := events.ErrorData{Code: events.ErrCodeRunFailed, Message: err.Error()}
		var stepErr *demo.StepError
		switch {
		case errors.As(err, &stepErr):
			data.Step = stepErr.Step.Number
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			data.Code = events.ErrCodeCancelled
		}
		logger.InfoContext(ctx, "Demo stream stopped", slog.String("code", data.Code), slog.String("error", err.Error()))
		if serr := client.Send(events.NewMessage(events.MessageTypeError, streamID, client.traceID, data)); serr != nil {
			logger.DebugContext(ctx, "Failed to send error message", slog.String("error", serr.Error()))
		}
		return
	}

	if err := client.Send(events.NewMessage(events.MessageTypeDemoCompleted, result.RunID, client.traceID, events.DemoCompletedData{
		RiskScore:  result.RiskScore,
		RiskLevel:  string(result.RiskLevel),
		DurationMS: time.Since(start).Milliseconds(),
	})); err != nil {
		logger.WarnContext(ctx, "Failed to send completion message", slog.String("error", err.Error()))
		return
	}
	logger.InfoContext(ctx, "Demo stream completed",
		slog.String("run_id", result.RunID),
		slog.String("risk_level", string(result.RiskLevel)))
}
