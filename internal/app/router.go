package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	customMiddleware "aimmkit/internal/middleware"
	handlers "aimmkit/internal/transport/http"
	ws "aimmkit/internal/websocket"
)

// setupRouter configures the HTTP router with all routes. The demo stream
// is mounted outside the request timeout since it lives as long as the run.
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// RequestID → StructuredLogger → Recoverer → RateLimiter → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
	}

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}
	r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	stream := ws.NewStreamHandler(a.Hub, a.Services.Demo, ws.StreamConfig{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		WriteWait:       a.Config.WebSocket.WriteWait,
		StepDelay:       a.Config.WebSocket.StepDelay,
		DefaultSeed:     a.Config.Demo.Seed,
		AllowedOrigins:  a.Config.Security.AllowedOrigins,
	}, a.ErrorHandler, a.Logger)
	r.Get("/ws/demo", stream.ServeHTTP)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))
		r.Use(chimiddleware.NoCache)
		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	requests := customMiddleware.NewRequestValidator(a.Logger, a.Config.Server.MaxBodyBytes)

	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	r.Mount("/api/health", health.Routes())
	r.Get("/api/version", health.Version)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/schema", handlers.NewSchemaHandler(a.Services.Validation.InputSchema(), a.Logger, a.ErrorHandler).Routes())
		r.Mount("/validate", handlers.NewValidationHandler(a.Services.Validation, a.Config.Validation.MaxBatch, requests, a.Logger, a.ErrorHandler).Routes())
		r.Mount("/metrics", handlers.NewMetricsHandler(a.Services.Evaluation, requests, a.Logger, a.ErrorHandler).Routes())
		r.Mount("/demo", handlers.NewDemoHandler(a.Services.Demo, a.Config.Demo.Seed, a.Config.Demo.Date, a.Logger, a.ErrorHandler).Routes())
	})
}
