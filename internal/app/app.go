package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"aimmkit/internal/config"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/infrastructure"
	"aimmkit/internal/schema"
	"aimmkit/internal/services"
	ws "aimmkit/internal/websocket"
	"aimmkit/pkg/contracts"
)

// AppName is reported in startup logs
const AppName = "AIMM Toolkit Server"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Hub           *ws.Hub
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler

	mu       sync.Mutex
	listener net.Listener
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Validation *services.ValidationService
	Evaluation *services.EvaluationService
	Demo       *services.DemoService
	Health     *services.HealthService
}

// NewApplication loads the configuration and logger and builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds the application from an explicit configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	inputs := schema.DefaultInputSchema()
	if a.Config.Validation.SchemaFile != "" {
		loaded, err := schema.LoadInputSchema(a.Config.Validation.SchemaFile)
		if err != nil {
			return apierrors.ConfigError("failed to load input schema", err)
		}
		inputs = loaded
		a.Logger.Info("Loaded input schema",
			slog.String("path", a.Config.Validation.SchemaFile),
			slog.String("name", inputs.Name),
			slog.Int("features", len(inputs.Features)))
	}
	inputs = inputs.WithStrict(a.Config.Validation.Strict)

	validation, err := services.NewValidationService(inputs, a.Config.Validation.Workers, a.Metrics, a.Logger)
	if err != nil {
		return err
	}

	a.Hub = ws.NewHub(a.Metrics, a.Logger)

	a.Services = &ServiceContainer{
		Validation: validation,
		Evaluation: services.NewEvaluationService(a.Metrics, a.Logger),
		Demo:       services.NewDemoService(a.Metrics, a.Logger),
		Health:     services.NewHealthService(inputs, a.Hub.ClientCount, a.Logger),
	}
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Listen binds the server address. Port 0 picks a free port.
func (a *Application) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()
	return ln.Addr(), nil
}

// Serve serves on the bound listener until ctx is cancelled, then shuts
// down gracefully
func (a *Application) Serve(ctx context.Context) error {
	a.mu.Lock()
	ln := a.listener
	a.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level),
		slog.Bool("telemetry", a.Config.Telemetry.Enabled))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Server error", slog.String("error", err.Error()))
			a.Stop(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
	}

	return a.Stop(context.Background())
}

// Run listens and serves until SIGINT or SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.Listen(); err != nil {
		return err
	}
	return a.Serve(ctx)
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked stream connections are not tracked by Shutdown
	a.Hub.CloseAll()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}
