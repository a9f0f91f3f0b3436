package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"aimmkit/internal/schema"
	"aimmkit/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	info      contracts.VersionInfo
	inputs    *schema.InputSchema
	streams   func() int
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]any           `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents process statistics
type SystemStats struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	DemoStreams   int     `json:"demo_streams"`
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	GoVersion     string  `json:"go_version"`
	OS            string  `json:"os"`
	Arch          string  `json:"arch"`
}

// NewHealthService creates a health service. streams reports the number of
// open demo streams and may be nil.
func NewHealthService(inputs *schema.InputSchema, streams func() int, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	if streams == nil {
		streams = func() int { return 0 }
	}

	info := contracts.GetVersionInfo()
	logger.Info("HealthService initialized",
		slog.String("version", info.Version),
		slog.String("schema_version", info.SchemaVersion))

	return &HealthService{
		info:      info,
		inputs:    inputs,
		streams:   streams,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.info.Version,
		Runtime: map[string]any{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status))
	return status
}

// ReadinessCheck reports whether the schemas the server depends on are usable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.info.Version,
		Services: map[string]ServiceHealth{
			"input_schema":  hs.checkInputSchema(),
			"output_schema": {Status: "ready", Message: schema.OutputSchemaName},
			"demo_stream": {
				Status:  "ready",
				Message: fmt.Sprintf("%d open streams", hs.streams()),
				Uptime:  time.Since(hs.startTime).String(),
			},
		},
	}

	for _, svc := range status.Services {
		if svc.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "readiness check failed", slog.String("reason", svc.Message))
			break
		}
	}
	return status
}

func (hs *HealthService) checkInputSchema() ServiceHealth {
	if hs.inputs == nil {
		return ServiceHealth{Status: "not_ready", Message: "input schema not loaded"}
	}
	if err := hs.inputs.Check(); err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%s (%d features)", hs.inputs.Name, len(hs.inputs.Features)),
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]any {
	result := map[string]any{
		"version":        hs.info.Version,
		"schema_version": hs.info.SchemaVersion,
		"api_version":    hs.info.APIVersion,
		"go_version":     hs.info.GoVersion,
		"os":             hs.info.OS,
		"arch":           hs.info.Architecture,
		"start_time":     hs.startTime.Format(time.RFC3339),
	}
	if hs.info.BuildTime != "unknown" {
		result["build_time"] = hs.info.BuildTime
	}
	if hs.info.GitCommit != "unknown" {
		result["git_commit"] = hs.info.GitCommit
	}
	return result
}

// SystemStats returns process statistics
func (hs *HealthService) SystemStats(_ context.Context) SystemStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		DemoStreams:   hs.streams(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(mem.HeapAlloc) / (1 << 20),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]any {
	return map[string]any{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"version":   hs.Version(),
		"stats":     hs.SystemStats(ctx),
	}
}
