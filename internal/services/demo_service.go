package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aimmkit/internal/demo"
	"aimmkit/internal/infrastructure"
)

// DemoService runs the toy demonstration
type DemoService struct {
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewDemoService creates a demo service
func NewDemoService(metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DemoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemoService{
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "demo_service"),
		now:     time.Now,
	}
}

// Run executes one seeded demonstration. Each step is recorded as a span
// event and a metric before being passed to reporter, which may be nil.
func (s *DemoService) Run(ctx context.Context, seed uint64, date time.Time, reporter demo.Reporter) (*demo.Result, error) {
	ctx, span := startSpan(ctx, "demo.run",
		attribute.Int64("demo.seed", int64(seed)),
	)

	start := time.Now()
	result, err := demo.Run(ctx, demo.Options{
		Seed: seed,
		Date: date,
		Now:  s.now,
		Reporter: demo.ReporterFunc(func(ctx context.Context, step demo.Step) {
			trace.SpanFromContext(ctx).AddEvent("demo.step", trace.WithAttributes(
				attribute.Int("step.number", step.Number),
				attribute.String("step.status", string(step.Status)),
			))
			infrastructure.RecordDemoStepMetrics(ctx, s.metrics, step.Name, string(step.Status))
			if reporter != nil {
				reporter.OnStep(ctx, step)
			}
		}),
	})
	duration := time.Since(start)

	if err != nil {
		infrastructure.RecordDemoRunMetrics(ctx, s.metrics, "", duration, err)
		s.logger.ErrorContext(ctx, "demo run failed",
			slog.Uint64("seed", seed),
			slog.String("error", err.Error()))
		endSpan(span, err)
		return nil, err
	}

	infrastructure.RecordDemoRunMetrics(ctx, s.metrics, string(result.RiskLevel), duration, nil)
	span.SetAttributes(
		attribute.String("demo.run_id", result.RunID),
		attribute.Float64("demo.risk_score", result.RiskScore),
		attribute.String("demo.risk_level", string(result.RiskLevel)),
	)
	s.logger.InfoContext(ctx, "demo run completed",
		slog.String("run_id", result.RunID),
		slog.Uint64("seed", seed),
		slog.String("risk_level", string(result.RiskLevel)),
		slog.Duration("duration", duration))

	endSpan(span, nil)
	return result, nil
}
