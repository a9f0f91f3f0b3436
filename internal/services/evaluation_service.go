package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"aimmkit/internal/dataprocessing"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/evaluation"
	"aimmkit/internal/infrastructure"
	"aimmkit/pkg/contracts/domain"
)

// EvaluationService computes evaluation reports
type EvaluationService struct {
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewEvaluationService creates an evaluation service
func NewEvaluationService(metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *EvaluationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluationService{
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "evaluation_service"),
	}
}

// Evaluate computes every metric the set has inputs for
func (s *EvaluationService) Evaluate(ctx context.Context, set domain.EvaluationSet) (*domain.EvaluationReport, error) {
	ctx, span := startSpan(ctx, "evaluation.evaluate",
		attribute.Int("evaluation.samples", len(set.YTrue)),
		attribute.Int("evaluation.events", len(set.TrueEventDates)),
		attribute.Int("evaluation.detections", len(set.DetectedDates)),
	)

	if err := ctx.Err(); err != nil {
		endSpan(span, err)
		return nil, err
	}

	start := time.Now()
	report, err := evaluation.Evaluate(set)
	duration := time.Since(start)

	if err != nil {
		infrastructure.RecordEvaluationMetrics(ctx, s.metrics, nil, duration, err)
		s.logger.WarnContext(ctx, "evaluation rejected", slog.String("error", err.Error()))
		endSpan(span, err)
		return nil, err
	}

	values := ReportValues(report)
	infrastructure.RecordEvaluationMetrics(ctx, s.metrics, values, duration, nil)
	span.SetAttributes(attribute.String("evaluation.run_id", report.RunID))
	s.logger.InfoContext(ctx, "evaluation completed",
		slog.String("run_id", report.RunID),
		slog.Int("samples", report.Samples),
		slog.Int("metrics", len(values)),
		slog.Duration("duration", duration))

	endSpan(span, nil)
	return report, nil
}

// EvaluateFile loads an evaluation set from JSON, YAML or CSV and evaluates it
func (s *EvaluationService) EvaluateFile(ctx context.Context, path string) (*domain.EvaluationReport, error) {
	set, err := dataprocessing.LoadEvaluationSet(path)
	if err != nil {
		return nil, apierrors.ParseError("load evaluation set", path, err)
	}
	return s.Evaluate(ctx, set)
}

// ReportValues flattens the scalar metrics of a report by name
func ReportValues(report *domain.EvaluationReport) map[string]float64 {
	values := make(map[string]float64)
	if c := report.Classification; c != nil {
		values["precision"] = c.Precision
		values["recall"] = c.Recall
		values["f1_score"] = c.F1Score
	}
	if report.ROCAUC != nil {
		values["roc_auc"] = *report.ROCAUC
	}
	if d := report.Delay; d != nil {
		values["mean_delay_days"] = d.MeanDelayDays
		values["max_delay_days"] = float64(d.MaxDelayDays)
		values["min_delay_days"] = float64(d.MinDelayDays)
		values["detection_rate"] = d.DetectionRate
	}
	return values
}
