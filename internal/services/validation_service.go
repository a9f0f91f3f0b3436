package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"aimmkit/internal/dataprocessing"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/infrastructure"
	"aimmkit/internal/schema"
	"aimmkit/pkg/contracts/domain"
)

// Kind selects which schema a batch is checked against
type Kind string

const (
	KindInputs  Kind = "inputs"
	KindOutputs Kind = "outputs"
)

// metricKind is the validation.kind metric attribute
func (k Kind) metricKind() string {
	if k == KindOutputs {
		return "output"
	}
	return "input"
}

// ItemResult is the outcome for one sample or record
type ItemResult struct {
	Index      int                       `json:"index"`
	Valid      bool                      `json:"valid"`
	Message    string                    `json:"message"`
	Violations []*schema.ValidationError `json:"violations,omitempty"`
	Assessment *domain.RiskAssessment    `json:"assessment,omitempty"`
}

// Report is the outcome of validating the items of one source
type Report struct {
	Source  string       `json:"source,omitempty"`
	Kind    Kind         `json:"kind"`
	Schema  string       `json:"schema"`
	Total   int          `json:"total"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
	Results []ItemResult `json:"results"`
}

// OK reports whether every item passed
func (r *Report) OK() bool {
	return r.Invalid == 0
}

func (r *Report) add(item ItemResult) {
	r.Total++
	if item.Valid {
		r.Valid++
	} else {
		r.Invalid++
	}
	r.Results = append(r.Results, item)
}

// BatchReport aggregates the reports of several files, in the order given
type BatchReport struct {
	Kind    Kind      `json:"kind"`
	Files   []*Report `json:"files"`
	Total   int       `json:"total"`
	Valid   int       `json:"valid"`
	Invalid int       `json:"invalid"`
}

// OK reports whether every item of every file passed
func (b *BatchReport) OK() bool {
	return b.Invalid == 0
}

// ValidationService checks samples and records against the schemas
type ValidationService struct {
	inputs  *schema.InputSchema
	outputs *schema.OutputValidator
	workers int
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewValidationService creates a validation service. The input schema is
// checked once here so that unknown feature types surface as a configuration
// error rather than as a failure of every sample.
func NewValidationService(inputs *schema.InputSchema, workers int, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*ValidationService, error) {
	if inputs == nil {
		inputs = schema.DefaultInputSchema()
	}
	if err := inputs.Check(); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ValidationService{
		inputs:  inputs,
		outputs: schema.NewOutputValidator(),
		workers: workers,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "validation_service"),
	}, nil
}

// InputSchema returns the schema samples are checked against
func (s *ValidationService) InputSchema() *schema.InputSchema {
	return s.inputs
}

// WithStrict returns a service sharing this one's settings with strict mode set
func (s *ValidationService) WithStrict(strict bool) *ValidationService {
	if s.inputs.Strict == strict {
		return s
	}
	out := *s
	out.inputs = s.inputs.WithStrict(strict)
	return &out
}

// ValidateSamples checks every sample and reports each outcome
func (s *ValidationService) ValidateSamples(ctx context.Context, samples []domain.Sample) *Report {
	ctx, span := startSpan(ctx, "validation.inputs",
		attribute.String("schema.name", s.inputs.Name),
		attribute.Bool("schema.strict", s.inputs.Strict),
		attribute.Int("validation.items", len(samples)),
	)
	start := time.Now()

	report := &Report{Kind: KindInputs, Schema: s.inputs.Name, Results: make([]ItemResult, 0, len(samples))}
	for i, sample := range samples {
		item := ItemResult{Index: i}
		if err := s.inputs.Validate(sample); err != nil {
			item.Message = err.Error()
			item.Violations = schema.Details(err)
		} else {
			item.Valid = true
			item.Message = schema.InputPassedMessage(sample)
		}
		report.add(item)
	}

	s.finish(ctx, report, time.Since(start))
	span.SetAttributes(attribute.Int("validation.invalid", report.Invalid))
	endSpan(span, nil)
	return report
}

// ValidateRecords checks every output record and reports each outcome.
// Valid records carry their typed assessment.
func (s *ValidationService) ValidateRecords(ctx context.Context, records []domain.Record) *Report {
	ctx, span := startSpan(ctx, "validation.outputs",
		attribute.Int("validation.items", len(records)),
	)
	start := time.Now()

	report := &Report{Kind: KindOutputs, Schema: schema.OutputSchemaName, Results: make([]ItemResult, 0, len(records))}
	for i, record := range records {
		item := ItemResult{Index: i}
		assessment, err := s.outputs.Validate(record)
		if err != nil {
			item.Message = err.Error()
			item.Violations = schema.Details(err)
		} else {
			item.Valid = true
			item.Message = schema.OutputPassedMessage(assessment)
			item.Assessment = assessment
		}
		report.add(item)
	}

	s.finish(ctx, report, time.Since(start))
	span.SetAttributes(attribute.Int("validation.invalid", report.Invalid))
	endSpan(span, nil)
	return report
}

func (s *ValidationService) finish(ctx context.Context, report *Report, duration time.Duration) {
	infrastructure.RecordValidationMetrics(ctx, s.metrics, report.Kind.metricKind(), report.Schema, report.Total, report.Invalid, duration)

	level := slog.LevelDebug
	if report.Invalid > 0 {
		level = slog.LevelInfo
	}
	s.logger.Log(ctx, level, "validation finished",
		slog.String("kind", string(report.Kind)),
		slog.String("source", report.Source),
		slog.Int("total", report.Total),
		slog.Int("invalid", report.Invalid),
		slog.Duration("duration", duration),
	)
}

// ValidateFile loads one file and validates its contents
func (s *ValidationService) ValidateFile(ctx context.Context, kind Kind, path string) (*Report, error) {
	var report *Report
	switch kind {
	case KindInputs:
		samples, err := dataprocessing.LoadSamples(path)
		if err != nil {
			return nil, apierrors.ParseError("load samples", path, err)
		}
		report = s.ValidateSamples(ctx, samples)
	case KindOutputs:
		records, err := dataprocessing.LoadRecords(path)
		if err != nil {
			return nil, apierrors.ParseError("load records", path, err)
		}
		report = s.ValidateRecords(ctx, records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	report.Source = path
	return report, nil
}

// ValidateFiles validates several files concurrently with at most the
// configured number of workers. The first load failure cancels the
// remaining files and is returned.
func (s *ValidationService) ValidateFiles(ctx context.Context, kind Kind, paths []string) (*BatchReport, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if kind != KindInputs && kind != KindOutputs {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	ctx, span := startSpan(ctx, "validation.batch",
		attribute.String("validation.kind", string(kind)),
		attribute.Int("validation.files", len(paths)),
		attribute.Int("validation.workers", s.workers),
	)

	reports := make([]*Report, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.ValidateFile(gctx, kind, path)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.ErrorContext(ctx, "batch validation failed",
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()))
		}
		endSpan(span, err)
		return nil, err
	}

	batch := &BatchReport{Kind: kind, Files: reports}
	for _, r := range reports {
		batch.Total += r.Total
		batch.Valid += r.Valid
		batch.Invalid += r.Invalid
	}

	s.logger.InfoContext(ctx, "batch validation completed",
		slog.String("kind", string(kind)),
		slog.Int("files", len(paths)),
		slog.Int("total", batch.Total),
		slog.Int("invalid", batch.Invalid))
	span.SetAttributes(
		attribute.Int("validation.items", batch.Total),
		attribute.Int("validation.invalid", batch.Invalid),
	)
	endSpan(span, nil)
	return batch, nil
}
