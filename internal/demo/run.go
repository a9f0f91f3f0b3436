package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aimmkit/internal/schema"
	"aimmkit/pkg/contracts/domain"
)

// StepStatus is the outcome of one workflow step
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// Step names in workflow order
const (
	StepGenerate       = "Generate Random Synthetic Input Features"
	StepValidateInput  = "Validate Input Schema"
	StepScore          = "Compute Illustrative Risk Score (Trivial Operation)"
	StepLevel          = "Assign Illustrative Risk Level"
	StepValidateOutput = "Construct Output and Validate Schema"
	StepSummary        = "Summary of Output"
)

// StepCount is the number of steps a successful run reports
const StepCount = 6

// Step is one reported workflow step
type Step struct {
	Number  int            `json:"number"`
	Name    string         `json:"name"`
	Status  StepStatus     `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Reporter receives each step as it finishes
type Reporter interface {
	OnStep(ctx context.Context, step Step)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(ctx context.Context, step Step)

// OnStep calls f
func (f ReporterFunc) OnStep(ctx context.Context, step Step) { f(ctx, step) }

// Options configures a run
type Options struct {
	Seed uint64
	// Date pins the evaluation date; zero means today
	Date time.Time
	// Now defaults to time.Now
	Now      func() time.Time
	Schema   *schema.InputSchema
	Outputs  *schema.OutputValidator
	Reporter Reporter
}

// Result is the outcome of a completed run
type Result struct {
	RunID      string                `json:"run_id"`
	Seed       uint64                `json:"seed"`
	Inputs     domain.Sample         `json:"inputs"`
	RiskScore  float64               `json:"risk_score"`
	RiskLevel  domain.RiskLevel      `json:"risk_level"`
	Assessment domain.RiskAssessment `json:"assessment"`
	Steps      []Step                `json:"steps"`
}

// StepError reports the step a run stopped at
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step.Number, e.Step.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type runner struct {
	opts   Options
	result *Result
}

func (rn *runner) emit(ctx context.Context, step Step) {
	rn.result.Steps = append(rn.result.Steps, step)
	if rn.opts.Reporter != nil {
		rn.opts.Reporter.OnStep(ctx, step)
	}
}

func (rn *runner) fail(ctx context.Context, number int, name string, err error) error {
	step := Step{Number: number, Name: name, Status: StepFailed, Message: "ERROR: " + err.Error()}
	rn.emit(ctx, step)
	return &StepError{Step: step, Err: err}
}

// Run executes the six step toy workflow. The same seed always yields the
// same inputs, score and level.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Schema == nil {
		opts.Schema = schema.DefaultInputSchema()
	}
	if opts.Outputs == nil {
		opts.Outputs = schema.NewOutputValidator()
	}

	rn := &runner{opts: opts, result: &Result{RunID: uuid.NewString(), Seed: opts.Seed}}
	r := NewRand(opts.Seed)

	// Step 1
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inputs := GenerateSyntheticInputs(r)
	rn.result.Inputs = inputs
	rn.emit(ctx, Step{
		Number: 1,
		Name:   StepGenerate,
		Status: StepCompleted,
		Message: strings.Join([]string{
			fmt.Sprintf("Generated %d synthetic input features:", len(inputs)),
			"  - Social: reddit, twitter, stocktwits, social_volume",
			"  - Market: price levels (open/high/low/close), volume, spread",
			"  - Microstructure: bid_ask_spread, trades_count, large_trade_indicator",
			"  - News: sentiment, volume",
			"  - Temporal: day_of_week, is_trading_day",
		}, "\n"),
		Data: map[string]any{"features": len(inputs)},
	})

	// Step 2
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Schema.Validate(inputs); err != nil {
		return nil, rn.fail(ctx, 2, StepValidateInput, err)
	}
	rn.emit(ctx, Step{Number: 2, Name: StepValidateInput, Status: StepCompleted, Message: schema.InputPassedMessage(inputs)})

	// Step 3
	score := IllustrativeRiskScore(r, inputs)
	rn.result.RiskScore = score
	rn.emit(ctx, Step{
		Number:  3,
		Name:    StepScore,
		Status:  StepCompleted,
		Message: fmt.Sprintf("Risk Score (from averaging 4 random features + noise): %.4f", score),
		Data:    map[string]any{"risk_score": score},
	})

	// Step 4
	level := AssignRiskLevel(score)
	rn.result.RiskLevel = level
	rn.emit(ctx, Step{
		Number: 4,
		Name:   StepLevel,
		Status: StepCompleted,
		Message: fmt.Sprintf("Risk Level (from arbitrary bins): %s\n  (low < %.2f, medium < %.2f, high >= %.2f)",
			strings.ToUpper(string(level)), LowThreshold, MediumThreshold, MediumThreshold),
		Data: map[string]any{"risk_level": level},
	})

	// Step 5
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	date := opts.Date
	if date.IsZero() {
		date = opts.Now()
	}
	signals := make([]any, len(SignalTypes))
	for i, s := range SignalTypes {
		signals[i] = s
	}
	record := domain.Record{
		"risk_score":                score,
		"risk_level":                string(level),
		"evaluation_date":           date.Format(domain.DateLayout),
		"contributing_signal_types": signals,
	}
	assessment, err := opts.Outputs.Validate(record)
	if err != nil {
		return nil, rn.fail(ctx, 5, StepValidateOutput, err)
	}
	rn.result.Assessment = *assessment
	rn.emit(ctx, Step{Number: 5, Name: StepValidateOutput, Status: StepCompleted, Message: schema.OutputPassedMessage(assessment)})

	// Step 6
	rn.emit(ctx, Step{
		Number: 6,
		Name:   StepSummary,
		Status: StepCompleted,
		Message: strings.Join([]string{
			fmt.Sprintf("Risk Score:              %.4f", assessment.RiskScore),
			fmt.Sprintf("Risk Level:              %s", assessment.RiskLevel),
			fmt.Sprintf("Evaluation Date:         %s", assessment.EvaluationDate),
			fmt.Sprintf("Contributing Signals:    %s", strings.Join(assessment.ContributingSignalTypes, ", ")),
		}, "\n"),
		Data: map[string]any{"assessment": assessment},
	})

	return rn.result, nil
}
