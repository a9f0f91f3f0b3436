package domain

import (
	"time"
)

// EvaluationSet carries the arrays metrics are computed from.
// Any part may be empty; only metrics with complete inputs are computed.
type EvaluationSet struct {
	YTrue          []int     `json:"y_true,omitempty" yaml:"y_true,omitempty" validate:"omitempty,dive,oneof=0 1"`
	YPred          []int     `json:"y_pred,omitempty" yaml:"y_pred,omitempty" validate:"omitempty,dive,oneof=0 1"`
	YScores        []float64 `json:"y_scores,omitempty" yaml:"y_scores,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	TrueEventDates []string  `json:"true_event_dates,omitempty" yaml:"true_event_dates,omitempty" validate:"omitempty,dive,iso8601"`
	DetectedDates  []string  `json:"detected_dates,omitempty" yaml:"detected_dates,omitempty" validate:"omitempty,dive,iso8601"`
}

// HasClassification reports whether binary predictions are present
func (s EvaluationSet) HasClassification() bool {
	return len(s.YTrue) > 0 && len(s.YPred) > 0
}

// HasScores reports whether probabilistic predictions are present
func (s EvaluationSet) HasScores() bool {
	return len(s.YTrue) > 0 && len(s.YScores) > 0
}

// HasEvents reports whether temporal detection data is present
func (s EvaluationSet) HasEvents() bool {
	return len(s.TrueEventDates) > 0 || len(s.DetectedDates) > 0
}

// ConfusionMatrix counts binary prediction outcomes
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// Total returns the number of classified samples
func (c ConfusionMatrix) Total() int {
	return c.TruePositives + c.FalsePositives + c.TrueNegatives + c.FalseNegatives
}

// ClassificationMetrics holds the threshold-based scores
type ClassificationMetrics struct {
	Confusion ConfusionMatrix `json:"confusion"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1Score   float64         `json:"f1_score"`
}

// DelayStats summarizes detection delay in whole days
type DelayStats struct {
	MeanDelayDays float64 `json:"mean_delay_days"`
	MaxDelayDays  int     `json:"max_delay_days"`
	MinDelayDays  int     `json:"min_delay_days"`
	DetectionRate float64 `json:"detection_rate"`
	Events        int     `json:"events"`
	Detections    int     `json:"detections"`
}

// EvaluationReport is the result of evaluating an EvaluationSet
type EvaluationReport struct {
	RunID          string                 `json:"run_id"`
	GeneratedAt    time.Time              `json:"generated_at"`
	Samples        int                    `json:"samples"`
	Classification *ClassificationMetrics `json:"classification,omitempty"`
	ROCAUC         *float64               `json:"roc_auc,omitempty"`
	Delay          *DelayStats            `json:"detection_delay,omitempty"`
}
