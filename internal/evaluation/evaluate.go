package evaluation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"aimmkit/pkg/contracts/domain"
)

// Evaluate computes every metric whose inputs are present in the set.
// Classification needs y_true and y_pred, ROC AUC needs y_true and y_scores,
// detection delay needs event or detection dates. Predictions or scores
// without y_true are a length mismatch.
func Evaluate(set domain.EvaluationSet) (*domain.EvaluationReport, error) {
	if len(set.YTrue) == 0 {
		if len(set.YPred) > 0 {
			return nil, fmt.Errorf("classification metrics: %w between y_true (0) and y_pred (%d)", ErrLengthMismatch, len(set.YPred))
		}
		if len(set.YScores) > 0 {
			return nil, fmt.Errorf("roc auc: %w between y_true (0) and y_scores (%d)", ErrLengthMismatch, len(set.YScores))
		}
	}

	report := &domain.EvaluationReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Samples:     len(set.YTrue),
	}

	if set.HasClassification() {
		cls, err := Classify(set.YTrue, set.YPred)
		if err != nil {
			return nil, fmt.Errorf("classification metrics: %w", err)
		}
		report.Classification = cls
	}

	if set.HasScores() {
		auc, err := ROCAUC(set.YTrue, set.YScores)
		if err != nil {
			return nil, fmt.Errorf("roc auc: %w", err)
		}
		report.ROCAUC = &auc
	}

	if set.HasEvents() {
		stats, err := DetectionDelayStrings(set.TrueEventDates, set.DetectedDates)
		if err != nil {
			return nil, fmt.Errorf("detection delay: %w", err)
		}
		report.Delay = &stats
	}

	if report.Classification == nil && report.ROCAUC == nil && report.Delay == nil {
		return nil, ErrNoMetrics
	}
	return report, nil
}
