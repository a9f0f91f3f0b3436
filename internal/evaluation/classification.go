// Package evaluation computes standard metrics for manipulation detection
// systems from plain label, score and date arrays.
package evaluation

import (
	"fmt"

	"aimmkit/pkg/contracts/domain"
)

func checkLabels(name string, labels []int) error {
	for i, l := range labels {
		if l != 0 && l != 1 {
			return fmt.Errorf("%w: %s[%d] = %d", ErrInvalidLabel, name, i, l)
		}
	}
	return nil
}

func checkPair(yTrue, yPred []int) error {
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("%w between y_true (%d) and y_pred (%d)", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if err := checkLabels("y_true", yTrue); err != nil {
		return err
	}
	return checkLabels("y_pred", yPred)
}

// Confusion counts prediction outcomes for binary labels
func Confusion(yTrue, yPred []int) (domain.ConfusionMatrix, error) {
	var cm domain.ConfusionMatrix
	if err := checkPair(yTrue, yPred); err != nil {
		return cm, err
	}
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			cm.TruePositives++
		case yTrue[i] == 0 && yPred[i] == 1:
			cm.FalsePositives++
		case yTrue[i] == 1 && yPred[i] == 0:
			cm.FalseNegatives++
		default:
			cm.TrueNegatives++
		}
	}
	return cm, nil
}

// Precision is TP / (TP + FP), or 0 when nothing was predicted positive
func Precision(yTrue, yPred []int) (float64, error) {
	cm, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return precisionOf(cm), nil
}

// Recall is TP / (TP + FN), or 0 when there are no actual positives
func Recall(yTrue, yPred []int) (float64, error) {
	cm, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return recallOf(cm), nil
}

// F1Score is the harmonic mean of precision and recall, or 0 when both are 0
func F1Score(yTrue, yPred []int) (float64, error) {
	cm, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return f1Of(cm), nil
}

// Classify computes the confusion matrix and the three threshold metrics
func Classify(yTrue, yPred []int) (*domain.ClassificationMetrics, error) {
	cm, err := Confusion(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	return &domain.ClassificationMetrics{
		Confusion: cm,
		Precision: precisionOf(cm),
		Recall:    recallOf(cm),
		F1Score:   f1Of(cm),
	}, nil
}

func precisionOf(cm domain.ConfusionMatrix) float64 {
	if cm.TruePositives+cm.FalsePositives == 0 {
		return 0
	}
	return float64(cm.TruePositives) / float64(cm.TruePositives+cm.FalsePositives)
}

func recallOf(cm domain.ConfusionMatrix) float64 {
	if cm.TruePositives+cm.FalseNegatives == 0 {
		return 0
	}
	return float64(cm.TruePositives) / float64(cm.TruePositives+cm.FalseNegatives)
}

func f1Of(cm domain.ConfusionMatrix) float64 {
	p, r := precisionOf(cm), recallOf(cm)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
