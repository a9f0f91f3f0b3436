package evaluation

import (
	"fmt"
	"math"
	"sort"
)

// ROCAUC computes the area under the ROC curve as the Mann-Whitney statistic:
// the fraction of (positive, negative) pairs the scores order correctly, with
// tied pairs counting one half. It returns 0.5 when only one class is present.
func ROCAUC(yTrue []int, yScores []float64) (float64, error) {
	if len(yTrue) != len(yScores) {
		return 0, fmt.Errorf("%w between y_true (%d) and y_scores (%d)", ErrLengthMismatch, len(yTrue), len(yScores))
	}
	if err := checkLabels("y_true", yTrue); err != nil {
		return 0, err
	}
	for i, s := range yScores {
		if math.IsNaN(s) || s < 0 || s > 1 {
			return 0, fmt.Errorf("%w: y_scores[%d] = %v", ErrScoreOutOfRange, i, s)
		}
	}

	idx := make([]int, len(yScores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return yScores[idx[a]] < yScores[idx[b]] })

	// Rank sum of positives with tied scores sharing their average rank
	var rankSum float64
	var positives int
	for start := 0; start < len(idx); {
		end := start
		for end+1 < len(idx) && yScores[idx[end+1]] == yScores[idx[start]] {
			end++
		}
		avgRank := float64(start+end)/2 + 1
		for k := start; k <= end; k++ {
			if yTrue[idx[k]] == 1 {
				rankSum += avgRank
				positives++
			}
		}
		start = end + 1
	}

	negatives := len(yTrue) - positives
	if positives == 0 || negatives == 0 {
		return 0.5, nil
	}
	u := rankSum - float64(positives)*float64(positives+1)/2
	return u / (float64(positives) * float64(negatives)), nil
}
