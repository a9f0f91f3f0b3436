package evaluation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimmkit/pkg/contracts/domain"
)

// Synthetic dataset used by the compute-metrics demonstration
var (
	demoTrue   = []int{0, 0, 1, 1, 1, 0, 1, 0, 1, 0}
	demoPred   = []int{0, 1, 1, 0, 1, 0, 1, 1, 1, 0}
	demoScores = []float64{0.1, 0.3, 0.9, 0.2, 0.8, 0.15, 0.85, 0.4, 0.95, 0.05}
)

func TestClassificationMetrics(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     []int
		yPred     []int
		precision float64
		recall    float64
		f1        float64
	}{
		{
			name:      "docstring example",
			yTrue:     []int{0, 1, 1, 0, 1},
			yPred:     []int{0, 1, 0, 0, 1},
			precision: 1.0,
			recall:    2.0 / 3.0,
			f1:        0.8,
		},
		{
			name:      "synthetic demo set",
			yTrue:     demoTrue,
			yPred:     demoPred,
			precision: 4.0 / 6.0,
			recall:    0.8,
			f1:        8.0 / 11.0,
		},
		{
			name:      "perfect predictions",
			yTrue:     []int{0, 1, 1, 0},
			yPred:     []int{0, 1, 1, 0},
			precision: 1,
			recall:    1,
			f1:        1,
		},
		{
			name:  "no positive predictions",
			yTrue: []int{1, 1, 0},
			yPred: []int{0, 0, 0},
		},
		{
			name:  "no actual positives",
			yTrue: []int{0, 0, 0},
			yPred: []int{1, 0, 1},
		},
		{
			name:  "empty input",
			yTrue: []int{},
			yPred: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Precision(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.precision, p, 1e-9)

			r, err := Recall(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.recall, r, 1e-9)

			f, err := F1Score(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.f1, f, 1e-9)
		})
	}
}

func TestConfusion(t *testing.T) {
	cm, err := Confusion(demoTrue, demoPred)
	require.NoError(t, err)
	assert.Equal(t, domain.ConfusionMatrix{
		TruePositives:  4,
		FalsePositives: 2,
		TrueNegatives:  3,
		FalseNegatives: 1,
	}, cm)
	assert.Equal(t, len(demoTrue), cm.Total())
}

func TestClassificationErrors(t *testing.T) {
	_, err := Precision([]int{0, 1}, []int{0})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Recall([]int{0, 2}, []int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidLabel)
	assert.ErrorContains(t, err, "y_true[1] = 2")

	_, err = F1Score([]int{0, 1}, []int{-1, 1})
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name   string
		yTrue  []int
		scores []float64
		want   float64
	}{
		{
			name:   "docstring example",
			yTrue:  []int{0, 0, 1, 1},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.75,
		},
		{
			name:   "synthetic demo set",
			yTrue:  demoTrue,
			scores: demoScores,
			want:   0.92,
		},
		{
			name:   "perfect separation",
			yTrue:  []int{0, 0, 1, 1},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   1,
		},
		{
			name:   "inverted",
			yTrue:  []int{1, 1, 0, 0},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   0,
		},
		{
			name:   "all tied counts half",
			yTrue:  []int{0, 1, 0, 1},
			scores: []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			name:   "partial tie",
			yTrue:  []int{0, 1, 0},
			scores: []float64{0.3, 0.3, 0.1},
			want:   0.75,
		},
		{
			name:   "single class",
			yTrue:  []int{1, 1, 1},
			scores: []float64{0.2, 0.5, 0.9},
			want:   0.5,
		},
		{
			name:   "empty",
			yTrue:  nil,
			scores: nil,
			want:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ROCAUC(tt.yTrue, tt.scores)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestROCAUCErrors(t *testing.T) {
	_, err := ROCAUC([]int{0, 1}, []float64{0.5})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = ROCAUC([]int{0, 1}, []float64{0.5, 1.2})
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = ROCAUC([]int{0, 1}, []float64{math.NaN(), 0.2})
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = ROCAUC([]int{0, 3}, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestDetectionDelay(t *testing.T) {
	tests := []struct {
		name     string
		events   []string
		detected []string
		want     domain.DelayStats
	}{
		{
			name:     "docstring example",
			events:   []string{"2025-12-24", "2025-12-25"},
			detected: []string{"2025-12-25", "2025-12-27"},
			// nearest detection for both events is 2025-12-25
			want: domain.DelayStats{MeanDelayDays: 0.5, MaxDelayDays: 1, MinDelayDays: 0, DetectionRate: 1, Events: 2, Detections: 2},
		},
		{
			name:     "synthetic demo set",
			events:   []string{"2025-12-20", "2025-12-22", "2025-12-25", "2025-12-28"},
			detected: []string{"2025-12-21", "2025-12-23", "2025-12-26", "2025-12-29"},
			want:     domain.DelayStats{MeanDelayDays: 1, MaxDelayDays: 1, MinDelayDays: 1, DetectionRate: 1, Events: 4, Detections: 4},
		},
		{
			name:     "early detection is negative",
			events:   []string{"2025-12-25T12:00:00"},
			detected: []string{"2025-12-25T06:00:00"},
			want:     domain.DelayStats{MeanDelayDays: -1, MaxDelayDays: -1, MinDelayDays: -1, DetectionRate: 1, Events: 1, Detections: 1},
		},
		{
			name:     "partial day floors to zero",
			events:   []string{"2025-12-25T00:00:00"},
			detected: []string{"2025-12-25T23:59:59"},
			want:     domain.DelayStats{DetectionRate: 1, Events: 1, Detections: 1},
		},
		{
			name:     "tie picks earliest listed detection",
			events:   []string{"2025-12-25"},
			detected: []string{"2025-12-27", "2025-12-23"},
			want:     domain.DelayStats{MeanDelayDays: 2, MaxDelayDays: 2, MinDelayDays: 2, DetectionRate: 1, Events: 1, Detections: 2},
		},
		{
			name:     "no events",
			detected: []string{"2025-12-25"},
			want:     domain.DelayStats{Detections: 1},
		},
		{
			name:   "no detections",
			events: []string{"2025-12-25"},
			want:   domain.DelayStats{Events: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectionDelayStrings(tt.events, tt.detected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectionDelayTimezones(t *testing.T) {
	event := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	detected := time.Date(2025, 12, 26, 3, 0, 0, 0, time.FixedZone("AST", 3*3600))

	stats := DetectionDelay([]time.Time{event}, []time.Time{detected})
	assert.Equal(t, 1, stats.MaxDelayDays)
}

func TestDetectionDelayInvalidDate(t *testing.T) {
	_, err := DetectionDelayStrings([]string{"2025-12-25"}, []string{"12/26/2025"})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorContains(t, err, "detected_dates[0]")
}

func TestEvaluate(t *testing.T) {
	t.Run("full set", func(t *testing.T) {
		report, err := Evaluate(domain.EvaluationSet{
			YTrue:          demoTrue,
			YPred:          demoPred,
			YScores:        demoScores,
			TrueEventDates: []string{"2025-12-20", "2025-12-22"},
			DetectedDates:  []string{"2025-12-21", "2025-12-23"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, report.RunID)
		assert.False(t, report.GeneratedAt.IsZero())
		assert.Equal(t, 10, report.Samples)

		require.NotNil(t, report.Classification)
		assert.InDelta(t, 0.8, report.Classification.Recall, 1e-9)
		require.NotNil(t, report.ROCAUC)
		assert.InDelta(t, 0.92, *report.ROCAUC, 1e-9)
		require.NotNil(t, report.Delay)
		assert.Equal(t, 1.0, report.Delay.MeanDelayDays)
	})

	t.Run("only scores", func(t *testing.T) {
		report, err := Evaluate(domain.EvaluationSet{YTrue: []int{0, 1}, YScores: []float64{0.2, 0.7}})
		require.NoError(t, err)
		assert.Nil(t, report.Classification)
		assert.Nil(t, report.Delay)
		require.NotNil(t, report.ROCAUC)
		assert.Equal(t, 1.0, *report.ROCAUC)
	})

	t.Run("empty set", func(t *testing.T) {
		_, err := Evaluate(domain.EvaluationSet{})
		assert.ErrorIs(t, err, ErrNoMetrics)
	})

	t.Run("scores without labels", func(t *testing.T) {
		_, err := Evaluate(domain.EvaluationSet{YScores: []float64{0.2, 0.7}})
		assert.ErrorIs(t, err, ErrLengthMismatch)
		assert.ErrorContains(t, err, "roc auc")
	})

	t.Run("predictions without labels", func(t *testing.T) {
		_, err := Evaluate(domain.EvaluationSet{
			YPred:          []int{1, 0},
			TrueEventDates: []string{"2025-12-20"},
			DetectedDates:  []string{"2025-12-21"},
		})
		assert.ErrorIs(t, err, ErrLengthMismatch)
		assert.ErrorContains(t, err, "classification metrics")
	})

	t.Run("bad part fails the report", func(t *testing.T) {
		_, err := Evaluate(domain.EvaluationSet{YTrue: []int{0, 1}, YPred: []int{1}})
		assert.ErrorIs(t, err, ErrLengthMismatch)
		assert.ErrorContains(t, err, "classification metrics")
	})
}
