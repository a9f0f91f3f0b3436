package demo

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimmkit/internal/schema"
	"aimmkit/pkg/contracts/domain"
)

var pinned = time.Date(2025, 12, 28, 9, 30, 0, 0, time.UTC)

func TestGenerateSyntheticInputs(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		s := GenerateSyntheticInputs(NewRand(seed))

		require.NoError(t, schema.ValidateInput(s), "seed %d", seed)
		assert.Len(t, s, 17)

		for _, name := range []string{"reddit_sentiment_score", "twitter_sentiment_score",
			"stocktwits_sentiment_score", "social_volume_normalized", "news_sentiment_score"} {
			v := s[name].(float64)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}

		base := s["open_price"].(float64)
		assert.GreaterOrEqual(t, base, 50.0)
		assert.LessOrEqual(t, base, 200.0)
		assert.GreaterOrEqual(t, s["high_price"].(float64), base)
		assert.LessOrEqual(t, s["low_price"].(float64), base)
		assert.InDelta(t, s["high_price"].(float64)-s["low_price"].(float64), s["price_range"].(float64), 1e-9)

		assert.GreaterOrEqual(t, s["volume"].(int), 500_000)
		assert.LessOrEqual(t, s["volume"].(int), 5_000_000)
		assert.GreaterOrEqual(t, s["trades_count"].(int), 5_000)
		assert.LessOrEqual(t, s["trades_count"].(int), 50_000)
		assert.GreaterOrEqual(t, s["news_volume"].(int), 5)
		assert.LessOrEqual(t, s["news_volume"].(int), 100)
		assert.GreaterOrEqual(t, s["day_of_week"].(int), 0)
		assert.LessOrEqual(t, s["day_of_week"].(int), 6)

		spread := s["bid_ask_spread"].(float64)
		assert.GreaterOrEqual(t, spread, 0.01)
		assert.LessOrEqual(t, spread, 0.5)
	}
}

func TestIllustrativeRiskScore(t *testing.T) {
	high := domain.Sample{
		"reddit_sentiment_score":   1.0,
		"twitter_sentiment_score":  1.0,
		"social_volume_normalized": 1.0,
		"news_sentiment_score":     1.0,
	}
	low := domain.Sample{
		"reddit_sentiment_score":   0.0,
		"twitter_sentiment_score":  0.0,
		"social_volume_normalized": 0.0,
		"news_sentiment_score":     0.0,
	}
	mid := domain.Sample{
		"reddit_sentiment_score":   0.5,
		"twitter_sentiment_score":  0.5,
		"social_volume_normalized": 0.5,
		"news_sentiment_score":     0.5,
	}

	r := NewRand(7)
	for i := 0; i < 100; i++ {
		h := IllustrativeRiskScore(r, high)
		assert.GreaterOrEqual(t, h, 0.9)
		assert.LessOrEqual(t, h, 1.0)

		l := IllustrativeRiskScore(r, low)
		assert.GreaterOrEqual(t, l, 0.0)
		assert.LessOrEqual(t, l, 0.1)

		m := IllustrativeRiskScore(r, mid)
		assert.InDelta(t, 0.5, m, 0.1)
	}
}

func TestAssignRiskLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.RiskLevel
	}{
		{0, domain.RiskLevelLow},
		{0.3299, domain.RiskLevelLow},
		{0.33, domain.RiskLevelMedium},
		{0.5, domain.RiskLevelMedium},
		{0.6699, domain.RiskLevelMedium},
		{0.67, domain.RiskLevelHigh},
		{1, domain.RiskLevelHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AssignRiskLevel(tt.score), "score %v", tt.score)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(context.Background(), Options{Seed: DefaultSeed, Date: pinned})
	require.NoError(t, err)
	second, err := Run(context.Background(), Options{Seed: DefaultSeed, Date: pinned})
	require.NoError(t, err)

	assert.Equal(t, first.Inputs, second.Inputs)
	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.Equal(t, first.Assessment, second.Assessment)
	assert.NotEqual(t, first.RunID, second.RunID)

	other, err := Run(context.Background(), Options{Seed: DefaultSeed + 1, Date: pinned})
	require.NoError(t, err)
	assert.NotEqual(t, first.Inputs, other.Inputs)
}

func TestRunProducesValidAssessment(t *testing.T) {
	var steps []Step
	res, err := Run(context.Background(), Options{
		Seed: 3,
		Now:  func() time.Time { return pinned },
		Reporter: ReporterFunc(func(_ context.Context, s Step) {
			steps = append(steps, s)
		}),
	})
	require.NoError(t, err)

	require.Len(t, steps, 6)
	for i, s := range steps {
		assert.Equal(t, i+1, s.Number)
		assert.Equal(t, StepCompleted, s.Status)
	}
	assert.Equal(t, steps, res.Steps)
	assert.Equal(t, "✓ Schema validation passed for sample with 17 features", steps[1].Message)

	assert.Equal(t, "2025-12-28", res.Assessment.EvaluationDate)
	assert.Equal(t, SignalTypes, res.Assessment.ContributingSignalTypes)
	assert.Equal(t, string(res.RiskLevel), res.Assessment.RiskLevel)
	assert.Equal(t, AssignRiskLevel(res.RiskScore), res.RiskLevel)
	assert.NoError(t, schema.ValidateAssessment(res.Assessment))
}

func TestRunStopsOnInputViolation(t *testing.T) {
	strict := &schema.InputSchema{
		Name:     "needs-extra",
		Features: append(schema.DefaultInputSchema().Features, domain.FeatureSpec{Name: "insider_flag", Type: domain.FeatureBool}),
	}

	var steps []Step
	_, err := Run(context.Background(), Options{
		Seed:   DefaultSeed,
		Date:   pinned,
		Schema: strict,
		Reporter: ReporterFunc(func(_ context.Context, s Step) {
			steps = append(steps, s)
		}),
	})
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 2, stepErr.Step.Number)
	assert.True(t, errors.Is(err, schema.ErrSchemaViolation))

	require.Len(t, steps, 2)
	assert.Equal(t, StepFailed, steps[1].Status)
	assert.Contains(t, steps[1].Message, "insider_flag")
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Seed: DefaultSeed})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleReporter(&buf)

	c.Header()
	_, err := Run(context.Background(), Options{Seed: DefaultSeed, Date: pinned, Reporter: c})
	require.NoError(t, err)
	c.Footer()

	out := buf.String()
	assert.Contains(t, out, "AIMM Toy Demonstration - Synthetic Data Workflow")
	assert.Contains(t, out, "STEP 1: Generate Random Synthetic Input Features")
	assert.Contains(t, out, "STEP 6: Summary of Output")
	assert.Contains(t, out, "Evaluation Date:         2025-12-28")
	assert.Contains(t, out, "Demonstration Complete")
}

func TestWriteBannerWidth(t *testing.T) {
	var buf bytes.Buffer
	WriteBanner(&buf, "", "hello", "")

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.Equal(t, bannerWidth+2, len([]rune(string(line))))
	}
}
