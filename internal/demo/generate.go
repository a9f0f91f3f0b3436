// Package demo runs the toy synthetic-data workflow end to end.
//
// Everything here is illustrative. The generated inputs are random, the risk
// score is an average of four random features plus noise and the risk level
// comes from fixed bins. None of it reflects a real model.
package demo

import (
	"math/rand/v2"

	"aimmkit/pkg/contracts/domain"
)

// DefaultSeed reproduces the reference demonstration
const DefaultSeed uint64 = 42

// Risk level bins
const (
	LowThreshold    = 0.33
	MediumThreshold = 0.67
)

// ScoreFeatures are averaged into the illustrative risk score
var ScoreFeatures = []string{
	"reddit_sentiment_score",
	"twitter_sentiment_score",
	"social_volume_normalized",
	"news_sentiment_score",
}

// SignalTypes are reported as contributing to every demo assessment
var SignalTypes = []string{
	"reddit_sentiment",
	"twitter_sentiment",
	"social_volume",
	"news_sentiment",
}

// NewRand returns the deterministic generator used for a seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// randInt returns an int in [lo, hi]
func randInt(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// GenerateSyntheticInputs draws one random sample covering the default schema
func GenerateSyntheticInputs(r *rand.Rand) domain.Sample {
	s := make(domain.Sample, 17)

	s["reddit_sentiment_score"] = uniform(r, 0, 1)
	s["twitter_sentiment_score"] = uniform(r, 0, 1)
	s["stocktwits_sentiment_score"] = uniform(r, 0, 1)
	s["social_volume_normalized"] = uniform(r, 0, 1)

	base := uniform(r, 50, 200)
	high := base * uniform(r, 1.0, 1.05)
	low := base * uniform(r, 0.95, 1.0)
	s["open_price"] = base
	s["high_price"] = high
	s["low_price"] = low
	s["close_price"] = base * uniform(r, 0.98, 1.02)
	s["volume"] = randInt(r, 500_000, 5_000_000)
	s["price_range"] = high - low

	s["bid_ask_spread"] = uniform(r, 0.01, 0.5)
	s["trades_count"] = randInt(r, 5_000, 50_000)
	s["large_trade_indicator"] = r.IntN(2) == 1

	s["news_sentiment_score"] = uniform(r, 0, 1)
	s["news_volume"] = randInt(r, 5, 100)

	s["day_of_week"] = randInt(r, 0, 6)
	s["is_trading_day"] = r.IntN(2) == 1

	return s
}

// IllustrativeRiskScore averages ScoreFeatures, adds U[-0.1, 0.1] noise and
// clips to [0, 1]. Non-numeric features count as zero.
func IllustrativeRiskScore(r *rand.Rand, s domain.Sample) float64 {
	var sum float64
	for _, name := range ScoreFeatures {
		if v, ok := s[name].(float64); ok {
			sum += v
		}
	}
	score := sum/float64(len(ScoreFeatures)) + uniform(r, -0.1, 0.1)
	return max(0, min(1, score))
}

// AssignRiskLevel bins a score: below 0.33 low, below 0.67 medium, else high
func AssignRiskLevel(score float64) domain.RiskLevel {
	switch {
	case score < LowThreshold:
		return domain.RiskLevelLow
	case score < MediumThreshold:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelHigh
	}
}
