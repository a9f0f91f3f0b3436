package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"aimmkit/pkg/contracts/domain"
)

// MinimalSample returns a synthetic sample that passes the default input schema
func MinimalSample() domain.Sample {
	return domain.Sample{
		"reddit_sentiment_score":     0.45,
		"twitter_sentiment_score":    0.52,
		"stocktwits_sentiment_score": 0.38,
		"social_volume_normalized":   0.75,
		"open_price":                 145.30,
		"high_price":                 147.50,
		"low_price":                  144.80,
		"close_price":                146.25,
		"volume":                     2500000,
		"price_range":                2.70,
		"bid_ask_spread":             0.05,
		"trades_count":               12500,
		"large_trade_indicator":      false,
		"news_sentiment_score":       0.55,
		"news_volume":                23,
		"day_of_week":                2,
		"is_trading_day":             true,
	}
}

// ValidRecords returns the low, medium and high synthetic output records
func ValidRecords() []domain.Record {
	return []domain.Record{
		{
			"risk_score":                0.72,
			"risk_level":                "medium",
			"evaluation_date":           "2025-12-28",
			"contributing_signal_types": []any{"social_sentiment", "market_volatility"},
		},
		{
			"risk_score":                0.18,
			"risk_level":                "low",
			"evaluation_date":           "2025-12-27T14:30:00",
			"contributing_signal_types": []any{"market_volatility"},
		},
		{
			"risk_score":      0.91,
			"risk_level":      "high",
			"evaluation_date": "2025-12-26",
			"contributing_signal_types": []any{
				"social_sentiment", "trading_volume", "news_sentiment", "microstructure",
			},
		},
	}
}

// DemoEvaluationSet returns the synthetic evaluation set of the metrics demonstration
func DemoEvaluationSet() domain.EvaluationSet {
	return domain.EvaluationSet{
		YTrue:          []int{0, 0, 1, 1, 1, 0, 1, 0, 1, 0},
		YPred:          []int{0, 1, 1, 0, 1, 0, 1, 1, 1, 0},
		YScores:        []float64{0.1, 0.3, 0.9, 0.2, 0.8, 0.15, 0.85, 0.4, 0.95, 0.05},
		TrueEventDates: []string{"2025-12-20", "2025-12-22", "2025-12-25", "2025-12-28"},
		DetectedDates:  []string{"2025-12-21", "2025-12-23", "2025-12-26", "2025-12-29"},
	}
}

// WriteJSON marshals v into dir/name and returns the path
func WriteJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	return WriteFile(t, dir, name, string(data))
}

// WriteFile writes content into dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
