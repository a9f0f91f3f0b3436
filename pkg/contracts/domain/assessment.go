package domain

import (
	"strings"
)

// RiskLevel is the categorical risk bucket of an output record
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskLevels lists the valid risk levels in ascending order
var RiskLevels = []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh}

// ParseRiskLevel matches s case-insensitively against the valid levels
func ParseRiskLevel(s string) (RiskLevel, bool) {
	lvl := RiskLevel(strings.ToLower(s))
	for _, valid := range RiskLevels {
		if lvl == valid {
			return lvl, true
		}
	}
	return "", false
}

// Signal types commonly reported as contributing to an assessment.
// The list is descriptive; validators accept any non-empty string.
const (
	SignalSocialSentiment  = "social_sentiment"
	SignalMarketVolatility = "market_volatility"
	SignalTradingVolume    = "trading_volume"
	SignalMicrostructure   = "microstructure"
	SignalNewsSentiment    = "news_sentiment"
	SignalTemporalPattern  = "temporal_pattern"
)

// CommonSignalTypes lists the descriptive signal types
var CommonSignalTypes = []string{
	SignalSocialSentiment,
	SignalMarketVolatility,
	SignalTradingVolume,
	SignalMicrostructure,
	SignalNewsSentiment,
	SignalTemporalPattern,
}

// Record is one raw output record keyed by field name, before typing
type Record map[string]any

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RiskAssessment is the typed form of an output record
type RiskAssessment struct {
	RiskScore               float64  `json:"risk_score" yaml:"risk_score" validate:"gte=0,lte=1"`
	RiskLevel               string   `json:"risk_level" yaml:"risk_level" validate:"risklevel"`
	EvaluationDate          string   `json:"evaluation_date" yaml:"evaluation_date" validate:"iso8601"`
	ContributingSignalTypes []string `json:"contributing_signal_types" yaml:"contributing_signal_types" validate:"required,min=1,dive,required"`
}

// Record converts the assessment back to its raw form
func (a RiskAssessment) Record() Record {
	signals := make([]any, len(a.ContributingSignalTypes))
	for i, s := range a.ContributingSignalTypes {
		signals[i] = s
	}
	return Record{
		"risk_score":                a.RiskScore,
		"risk_level":                a.RiskLevel,
		"evaluation_date":           a.EvaluationDate,
		"contributing_signal_types": signals,
	}
}
