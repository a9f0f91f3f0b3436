package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimmkit/pkg/contracts/domain"
)

func minimalSample() domain.Sample {
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

func TestDefaultInputSchema(t *testing.T) {
	s := DefaultInputSchema()
	require.NoError(t, s.Check())
	assert.Len(t, s.Features, 17)
	assert.Equal(t, "reddit_sentiment_score", s.Required()[0])
	assert.Equal(t, "is_trading_day", s.Required()[16])

	groups := s.Groups()
	assert.Len(t, groups[domain.GroupSocial], 4)
	assert.Len(t, groups[domain.GroupMarket], 6)
	assert.Len(t, groups[domain.GroupMicrostructure], 3)
	assert.Len(t, groups[domain.GroupNews], 2)
	assert.Len(t, groups[domain.GroupTemporal], 2)

	// mutating the copy must not leak into the package default
	s.Features[0].Type = "decimal"
	assert.NoError(t, DefaultInputSchema().Check())
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(domain.Sample)
		wantErr   bool
		wantField string
		wantMsg   string
	}{
		{
			name:   "minimal synthetic sample passes",
			mutate: func(domain.Sample) {},
		},
		{
			name:   "int accepted for float feature",
			mutate: func(s domain.Sample) { s["open_price"] = 145 },
		},
		{
			name:   "extra features allowed",
			mutate: func(s domain.Sample) { s["ticker"] = "ACME" },
		},
		{
			name:      "float rejected for int feature",
			mutate:    func(s domain.Sample) { s["volume"] = 2500000.5 },
			wantErr:   true,
			wantField: "volume",
			wantMsg:   "Feature 'volume' expected type int, got float with value 2500000.5",
		},
		{
			name:      "bool rejected for float feature",
			mutate:    func(s domain.Sample) { s["open_price"] = true },
			wantErr:   true,
			wantField: "open_price",
			wantMsg:   "Feature 'open_price' expected type float, got bool with value true",
		},
		{
			name:      "bool rejected for int feature",
			mutate:    func(s domain.Sample) { s["trades_count"] = false },
			wantErr:   true,
			wantField: "trades_count",
		},
		{
			name:      "int rejected for bool feature",
			mutate:    func(s domain.Sample) { s["is_trading_day"] = 1 },
			wantErr:   true,
			wantField: "is_trading_day",
			wantMsg:   "Feature 'is_trading_day' expected type bool, got int with value 1",
		},
		{
			name:      "string rejected for float feature",
			mutate:    func(s domain.Sample) { s["close_price"] = "146.25" },
			wantErr:   true,
			wantField: "close_price",
		},
		{
			name:      "json literal 1.0 is a float",
			mutate:    func(s domain.Sample) { s["news_volume"] = json.Number("1.0") },
			wantErr:   true,
			wantField: "news_volume",
			wantMsg:   "Feature 'news_volume' expected type int, got float with value 1.0",
		},
		{
			name:   "json integer literal is an int",
			mutate: func(s domain.Sample) { s["news_volume"] = json.Number("23") },
		},
		{
			name:      "null rejected",
			mutate:    func(s domain.Sample) { s["day_of_week"] = nil },
			wantErr:   true,
			wantField: "day_of_week",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := minimalSample()
			tt.mutate(sample)

			err := ValidateInput(sample)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaViolation))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ve.Message)
			}
		})
	}
}

func TestValidateInputMissingFeatures(t *testing.T) {
	sample := minimalSample()
	delete(sample, "close_price")
	delete(sample, "bid_ask_spread")
	sample["volume"] = 2500000.5

	err := ValidateInput(sample)
	require.Error(t, err)

	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing), "missing features are reported before type errors")
	assert.Equal(t, []string{"bid_ask_spread", "close_price"}, missing.Fields)
	assert.Equal(t, "Missing required features: [bid_ask_spread, close_price]", err.Error())
	assert.True(t, errors.Is(err, ErrSchemaViolation))
}

func TestValidateInputCollectsAllViolations(t *testing.T) {
	sample := minimalSample()
	sample["volume"] = 1.5
	sample["reddit_sentiment_score"] = "high"
	sample["is_trading_day"] = "yes"

	err := ValidateInput(sample)
	require.Error(t, err)

	var violations Violations
	require.True(t, errors.As(err, &violations))
	assert.Equal(t, []string{"reddit_sentiment_score", "volume", "is_trading_day"}, violations.Fields())
	assert.Contains(t, err.Error(), "3 schema violations")
}

func TestValidateInputStrict(t *testing.T) {
	s := DefaultInputSchema().WithStrict(true)

	sample := minimalSample()
	require.NoError(t, s.Validate(sample))

	sample["zeta"] = 1
	sample["alpha"] = 2
	err := s.Validate(sample)
	require.Error(t, err)

	var violations Violations
	require.True(t, errors.As(err, &violations))
	assert.Equal(t, []string{"alpha", "zeta"}, violations.Fields())
	assert.Equal(t, "Feature 'alpha' is not declared in schema 'aimm-default'", violations[0].Message)

	assert.False(t, DefaultInputSchema().Strict)
}

func TestUnknownFeatureTypeIsConfigError(t *testing.T) {
	s := &InputSchema{
		Name:     "broken",
		Features: []domain.FeatureSpec{{Name: "x", Type: "decimal"}},
	}

	err := s.Validate(domain.Sample{"x": 1.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFeatureType))
	assert.False(t, errors.Is(err, ErrSchemaViolation))
	assert.Contains(t, err.Error(), "'decimal' for feature 'x'")
}

func TestLoadInputSchema(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "features.yaml")
		doc := `name: compact
strict: true
features:
  - {name: close_price, type: float, group: market}
  - {name: volume, type: int, group: market}
  - {name: is_trading_day, type: bool, group: temporal}
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		s, err := LoadInputSchema(path)
		require.NoError(t, err)
		assert.Equal(t, "compact", s.Name)
		assert.True(t, s.Strict)
		assert.Equal(t, []string{"close_price", "volume", "is_trading_day"}, s.Required())

		assert.NoError(t, s.Validate(domain.Sample{"close_price": 1, "volume": 2, "is_trading_day": true}))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ParseInputSchema([]byte("features:\n  - {name: x, type: complex}\n"))
		assert.ErrorIs(t, err, ErrUnknownFeatureType)
	})

	t.Run("duplicate feature", func(t *testing.T) {
		_, err := ParseInputSchema([]byte("features:\n  - {name: x, type: int}\n  - {name: x, type: float}\n"))
		assert.ErrorContains(t, err, "twice")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseInputSchema([]byte("feature:\n  - {name: x, type: int}\n"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadInputSchema(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
