package schema

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"aimmkit/pkg/contracts/domain"
)

// DefaultSchemaName names the built-in input schema
const DefaultSchemaName = "aimm-default"

// InputSchema declares the required features of an input sample
type InputSchema struct {
	Name     string               `json:"name" yaml:"name"`
	Features []domain.FeatureSpec `json:"features" yaml:"features"`
	// Strict rejects features the schema does not declare
	Strict bool `json:"strict" yaml:"strict"`
}

var defaultFeatures = []domain.FeatureSpec{
	{Name: "reddit_sentiment_score", Type: domain.FeatureFloat, Group: domain.GroupSocial},
	{Name: "twitter_sentiment_score", Type: domain.FeatureFloat, Group: domain.GroupSocial},
	{Name: "stocktwits_sentiment_score", Type: domain.FeatureFloat, Group: domain.GroupSocial},
	{Name: "social_volume_normalized", Type: domain.FeatureFloat, Group: domain.GroupSocial},

	{Name: "open_price", Type: domain.FeatureFloat, Group: domain.GroupMarket},
	{Name: "high_price", Type: domain.FeatureFloat, Group: domain.GroupMarket},
	{Name: "low_price", Type: domain.FeatureFloat, Group: domain.GroupMarket},
	{Name: "close_price", Type: domain.FeatureFloat, Group: domain.GroupMarket},
	{Name: "volume", Type: domain.FeatureInt, Group: domain.GroupMarket},
	{Name: "price_range", Type: domain.FeatureFloat, Group: domain.GroupMarket},

	{Name: "bid_ask_spread", Type: domain.FeatureFloat, Group: domain.GroupMicrostructure},
	{Name: "trades_count", Type: domain.FeatureInt, Group: domain.GroupMicrostructure},
	{Name: "large_trade_indicator", Type: domain.FeatureBool, Group: domain.GroupMicrostructure},

	{Name: "news_sentiment_score", Type: domain.FeatureFloat, Group: domain.GroupNews},
	{Name: "news_volume", Type: domain.FeatureInt, Group: domain.GroupNews},

	{Name: "day_of_week", Type: domain.FeatureInt, Group: domain.GroupTemporal},
	{Name: "is_trading_day", Type: domain.FeatureBool, Group: domain.GroupTemporal},
}

// DefaultInputSchema returns the built-in 17 feature schema
func DefaultInputSchema() *InputSchema {
	features := make([]domain.FeatureSpec, len(defaultFeatures))
	copy(features, defaultFeatures)
	return &InputSchema{Name: DefaultSchemaName, Features: features}
}

// LoadInputSchema reads a schema from a YAML file of the form
//
//	name: custom
//	strict: false
//	features:
//	  - {name: volume, type: int, group: market}
func LoadInputSchema(path string) (*InputSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseInputSchema(data)
}

// ParseInputSchema decodes a YAML schema document and checks it
func ParseInputSchema(data []byte) (*InputSchema, error) {
	var s InputSchema
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if s.Name == "" {
		s.Name = "custom"
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Check verifies the schema itself: at least one feature, unique names and
// known types
func (s *InputSchema) Check() error {
	if len(s.Features) == 0 {
		return fmt.Errorf("schema %q declares no features", s.Name)
	}
	seen := make(map[string]bool, len(s.Features))
	for _, f := range s.Features {
		if f.Name == "" {
			return fmt.Errorf("schema %q has a feature without a name", s.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema %q declares feature %q twice", s.Name, f.Name)
		}
		seen[f.Name] = true
		if !f.Type.IsKnown() {
			return fmt.Errorf("%w '%s' for feature '%s'", ErrUnknownFeatureType, f.Type, f.Name)
		}
	}
	return nil
}

// Required returns the declared feature names in schema order
func (s *InputSchema) Required() []string {
	names := make([]string, len(s.Features))
	for i, f := range s.Features {
		names[i] = f.Name
	}
	return names
}

// Groups returns the declared features keyed by group
func (s *InputSchema) Groups() map[domain.FeatureGroup][]domain.FeatureSpec {
	groups := make(map[domain.FeatureGroup][]domain.FeatureSpec)
	for _, f := range s.Features {
		groups[f.Group] = append(groups[f.Group], f)
	}
	return groups
}

// WithStrict returns a copy of the schema with strict mode set
func (s *InputSchema) WithStrict(strict bool) *InputSchema {
	out := *s
	out.Features = append([]domain.FeatureSpec(nil), s.Features...)
	out.Strict = strict
	return &out
}

// Validate checks a sample against the schema.
// Missing features are reported before type violations, and every type
// violation is collected rather than stopping at the first.
func (s *InputSchema) Validate(sample domain.Sample) error {
	if err := s.Check(); err != nil {
		return err
	}

	var missing []string
	for _, f := range s.Features {
		if _, ok := sample[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingFieldsError{Kind: "features", Fields: missing}
	}

	var violations Violations
	for _, f := range s.Features {
		if ve := checkFeature(f, sample[f.Name]); ve != nil {
			violations = append(violations, ve)
		}
	}

	if s.Strict {
		declared := make(map[string]bool, len(s.Features))
		for _, f := range s.Features {
			declared[f.Name] = true
		}
		for _, name := range sample.Names() {
			if !declared[name] {
				violations = append(violations, &ValidationError{
					Field:   name,
					Message: fmt.Sprintf("Feature '%s' is not declared in schema '%s'", name, s.Name),
					Value:   sample[name],
				})
			}
		}
	}

	if len(violations) > 0 {
		return violations
	}
	return nil
}

func checkFeature(f domain.FeatureSpec, v any) *ValidationError {
	kind := kindOf(v)
	var ok bool
	switch f.Type {
	case domain.FeatureFloat:
		ok = isNumericKind(kind)
	case domain.FeatureInt:
		ok = kind == kindInt
	case domain.FeatureBool:
		ok = kind == kindBool
	}
	if ok {
		return nil
	}
	return &ValidationError{
		Field:   f.Name,
		Message: fmt.Sprintf("Feature '%s' expected type %s, got %s with value %s", f.Name, f.Type, kind, formatValue(v)),
		Value:   v,
	}
}

var defaultInputSchema = DefaultInputSchema()

// ValidateInput checks a sample against the default schema
func ValidateInput(sample domain.Sample) error {
	return defaultInputSchema.Validate(sample)
}
