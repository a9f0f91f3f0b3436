package domain

import (
	"sort"
)

// FeatureType is the declared value type of an input feature
type FeatureType string

const (
	FeatureFloat FeatureType = "float"
	FeatureInt   FeatureType = "int"
	FeatureBool  FeatureType = "bool"
)

// IsKnown reports whether the type is one the validators understand
func (t FeatureType) IsKnown() bool {
	switch t {
	case FeatureFloat, FeatureInt, FeatureBool:
		return true
	default:
		return false
	}
}

// FeatureGroup names the domain a feature belongs to
type FeatureGroup string

const (
	GroupSocial         FeatureGroup = "social"
	GroupMarket         FeatureGroup = "market"
	GroupMicrostructure FeatureGroup = "microstructure"
	GroupNews           FeatureGroup = "news"
	GroupTemporal       FeatureGroup = "temporal"
)

// FeatureSpec declares a single required input feature
type FeatureSpec struct {
	Name  string       `json:"name" yaml:"name"`
	Type  FeatureType  `json:"type" yaml:"type"`
	Group FeatureGroup `json:"group" yaml:"group"`
}

// Sample is one input sample keyed by feature name.
// Values keep the dynamic type they were decoded with.
type Sample map[string]any

// Names returns the feature names of the sample in sorted order
func (s Sample) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of the sample
func (s Sample) Clone() Sample {
	out := make(Sample, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
