package api

import (
	"time"

	"aimmkit/pkg/contracts/domain"
)

// Schema API Responses

// InputSchemaResponse describes the feature schema samples are checked against
type InputSchemaResponse struct {
	Name     string                                       `json:"name"`
	Version  string                                       `json:"version"`
	Strict   bool                                         `json:"strict"`
	Features []domain.FeatureSpec                         `json:"features"`
	Groups   map[domain.FeatureGroup][]domain.FeatureSpec `json:"groups"`
}

// OutputField describes one output record field
type OutputField struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Rule string `json:"rule"`
}

// OutputSchemaResponse describes the risk assessment record schema
type OutputSchemaResponse struct {
	Name              string        `json:"name"`
	Version           string        `json:"version"`
	Fields            []OutputField `json:"fields"`
	RiskLevels        []string      `json:"risk_levels"`
	CommonSignalTypes []string      `json:"common_signal_types"`
}

// Validation API Responses

// Violation is one field-level schema violation
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationResult is the outcome for one sample or record
type ValidationResult struct {
	Index      int                    `json:"index"`
	Valid      bool                   `json:"valid"`
	Message    string                 `json:"message"`
	Violations []Violation            `json:"violations,omitempty"`
	Assessment *domain.RiskAssessment `json:"assessment,omitempty"`
}

// ValidationResponse is returned by both validation endpoints. The status
// is 200 when every item passed and 422 otherwise.
type ValidationResponse struct {
	Kind    string             `json:"kind"`
	Schema  string             `json:"schema"`
	Total   int                `json:"total"`
	Valid   int                `json:"valid"`
	Invalid int                `json:"invalid"`
	Results []ValidationResult `json:"results"`
}

// Evaluation API Responses

// EvaluateResponse wraps an evaluation report with its flattened metric values
type EvaluateResponse struct {
	Report  *domain.EvaluationReport `json:"report"`
	Metrics map[string]float64       `json:"metrics"`
}

// Demo API Responses

// DemoStep is one reported step of the toy demonstration
type DemoStep struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DemoRunResponse is the result of POST /api/v1/demo/run
type DemoRunResponse struct {
	RunID      string                `json:"run_id"`
	Seed       uint64                `json:"seed"`
	Inputs     domain.Sample         `json:"inputs"`
	RiskScore  float64               `json:"risk_score"`
	RiskLevel  string                `json:"risk_level"`
	Assessment domain.RiskAssessment `json:"assessment"`
	Steps      []DemoStep            `json:"steps"`
	DurationMS int64                 `json:"duration_ms"`
	FinishedAt time.Time             `json:"finished_at"`
}
