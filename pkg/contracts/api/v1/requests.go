// Package api contains the HTTP contract of the AIMM toolkit server.
// Version v1 represents the current stable API version.
package api

import (
	"aimmkit/pkg/contracts/domain"
)

// Validation API Requests
//
// POST /api/v1/validate/inputs and /api/v1/validate/outputs take either a
// single JSON object or an array of objects as the body. Options travel in
// the query string.

// ValidationQuery holds the query parameters of the validation endpoints
type ValidationQuery struct {
	// Strict rejects undeclared features; inputs only
	Strict bool `json:"strict" query:"strict"`
}

// Evaluation API Requests

// EvaluateRequest is the body of POST /api/v1/metrics/evaluate
type EvaluateRequest struct {
	domain.EvaluationSet
}

// HasInputs reports whether any metric can be computed from the request
func (r EvaluateRequest) HasInputs() bool {
	return r.HasClassification() || r.HasScores() || r.HasEvents()
}

// Demo API Requests

// DemoRunRequest holds the query parameters of POST /api/v1/demo/run and
// GET /ws/demo
type DemoRunRequest struct {
	Seed *uint64 `json:"seed,omitempty" query:"seed"`
	Date string  `json:"date,omitempty" query:"date" validate:"omitempty,datetime=2006-01-02"`
}
