package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaViolation is matched by every sample or record violation
	ErrSchemaViolation = errors.New("schema violation")

	// ErrUnknownFeatureType marks a schema declaring a type the validator cannot check.
	// It is a configuration error, not a sample violation.
	ErrUnknownFeatureType = errors.New("unknown feature type")
)

// ValidationError describes a single field that failed validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Message
}

// Is reports ErrSchemaViolation as the error kind
func (ve *ValidationError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// MissingFieldsError lists required fields absent from a sample or record
type MissingFieldsError struct {
	// Kind is "features" for input samples and "fields" for output records
	Kind   string   `json:"kind"`
	Fields []string `json:"fields"`
}

// Error implements the error interface
func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("Missing required %s: [%s]", e.Kind, strings.Join(e.Fields, ", "))
}

// Is reports ErrSchemaViolation as the error kind
func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// Violations aggregates every field error found in one sample or record
type Violations []*ValidationError

// Error implements the error interface
func (v Violations) Error() string {
	switch len(v) {
	case 0:
		return "no violations"
	case 1:
		return v[0].Message
	}
	msgs := make([]string, len(v))
	for i, ve := range v {
		msgs[i] = ve.Message
	}
	return fmt.Sprintf("%d schema violations: %s", len(v), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual violations to errors.Is and errors.As
func (v Violations) Unwrap() []error {
	errs := make([]error, len(v))
	for i, ve := range v {
		errs[i] = ve
	}
	return errs
}

// Fields returns the names of the violating fields in report order
func (v Violations) Fields() []string {
	fields := make([]string, len(v))
	for i, ve := range v {
		fields[i] = ve.Field
	}
	return fields
}

// Details flattens any validation error into field-level entries.
// It returns nil for errors that are not schema violations.
func Details(err error) []*ValidationError {
	var missing *MissingFieldsError
	if errors.As(err, &missing) {
		out := make([]*ValidationError, len(missing.Fields))
		for i, f := range missing.Fields {
			out[i] = &ValidationError{Field: f, Message: "required " + strings.TrimSuffix(missing.Kind, "s") + " is missing"}
		}
		return out
	}
	var violations Violations
	if errors.As(err, &violations) {
		return violations
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []*ValidationError{ve}
	}
	return nil
}
