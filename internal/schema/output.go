package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"aimmkit/pkg/contracts/domain"
)

// OutputSchemaName names the risk assessment record schema
const OutputSchemaName = "aimm-risk-assessment"

// Output record field names
const (
	FieldRiskScore      = "risk_score"
	FieldRiskLevel      = "risk_level"
	FieldEvaluationDate = "evaluation_date"
	FieldSignalTypes    = "contributing_signal_types"
)

// FieldRule describes one output field for schema listings
type FieldRule struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Rule string `json:"rule"`
}

// OutputFields lists the output record fields in validation order
var OutputFields = []FieldRule{
	{Name: FieldRiskScore, Type: "float", Rule: "numeric, not bool, 0 <= x <= 1"},
	{Name: FieldRiskLevel, Type: "string", Rule: "one of low, medium, high (case-insensitive)"},
	{Name: FieldEvaluationDate, Type: "string", Rule: "ISO 8601 date or date-time"},
	{Name: FieldSignalTypes, Type: "list[string]", Rule: "at least one element, each a non-empty string"},
}

var outputFieldOrder = map[string]int{
	FieldRiskScore:      0,
	FieldRiskLevel:      1,
	FieldEvaluationDate: 2,
	FieldSignalTypes:    3,
}

// OutputValidator checks risk assessment records
type OutputValidator struct {
	validate *validator.Validate
}

// NewOutputValidator creates a validator with the risklevel and iso8601 tags registered
func NewOutputValidator() *OutputValidator {
	v := validator.New()
	RegisterValidations(v)
	return &OutputValidator{validate: v}
}

// RegisterValidations installs the custom tags used by the domain contracts
// and reports fields by their json name.
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("risklevel", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseRiskLevel(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		return domain.IsISO8601(fl.Field().String())
	})
}

// Validate types a raw record and checks it.
// Structural checks run on the raw values; range, enum, date and emptiness
// checks run on the typed assessment. Every violation is collected.
func (v *OutputValidator) Validate(record domain.Record) (*domain.RiskAssessment, error) {
	var missing []string
	for _, f := range OutputFields {
		if _, ok := record[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingFieldsError{Kind: "fields", Fields: missing}
	}

	var a domain.RiskAssessment
	violations := make(map[string]*ValidationError)

	raw := record[FieldRiskScore]
	if kind := kindOf(raw); isNumericKind(kind) {
		a.RiskScore, _ = toFloat(raw)
	} else {
		violations[FieldRiskScore] = &ValidationError{
			Field:   FieldRiskScore,
			Message: fmt.Sprintf("Field 'risk_score' must be numeric, got %s", kind),
			Value:   raw,
		}
	}

	for _, name := range []string{FieldRiskLevel, FieldEvaluationDate} {
		s, ok := record[name].(string)
		if !ok {
			violations[name] = &ValidationError{
				Field:   name,
				Message: fmt.Sprintf("Field '%s' must be a string, got %s", name, kindOf(record[name])),
				Value:   record[name],
			}
			continue
		}
		if name == FieldRiskLevel {
			a.RiskLevel = s
		} else {
			a.EvaluationDate = s
		}
	}

	signals, ve := signalTypes(record[FieldSignalTypes])
	if ve != nil {
		violations[FieldSignalTypes] = ve
	} else {
		a.ContributingSignalTypes = signals
	}

	if err := v.validate.Struct(a); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate assessment: %w", err)
		}
		for _, fe := range fieldErrs {
			field := baseField(fe.Field())
			if _, seen := violations[field]; seen {
				continue
			}
			violations[field] = describeFieldError(fe, a)
		}
	}

	if len(violations) > 0 {
		return nil, orderedViolations(violations)
	}
	return &a, nil
}

// ValidateAssessment checks an already typed assessment
func (v *OutputValidator) ValidateAssessment(a domain.RiskAssessment) error {
	err := v.validate.Struct(a)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate assessment: %w", err)
	}
	violations := make(map[string]*ValidationError)
	for _, fe := range fieldErrs {
		field := baseField(fe.Field())
		if _, seen := violations[field]; !seen {
			violations[field] = describeFieldError(fe, a)
		}
	}
	return orderedViolations(violations)
}

func signalTypes(raw any) ([]string, *ValidationError) {
	var items []any
	switch x := raw.(type) {
	case []any:
		items = x
	case []string:
		return x, nil
	default:
		return nil, &ValidationError{
			Field:   FieldSignalTypes,
			Message: fmt.Sprintf("Field 'contributing_signal_types' must be a list, got %s", kindOf(raw)),
			Value:   raw,
		}
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ValidationError{
				Field:   FieldSignalTypes,
				Message: fmt.Sprintf("Each signal type must be a string, got %s", kindOf(item)),
				Value:   item,
			}
		}
		out[i] = s
	}
	return out, nil
}

func describeFieldError(fe validator.FieldError, a domain.RiskAssessment) *ValidationError {
	field := baseField(fe.Field())
	ve := &ValidationError{Field: field, Value: fe.Value()}
	switch field {
	case FieldRiskScore:
		ve.Message = fmt.Sprintf("Field 'risk_score' must be in [0, 1], got %s", formatValue(a.RiskScore))
	case FieldRiskLevel:
		levels := make([]string, len(domain.RiskLevels))
		for i, l := range domain.RiskLevels {
			levels[i] = string(l)
		}
		ve.Message = fmt.Sprintf("Field 'risk_level' must be one of [%s], got '%s'", strings.Join(levels, " "), a.RiskLevel)
	case FieldEvaluationDate:
		ve.Message = fmt.Sprintf("Field 'evaluation_date' must be valid ISO 8601 format (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS), got '%s'", a.EvaluationDate)
	case FieldSignalTypes:
		if fe.Field() != field {
			ve.Message = "Signal types must be non-empty strings"
		} else {
			ve.Message = "Field 'contributing_signal_types' must contain at least one signal type"
		}
	default:
		ve.Message = fmt.Sprintf("Field '%s' failed '%s' validation", fe.Field(), fe.Tag())
	}
	return ve
}

// baseField strips a dive index such as [2] from a field name
func baseField(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func orderedViolations(m map[string]*ValidationError) Violations {
	out := make(Violations, 0, len(m))
	for _, ve := range m {
		out = append(out, ve)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := outputFieldOrder[out[i].Field]
		oj, jok := outputFieldOrder[out[j].Field]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return out[i].Field < out[j].Field
	})
	return out
}

var defaultOutputValidator = NewOutputValidator()

// ValidateOutput checks a raw record with the shared output validator
func ValidateOutput(record domain.Record) (*domain.RiskAssessment, error) {
	return defaultOutputValidator.Validate(record)
}

// ValidateAssessment checks a typed assessment with the shared output validator
func ValidateAssessment(a domain.RiskAssessment) error {
	return defaultOutputValidator.ValidateAssessment(a)
}
