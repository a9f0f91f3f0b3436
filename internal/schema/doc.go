// Package schema validates AIMM input samples and output records.
//
// Validation is structural only: it checks that required fields are present,
// that each value has the declared type and that output fields respect their
// bounds. It never inspects the meaning of a value.
//
// # Input samples
//
// An InputSchema declares the required features and their types. The default
// schema covers 17 features across the social, market, microstructure, news
// and temporal groups. Custom schemas can be loaded from YAML:
//
//	s, err := schema.LoadInputSchema("features.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := s.Validate(sample); err != nil {
//	    var missing *schema.MissingFieldsError
//	    if errors.As(err, &missing) { ... }
//	}
//
// # Output records
//
// OutputValidator types a raw record into a domain.RiskAssessment and runs the
// bound, enum and date checks through go-playground/validator tags.
//
// All validation failures satisfy errors.Is(err, ErrSchemaViolation).
package schema
