package schema

import (
	"fmt"
	"strconv"

	"aimmkit/pkg/contracts/domain"
)

// InputPassedMessage is the confirmation line for a valid sample
func InputPassedMessage(sample domain.Sample) string {
	return fmt.Sprintf("✓ Schema validation passed for sample with %d features", len(sample))
}

// OutputPassedMessage is the confirmation line for a valid assessment
func OutputPassedMessage(a *domain.RiskAssessment) string {
	return fmt.Sprintf("✓ Output schema validation passed for result with risk_score=%s and %d contributing signals",
		strconv.FormatFloat(a.RiskScore, 'f', -1, 64), len(a.ContributingSignalTypes))
}
