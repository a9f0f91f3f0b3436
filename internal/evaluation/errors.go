package evaluation

import "errors"

var (
	// ErrLengthMismatch is returned when paired inputs differ in length
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrScoreOutOfRange is returned for a score outside [0, 1] or NaN
	ErrScoreOutOfRange = errors.New("score out of range [0, 1]")

	// ErrInvalidLabel is returned for a label other than 0 or 1
	ErrInvalidLabel = errors.New("label must be 0 or 1")

	// ErrInvalidDate is returned for a date that is not ISO 8601
	ErrInvalidDate = errors.New("invalid ISO 8601 date")

	// ErrNoMetrics is returned when a set holds no complete metric inputs
	ErrNoMetrics = errors.New("no metric inputs")
)
