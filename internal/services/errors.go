package services

import "errors"

var (
	// ErrNoFiles is returned when a batch names no files
	ErrNoFiles = errors.New("no files to validate")

	// ErrUnknownKind is returned for a validation kind other than inputs or outputs
	ErrUnknownKind = errors.New("unknown validation kind")
)
