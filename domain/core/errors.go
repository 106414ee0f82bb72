package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Extraction errors. These are the only failures the detection core can
	// surface; every stage after feature extraction is total.
	ErrExtraction          = errors.New("feature extraction failed")
	ErrInsufficientSamples = fmt.Errorf("%w: insufficient samples", ErrExtraction)
	ErrNonFiniteResult     = fmt.Errorf("%w: non-finite result", ErrExtraction)

	// Configuration errors
	ErrInvalidTemplates = errors.New("invalid domain template table")
	ErrInvalidOptions   = errors.New("invalid engine options")

	// Determinism errors
	ErrHashMismatch = errors.New("hash mismatch")
)

// NewTemplateError wraps ErrInvalidTemplates with the offending detail
func NewTemplateError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTemplates, reason)
}

// IsExtractionError reports whether err came out of feature extraction
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrExtraction)
}
