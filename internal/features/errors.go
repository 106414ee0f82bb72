package features

import (
	"fmt"

	"github.com/industriverse/industriverse-sub012/domain/core"
)

// ErrorKind classifies why extraction failed
type ErrorKind uint8

const (
	InsufficientSamples ErrorKind = iota + 1
	NonFiniteResult
)

func (k ErrorKind) String() string {
	switch k {
	case InsufficientSamples:
		return "insufficient_samples"
	case NonFiniteResult:
		return "non_finite_result"
	default:
		return "unknown"
	}
}

// FeatureError is the only error the detection core returns. It unwraps to
// core.ErrInsufficientSamples or core.ErrNonFiniteResult.
type FeatureError struct {
	Kind    ErrorKind
	Field   string // offending feature or "samples[i]" for NonFiniteResult
	Samples int    // frame length
}

func (e *FeatureError) Error() string {
	switch e.Kind {
	case InsufficientSamples:
		return fmt.Sprintf("feature extraction: insufficient samples: got %d, need at least %d", e.Samples, MinSamples)
	case NonFiniteResult:
		return fmt.Sprintf("feature extraction: non-finite value in %s (%d samples)", e.Field, e.Samples)
	default:
		return "feature extraction failed"
	}
}

func (e *FeatureError) Unwrap() error {
	switch e.Kind {
	case InsufficientSamples:
		return core.ErrInsufficientSamples
	case NonFiniteResult:
		return core.ErrNonFiniteResult
	default:
		return core.ErrExtraction
	}
}

func insufficient(n int) *FeatureError {
	return &FeatureError{Kind: InsufficientSamples, Samples: n}
}

func nonFinite(field string, n int) *FeatureError {
	return &FeatureError{Kind: NonFiniteResult, Field: field, Samples: n}
}
