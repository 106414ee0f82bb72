// Package validation checks that a signature is internally consistent and
// that a transition between two signatures respects conservation and
// continuity tolerances. Validation never errors: every failure is reported
// as a flag on the result.
package validation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal/canonical"
)

const (
	// DefaultEnergyTolerance is the largest relative energy change still
	// considered conservation-preserving
	DefaultEnergyTolerance = 0.10
	// DefaultEntropyTolerance is the largest entropy decrease still
	// considered conservation-preserving
	DefaultEntropyTolerance = 0.05
	// DefaultContinuityThreshold bounds the feature-space step of a
	// continuous transition (strictly less than)
	DefaultContinuityThreshold = 1.0
	// ScoreSumTolerance is the allowed deviation of the score sum from 1
	ScoreSumTolerance = 0.05
	// energyFloor keeps the relative energy change defined for silent frames
	energyFloor = 1e-9
)

// Config holds validation tolerances
type Config struct {
	EnergyTolerance     float64
	EntropyTolerance    float64
	ContinuityThreshold float64
}

// DefaultConfig returns the standard tolerances
func DefaultConfig() Config {
	return Config{
		EnergyTolerance:     DefaultEnergyTolerance,
		EntropyTolerance:    DefaultEntropyTolerance,
		ContinuityThreshold: DefaultContinuityThreshold,
	}
}

// Validate rejects negative or non-finite tolerances
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"energy tolerance", c.EnergyTolerance},
		{"entropy tolerance", c.EntropyTolerance},
		{"continuity threshold", c.ContinuityThreshold},
	}
	for _, f := range fields {
		if !(f.value >= 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite and >= 0, got %v", core.ErrInvalidOptions, f.name, f.value)
		}
	}
	return nil
}

// Validator runs signature and transition checks
type Validator struct {
	config Config
}

// NewValidator validates the config and creates a validator
func NewValidator(config Config) (*Validator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Validator{config: config}, nil
}

// Default returns a validator with DefaultConfig
func Default() *Validator {
	return &Validator{config: DefaultConfig()}
}

// ValidateSignature recomputes the hash and checks feature bounds and the score set
func (v *Validator) ValidateSignature(sig physics.Signature) physics.ValidationResult {
	result := physics.ValidationResult{}

	result.HashIntegrityOK = canonical.Verify(sig)
	if !result.HashIntegrityOK {
		result.Violations = append(result.Violations, fmt.Sprintf("%v: pde_hash %s does not match signature content", core.ErrHashMismatch, sig.PDEHash))
	}

	featureViolations := checkFeatures(sig.Features)
	result.FeaturesValid = len(featureViolations) == 0
	result.Violations = append(result.Violations, featureViolations...)

	scoreViolations := checkScores(sig.Scores, sig.Primary)
	result.DomainScoresValid = len(scoreViolations) == 0
	result.Violations = append(result.Violations, scoreViolations...)

	return result
}

// ValidateTransition compares two signatures of the same entity. Integrity
// flags hold only if they hold for both endpoints.
func (v *Validator) ValidateTransition(from, to physics.Signature) physics.TransitionValidation {
	a := v.ValidateSignature(from)
	b := v.ValidateSignature(to)

	out := physics.TransitionValidation{
		HashIntegrityOK:   a.HashIntegrityOK && b.HashIntegrityOK,
		FeaturesValid:     a.FeaturesValid && b.FeaturesValid,
		DomainScoresValid: a.DomainScoresValid && b.DomainScoresValid,
	}

	eFrom, eTo := from.Features.EnergyDensity, to.Features.EnergyDensity
	out.EnergyDeltaRatio = math.Abs(eTo-eFrom) / math.Max(eFrom, energyFloor)
	out.EntropyDelta = to.Features.Entropy - from.Features.Entropy

	// NaN comparisons are false, so corrupt inputs fail closed
	if out.EnergyDeltaRatio <= v.config.EnergyTolerance && out.EntropyDelta >= -v.config.EntropyTolerance {
		out.Conservation = physics.ConservationPreserving
	} else {
		out.Conservation = physics.ConservationViolating
	}

	fa, fb := from.Features.Array(), to.Features.Array()
	out.FeatureDistance = floats.Distance(fa[:], fb[:], 2)
	if out.FeatureDistance < v.config.ContinuityThreshold {
		out.Continuity = physics.Continuous
	} else {
		out.Continuity = physics.Discontinuous
	}
	return out
}

// ValidateSignature uses the default validator
func ValidateSignature(sig physics.Signature) physics.ValidationResult {
	return Default().ValidateSignature(sig)
}

// ValidateTransition uses the default validator
func ValidateTransition(from, to physics.Signature) physics.TransitionValidation {
	return Default().ValidateTransition(from, to)
}

// nonNegativeFeatures must be >= 0 in any well-formed vector
var nonNegativeFeatures = []int{
	physics.IdxSpectralDensity,
	physics.IdxSpectralEntropy,
	physics.IdxTemporalVariance,
	physics.IdxEnergyDensity,
	physics.IdxEntropy,
	physics.IdxKurtosis,
	physics.IdxStdDev,
}

func checkFeatures(fv physics.FeatureVector) []string {
	var violations []string
	arr := fv.Array()
	for i, x := range arr {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			violations = append(violations, fmt.Sprintf("feature %s is not finite", physics.FeatureNames[i]))
		}
	}
	for _, i := range nonNegativeFeatures {
		if arr[i] < 0 {
			violations = append(violations, fmt.Sprintf("feature %s is negative (%g)", physics.FeatureNames[i], arr[i]))
		}
	}
	if fv.DominantFrequency < 0 || fv.DominantFrequency > 1 {
		violations = append(violations, fmt.Sprintf("dominant_frequency outside [0,1] (%g)", fv.DominantFrequency))
	}
	if fv.TemporalAutocorrelation < -1 || fv.TemporalAutocorrelation > 1 {
		violations = append(violations, fmt.Sprintf("temporal_autocorrelation outside [-1,1] (%g)", fv.TemporalAutocorrelation))
	}
	return violations
}

func checkScores(scores physics.DomainScores, primary physics.DomainID) []string {
	var violations []string
	for i, s := range scores {
		if !(s >= 0 && s <= 1) {
			violations = append(violations, fmt.Sprintf("score for %s outside [0,1] (%g)", physics.DomainID(i), s))
		}
	}
	if sum := scores.Sum(); !(math.Abs(sum-1) <= ScoreSumTolerance) {
		violations = append(violations, fmt.Sprintf("scores sum to %g", sum))
	}
	if !primary.Valid() {
		violations = append(violations, fmt.Sprintf("primary domain %d is not a valid domain", uint8(primary)))
	} else if argmax := scores.Primary(); argmax != primary {
		violations = append(violations, fmt.Sprintf("primary domain %s is not the argmax (%s)", primary, argmax))
	}
	return violations
}
