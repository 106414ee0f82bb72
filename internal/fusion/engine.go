// Package fusion reduces the seven detector verdicts to one consensus-weighted
// criticality score and a recommended response.
//
// The Criticality Index (ICI) is
//
//	ici = 100 * maxThreat * (1 + alpha*(agreeing/7 - 0.5))
//
// clamped to [0,100]. Consensus damps or amplifies the strongest single
// verdict but never gates it: a lone detector at high threat still scores.
package fusion

import (
	"fmt"
	"math"
	"slices"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
)

const (
	// DefaultAlpha is the consensus gain
	DefaultAlpha = 0.75
	// DefaultAgreementThreshold is the minimum severity counted as agreeing
	DefaultAgreementThreshold = physics.Medium
	// MaxICI is the top of the index
	MaxICI = 100.0
)

// Options configures an Engine
type Options struct {
	Alpha              float64
	AgreementThreshold physics.Severity
}

// DefaultOptions returns alpha 0.75 and a Medium agreement threshold
func DefaultOptions() Options {
	return Options{Alpha: DefaultAlpha, AgreementThreshold: DefaultAgreementThreshold}
}

// Validate rejects a negative or non-finite alpha and a threshold outside
// Low..Critical
func (o Options) Validate() error {
	if !(o.Alpha >= 0) || math.IsInf(o.Alpha, 0) {
		return fmt.Errorf("%w: fusion alpha must be finite and >= 0, got %v", core.ErrInvalidOptions, o.Alpha)
	}
	if o.AgreementThreshold < physics.Low || o.AgreementThreshold > physics.Critical {
		return fmt.Errorf("%w: agreement threshold must be low..critical, got %s", core.ErrInvalidOptions, o.AgreementThreshold)
	}
	return nil
}

// Engine fuses detector results. Immutable and safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine validates options and creates an engine
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

// Default returns an engine with DefaultOptions
func Default() *Engine {
	return &Engine{opts: DefaultOptions()}
}

// Options returns the engine configuration
func (e *Engine) Options() Options {
	return e.opts
}

// Fuse computes the consensus verdict. Results are ordered by DetectorID
// before aggregation so the output never depends on input order; the maximum
// threat ties to the lowest DetectorID.
func (e *Engine) Fuse(results []physics.DetectionResult) physics.FusionResult {
	ordered := slices.Clone(results)
	slices.SortStableFunc(ordered, func(a, b physics.DetectionResult) int {
		return int(a.Detector) - int(b.Detector)
	})

	out := physics.FusionResult{}
	maxSet := false
	for _, r := range ordered {
		threat := sanitize(r.ThreatScore)
		if !maxSet || threat > out.MaxThreatScore {
			out.MaxThreatScore = threat
			out.MaxThreatDetector = r.Detector
			maxSet = true
		}
		if r.Severity >= e.opts.AgreementThreshold {
			out.AgreeingDetectors++
		}
	}

	out.Consensus = physics.ConsensusFor(out.AgreeingDetectors)
	out.ICIScore = ICI(out.MaxThreatScore, out.AgreeingDetectors, e.opts.Alpha)
	out.Response = physics.ResponseFor(out.ICIScore)
	return out
}

// FuseArray is Fuse over the fixed-size output of a detector suite
func (e *Engine) FuseArray(results [physics.DetectorCount]physics.DetectionResult) physics.FusionResult {
	return e.Fuse(results[:])
}

// ICI computes the clamped integrity index; a non-finite result is 0
func ICI(maxThreat float64, agreeing int, alpha float64) float64 {
	consensus := float64(agreeing)/float64(physics.DetectorCount) - 0.5
	ici := MaxICI * sanitize(maxThreat) * (1 + alpha*consensus)
	switch {
	case math.IsNaN(ici) || math.IsInf(ici, 0):
		return 0
	case ici < 0:
		return 0
	case ici > MaxICI:
		return MaxICI
	}
	return ici
}

// sanitize maps a threat into [0,1]; NaN maps to 0
func sanitize(x float64) float64 {
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	return x
}
