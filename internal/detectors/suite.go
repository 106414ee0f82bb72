// Package detectors runs the seven domain-specialized anomaly detectors over
// a classified signature.
//
// The detector set is closed: each DetectorID owns a fixed rule table (see
// rules_const.go) and dispatch is a switch, not a registry. Analyze fans the
// seven detectors out and joins them into fixed slots, so the output order
// never depends on scheduling.
package detectors

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal"
)

// Options configures a Suite
type Options struct {
	// Parallel runs the detectors concurrently
	Parallel bool
	// HistogramBins must match the extractor that produced the signatures
	// (values below 2 mean the extractor default)
	HistogramBins int
	Logger        *internal.Logger
}

// DefaultOptions runs detectors in parallel and logs through the default logger
func DefaultOptions() Options {
	return Options{Parallel: true, Logger: internal.DefaultLogger}
}

// Suite evaluates all detectors. It holds no per-call state and is safe for
// concurrent use.
type Suite struct {
	parallel bool
	logger   *internal.Logger
	evaluate func(physics.DetectorID, physics.Signature) physics.DetectionResult
}

// NewSuite creates a detector suite
func NewSuite(opts Options) *Suite {
	bins := opts.HistogramBins
	return &Suite{
		parallel: opts.Parallel,
		logger:   opts.Logger.With("DetectorSuite"),
		evaluate: func(id physics.DetectorID, sig physics.Signature) physics.DetectionResult {
			return EvaluateBins(id, sig, bins)
		},
	}
}

// Analyze returns one result per detector, indexed by DetectorID
func (s *Suite) Analyze(sig physics.Signature) [physics.DetectorCount]physics.DetectionResult {
	var results [physics.DetectorCount]physics.DetectionResult

	if !s.parallel {
		for _, id := range physics.AllDetectors() {
			results[id] = s.safeEvaluate(id, sig)
		}
		return results
	}

	var g errgroup.Group
	for _, id := range physics.AllDetectors() {
		g.Go(func() error {
			results[id] = s.safeEvaluate(id, sig)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return results
}

// safeEvaluate degrades a panicking detector to a benign result
func (s *Suite) safeEvaluate(id physics.DetectorID, sig physics.Signature) (result physics.DetectionResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("%s panicked, degrading to benign: %v\n%s", id, r, debug.Stack())
			result = physics.NewBenignResult(id)
		}
	}()

	result = s.evaluate(id, sig)
	if result.Detector != id {
		panic(fmt.Sprintf("detector %s returned result for %s", id, result.Detector))
	}
	s.logger.Trace("%s threat=%.4f severity=%s patterns=%v", id, result.ThreatScore, result.Severity, result.MatchedPatterns)
	return result
}
