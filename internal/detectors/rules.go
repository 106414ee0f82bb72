package detectors

import (
	"math"

	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal/features"
)

// view is a feature vector plus the derived ratios the rule tables share.
// Every ratio has a guarded denominator.
type view struct {
	physics.FeatureVector

	live          bool    // std above EPSILON
	roughness     float64 // temporal variance / variance
	normEntropy   float64 // entropy / ln(histogram bins)
	slope         float64 // |gradient| / std
	runaway       float64 // |gradient| / sqrt(temporal variance)
	meanOffset    float64 // |mean| / std
	absSkew       float64
	absGradient   float64
	bimodalMargin float64 // QUANTUM_BIMODAL_CEILING - kurtosis
}

func newView(fv physics.FeatureVector, bins int) view {
	v := view{FeatureVector: fv}
	v.live = fv.StdDev > EPSILON
	v.roughness = ratio(fv.TemporalVariance, fv.StdDev*fv.StdDev)
	v.normEntropy = fv.Entropy / maxHistogramEntropy(bins)
	v.absGradient = math.Abs(fv.TemporalGradient)
	v.slope = ratio(v.absGradient, fv.StdDev)
	v.runaway = ratio(v.absGradient, math.Sqrt(math.Max(fv.TemporalVariance, 0)))
	v.meanOffset = ratio(math.Abs(fv.Mean), fv.StdDev)
	v.absSkew = math.Abs(fv.Skewness)
	v.bimodalMargin = QUANTUM_BIMODAL_CEILING - fv.Kurtosis
	return v
}

// maxHistogramEntropy is the value entropy of a uniform histogram with the
// extractor's bin count
func maxHistogramEntropy(bins int) float64 {
	if bins < 2 {
		bins = features.DefaultHistogramBins
	}
	return math.Log(float64(bins))
}

// Rule is one named contributor to a detector's threat
type Rule struct {
	Name   string
	Weight float64
	eval   func(v view) float64
}

// ExtendedRule attaches an extended-domain label without changing the threat
type ExtendedRule struct {
	Domain physics.ExtendedDomain
	eval   func(v view) float64
}

// strength evaluates a rule; anything non-finite collapses to 0
func strength(eval func(v view) float64, v view) float64 {
	return clamp01(eval(v))
}

// ramp is 0 at or below lo, 1 at or above hi, linear between; NaN maps to 0
func ramp(x, lo, hi float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x <= lo:
		return 0
	case x >= hi:
		return 1
	}
	return (x - lo) / (hi - lo)
}

// inverse is 1 - ramp
func inverse(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return 1 - ramp(x, lo, hi)
}

// gate returns s only for frames with non-zero spread
func gate(v view, s float64) float64 {
	if !v.live {
		return 0
	}
	return s
}

func ratio(num, den float64) float64 {
	r := num / (den + EPSILON)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// clamp01 maps x into [0,1]; NaN maps to 0
func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	return x
}
