// Package features projects raw telemetry into the fixed 12-dimensional
// physics feature space.
//
// Extraction is the only fallible stage of the detection core: a frame that
// is too short, carries NaN/Inf samples, or produces any non-finite feature
// is rejected here and nothing downstream runs.
package features

import (
	"math"
	"strconv"

	"github.com/industriverse/industriverse-sub012/domain/physics"
)

const (
	// MinSamples is the shortest frame that can be extracted
	MinSamples = 2
	// DefaultHistogramBins is the bin count for the value-entropy histogram
	DefaultHistogramBins = 32
)

// Extractor computes feature vectors. The zero value uses the defaults and is
// safe for concurrent use; it holds no mutable state.
type Extractor struct {
	HistogramBins int
}

// NewExtractor creates an extractor with the given histogram bin count
// (values below 2 fall back to DefaultHistogramBins)
func NewExtractor(bins int) *Extractor {
	return &Extractor{HistogramBins: bins}
}

func (e *Extractor) bins() int {
	if e == nil || e.HistogramBins < 2 {
		return DefaultHistogramBins
	}
	return e.HistogramBins
}

// Extract computes the feature vector of a frame
func (e *Extractor) Extract(frame physics.TelemetryFrame) (physics.FeatureVector, error) {
	x := frame.Samples
	n := len(x)
	if n < MinSamples {
		return physics.FeatureVector{}, insufficient(n)
	}
	for i, v := range x {
		if !isFinite(v) {
			return physics.FeatureVector{}, nonFinite(sampleField(i), n)
		}
	}

	// The statistical block runs first: a finite energy density bounds every
	// sample magnitude, which keeps the histogram and FFT well defined.
	st, err := statisticalFeatures(x, e.bins())
	if err != nil {
		return physics.FeatureVector{}, err
	}
	sp := spectralFeatures(x)
	tm := temporalFeatures(x, st.constant)

	fv := physics.FeatureVector{
		SpectralDensity:         sp.density,
		SpectralEntropy:         sp.entropy,
		DominantFrequency:       sp.dominant,
		TemporalGradient:        tm.gradient,
		TemporalVariance:        tm.variance,
		TemporalAutocorrelation: tm.autocorrelation,
		EnergyDensity:           st.energy,
		Entropy:                 st.entropy,
		Skewness:                st.skewness,
		Kurtosis:                st.kurtosis,
		Mean:                    st.mean,
		StdDev:                  st.stdDev,
	}
	if field := fv.FirstNonFinite(); field != "" {
		return physics.FeatureVector{}, nonFinite(field, n)
	}
	return fv, nil
}

// Extract uses a default extractor
func Extract(frame physics.TelemetryFrame) (physics.FeatureVector, error) {
	return (&Extractor{}).Extract(frame)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sampleField(i int) string {
	return "samples[" + strconv.Itoa(i) + "]"
}
