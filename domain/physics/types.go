package physics

import (
	"math"

	"github.com/industriverse/industriverse-sub012/domain/core"
)

// ============================================================================
// TELEMETRY INPUT
// ============================================================================

// TelemetryFrame is an ordered run of samples plus opaque metadata.
// Frames are treated as immutable once constructed.
type TelemetryFrame struct {
	ID       core.FrameID      `json:"id,omitempty"`
	Samples  []float64         `json:"samples"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewTelemetryFrame copies samples and metadata so later caller writes cannot leak in
func NewTelemetryFrame(id core.FrameID, samples []float64, metadata map[string]string) TelemetryFrame {
	frame := TelemetryFrame{
		ID:      id,
		Samples: append([]float64(nil), samples...),
	}
	if len(metadata) > 0 {
		frame.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			frame.Metadata[k] = v
		}
	}
	return frame
}

// Len returns the number of samples
func (f TelemetryFrame) Len() int {
	return len(f.Samples)
}

// ============================================================================
// FEATURE SPACE
// ============================================================================

// FeatureCount is the fixed dimensionality of the feature space
const FeatureCount = 12

// FeatureNames lists features in canonical order. The canonical hash layout
// serializes fields in exactly this order.
var FeatureNames = [FeatureCount]string{
	"spectral_density",
	"spectral_entropy",
	"dominant_frequency",
	"temporal_gradient",
	"temporal_variance",
	"temporal_autocorrelation",
	"energy_density",
	"entropy",
	"skewness",
	"kurtosis",
	"mean",
	"std_dev",
}

// Feature indices into the canonical array
const (
	IdxSpectralDensity = iota
	IdxSpectralEntropy
	IdxDominantFrequency
	IdxTemporalGradient
	IdxTemporalVariance
	IdxTemporalAutocorrelation
	IdxEnergyDensity
	IdxEntropy
	IdxSkewness
	IdxKurtosis
	IdxMean
	IdxStdDev
)

// FeatureVector holds the 12 dimensionless features of a frame
// INVARIANTS:
// - Entropy, SpectralEntropy and StdDev are >= 0
// - every field is finite
type FeatureVector struct {
	// Spectral
	SpectralDensity   float64 `json:"spectral_density"`
	SpectralEntropy   float64 `json:"spectral_entropy"`
	DominantFrequency float64 `json:"dominant_frequency"`

	// Temporal
	TemporalGradient        float64 `json:"temporal_gradient"`
	TemporalVariance        float64 `json:"temporal_variance"`
	TemporalAutocorrelation float64 `json:"temporal_autocorrelation"`

	// Statistical
	EnergyDensity float64 `json:"energy_density"`
	Entropy       float64 `json:"entropy"`
	Skewness      float64 `json:"skewness"`
	Kurtosis      float64 `json:"kurtosis"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
}

// Array returns the features in canonical order
func (fv FeatureVector) Array() [FeatureCount]float64 {
	return [FeatureCount]float64{
		fv.SpectralDensity,
		fv.SpectralEntropy,
		fv.DominantFrequency,
		fv.TemporalGradient,
		fv.TemporalVariance,
		fv.TemporalAutocorrelation,
		fv.EnergyDensity,
		fv.Entropy,
		fv.Skewness,
		fv.Kurtosis,
		fv.Mean,
		fv.StdDev,
	}
}

// FeatureVectorFromArray is the inverse of Array
func FeatureVectorFromArray(a [FeatureCount]float64) FeatureVector {
	return FeatureVector{
		SpectralDensity:         a[IdxSpectralDensity],
		SpectralEntropy:         a[IdxSpectralEntropy],
		DominantFrequency:       a[IdxDominantFrequency],
		TemporalGradient:        a[IdxTemporalGradient],
		TemporalVariance:        a[IdxTemporalVariance],
		TemporalAutocorrelation: a[IdxTemporalAutocorrelation],
		EnergyDensity:           a[IdxEnergyDensity],
		Entropy:                 a[IdxEntropy],
		Skewness:                a[IdxSkewness],
		Kurtosis:                a[IdxKurtosis],
		Mean:                    a[IdxMean],
		StdDev:                  a[IdxStdDev],
	}
}

// FirstNonFinite returns the name of the first NaN/Inf field, or "" if all are finite
func (fv FeatureVector) FirstNonFinite() string {
	for i, v := range fv.Array() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureNames[i]
		}
	}
	return ""
}

// ============================================================================
// SIGNATURE
// ============================================================================

// Signature is the classified, hashed identity of one telemetry frame.
// PDEHash is a pure function of (Primary, Scores[Primary], Features).
type Signature struct {
	Features FeatureVector `json:"feature_vector"`
	Scores   DomainScores  `json:"domain_scores"`
	Primary  DomainID      `json:"primary_domain"`
	PDEHash  core.Hash256  `json:"pde_hash"`
}

// PrimaryScore returns the score of the primary domain
func (s Signature) PrimaryScore() float64 {
	return s.Scores.Score(s.Primary)
}
