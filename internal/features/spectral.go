package features

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type spectralBlock struct {
	density  float64
	entropy  float64
	dominant float64
}

// spectralFeatures works on the one-sided spectrum of the real series
// (n/2+1 bins, coefficients scaled by 1/n so magnitudes are amplitude-like
// and independent of frame length).
//
//   - density:  mean squared magnitude over all bins
//   - entropy:  Shannon entropy (nats) of the normalised power spectrum,
//     empty bins skipped, 0 for a spectrum with no power
//   - dominant: index of the largest magnitude divided by the bin count;
//     ties keep the lowest index
func spectralFeatures(x []float64) spectralBlock {
	n := len(x)
	coeffs := fourier.NewFFT(n).Coefficients(nil, x)

	power := make([]float64, len(coeffs))
	scale := 1 / float64(n)
	best, bestMag := 0, -1.0
	for k, c := range coeffs {
		mag := cmplx.Abs(c) * scale
		power[k] = mag * mag
		if mag > bestMag {
			best, bestMag = k, mag
		}
	}

	block := spectralBlock{
		density:  stat.Mean(power, nil),
		dominant: float64(best) / float64(len(coeffs)),
	}

	total := floats.Sum(power)
	if total > 0 && isFinite(total) {
		floats.Scale(1/total, power)
		block.entropy = nonNegative(stat.Entropy(power))
	}
	return block
}

// nonNegative clamps tiny negative rounding residue to zero
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
