package features

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type statisticalBlock struct {
	energy   float64
	entropy  float64
	skewness float64
	kurtosis float64
	mean     float64
	stdDev   float64
	constant bool
}

// statisticalFeatures computes population moments, energy density and the
// histogram entropy. Constant series short-circuit to zero spread, zero
// shape moments and zero entropy instead of dividing by a zero deviation.
func statisticalFeatures(x []float64, bins int) (statisticalBlock, error) {
	n := float64(len(x))
	block := statisticalBlock{
		energy: floats.Dot(x, x) / n,
	}
	if !isFinite(block.energy) {
		return block, nonFinite("energy_density", len(x))
	}

	lo, _ := stats.Min(x)
	hi, _ := stats.Max(x)
	if lo == hi {
		block.mean = x[0]
		block.constant = true
		return block, nil
	}

	block.mean = stat.Mean(x, nil)
	block.stdDev, block.skewness, block.kurtosis = moments(x, block.mean)
	block.entropy = histogramEntropy(x, lo, hi, bins)
	return block, nil
}

// moments returns the population standard deviation, skewness and kurtosis.
// They are computed on deviations rescaled into [-1, 1] so tiny series do not
// underflow and huge ones do not overflow.
func moments(x []float64, mean float64) (stdDev, skewness, kurtosis float64) {
	scale := 0.0
	for _, v := range x {
		scale = math.Max(scale, math.Abs(v-mean))
	}
	if scale == 0 || math.IsInf(scale, 0) {
		return 0, 0, 0
	}

	d := make([]float64, len(x))
	for i, v := range x {
		d[i] = (v - mean) / scale
	}
	m2, _ := stats.PopulationVariance(d)
	m2 = nonNegative(m2)
	if m2 == 0 {
		return 0, 0, 0
	}
	stdDev = math.Sqrt(m2) * scale
	skewness = stat.Moment(3, d, nil) / (m2 * math.Sqrt(m2))
	kurtosis = nonNegative(stat.Moment(4, d, nil) / (m2 * m2))
	return stdDev, skewness, kurtosis
}

// histogramEntropy is the Shannon entropy (nats) of a fixed-bin histogram
// spanning [lo, hi]. The top edge is nudged up one ulp so the maximum falls
// inside the last bin.
func histogramEntropy(x []float64, lo, hi float64, bins int) float64 {
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	counts := stat.Histogram(nil, dividers, sorted, nil)
	floats.Scale(1/float64(len(x)), counts)
	return nonNegative(stat.Entropy(counts))
}
