package features

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

type temporalBlock struct {
	gradient        float64
	variance        float64
	autocorrelation float64
}

// temporalFeatures summarises the first differences of the series and its
// lag-one autocorrelation.
func temporalFeatures(x []float64, constant bool) temporalBlock {
	diffs := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		diffs[i-1] = x[i] - x[i-1]
	}

	var block temporalBlock
	if constant {
		return block
	}

	// Both calls only fail on empty input, which MinSamples rules out.
	block.gradient, _ = stats.Mean(diffs)
	variance, _ := stats.PopulationVariance(diffs)
	block.variance = nonNegative(variance)
	block.autocorrelation = lagOneAutocorrelation(x)
	return block
}

// lagOneAutocorrelation is the Pearson correlation between x[:n-1] and x[1:].
// It is 0 for series shorter than 3 samples or when either half is constant.
func lagOneAutocorrelation(x []float64) float64 {
	n := len(x)
	if n < 3 {
		return 0
	}
	head, tail := x[:n-1], x[1:]
	if isConstant(head) || isConstant(tail) {
		return 0
	}

	r := stat.Correlation(head, tail, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

func isConstant(x []float64) bool {
	lo, errLo := stats.Min(x)
	hi, errHi := stats.Max(x)
	if errLo != nil || errHi != nil {
		return true
	}
	return lo == hi
}
