package detectors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal/classifier"
	"github.com/industriverse/industriverse-sub012/internal/features"
	"github.com/industriverse/industriverse-sub012/internal/testkit"
)

func signatureOf(t *testing.T, kind testkit.SignalKind) physics.Signature {
	t.Helper()
	gen := testkit.NewSignalGenerator(testkit.DefaultSignalConfig())
	fv, err := features.Extract(gen.MustFrame(kind))
	require.NoError(t, err)
	scores := classifier.Default().Classify(fv)
	return physics.Signature{Features: fv, Scores: scores, Primary: scores.Primary()}
}

func TestRamp(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{math.Inf(-1), 0},
		{0, 0},
		{1, 0},
		{2, 0.5},
		{3, 1},
		{math.Inf(1), 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ramp(tt.x, 1, 3), "ramp(%v)", tt.x)
	}
	assert.Equal(t, 0.0, inverse(math.NaN(), 1, 3))
	assert.Equal(t, 1.0, inverse(0, 1, 3))
}

// TestSuite_PureToneIsBenign: a clean sine triggers no rule
func TestSuite_PureToneIsBenign(t *testing.T) {
	sig := signatureOf(t, testkit.SignalSine)
	for _, r := range NewSuite(DefaultOptions()).Analyze(sig) {
		assert.Equal(t, physics.Benign, r.Severity, "%s", r.Detector)
		assert.Less(t, r.ThreatScore, 0.05, "%s", r.Detector)
	}
}

func TestSuite_ReferenceAnomalies(t *testing.T) {
	tests := []struct {
		kind     testkit.SignalKind
		detector physics.DetectorID
		minimum  physics.Severity
		pattern  string
	}{
		{testkit.SignalBursts, physics.PlasmaDischarge, physics.High, "kurtosis_burst"},
		{testkit.SignalTelegraph, physics.QuantumTunneling, physics.Low, "state_collapse"},
		{testkit.SignalDrift, physics.EntropyReversal, physics.High, "thermal_runaway"},
	}
	suite := NewSuite(DefaultOptions())
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r := suite.Analyze(signatureOf(t, tt.kind))[tt.detector]
			assert.GreaterOrEqual(t, r.Severity, tt.minimum, "threat %.3f", r.ThreatScore)
			assert.Contains(t, r.MatchedPatterns, tt.pattern)
		})
	}
}

func TestSuite_ExtendedHits(t *testing.T) {
	suite := NewSuite(DefaultOptions())

	flat := suite.Analyze(signatureOf(t, testkit.SignalConstant))
	assert.Contains(t, flat[physics.EntropyReversal].ExtendedHits, physics.SimulationIntegrity)
	for _, r := range flat {
		assert.Equal(t, physics.Benign, r.Severity, "extended hits never raise the threat")
	}

	drift := suite.Analyze(signatureOf(t, testkit.SignalDrift))
	assert.Contains(t, drift[physics.EntropyReversal].ExtendedHits, physics.ModelDrift)
}

// TestSuite_Totality feeds adversarial finite vectors and checks every result is well formed
func TestSuite_Totality(t *testing.T) {
	var maxed, mined, alternating [physics.FeatureCount]float64
	for i := range maxed {
		maxed[i] = math.MaxFloat64
		mined[i] = -math.MaxFloat64
		if i%2 == 0 {
			alternating[i] = math.MaxFloat64
		} else {
			alternating[i] = -math.MaxFloat64
		}
	}
	vectors := map[string][physics.FeatureCount]float64{
		"zero":        {},
		"max":         maxed,
		"min":         mined,
		"alternating": alternating,
		"tiny":        {5e-324, 5e-324, 5e-324, 5e-324, 5e-324, 5e-324, 5e-324, 5e-324, 5e-324, 5e-324, 5e-324, 5e-324},
	}

	suite := NewSuite(DefaultOptions())
	for name, arr := range vectors {
		t.Run(name, func(t *testing.T) {
			sig := physics.Signature{Features: physics.FeatureVectorFromArray(arr)}
			sig.Scores[0] = 1
			for i, r := range suite.Analyze(sig) {
				assert.Equal(t, physics.DetectorID(i), r.Detector)
				assert.False(t, math.IsNaN(r.ThreatScore))
				assert.GreaterOrEqual(t, r.ThreatScore, 0.0)
				assert.LessOrEqual(t, r.ThreatScore, 1.0)
				assert.Equal(t, physics.SeverityForThreat(r.ThreatScore), r.Severity)
				assert.NotNil(t, r.MatchedPatterns)
				assert.NotNil(t, r.ExtendedHits)
			}
		})
	}
}

func TestSuite_ParallelMatchesSequential(t *testing.T) {
	parallel := NewSuite(Options{Parallel: true})
	sequential := NewSuite(Options{Parallel: false})
	for _, kind := range testkit.AllSignalKinds() {
		sig := signatureOf(t, kind)
		want := sequential.Analyze(sig)
		for i := 0; i < 5; i++ {
			assert.Equal(t, want, parallel.Analyze(sig), "%s run %d", kind, i)
		}
	}
}

func TestSuite_RecoversPanics(t *testing.T) {
	suite := NewSuite(Options{Parallel: true})
	suite.evaluate = func(id physics.DetectorID, sig physics.Signature) physics.DetectionResult {
		if id == physics.LatticeDefect {
			panic("boom")
		}
		return Evaluate(id, sig)
	}

	sig := signatureOf(t, testkit.SignalBursts)
	results := suite.Analyze(sig)
	assert.Equal(t, physics.NewBenignResult(physics.LatticeDefect), results[physics.LatticeDefect])
	assert.Equal(t, Evaluate(physics.PlasmaDischarge, sig), results[physics.PlasmaDischarge])
}

func TestAffinityScalesThreat(t *testing.T) {
	sig := signatureOf(t, testkit.SignalBursts)
	sig.Scores = physics.DomainScores{}
	low := Evaluate(physics.PlasmaDischarge, sig)

	sig.Scores[physics.PlasmaPhysics] = 1
	high := Evaluate(physics.PlasmaDischarge, sig)

	assert.GreaterOrEqual(t, high.ThreatScore, low.ThreatScore)
	assert.Equal(t, low.MatchedPatterns, high.MatchedPatterns)
}

func TestRules(t *testing.T) {
	for _, id := range physics.AllDetectors() {
		assert.NotEmpty(t, Rules(id), "%s", id)
	}
	assert.Nil(t, Rules(physics.DetectorID(42)))
	assert.Equal(t, physics.NewBenignResult(42), Evaluate(42, physics.Signature{}))
}

func TestEvaluateBins_NormalisesEntropy(t *testing.T) {
	sig := signatureOf(t, testkit.SignalNoise)
	// 90% of the 4-bin maximum: spread for 4 bins, collapsed for 32
	sig.Features.Entropy = 0.9 * math.Log(4)

	assert.Contains(t, Evaluate(physics.QuantumTunneling, sig).MatchedPatterns, "state_collapse")
	assert.NotContains(t, EvaluateBins(physics.QuantumTunneling, sig, 4).MatchedPatterns, "state_collapse")
	assert.Equal(t, Evaluate(physics.QuantumTunneling, sig), EvaluateBins(physics.QuantumTunneling, sig, 0))

	suite := NewSuite(Options{HistogramBins: 4})
	assert.NotContains(t, suite.Analyze(sig)[physics.QuantumTunneling].MatchedPatterns, "state_collapse")
}
