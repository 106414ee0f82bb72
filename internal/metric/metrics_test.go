package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/industriverse/industriverse-sub012/domain/physics"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementFrames()
	m.IncrementFrames()
	m.IncrementExtractionFailure("insufficient_samples")

	var results [physics.DetectorCount]physics.DetectionResult
	for i := range results {
		results[i] = physics.NewBenignResult(physics.DetectorID(i))
	}
	results[physics.PlasmaDischarge].Severity = physics.Critical
	m.ObserveDetections(results)

	m.ObserveFusion(physics.FusionResult{ICIScore: 65.9, Consensus: physics.Insufficient, Response: physics.Mitigate})
	m.ObserveAssessLatency(time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionFailures.WithLabelValues("insufficient_samples")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DetectorSeverity.WithLabelValues("plasma_discharge", "critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DetectorSeverity.WithLabelValues("thermal_agitation", "benign")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Responses.WithLabelValues("mitigate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Consensus.WithLabelValues("insufficient")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ICIScore))
	assert.Contains(t, m.ICIScore.Desc().String(), "criticality index")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementFrames()
		m.IncrementExtractionFailure("x")
		m.ObserveDetections([physics.DetectorCount]physics.DetectionResult{})
		m.ObserveFusion(physics.FusionResult{})
		m.ObserveAssessLatency(time.Second)
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
