// Package metric instruments the detection pipeline with Prometheus.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/industriverse/industriverse-sub012/domain/physics"
)

// Metrics provides observability for the pipeline. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	FramesProcessed    prometheus.Counter
	ExtractionFailures *prometheus.CounterVec
	Responses          *prometheus.CounterVec
	Consensus          *prometheus.CounterVec
	ICIScore           prometheus.Histogram
	DetectorSeverity   *prometheus.CounterVec
	AssessLatency      prometheus.Histogram
}

// New registers every pipeline metric on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "shield_frames_processed_total",
			Help: "Telemetry frames that completed feature extraction",
		}),

		ExtractionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shield_extraction_failures_total",
			Help: "Frames rejected during feature extraction by failure kind",
		}, []string{"kind"}), // kind: "insufficient_samples", "non_finite_result"

		Responses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shield_responses_total",
			Help: "Fused verdicts by recommended response action",
		}, []string{"action"}),

		Consensus: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shield_consensus_total",
			Help: "Fused verdicts by consensus type",
		}, []string{"consensus"}),

		ICIScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "shield_ici_score",
			Help:    "Distribution of the fused criticality index (ICI)",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		DetectorSeverity: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shield_detector_severity_total",
			Help: "Detector verdicts by detector and severity",
		}, []string{"detector", "severity"}),

		AssessLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "shield_assess_duration_seconds",
			Help:    "Duration of a full frame assessment",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.1},
		}),
	}
}

// IncrementFrames records a successfully extracted frame
func (m *Metrics) IncrementFrames() {
	if m != nil {
		m.FramesProcessed.Inc()
	}
}

// IncrementExtractionFailure records a rejected frame
func (m *Metrics) IncrementExtractionFailure(kind string) {
	if m != nil {
		m.ExtractionFailures.WithLabelValues(kind).Inc()
	}
}

// ObserveDetections records every detector verdict
func (m *Metrics) ObserveDetections(results [physics.DetectorCount]physics.DetectionResult) {
	if m == nil {
		return
	}
	for _, r := range results {
		m.DetectorSeverity.WithLabelValues(r.Detector.String(), r.Severity.String()).Inc()
	}
}

// ObserveFusion records a fused verdict
func (m *Metrics) ObserveFusion(res physics.FusionResult) {
	if m == nil {
		return
	}
	m.Responses.WithLabelValues(res.Response.String()).Inc()
	m.Consensus.WithLabelValues(res.Consensus.String()).Inc()
	m.ICIScore.Observe(res.ICIScore)
}

// ObserveAssessLatency records a full assessment duration
func (m *Metrics) ObserveAssessLatency(d time.Duration) {
	if m != nil {
		m.AssessLatency.Observe(d.Seconds())
	}
}
