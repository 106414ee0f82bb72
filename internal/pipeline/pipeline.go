// Package pipeline exposes the detection core's call contracts:
// ExtractAndClassify, Detect, Fuse, Validate and ValidateTransition, plus
// Assess (the full chain for one frame) and a bounded batch Runner.
//
// Extraction is the only fallible stage. Every later stage is total and
// reports problems as result values.
package pipeline

import (
	"errors"
	"time"

	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal"
	"github.com/industriverse/industriverse-sub012/internal/canonical"
	"github.com/industriverse/industriverse-sub012/internal/classifier"
	"github.com/industriverse/industriverse-sub012/internal/config"
	"github.com/industriverse/industriverse-sub012/internal/detectors"
	"github.com/industriverse/industriverse-sub012/internal/features"
	"github.com/industriverse/industriverse-sub012/internal/fusion"
	"github.com/industriverse/industriverse-sub012/internal/metric"
	"github.com/industriverse/industriverse-sub012/internal/validation"
)

// Options configures a Pipeline. Zero values select the defaults.
type Options struct {
	HistogramBins    int
	Templates        *classifier.TemplateSet
	Fusion           *fusion.Options
	Validation       *validation.Config
	SequentialDetect bool
	Metrics          *metric.Metrics
	Logger           *internal.Logger
}

// Pipeline wires the core stages together. It holds only immutable
// configuration and is safe for concurrent use.
type Pipeline struct {
	extractor  *features.Extractor
	classifier *classifier.Classifier
	suite      *detectors.Suite
	fusion     *fusion.Engine
	validator  *validation.Validator
	metrics    *metric.Metrics
	logger     *internal.Logger
}

// Assessment is the result of running the whole chain on one frame
type Assessment struct {
	FrameID    string                                         `json:"frame_id"`
	Signature  physics.Signature                              `json:"signature"`
	Detections [physics.DetectorCount]physics.DetectionResult `json:"detections"`
	Fusion     physics.FusionResult                           `json:"fusion"`
}

// New validates options and builds a pipeline
func New(opts Options) (*Pipeline, error) {
	templates := classifier.DefaultTemplateSet()
	if opts.Templates != nil {
		templates = *opts.Templates
	}
	cls, err := classifier.New(templates)
	if err != nil {
		return nil, err
	}

	fusionOpts := fusion.DefaultOptions()
	if opts.Fusion != nil {
		fusionOpts = *opts.Fusion
	}
	engine, err := fusion.NewEngine(fusionOpts)
	if err != nil {
		return nil, err
	}

	validationCfg := validation.DefaultConfig()
	if opts.Validation != nil {
		validationCfg = *opts.Validation
	}
	validator, err := validation.NewValidator(validationCfg)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		extractor:  features.NewExtractor(opts.HistogramBins),
		classifier: cls,
		suite:      detectors.NewSuite(detectors.Options{
			Parallel:      !opts.SequentialDetect,
			HistogramBins: opts.HistogramBins,
			Logger:        opts.Logger,
		}),
		fusion:     engine,
		validator:  validator,
		metrics:    opts.Metrics,
		logger:     opts.Logger.With("Pipeline"),
	}, nil
}

// Default builds a pipeline with every default and no instrumentation
func Default() *Pipeline {
	p, err := New(Options{})
	if err != nil {
		panic("pipeline: default options are invalid: " + err.Error())
	}
	return p
}

// FromConfig builds a pipeline from application configuration, loading the
// template table from disk when one is configured
func FromConfig(cfg *config.Config, metrics *metric.Metrics, logger *internal.Logger) (*Pipeline, error) {
	opts := Options{
		HistogramBins:    cfg.Pipeline.HistogramBins,
		SequentialDetect: !cfg.Pipeline.ParallelDetectors,
		Metrics:          metrics,
		Logger:           logger,
	}
	fusionOpts := cfg.FusionOptions()
	opts.Fusion = &fusionOpts
	validationCfg := cfg.ValidationConfig()
	opts.Validation = &validationCfg

	if cfg.Classifier.TemplatesFile != "" {
		set, err := classifier.LoadTemplates(cfg.Classifier.TemplatesFile)
		if err != nil {
			return nil, err
		}
		logger.With("Pipeline").Info("loaded template table %s from %s", set.Version, cfg.Classifier.TemplatesFile)
		opts.Templates = &set
	}
	return New(opts)
}

// ExtractAndClassify turns a frame into a hashed, classified signature
func (p *Pipeline) ExtractAndClassify(frame physics.TelemetryFrame) (physics.Signature, error) {
	fv, err := p.extractor.Extract(frame)
	if err != nil {
		p.recordExtractionFailure(frame, err)
		return physics.Signature{}, err
	}
	p.metrics.IncrementFrames()

	scores := p.classifier.Classify(fv)
	sig := physics.Signature{
		Features: fv,
		Scores:   scores,
		Primary:  scores.Primary(),
	}
	sig.PDEHash = canonical.SignatureHash(sig)
	return sig, nil
}

// Detect runs all seven detectors
func (p *Pipeline) Detect(sig physics.Signature) [physics.DetectorCount]physics.DetectionResult {
	results := p.suite.Analyze(sig)
	p.metrics.ObserveDetections(results)
	return results
}

// Fuse reduces detector results to a consensus verdict
func (p *Pipeline) Fuse(detections [physics.DetectorCount]physics.DetectionResult) physics.FusionResult {
	res := p.fusion.FuseArray(detections)
	p.metrics.ObserveFusion(res)
	return res
}

// Validate checks one signature
func (p *Pipeline) Validate(sig physics.Signature) physics.ValidationResult {
	return p.validator.ValidateSignature(sig)
}

// ValidateTransition compares two signatures of the same entity
func (p *Pipeline) ValidateTransition(from, to physics.Signature) physics.TransitionValidation {
	return p.validator.ValidateTransition(from, to)
}

// Assess runs extraction, detection and fusion on one frame
func (p *Pipeline) Assess(frame physics.TelemetryFrame) (Assessment, error) {
	start := time.Now()
	sig, err := p.ExtractAndClassify(frame)
	if err != nil {
		return Assessment{}, err
	}
	detections := p.Detect(sig)
	fused := p.Fuse(detections)
	p.metrics.ObserveAssessLatency(time.Since(start))

	p.logger.Debug("frame %s: primary=%s ici=%.2f consensus=%s response=%s",
		frame.ID, sig.Primary, fused.ICIScore, fused.Consensus, fused.Response)

	return Assessment{
		FrameID:    frame.ID.String(),
		Signature:  sig,
		Detections: detections,
		Fusion:     fused,
	}, nil
}

// TemplateVersion reports the classifier table in use
func (p *Pipeline) TemplateVersion() string {
	return p.classifier.Version()
}

func (p *Pipeline) recordExtractionFailure(frame physics.TelemetryFrame, err error) {
	kind := "unknown"
	var fe *features.FeatureError
	if errors.As(err, &fe) {
		kind = fe.Kind.String()
	}
	p.metrics.IncrementExtractionFailure(kind)
	p.logger.Warn("frame %s rejected: %v", frame.ID, err)
}
