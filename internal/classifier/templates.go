package classifier

import (
	"fmt"
	"math"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
)

// TemplateVersion identifies the built-in coefficient table. Bump it whenever
// a centre, weight or the temperature changes.
const TemplateVersion = "shield-templates/v1"

// DefaultTemperature is the softmax temperature applied to distances
const DefaultTemperature = 0.25

// Template is one reference domain: a centre in raw feature units and a
// per-feature importance weight, both in canonical feature order
type Template struct {
	Domain  physics.DomainID
	Center  [physics.FeatureCount]float64
	Weights [physics.FeatureCount]float64
}

// TemplateSet is a complete, versioned table with one template per domain,
// indexed by domain ordinal
type TemplateSet struct {
	Version     string
	Temperature float64
	Templates   [physics.DomainCount]Template
}

// sharedWeights emphasises spectral shape, autocorrelation and the
// distribution-shape features over raw amplitude
var sharedWeights = [physics.FeatureCount]float64{
	0.5, // spectral_density
	2.0, // spectral_entropy
	1.0, // dominant_frequency
	1.0, // temporal_gradient
	1.0, // temporal_variance
	2.0, // temporal_autocorrelation
	0.5, // energy_density
	1.5, // entropy
	1.0, // skewness
	1.5, // kurtosis
	0.5, // mean
	0.5, // std_dev
}

// DefaultTemplateSet returns the built-in table. Centres were fitted to
// 256-sample unit-scale reference shapes: white noise (molecular), sparse
// one-sided discharges (plasma), random telegraph (quantum), AR(1) red noise
// (fluid), multi-partial periodic waves (crystal), pure tones
// (electromagnetic) and linear drift (thermodynamic).
func DefaultTemplateSet() TemplateSet {
	centers := [physics.DomainCount][physics.FeatureCount]float64{
		physics.MolecularDynamics: {0.004, 4.45, 0.5, 0, 2.0, 0, 1, 3.0, 0, 3.0, 0, 1},
		physics.PlasmaPhysics:     {0.02, 4.4, 0.05, 0, 10, 0, 5, 0.4, 5, 30, 0.45, 2.3},
		physics.QuantumMechanics:  {0.004, 3.5, 0.03, 0, 0.44, 0.77, 1, 0.69, 0, 1.1, 0, 1},
		physics.FluidDynamics:     {0.005, 2.6, 0.01, 0, 0.2, 0.89, 1, 3.2, 0, 2.7, 0, 1},
		physics.CrystalLattice:    {0.003, 0.9, 0.04, 0, 0.05, 0.96, 0.75, 3.0, 0, 1.6, 0, 0.85},
		physics.Electromagnetic:   {0.002, 0.05, 0.06, 0, 0.02, 0.98, 0.5, 2.75, 0, 1.5, 0, 0.7},
		physics.Thermodynamic:     {30, 0.6, 0, 0.5, 0.001, 1, 5000, 3.45, 0, 1.8, 60, 35},
	}

	set := TemplateSet{
		Version:     TemplateVersion,
		Temperature: DefaultTemperature,
	}
	for _, d := range physics.AllDomains() {
		set.Templates[d] = Template{
			Domain:  d,
			Center:  centers[d],
			Weights: sharedWeights,
		}
	}
	return set
}

// Validate rejects tables the classifier cannot use: misplaced domains,
// non-finite centres, negative/non-finite or all-zero weights, or a
// non-positive temperature
func (ts TemplateSet) Validate() error {
	if !(ts.Temperature > 0) || math.IsInf(ts.Temperature, 0) {
		return core.NewTemplateError(fmt.Sprintf("temperature must be positive and finite, got %v", ts.Temperature))
	}
	for i, tpl := range ts.Templates {
		if tpl.Domain != physics.DomainID(i) {
			return core.NewTemplateError(fmt.Sprintf("slot %d holds domain %s", i, tpl.Domain))
		}
		total := 0.0
		for j := 0; j < physics.FeatureCount; j++ {
			c, w := tpl.Center[j], tpl.Weights[j]
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return core.NewTemplateError(fmt.Sprintf("%s: non-finite centre for %s", tpl.Domain, physics.FeatureNames[j]))
			}
			if !(w >= 0) || math.IsInf(w, 0) {
				return core.NewTemplateError(fmt.Sprintf("%s: weight for %s must be finite and >= 0", tpl.Domain, physics.FeatureNames[j]))
			}
			total += w
		}
		if total == 0 {
			return core.NewTemplateError(fmt.Sprintf("%s: all weights are zero", tpl.Domain))
		}
	}
	return nil
}
