package detectors

import (
	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal/features"
)

// table is the closed rule set of one detector
type table struct {
	rules    []Rule
	extended []ExtendedRule
}

var (
	thermalAgitation = table{
		rules: []Rule{
			{Name: "thermal_saturation", Weight: THERMAL_SATURATION_WEIGHT, eval: func(v view) float64 {
				return ramp(v.SpectralEntropy, THERMAL_SATURATION_LO, THERMAL_SATURATION_HI)
			}},
			{Name: "heavy_tail_agitation", Weight: THERMAL_TAIL_WEIGHT, eval: func(v view) float64 {
				return ramp(v.Kurtosis, THERMAL_TAIL_LO, THERMAL_TAIL_HI)
			}},
			{Name: "anticorrelated_agitation", Weight: THERMAL_AGITATION_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(v.roughness, THERMAL_AGITATION_LO, THERMAL_AGITATION_HI))
			}},
		},
		extended: []ExtendedRule{
			{Domain: physics.SensorSpoofing, eval: func(v view) float64 {
				return ramp(v.normEntropy, SPOOF_UNIFORMITY_LO, SPOOF_UNIFORMITY_HI) *
					ramp(v.SpectralEntropy, THERMAL_SATURATION_LO, THERMAL_SATURATION_HI)
			}},
		},
	}

	plasmaDischarge = table{
		rules: []Rule{
			{Name: "kurtosis_burst", Weight: PLASMA_BURST_WEIGHT, eval: func(v view) float64 {
				return ramp(v.Kurtosis, PLASMA_BURST_LO, PLASMA_BURST_HI)
			}},
			{Name: "skewed_discharge", Weight: PLASMA_SKEW_WEIGHT, eval: func(v view) float64 {
				return ramp(v.absSkew, PLASMA_SKEW_LO, PLASMA_SKEW_HI)
			}},
			{Name: "spectral_flare", Weight: PLASMA_FLARE_WEIGHT, eval: func(v view) float64 {
				return ramp(v.SpectralEntropy, PLASMA_FLARE_SPECTRAL_LO, PLASMA_FLARE_SPECTRAL_HI) *
					ramp(v.Kurtosis, PLASMA_FLARE_KURTOSIS_LO, PLASMA_FLARE_KURTOSIS_HI)
			}},
		},
		extended: []ExtendedRule{
			{Domain: physics.DataPoisoning, eval: func(v view) float64 {
				return ramp(v.Kurtosis, POISONING_KURTOSIS_LO, POISONING_KURTOSIS_HI)
			}},
		},
	}

	quantumTunneling = table{
		rules: []Rule{
			{Name: "state_collapse", Weight: QUANTUM_COLLAPSE_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(1-v.normEntropy, QUANTUM_COLLAPSE_LO, QUANTUM_COLLAPSE_HI))
			}},
			{Name: "tunneling_jump", Weight: QUANTUM_JUMP_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(v.roughness, QUANTUM_JUMP_LO, QUANTUM_JUMP_HI))
			}},
			{Name: "bimodal_occupation", Weight: QUANTUM_BIMODAL_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(v.bimodalMargin, QUANTUM_BIMODAL_LO, QUANTUM_BIMODAL_HI))
			}},
		},
		extended: []ExtendedRule{
			{Domain: physics.AgentBehavior, eval: func(v view) float64 {
				return gate(v, ramp(v.bimodalMargin, QUANTUM_BIMODAL_LO, QUANTUM_BIMODAL_HI)*
					ramp(v.TemporalAutocorrelation, AGENT_PERSISTENCE_LO, AGENT_PERSISTENCE_HI))
			}},
		},
	}

	fluidTurbulence = table{
		rules: []Rule{
			{Name: "turbulent_cascade", Weight: FLUID_CASCADE_WEIGHT, eval: func(v view) float64 {
				return ramp(v.SpectralEntropy, FLUID_CASCADE_SPECTRAL_LO, FLUID_CASCADE_SPECTRAL_HI) *
					ramp(v.TemporalAutocorrelation, FLUID_CASCADE_AUTOCORR_LO, FLUID_CASCADE_AUTOCORR_HI)
			}},
			{Name: "gradient_instability", Weight: FLUID_GRADIENT_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(v.roughness, FLUID_GRADIENT_LO, FLUID_GRADIENT_HI))
			}},
			{Name: "intermittency", Weight: FLUID_INTERMITTENCY_WEIGHT, eval: func(v view) float64 {
				return ramp(v.Kurtosis, FLUID_INTERMITTENCY_KURTOSIS_LO, FLUID_INTERMITTENCY_KURTOSIS_HI) *
					ramp(v.SpectralEntropy, FLUID_INTERMITTENCY_SPECTRAL_LO, FLUID_INTERMITTENCY_SPECTRAL_HI)
			}},
		},
		extended: []ExtendedRule{
			{Domain: physics.SwarmCoordination, eval: func(v view) float64 {
				return ramp(v.TemporalAutocorrelation, SWARM_AUTOCORR_LO, SWARM_AUTOCORR_HI) *
					ramp(v.SpectralEntropy, SWARM_SPECTRAL_LO, SWARM_SPECTRAL_HI)
			}},
		},
	}

	latticeDefect = table{
		rules: []Rule{
			{Name: "harmonic_distortion", Weight: LATTICE_DISTORTION_WEIGHT, eval: func(v view) float64 {
				return ramp(v.SpectralEntropy, LATTICE_DISTORTION_SPECTRAL_LO, LATTICE_DISTORTION_SPECTRAL_HI) *
					ramp(v.TemporalAutocorrelation, LATTICE_DISTORTION_AUTOCORR_LO, LATTICE_DISTORTION_AUTOCORR_HI)
			}},
			{Name: "phase_slip", Weight: LATTICE_SLIP_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(v.slope, LATTICE_SLIP_LO, LATTICE_SLIP_HI))
			}},
			{Name: "dislocation", Weight: LATTICE_DISLOCATION_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(v.roughness, LATTICE_DISLOCATION_ROUGHNESS_LO, LATTICE_DISLOCATION_ROUGHNESS_HI)*
					ramp(v.TemporalAutocorrelation, LATTICE_DISLOCATION_AUTOCORR_LO, LATTICE_DISLOCATION_AUTOCORR_HI))
			}},
		},
	}

	emResonance = table{
		rules: []Rule{
			{Name: "resonance_overdrive", Weight: EM_OVERDRIVE_WEIGHT, eval: func(v view) float64 {
				return ramp(v.EnergyDensity, EM_OVERDRIVE_LO, EM_OVERDRIVE_HI)
			}},
			{Name: "harmonic_aliasing", Weight: EM_ALIASING_WEIGHT, eval: func(v view) float64 {
				return ramp(v.DominantFrequency, EM_ALIASING_LO, EM_ALIASING_HI)
			}},
			{Name: "spectral_spike", Weight: EM_SPIKE_WEIGHT, eval: func(v view) float64 {
				return ramp(v.SpectralDensity, EM_SPIKE_DENSITY_LO, EM_SPIKE_DENSITY_HI) *
					inverse(v.SpectralEntropy, EM_SPIKE_SPECTRAL_LO, EM_SPIKE_SPECTRAL_HI)
			}},
		},
		extended: []ExtendedRule{
			{Domain: physics.ConsciousnessField, eval: func(v view) float64 {
				return ramp(v.TemporalAutocorrelation, FIELD_COHERENCE_LO, FIELD_COHERENCE_HI) *
					inverse(v.SpectralEntropy, FIELD_SPECTRAL_LO, FIELD_SPECTRAL_HI)
			}},
		},
	}

	entropyReversal = table{
		rules: []Rule{
			{Name: "thermal_runaway", Weight: ENTROPY_RUNAWAY_WEIGHT, eval: func(v view) float64 {
				return ramp(v.runaway, ENTROPY_RUNAWAY_LO, ENTROPY_RUNAWAY_HI)
			}},
			{Name: "heat_accumulation", Weight: ENTROPY_ACCUMULATION_WEIGHT, eval: func(v view) float64 {
				return gate(v, ramp(v.meanOffset, ENTROPY_ACCUMULATION_LO, ENTROPY_ACCUMULATION_HI))
			}},
			{Name: "gradient_persistence", Weight: ENTROPY_PERSISTENCE_WEIGHT, eval: func(v view) float64 {
				return ramp(v.TemporalAutocorrelation, ENTROPY_PERSISTENCE_AUTOCORR_LO, ENTROPY_PERSISTENCE_AUTOCORR_HI) *
					ramp(v.absGradient, ENTROPY_PERSISTENCE_GRADIENT_LO, ENTROPY_PERSISTENCE_GRADIENT_HI)
			}},
		},
		extended: []ExtendedRule{
			{Domain: physics.SimulationIntegrity, eval: func(v view) float64 {
				// a perfectly flat line is not physical telemetry
				if v.live {
					return 0
				}
				return 1
			}},
			{Domain: physics.ModelDrift, eval: func(v view) float64 {
				return gate(v, ramp(v.slope, DRIFT_SLOPE_LO, DRIFT_SLOPE_HI))
			}},
		},
	}
)

// tableFor dispatches on the closed detector set
func tableFor(id physics.DetectorID) (table, bool) {
	switch id {
	case physics.ThermalAgitation:
		return thermalAgitation, true
	case physics.PlasmaDischarge:
		return plasmaDischarge, true
	case physics.QuantumTunneling:
		return quantumTunneling, true
	case physics.FluidTurbulence:
		return fluidTurbulence, true
	case physics.LatticeDefect:
		return latticeDefect, true
	case physics.EMResonance:
		return emResonance, true
	case physics.EntropyReversal:
		return entropyReversal, true
	default:
		return table{}, false
	}
}

// Rules lists the rule names of a detector in evaluation order
func Rules(id physics.DetectorID) []string {
	t, ok := tableFor(id)
	if !ok {
		return nil
	}
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate runs one detector against a signature extracted with the default
// histogram bin count
func Evaluate(id physics.DetectorID, sig physics.Signature) physics.DetectionResult {
	return EvaluateBins(id, sig, features.DefaultHistogramBins)
}

// EvaluateBins runs one detector against a signature whose value entropy was
// computed over the given number of histogram bins. It is total: any
// non-finite intermediate degrades to threat 0.
func EvaluateBins(id physics.DetectorID, sig physics.Signature, bins int) physics.DetectionResult {
	result := physics.NewBenignResult(id)
	t, ok := tableFor(id)
	if !ok {
		return result
	}

	v := newView(sig.Features, bins)
	raw := 0.0
	for _, r := range t.rules {
		s := strength(r.eval, v)
		if s > 0 {
			result.MatchedPatterns = append(result.MatchedPatterns, r.Name)
		}
		raw += r.Weight * s
	}
	for _, e := range t.extended {
		if strength(e.eval, v) >= EXTENDED_HIT_STRENGTH {
			result.ExtendedHits = append(result.ExtendedHits, e.Domain)
		}
	}

	affinity := clamp01(AFFINITY_BASE + AFFINITY_GAIN*clamp01(sig.Scores.Score(id.Domain())))
	result.ThreatScore = clamp01(clamp01(raw) * affinity)
	result.Severity = physics.SeverityForThreat(result.ThreatScore)
	return result
}
