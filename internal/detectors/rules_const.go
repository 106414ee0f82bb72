package detectors

// rules_const.go
//
// Centralized coefficients for the seven detector rule tables. Each rule maps
// a feature (or a derived ratio) through a linear ramp between a LO and a HI
// bound: below LO the rule is silent, above HI it is saturated.
//
// Any change to a bound or weight in this file changes detector output and
// must bump RuleSetVersion.

// RuleSetVersion identifies the coefficient set below
const RuleSetVersion = "shield-rules/v1"

// ============================================================================
// SHARED
// ============================================================================

const (
	// EPSILON guards every ratio denominator
	EPSILON = 1e-9

	// AFFINITY_BASE and AFFINITY_GAIN scale a detector's threat by how strongly
	// the classifier placed the frame in the detector's own domain:
	// affinity = AFFINITY_BASE + AFFINITY_GAIN * score[own domain]
	AFFINITY_BASE = 0.85
	AFFINITY_GAIN = 0.30

	// EXTENDED_HIT_STRENGTH is the minimum extended-rule strength that attaches
	// a label
	EXTENDED_HIT_STRENGTH = 0.5
)

// ============================================================================
// 1. THERMAL AGITATION (molecular dynamics)
// ============================================================================

const (
	// White spectrum: spectral entropy approaching ln(n/2+1)
	THERMAL_SATURATION_LO     = 4.0
	THERMAL_SATURATION_HI     = 4.8
	THERMAL_SATURATION_WEIGHT = 0.40

	// Heavy tails beyond Gaussian kurtosis (3)
	THERMAL_TAIL_LO     = 6.0
	THERMAL_TAIL_HI     = 12.0
	THERMAL_TAIL_WEIGHT = 0.35

	// Roughness above white noise (2.0): anti-correlated agitation
	THERMAL_AGITATION_LO     = 2.2
	THERMAL_AGITATION_HI     = 3.5
	THERMAL_AGITATION_WEIGHT = 0.25

	// Near-uniform value histogram on a white spectrum
	SPOOF_UNIFORMITY_LO = 0.97
	SPOOF_UNIFORMITY_HI = 0.995
)

// ============================================================================
// 2. PLASMA DISCHARGE
// ============================================================================

const (
	PLASMA_BURST_LO     = 5.0
	PLASMA_BURST_HI     = 15.0
	PLASMA_BURST_WEIGHT = 0.45

	PLASMA_SKEW_LO     = 1.0
	PLASMA_SKEW_HI     = 3.0
	PLASMA_SKEW_WEIGHT = 0.35

	// Broadband flare: white spectrum with moderate tails
	PLASMA_FLARE_SPECTRAL_LO = 4.0
	PLASMA_FLARE_SPECTRAL_HI = 4.6
	PLASMA_FLARE_KURTOSIS_LO = 4.0
	PLASMA_FLARE_KURTOSIS_HI = 8.0
	PLASMA_FLARE_WEIGHT      = 0.20

	// Extreme outliers consistent with injected values
	POISONING_KURTOSIS_LO = 50.0
	POISONING_KURTOSIS_HI = 100.0
)

// ============================================================================
// 3. QUANTUM TUNNELING
// ============================================================================

const (
	// 1 - entropy/max: value mass collapsed into few histogram bins
	QUANTUM_COLLAPSE_LO     = 0.60
	QUANTUM_COLLAPSE_HI     = 0.85
	QUANTUM_COLLAPSE_WEIGHT = 0.40

	QUANTUM_JUMP_LO     = 2.5
	QUANTUM_JUMP_HI     = 4.0
	QUANTUM_JUMP_WEIGHT = 0.25

	// 1.6 - kurtosis: two-state distributions sit near kurtosis 1
	QUANTUM_BIMODAL_CEILING = 1.6
	QUANTUM_BIMODAL_LO      = 0.2
	QUANTUM_BIMODAL_HI      = 0.5
	QUANTUM_BIMODAL_WEIGHT  = 0.35

	// Persistent state switching
	AGENT_PERSISTENCE_LO = 0.5
	AGENT_PERSISTENCE_HI = 0.8
)

// ============================================================================
// 4. FLUID TURBULENCE
// ============================================================================

const (
	FLUID_CASCADE_SPECTRAL_LO = 2.5
	FLUID_CASCADE_SPECTRAL_HI = 4.0
	FLUID_CASCADE_AUTOCORR_LO = 0.5
	FLUID_CASCADE_AUTOCORR_HI = 0.9
	FLUID_CASCADE_WEIGHT      = 0.50

	FLUID_GRADIENT_LO     = 1.2
	FLUID_GRADIENT_HI     = 2.5
	FLUID_GRADIENT_WEIGHT = 0.30

	FLUID_INTERMITTENCY_KURTOSIS_LO = 4.0
	FLUID_INTERMITTENCY_KURTOSIS_HI = 8.0
	FLUID_INTERMITTENCY_SPECTRAL_LO = 2.0
	FLUID_INTERMITTENCY_SPECTRAL_HI = 4.0
	FLUID_INTERMITTENCY_WEIGHT      = 0.20

	// Strong coherence across a broad spectrum
	SWARM_AUTOCORR_LO = 0.90
	SWARM_AUTOCORR_HI = 0.99
	SWARM_SPECTRAL_LO = 2.0
	SWARM_SPECTRAL_HI = 3.5
)

// ============================================================================
// 5. LATTICE DEFECT (crystal lattice)
// ============================================================================

const (
	LATTICE_DISTORTION_SPECTRAL_LO = 1.0
	LATTICE_DISTORTION_SPECTRAL_HI = 2.5
	LATTICE_DISTORTION_AUTOCORR_LO = 0.60
	LATTICE_DISTORTION_AUTOCORR_HI = 0.95
	LATTICE_DISTORTION_WEIGHT      = 0.45

	// |gradient| / std
	LATTICE_SLIP_LO     = 0.05
	LATTICE_SLIP_HI     = 0.20
	LATTICE_SLIP_WEIGHT = 0.30

	LATTICE_DISLOCATION_ROUGHNESS_LO = 0.5
	LATTICE_DISLOCATION_ROUGHNESS_HI = 1.5
	LATTICE_DISLOCATION_AUTOCORR_LO  = 0.5
	LATTICE_DISLOCATION_AUTOCORR_HI  = 0.95
	LATTICE_DISLOCATION_WEIGHT       = 0.25
)

// ============================================================================
// 6. EM RESONANCE (electromagnetic)
// ============================================================================

const (
	EM_OVERDRIVE_LO     = 4.0
	EM_OVERDRIVE_HI     = 16.0
	EM_OVERDRIVE_WEIGHT = 0.40

	// Dominant frequency crowding the Nyquist bin
	EM_ALIASING_LO     = 0.80
	EM_ALIASING_HI     = 0.95
	EM_ALIASING_WEIGHT = 0.35

	EM_SPIKE_DENSITY_LO  = 0.5
	EM_SPIKE_DENSITY_HI  = 5.0
	EM_SPIKE_SPECTRAL_LO = 0.5
	EM_SPIKE_SPECTRAL_HI = 2.0
	EM_SPIKE_WEIGHT      = 0.25

	// Near-perfect coherence on a near-pure tone
	FIELD_COHERENCE_LO = 0.995
	FIELD_COHERENCE_HI = 0.9999
	FIELD_SPECTRAL_LO  = 0.2
	FIELD_SPECTRAL_HI  = 1.0
)

// ============================================================================
// 7. ENTROPY REVERSAL (thermodynamic)
// ============================================================================

const (
	// |gradient| / sqrt(temporal variance): drift dominating step noise
	ENTROPY_RUNAWAY_LO     = 0.5
	ENTROPY_RUNAWAY_HI     = 2.0
	ENTROPY_RUNAWAY_WEIGHT = 0.50

	// |mean| / std
	ENTROPY_ACCUMULATION_LO     = 3.0
	ENTROPY_ACCUMULATION_HI     = 10.0
	ENTROPY_ACCUMULATION_WEIGHT = 0.30

	ENTROPY_PERSISTENCE_AUTOCORR_LO = 0.999
	ENTROPY_PERSISTENCE_AUTOCORR_HI = 1.0
	ENTROPY_PERSISTENCE_GRADIENT_LO = 0.01
	ENTROPY_PERSISTENCE_GRADIENT_HI = 0.1
	ENTROPY_PERSISTENCE_WEIGHT      = 0.20

	// |gradient| / std: slow drift of the operating point
	DRIFT_SLOPE_LO = 0.005
	DRIFT_SLOPE_HI = 0.02
)
