package physics

import (
	"fmt"
	"strings"
)

// DetectorID identifies one of the seven detectors. Each detector is
// specialized to the domain with the same ordinal.
type DetectorID uint8

const (
	ThermalAgitation DetectorID = iota
	PlasmaDischarge
	QuantumTunneling
	FluidTurbulence
	LatticeDefect
	EMResonance
	EntropyReversal
)

// DetectorCount is the fixed size of the detector suite
const DetectorCount = 7

var detectorNames = [DetectorCount]string{
	"thermal_agitation",
	"plasma_discharge",
	"quantum_tunneling",
	"fluid_turbulence",
	"lattice_defect",
	"em_resonance",
	"entropy_reversal",
}

// AllDetectors returns every detector in ordinal order
func AllDetectors() [DetectorCount]DetectorID {
	var out [DetectorCount]DetectorID
	for i := range out {
		out[i] = DetectorID(i)
	}
	return out
}

// Valid reports whether id names one of the seven detectors
func (id DetectorID) Valid() bool {
	return int(id) < DetectorCount
}

// Domain returns the reference domain the detector specializes in
func (id DetectorID) Domain() DomainID {
	return DomainID(id)
}

func (id DetectorID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("detector(%d)", uint8(id))
	}
	return detectorNames[id]
}

// ParseDetectorID accepts the snake_case detector name
func ParseDetectorID(s string) (DetectorID, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for i, name := range detectorNames {
		if normalized == name {
			return DetectorID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown detector: %q", s)
}

func (id DetectorID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *DetectorID) UnmarshalText(text []byte) error {
	parsed, err := ParseDetectorID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Severity is an ordered categorical threat level
type Severity uint8

const (
	Benign Severity = iota
	Low
	Medium
	High
	Critical
)

var severityNames = [...]string{"benign", "low", "medium", "high", "critical"}

// Severity bucket upper bounds (exclusive) on threat score
const (
	BenignCeiling = 0.2
	LowCeiling    = 0.4
	MediumCeiling = 0.6
	HighCeiling   = 0.8
)

// SeverityForThreat buckets a threat score: <0.2 benign, <0.4 low,
// <0.6 medium, <0.8 high, otherwise critical
func SeverityForThreat(score float64) Severity {
	switch {
	case !(score >= BenignCeiling): // also catches NaN
		return Benign
	case score < LowCeiling:
		return Low
	case score < MediumCeiling:
		return Medium
	case score < HighCeiling:
		return High
	default:
		return Critical
	}
}

func (s Severity) String() string {
	if int(s) >= len(severityNames) {
		return fmt.Sprintf("severity(%d)", uint8(s))
	}
	return severityNames[s]
}

// ParseSeverity accepts the lowercase severity name
func ParseSeverity(s string) (Severity, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for i, name := range severityNames {
		if normalized == name {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity: %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ExtendedDomain is a secondary interpretation label a detector may attach
type ExtendedDomain string

const (
	AgentBehavior       ExtendedDomain = "agent_behavior"
	SimulationIntegrity ExtendedDomain = "simulation_integrity"
	ConsciousnessField  ExtendedDomain = "consciousness_field"
	SensorSpoofing      ExtendedDomain = "sensor_spoofing"
	SwarmCoordination   ExtendedDomain = "swarm_coordination"
	DataPoisoning       ExtendedDomain = "data_poisoning"
	ModelDrift          ExtendedDomain = "model_drift"
)

// DetectionResult is one detector's verdict on one signature
type DetectionResult struct {
	Detector        DetectorID       `json:"detector_id"`
	ThreatScore     float64          `json:"threat_score"`
	Severity        Severity         `json:"severity"`
	MatchedPatterns []string         `json:"matched_patterns"`
	ExtendedHits    []ExtendedDomain `json:"extended_domain_hits"`
}

// NewBenignResult is the neutral verdict a detector degrades to
func NewBenignResult(id DetectorID) DetectionResult {
	return DetectionResult{
		Detector:        id,
		ThreatScore:     0,
		Severity:        Benign,
		MatchedPatterns: []string{},
		ExtendedHits:    []ExtendedDomain{},
	}
}
