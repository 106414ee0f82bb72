package physics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DomainID identifies one of the seven reference domains. The ordinal is
// part of the canonical hash layout and must never be renumbered.
type DomainID uint8

const (
	MolecularDynamics DomainID = iota
	PlasmaPhysics
	QuantumMechanics
	FluidDynamics
	CrystalLattice
	Electromagnetic
	Thermodynamic
)

// DomainCount is the number of reference domains
const DomainCount = 7

var domainNames = [DomainCount]string{
	"molecular_dynamics",
	"plasma_physics",
	"quantum_mechanics",
	"fluid_dynamics",
	"crystal_lattice",
	"electromagnetic",
	"thermodynamic",
}

// AllDomains returns every domain in ordinal order
func AllDomains() [DomainCount]DomainID {
	var out [DomainCount]DomainID
	for i := range out {
		out[i] = DomainID(i)
	}
	return out
}

// Valid reports whether d is one of the seven domains
func (d DomainID) Valid() bool {
	return int(d) < DomainCount
}

func (d DomainID) String() string {
	if !d.Valid() {
		return fmt.Sprintf("domain(%d)", uint8(d))
	}
	return domainNames[d]
}

// ParseDomainID accepts the snake_case name or the ordinal
func ParseDomainID(s string) (DomainID, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for i, name := range domainNames {
		if normalized == name || normalized == fmt.Sprint(i) {
			return DomainID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown domain: %q", s)
}

func (d DomainID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DomainID) UnmarshalText(text []byte) error {
	parsed, err := ParseDomainID(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DomainScores maps each domain (by ordinal) to a score in [0,1].
// Scores are expected to sum to approximately 1.
type DomainScores [DomainCount]float64

// Score returns the score for d, or 0 for an invalid domain
func (s DomainScores) Score(d DomainID) float64 {
	if !d.Valid() {
		return 0
	}
	return s[d]
}

// Sum adds the scores in ordinal order
func (s DomainScores) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Primary returns the argmax domain; ties resolve to the lowest ordinal
func (s DomainScores) Primary() DomainID {
	best := DomainID(0)
	for i := 1; i < DomainCount; i++ {
		if s[i] > s[best] {
			best = DomainID(i)
		}
	}
	return best
}

// MarshalJSON renders scores keyed by domain name
func (s DomainScores) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, DomainCount)
	for i, v := range s {
		m[domainNames[i]] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads scores keyed by domain name
func (s *DomainScores) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out DomainScores
	for k, v := range m {
		d, err := ParseDomainID(k)
		if err != nil {
			return err
		}
		out[d] = v
	}
	*s = out
	return nil
}
