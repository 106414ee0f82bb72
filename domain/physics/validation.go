package physics

// ValidationResult reports the three independent checks on one signature
type ValidationResult struct {
	HashIntegrityOK   bool     `json:"hash_integrity_ok"`
	FeaturesValid     bool     `json:"features_valid"`
	DomainScoresValid bool     `json:"domain_scores_valid"`
	Violations        []string `json:"violations,omitempty"`
}

// Valid is true iff every check passed
func (r ValidationResult) Valid() bool {
	return r.HashIntegrityOK && r.FeaturesValid && r.DomainScoresValid
}

// Continuity says whether a transition moved smoothly through feature space
type Continuity uint8

const (
	Continuous Continuity = iota
	Discontinuous
)

func (c Continuity) String() string {
	if c == Continuous {
		return "continuous"
	}
	return "discontinuous"
}

func (c Continuity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Conservation says whether a transition respected energy/entropy tolerances
type Conservation uint8

const (
	ConservationPreserving Conservation = iota
	ConservationViolating
)

func (c Conservation) String() string {
	if c == ConservationPreserving {
		return "conservation_preserving"
	}
	return "conservation_violating"
}

func (c Conservation) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// TransitionValidation compares two signatures of the same logical entity.
// Integrity flags hold only if they hold for both endpoints.
type TransitionValidation struct {
	HashIntegrityOK   bool         `json:"hash_integrity_ok"`
	FeaturesValid     bool         `json:"features_valid"`
	DomainScoresValid bool         `json:"domain_scores_valid"`
	EnergyDeltaRatio  float64      `json:"energy_delta_ratio"`
	EntropyDelta      float64      `json:"entropy_delta"`
	FeatureDistance   float64      `json:"feature_distance"`
	Continuity        Continuity   `json:"continuity"`
	Conservation      Conservation `json:"conservation"`
}

// TransitionType renders the orthogonal pair, e.g. "continuous/conservation_preserving"
func (t TransitionValidation) TransitionType() string {
	return t.Continuity.String() + "/" + t.Conservation.String()
}
