package physics

import (
	"fmt"
	"strings"
)

// ConsensusType classifies how many detectors agree a signature is anomalous
type ConsensusType uint8

const (
	Insufficient  ConsensusType = iota // fewer than 4 of 7
	Threshold                          // 4 of 7
	Majority                           // 5 of 7
	Supermajority                      // 6 of 7
	Unanimous                          // 7 of 7
)

var consensusNames = [...]string{"insufficient", "threshold", "majority", "supermajority", "unanimous"}

// ConsensusFor maps an agreeing-detector count to its consensus type
func ConsensusFor(agreeing int) ConsensusType {
	switch {
	case agreeing >= 7:
		return Unanimous
	case agreeing == 6:
		return Supermajority
	case agreeing == 5:
		return Majority
	case agreeing == 4:
		return Threshold
	default:
		return Insufficient
	}
}

func (c ConsensusType) String() string {
	if int(c) >= len(consensusNames) {
		return fmt.Sprintf("consensus(%d)", uint8(c))
	}
	return consensusNames[c]
}

func (c ConsensusType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ConsensusType) UnmarshalText(text []byte) error {
	normalized := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range consensusNames {
		if normalized == name {
			*c = ConsensusType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown consensus type: %q", string(text))
}

// ResponseAction is the recommended reaction to a fused verdict
type ResponseAction uint8

const (
	Monitor ResponseAction = iota
	Log
	Alert
	Mitigate
	Isolate
)

var responseNames = [...]string{"monitor", "log", "alert", "mitigate", "isolate"}

// Response band upper bounds (inclusive) on the ICI score
const (
	MonitorCeiling  = 20.0
	LogCeiling      = 40.0
	AlertCeiling    = 60.0
	MitigateCeiling = 80.0
)

// ResponseFor maps an ICI score to its band: [0,20] monitor, (20,40] log,
// (40,60] alert, (60,80] mitigate, (80,100] isolate
func ResponseFor(ici float64) ResponseAction {
	switch {
	case !(ici > MonitorCeiling): // also catches NaN
		return Monitor
	case ici <= LogCeiling:
		return Log
	case ici <= AlertCeiling:
		return Alert
	case ici <= MitigateCeiling:
		return Mitigate
	default:
		return Isolate
	}
}

func (r ResponseAction) String() string {
	if int(r) >= len(responseNames) {
		return fmt.Sprintf("response(%d)", uint8(r))
	}
	return responseNames[r]
}

func (r ResponseAction) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ResponseAction) UnmarshalText(text []byte) error {
	normalized := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range responseNames {
		if normalized == name {
			*r = ResponseAction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown response action: %q", string(text))
}

// FusionResult is the consensus verdict over all seven detectors
type FusionResult struct {
	ICIScore          float64        `json:"ici_score"`
	Consensus         ConsensusType  `json:"consensus_type"`
	AgreeingDetectors int            `json:"agreeing_detector_count"`
	Response          ResponseAction `json:"response_action"`
	MaxThreatDetector DetectorID     `json:"max_threat_detector"`
	MaxThreatScore    float64        `json:"max_threat_score"`
}
