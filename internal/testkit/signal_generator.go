package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
)

// SignalKind names a synthetic telemetry shape
type SignalKind string

const (
	SignalSine      SignalKind = "sine"
	SignalNoise     SignalKind = "noise"
	SignalTelegraph SignalKind = "telegraph"
	SignalRedNoise  SignalKind = "red_noise"
	SignalDrift     SignalKind = "drift"
	SignalBursts    SignalKind = "bursts"
	SignalHarmonic  SignalKind = "harmonic"
	SignalConstant  SignalKind = "constant"
)

// AllSignalKinds lists every generator shape
func AllSignalKinds() []SignalKind {
	return []SignalKind{
		SignalSine, SignalNoise, SignalTelegraph, SignalRedNoise,
		SignalDrift, SignalBursts, SignalHarmonic, SignalConstant,
	}
}

// SignalConfig configures the signal generator
type SignalConfig struct {
	Samples   int     `json:"samples"`
	Cycles    float64 `json:"cycles"`    // sine: full periods across the frame
	Amplitude float64 `json:"amplitude"` // peak (sine) or standard deviation (noise)
	Offset    float64 `json:"offset"`
	Slope     float64 `json:"slope"` // drift: units per sample
	Phi       float64 `json:"phi"`   // red noise: AR(1) coefficient
	Seed      int64   `json:"seed"`
}

// DefaultSignalConfig returns a 256-sample, unit-amplitude configuration
func DefaultSignalConfig() SignalConfig {
	return SignalConfig{
		Samples:   256,
		Cycles:    8,
		Amplitude: 1,
		Slope:     0.5,
		Phi:       0.9,
		Seed:      42,
	}
}

// SignalGenerator produces deterministic synthetic telemetry frames
type SignalGenerator struct {
	config SignalConfig
	rng    *rand.Rand
}

// NewSignalGenerator creates a generator; the same config always yields the same frames
func NewSignalGenerator(config SignalConfig) *SignalGenerator {
	if config.Samples <= 0 {
		config.Samples = DefaultSignalConfig().Samples
	}
	return &SignalGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Frame generates one frame of the given shape
func (g *SignalGenerator) Frame(kind SignalKind) (physics.TelemetryFrame, error) {
	var samples []float64
	switch kind {
	case SignalSine:
		samples = Sine(g.config.Samples, g.config.Cycles, g.config.Amplitude)
	case SignalNoise:
		samples = g.gaussian()
	case SignalTelegraph:
		samples = g.telegraph()
	case SignalRedNoise:
		samples = g.redNoise()
	case SignalDrift:
		samples = g.drift()
	case SignalBursts:
		samples = g.bursts()
	case SignalHarmonic:
		samples = g.harmonic()
	case SignalConstant:
		samples = make([]float64, g.config.Samples)
	default:
		return physics.TelemetryFrame{}, fmt.Errorf("unknown signal kind: %s", kind)
	}

	for i := range samples {
		samples[i] += g.config.Offset
	}
	meta := map[string]string{
		"generator": string(kind),
		"seed":      fmt.Sprint(g.config.Seed),
	}
	return physics.NewTelemetryFrame(core.FrameID(fmt.Sprintf("synthetic-%s-%d", kind, g.config.Seed)), samples, meta), nil
}

// MustFrame is Frame for test fixtures
func (g *SignalGenerator) MustFrame(kind SignalKind) physics.TelemetryFrame {
	frame, err := g.Frame(kind)
	if err != nil {
		panic(err)
	}
	return frame
}

// Sine returns n samples of amplitude*sin(2*pi*cycles*i/n)
func Sine(n int, cycles, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*cycles*float64(i)/float64(n))
	}
	return out
}

func (g *SignalGenerator) gaussian() []float64 {
	out := make([]float64, g.config.Samples)
	for i := range out {
		out[i] = g.rng.NormFloat64() * g.config.Amplitude
	}
	return out
}

// telegraph flips between +amplitude and -amplitude with probability 0.1 per sample
func (g *SignalGenerator) telegraph() []float64 {
	out := make([]float64, g.config.Samples)
	state := g.config.Amplitude
	for i := range out {
		if g.rng.Float64() < 0.1 {
			state = -state
		}
		out[i] = state
	}
	return out
}

func (g *SignalGenerator) redNoise() []float64 {
	out := make([]float64, g.config.Samples)
	prev := 0.0
	innovation := g.config.Amplitude * math.Sqrt(1-g.config.Phi*g.config.Phi)
	for i := range out {
		prev = g.config.Phi*prev + g.rng.NormFloat64()*innovation
		out[i] = prev
	}
	return out
}

func (g *SignalGenerator) drift() []float64 {
	out := make([]float64, g.config.Samples)
	for i := range out {
		out[i] = g.config.Slope*float64(i) + g.rng.NormFloat64()*0.01*g.config.Amplitude
	}
	return out
}

// bursts is quiet low-level noise with rare large one-sided discharges
func (g *SignalGenerator) bursts() []float64 {
	out := make([]float64, g.config.Samples)
	for i := range out {
		out[i] = g.rng.NormFloat64() * 0.1 * g.config.Amplitude
		if g.rng.Float64() < 0.03 {
			out[i] += 8 * g.config.Amplitude * (1 + g.rng.Float64())
		}
	}
	return out
}

// harmonic is a periodic waveform built from three phase-shifted partials
func (g *SignalGenerator) harmonic() []float64 {
	n := g.config.Samples
	out := make([]float64, n)
	for i := range out {
		phase := 2 * math.Pi * g.config.Cycles * float64(i) / float64(n) / 2
		out[i] = g.config.Amplitude * (math.Sin(phase) +
			0.6*math.Sin(3*phase+0.3) +
			0.35*math.Sin(5*phase+0.7))
	}
	return out
}
