package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal"
	"github.com/industriverse/industriverse-sub012/internal/errors"
	"github.com/industriverse/industriverse-sub012/internal/features"
	"github.com/industriverse/industriverse-sub012/internal/fusion"
	"github.com/industriverse/industriverse-sub012/internal/validation"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline   PipelineConfig
	Fusion     FusionConfig
	Validation ValidationConfig
	Classifier ClassifierConfig
	Metrics    MetricsConfig
	Log        LogConfig
}

// PipelineConfig holds extraction and scheduling settings
type PipelineConfig struct {
	HistogramBins     int
	Workers           int
	ParallelDetectors bool
}

// FusionConfig holds consensus settings
type FusionConfig struct {
	Alpha             float64
	AgreementSeverity physics.Severity
}

// ValidationConfig holds transition tolerances
type ValidationConfig struct {
	ContinuityThreshold float64
	EnergyTolerance     float64
	EntropyTolerance    float64
}

// ClassifierConfig points at an optional YAML template table
type ClassifierConfig struct {
	TemplatesFile string
}

// MetricsConfig holds the Prometheus listener address; empty disables it
type MetricsConfig struct {
	Addr string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level internal.LogLevel
}

// Default returns the configuration used when no variable is set
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			HistogramBins:     features.DefaultHistogramBins,
			Workers:           runtime.GOMAXPROCS(0),
			ParallelDetectors: true,
		},
		Fusion: FusionConfig{
			Alpha:             fusion.DefaultAlpha,
			AgreementSeverity: fusion.DefaultAgreementThreshold,
		},
		Validation: ValidationConfig{
			ContinuityThreshold: validation.DefaultContinuityThreshold,
			EnergyTolerance:     validation.DefaultEnergyTolerance,
			EntropyTolerance:    validation.DefaultEntropyTolerance,
		},
		Log: LogConfig{Level: internal.LogLevelInfo},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := Default()
	var err error

	if config.Pipeline.HistogramBins, err = envInt("SHIELD_HISTOGRAM_BINS", config.Pipeline.HistogramBins); err != nil {
		return nil, err
	}
	if config.Pipeline.Workers, err = envInt("SHIELD_WORKERS", config.Pipeline.Workers); err != nil {
		return nil, err
	}
	if config.Pipeline.ParallelDetectors, err = envBool("SHIELD_PARALLEL_DETECTORS", config.Pipeline.ParallelDetectors); err != nil {
		return nil, err
	}
	if config.Fusion.Alpha, err = envFloat("SHIELD_FUSION_ALPHA", config.Fusion.Alpha); err != nil {
		return nil, err
	}
	if value := os.Getenv("SHIELD_AGREEMENT_SEVERITY"); value != "" {
		severity, err := physics.ParseSeverity(value)
		if err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "SHIELD_AGREEMENT_SEVERITY")
		}
		config.Fusion.AgreementSeverity = severity
	}
	if config.Validation.ContinuityThreshold, err = envFloat("SHIELD_CONTINUITY_THRESHOLD", config.Validation.ContinuityThreshold); err != nil {
		return nil, err
	}
	if config.Validation.EnergyTolerance, err = envFloat("SHIELD_ENERGY_TOLERANCE", config.Validation.EnergyTolerance); err != nil {
		return nil, err
	}
	if config.Validation.EntropyTolerance, err = envFloat("SHIELD_ENTROPY_TOLERANCE", config.Validation.EntropyTolerance); err != nil {
		return nil, err
	}
	config.Classifier.TemplatesFile = getEnvOrDefault("SHIELD_TEMPLATES_FILE", "")
	config.Metrics.Addr = getEnvOrDefault("SHIELD_METRICS_ADDR", "")
	if value := os.Getenv("LOG_LEVEL"); value != "" {
		level, err := internal.ParseLogLevel(value)
		if err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "LOG_LEVEL")
		}
		config.Log.Level = level
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// LoadFile loads a .env file (missing files are ignored) and then the environment.
// Variables already set in the process take precedence over the file.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read %s", path)
		}
	}
	return Load()
}

// Validate checks ranges that the components would otherwise reject later
func (c *Config) Validate() error {
	if c.Pipeline.HistogramBins < 2 {
		return errors.ConfigInvalid("histogram bins must be at least 2")
	}
	if c.Pipeline.Workers < 1 {
		return errors.ConfigInvalid("workers must be at least 1")
	}
	if err := c.FusionOptions().Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := c.ValidationConfig().Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// FusionOptions converts to the fusion engine options
func (c *Config) FusionOptions() fusion.Options {
	return fusion.Options{Alpha: c.Fusion.Alpha, AgreementThreshold: c.Fusion.AgreementSeverity}
}

// ValidationConfig converts to the validator config
func (c *Config) ValidationConfig() validation.Config {
	return validation.Config{
		EnergyTolerance:     c.Validation.EnergyTolerance,
		EntropyTolerance:    c.Validation.EntropyTolerance,
		ContinuityThreshold: c.Validation.ContinuityThreshold,
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	value := getEnvOrDefault(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(errors.ConfigInvalid(err.Error()), "%s must be an integer", key)
	}
	return parsed, nil
}

func envFloat(key string, defaultValue float64) (float64, error) {
	value := getEnvOrDefault(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ConfigInvalid(err.Error()), "%s must be a number", key)
	}
	return parsed, nil
}

func envBool(key string, defaultValue bool) (bool, error) {
	value := getEnvOrDefault(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(errors.ConfigInvalid(err.Error()), "%s must be a boolean", key)
	}
	return parsed, nil
}
