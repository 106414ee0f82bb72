package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal"
	"github.com/industriverse/industriverse-sub012/internal/errors"
)

var shieldVars = []string{
	"SHIELD_HISTOGRAM_BINS", "SHIELD_WORKERS", "SHIELD_PARALLEL_DETECTORS",
	"SHIELD_FUSION_ALPHA", "SHIELD_AGREEMENT_SEVERITY", "SHIELD_CONTINUITY_THRESHOLD",
	"SHIELD_ENERGY_TOLERANCE", "SHIELD_ENTROPY_TOLERANCE", "SHIELD_TEMPLATES_FILE",
	"SHIELD_METRICS_ADDR", "LOG_LEVEL",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range shieldVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Pipeline.HistogramBins)
	assert.GreaterOrEqual(t, cfg.Pipeline.Workers, 1)
	assert.True(t, cfg.Pipeline.ParallelDetectors)
	assert.Equal(t, 0.75, cfg.Fusion.Alpha)
	assert.Equal(t, physics.Medium, cfg.Fusion.AgreementSeverity)
	assert.Equal(t, 1.0, cfg.Validation.ContinuityThreshold)
	assert.Equal(t, internal.LogLevelInfo, cfg.Log.Level)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHIELD_HISTOGRAM_BINS", "64")
	t.Setenv("SHIELD_WORKERS", "3")
	t.Setenv("SHIELD_PARALLEL_DETECTORS", "false")
	t.Setenv("SHIELD_FUSION_ALPHA", "0.5")
	t.Setenv("SHIELD_AGREEMENT_SEVERITY", "high")
	t.Setenv("SHIELD_CONTINUITY_THRESHOLD", "2.5")
	t.Setenv("SHIELD_TEMPLATES_FILE", "/etc/shield/templates.yaml")
	t.Setenv("SHIELD_METRICS_ADDR", ":9102")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Pipeline.HistogramBins)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
	assert.False(t, cfg.Pipeline.ParallelDetectors)
	assert.Equal(t, 0.5, cfg.FusionOptions().Alpha)
	assert.Equal(t, physics.High, cfg.FusionOptions().AgreementThreshold)
	assert.Equal(t, 2.5, cfg.ValidationConfig().ContinuityThreshold)
	assert.Equal(t, "/etc/shield/templates.yaml", cfg.Classifier.TemplatesFile)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
	assert.Equal(t, internal.LogLevelDebug, cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SHIELD_HISTOGRAM_BINS", "many"},
		{"SHIELD_HISTOGRAM_BINS", "1"},
		{"SHIELD_WORKERS", "0"},
		{"SHIELD_PARALLEL_DETECTORS", "sometimes"},
		{"SHIELD_FUSION_ALPHA", "-1"},
		{"SHIELD_FUSION_ALPHA", "NaN"},
		{"SHIELD_AGREEMENT_SEVERITY", "benign"},
		{"SHIELD_AGREEMENT_SEVERITY", "extreme"},
		{"SHIELD_CONTINUITY_THRESHOLD", "-0.5"},
		{"LOG_LEVEL", "chatty"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, so unset the
	// ones the file provides for the duration of the test
	for _, key := range []string{"SHIELD_WORKERS", "SHIELD_FUSION_ALPHA"} {
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHIELD_WORKERS=5\nSHIELD_FUSION_ALPHA=0.25\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SHIELD_WORKERS")
		os.Unsetenv("SHIELD_FUSION_ALPHA")
	})

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Pipeline.Workers)
	assert.Equal(t, 0.25, cfg.Fusion.Alpha)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err, "a missing .env file is not an error")
}
