package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelInfo).With("Batch")

	logger.Info("assessed %d frames", 3)
	logger.Debug("hidden")
	logger.Error("boom")

	out := buf.String()
	assert.Contains(t, out, "[INFO] [Batch] assessed 3 frames")
	assert.Contains(t, out, "[ERROR] [Batch] boom")
	assert.NotContains(t, out, "hidden")
}

func TestLogger_NilIsNoop(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.With("x").Warn("ignored %v", 1)
	})
	assert.Equal(t, LogLevelError, logger.GetLevel())
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, level)
	assert.Equal(t, "TRACE", LogLevelTrace.String())

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)
}
