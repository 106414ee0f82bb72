package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/industriverse/industriverse-sub012/internal/classifier"
	"github.com/industriverse/industriverse-sub012/internal/testkit"
)

// run executes the CLI with an isolated .env path and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHIELD_TEMPLATES_FILE", "")
	t.Setenv("SHIELD_METRICS_ADDR", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeSeries(t *testing.T, name string, samples []float64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("value\n")
	for _, v := range samples {
		fmt.Fprintf(&b, "%.17g\n", v)
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func samplesText(samples []float64) string {
	parts := make([]string, len(samples))
	for i, v := range samples {
		parts[i] = fmt.Sprintf("%.17g", v)
	}
	return strings.Join(parts, " ")
}

func TestAnalyze_Stdin(t *testing.T) {
	out, err := run(t, samplesText(testkit.Sine(256, 8, 1)), "analyze")
	require.NoError(t, err)

	assert.Equal(t, int64(1), gjson.Get(out, "assessed").Int())
	assert.Equal(t, "stdin", gjson.Get(out, "items.0.frame_id").String())
	assert.Equal(t, "monitor", gjson.Get(out, "items.0.assessment.fusion.response_action").String())
	assert.Equal(t, "electromagnetic", gjson.Get(out, "items.0.assessment.signature.primary_domain").String())
	assert.Len(t, gjson.Get(out, "items.0.assessment.detections").Array(), 7)
}

func TestAnalyze_WindowedFile(t *testing.T) {
	path := writeSeries(t, "series.csv", testkit.Sine(512, 16, 1))
	out, err := run(t, "", "analyze", path, "--window", "256", "--workers", "2")
	require.NoError(t, err)

	assert.Equal(t, int64(2), gjson.Get(out, "assessed").Int())
	assert.Equal(t, int64(0), gjson.Get(out, "failed").Int())
	assert.Equal(t, int64(2), gjson.Get(out, "responses.monitor").Int())
}

func TestAnalyze_BadInput(t *testing.T) {
	_, err := run(t, "1 2 banana", "analyze")
	assert.Error(t, err)

	_, err = run(t, "", "analyze", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestHash_Deterministic(t *testing.T) {
	path := writeSeries(t, "tone.csv", testkit.Sine(256, 8, 1))
	first, err := run(t, "", "hash", path)
	require.NoError(t, err)
	second, err := run(t, "", "hash", path)
	require.NoError(t, err)

	hash := gjson.Get(first, "0.pde_hash").String()
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, gjson.Get(second, "0.pde_hash").String())
}

func TestTransition(t *testing.T) {
	from := writeSeries(t, "from.csv", testkit.Sine(256, 8, 1))
	to := writeSeries(t, "to.csv", testkit.Sine(256, 8, 1.02))

	out, err := run(t, "", "transition", from, to)
	require.NoError(t, err)
	assert.Equal(t, "continuous/conservation_preserving", gjson.Get(out, "transition_type").String())
	assert.True(t, gjson.Get(out, "transition.hash_integrity_ok").Bool())

	_, err = run(t, "", "transition", from)
	assert.Error(t, err, "two files are required")
}

func TestFixtures(t *testing.T) {
	out, err := run(t, "", "fixtures")
	require.NoError(t, err)
	assert.Contains(t, out, "binary64_product_halves")
	assert.NotContains(t, out, "false")
}

func TestTemplates_RoundTrip(t *testing.T) {
	out, err := run(t, "", "templates")
	require.NoError(t, err)

	set, err := classifier.DecodeTemplates(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, classifier.DefaultTemplateSet(), set)

	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	_, err = run(t, samplesText(testkit.Sine(64, 4, 1)), "--templates", path, "analyze")
	assert.NoError(t, err)
}

func TestDemo(t *testing.T) {
	out, err := run(t, "", "demo", "--seed", "7")
	require.NoError(t, err)
	for _, kind := range testkit.AllSignalKinds() {
		assert.Contains(t, out, string(kind))
	}
	assert.Contains(t, out, "RESPONSE")
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, err := run(t, "", "--log-level", "loud", "fixtures")
	assert.Error(t, err)
}
