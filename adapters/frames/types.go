package frames

import (
	"path/filepath"
	"strings"
)

// Format names a supported telemetry file layout
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Config selects where samples come from and how a long series is cut into frames
type Config struct {
	FilePath string `json:"file_path"`
	Format   Format `json:"format"` // inferred from the extension when empty

	// Tabular sources
	Column string `json:"column"` // header name; empty picks the first numeric column
	Sheet  string `json:"sheet"`  // xlsx only; empty picks the first sheet

	// JSON sources: a gjson path to an array of numbers, an array of
	// arrays, or an array of {"id", "samples", "metadata"} objects
	JSONPath string `json:"json_path"`

	// Window cuts a single series into frames of this many samples; 0 keeps
	// the whole series as one frame. Stride defaults to Window.
	Window int `json:"window"`
	Stride int `json:"stride"`
}

// DefaultConfig returns a config for path with the format taken from its extension
func DefaultConfig(path string) Config {
	return Config{FilePath: path, Format: FormatForPath(path)}
}

// FormatForPath maps a file extension to a Format, or "" when unknown
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".json":
		return FormatJSON
	default:
		return ""
	}
}

// series is one named run of samples before windowing
type series struct {
	id       string
	samples  []float64
	metadata map[string]string
}
