// Package frames loads telemetry frames from CSV, XLSX and JSON files.
package frames

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal"
	"github.com/industriverse/industriverse-sub012/internal/errors"
)

// Reader turns a telemetry file into frames
type Reader struct {
	config Config
	logger *internal.Logger
}

// NewReader creates a reader; a missing format is inferred from the path
func NewReader(config Config, logger *internal.Logger) *Reader {
	if config.Format == "" {
		config.Format = FormatForPath(config.FilePath)
	}
	return &Reader{config: config, logger: logger.With("FrameReader")}
}

// Read loads every frame from the configured file
func (r *Reader) Read() ([]physics.TelemetryFrame, error) {
	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("telemetry file %s", r.config.FilePath))
	}

	switch r.config.Format {
	case FormatCSV:
		f, err := os.Open(r.config.FilePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", r.config.FilePath)
		}
		defer f.Close()
		return r.ReadCSV(f)
	case FormatXLSX:
		return r.readExcel()
	case FormatJSON:
		data, err := os.ReadFile(r.config.FilePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", r.config.FilePath)
		}
		return r.ReadJSON(data)
	default:
		return nil, errors.UnsupportedFormat(string(r.config.Format))
	}
}

// ReadCSV reads a headed CSV table and returns the selected column as frames
func (r *Reader) ReadCSV(src io.Reader) ([]physics.TelemetryFrame, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to parse CSV: %w", err))
	}
	r.logger.Debug("CSV read (%d rows)", len(rows))
	return r.fromRows(rows, "csv")
}

func (r *Reader) readExcel() ([]physics.TelemetryFrame, error) {
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	r.logger.Debug("sheet %s read (%d rows)", sheet, len(rows))
	return r.fromRows(rows, "xlsx:"+sheet)
}

// fromRows picks one column out of a header + data table
func (r *Reader) fromRows(rows [][]string, source string) ([]physics.TelemetryFrame, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("table must have a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	col, err := r.selectColumn(headers, rows[1:])
	if err != nil {
		return nil, err
	}

	samples := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d column %q: %q is not a number", i+2, headers[col], row[col]))
		}
		samples = append(samples, v)
	}

	r.logger.Info("%s: %d samples from column %q", source, len(samples), headers[col])
	return r.window(series{
		samples:  samples,
		metadata: map[string]string{"source": source, "column": headers[col]},
	}), nil
}

// selectColumn resolves the configured header, or the first column whose
// first non-empty cell parses as a number
func (r *Reader) selectColumn(headers []string, data [][]string) (int, error) {
	if r.config.Column != "" {
		for i, h := range headers {
			if strings.EqualFold(h, r.config.Column) {
				return i, nil
			}
		}
		return 0, errors.NotFound(fmt.Sprintf("column %q", r.config.Column))
	}

	for i := range headers {
		for _, row := range data {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
				return i, nil
			}
			break
		}
	}
	return 0, errors.InvalidInput("no numeric column found")
}

// ReadJSON extracts frames from a JSON document at the configured path
func (r *Reader) ReadJSON(data []byte) ([]physics.TelemetryFrame, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidInput("document is not valid JSON")
	}
	result := gjson.ParseBytes(data)
	if r.config.JSONPath != "" {
		result = gjson.GetBytes(data, r.config.JSONPath)
	}
	if !result.Exists() {
		return nil, errors.NotFound(fmt.Sprintf("json path %q", r.config.JSONPath))
	}
	if !result.IsArray() {
		return nil, errors.InvalidInput(fmt.Sprintf("json path %q is not an array", r.config.JSONPath))
	}

	elems := result.Array()
	if len(elems) == 0 {
		return nil, errors.InvalidInput("json array is empty")
	}

	var frames []physics.TelemetryFrame
	switch {
	case elems[0].Type == gjson.Number:
		samples, err := numbers(result)
		if err != nil {
			return nil, err
		}
		frames = r.window(series{samples: samples, metadata: map[string]string{"source": "json"}})
	case elems[0].IsArray():
		for i, e := range elems {
			samples, err := numbers(e)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			frames = append(frames, r.window(series{samples: samples, metadata: map[string]string{"source": "json"}})...)
		}
	case elems[0].IsObject():
		for i, e := range elems {
			s, err := objectSeries(e)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			frames = append(frames, r.window(s)...)
		}
	default:
		return nil, errors.InvalidInput("json array must hold numbers, arrays or frame objects")
	}

	r.logger.Info("json: %d frames", len(frames))
	return frames, nil
}

func numbers(arr gjson.Result) ([]float64, error) {
	if !arr.IsArray() {
		return nil, errors.InvalidInput("expected an array of numbers")
	}
	elems := arr.Array()
	out := make([]float64, len(elems))
	for i, v := range elems {
		if v.Type != gjson.Number {
			return nil, errors.InvalidInput(fmt.Sprintf("sample %d is %s, not a number", i, v.Type))
		}
		out[i] = v.Float()
	}
	return out, nil
}

func objectSeries(obj gjson.Result) (series, error) {
	samples, err := numbers(obj.Get("samples"))
	if err != nil {
		return series{}, err
	}
	s := series{id: obj.Get("id").String(), samples: samples}
	if meta := obj.Get("metadata"); meta.IsObject() {
		if err := json.Unmarshal([]byte(meta.Raw), &s.metadata); err != nil {
			return series{}, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("metadata: %w", err))
		}
	}
	return s, nil
}

// window cuts a series into frames. Frame IDs come from the series id when
// present, otherwise a fresh id is generated.
func (r *Reader) window(s series) []physics.TelemetryFrame {
	size, stride := r.config.Window, r.config.Stride
	if size <= 0 || size >= len(s.samples) {
		return []physics.TelemetryFrame{physics.NewTelemetryFrame(frameID(s.id, -1), s.samples, s.metadata)}
	}
	if stride <= 0 {
		stride = size
	}

	var out []physics.TelemetryFrame
	for start := 0; start+size <= len(s.samples); start += stride {
		meta := make(map[string]string, len(s.metadata)+1)
		for k, v := range s.metadata {
			meta[k] = v
		}
		meta["offset"] = strconv.Itoa(start)
		out = append(out, physics.NewTelemetryFrame(frameID(s.id, start), s.samples[start:start+size], meta))
	}
	return out
}

func frameID(base string, offset int) core.FrameID {
	if base == "" {
		return core.NewFrameID()
	}
	if offset < 0 {
		return core.FrameID(base)
	}
	return core.FrameID(fmt.Sprintf("%s@%d", base, offset))
}

// Load reads frames from path using the format implied by its extension
func Load(path string, logger *internal.Logger) ([]physics.TelemetryFrame, error) {
	return NewReader(DefaultConfig(path), logger).Read()
}

// ParseSamples reads whitespace or comma separated numbers, the format the
// CLI accepts on stdin
func ParseSamples(data []byte) ([]float64, error) {
	fields := bytes.FieldsFunc(data, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(string(f), 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("sample %d: %q is not a number", i, f))
		}
		out = append(out, v)
	}
	return out, nil
}
