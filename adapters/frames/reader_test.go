package frames

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/industriverse/industriverse-sub012/internal/errors"
)

const telemetryCSV = `timestamp,pressure,temperature
2026-01-01T00:00:00Z,1.5,20
2026-01-01T00:00:01Z,1.25,21
2026-01-01T00:00:02Z,,22
2026-01-01T00:00:03Z,1.75,23
`

func TestReadCSV_ColumnSelection(t *testing.T) {
	tests := []struct {
		name   string
		column string
		want   []float64
	}{
		{"first numeric column", "", []float64{1.5, 1.25, 1.75}},
		{"named column", "temperature", []float64{20, 21, 22, 23}},
		{"case insensitive", "PRESSURE", []float64{1.5, 1.25, 1.75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(Config{Format: FormatCSV, Column: tt.column}, nil)
			frames, err := r.ReadCSV(strings.NewReader(telemetryCSV))
			require.NoError(t, err)
			require.Len(t, frames, 1)
			assert.Equal(t, tt.want, frames[0].Samples)
			assert.Equal(t, "csv", frames[0].Metadata["source"])
			assert.False(t, frames[0].ID.IsEmpty())
		})
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column string
		code   string
	}{
		{"missing column", telemetryCSV, "humidity", errors.CodeNotFound},
		{"bad cell", "v\n1\nabc\n", "", errors.CodeInvalidInput},
		{"header only", "v\n", "", errors.CodeInvalidInput},
		{"no numeric column", "name\nalpha\n", "", errors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(Config{Column: tt.column}, nil).ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestWindow(t *testing.T) {
	input := "v\n0\n1\n2\n3\n4\n5\n6\n"

	frames, err := NewReader(Config{Window: 3}, nil).ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, frames, 2, "trailing partial window is dropped")
	assert.Equal(t, []float64{0, 1, 2}, frames[0].Samples)
	assert.Equal(t, []float64{3, 4, 5}, frames[1].Samples)
	assert.Equal(t, "3", frames[1].Metadata["offset"])
	assert.NotEqual(t, frames[0].ID, frames[1].ID)

	frames, err = NewReader(Config{Window: 4, Stride: 2}, nil).ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, []float64{2, 3, 4, 5}, frames[1].Samples)

	frames, err = NewReader(Config{Window: 100}, nil).ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Len(t, frames[0].Samples, 7)
}

func TestReadJSON_Shapes(t *testing.T) {
	t.Run("flat array", func(t *testing.T) {
		frames, err := NewReader(Config{}, nil).ReadJSON([]byte(`[1, 2.5, -3]`))
		require.NoError(t, err)
		require.Len(t, frames, 1)
		assert.Equal(t, []float64{1, 2.5, -3}, frames[0].Samples)
	})

	t.Run("nested path", func(t *testing.T) {
		doc := `{"device": {"channels": [[1, 2], [3, 4, 5]]}}`
		frames, err := NewReader(Config{JSONPath: "device.channels"}, nil).ReadJSON([]byte(doc))
		require.NoError(t, err)
		require.Len(t, frames, 2)
		assert.Equal(t, []float64{3, 4, 5}, frames[1].Samples)
	})

	t.Run("frame objects", func(t *testing.T) {
		doc := `{"frames": [
			{"id": "pump-7", "samples": [0.1, 0.2, 0.3], "metadata": {"site": "north"}},
			{"samples": [1, 1]}
		]}`
		frames, err := NewReader(Config{JSONPath: "frames"}, nil).ReadJSON([]byte(doc))
		require.NoError(t, err)
		require.Len(t, frames, 2)
		assert.Equal(t, "pump-7", frames[0].ID.String())
		assert.Equal(t, "north", frames[0].Metadata["site"])
		assert.False(t, frames[1].ID.IsEmpty())
	})

	t.Run("windowed ids", func(t *testing.T) {
		doc := `[{"id": "m", "samples": [1, 2, 3, 4]}]`
		frames, err := NewReader(Config{Window: 2}, nil).ReadJSON([]byte(doc))
		require.NoError(t, err)
		require.Len(t, frames, 2)
		assert.Equal(t, "m@0", frames[0].ID.String())
		assert.Equal(t, "m@2", frames[1].ID.String())
	})
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		code string
	}{
		{"invalid json", `{`, "", errors.CodeInvalidInput},
		{"missing path", `{"a": [1]}`, "b", errors.CodeNotFound},
		{"not an array", `{"a": 1}`, "a", errors.CodeInvalidInput},
		{"empty array", `[]`, "", errors.CodeInvalidInput},
		{"string sample", `[1, "two"]`, "", errors.CodeInvalidInput},
		{"strings only", `["a"]`, "", errors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(Config{JSONPath: tt.path}, nil).ReadJSON([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestRead_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "time"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "current"))
	for i, v := range []float64{0.5, 0.75, 1.25} {
		row := i + 2
		require.NoError(t, f.SetCellValue("Sheet1", cell("A", row), i))
		require.NoError(t, f.SetCellValue("Sheet1", cell("B", row), v))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	frames, err := NewReader(Config{FilePath: path, Column: "current"}, nil).Read()
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []float64{0.5, 0.75, 1.25}, frames[0].Samples)
	assert.Equal(t, "xlsx:Sheet1", frames[0].Metadata["source"])

	_, err = NewReader(Config{FilePath: path, Sheet: "Missing"}, nil).Read()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("v\n1\n2\n3\n"), 0o600))

	frames, err := Load(csvPath, nil)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	_, err = Load(filepath.Join(dir, "absent.csv"), nil)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	txtPath := filepath.Join(dir, "series.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("1 2 3"), 0o600))
	_, err = Load(txtPath, nil)
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}

func TestParseSamples(t *testing.T) {
	got, err := ParseSamples([]byte("1, 2.5\n-3\t4e-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -3, 0.4}, got)

	_, err = ParseSamples([]byte("1 x 3"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatForPath("a/b.CSV"))
	assert.Equal(t, FormatXLSX, FormatForPath("book.xlsx"))
	assert.Equal(t, FormatJSON, FormatForPath("frames.json"))
	assert.Equal(t, Format(""), FormatForPath("notes.md"))
}

func cell(col string, row int) string {
	name, _ := excelize.JoinCellName(col, row)
	return name
}
