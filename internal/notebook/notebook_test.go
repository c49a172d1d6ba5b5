// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "array of lines",
			json: `{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[{"cell_type":"markdown","metadata":{},"source":["# Title\n","body"]}]}`,
			want: "# Title\nbody",
		},
		{
			name: "single string",
			json: `{"nbformat":4,"nbformat_minor":2,"metadata":{},"cells":[{"cell_type":"markdown","metadata":{},"source":"hello"}]}`,
			want: "hello",
		},
		{
			name: "empty array",
			json: `{"nbformat":4,"nbformat_minor":2,"metadata":{},"cells":[{"cell_type":"markdown","metadata":{},"source":[]}]}`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb, err := Parse([]byte(tt.json))
			require.NoError(t, err)
			require.Len(t, nb.Cells, 1)
			assert.Equal(t, tt.want, nb.Cells[0].Source.String())
			assert.Equal(t, []byte(tt.json), nb.Raw)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		unsupported bool
	}{
		{name: "not json", json: "this is not a notebook"},
		{name: "truncated", json: `{"nbformat":4,"cells":[`},
		{name: "bad source type", json: `{"nbformat":4,"cells":[{"cell_type":"code","source":[1,2]}]}`},
		{name: "nbformat 3", json: `{"nbformat":3,"nbformat_minor":0,"worksheets":[]}`, unsupported: true},
		{name: "missing nbformat", json: `{"cells":[]}`, unsupported: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			require.Error(t, err)
			if tt.unsupported {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
			} else {
				assert.NotErrorIs(t, err, ErrUnsupportedFormat)
			}
		})
	}
}

func TestParseJSONPayloadKeptRaw(t *testing.T) {
	doc := `{"nbformat":4,"metadata":{},"cells":[{"cell_type":"code","metadata":{},"source":"x",
		"outputs":[{"output_type":"execute_result","data":{"application/json":{"a":1},"text/plain":["{'a': 1}"]}}]}]}`
	nb, err := Parse([]byte(doc))
	require.NoError(t, err)

	data := nb.Cells[0].Outputs[0].Data
	assert.Equal(t, `{"a":1}`, data["application/json"].String())
	assert.Equal(t, "{'a': 1}", data["text/plain"].String())
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name string
		meta string
		want string
	}{
		{name: "language_info wins", meta: `{"language_info":{"name":"julia"},"kernelspec":{"language":"python","name":"python3"}}`, want: "julia"},
		{name: "kernelspec fallback", meta: `{"kernelspec":{"language":"r","name":"ir"}}`, want: "r"},
		{name: "no metadata", meta: `{}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb, err := Parse([]byte(`{"nbformat":4,"cells":[],"metadata":` + tt.meta + `}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, nb.Language())
		})
	}
}

func TestReadFileSetsName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo_notes.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(`{"nbformat":4,"metadata":{"kernelspec":{"name":"python3"}},"cells":[]}`), 0o644))

	nb, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "demo_notes", nb.Name)
	assert.Equal(t, "python3", nb.Kernel())
}

func TestReadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.ipynb")
	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestRead(t *testing.T) {
	nb, err := Read(strings.NewReader(`{"nbformat":4,"cells":[{"cell_type":"raw","metadata":{"raw_mimetype":"text/html"},"source":"<b>x</b>"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "text/html", nb.Cells[0].Metadata.RawMimetype)
}
