// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRuntime implements container.Runtime without starting containers.
type fakeRuntime struct {
	imageErr error
	runErr   error
	output   string

	gotImage string
	gotArgs  []string
	gotStdin string
}

func (f *fakeRuntime) Name() string { return "fake" }
func (f *fakeRuntime) Available() bool { return true }
func (f *fakeRuntime) ImageExists(string) error { return f.imageErr }

func (f *fakeRuntime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotImage, f.gotArgs = image, args
	data, _ := io.ReadAll(stdin)
	f.gotStdin = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestNewNbconvertExporterMissingImage(t *testing.T) {
	_, err := NewNbconvertExporter(&fakeRuntime{imageErr: errors.New("no such image")}, "nbconvert:latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nbconvert image not available in fake")
}

func TestNbconvertExporterExport(t *testing.T) {
	rt := &fakeRuntime{output: "hello\n"}
	exp, err := NewNbconvertExporter(rt, "nbconvert:latest")
	require.NoError(t, err)

	raw := `{"nbformat":4,"metadata":{},"cells":[]}`
	nb, err := Parse([]byte(raw))
	require.NoError(t, err)
	nb.Name = "demo"

	body, res, err := exp.Export(nb)
	require.NoError(t, err)

	assert.Equal(t, "hello\n", body)
	assert.Equal(t, "demo", res.Name)
	assert.Empty(t, res.Outputs)
	assert.Equal(t, "nbconvert:latest", rt.gotImage)
	assert.Equal(t, []string{"--to", "markdown", "--stdin", "--stdout"}, rt.gotArgs)
	assert.Equal(t, raw, rt.gotStdin)
}

func TestNbconvertExporterRunFailure(t *testing.T) {
	exp, err := NewNbconvertExporter(&fakeRuntime{runErr: errors.New("exit status 1")}, "img")
	require.NoError(t, err)

	nb, err := Parse([]byte(`{"nbformat":4,"cells":[]}`))
	require.NoError(t, err)

	_, _, err = exp.Export(nb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestNbconvertExporterNoRawBytes(t *testing.T) {
	exp, err := NewNbconvertExporter(&fakeRuntime{}, "img")
	require.NoError(t, err)

	_, _, err = exp.Export(&Notebook{NBFormat: 4})
	assert.Error(t, err)
}
