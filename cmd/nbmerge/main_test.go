// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbmerge/pkg/types"
)

const helloNotebook = `{"nbformat":4,"nbformat_minor":5,"metadata":{},` +
	`"cells":[{"cell_type":"markdown","metadata":{},"source":["hello"]}]}`

// execute runs the root command with args, feeding input as stdin.
func execute(t *testing.T, input string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeFrom(t, strings.NewReader(input), args...)
}

// executeFrom runs the root command with args, reading stdin from in.
func executeFrom(t *testing.T, in io.Reader, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeNotebook(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(helloNotebook), 0o644))
}

func TestRunCommandAssumeYes(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "demo_notes.ipynb")
	writeNotebook(t, root, "sub/more_notes.ipynb")

	stdout, _, err := execute(t, "", "run", root, "--yes", "--combined", "book.md")
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "book.md", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(root, "book.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Demo Notes\n\nhello\n")
	assert.Contains(t, string(data), "# More Notes\n\nhello\n")
	assert.Contains(t, stdout, "Combined Markdown file created")
}

func TestRunCommandDeclined(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "sub/demo.ipynb")

	_, _, err := execute(t, "n\n\nN\n", "run", root, "--yes=false", "--combined", "combined.md")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "sub", "demo.ipynb"))
	assert.FileExists(t, filepath.Join(root, "sub", "demo.md"))
	assert.FileExists(t, filepath.Join(root, "combined.md"))
}

func TestRunCommandMissingRootExitsCleanly(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, stderr, err := execute(t, "", "run", missing)
	require.NoError(t, err)
	assert.Contains(t, stderr, "directory not found")
	assert.Contains(t, stderr, missing)
}

func TestConvertCommandMissingRootFails(t *testing.T) {
	_, _, err := execute(t, "", "convert", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestPruneCommandDirs(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "a/b/c.ipynb")

	_, _, err := execute(t, "y\n", "prune", root, "--dirs", "--yes=false")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(root, "a"))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "nbmerge dev\n", stdout)
}

func TestPruneCommandWarnsWhenStdinIsNotTerminal(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "demo.ipynb")

	answers := filepath.Join(t.TempDir(), "answers")
	require.NoError(t, os.WriteFile(answers, []byte("n\n"), 0o644))
	f, err := os.Open(answers)
	require.NoError(t, err)
	defer f.Close()

	_, stderr, err := executeFrom(t, f, "prune", root, "--ext", ".ipynb", "--yes=false")
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning: stdin is not a terminal")
	assert.FileExists(t, filepath.Join(root, "demo.ipynb"))
}

const flatConfig = `root: notes
backend: nbconvert
image: jupyter/nbconvert:7
frontmatter: true
extract_outputs: true
combined: book.md
strip_frontmatter: true
yes: true
dry_run: true
skip_convert: true
skip_combine: true
`

func TestDecodeConfigMatchesTypesLayout(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(flatConfig)))

	var fromTypes types.PipelineConfig
	require.NoError(t, yaml.Unmarshal([]byte(flatConfig), &fromTypes))

	want := types.PipelineConfig{
		Root: "notes",
		Conversion: types.ConversionConfig{
			Backend:        types.BackendNbconvert,
			Image:          "jupyter/nbconvert:7",
			Frontmatter:    true,
			ExtractOutputs: true,
		},
		Combine:     types.CombineConfig{CombinedName: "book.md", StripFrontmatter: true},
		Prune:       types.PruneConfig{AssumeYes: true, DryRun: true},
		SkipConvert: true,
		SkipCombine: true,
	}
	assert.Equal(t, want, decodeConfig(v, nil))
	assert.Equal(t, want, fromTypes)
}

func TestDecodeConfigArgOverridesRoot(t *testing.T) {
	cfg := decodeConfig(viper.New(), []string{"elsewhere"})
	assert.Equal(t, "elsewhere", cfg.Root)
	assert.Equal(t, types.DefaultCombinedName, cfg.Combine.CombinedName)
	assert.Equal(t, types.BackendNative, cfg.Conversion.Backend)
}
