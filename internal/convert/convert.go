// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns every notebook under a directory tree into a
// sibling Markdown file.
package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbmerge/internal/notebook"
	"github.com/pdiddy/nbmerge/internal/walk"
	"github.com/pdiddy/nbmerge/pkg/types"
)

// Options controls what is written next to each converted notebook.
type Options struct {
	// Frontmatter prepends a YAML frontmatter block to the Markdown.
	Frontmatter bool

	// ExtractOutputs writes binary outputs returned by the exporter into
	// a directory next to the Markdown file.
	ExtractOutputs bool
}

// BatchResult holds the outcome of converting a tree.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of notebooks processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any notebook failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// now is replaced in tests.
var now = time.Now

// MarkdownPath returns the Markdown path written for the notebook at path.
func MarkdownPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + types.MarkdownExt
}

// ConvertNotebook converts the notebook at path and writes the Markdown next
// to it, replacing any existing file. Failures are reported on w and leave
// no Markdown file behind.
func ConvertNotebook(exp notebook.Exporter, path string, opts Options, w io.Writer) types.ConversionStatus {
	mdPath := MarkdownPath(path)

	if err := convert(exp, path, mdPath, opts); err != nil {
		fmt.Fprintf(w, "Error converting %s: %v\n", path, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "Converted %s to %s\n", path, mdPath)
	return types.ConversionDone
}

func convert(exp notebook.Exporter, path, mdPath string, opts Options) error {
	nb, err := notebook.ReadFile(path)
	if err != nil {
		return err
	}

	body, res, err := exp.Export(nb)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	if opts.Frontmatter {
		fm, err := frontmatter(nb, path)
		if err != nil {
			return err
		}
		body = fm + body
	}

	if err := writeMarkdown(mdPath, body); err != nil {
		return err
	}

	if opts.ExtractOutputs && len(res.Outputs) > 0 {
		dir := filepath.Join(filepath.Dir(mdPath), res.OutputFilesDir)
		if err := writeOutputs(dir, res.Outputs); err != nil {
			os.Remove(mdPath)
			return err
		}
	}
	return nil
}

// writeMarkdown writes body to mdPath. A file this call opened but could not
// finish is removed; anything that failed to open is left untouched.
func writeMarkdown(mdPath, body string) error {
	f, err := os.OpenFile(mdPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("writing %s: %w", mdPath, err)
	}
	_, err = f.WriteString(body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(mdPath)
		return fmt.Errorf("writing %s: %w", mdPath, err)
	}
	return nil
}

// writeOutputs writes outputs into dir. When dir did not exist before the
// call, a failure removes it again.
func writeOutputs(dir string, outputs map[string][]byte) (err error) {
	if _, statErr := os.Stat(dir); errors.Is(statErr, fs.ErrNotExist) {
		defer func() {
			if err != nil {
				os.RemoveAll(dir)
			}
		}()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for name, data := range outputs {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing output %s: %w", name, err)
		}
	}
	return nil
}

// header is the frontmatter block written when Options.Frontmatter is set.
type header struct {
	SourceNotebook string `yaml:"source_notebook"`
	Kernel         string `yaml:"kernel,omitempty"`
	ConvertedAt    string `yaml:"converted_at"`
}

func frontmatter(nb *notebook.Notebook, path string) (string, error) {
	data, err := yaml.Marshal(header{
		SourceNotebook: filepath.Base(path),
		Kernel:         nb.Kernel(),
		ConvertedAt:    now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return "---\n" + string(data) + "---\n\n", nil
}

// ConvertTree converts every notebook under root, printing per-file status
// to w. A failing notebook never stops the rest. The error is non-nil only
// when the tree cannot be walked.
func ConvertTree(exp notebook.Exporter, root string, opts Options, w io.Writer) (BatchResult, error) {
	paths, err := walk.FindByExt(root, types.NotebookExt, "")
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, p := range paths {
		switch ConvertNotebook(exp, p, opts, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "Conversion summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result, nil
}
