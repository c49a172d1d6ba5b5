// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// Exporter turns a parsed notebook into Markdown. Implementations may also
// return extracted binary outputs in Resources.
type Exporter interface {
	Export(nb *Notebook) (string, Resources, error)
}

// Resources carries metadata produced alongside an export.
type Resources struct {
	// Name is the notebook name the export was produced from.
	Name string

	// OutputExtension is the extension of the exported document.
	OutputExtension string

	// OutputFilesDir is the directory, relative to the exported document,
	// that extracted outputs are linked from.
	OutputFilesDir string

	// Outputs maps an extracted output file name to its bytes.
	Outputs map[string][]byte
}

// displayPriority is the order in which rich output MIME types are picked.
var displayPriority = []string{
	"text/html",
	"text/latex",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"text/markdown",
	"text/plain",
}

var imageExt = map[string]string{
	"image/svg+xml": ".svg",
	"image/png":     ".png",
	"image/jpeg":    ".jpeg",
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// MarkdownExporter renders notebooks to Markdown in-process, following the
// layout of the Jupyter nbconvert Markdown template.
type MarkdownExporter struct{}

// NewMarkdownExporter returns the native exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export renders nb. Cells are separated by a blank line.
func (e *MarkdownExporter) Export(nb *Notebook) (string, Resources, error) {
	if nb == nil {
		return "", Resources{}, fmt.Errorf("export: nil notebook")
	}

	name := nb.Name
	if name == "" {
		name = "notebook"
	}
	res := Resources{
		Name:            name,
		OutputExtension: ".md",
		OutputFilesDir:  name + "_files",
		Outputs:         map[string][]byte{},
	}

	lang := nb.Language()
	var blocks []string
	for i, cell := range nb.Cells {
		switch cell.CellType {
		case CellMarkdown:
			blocks = appendBlock(blocks, cell.Source.String())
		case CellRaw:
			if rawRendered(cell.Metadata.RawMimetype) {
				blocks = appendBlock(blocks, cell.Source.String())
			}
		case CellCode:
			blocks = appendBlock(blocks, fence(lang, cell.Source.String()))
			for j, out := range cell.Outputs {
				block, err := renderOutput(out, i, j, &res)
				if err != nil {
					return "", Resources{}, fmt.Errorf("cell %d output %d: %w", i, j, err)
				}
				blocks = appendBlock(blocks, block)
			}
		}
	}

	if len(blocks) == 0 {
		return "", res, nil
	}
	return strings.Join(blocks, "\n\n") + "\n", res, nil
}

func appendBlock(blocks []string, block string) []string {
	block = strings.TrimRight(block, "\n")
	if strings.TrimSpace(block) == "" {
		return blocks
	}
	return append(blocks, block)
}

// rawRendered reports whether a raw cell with the given mimetype belongs in
// Markdown output.
func rawRendered(mimetype string) bool {
	switch strings.ToLower(mimetype) {
	case "", "text/markdown", "text/x-markdown":
		return true
	}
	return false
}

func fence(lang, source string) string {
	return "```" + lang + "\n" + strings.TrimRight(source, "\n") + "\n```"
}

func renderOutput(out Output, cellIdx, outIdx int, res *Resources) (string, error) {
	switch out.OutputType {
	case OutputStream:
		return indent(out.Text.String()), nil
	case OutputError:
		return indent(ansiEscape.ReplaceAllString(strings.Join(out.Traceback, "\n"), "")), nil
	case OutputExecuteResult, OutputDisplayData:
		return renderData(out.Data, cellIdx, outIdx, res)
	}
	return "", nil
}

func renderData(data MimeBundle, cellIdx, outIdx int, res *Resources) (string, error) {
	for _, mime := range displayPriority {
		payload, ok := data[mime]
		if !ok {
			continue
		}
		if ext, isImage := imageExt[mime]; isImage {
			return extractImage(mime, ext, payload.String(), cellIdx, outIdx, res)
		}
		if mime == "text/plain" {
			return indent(payload.String()), nil
		}
		return payload.String(), nil
	}
	return "", nil
}

func extractImage(mime, ext, payload string, cellIdx, outIdx int, res *Resources) (string, error) {
	var content []byte
	if mime == "image/svg+xml" {
		content = []byte(payload)
	} else {
		decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(payload))
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", mime, err)
		}
		content = decoded
	}

	file := fmt.Sprintf("%s_%d_%d%s", res.Name, cellIdx, outIdx, ext)
	res.Outputs[file] = content
	return fmt.Sprintf("![%s](%s/%s)", strings.TrimPrefix(ext, "."), res.OutputFilesDir, file), nil
}

// indent prefixes every non-blank line with four spaces.
func indent(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = "    " + line
		} else {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
