// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook parses Jupyter notebooks (nbformat 4) and exports them to
// Markdown through pluggable exporters.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat reports a notebook whose major nbformat version is
// not 4.
var ErrUnsupportedFormat = errors.New("unsupported nbformat version")

// formatVersion is the only major nbformat version this package reads.
const formatVersion = 4

// Cell types.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"
)

// Output types.
const (
	OutputStream        = "stream"
	OutputExecuteResult = "execute_result"
	OutputDisplayData   = "display_data"
	OutputError         = "error"
)

// Notebook is a parsed notebook document.
type Notebook struct {
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
	Metadata      Metadata `json:"metadata"`
	Cells         []Cell   `json:"cells"`

	// Name is the file name without extension. Exporters use it to name
	// extracted outputs.
	Name string `json:"-"`

	// Raw holds the document bytes exactly as read.
	Raw []byte `json:"-"`
}

// Metadata is the subset of notebook metadata exporters care about.
type Metadata struct {
	KernelSpec   *KernelSpec   `json:"kernelspec,omitempty"`
	LanguageInfo *LanguageInfo `json:"language_info,omitempty"`
}

// KernelSpec describes the kernel a notebook was written for.
type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

// LanguageInfo describes the kernel language.
type LanguageInfo struct {
	Name string `json:"name"`
}

// Language returns the notebook's programming language, or "" if the
// metadata does not name one.
func (n *Notebook) Language() string {
	if n.Metadata.LanguageInfo != nil && n.Metadata.LanguageInfo.Name != "" {
		return n.Metadata.LanguageInfo.Name
	}
	if n.Metadata.KernelSpec != nil {
		return n.Metadata.KernelSpec.Language
	}
	return ""
}

// Kernel returns the kernel name, or "" when absent.
func (n *Notebook) Kernel() string {
	if n.Metadata.KernelSpec != nil {
		return n.Metadata.KernelSpec.Name
	}
	return ""
}

// Cell is one notebook cell.
type Cell struct {
	CellType string          `json:"cell_type"`
	Source   MultilineString `json:"source"`
	Metadata CellMetadata    `json:"metadata"`
	Outputs  []Output        `json:"outputs,omitempty"`
}

// CellMetadata is the subset of cell metadata exporters care about.
type CellMetadata struct {
	// RawMimetype selects how a raw cell is rendered.
	RawMimetype string `json:"raw_mimetype,omitempty"`
}

// Output is one code cell output.
type Output struct {
	OutputType string          `json:"output_type"`
	Name       string          `json:"name,omitempty"`
	Text       MultilineString `json:"text,omitempty"`
	Data       MimeBundle      `json:"data,omitempty"`
	EName      string          `json:"ename,omitempty"`
	EValue     string          `json:"evalue,omitempty"`
	Traceback  []string        `json:"traceback,omitempty"`
}

// MimeBundle maps a MIME type to its payload.
type MimeBundle map[string]MultilineString

// MultilineString is a notebook text field. On disk it is either a single
// JSON string or an array of strings that concatenate to the full text.
// Any other JSON value (such as an application/json payload) is kept as
// its raw encoding.
type MultilineString string

// UnmarshalJSON implements json.Unmarshaler.
func (m *MultilineString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*m = MultilineString(s)
	case '[':
		var parts []string
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return err
		}
		*m = MultilineString(strings.Join(parts, ""))
	default:
		*m = MultilineString(trimmed)
	}
	return nil
}

// String returns the text.
func (m MultilineString) String() string { return string(m) }

// Parse decodes a notebook document.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("decoding notebook: %w", err)
	}
	if nb.NBFormat != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, nb.NBFormat)
	}
	nb.Raw = data
	return &nb, nil
}

// Read decodes a notebook document from r.
func Read(r io.Reader) (*Notebook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}
	return Parse(data)
}

// ReadFile reads and decodes the notebook at path and sets its Name.
func ReadFile(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notebook %s: %w", path, err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing notebook %s: %w", path, err)
	}
	base := filepath.Base(path)
	nb.Name = strings.TrimSuffix(base, filepath.Ext(base))
	return nb, nil
}
