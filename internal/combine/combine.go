// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package combine concatenates every Markdown file in a tree into one
// document, each under a header derived from its file name.
package combine

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/adrg/frontmatter"

	"github.com/pdiddy/nbmerge/internal/walk"
	"github.com/pdiddy/nbmerge/pkg/types"
)

// separator follows every appended file.
const separator = "\n\n---\n\n"

// Options controls how sources are appended.
type Options struct {
	// StripFrontmatter drops a leading frontmatter block from each source.
	StripFrontmatter bool
}

// Result describes a finished combine.
type Result struct {
	// Path is the combined file that was written.
	Path string

	// Files lists the sources in the order they were appended.
	Files []string
}

// Combine writes root/combinedName from every Markdown file under root,
// skipping files named combinedName anywhere in the tree. An existing
// combined file is overwritten. The first read or write error stops the
// combine and is returned; whatever was written so far stays on disk.
func Combine(root, combinedName string, opts Options, w io.Writer) (Result, error) {
	result := Result{Path: filepath.Join(root, combinedName)}

	out, err := os.Create(result.Path)
	if err != nil {
		return result, fmt.Errorf("creating %s: %w", result.Path, err)
	}
	defer out.Close()

	sources, err := walk.FindByExt(root, types.MarkdownExt, combinedName)
	if err != nil {
		return result, err
	}

	bw := bufio.NewWriter(out)
	for _, src := range sources {
		content, err := os.ReadFile(src)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", src, err)
		}
		if opts.StripFrontmatter {
			content = stripFrontmatter(content)
		}
		if err := writeSection(bw, filepath.Base(src), content); err != nil {
			return result, fmt.Errorf("writing %s: %w", result.Path, err)
		}
		result.Files = append(result.Files, src)
	}

	if err := bw.Flush(); err != nil {
		return result, fmt.Errorf("writing %s: %w", result.Path, err)
	}
	if err := out.Close(); err != nil {
		return result, fmt.Errorf("closing %s: %w", result.Path, err)
	}

	fmt.Fprintf(w, "Combined Markdown file created: %s\n", result.Path)
	return result, nil
}

func writeSection(w io.Writer, name string, content []byte) error {
	if _, err := fmt.Fprintf(w, "# %s\n\n", Title(name)); err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		return err
	}
	_, err := io.WriteString(w, separator)
	return err
}

// stripFrontmatter returns content without its leading frontmatter block.
// Content without frontmatter, or with frontmatter that fails to parse, is
// returned unchanged.
func stripFrontmatter(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("---")) && !bytes.HasPrefix(content, []byte("+++")) {
		return content
	}
	var meta map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil || len(rest) == len(content) {
		return content
	}
	return bytes.TrimLeft(rest, "\r\n")
}

// Title derives a section header from a Markdown file name: the .md
// extension is dropped, underscores become spaces, and every run of cased
// letters is capitalized with the rest lowercased. Any character that is
// not a cased letter starts a new word, so "2nd_try.md" becomes "2Nd Try".
func Title(name string) string {
	name = strings.TrimSuffix(name, types.MarkdownExt)
	name = strings.ReplaceAll(name, "_", " ")

	var b strings.Builder
	b.Grow(len(name))
	prevCased := false
	for _, r := range name {
		if !isCased(r) {
			b.WriteRune(r)
			prevCased = false
			continue
		}
		if prevCased {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToTitle(r))
		}
		prevCased = true
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}
