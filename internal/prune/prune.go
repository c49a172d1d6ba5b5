// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prune deletes files by extension and directory subtrees. Every
// removal is guarded on its own: one failure is reported and the rest
// proceed.
package prune

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/nbmerge/internal/walk"
)

// Options controls a deletion run.
type Options struct {
	// Exclude is a base file name that is never deleted. Only applies to
	// DeleteFiles.
	Exclude string

	// DryRun reports what would be deleted without removing anything.
	DryRun bool
}

// Result counts the outcome of a deletion run.
type Result struct {
	Deleted int
	Failed  int
}

// HasFailures reports whether any removal failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// removeFile and removeAll are swapped in tests to inject failures.
var (
	removeFile = os.Remove
	removeAll  = os.RemoveAll
)

// DeleteFiles removes every file under root whose name ends with ext,
// except files named opts.Exclude. Files are visited deepest directory
// first. It returns an error only when the tree cannot be walked.
func DeleteFiles(root, ext string, opts Options, w io.Writer) (Result, error) {
	paths, err := walk.FindByExt(root, ext, opts.Exclude)
	if err != nil {
		return Result{}, err
	}
	sortBottomUp(paths)

	var result Result
	for _, path := range paths {
		if opts.DryRun {
			fmt.Fprintf(w, "Would delete %s\n", path)
			continue
		}
		if err := removeFile(path); err != nil {
			fmt.Fprintf(w, "Error deleting %s: %v\n", path, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "Deleted %s\n", path)
		result.Deleted++
	}
	return result, nil
}

// DeleteDirs removes every directory below root together with its
// contents. Directories are visited deepest first; files sitting directly
// in root are never touched.
func DeleteDirs(root string, opts Options, w io.Writer) (Result, error) {
	dirs, err := walk.Dirs(root)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, dir := range dirs {
		if opts.DryRun {
			fmt.Fprintf(w, "Would delete directory: %s\n", dir)
			continue
		}
		if _, err := os.Lstat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := removeAll(dir); err != nil {
			fmt.Fprintf(w, "Error deleting directory %s: %v\n", dir, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "Deleted directory: %s\n", dir)
		result.Deleted++
	}
	return result, nil
}

// sortBottomUp orders paths so that files in deeper directories come first,
// keeping traversal order among files at the same depth.
func sortBottomUp(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return depth(paths[i]) > depth(paths[j])
	})
}

func depth(path string) int {
	return strings.Count(filepath.ToSlash(filepath.Clean(path)), "/")
}
