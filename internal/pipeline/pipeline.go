// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the full notebook-to-combined-Markdown workflow:
// convert, prune notebooks, combine, prune Markdown, prune directories.
// Stages run strictly in that order and each finishes before the next
// starts.
package pipeline

import (
	"fmt"
	"io"

	"github.com/pdiddy/nbmerge/internal/combine"
	"github.com/pdiddy/nbmerge/internal/confirm"
	"github.com/pdiddy/nbmerge/internal/convert"
	"github.com/pdiddy/nbmerge/internal/notebook"
	"github.com/pdiddy/nbmerge/internal/prune"
	"github.com/pdiddy/nbmerge/internal/walk"
	"github.com/pdiddy/nbmerge/pkg/types"
)

// Deletion categories named in confirmation prompts.
const (
	itemFiles       = "files"
	itemDirectories = "directories"
)

// Deps are the collaborators a run needs.
type Deps struct {
	Exporter notebook.Exporter
	Gate     confirm.Confirmer
	Out      io.Writer
}

// Summary records what each stage did. Stages that were skipped or
// declined leave their fields zero.
type Summary struct {
	Conversion    convert.BatchResult
	Notebooks     prune.Result
	Combined      combine.Result
	CombineErr    error
	MarkdownFiles prune.Result
	Directories   prune.Result
}

// Run executes every stage against cfg.Root. A missing root aborts the run
// with an error wrapping walk.ErrRootNotFound before anything is touched.
// Per-file failures are reported on deps.Out and never stop the run. A
// failed combine is reported and the remaining stages still run.
func Run(cfg types.PipelineConfig, deps Deps) (Summary, error) {
	cfg = cfg.WithDefaults()
	var sum Summary

	if err := walk.Exists(cfg.Root); err != nil {
		return sum, err
	}

	pruneOpts := prune.Options{Exclude: cfg.Combine.CombinedName, DryRun: cfg.Prune.DryRun}

	if !cfg.SkipConvert {
		res, err := convert.ConvertTree(deps.Exporter, cfg.Root, convert.Options{
			Frontmatter:    cfg.Conversion.Frontmatter,
			ExtractOutputs: cfg.Conversion.ExtractOutputs,
		}, deps.Out)
		if err != nil {
			return sum, fmt.Errorf("converting notebooks: %w", err)
		}
		sum.Conversion = res
	}

	if deps.Gate.Confirm(itemFiles) {
		res, err := prune.DeleteFiles(cfg.Root, types.NotebookExt, pruneOpts, deps.Out)
		if err != nil {
			return sum, fmt.Errorf("deleting notebooks: %w", err)
		}
		sum.Notebooks = res
	}

	if !cfg.SkipCombine {
		res, err := combine.Combine(cfg.Root, cfg.Combine.CombinedName, combine.Options{
			StripFrontmatter: cfg.Combine.StripFrontmatter,
		}, deps.Out)
		if err != nil {
			fmt.Fprintf(deps.Out, "Error creating combined Markdown file: %v\n", err)
			sum.CombineErr = err
		}
		sum.Combined = res
	}

	if deps.Gate.Confirm(itemFiles) {
		res, err := prune.DeleteFiles(cfg.Root, types.MarkdownExt, pruneOpts, deps.Out)
		if err != nil {
			return sum, fmt.Errorf("deleting markdown files: %w", err)
		}
		sum.MarkdownFiles = res
	}

	if deps.Gate.Confirm(itemDirectories) {
		res, err := prune.DeleteDirs(cfg.Root, prune.Options{DryRun: cfg.Prune.DryRun}, deps.Out)
		if err != nil {
			return sum, fmt.Errorf("deleting directories: %w", err)
		}
		sum.Directories = res
	}

	return sum, nil
}
