// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbmerge/internal/prune"
	"github.com/pdiddy/nbmerge/internal/walk"
)

var pruneCmd = &cobra.Command{
	Use:   "prune [root]",
	Short: "Delete files by extension or all subdirectories under root",
	Long: `Prune deletes, after confirmation, either every file under root ending in
--ext (the combined file is always kept) or, with --dirs, every
subdirectory of root including its contents. A file or directory that
cannot be deleted is reported and the rest are still removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().String("ext", "", "delete files with this extension (e.g. .ipynb or .md)")
	pruneCmd.Flags().Bool("dirs", false, "delete all subdirectories instead of files")
	pruneCmd.MarkFlagsMutuallyExclusive("ext", "dirs")
	pruneCmd.MarkFlagsOneRequired("ext", "dirs")

	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(args)
	ext, _ := cmd.Flags().GetString("ext")
	dirs, _ := cmd.Flags().GetBool("dirs")

	if err := walk.Exists(cfg.Root); err != nil {
		return err
	}

	gate := newGate(cmd, cfg.Prune)
	opts := prune.Options{Exclude: cfg.Combine.CombinedName, DryRun: cfg.Prune.DryRun}

	var (
		result prune.Result
		err    error
	)
	if dirs {
		if !gate.Confirm("directories") {
			return nil
		}
		result, err = prune.DeleteDirs(cfg.Root, opts, cmd.OutOrStdout())
	} else {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !gate.Confirm("files") {
			return nil
		}
		result, err = prune.DeleteFiles(cfg.Root, ext, opts, cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d item(s) could not be deleted", result.Failed)
	}
	return nil
}
