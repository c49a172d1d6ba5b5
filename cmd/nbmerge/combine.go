// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/nbmerge/internal/combine"
	"github.com/pdiddy/nbmerge/internal/walk"
)

var combineCmd = &cobra.Command{
	Use:   "combine [root]",
	Short: "Concatenate every Markdown file under root into one file",
	Long: `Combine writes the combined file at root from every .md file in the tree,
each under a "# Title" header derived from its file name and followed by a
"---" separator. Files named like the combined file are skipped; an existing
combined file is overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCombine,
}

func init() {
	addCombineFlags(combineCmd)
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	bindFlags(cmd)
	cfg := pipelineConfig(args)

	if err := walk.Exists(cfg.Root); err != nil {
		return err
	}
	_, err := combine.Combine(cfg.Root, cfg.Combine.CombinedName, combine.Options{
		StripFrontmatter: cfg.Combine.StripFrontmatter,
	}, cmd.OutOrStdout())
	return err
}
