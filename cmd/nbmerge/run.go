// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbmerge/internal/pipeline"
	"github.com/pdiddy/nbmerge/internal/walk"
)

var runCmd = &cobra.Command{
	Use:   "run [root]",
	Short: "Convert, combine and prune a notebook tree in one pass",
	Long: `Run executes the full workflow against root (default: the configured root,
or the current directory):

  1. convert every .ipynb to a sibling .md
  2. delete all .ipynb files (asks first)
  3. combine every .md into the combined file
  4. delete all .md files except the combined file (asks first)
  5. delete all subdirectories (asks first)

Only "y" or "Y" confirms a deletion; any other answer skips that step.
Errors are reported but do not change the exit status.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipeline,
}

func init() {
	addConversionFlags(runCmd)
	addCombineFlags(runCmd)
	runCmd.Flags().Bool("skip-convert", false, "skip the convert stage")
	runCmd.Flags().Bool("skip-combine", false, "skip the combine stage")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	bindFlags(cmd)
	cfg := pipelineConfig(args)
	errOut := cmd.ErrOrStderr()

	exp, err := newExporter(cfg.Conversion)
	if err != nil {
		fmt.Fprintf(errOut, "An unexpected error occurred: %v\n", err)
		return nil
	}

	deps := pipeline.Deps{
		Exporter: exp,
		Gate:     newGate(cmd, cfg.Prune),
		Out:      cmd.OutOrStdout(),
	}

	if _, err := pipeline.Run(cfg, deps); err != nil {
		if errors.Is(err, walk.ErrRootNotFound) {
			fmt.Fprintln(errOut, err)
			return nil
		}
		fmt.Fprintf(errOut, "An unexpected error occurred: %v\n", err)
	}
	return nil
}
