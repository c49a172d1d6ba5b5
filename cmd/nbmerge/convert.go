// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbmerge/internal/convert"
	"github.com/pdiddy/nbmerge/internal/walk"
)

var convertCmd = &cobra.Command{
	Use:   "convert [root]",
	Short: "Convert every notebook under root to Markdown",
	Long: `Convert finds every .ipynb file under root and writes a .md file with the
same base name next to it, replacing any existing file. Notebooks that fail
to convert are reported and skipped. Supports the native and nbconvert
(container-based) backends.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	addConversionFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	bindFlags(cmd)
	cfg := pipelineConfig(args)

	if err := walk.Exists(cfg.Root); err != nil {
		return err
	}
	exp, err := newExporter(cfg.Conversion)
	if err != nil {
		return err
	}

	result, err := convert.ConvertTree(exp, cfg.Root, convert.Options{
		Frontmatter:    cfg.Conversion.Frontmatter,
		ExtractOutputs: cfg.Conversion.ExtractOutputs,
	}, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d notebook(s) failed conversion", result.Failed)
	}
	return nil
}
