// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nbmerge CLI. nbmerge converts the
// Jupyter notebooks under a directory tree to Markdown, combines every
// Markdown file into one document, and prunes the sources behind
// confirmation prompts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pdiddy/nbmerge/internal/confirm"
	"github.com/pdiddy/nbmerge/internal/container"
	"github.com/pdiddy/nbmerge/internal/notebook"
	"github.com/pdiddy/nbmerge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Configuration keys shared by flags, the config file and NBMERGE_* env vars.
const (
	keyRoot             = "root"
	keyCombined         = "combined"
	keyBackend          = "backend"
	keyImage            = "image"
	keyYes              = "yes"
	keyDryRun           = "dry_run"
	keyFrontmatter      = "frontmatter"
	keyStripFrontmatter = "strip_frontmatter"
	keyExtractOutputs   = "extract_outputs"
	keySkipConvert      = "skip_convert"
	keySkipCombine      = "skip_combine"
)

// rootCmd is the base command for the nbmerge CLI.
var rootCmd = &cobra.Command{
	Use:   "nbmerge",
	Short: "Convert Jupyter notebooks to Markdown and merge them into one file",
	Long: `nbmerge walks a directory tree, converts every .ipynb notebook to a
sibling .md file, and concatenates all Markdown files into a single combined
document with a header per source file.

Deleting notebooks, leftover Markdown files and subdirectories is optional
and always asks for confirmation first. Use "run" for the whole workflow or
the convert, combine and prune subcommands for a single stage.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./nbmerge.yaml or ~/.config/nbmerge/config.yaml)")
	pf.String(keyCombined, types.DefaultCombinedName, "file name of the combined Markdown output, written at the root")
	pf.Bool(keyYes, false, "answer yes to every deletion prompt")
	pf.Bool("dry-run", false, "report deletions without removing anything")

	mustBind(keyCombined, pf.Lookup(keyCombined))
	mustBind(keyYes, pf.Lookup(keyYes))
	mustBind(keyDryRun, pf.Lookup("dry-run"))

	viper.SetDefault(keyRoot, types.DefaultRoot)
	viper.SetDefault(keyBackend, string(types.BackendNative))
	viper.SetDefault(keyImage, types.DefaultImage)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nbmerge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbmerge"))
		}
	}

	viper.SetEnvPrefix("NBMERGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Using config file:", viper.ConfigFileUsed())
	}
}

// addConversionFlags registers the flags of commands that convert notebooks.
func addConversionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(keyBackend, string(types.BackendNative), "conversion backend: native or nbconvert")
	f.String(keyImage, types.DefaultImage, "container image for the nbconvert backend")
	f.Bool(keyFrontmatter, false, "prepend YAML frontmatter to converted files")
	f.Bool("extract-outputs", false, "write image outputs to <name>_files/ next to each Markdown file")
}

// addCombineFlags registers the flags of commands that combine Markdown.
func addCombineFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strip-frontmatter", false, "drop frontmatter from each file before combining")
}

// bindFlags binds the flags of the command being executed to viper. Keys
// shared by several subcommands must only be bound for the one that runs.
func bindFlags(cmd *cobra.Command) {
	for key, name := range map[string]string{
		keyBackend:          keyBackend,
		keyImage:            keyImage,
		keyFrontmatter:      keyFrontmatter,
		keyExtractOutputs:   "extract-outputs",
		keyStripFrontmatter: "strip-frontmatter",
		keySkipConvert:      "skip-convert",
		keySkipCombine:      "skip-combine",
	} {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			mustBind(key, fl)
		}
	}
}

func mustBind(key string, fl *pflag.Flag) {
	if err := viper.BindPFlag(key, fl); err != nil {
		panic(err)
	}
}

// pipelineConfig assembles the run configuration from viper. A positional
// root argument takes precedence over the configured root.
func pipelineConfig(args []string) types.PipelineConfig {
	return decodeConfig(viper.GetViper(), args)
}

// decodeConfig reads the flat configuration keys from v. They match the
// yaml layout of types.PipelineConfig, so an nbmerge.yaml written against
// the types decodes to the same values.
func decodeConfig(v *viper.Viper, args []string) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Root: v.GetString(keyRoot),
		Conversion: types.ConversionConfig{
			Backend:        types.ConversionBackend(v.GetString(keyBackend)),
			Image:          v.GetString(keyImage),
			Frontmatter:    v.GetBool(keyFrontmatter),
			ExtractOutputs: v.GetBool(keyExtractOutputs),
		},
		Combine: types.CombineConfig{
			CombinedName:     v.GetString(keyCombined),
			StripFrontmatter: v.GetBool(keyStripFrontmatter),
		},
		Prune: types.PruneConfig{
			AssumeYes: v.GetBool(keyYes),
			DryRun:    v.GetBool(keyDryRun),
		},
		SkipConvert: v.GetBool(keySkipConvert),
		SkipCombine: v.GetBool(keySkipCombine),
	}
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	return cfg.WithDefaults()
}

// newExporter returns the exporter selected by cfg.Backend.
func newExporter(cfg types.ConversionConfig) (notebook.Exporter, error) {
	switch cfg.Backend {
	case types.BackendNative, "":
		return notebook.NewMarkdownExporter(), nil
	case types.BackendNbconvert:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return notebook.NewNbconvertExporter(rt, cfg.Image)
	default:
		return nil, fmt.Errorf("unknown backend %q: use native or nbconvert", cfg.Backend)
	}
}

// newGate returns the confirmation gate of cmd, reading answers from its
// input. Warnings go to its error writer.
func newGate(cmd *cobra.Command, cfg types.PruneConfig) *confirm.Gate {
	in := cmd.InOrStdin()
	if !cfg.AssumeYes {
		if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: stdin is not a terminal; reading confirmations from input")
		}
	}
	return confirm.NewGate(in, cmd.OutOrStdout(), cfg.AssumeYes)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
