package types

// ConversionBackend identifies the notebook exporter.
type ConversionBackend string

const (
	// BackendNative renders Markdown in-process.
	BackendNative ConversionBackend = "native"
	// BackendNbconvert pipes notebooks through an nbconvert container image.
	BackendNbconvert ConversionBackend = "nbconvert"
)

// Default values for the two settings every run needs.
const (
	DefaultRoot         = "."
	DefaultCombinedName = "combined.md"
	DefaultImage        = "nbconvert:latest"
)

// File extensions the pipeline matches on.
const (
	NotebookExt = ".ipynb"
	MarkdownExt = ".md"
)

// ConversionConfig holds settings for the convert stage.
type ConversionConfig struct {
	// Backend selects the exporter: native or nbconvert.
	Backend ConversionBackend `yaml:"backend"`

	// Image is the container image used by the nbconvert backend.
	Image string `yaml:"image"`

	// Frontmatter prepends YAML frontmatter to each converted file.
	Frontmatter bool `yaml:"frontmatter"`

	// ExtractOutputs writes binary cell outputs (images) to <base>_files/.
	ExtractOutputs bool `yaml:"extract_outputs"`
}

// CombineConfig holds settings for the combine stage.
type CombineConfig struct {
	// CombinedName is the file name of the combined output, written at the
	// root. Files with this name are never scanned or pruned.
	CombinedName string `yaml:"combined"`

	// StripFrontmatter drops a leading YAML frontmatter block from each
	// source file before it is appended.
	StripFrontmatter bool `yaml:"strip_frontmatter"`
}

// PruneConfig holds settings shared by the deletion stages.
type PruneConfig struct {
	// AssumeYes answers every confirmation prompt affirmatively.
	AssumeYes bool `yaml:"yes"`

	// DryRun reports deletions without performing them.
	DryRun bool `yaml:"dry_run"`
}

// PipelineConfig groups all stage configurations for a full run.
type PipelineConfig struct {
	// Root is the directory tree the pipeline operates on.
	Root string `yaml:"root"`

	// Stage settings share the top level of the config file.
	Conversion ConversionConfig `yaml:",inline"`
	Combine    CombineConfig    `yaml:",inline"`
	Prune      PruneConfig      `yaml:",inline"`

	// SkipConvert disables the convert stage.
	SkipConvert bool `yaml:"skip_convert"`

	// SkipCombine disables the combine stage.
	SkipCombine bool `yaml:"skip_combine"`
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Combine.CombinedName == "" {
		c.Combine.CombinedName = DefaultCombinedName
	}
	if c.Conversion.Backend == "" {
		c.Conversion.Backend = BackendNative
	}
	if c.Conversion.Image == "" {
		c.Conversion.Image = DefaultImage
	}
	return c
}
