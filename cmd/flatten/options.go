package flatten

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/glslflat/flatten"
	"github.com/LegacyCodeHQ/glslflat/internal/config"
	"github.com/LegacyCodeHQ/glslflat/vcs"
)

// DefaultRootFile is flattened when no file argument is given.
const DefaultRootFile = "a.glsl"

// Options holds the flags shared by every command that runs the flattener.
type Options struct {
	RepoPath       string
	CommitID       string
	Sysroot        string
	Relative       bool
	GuardPrefix    string
	MaxGuardLength int
	MaxDepth       int
	ConfigPath     string
}

// AddFlags registers the shared flattening flags on cmd.
func AddFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.RepoPath, "repo", "r", "", "Git repository path used with --commit (default: current directory)")
	cmd.Flags().StringVarP(&opts.CommitID, "commit", "c", "", "Read sources as of this git commit instead of the working tree")
	cmd.Flags().StringVar(&opts.Sysroot, "sysroot", "", "Directory that serves <...> includes (default: filesystem root)")
	cmd.Flags().BoolVar(&opts.Relative, "relative", false, "Resolve quoted includes relative to the including file")
	cmd.Flags().StringVar(&opts.GuardPrefix, "guard-prefix", flatten.DefaultGuardPrefix, "Prefix of synthesized include guard macros")
	cmd.Flags().IntVar(&opts.MaxGuardLength, "max-guard-length", flatten.DefaultMaxGuardLength, "Maximum length of the path part of guard macros")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", flatten.DefaultMaxDepth, "Maximum include nesting depth, at least 1 (negative for unlimited)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", fmt.Sprintf("Project config file (default: %s if present)", config.DefaultFileName))
}

// RootFile returns the file argument or DefaultRootFile.
func RootFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultRootFile
}

// Resolve merges the project config with explicitly set flags. Flags win.
func (o *Options) Resolve(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	var err error
	if o.ConfigPath != "" {
		cfg, err = config.Load(o.ConfigPath)
	} else {
		cfg, err = config.LoadIfExists(config.DefaultFileName)
	}
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("guard-prefix") {
		cfg.GuardPrefix = o.GuardPrefix
	}
	if flags.Changed("max-guard-length") {
		cfg.MaxGuardLength = o.MaxGuardLength
	}
	if flags.Changed("max-depth") {
		if o.MaxDepth == 0 {
			return config.Config{}, fmt.Errorf("--max-depth must not be 0 (use a negative value for unlimited)")
		}
		cfg.MaxDepth = o.MaxDepth
	}
	if flags.Changed("relative") {
		cfg.RelativeIncludes = o.Relative
	}
	if flags.Changed("sysroot") {
		cfg.Sysroot = o.Sysroot
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// ContentReader returns the reader selected by --commit and the sysroot.
func (o *Options) ContentReader(cfg config.Config) (vcs.ContentReader, error) {
	if o.RepoPath != "" && o.CommitID == "" {
		return nil, fmt.Errorf("--repo can only be used with --commit")
	}

	reader := vcs.FilesystemContentReader()
	if o.CommitID != "" {
		repoPath := o.RepoPath
		if repoPath == "" {
			repoPath = "."
		}

		var err error
		reader, err = vcs.GitCommitContentReader(repoPath, o.CommitID)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit %s: %w", o.CommitID, err)
		}
	}

	return vcs.RootedContentReader(cfg.Sysroot, reader), nil
}

// Preprocessor builds a flattener from config, flags and the content reader.
func (o *Options) Preprocessor(cmd *cobra.Command) (*flatten.Preprocessor, error) {
	cfg, err := o.Resolve(cmd)
	if err != nil {
		return nil, err
	}

	reader, err := o.ContentReader(cfg)
	if err != nil {
		return nil, err
	}

	return flatten.New(reader, cfg.Options()), nil
}
