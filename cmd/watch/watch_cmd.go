package watch

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	flattencmd "github.com/LegacyCodeHQ/glslflat/cmd/flatten"
	"github.com/LegacyCodeHQ/glslflat/internal/mcplogdlog"
)

type watchOptions struct {
	flattencmd.Options
	output    string
	watchDirs []string
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-flatten a file whenever its sources change",
		Long: `Flatten a file into --output, then watch the directory tree of the file
(and the sysroot, if one is configured) and flatten again whenever a source
changes. Flattening errors are reported on stderr and watching continues.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flattencmd.RootFile(args), opts)
		},
	}

	flattencmd.AddFlags(cmd, &opts.Options)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "File the flattened source is written to")
	cmd.Flags().StringSliceVar(&opts.watchDirs, "watch-dir", nil, "Additional directories to watch (comma-separated)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runWatch(cmd *cobra.Command, rootFile string, opts *watchOptions) error {
	if opts.CommitID != "" {
		return fmt.Errorf("--commit cannot be used with watch")
	}

	cfg, err := opts.Resolve(cmd)
	if err != nil {
		return err
	}

	output, err := filepath.Abs(opts.output)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	roots, err := watchRoots(rootFile, cfg.Sysroot, opts.watchDirs)
	if err != nil {
		return err
	}

	rebuild := func() {
		if err := flattenOnce(cmd, rootFile, opts); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "flatten error: %v\n", err)
			mcplogdlog.Error("rebuild failed", map[string]any{"root": rootFile, "error": err.Error()})
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.output)
		mcplogdlog.Info("rebuilt", map[string]any{"root": rootFile, "output": output})
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rebuild()

	for _, root := range roots {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", root)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	errOut := func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		mcplogdlog.Warn("watcher error", map[string]any{"error": err.Error()})
	}
	return watchAndRebuild(ctx, roots, output, errOut, rebuild)
}

func flattenOnce(cmd *cobra.Command, rootFile string, opts *watchOptions) error {
	preprocessor, err := opts.Preprocessor(cmd)
	if err != nil {
		return err
	}

	text, err := preprocessor.Flatten(rootFile)
	if err != nil {
		return fmt.Errorf("failed to flatten %s: %w", rootFile, err)
	}
	return flattencmd.WriteOutput(cmd, opts.output, text)
}

// watchRoots returns the absolute, de-duplicated directories to watch.
func watchRoots(rootFile, sysroot string, extra []string) ([]string, error) {
	candidates := append([]string{filepath.Dir(rootFile)}, extra...)
	if sysroot != "" {
		candidates = append(candidates, sysroot)
	}

	seen := make(map[string]bool)
	var roots []string
	for _, dir := range candidates {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		roots = append(roots, abs)
	}
	return roots, nil
}
