// Package flatten implements the flatten command and the flags it shares with
// the other commands that run the flattener.
package flatten

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type flattenOptions struct {
	Options
	output string
}

// NewCommand returns a new flatten command instance.
func NewCommand() *cobra.Command {
	opts := &flattenOptions{}

	cmd := &cobra.Command{
		Use:   "flatten [file]",
		Short: "Flatten a shader and its includes into one translation unit",
		Long: `Flatten a shader source and everything it #includes into a single
self-contained translation unit.

Comments are stripped, every include directive is replaced by the expanded
file, and files marked "#pragma once" are wrapped in synthesized include
guards and contribute text only the first time they are reached.

Without a file argument, ` + DefaultRootFile + ` in the current directory is flattened.

Examples:
  glslflat flatten                              # flatten a.glsl to stdout
  glslflat flatten main.frag -o build/main.frag # write to a file
  glslflat flatten main.frag --sysroot ./include
  glslflat flatten main.frag -c HEAD~1          # sources as of a commit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlatten(cmd, RootFile(args), opts)
		},
	}

	AddFlags(cmd, &opts.Options)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the flattened source to this file instead of stdout")

	return cmd
}

func runFlatten(cmd *cobra.Command, rootFile string, opts *flattenOptions) error {
	preprocessor, err := opts.Preprocessor(cmd)
	if err != nil {
		return err
	}

	output, err := preprocessor.Flatten(rootFile)
	if err != nil {
		return fmt.Errorf("failed to flatten %s: %w", rootFile, err)
	}

	return WriteOutput(cmd, opts.output, output)
}

// WriteOutput writes text to path, or to the command's stdout when path is empty.
func WriteOutput(cmd *cobra.Command, path, text string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
