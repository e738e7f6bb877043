package includes

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	flattencmd "github.com/LegacyCodeHQ/glslflat/cmd/flatten"
	"github.com/LegacyCodeHQ/glslflat/directives"
)

// NewCommand returns a new includes command instance.
func NewCommand() *cobra.Command {
	opts := &flattencmd.Options{}

	cmd := &cobra.Command{
		Use:   "includes [file]",
		Short: "List the include directives of a single file",
		Long: `Parse one file with a C preprocessor grammar and list its include
directives with the path each one resolves to. Included files are not read.

Examples:
  glslflat includes main.frag
  glslflat includes main.frag -c HEAD`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIncludes(cmd, flattencmd.RootFile(args), opts)
		},
	}

	flattencmd.AddFlags(cmd, opts)

	return cmd
}

func runIncludes(cmd *cobra.Command, file string, opts *flattencmd.Options) error {
	cfg, err := opts.Resolve(cmd)
	if err != nil {
		return err
	}

	reader, err := opts.ContentReader(cfg)
	if err != nil {
		return err
	}

	source, err := reader(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	includes, err := directives.ParseIncludes(source)
	if err != nil {
		return fmt.Errorf("failed to parse includes in %s: %w", file, err)
	}

	resolution := cfg.Options().Resolution
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tKIND\tDIRECTIVE\tPATH")
	for _, inc := range includes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", inc.Line, inc.Kind, inc.Operand, inc.ResolvedPath(file, resolution))
	}
	return w.Flush()
}
