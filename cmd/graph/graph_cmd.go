package graph

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	flattencmd "github.com/LegacyCodeHQ/glslflat/cmd/flatten"
	"github.com/LegacyCodeHQ/glslflat/depgraph"
)

type graphOptions struct {
	flattencmd.Options
	format      string
	generateURL bool
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{}

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Print the include graph walked while flattening a file",
		Long: `Flatten a file and print the graph of include directives that were followed.

Every file reached is a node; each include directive is an edge. Edges on
cycles broken by "#pragma once" are drawn dashed.

Examples:
  glslflat graph main.frag               # Graphviz DOT
  glslflat graph main.frag -f json
  glslflat graph main.frag -u            # GraphvizOnline URL`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, flattencmd.RootFile(args), opts)
		},
	}

	flattencmd.AddFlags(cmd, &opts.Options)
	cmd.Flags().StringVarP(&opts.format, "format", "f", OutputFormatDOT.String(),
		fmt.Sprintf("Output format (%s, %s)", OutputFormatDOT, OutputFormatJSON))
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Generate a GraphvizOnline URL (dot format only)")

	return cmd
}

func runGraph(cmd *cobra.Command, rootFile string, opts *graphOptions) error {
	format, err := ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	preprocessor, err := opts.Preprocessor(cmd)
	if err != nil {
		return err
	}

	_, session, err := preprocessor.FlattenSession(rootFile)
	if err != nil {
		return fmt.Errorf("failed to flatten %s: %w", rootFile, err)
	}

	g, err := depgraph.Build(rootFile, session.Edges())
	if err != nil {
		return fmt.Errorf("failed to build include graph: %w", err)
	}

	var output string
	switch format {
	case OutputFormatJSON:
		data, err := g.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to generate JSON: %w", err)
		}
		output = string(data)
	case OutputFormatDOT:
		var buf bytes.Buffer
		if err := g.ToDOT(&buf); err != nil {
			return fmt.Errorf("failed to generate DOT: %w", err)
		}
		output = buf.String()
	}

	if opts.generateURL {
		if format != OutputFormatDOT {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: URL generation is not supported for %s format\n\n", format)
		} else {
			output = generateGraphvizOnlineURL(output)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// generateGraphvizOnlineURL creates a URL for GraphvizOnline with the DOT graph embedded
func generateGraphvizOnlineURL(dotGraph string) string {
	// URL encode the DOT graph for use in fragment (spaces as %20, not +)
	encoded := url.PathEscape(dotGraph)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded)
}
