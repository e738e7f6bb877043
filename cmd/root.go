package cmd

import (
	"os"

	"github.com/spf13/cobra"

	flattencmd "github.com/LegacyCodeHQ/glslflat/cmd/flatten"
	graphcmd "github.com/LegacyCodeHQ/glslflat/cmd/graph"
	includescmd "github.com/LegacyCodeHQ/glslflat/cmd/includes"
	watchcmd "github.com/LegacyCodeHQ/glslflat/cmd/watch"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glslflat",
		Short: "Flatten shader include trees into a single translation unit",
		Long: `glslflat resolves #include directives recursively and writes one
self-contained source file for compilers that have no include mechanism of
their own. Comments are stripped, "#pragma once" is honored, true include
cycles are rejected, and once-only files are wrapped in include guards.

Use 'glslflat --help' to see all available commands, or 'glslflat <command> --help'
for detailed information about a specific command.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(flattencmd.NewCommand())
	cmd.AddCommand(graphcmd.NewCommand())
	cmd.AddCommand(includescmd.NewCommand())
	cmd.AddCommand(watchcmd.NewCommand())

	// Initialize annotations for version template
	cmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
