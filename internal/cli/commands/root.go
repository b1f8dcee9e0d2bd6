// Package commands wires the framelab CLI: scripted demos of the
// dispatcher and the entity manager, a real HTTP server, and introspection
// helpers.
package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/framelab-dev/framelab/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "framelab",
		Short: "Miniature web-framework and ORM internals, made visible",
		Long: color.CyanString(`framelab - framework internals you can watch

framelab re-creates the two mechanisms at the heart of a typical web stack,
small enough to read in one sitting:

  • A front-controller dispatcher: declared routes, pattern matching,
    argument resolution, and uniform responses
  • An entity manager: unit of work, identity map, lazy references, and
    SQL generation from declared entity schemas

The demos narrate every step; the serve command puts the same dispatcher
behind a real HTTP listener.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewDispatchCommand())
	rootCmd.AddCommand(NewOrmCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewRoutesCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), false)
			kv.AddRow("framelab version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", runtime.Version())
			kv.Render()
		},
	}
}
