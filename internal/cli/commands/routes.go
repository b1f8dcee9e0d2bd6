package commands

import (
	"github.com/spf13/cobra"

	"github.com/framelab-dev/framelab/internal/cli/config"
	"github.com/framelab-dev/framelab/internal/cli/ui"
)

// NewRoutesCommand creates the routes command, which prints the route table
// the serve command would mount.
func NewRoutesCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			d, err := newDemoDispatcher(cfg.Server.APIPrefix, nil)
			if err != nil {
				return err
			}

			table := ui.NewTable(cmd.OutOrStdout(), noColor,
				"METHOD", "PATTERN", "CONTROLLER", "HANDLER")
			for _, route := range d.Registry().Routes() {
				table.AddRow(route.Method, route.Pattern, route.Controller, route.Name)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
