package commands

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/framelab-dev/framelab/internal/cli/ui"
	"github.com/framelab-dev/framelab/internal/dispatch"
)

// NewDispatchCommand creates the dispatch command: a scripted tour of the
// front controller, from route declaration through argument resolution to
// the uniform response, including the failure paths.
func NewDispatchCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Run the scripted front-controller demo",
		Long: `Run a scripted sequence of simulated requests through the dispatcher:
successful lookups, a body-carrying create, a path parameter that fails
conversion, and a miss. Each exchange prints the resolved route and the
uniform response.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			section := ui.NewSection(out, noColor)

			d, err := newDemoDispatcher("/api", nil)
			if err != nil {
				return err
			}

			heading := color.New(color.Bold, color.FgCyan)
			if noColor {
				heading.DisableColor()
			}
			heading.Fprintln(out, "=== Front-Controller Dispatch Demo ===")

			requests := []dispatch.Request{
				{Method: "GET", Path: "/health"},
				{Method: "GET", Path: "/api/users/123"},
				{Method: "GET", Path: "/api/users/42/posts/7"},
				{Method: "POST", Path: "/api/users", Body: `{"name": "John Doe"}`},
				{Method: "GET", Path: "/api/users/not-a-number"},
				{Method: "GET", Path: "/unknown"},
			}

			for _, req := range requests {
				section.Title("%s %s", req.Method, req.Path)
				if req.Body != "" {
					section.Step("body: %s", req.Body)
				}

				resp := d.Dispatch(req)
				section.Step("status: %d", resp.Status)
				section.Result("%s", resp.Body)
			}

			gray := color.New(color.FgHiBlack)
			if noColor {
				gray.DisableColor()
			}
			gray.Fprintln(out, "\n"+strings.Repeat("─", 60))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
