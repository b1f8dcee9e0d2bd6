package commands

import (
	"github.com/spf13/cobra"

	"github.com/framelab-dev/framelab/internal/cli/config"
	"github.com/framelab-dev/framelab/internal/web"
	"github.com/framelab-dev/framelab/internal/web/server"
)

// NewServeCommand creates the serve command, which mounts the demo
// dispatcher behind a real HTTP listener.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dispatcher over HTTP",
		Long: `Start an HTTP server that routes every request through the dispatcher.
The same controllers the dispatch demo scripts against answer real traffic;
SIGINT or SIGTERM drains in-flight requests and stops the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := config.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			d, err := newDemoDispatcher(cfg.Server.APIPrefix, log.Named("dispatch"))
			if err != nil {
				return err
			}

			serverCfg := server.DefaultConfig(web.NewHandler(d, log))
			if addr != "" {
				serverCfg.Address = addr
			} else {
				serverCfg.Address = cfg.Server.Address()
			}

			srv, err := server.New(serverCfg, log.Named("server"))
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
