package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoints/internal/config"
	"github.com/matzehuels/waypoints/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the library over HTTP",
		Long: `Serve loads the library from the configured store and exposes it over a
JSON HTTP API until interrupted. Changes stay in memory until a client
calls POST /save.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			lib, err := loadLibrary(ctx, s)
			if err != nil {
				return err
			}

			printInfo("Serving %s on %s", pluralize(lib.Len(), "waypoint"), StyleHighlight.Render(addr))
			printDetail("store: %s", s)
			return server.New(lib, s, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+config.DefaultAddr+" or server.addr from config)")
	return cmd
}
