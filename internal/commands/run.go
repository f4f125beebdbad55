package commands

import (
	"net"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/server"
)

// NewRunCommand creates the `run` command, which serves the application
// until interrupted. Extension resources are released by the caller of
// Execute.
func NewRunCommand(a *app.Application) *cobra.Command {
	var host, port string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the application over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.Config.Server
			if host != "" {
				cfg.Host = host
			}
			if port != "" {
				cfg.Port = port
			}

			srv := server.New(server.Config{
				Addr:            net.JoinHostPort(cfg.Host, cfg.Port),
				ShutdownTimeout: cfg.ShutdownTimeout,
			}, a, a.Logger)

			if a.Config.IsDevelopment() {
				a.Logger.Warn("Serving with the development profile, not for production use",
					zap.String("env", a.Config.Env))
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "interface to bind (defaults to HOST)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (defaults to PORT)")
	return cmd
}
