package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safedep/dry/log"
	"github.com/safedep/tally/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service.

Endpoints take their parameters from the query string or a form body:

  POST /register         userId, userName
  POST /recordSession    userId, loginTime, logoutTime
  GET  /totalActivity    userId
  GET  /inactiveUsers    days
  GET  /monthlyActivity  userId, month
  GET  /userStatus       userId
  GET  /lastSession      userId
  GET  /stats            userId

The service stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(cmd, "table", func(_ context.Context, app *App) error {
				addr := app.Config.Server.Address
				if address != "" {
					addr = address
				}

				srv := server.New(app.Tracker, server.Config{
					Address:    addr,
					RateLimit:  app.Config.Server.RateLimit,
					RequestLog: globalFlags.Verbose,
				})

				errCh := make(chan error, 1)
				go func() {
					errCh <- srv.Start()
				}()

				_ = app.Presenter.RenderMessage("Listening on " + addr)

				select {
				case err := <-errCh:
					if err != nil {
						return WrapError(ExitGeneral, "server failed", err)
					}
					return nil
				case <-ctx.Done():
				}

				log.Infof("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
					return WrapError(ExitGeneral, "shutdown failed", err)
				}

				return <-errCh
			})
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address (default from server.address)")

	return cmd
}
