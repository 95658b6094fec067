package cli

import (
	"context"

	"github.com/safedep/tally/storage"
	"github.com/safedep/tally/tui"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats [user-id]",
		Short: "Show statistics",
		Long: `Show statistics.

With a user ID, shows that user's session count, total and longest
session, active days and status. Without one, shows store totals.`,
		Example: `  tally stats
  tally stats alice --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				if len(args) == 0 {
					info, err := app.Tracker.Info(ctx)
					if err != nil {
						return trackerError(err)
					}

					view := &tui.DatabaseView{
						Backend:      string(app.Config.Storage.Backend),
						UserCount:    info.UserCount,
						SessionCount: info.SessionCount,
					}
					if view.Backend == storage.BackendSQLite {
						view.Location = app.Config.GetDatabasePath()
					}
					return app.Presenter.RenderDatabase(view)
				}

				u, err := app.Tracker.GetUser(ctx, args[0])
				if err != nil {
					return trackerError(err)
				}

				summary, err := app.Tracker.Summary(ctx, u.ID)
				if err != nil {
					return trackerError(err)
				}

				return app.Presenter.RenderSummary(tui.NewSummaryView(u, summary))
			})
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}
