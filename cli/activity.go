package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/tui"
	"github.com/spf13/cobra"
)

// NewActivityCmd creates the activity command.
func NewActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Activity analytics",
		Long: `Activity analytics derived from recorded sessions.

Durations are counted in whole minutes per session; partial minutes are
dropped before sessions are summed.`,
	}

	cmd.AddCommand(
		newActivityTotalCmd(),
		newActivityStatusCmd(),
		newActivityLastCmd(),
		newActivityMonthlyCmd(),
		newActivityInactiveCmd(),
	)

	return cmd
}

func newActivityTotalCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "total <user-id>",
		Short: "Total activity minutes of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				minutes, err := app.Tracker.TotalActivityTime(ctx, args[0])
				if err != nil {
					return trackerError(err)
				}
				return app.Presenter.RenderTotal(&tui.TotalView{UserID: args[0], TotalMinutes: minutes})
			})
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

func newActivityStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status <user-id>",
		Short: "Activity status of a user",
		Long: `Activity status of a user.

Under 60 minutes in total is Inactive, 60 up to 119 is Active and 120 or
more is Highly active.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				status, err := app.Tracker.UserStatus(ctx, args[0])
				if err != nil {
					return trackerError(err)
				}
				return app.Presenter.RenderUserStatus(&tui.UserStatusView{UserID: args[0], Status: status.String()})
			})
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

func newActivityLastCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "last <user-id>",
		Short: "Date of a user's latest login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				date, ok, err := app.Tracker.LastSessionDate(ctx, args[0])
				if err != nil {
					return trackerError(err)
				}
				if !ok {
					return trackerError(apperr.NoSessionsFound())
				}
				return app.Presenter.RenderLastSession(&tui.LastSessionView{UserID: args[0], Date: date})
			})
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

func newActivityMonthlyCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "monthly <user-id> <YYYY-MM>",
		Short: "Per-day activity of a user in a month",
		Long: `Per-day activity of a user in a month.

Each session counts toward the day of its login, even when it ends on a
later day.`,
		Example: `  tally activity monthly alice 2024-03`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				daily, err := app.Tracker.MonthlyActivity(ctx, args[0], args[1])
				if err != nil {
					return trackerError(err)
				}
				return app.Presenter.RenderMonthly(tui.NewMonthlyView(args[0], args[1], daily))
			})
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

func newActivityInactiveCmd() *cobra.Command {
	var (
		days   int
		asOf   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "inactive",
		Short: "Users without a login in the trailing window",
		Long: `Users without a login in the trailing window.

A user is inactive when their latest login is earlier than --days days
before --as-of (default now), or when they never logged in.
--days defaults to activity.inactive_days from the config.`,
		Example: `  tally activity inactive
  tally activity inactive --days 7 --as-of 2024-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				if !cmd.Flags().Changed("days") {
					days = app.Config.Activity.InactiveDays
				}

				var at time.Time
				if asOf != "" {
					t, err := time.ParseInLocation(session.DateLayout, asOf, app.Config.Location())
					if err != nil {
						return NewCLIError(ExitGeneral, fmt.Sprintf("invalid --as-of: %v", err))
					}
					at = t
				} else {
					at = app.Tracker.Now()
				}

				inactive, err := tui.RunWithSpinner("Scanning users...", func() (map[string]string, error) {
					return app.Tracker.InactiveUsers(ctx, days, at)
				}, tui.WithColors(app.Config.ShouldUseColors()))
				if err != nil {
					return trackerError(err)
				}

				return app.Presenter.RenderInactive(tui.NewInactiveView(days, at, inactive))
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "inactivity threshold in days")
	cmd.Flags().StringVar(&asOf, "as-of", "", "end of the window as YYYY-MM-DD (default now)")
	addFormatFlag(cmd, &format)

	return cmd
}
