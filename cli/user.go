package cli

import (
	"context"
	"fmt"

	"github.com/safedep/tally/tui"
	"github.com/spf13/cobra"
)

// NewUserCmd creates the user command.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the user directory",
	}

	cmd.AddCommand(
		newUserRegisterCmd(),
		newUserListCmd(),
	)

	return cmd
}

func newUserRegisterCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "register <user-id> <user-name>",
		Short: "Register a new user",
		Long: `Register a new user.

User IDs are unique. Registering an existing ID fails whatever the name.`,
		Example: `  tally user register alice "Alice Liddell"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				if err := app.Tracker.Register(ctx, args[0], args[1]); err != nil {
					return trackerError(err)
				}
				return app.Presenter.RenderMessage(fmt.Sprintf("User registered: %s", args[0]))
			})
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

func newUserListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, format, func(ctx context.Context, app *App) error {
				users, err := app.Tracker.ListUsers(ctx)
				if err != nil {
					return trackerError(err)
				}
				return app.Presenter.RenderUsers(tui.NewUserViews(users))
			})
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}
