package cli

import (
	"fmt"

	"github.com/safedep/tally/config"
	"github.com/safedep/tally/tui"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify configuration",
		Long: `View or modify configuration.

Values are validated before they are written. An invalid value leaves the
config file untouched.`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigResetCmd(),
	)

	return cmd
}

func configFilePath() string {
	if globalFlags.ConfigPath != "" {
		return globalFlags.ConfigPath
	}
	return config.ResolvePaths().ConfigFile
}

func loadManager() (*config.Manager, error) {
	m, err := config.NewManager(configFilePath())
	if err != nil {
		return nil, ErrConfig("failed to read config", err)
	}
	return m, nil
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			app.SetOutput(cmd.OutOrStdout(), format)

			m, err := loadManager()
			if err != nil {
				return err
			}

			return app.Presenter.RenderConfig(&tui.ConfigView{
				Location: m.ConfigPath(),
				Values:   m.AllSettings(),
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get specific config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}

			value := m.Get(args[0])
			if value == nil {
				return NewCLIError(ExitGeneral, fmt.Sprintf("key not found: %s", args[0]))
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set config value",
		Example: `  tally config set server.address :8080
  tally config set activity.inactive_days 14
  tally config set display.timezone utc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := config.ParseValue(args[1])

			m, err := loadManager()
			if err != nil {
				return err
			}

			if err := m.Set(key, value); err != nil {
				return WrapError(ExitConfig, "failed to set config", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
			return nil
		},
	}

	return cmd
}

func newConfigResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset to default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}

			if err := m.Reset(); err != nil {
				return WrapError(ExitConfig, "failed to reset config", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults")
			return nil
		},
	}

	return cmd
}
