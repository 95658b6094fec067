// Package cli provides the command-line interface for tally.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/safedep/dry/log"
	"github.com/safedep/tally/config"
	"github.com/safedep/tally/internal/version"
	"github.com/safedep/tally/storage"
	"github.com/safedep/tally/tracker"
	"github.com/safedep/tally/tui"
	"github.com/spf13/cobra"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Store     storage.Store
	Tracker   *tracker.Tracker
	Presenter tui.Presenter
	Paths     *config.Paths
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config) *App {
	presenter := tui.NewPresenter(tui.FormatTable, tui.PresenterOptions{
		Writer:    os.Stdout,
		UseColors: cfg.ShouldUseColors(),
	})

	return &App{
		Config:    cfg,
		Presenter: presenter,
		Paths:     config.ResolvePaths(),
	}
}

// InitStore opens the configured store and builds the tracker over it.
func (a *App) InitStore(ctx context.Context) error {
	store, err := storage.Open(string(a.Config.Storage.Backend), a.Config.StorageTarget(), a.Config.Location())
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return err
	}

	a.Store = store
	a.Tracker = tracker.New(store, tracker.WithLocation(a.Config.Location()))

	log.Debugf("opened %s store", a.Config.Storage.Backend)
	return nil
}

// SetOutput replaces the presenter with one writing format to w.
func (a *App) SetOutput(w io.Writer, format string) {
	a.Presenter = tui.NewPresenter(tui.ParseFormat(format), tui.PresenterOptions{
		Writer:    w,
		UseColors: a.Config.ShouldUseColors(),
		Verbose:   globalFlags.Verbose,
	})
}

// Close closes the application resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// GlobalFlags holds the global command flags.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
	NoColor    bool
}

var globalFlags GlobalFlags

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tally",
		Short: "User session tracking and activity analytics",
		Long: `Tally records user login/logout sessions and reports activity analytics:
total active minutes, activity status, last session date, monthly
breakdowns and inactive users.

It can be used directly from the command line or run as an HTTP service
with 'tally serve'.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			if os.Getenv("TALLY_NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			setupInternalLogger()

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "increase output verbosity")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		NewServeCmd(),
		NewUserCmd(),
		NewSessionCmd(),
		NewActivityCmd(),
		NewStatsCmd(),
		NewConfigCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupInternalLogger sets up the DRY logger. Stdout belongs to the
// presenter, so the stdout logger stays off.
func setupInternalLogger() {
	_ = os.Setenv("APP_LOG_SKIP_STDOUT_LOGGER", "true")

	log.Init("tally", "cli")
}

// loadApp loads the application with configuration.
func loadApp() (*App, error) {
	cfg, err := config.Load(globalFlags.ConfigPath)
	if err != nil {
		return nil, ErrConfig("failed to load config", err)
	}

	if globalFlags.NoColor {
		cfg.Display.Colors = config.ColorNever
	}

	return NewApp(cfg), nil
}

// withApp loads the app, opens its store and runs fn. Output goes to the
// command's stdout in the requested format.
func withApp(cmd *cobra.Command, format string, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := loadApp()
	if err != nil {
		return err
	}
	app.SetOutput(cmd.OutOrStdout(), format)

	if err := app.InitStore(ctx); err != nil {
		return ErrDatabase("failed to open database", err)
	}

	defer func() {
		if err := app.Close(); err != nil {
			log.Errorf("failed to close app: %v", err)
		}
	}()

	return fn(ctx, app)
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "table", "output format: table, json, csv")
}
