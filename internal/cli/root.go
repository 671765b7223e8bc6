package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"day-planner/internal/config"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory AppFactory
	loader  *config.Loader
	out     io.Writer
	app     *App
}

// Option customizes a RootCommand.
type Option func(*RootCommand)

// WithAppFactory replaces how the App is built once configuration is loaded.
func WithAppFactory(f AppFactory) Option {
	return func(r *RootCommand) { r.factory = f }
}

// WithLoader replaces the configuration loader.
func WithLoader(l *config.Loader) Option {
	return func(r *RootCommand) { r.loader = l }
}

// WithOutput redirects command output.
func WithOutput(w io.Writer) Option {
	return func(r *RootCommand) { r.out = w }
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts ...Option) *RootCommand {
	root := &RootCommand{
		factory: OpenApp,
		loader:  config.NewLoader(),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(root)
	}

	root.cmd = &cobra.Command{
		Use:   "planner",
		Short: "A personal day planner",
		Long: `Planner stores calendar events and tasks, expands recurring events into
occurrences and places them on a day grid.

EXAMPLES:
  planner serve                                   # Run the HTTP API
  planner occurrences --user me --view week       # This week's occurrences
  planner occurrences --user me --date +1d -o yaml
  planner summary --user me --date tomorrow       # One day at a glance
  planner export --user me --from today --to +30d --out planner.ics
  planner notify --user me                        # Print task nudges as they fire
  planner migrate status

CONFIGURATION:
  Configuration follows this priority order: flags > environment > config file > defaults.
  Environment variables use the PLANNER_ prefix, e.g. PLANNER_DATABASE_DRIVER,
  PLANNER_CALENDAR_DAY_START, PLANNER_SERVER_LISTEN. A .env file in the working
  directory is read when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.teardown()
		},
	}
	root.cmd.SetOut(root.out)

	root.addGlobalFlags()
	root.addSubcommands()
	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with a context commands can observe.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if err != nil {
		// PersistentPostRunE is skipped when RunE fails.
		_ = r.teardown()
	}
	return err
}

// SetArgs sets the arguments for the next Execute.
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (YAML, TOML or JSON)")

	flags.String("db-driver", "", "Database driver: sqlite or postgres (overrides PLANNER_DATABASE_DRIVER)")
	flags.String("db-dsn", "", "Postgres connection string (overrides PLANNER_DATABASE_DSN)")
	flags.String("db-dir", "", "SQLite directory (overrides PLANNER_DATABASE_DIR)")
	flags.String("db-filename", "", "SQLite filename (overrides PLANNER_DATABASE_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides PLANNER_DATABASE_QUERY_TIMEOUT)")

	flags.String("day-start", "", "First visible hour HH:MM (overrides PLANNER_CALENDAR_DAY_START)")
	flags.String("day-end", "", "Last visible hour HH:MM (overrides PLANNER_CALENDAR_DAY_END)")

	flags.String("log-level", "", "Log level (overrides PLANNER_LOGGING_LEVEL)")
	flags.String("log-format", "", "Log format console or json (overrides PLANNER_LOGGING_FORMAT)")
}

// overridesFromFlags collects only the flags the user actually set.
func (r *RootCommand) overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	o.DBDriver = str("db-driver")
	o.DBDSN = str("db-dsn")
	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.DayStart = str("day-start")
	o.DayEnd = str("day-end")
	o.LogLevel = str("log-level")
	o.LogFormat = str("log-format")
	if cmd.Flags().Lookup("listen") != nil {
		o.Listen = str("listen")
	}

	if flags.Changed("db-query-timeout") {
		d, _ := flags.GetDuration("db-query-timeout")
		o.QueryTimeout = &d
	}
	return o
}

func (r *RootCommand) setup(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		r.loader.WithConfigFile(path)
	}

	cfg, err := r.loader.LoadWithOverrides(r.overridesFromFlags(cmd))
	if err != nil {
		return err
	}

	app, err := r.factory(cfg)
	if err != nil {
		return err
	}
	app.Out = r.out
	r.app = app
	return nil
}

func (r *RootCommand) teardown() error {
	if r.app == nil {
		return nil
	}
	err := r.app.Close()
	r.app = nil
	return err
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newServeCommand(),
		r.newMigrateCommand(),
		r.newOccurrencesCommand(),
		r.newSummaryCommand(),
		r.newExportCommand(),
		r.newNotifyCommand(),
	)
}
