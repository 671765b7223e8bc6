package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"day-planner/internal/repository/sqldb/migrations"
)

func (r *RootCommand) newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the database schema",
		Long: `Apply, roll back or list schema migrations.

  up      apply every pending migration (default)
  down    roll back the most recent migration
  status  list migrations and when they were applied`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewMigrateCommand(r.app).Execute(cmd.Context(), args)
		},
	}
}

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	app *App
}

// NewMigrateCommand creates a new migrate command handler
func NewMigrateCommand(app *App) *MigrateCommand {
	return &MigrateCommand{app: app}
}

// Execute runs the requested migration action
func (c *MigrateCommand) Execute(ctx context.Context, args []string) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}
	db := c.app.Repo.DB()

	switch action {
	case "up":
		n, err := migrations.RunMigrations(ctx, db)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.Out, "applied %d migration(s)\n", n)
	case "down":
		version, err := migrations.Rollback(ctx, db)
		if err != nil {
			return err
		}
		if version == 0 {
			fmt.Fprintln(c.app.Out, "nothing to roll back")
			return nil
		}
		fmt.Fprintf(c.app.Out, "rolled back migration %d\n", version)
	case "status":
		statuses, err := migrations.GetStatus(ctx, db)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.app.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED\tAPPLIED AT")
		for _, s := range statuses {
			applied := "no"
			if s.Applied {
				applied = "yes"
			}
			fmt.Fprintf(tw, "%06d\t%s\t%s\t%s\n", s.Version, s.Name, applied, s.AppliedAt)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown migrate action %q: use up, down or status", action)
	}
	return nil
}
