package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"day-planner/internal/export"
)

// ExportOptions are the flags of the export command.
type ExportOptions struct {
	User string
	From string
	To   string
	Out  string
}

func (r *RootCommand) newExportCommand() *cobra.Command {
	opts := &ExportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export occurrences as iCalendar",
		Long: `Write the user's expanded occurrences between --from and --to as an .ics file.
Without --out the calendar is written to stdout.

Example:
  planner export --user me --from today --to +30d --out planner.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewExportCommand(r.app).Execute(cmd.Context(), *opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.User, "user", "u", "", "User whose calendar to export")
	flags.StringVar(&opts.From, "from", "today", "First day to export")
	flags.StringVar(&opts.To, "to", "+30d", "Last day to export, inclusive")
	flags.StringVar(&opts.Out, "out", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// ExportCommand handles the export command
type ExportCommand struct {
	app *App
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context, opts ExportOptions) error {
	today := c.app.Today()
	from, err := parseDateShorthand(opts.From, today)
	if err != nil {
		return err
	}
	to, err := parseDateShorthand(opts.To, today)
	if err != nil {
		return err
	}

	occ, err := c.app.Events.OccurrencesInRange(ctx, opts.User, from, to)
	if err != nil {
		return err
	}

	ics := export.NewICS(export.Options{
		Location: c.app.Config.Calendar.Location(),
		Logger:   c.app.Logger,
	})

	var w io.Writer = c.app.Out
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.Out, err)
		}
		defer f.Close()
		w = f
	}

	if err := ics.Write(w, occ); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}

	if opts.Out != "" {
		fmt.Fprintf(c.app.Out, "exported %d occurrence(s) to %s\n", len(occ), opts.Out)
	}
	return nil
}
