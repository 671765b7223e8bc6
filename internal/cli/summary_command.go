package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"day-planner/internal/api"
	"day-planner/internal/expander"
)

// SummaryOptions are the flags of the summary command.
type SummaryOptions struct {
	User   string
	Date   string
	Format string
}

func (r *RootCommand) newSummaryCommand() *cobra.Command {
	opts := &SummaryOptions{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize one day",
		Long:  "Show how much of a day is scheduled, how much of it is focus time and how many tasks are done.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewSummaryCommand(r.app).Execute(cmd.Context(), *opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.User, "user", "u", "", "User whose day to summarize")
	flags.StringVarP(&opts.Date, "date", "d", "today", "Day to summarize")
	flags.StringVarP(&opts.Format, "format", "o", FormatTable, "Output format: table, json or yaml")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app *App
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app}
}

// Execute runs the summary command
func (c *SummaryCommand) Execute(ctx context.Context, opts SummaryOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	date, err := parseDateShorthand(opts.Date, c.app.Today())
	if err != nil {
		return err
	}

	occ, err := c.app.Events.Occurrences(ctx, opts.User, date, expander.ViewDay)
	if err != nil {
		return err
	}
	tasks, err := c.app.Tasks.List(ctx, opts.User)
	if err != nil {
		return err
	}

	summary := api.Summarize(date, occ, tasks)
	return writeFormatted(c.app.Out, opts.Format, summary, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Date:\t%s\n", summary.Date)
		fmt.Fprintf(tw, "Events:\t%d\n", summary.Events)
		fmt.Fprintf(tw, "Scheduled:\t%s\n", formatMinutes(summary.ScheduledMinutes))
		fmt.Fprintf(tw, "Focus:\t%s\n", formatMinutes(summary.FocusMinutes))
		fmt.Fprintf(tw, "Tasks:\t%d/%d done\n", summary.CompletedTasks, summary.Tasks)
		fmt.Fprintf(tw, "Estimated:\t%s\n", formatMinutes(summary.EstimatedMinutes))
	})
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
