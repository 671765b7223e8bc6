package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"day-planner/internal/domain"
	"day-planner/internal/expander"
)

// OccurrencesOptions are the flags of the occurrences command.
type OccurrencesOptions struct {
	User   string
	Date   string
	View   string
	From   string
	To     string
	Format string
}

func (r *RootCommand) newOccurrencesCommand() *cobra.Command {
	opts := &OccurrencesOptions{}
	cmd := &cobra.Command{
		Use:   "occurrences",
		Short: "List expanded event occurrences",
		Long: `List the occurrences of a user's events for a day, week or month, or for an
explicit --from/--to range. Week and month views leave out status events.

Dates accept YYYY-MM-DD, today, tomorrow, yesterday or offsets like +3d, -1w, 2mo.

Examples:
  planner occurrences --user me
  planner occurrences --user me --date 2024-01-08 --view week
  planner occurrences --user me --from today --to +14d --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewOccurrencesCommand(r.app).Execute(cmd.Context(), *opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.User, "user", "u", "", "User whose calendar to read")
	flags.StringVarP(&opts.Date, "date", "d", "today", "Date the view is built around")
	flags.StringVar(&opts.View, "view", "day", "View: day, week or month")
	flags.StringVar(&opts.From, "from", "", "Range start (overrides --date and --view)")
	flags.StringVar(&opts.To, "to", "", "Range end, inclusive")
	flags.StringVarP(&opts.Format, "format", "o", FormatTable, "Output format: table, json or yaml")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// OccurrenceRow is one printed occurrence.
type OccurrenceRow struct {
	Date      string  `json:"date" yaml:"date"`
	StartTime string  `json:"starttime" yaml:"starttime"`
	EndTime   string  `json:"endtime" yaml:"endtime"`
	Name      string  `json:"name" yaml:"name"`
	Type      string  `json:"type" yaml:"type"`
	XPosition float64 `json:"xposition" yaml:"xposition"`
	Width     float64 `json:"width" yaml:"width"`
	EventID   string  `json:"event_id" yaml:"event_id"`
	SeriesID  string  `json:"series_id,omitempty" yaml:"series_id,omitempty"`
}

// OccurrencesCommand handles the occurrences command
type OccurrencesCommand struct {
	app *App
}

// NewOccurrencesCommand creates a new occurrences command handler
func NewOccurrencesCommand(app *App) *OccurrencesCommand {
	return &OccurrencesCommand{app: app}
}

// Execute runs the occurrences command
func (c *OccurrencesCommand) Execute(ctx context.Context, opts OccurrencesOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	occ, err := c.load(ctx, opts)
	if err != nil {
		return err
	}

	rows := make([]OccurrenceRow, 0, len(occ))
	for _, o := range occ {
		rows = append(rows, OccurrenceRow{
			Date:      o.Date.String(),
			StartTime: o.StartTime.String(),
			EndTime:   o.EndTime.String(),
			Name:      o.Event.Name,
			Type:      string(o.Event.Type.Normalize()),
			XPosition: o.XPosition,
			Width:     o.Width,
			EventID:   o.Event.ID,
			SeriesID:  o.Event.RecurringEventID,
		})
	}

	return writeFormatted(c.app.Out, opts.Format, rows, func(tw *tabwriter.Writer) {
		if len(rows) == 0 {
			fmt.Fprintln(tw, "No occurrences.")
			return
		}
		fmt.Fprintln(tw, "DATE\tSTART\tEND\tTYPE\tLANE\tNAME")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g-%g%%\t%s\n",
				r.Date, r.StartTime, r.EndTime, r.Type, r.XPosition, r.XPosition+r.Width, r.Name)
		}
	})
}

func (c *OccurrencesCommand) load(ctx context.Context, opts OccurrencesOptions) ([]domain.Occurrence, error) {
	today := c.app.Today()

	if opts.From != "" || opts.To != "" {
		from, err := parseDateShorthand(opts.From, today)
		if err != nil {
			return nil, err
		}
		to := from
		if opts.To != "" {
			if to, err = parseDateShorthand(opts.To, today); err != nil {
				return nil, err
			}
		}
		return c.app.Events.OccurrencesInRange(ctx, opts.User, from, to)
	}

	date, err := parseDateShorthand(opts.Date, today)
	if err != nil {
		return nil, err
	}
	view, err := expander.ParseView(opts.View)
	if err != nil {
		return nil, err
	}
	return c.app.Events.Occurrences(ctx, opts.User, date, view)
}
