package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"day-planner/internal/services"
)

// NotifyOptions are the flags of the notify command.
type NotifyOptions struct {
	User string
	Once bool
}

func (r *RootCommand) newNotifyCommand() *cobra.Command {
	opts := &NotifyOptions{}
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Print task nudges as they come due",
		Long: `Watch a user's tasks and print a line when a task's nudge window opens
(nudge minutes before its time). Each task is nudged once. With --once a
single check runs and the command exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewNotifyCommand(r.app).Execute(cmd.Context(), *opts)
		},
	}

	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "User whose tasks to watch")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "Check once and exit")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// NotifyCommand handles the notify command
type NotifyCommand struct {
	app *App
}

// NewNotifyCommand creates a new notify command handler
func NewNotifyCommand(app *App) *NotifyCommand {
	return &NotifyCommand{app: app}
}

// Execute runs the notify command
func (c *NotifyCommand) Execute(ctx context.Context, opts NotifyOptions) error {
	cfg := c.app.Config
	tracker := services.NewNotificationTracker(opts.User, c.app.Tasks, c.print, services.TrackerOptions{
		Location: cfg.Calendar.Location(),
		Schedule: cfg.Notifications.Schedule,
		Logger:   c.app.Logger,
		Metrics:  c.app.Metrics,
		Now:      timeNow,
	})

	if opts.Once {
		n, err := tracker.Check(ctx, timeNow())
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(c.app.Out, "No nudges due.")
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := tracker.Check(ctx, timeNow()); err != nil {
		return err
	}
	if err := tracker.Start(ctx); err != nil {
		return err
	}
	defer tracker.Stop()

	<-ctx.Done()
	return nil
}

func (c *NotifyCommand) print(n services.Nudge) {
	fmt.Fprintf(c.app.Out, "[%s] %s is due at %s\n",
		n.FiredAt.Format("15:04"), n.Title, n.DueAt.Format("2006-01-02 15:04"))
}
