package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"day-planner/internal/api"
	"day-planner/internal/services"
)

const shutdownTimeout = 10 * time.Second

func (r *RootCommand) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the planner API. Every /api/v1 request must carry the X-User-ID header.

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewServeCommand(r.app).Execute(cmd.Context())
		},
	}
	cmd.Flags().String("listen", "", "Listen address (overrides PLANNER_SERVER_LISTEN)")
	return cmd
}

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute runs the server until ctx is cancelled or a signal arrives.
func (c *ServeCommand) Execute(ctx context.Context) error {
	cfg := c.app.Config

	var hub *services.NotificationHub
	if cfg.Notifications.Enabled {
		hub = services.NewNotificationHub(c.app.Tasks, services.TrackerOptions{
			Location: cfg.Calendar.Location(),
			Schedule: cfg.Notifications.Schedule,
			Logger:   c.app.Logger,
			Metrics:  c.app.Metrics,
		})
	}

	server := api.New(cfg, api.Dependencies{
		Events:  c.app.Events,
		Tasks:   c.app.Tasks,
		Hub:     hub,
		Engine:  c.app.Engine,
		Store:   c.app.Repo,
		Metrics: c.app.Metrics,
		Logger:  c.app.Logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Listen)
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
