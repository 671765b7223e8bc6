package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/logging"
	"day-planner/internal/metrics"
	"day-planner/internal/placement"
	"day-planner/internal/repository/sqldb"
	"day-planner/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App holds the wired planner components a command runs against.
type App struct {
	Config  *config.Config
	Logger  *logging.Logger
	Repo    *sqldb.SQLRepository
	Engine  *placement.Engine
	Metrics *metrics.Metrics
	Events  services.EventService
	Tasks   services.TaskService
	Out     io.Writer
}

// AppFactory builds an App from loaded configuration.
type AppFactory func(cfg *config.Config) (*App, error)

// OpenApp is the production factory: it builds the logger from config and
// opens the configured database.
func OpenApp(cfg *config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}

	repo, err := sqldb.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app, err := NewApp(cfg, repo, logger)
	if err != nil {
		repo.Close()
		return nil, err
	}
	return app, nil
}

// NewApp wires services over an open repository.
func NewApp(cfg *config.Config, repo *sqldb.SQLRepository, logger *logging.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	engine, err := placement.NewEngine(cfg.Calendar, logger)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Repo:    repo,
		Engine:  engine,
		Metrics: m,
		Events:  services.NewEventService(repo, engine, m, logger),
		Tasks:   services.NewTaskService(repo, m, logger),
		Out:     os.Stdout,
	}, nil
}

// Close releases the database and flushes the logger.
func (a *App) Close() error {
	var err error
	if a.Repo != nil {
		err = a.Repo.Close()
	}
	_ = a.Logger.Close()
	return err
}

// Today is the current date in the calendar's timezone.
func (a *App) Today() domain.Date {
	return domain.DateOf(timeNow().In(a.Config.Calendar.Location()))
}

var shorthandPattern = regexp.MustCompile(`^([+-]?\d+)(d|w|mo|y)$`)

// parseDateShorthand resolves "today", "tomorrow", "yesterday", relative
// offsets like "+3d", "-2w", "1mo" and YYYY-MM-DD dates against today.
func parseDateShorthand(s string, today domain.Date) (domain.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	matches := shorthandPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		d, err := domain.ParseDate(s)
		if err != nil {
			return domain.Date{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, today, tomorrow or an offset like +3d", s)
		}
		return d, nil
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return domain.Date{}, fmt.Errorf("invalid number in date offset: %s", s)
	}

	switch matches[2] {
	case "d":
		return today.AddDays(value), nil
	case "w":
		return today.AddDays(7 * value), nil
	case "mo":
		return domain.DateOf(today.Time().AddDate(0, value, 0)), nil
	case "y":
		return domain.DateOf(today.Time().AddDate(value, 0, 0)), nil
	default:
		return domain.Date{}, fmt.Errorf("invalid date unit: %s", matches[2])
	}
}
