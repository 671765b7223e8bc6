// Package sqldb is the load/save boundary for events and tasks over sqlx.
// It speaks SQLite (modernc) and PostgreSQL (lib/pq); queries are written
// with ? placeholders and rebound per driver.
package sqldb

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/errors"
	"day-planner/internal/logging"
	"day-planner/internal/repository/sqldb/migrations"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Repository defines the persistence operations the planner needs. Every
// call is scoped to one user.
type Repository interface {
	LoadEvents(ctx context.Context, userID string) ([]domain.EventRecord, error)
	SaveEvents(ctx context.Context, userID string, records []domain.EventRecord) ([]domain.EventRecord, error)
	DeleteEvents(ctx context.Context, userID string, ids []string) (int64, error)

	LoadTasks(ctx context.Context, userID string) ([]domain.TaskRecord, error)
	GetTask(ctx context.Context, userID, id string) (*domain.TaskRecord, error)
	SaveTask(ctx context.Context, userID string, record domain.TaskRecord) (domain.TaskRecord, error)
	DeleteTask(ctx context.Context, userID, id string) error

	Ping(ctx context.Context) error
	Close() error
}

// Options tunes a repository.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
	Logger       *logging.Logger
}

// SQLRepository implements Repository
type SQLRepository struct {
	db     *sqlx.DB
	driver string
	opts   Options
	logger *logging.Logger
}

// Connect opens a database handle without running migrations.
func Connect(driver, dataSource string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, errors.NewInvalidInputError("database.driver", driver, "must be sqlite or postgres")
	}

	db, err := sqlx.Open(driver, dataSource)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	if driver == DriverSQLite && dataSource == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// New opens the database, runs pending migrations and returns a repository.
func New(driver, dataSource string, opts Options) (*SQLRepository, error) {
	db, err := Connect(driver, dataSource)
	if err != nil {
		return nil, err
	}

	logger := logging.OrNop(opts.Logger).WithComponent("repository")

	ran, err := migrations.RunMigrations(context.Background(), db)
	if err != nil {
		_ = db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}
	if ran > 0 {
		logger.Infow("applied migrations", "count", ran, "driver", driver)
	}

	return &SQLRepository{db: db, driver: driver, opts: opts, logger: logger}, nil
}

// Open builds a repository from configuration, creating the SQLite data
// directory when needed.
func Open(cfg *config.Config, logger *logging.Logger) (*SQLRepository, error) {
	if cfg.Database.Driver == DriverSQLite && cfg.Database.Filename != ":memory:" {
		if err := os.MkdirAll(cfg.Database.Dir, os.FileMode(cfg.Database.DirPermissions)); err != nil {
			return nil, errors.NewDatabaseError("create data directory", err)
		}
	}

	return New(cfg.Database.Driver, cfg.DataSource(), Options{
		QueryTimeout: cfg.Database.QueryTimeout,
		WriteTimeout: cfg.Database.WriteTimeout,
		Logger:       logger,
	})
}

// DB exposes the underlying handle for maintenance commands.
func (r *SQLRepository) DB() *sqlx.DB {
	return r.db
}

// Driver returns the database driver name.
func (r *SQLRepository) Driver() string {
	return r.driver
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection.
func (r *SQLRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.readContext(ctx)
	defer cancel()
	return HandleDatabaseError("ping", r.db.PingContext(ctx))
}

func (r *SQLRepository) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.opts.QueryTimeout)
}

func (r *SQLRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.opts.WriteTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func requireUser(userID string) error {
	if userID == "" {
		return errors.NewPermissionError("access calendar", "user")
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}
