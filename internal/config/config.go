package config

import (
	"os"
	"path/filepath"
	"time"

	"day-planner/internal/domain"
)

// Config holds all configuration options for the planner
type Config struct {
	Database      DatabaseConfig      `mapstructure:"database"`
	Server        ServerConfig        `mapstructure:"server"`
	Calendar      CalendarConfig      `mapstructure:"calendar"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"` // sqlite or postgres
	DSN            string        `mapstructure:"dsn"`    // postgres connection string
	Dir            string        `mapstructure:"dir"`
	Filename       string        `mapstructure:"filename"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	DirPermissions uint32        `mapstructure:"dir_permissions"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Listen             string        `mapstructure:"listen"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// CalendarConfig holds grid layout and recurrence settings
type CalendarConfig struct {
	DayStart          string  `mapstructure:"day_start"`
	DayEnd            string  `mapstructure:"day_end"`
	SnapMinutes       int     `mapstructure:"snap_minutes"`
	SnapPercent       float64 `mapstructure:"snap_percent"`
	DefaultWidth      float64 `mapstructure:"default_width"`
	SeriesHorizonDays int     `mapstructure:"series_horizon_days"`
	Timezone          string  `mapstructure:"timezone"`
}

// NotificationsConfig holds task nudge settings
type NotificationsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron spec
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics settings
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Dir:            filepath.Join(homeDir, ".planner"),
			Filename:       "planner.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Server: ServerConfig{
			Listen:             "127.0.0.1:8080",
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			RequestTimeout:     30 * time.Second,
			CORSAllowedOrigins: "*",
			RateLimitRequests:  50,
			RateLimitWindow:    time.Minute,
		},
		Calendar: CalendarConfig{
			DayStart:          "06:00",
			DayEnd:            "22:00",
			SnapMinutes:       15,
			SnapPercent:       5,
			DefaultWidth:      100,
			SeriesHorizonDays: 90,
			Timezone:          "Local",
		},
		Notifications: NotificationsConfig{
			Enabled:  true,
			Schedule: "@every 1m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// GetDatabasePath returns the full path to the sqlite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// DataSource returns the driver-specific connection string
func (c *Config) DataSource() string {
	if c.Database.Driver == "postgres" {
		return c.Database.DSN
	}
	if c.Database.Filename == ":memory:" {
		return ":memory:"
	}
	return c.GetDatabasePath()
}

// Location resolves the configured timezone
func (c *CalendarConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// VisibleRange returns the parsed day start and end clocks
func (c *CalendarConfig) VisibleRange() (domain.Clock, domain.Clock, error) {
	start, err := domain.ParseClock(c.DayStart)
	if err != nil {
		return 0, 0, err
	}
	end, err := domain.ParseClock(c.DayEnd)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
		if c.Database.Dir == "" && c.Database.Filename != ":memory:" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
	case "postgres":
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "postgres requires a connection string"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or postgres"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Server.Listen == "" {
		return &ConfigError{Field: "server.listen", Message: "listen address cannot be empty"}
	}
	if c.Server.RateLimitRequests < 0 {
		return &ConfigError{Field: "server.rate_limit_requests", Message: "rate limit cannot be negative"}
	}

	start, end, err := c.Calendar.VisibleRange()
	if err != nil {
		return &ConfigError{Field: "calendar.day_start", Message: err.Error()}
	}
	if end <= start {
		return &ConfigError{Field: "calendar.day_end", Message: "day end must be after day start"}
	}
	if c.Calendar.SnapMinutes <= 0 || c.Calendar.SnapMinutes > 60 {
		return &ConfigError{Field: "calendar.snap_minutes", Message: "snap minutes must be between 1 and 60"}
	}
	if c.Calendar.SnapPercent <= 0 || c.Calendar.SnapPercent > 100 {
		return &ConfigError{Field: "calendar.snap_percent", Message: "snap percent must be between 0 and 100"}
	}
	if c.Calendar.DefaultWidth <= 0 || c.Calendar.DefaultWidth > 100 {
		return &ConfigError{Field: "calendar.default_width", Message: "default width must be between 0 and 100"}
	}
	if c.Calendar.SeriesHorizonDays < 1 {
		return &ConfigError{Field: "calendar.series_horizon_days", Message: "series horizon must be at least one day"}
	}

	if c.Notifications.Enabled && c.Notifications.Schedule == "" {
		return &ConfigError{Field: "notifications.schedule", Message: "schedule cannot be empty when notifications are enabled"}
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "format must be console or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
