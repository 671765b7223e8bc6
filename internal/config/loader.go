package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the loader reads,
// e.g. PLANNER_CALENDAR_DAY_START.
const EnvPrefix = "PLANNER"

// Loader handles loading configuration from multiple sources
type Loader struct {
	configFile string
	dotenv     bool
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{dotenv: true}
}

// WithConfigFile makes the loader read a YAML/TOML/JSON file as well
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithoutDotenv disables reading .env from the working directory
func (l *Loader) WithoutDotenv() *Loader {
	l.dotenv = false
	return l
}

// Load loads configuration using the cascading strategy:
// defaults, then config file, then environment variables.
func (l *Loader) Load() (*Config, error) {
	if l.dotenv {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, NewConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key of the default config with viper so
// AutomaticEnv can resolve nested keys during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	// Database defaults
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.dir", d.Database.Dir)
	v.SetDefault("database.filename", d.Database.Filename)
	v.SetDefault("database.query_timeout", d.Database.QueryTimeout)
	v.SetDefault("database.write_timeout", d.Database.WriteTimeout)
	v.SetDefault("database.dir_permissions", d.Database.DirPermissions)

	// Server defaults
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.cors_allowed_origins", d.Server.CORSAllowedOrigins)
	v.SetDefault("server.rate_limit_requests", d.Server.RateLimitRequests)
	v.SetDefault("server.rate_limit_window", d.Server.RateLimitWindow)

	// Calendar defaults
	v.SetDefault("calendar.day_start", d.Calendar.DayStart)
	v.SetDefault("calendar.day_end", d.Calendar.DayEnd)
	v.SetDefault("calendar.snap_minutes", d.Calendar.SnapMinutes)
	v.SetDefault("calendar.snap_percent", d.Calendar.SnapPercent)
	v.SetDefault("calendar.default_width", d.Calendar.DefaultWidth)
	v.SetDefault("calendar.series_horizon_days", d.Calendar.SeriesHorizonDays)
	v.SetDefault("calendar.timezone", d.Calendar.Timezone)

	// Notification defaults
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.schedule", d.Notifications.Schedule)

	// Logging and metrics defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DBDriver     *string
	DBDSN        *string
	DBDir        *string
	DBFilename   *string
	Listen       *string
	DayStart     *string
	DayEnd       *string
	LogLevel     *string
	LogFormat    *string
	QueryTimeout *time.Duration
}

// Apply applies command line overrides to the configuration
func (o *ConfigOverrides) Apply(cfg *Config) {
	if o.DBDriver != nil {
		cfg.Database.Driver = *o.DBDriver
	}
	if o.DBDSN != nil {
		cfg.Database.DSN = *o.DBDSN
	}
	if o.DBDir != nil {
		cfg.Database.Dir = *o.DBDir
	}
	if o.DBFilename != nil {
		cfg.Database.Filename = *o.DBFilename
	}
	if o.Listen != nil {
		cfg.Server.Listen = *o.Listen
	}
	if o.DayStart != nil {
		cfg.Calendar.DayStart = *o.DayStart
	}
	if o.DayEnd != nil {
		cfg.Calendar.DayEnd = *o.DayEnd
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		cfg.Logging.Format = *o.LogFormat
	}
	if o.QueryTimeout != nil {
		cfg.Database.QueryTimeout = *o.QueryTimeout
	}
}
