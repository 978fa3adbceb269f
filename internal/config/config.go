package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Supported database drivers
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Sentry   SentryConfig
}

// AppConfig holds process-level settings
type AppConfig struct {
	Env string `mapstructure:"env"`
}

// DatabaseConfig selects and tunes the storage backend
type DatabaseConfig struct {
	// Driver is one of pgx, postgres (lib/pq) or sqlite.
	Driver string `mapstructure:"driver"`
	// URL overrides the Postgres fields when set.
	URL        string         `mapstructure:"url"`
	Postgres   PostgresConfig `mapstructure:"postgres"`
	SQLitePath string         `mapstructure:"sqlite_path"`

	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
}

// IsPostgres reports whether the driver talks to PostgreSQL
func (c DatabaseConfig) IsPostgres() bool {
	return c.Driver == DriverPgx || c.Driver == DriverPostgres
}

// DSN returns the connection string for the configured driver
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return SQLiteDSN(c.SQLitePath)
	}
	if c.URL != "" {
		return c.URL
	}
	return c.Postgres.DSN()
}

// SQLiteDSN builds a modernc sqlite DSN with foreign keys enforced and
// timestamps written in a sortable layout.
func SQLiteDSN(path string) string {
	return "file:" + path + sqliteQuerySep(path) + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN returns the PostgreSQL connection string
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(c.SSLMode)),
	}
	return u.String()
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Release     string `mapstructure:"release"`
	Debug       bool   `mapstructure:"debug"`
}

// Enabled reports whether a Sentry DSN is configured
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// IsDevelopment returns true if running in development mode
func (c Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode
func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func sqliteQuerySep(path string) string {
	if strings.Contains(path, "?") {
		return "&"
	}
	return "?"
}
