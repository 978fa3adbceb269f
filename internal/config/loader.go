package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through an existing viper instance, which
// lets commands bind their flags before the values are resolved.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/reactpress")

	// Ignore error if config file not found
	_ = v.ReadInConfig()

	var cfg Config

	cfg.App.Env = v.GetString("app_env")

	// Database
	cfg.Database.Driver = strings.ToLower(v.GetString("database_driver"))
	cfg.Database.URL = v.GetString("database_url")
	cfg.Database.SQLitePath = v.GetString("sqlite_path")
	cfg.Database.MaxOpenConns = v.GetInt("database_max_open_conns")
	cfg.Database.MaxIdleConns = v.GetInt("database_max_idle_conns")
	cfg.Database.ConnMaxLifetime = v.GetDuration("database_conn_max_lifetime")
	cfg.Database.SlowQueryThreshold = v.GetDuration("database_slow_query_threshold")

	// PostgreSQL
	cfg.Database.Postgres.Host = v.GetString("postgres_host")
	cfg.Database.Postgres.Port = v.GetInt("postgres_port")
	cfg.Database.Postgres.User = v.GetString("postgres_user")
	cfg.Database.Postgres.Password = v.GetString("postgres_password")
	cfg.Database.Postgres.Database = v.GetString("postgres_db")
	cfg.Database.Postgres.SSLMode = v.GetString("postgres_ssl_mode")

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	// Sentry
	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.Environment = v.GetString("sentry_environment")
	cfg.Sentry.Release = v.GetString("sentry_release")
	cfg.Sentry.Debug = v.GetBool("sentry_debug")

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")

	// Database defaults
	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("sqlite_path", "reactpress.db")
	v.SetDefault("database_max_open_conns", 25)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", "1h")
	v.SetDefault("database_slow_query_threshold", "100ms")

	// PostgreSQL defaults
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "reactpress")
	v.SetDefault("postgres_password", "reactpress")
	v.SetDefault("postgres_db", "reactpress")
	v.SetDefault("postgres_ssl_mode", "disable")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case DriverPgx, DriverPostgres:
	case DriverSQLite:
		if cfg.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns < 0 || cfg.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database connection limits must not be negative")
	}
	return nil
}
