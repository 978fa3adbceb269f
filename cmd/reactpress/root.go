package main

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/reactpress/reactpress/internal/config"
	"github.com/reactpress/reactpress/internal/pkg/database"
	"github.com/reactpress/reactpress/internal/pkg/logger"
	"github.com/reactpress/reactpress/internal/repository/sqlrepo"
)

// Version is set at build time
var Version = "0.1.0"

const sentryFlushTimeout = 5 * time.Second

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "reactpress",
		Short: "ReactPress content database tools",
		Long: `reactpress prepares and populates the ReactPress content database.

Commands:
  schema  - Create the tables and indexes
  seed    - Load the sample admin user, taxonomy, post and page

Example:
  reactpress schema --driver sqlite --sqlite-path reactpress.db
  reactpress seed --reset`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("driver", "", "Database driver: pgx, postgres or sqlite (or set DATABASE_DRIVER)")
	flags.String("database-url", "", "PostgreSQL connection URL (or set DATABASE_URL)")
	flags.String("sqlite-path", "", "SQLite database file (or set SQLITE_PATH)")
	flags.String("log-level", "", "Log level (or set LOG_LEVEL)")

	for key, flag := range map[string]string{
		"database_driver": "driver",
		"database_url":    "database-url",
		"sqlite_path":     "sqlite-path",
		"log_level":       "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newSchemaCmd(v))
	root.AddCommand(newSeedCmd(v))
	return root
}

// app holds what a command needs once configuration is resolved
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
	repos  *sqlrepo.Repositories
}

// sentryEnabled is set once Sentry has been initialised so execute can
// report the command's failure.
var sentryEnabled bool

func bootstrap(ctx context.Context, v *viper.Viper) (*app, error) {
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.WithComponent("cli")

	if cfg.Sentry.Enabled() {
		if err := initSentry(cfg); err != nil {
			log.Error("failed to initialize Sentry", zap.Error(err))
		} else {
			sentryEnabled = true
		}
	}

	db, err := database.New(ctx, cfg.Database, logger.WithComponent("database"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: log,
		db:     db,
		repos:  sqlrepo.NewRepositories(db, logger.WithComponent("repository")),
	}, nil
}

func (a *app) Close() {
	if m := a.db.QueryMetrics(); m.TotalQueries > 0 {
		a.logger.Debug("database query totals",
			zap.Int64("queries", m.TotalQueries),
			zap.Int64("slow", m.SlowQueries),
			zap.Int64("failed", m.FailedQueries),
			zap.Int64("duration_ms", m.TotalDurationMs),
		)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = logger.Sync()
}

func initSentry(cfg *config.Config) error {
	release := cfg.Sentry.Release
	if release == "" {
		release = "reactpress@" + Version
	}
	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = cfg.App.Env
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      environment,
		Release:          release,
		Debug:            cfg.Sentry.Debug,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	return nil
}

func execute(ctx context.Context) error {
	err := newRootCmd(viper.New()).ExecuteContext(ctx)
	if err != nil && sentryEnabled {
		sentry.CaptureException(err)
		sentry.Flush(sentryFlushTimeout)
	}
	return err
}
