// Package database opens the relational store behind the repositories.
//
// Three drivers are supported behind one sqlx handle:
//   - pgx: PostgreSQL through pgx/v5 stdlib, with a slow-query tracer
//   - postgres: PostgreSQL through lib/pq
//   - sqlite: modernc.org/sqlite, for local installs and tests
//
// Queries are written with '?' placeholders and rebound by sqlx for the
// active driver. Dialect differences that sqlx cannot hide (pagination,
// bootstrap DDL) are handled by Dialect.
package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/reactpress/reactpress/internal/config"
	"github.com/reactpress/reactpress/internal/pkg/metrics"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// Dialect identifies the SQL flavour of the connected backend
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// LimitOffset renders a pagination clause. Non-positive take means no limit,
// non-positive skip means no offset.
func (d Dialect) LimitOffset(skip, take int) string {
	switch {
	case take > 0 && skip > 0:
		return " LIMIT " + strconv.Itoa(take) + " OFFSET " + strconv.Itoa(skip)
	case take > 0:
		return " LIMIT " + strconv.Itoa(take)
	case skip > 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
		if d == DialectSQLite {
			return " LIMIT -1 OFFSET " + strconv.Itoa(skip)
		}
		return " OFFSET " + strconv.Itoa(skip)
	}
	return ""
}

// DB wraps a sqlx handle together with the driver it was opened with
type DB struct {
	Conn    *sqlx.DB
	Driver  string
	Dialect Dialect

	logger        *zap.Logger
	slowThreshold time.Duration
	tracer        *queryTracer
}

// New opens and pings the database described by cfg
func New(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		conn    *sqlx.DB
		dialect Dialect
		tracer  *queryTracer
		err     error
	)
	threshold := slowThreshold(cfg)

	switch cfg.Driver {
	case config.DriverPgx:
		connConfig, perr := pgx.ParseConfig(cfg.DSN())
		if perr != nil {
			return nil, fmt.Errorf("failed to parse postgres config: %w", perr)
		}
		tracer = newQueryTracer(logger, threshold)
		connConfig.Tracer = tracer
		conn = sqlx.NewDb(stdlib.OpenDB(*connConfig), config.DriverPgx)
		dialect = DialectPostgres
	case config.DriverPostgres:
		conn, err = sqlx.Open(config.DriverPostgres, cfg.DSN())
		dialect = DialectPostgres
	case config.DriverSQLite:
		conn, err = sqlx.Open(config.DriverSQLite, cfg.DSN())
		dialect = DialectSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if dialect == DialectSQLite {
		// One writer at a time; the single connection also keeps
		// in-memory databases alive for the life of the handle.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			conn.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			conn.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Info("connected to database",
		zap.String("driver", cfg.Driver),
		zap.Int("max_open_conns", conn.Stats().MaxOpenConnections),
	)

	return &DB{
		Conn:          conn,
		Driver:        cfg.Driver,
		Dialect:       dialect,
		logger:        logger,
		slowThreshold: threshold,
		tracer:        tracer,
	}, nil
}

func slowThreshold(cfg config.DatabaseConfig) time.Duration {
	if cfg.SlowQueryThreshold > 0 {
		return cfg.SlowQueryThreshold
	}
	return metrics.DefaultSlowQueryThreshold
}

// QueryMetrics returns the driver-level counters collected by the pgx
// tracer. Other drivers are not traced and report zeros.
func (db *DB) QueryMetrics() QueryMetrics {
	if db.tracer == nil {
		return QueryMetrics{}
	}
	return db.tracer.GetMetrics()
}

// Close closes the underlying connection pool
func (db *DB) Close() error {
	if db.Conn != nil {
		return db.Conn.Close()
	}
	return nil
}

// Transaction executes fn within a transaction. The transaction is rolled
// back when fn returns an error or panics.
func (db *DB) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.Conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithinTx runs fn inside q when q is already a transaction, otherwise in a
// new transaction on db.
func (db *DB) WithinTx(ctx context.Context, q sqlx.ExtContext, fn func(tx sqlx.ExtContext) error) error {
	if tx, ok := q.(*sqlx.Tx); ok {
		return fn(tx)
	}
	return db.Transaction(ctx, func(tx *sqlx.Tx) error {
		return fn(tx)
	})
}

// Observe records metrics for one repository operation and logs it when slow
func (db *DB) Observe(operation string, start time.Time, err error) {
	duration := time.Since(start)
	metrics.RecordDBQuery(db.Driver, operation, duration, db.slowThreshold)
	if err != nil {
		metrics.RecordDBError(db.Driver, operation)
	}
	if duration > db.slowThreshold {
		db.logger.Warn("slow repository operation",
			zap.String("operation", operation),
			zap.Int64("duration_ms", duration.Milliseconds()),
		)
	}
}
