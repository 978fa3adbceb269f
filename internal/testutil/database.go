// Package testutil provides shared test utilities for ReactPress.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reactpress/reactpress/internal/config"
	"github.com/reactpress/reactpress/internal/pkg/database"
)

// NewSQLiteDB opens a private in-memory SQLite database with the schema
// applied. It is closed when the test ends.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("reactpress-test-%s?mode=memory&cache=shared", uuid.NewString()),
	}
	db, err := database.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.ApplySchema(context.Background()))
	return db
}

// PostgresTestConfig returns the connection settings for integration tests.
// The second result is false when POSTGRES_TEST_HOST is not set.
func PostgresTestConfig(driver string) (config.DatabaseConfig, bool) {
	host := os.Getenv("POSTGRES_TEST_HOST")
	if host == "" {
		return config.DatabaseConfig{}, false
	}

	cfg := config.DatabaseConfig{
		Driver: driver,
		Postgres: config.PostgresConfig{
			Host:     host,
			Port:     5432,
			User:     os.Getenv("POSTGRES_TEST_USER"),
			Password: os.Getenv("POSTGRES_TEST_PASS"),
			Database: os.Getenv("POSTGRES_TEST_DB"),
			SSLMode:  "disable",
		},
		MaxOpenConns: 5,
	}
	if cfg.Postgres.Database == "" {
		cfg.Postgres.Database = "test_reactpress"
	}
	if cfg.Postgres.User == "" {
		cfg.Postgres.User = "postgres"
	}
	return cfg, true
}

// NewPostgresDB opens a live PostgreSQL database through driver (pgx or
// postgres) with the schema applied in a schema of its own, so tests start
// from empty tables and never see each other's rows. The schema is dropped
// when the test ends. The test is skipped when POSTGRES_TEST_HOST is not set
// or the server cannot be reached.
func NewPostgresDB(t *testing.T, driver string) *database.DB {
	t.Helper()

	cfg, ok := PostgresTestConfig(driver)
	if !ok {
		t.Skip("Skipping integration test: POSTGRES_TEST_HOST not set")
	}
	ctx := context.Background()

	admin, err := database.New(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(func() { _ = admin.Close() })

	schema := "reactpress_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Conn.ExecContext(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Conn.ExecContext(context.Background(), "DROP SCHEMA IF EXISTS "+schema+" CASCADE")
	})

	// Both pgx and lib/pq send unknown URL parameters as session settings.
	cfg.URL = cfg.Postgres.DSN() + "&search_path=" + schema
	db, err := database.New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.ApplySchema(ctx))
	return db
}
