package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reactpress/reactpress/internal/config"
	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("db-%s?mode=memory&cache=shared", uuid.NewString()),
	}
	db, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplySchema(context.Background()))
	return db
}

func insertUser(ctx context.Context, q sqlx.ExtContext, email string) error {
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, q.Rebind(
		`INSERT INTO users (id, email, name, password, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		uuid.New(), email, "Test User", "hash", "AUTHOR", now, now)
	return err
}

func countUsers(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Conn.GetContext(context.Background(), &n, `SELECT COUNT(*) FROM users`))
	return n
}

func TestDialectLimitOffset(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		skip    int
		take    int
		want    string
	}{
		{"no window", DialectPostgres, 0, 0, ""},
		{"take only", DialectPostgres, 0, 10, " LIMIT 10"},
		{"skip and take", DialectSQLite, 20, 10, " LIMIT 10 OFFSET 20"},
		{"postgres skip only", DialectPostgres, 5, 0, " OFFSET 5"},
		{"sqlite skip only", DialectSQLite, 5, 0, " LIMIT -1 OFFSET 5"},
		{"negative values ignored", DialectSQLite, -1, -3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.LimitOffset(tt.skip, tt.take))
		})
	}
}

func TestDialectSchema(t *testing.T) {
	for _, d := range []Dialect{DialectPostgres, DialectSQLite} {
		stmts, err := d.Schema()
		require.NoError(t, err)
		assert.NotEmpty(t, stmts)
		for _, stmt := range stmts {
			assert.NotContains(t, stmt, ";")
		}
	}

	_, err := Dialect("oracle").Schema()
	assert.Error(t, err)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DatabaseConfig{Driver: "mysql"}, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestApplySchemaIsIdempotent(t *testing.T) {
	db := openSQLite(t)
	assert.Equal(t, DialectSQLite, db.Dialect)
	require.NoError(t, db.ApplySchema(context.Background()))
}

// slowQueries reads reactpress_db_slow_queries_total for one label pair
func slowQueries(t *testing.T, driver, operation string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "reactpress_db_slow_queries_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["database"] == driver && labels["operation"] == operation {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestObserveUsesConfiguredThreshold(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.DatabaseConfig{
		Driver:             config.DriverSQLite,
		SQLitePath:         fmt.Sprintf("db-%s?mode=memory&cache=shared", uuid.NewString()),
		SlowQueryThreshold: 5 * time.Millisecond,
	}
	db, err := New(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	defer db.Close()

	before := slowQueries(t, config.DriverSQLite, "posts.threshold_check")

	db.Observe("posts.threshold_check", time.Now().Add(-20*time.Millisecond), nil)
	assert.Equal(t, before+1, slowQueries(t, config.DriverSQLite, "posts.threshold_check"))
	assert.Equal(t, 1, logs.FilterMessage("slow repository operation").Len())

	db.Observe("posts.threshold_check", time.Now(), nil)
	assert.Equal(t, before+1, slowQueries(t, config.DriverSQLite, "posts.threshold_check"))
	assert.Equal(t, 1, logs.FilterMessage("slow repository operation").Len())
}

func TestQueryMetrics(t *testing.T) {
	t.Run("untraced drivers report zeros", func(t *testing.T) {
		db := openSQLite(t)
		assert.Equal(t, QueryMetrics{}, db.QueryMetrics())
	})

	t.Run("reads the pgx tracer", func(t *testing.T) {
		tracer := newQueryTracer(zap.NewNop(), time.Second)
		db := &DB{tracer: tracer}
		ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

		m := db.QueryMetrics()
		assert.Equal(t, int64(1), m.TotalQueries)
		assert.Equal(t, int64(1), m.FailedQueries)
	})
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := openSQLite(t)
		err := db.Transaction(ctx, func(tx *sqlx.Tx) error {
			return insertUser(ctx, tx, "commit@example.com")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countUsers(t, db))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := openSQLite(t)
		sentinel := errors.New("stop")
		err := db.Transaction(ctx, func(tx *sqlx.Tx) error {
			require.NoError(t, insertUser(ctx, tx, "rollback@example.com"))
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 0, countUsers(t, db))
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db := openSQLite(t)
		assert.Panics(t, func() {
			_ = db.Transaction(ctx, func(tx *sqlx.Tx) error {
				require.NoError(t, insertUser(ctx, tx, "panic@example.com"))
				panic("boom")
			})
		})
		assert.Equal(t, 0, countUsers(t, db))
	})
}

func TestWithinTxReusesOpenTransaction(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	err := db.Transaction(ctx, func(tx *sqlx.Tx) error {
		return db.WithinTx(ctx, tx, func(inner sqlx.ExtContext) error {
			assert.Same(t, tx, inner)
			return insertUser(ctx, inner, "nested@example.com")
		})
	})
	require.NoError(t, err)

	err = db.WithinTx(ctx, db.Conn, func(inner sqlx.ExtContext) error {
		_, ok := inner.(*sqlx.Tx)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countUsers(t, db))
}

func TestClassifySQLiteErrors(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	require.NoError(t, insertUser(ctx, db.Conn, "dup@example.com"))

	err := ClassifyError(insertUser(ctx, db.Conn, "dup@example.com"), "user")
	assert.True(t, apperrors.IsConflict(err), "got %v", err)

	now := time.Now().UTC()
	_, fkErr := db.Conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, slug, content, status, author_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New(), "Orphan", "orphan", "body", "DRAFT", uuid.New(), now, now)
	err = ClassifyError(fkErr, "post")
	assert.True(t, apperrors.IsInvalidReference(err), "got %v", err)
}

func TestClassifyPostgresErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"pgx unique", &pgconn.PgError{Code: "23505"}, apperrors.IsConflict},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, apperrors.IsInvalidReference},
		{"pq unique", &pq.Error{Code: "23505"}, apperrors.IsConflict},
		{"pq foreign key", fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}), apperrors.IsInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyError(tt.err, "tag")
			assert.True(t, tt.check(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	assert.NoError(t, ClassifyError(nil, "post"))

	timeout := errors.New("i/o timeout")
	assert.Same(t, timeout, ClassifyError(timeout, "post"))

	notNull := &pgconn.PgError{Code: "23502"}
	assert.Same(t, error(notNull), ClassifyError(notNull, "post"))
}

// TestPostgresConnection runs against a live server when one is configured.
func TestPostgresConnection(t *testing.T) {
	if os.Getenv("POSTGRES_TEST_HOST") == "" {
		t.Skip("Skipping integration test: POSTGRES_TEST_HOST not set")
	}

	cfg := config.DatabaseConfig{
		Driver: config.DriverPgx,
		Postgres: config.PostgresConfig{
			Host:     os.Getenv("POSTGRES_TEST_HOST"),
			Port:     5432,
			User:     os.Getenv("POSTGRES_TEST_USER"),
			Password: os.Getenv("POSTGRES_TEST_PASS"),
			Database: os.Getenv("POSTGRES_TEST_DB"),
			SSLMode:  "disable",
		},
	}

	db, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	assert.Equal(t, DialectPostgres, db.Dialect)
	require.NoError(t, db.ApplySchema(context.Background()))
}
