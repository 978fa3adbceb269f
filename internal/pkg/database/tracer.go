package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// QueryMetrics is a snapshot of the pgx tracer counters
type QueryMetrics struct {
	TotalQueries    int64
	SlowQueries     int64
	FailedQueries   int64
	TotalDurationMs int64
}

// queryTracer implements pgx.QueryTracer for slow query logging
type queryTracer struct {
	logger        *zap.Logger
	slowThreshold time.Duration

	totalQueries    atomic.Int64
	slowQueries     atomic.Int64
	failedQueries   atomic.Int64
	totalDurationMs atomic.Int64
}

type queryStartKey struct{}
type querySQLKey struct{}

func newQueryTracer(logger *zap.Logger, slowThreshold time.Duration) *queryTracer {
	return &queryTracer{logger: logger, slowThreshold: slowThreshold}
}

// GetMetrics returns a copy of the counters
func (t *queryTracer) GetMetrics() QueryMetrics {
	return QueryMetrics{
		TotalQueries:    t.totalQueries.Load(),
		SlowQueries:     t.slowQueries.Load(),
		FailedQueries:   t.failedQueries.Load(),
		TotalDurationMs: t.totalDurationMs.Load(),
	}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now())
	ctx = context.WithValue(ctx, querySQLKey{}, data.SQL)
	return ctx
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}

	duration := time.Since(start)
	t.totalQueries.Add(1)
	t.totalDurationMs.Add(duration.Milliseconds())
	if data.Err != nil {
		t.failedQueries.Add(1)
	}

	if duration > t.slowThreshold {
		t.slowQueries.Add(1)
		sql, _ := ctx.Value(querySQLKey{}).(string)
		t.logger.Warn("slow query detected",
			zap.Int64("duration_ms", duration.Milliseconds()),
			zap.String("sql", truncateSQL(sql, 200)),
		)
	}
}

func truncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen {
		return sql
	}
	return sql[:maxLen] + "..."
}
