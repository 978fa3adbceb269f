package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/reactpress/reactpress/internal/pkg/database"
	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
	"github.com/reactpress/reactpress/internal/pkg/pagination"
)

// Values maps column names to the values written by Create and Update
type Values map[string]any

// Filter maps column names to values matched by equality. A nil or empty
// filter matches every row.
type Filter map[string]any

// tableDef binds a Base to one table
type tableDef struct {
	table    string
	resource string
	columns  []string
}

func (s tableDef) hasColumn(name string) bool {
	for _, c := range s.columns {
		if c == name {
			return true
		}
	}
	return false
}

// selectList renders the column list, optionally qualified by a table alias
func (s tableDef) selectList(alias string) string {
	if alias == "" {
		return strings.Join(s.columns, ", ")
	}
	qualified := make([]string, len(s.columns))
	for i, c := range s.columns {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

// sortedKeys returns the keys of m in a stable order after checking each one
// against the table's columns.
func (s tableDef) sortedKeys(m map[string]any) ([]string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		if !s.hasColumn(k) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown %s column %q", s.resource, k)).WithDetail("column", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s tableDef) where(f Filter) (string, []any, error) {
	keys, err := s.sortedKeys(f)
	if err != nil {
		return "", nil, err
	}
	if len(keys) == 0 {
		return "", nil, nil
	}
	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = k + " = ?"
		args[i] = f[k]
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// Base provides the CRUD operations shared by every entity repository. Row
// types are scanned by sqlx using their db tags.
type Base[T any] struct {
	db     *database.DB
	q      sqlx.ExtContext
	def    tableDef
	logger *zap.Logger
}

func newBase[T any](db *database.DB, q sqlx.ExtContext, def tableDef, logger *zap.Logger) *Base[T] {
	if q == nil {
		q = db.Conn
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Base[T]{
		db:     db,
		q:      q,
		def:    def,
		logger: logger.With(zap.String("repository", def.resource)),
	}
}

// now returns the current time in the precision every backend can store
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (b *Base[T]) observe(operation string, start time.Time, err error) {
	b.db.Observe(b.def.table+"."+operation, start, err)
}

func (b *Base[T]) limit(w pagination.Window) string {
	w = w.Normalize()
	return b.db.Dialect.LimitOffset(w.Skip, w.Take)
}

// get scans a single row, returning nil when the query matches nothing
func get[T any](ctx context.Context, q sqlx.ExtContext, query string, args ...any) (*T, error) {
	var row T
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// list scans every row; the result is never nil
func list[T any](ctx context.Context, q sqlx.ExtContext, query string, args ...any) ([]T, error) {
	rows := []T{}
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (b *Base[T]) findByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*T, error) {
	return get[T](ctx, q, "SELECT "+b.def.selectList("")+" FROM "+b.def.table+" WHERE id = ?", id)
}

// findOne returns the first row matching where, or nil
func (b *Base[T]) findOne(ctx context.Context, operation, where string, args ...any) (row *T, err error) {
	defer func(start time.Time) { b.observe(operation, start, err) }(time.Now())

	row, err = get[T](ctx, b.q, "SELECT "+b.def.selectList("")+" FROM "+b.def.table+" WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", b.def.resource, err)
	}
	return row, nil
}

// FindByID returns the record with the given id, or nil when absent
func (b *Base[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return b.findOne(ctx, "find_by_id", "id = ?", id)
}

// FindAll returns the records inside w in backend order
func (b *Base[T]) FindAll(ctx context.Context, w pagination.Window) (rows []T, err error) {
	defer func(start time.Time) { b.observe("find_all", start, err) }(time.Now())

	rows, err = list[T](ctx, b.q, "SELECT "+b.def.selectList("")+" FROM "+b.def.table+b.limit(w))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", b.def.resource, err)
	}
	return rows, nil
}

// Create inserts a record and returns it as stored. id, created_at and
// updated_at are filled in when the caller leaves them out.
func (b *Base[T]) Create(ctx context.Context, values Values) (row *T, err error) {
	defer func(start time.Time) { b.observe("create", start, err) }(time.Now())

	v := make(Values, len(values)+3)
	for k, val := range values {
		v[k] = val
	}
	id, ok := v["id"].(uuid.UUID)
	if !ok {
		if _, present := v["id"]; present {
			return nil, apperrors.Validation(fmt.Sprintf("%s id must be a UUID", b.def.resource))
		}
		id = uuid.New()
		v["id"] = id
	}
	ts := now()
	for _, col := range []string{"created_at", "updated_at"} {
		if _, present := v[col]; !present && b.def.hasColumn(col) {
			v[col] = ts
		}
	}

	keys, err := b.def.sortedKeys(v)
	if err != nil {
		return nil, err
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = v[k]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.def.table, strings.Join(keys, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", "))

	err = b.db.WithinTx(ctx, b.q, func(tx sqlx.ExtContext) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return database.ClassifyError(err, b.def.resource)
		}
		created, err := b.findByID(ctx, tx, id)
		if err != nil {
			return err
		}
		row = created
		return nil
	})
	if err != nil {
		return nil, b.wrap("create", err)
	}

	b.logger.Debug("created", zap.String("id", id.String()))
	return row, nil
}

// Update applies a partial update and returns the stored record. updated_at
// is refreshed unless the caller sets it.
func (b *Base[T]) Update(ctx context.Context, id uuid.UUID, values Values) (row *T, err error) {
	defer func(start time.Time) { b.observe("update", start, err) }(time.Now())

	if _, present := values["id"]; present {
		return nil, apperrors.Validation(fmt.Sprintf("%s id cannot be changed", b.def.resource))
	}
	v := make(Values, len(values)+1)
	for k, val := range values {
		v[k] = val
	}
	if _, present := v["updated_at"]; !present && b.def.hasColumn("updated_at") {
		v["updated_at"] = now()
	}

	keys, err := b.def.sortedKeys(v)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		// Nothing to write; still report a missing record.
		row, err = b.FindByID(ctx, id)
		if err == nil && row == nil {
			err = apperrors.NotFound(b.def.resource)
		}
		return row, err
	}
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = k + " = ?"
		args = append(args, v[k])
	}
	args = append(args, id)
	query := "UPDATE " + b.def.table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	err = b.db.WithinTx(ctx, b.q, func(tx sqlx.ExtContext) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return database.ClassifyError(err, b.def.resource)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.NotFound(b.def.resource)
		}
		updated, err := b.findByID(ctx, tx, id)
		if err != nil {
			return err
		}
		row = updated
		return nil
	})
	if err != nil {
		return nil, b.wrap("update", err)
	}

	b.logger.Debug("updated", zap.String("id", id.String()), zap.Strings("columns", keys))
	return row, nil
}

// Delete removes a record and returns it as it was before removal
func (b *Base[T]) Delete(ctx context.Context, id uuid.UUID) (row *T, err error) {
	defer func(start time.Time) { b.observe("delete", start, err) }(time.Now())

	err = b.db.WithinTx(ctx, b.q, func(tx sqlx.ExtContext) error {
		existing, err := b.findByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.NotFound(b.def.resource)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM "+b.def.table+" WHERE id = ?"), id); err != nil {
			return database.ClassifyError(err, b.def.resource)
		}
		row = existing
		return nil
	})
	if err != nil {
		return nil, b.wrap("delete", err)
	}

	b.logger.Debug("deleted", zap.String("id", id.String()))
	return row, nil
}

// Count returns the number of records matching f
func (b *Base[T]) Count(ctx context.Context, f Filter) (n int64, err error) {
	defer func(start time.Time) { b.observe("count", start, err) }(time.Now())

	where, args, err := b.def.where(f)
	if err != nil {
		return 0, err
	}
	if err := sqlx.GetContext(ctx, b.q, &n, b.q.Rebind("SELECT COUNT(*) FROM "+b.def.table+where), args...); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", b.def.resource, err)
	}
	return n, nil
}

// DeleteMany removes every record matching f and returns how many were removed
func (b *Base[T]) DeleteMany(ctx context.Context, f Filter) (n int64, err error) {
	defer func(start time.Time) { b.observe("delete_many", start, err) }(time.Now())

	where, args, err := b.def.where(f)
	if err != nil {
		return 0, err
	}
	res, err := b.q.ExecContext(ctx, b.q.Rebind("DELETE FROM "+b.def.table+where), args...)
	if err != nil {
		return 0, b.wrap("delete_many", database.ClassifyError(err, b.def.resource))
	}
	if n, err = res.RowsAffected(); err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", b.def.resource, err)
	}

	b.logger.Debug("deleted many", zap.Int64("count", n))
	return n, nil
}

// wrap adds context to backend failures; typed application errors pass
// through untouched so callers can match them directly.
func (b *Base[T]) wrap(operation string, err error) error {
	if apperrors.IsAppError(err) {
		b.logger.Warn(operation+" rejected", zap.Error(err))
		return err
	}
	return fmt.Errorf("failed to %s %s: %w", strings.ReplaceAll(operation, "_", " "), b.def.resource, err)
}
