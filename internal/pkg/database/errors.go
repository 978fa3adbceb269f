package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
)

// PostgreSQL SQLSTATE codes for integrity violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type violation int

const (
	violationNone violation = iota
	violationUnique
	violationForeignKey
)

// ClassifyError converts integrity violations raised by any supported driver
// into typed application errors. The driver error stays in the chain. All
// other errors, including nil, are returned unchanged.
func ClassifyError(err error, resource string) error {
	switch classify(err) {
	case violationUnique:
		return apperrors.Conflict(fmt.Sprintf("%s already exists", resource)).WithError(err)
	case violationForeignKey:
		return apperrors.InvalidReference(fmt.Sprintf("%s violates a foreign-key constraint", resource)).WithError(err)
	}
	return err
}

func classify(err error) violation {
	if err == nil {
		return violationNone
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromSQLState(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fromSQLState(string(pqErr.Code))
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return fromSQLite(liteErr.Code(), liteErr.Error())
	}

	return violationNone
}

func fromSQLState(code string) violation {
	switch code {
	case pgUniqueViolation:
		return violationUnique
	case pgForeignKeyViolation:
		return violationForeignKey
	}
	return violationNone
}

func fromSQLite(code int, msg string) violation {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return violationUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return violationForeignKey
	}

	// Without extended result codes only the primary code is set.
	if code&0xff == sqlite3.SQLITE_CONSTRAINT {
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"), strings.Contains(msg, "PRIMARY KEY"):
			return violationUnique
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return violationForeignKey
		}
	}
	return violationNone
}
