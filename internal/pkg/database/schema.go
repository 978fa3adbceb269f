package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the bootstrap DDL statements for the dialect
func (d Dialect) Schema() ([]string, error) {
	raw, err := schemaFS.ReadFile("schema/" + string(d) + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema for dialect %q: %w", d, err)
	}

	var stmts []string
	for _, stmt := range strings.Split(string(raw), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

// ApplySchema creates any missing tables and indexes. It is idempotent and
// meant for fresh installs and tests, not for evolving an existing schema.
func (db *DB) ApplySchema(ctx context.Context) error {
	stmts, err := db.Dialect.Schema()
	if err != nil {
		return err
	}

	for _, stmt := range stmts {
		if _, err := db.Conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
