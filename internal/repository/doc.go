// Package repository contains data access implementations for ReactPress.
//
// Repositories provide persistence operations for the content entities in
// internal/domain (users, posts, pages, categories and tags).
//
// # Architecture
//
// Consumers depend on the concrete repositories gathered in
// sqlrepo.Repositories, which is built once at startup and passed to
// whatever needs data access. There is no package-level registry.
//
// # Data Stores
//
// A single relational database backs every repository:
//   - PostgreSQL: through pgx or lib/pq, for production
//   - SQLite: through modernc.org/sqlite, for local installs and tests
//
// # Thread Safety
//
// All repository implementations are safe for concurrent use.
// Connection pools are managed at the database layer.
package repository
