// Package sqlrepo implements the ReactPress repositories on top of sqlx.
//
// Every entity repository embeds Base, a generic CRUD layer bound to one
// table, and adds its own lookups, listings and association management.
// Queries use '?' placeholders and are rebound for the active driver, so
// the same code serves PostgreSQL and SQLite.
//
// # Not found
//
// Lookups (FindByID, FindBySlug, FindByEmail, VerifyPassword) return nil
// with no error when nothing matches. Operations that presume a record
// exists (Update, Delete, RemovePostFrom*, Publish*, Unpublish*) fail with
// an apperrors NOT_FOUND error instead.
//
// # Constraint violations
//
// Uniqueness is left to the backend. Duplicate slugs, emails and
// association pairs surface as CONFLICT errors and dangling references as
// INVALID_REFERENCE errors; the driver error stays in the chain.
//
// # Thread Safety
//
// Repositories hold no mutable state and are safe for concurrent use.
// Use Repositories.WithTx or Repositories.Transaction to group calls into
// one caller-managed transaction.
package sqlrepo
