// Package domain contains the content entities of ReactPress.
//
// This package defines:
//   - Entity types (User, Post, Page, Category, Tag)
//   - Join records for the Post↔Category and Post↔Tag associations
//   - Enums for roles and publication status
//   - Input types for repository create/update operations
//
// # Design Philosophy
//
// Domain types are persistence-agnostic in behaviour; the db tags only name
// the columns the SQL repositories read and write.
//
// # Naming Conventions
//
// Types prefixed with "Create" or "Update" and ending in "Input" are used for
// create/update operations. Pointer fields on update inputs are optional:
// nil leaves the stored value untouched.
package domain
