// Package errors provides application error types for ReactPress.
//
// This package defines:
//   - AppError type with error classification
//   - Error constructors for the failure kinds the data layer reports
//   - Error type checking helpers
//   - HTTP status code mapping for the route-handler layer
//
// # Error Types
//
//   - NotFound: a record addressed by id was expected to exist (404)
//   - Conflict: a unique key collided, e.g. a duplicate slug or email (409)
//   - InvalidReference: a foreign id points at nothing (422)
//   - Validation: an input struct failed validation (400)
//   - Internal: unexpected failure (500)
//
// # Usage
//
//	return apperrors.NotFound("post")
//	return apperrors.Conflict("slug already exists").WithError(driverErr)
//
// Check error types:
//
//	if apperrors.IsNotFound(err) {
//	    // Handle not found
//	}
//
// # Error Wrapping
//
// Wrapped driver errors stay reachable through errors.As, so callers that care
// about a specific backend failure can still inspect it.
package errors
