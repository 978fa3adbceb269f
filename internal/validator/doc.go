// Package validator provides struct validation for ReactPress inputs.
//
// This package wraps go-playground/validator to provide:
//   - Consistent validation across all repositories
//   - Human-readable error messages
//   - A "slug" tag for URL-safe identifiers
//
// # Usage
//
//	if err := validator.Validate(input); err != nil {
//	    // err is a validator.ValidationErrors
//	}
//
// The validator instance is package-level and thread-safe.
package validator
