// Package errors provides foundational, type-safe error primitives used across docpress.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, filesystem, render, plugin, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for exit codes and error presentation
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write output").
//		WithContext("path", outPath).
//		Fatal().
//		Build()
package errors
