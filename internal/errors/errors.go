// Package errors defines common error types and utilities used throughout the application
package errors

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Configuration errors
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileNotDefined = errors.New("profile is not defined in configuration")
	ErrNoProfiles        = errors.New("no profiles found")

	// Recovery errors
	ErrBackupNotVerified  = errors.New("backup size verification failed")
	ErrRegeneratedCorrupt = errors.New("regenerated profile failed post-check")
	ErrArtifactStillThere = errors.New("artifact still present after removal")

	// Path errors
	ErrDangerousPath = errors.New("dangerous sync root")

	// Test errors (only used in tests)
	ErrTest = errors.New("test error")
)

// Error templates for static error definitions (satisfies err113 linter)
var (
	errInvalidFieldTemplate     = errors.New("invalid field")
	errValidationFailedTemplate = errors.New("validation failed")
	errPathTraversalTemplate    = errors.New("path traversal detected")
	errEmptyFieldTemplate       = errors.New("field cannot be empty")
	errRequiredFieldTemplate    = errors.New("field is required")
	errInvalidFormatTemplate    = errors.New("invalid format")
)

// WrapWithContext wraps an error with operation context using consistent formatting.
// This replaces manual fmt.Errorf("failed to %s: %w", operation, err) patterns.
func WrapWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// InvalidFieldError creates a standardized invalid field error.
func InvalidFieldError(field, value string) error {
	return fmt.Errorf("%w: %s: %s", errInvalidFieldTemplate, field, value)
}

// ValidationError creates a standardized validation error.
// This provides consistent validation error messages across all validation functions.
func ValidationError(item, reason string) error {
	return fmt.Errorf("%w for %s: %s", errValidationFailedTemplate, item, reason)
}

// PathTraversalError creates a specific error for path traversal attempts.
func PathTraversalError(path string) error {
	return fmt.Errorf("%w: invalid path '%s'", errPathTraversalTemplate, path)
}

// EmptyFieldError creates a standardized empty field validation error.
func EmptyFieldError(field string) error {
	return fmt.Errorf("%w: %s", errEmptyFieldTemplate, field)
}

// RequiredFieldError creates a standardized required field error.
func RequiredFieldError(field string) error {
	return fmt.Errorf("%w: %s", errRequiredFieldTemplate, field)
}

// FormatError creates a standardized format validation error.
func FormatError(field, value, expectedFormat string) error {
	return fmt.Errorf("%w: %s '%s': expected %s", errInvalidFormatTemplate, field, value, expectedFormat)
}

// ProfileNotFoundError reports a profile missing from the unison directory.
func ProfileNotFoundError(name, dir string) error {
	return fmt.Errorf("%w: %s in %s", ErrProfileNotFound, name, dir)
}

// ProfileNotDefinedError reports a profile with no configuration to regenerate from.
func ProfileNotDefinedError(name string) error {
	return fmt.Errorf("%w: %s", ErrProfileNotDefined, name)
}
