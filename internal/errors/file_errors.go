// Package errors - file operation error utilities
package errors

import (
	"errors"
	"fmt"
)

// Error templates for file operations
var (
	errFileOperationTemplate      = errors.New("file operation failed")
	errDirectoryOperationTemplate = errors.New("directory operation failed")
)

// FileOperationError creates a standardized file operation error.
//
// Example usage:
//
//	return FileOperationError("read", "/path/to/file.prf", err)
//	// Returns: "file operation failed: read '/path/to/file.prf': <original error>"
func FileOperationError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", errFileOperationTemplate, operation, path, err)
}

// DirectoryOperationError creates a standardized directory operation error.
func DirectoryOperationError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", errDirectoryOperationTemplate, operation, path, err)
}

// FileReadError is a convenience function for file read operations.
func FileReadError(path string, err error) error {
	return FileOperationError("read", path, err)
}

// FileWriteError is a convenience function for file write operations.
func FileWriteError(path string, err error) error {
	return FileOperationError("write", path, err)
}

// FileOpenError is a convenience function for file open operations.
func FileOpenError(path string, err error) error {
	return FileOperationError("open", path, err)
}

// FileCreateError is a convenience function for file creation operations.
func FileCreateError(path string, err error) error {
	return FileOperationError("create", path, err)
}

// FileDeleteError is a convenience function for file deletion operations.
func FileDeleteError(path string, err error) error {
	return FileOperationError("delete", path, err)
}

// FileStatError is a convenience function for stat failures.
func FileStatError(path string, err error) error {
	return FileOperationError("stat", path, err)
}

// DirectoryCreateError is a convenience function for directory creation.
func DirectoryCreateError(path string, err error) error {
	return DirectoryOperationError("create", path, err)
}

// DirectoryReadError is a convenience function for directory listing errors.
func DirectoryReadError(path string, err error) error {
	return DirectoryOperationError("read", path, err)
}

// DirectoryWalkError is a convenience function for directory walking errors.
func DirectoryWalkError(path string, err error) error {
	return DirectoryOperationError("walk", path, err)
}
