package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for reporting and guidance lookup.
type Kind string

// Error taxonomy
const (
	KindProfileCorruption         Kind = "profile_corruption"
	KindProfileBackupFailed       Kind = "profile_backup_failed"
	KindProfileRegenerationFailed Kind = "profile_regeneration_failed"
	KindArchiveCorruption         Kind = "archive_corruption"
	KindArchiveCleanupFailed      Kind = "archive_cleanup_failed"
	KindRootPathValidationFailed  Kind = "root_path_validation_failed"
	KindDirectoryAccessError      Kind = "directory_access_error"
	KindGenericConfigurationError Kind = "generic_configuration_error"
)

// Severity orders failures in reports. It never drives control flow.
type Severity string

// Severity levels
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Kinds returns every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindProfileCorruption,
		KindProfileBackupFailed,
		KindProfileRegenerationFailed,
		KindArchiveCorruption,
		KindArchiveCleanupFailed,
		KindRootPathValidationFailed,
		KindDirectoryAccessError,
		KindGenericConfigurationError,
	}
}

// Severity returns the reporting severity of the kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindDirectoryAccessError, KindRootPathValidationFailed:
		return SeverityCritical
	case KindProfileCorruption, KindArchiveCorruption:
		return SeverityHigh
	case KindProfileBackupFailed, KindProfileRegenerationFailed, KindArchiveCleanupFailed, KindGenericConfigurationError:
		return SeverityMedium
	default:
		return SeverityMedium
	}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// OperationError attaches structured context to an I/O failure raised inside
// an engine operation.
type OperationError struct {
	Kind    Kind
	Op      string
	Path    string
	Profile string
	Err     error
}

// NewOperationError wraps err with the given context. A nil err yields nil.
func NewOperationError(kind Kind, op, path, profile string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Kind: kind, Op: op, Path: path, Profile: profile, Err: err}
}

func (e *OperationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Op)
	if e.Profile != "" {
		fmt.Fprintf(&b, " profile '%s'", e.Profile)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " path '%s'", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// KindOf extracts the taxonomy kind from err, defaulting to a generic
// configuration error.
func KindOf(err error) Kind {
	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Kind != "" {
		return opErr.Kind
	}
	switch {
	case errors.Is(err, ErrBackupNotVerified):
		return KindProfileBackupFailed
	case errors.Is(err, ErrRegeneratedCorrupt):
		return KindProfileRegenerationFailed
	case errors.Is(err, ErrDangerousPath):
		return KindRootPathValidationFailed
	case errors.Is(err, errDirectoryOperationTemplate):
		return KindDirectoryAccessError
	}
	return KindGenericConfigurationError
}
