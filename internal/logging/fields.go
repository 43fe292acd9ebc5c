package logging

import "github.com/sirupsen/logrus"

// StandardFields defines the standardized field names for structured logging
// across all components.
//
//nolint:gochecknoglobals // Intentional global constants for standardized field names
var StandardFields = struct {
	// Operation Context
	Component     string
	Operation     string
	CorrelationID string
	DryRun        string
	Timestamp     string
	DurationMs    string

	// Resource Identifiers
	Profile      string
	ArtifactPath string
	ArtifactKind string
	BackupPath   string
	SourceRoot   string
	DestRoot     string
	CloudService string

	// Counts
	IssueCount string
	FileCount  string
	SizeBytes  string

	// Error Information
	Error     string
	ErrorType string
	Severity  string

	// Status
	Status string
	Action string
}{
	Component:     "component",
	Operation:     "operation",
	CorrelationID: "correlation_id",
	DryRun:        "dry_run",
	Timestamp:     "@timestamp",
	DurationMs:    "duration_ms",

	Profile:      "profile",
	ArtifactPath: "artifact_path",
	ArtifactKind: "artifact_kind",
	BackupPath:   "backup_path",
	SourceRoot:   "source_root",
	DestRoot:     "dest_root",
	CloudService: "cloud_service",

	IssueCount: "issue_count",
	FileCount:  "file_count",
	SizeBytes:  "size_bytes",

	Error:     "error",
	ErrorType: "error_type",
	Severity:  "severity",

	Status: "status",
	Action: "action",
}

// ComponentNames defines standardized component names for logging consistency
//
//nolint:gochecknoglobals // Intentional global constants for standardized component names
var ComponentNames = struct {
	CLI        string
	Config     string
	Safety     string
	Detector   string
	Backup     string
	Template   string
	Recovery   string
	Validation string
	Preview    string
	Journal    string
}{
	CLI:        "cli",
	Config:     "config",
	Safety:     "path-safety",
	Detector:   "corruption-detector",
	Backup:     "backup-manager",
	Template:   "template-generator",
	Recovery:   "recovery-engine",
	Validation: "validation",
	Preview:    "dry-run-preview",
	Journal:    "journal",
}

// WithStandardFields creates a logrus.Entry with correlation ID and component info.
func WithStandardFields(logger *logrus.Logger, config *LogConfig, component string) *logrus.Entry {
	fields := logrus.Fields{
		StandardFields.Component: component,
	}

	if config != nil && config.CorrelationID != "" {
		fields[StandardFields.CorrelationID] = config.CorrelationID
	}
	if config != nil && config.DryRun {
		fields[StandardFields.DryRun] = true
	}

	return logger.WithFields(fields)
}

// ComponentLogger returns entry scoped to component, falling back to the
// standard logger when entry is nil.
func ComponentLogger(entry *logrus.Entry, component string) *logrus.Entry {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return entry.WithField(StandardFields.Component, component)
}
