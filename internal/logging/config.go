// Package logging provides logging configuration types and utilities.
//
// This package defines the logging configuration structures used throughout
// the application. It avoids import cycles by being a leaf dependency.
package logging

import (
	"crypto/rand"
	"encoding/hex"
)

// LogConfig holds all logging and CLI configuration.
//
// This configuration is passed via dependency injection throughout the
// application to avoid global state and enable better testing isolation.
type LogConfig struct {
	ConfigFile    string
	DryRun        bool   // tags every entry of the invocation with dry_run
	LogLevel      string
	Verbose       int    // -v, -vv support
	LogFormat     string // "text" or "json"
	CorrelationID string // Unique ID for the invocation
}

// GenerateCorrelationID creates a unique correlation ID for an invocation.
//
// Returns an 8-byte hex-encoded string used to group every log record
// written by one command run.
func GenerateCorrelationID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "fallback-id"
	}
	return hex.EncodeToString(bytes)
}

// WithCorrelationID creates a new LogConfig with the specified correlation ID.
func (lc *LogConfig) WithCorrelationID(correlationID string) *LogConfig {
	if lc == nil {
		return &LogConfig{CorrelationID: correlationID}
	}

	newConfig := *lc
	newConfig.CorrelationID = correlationID
	return &newConfig
}
