package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/safety"
	"github.com/mrz1836/go-syncguard/internal/strutil"
	"github.com/mrz1836/go-syncguard/internal/version"
)

var (
	// ErrUnsupportedVersion indicates the configuration version is not supported
	ErrUnsupportedVersion = errors.New("unsupported config version")
	// ErrVersionConstraint indicates the running engine does not satisfy "requires"
	ErrVersionConstraint = errors.New("engine version does not satisfy requires")
	// ErrEmptyConfig indicates the configuration document is empty
	ErrEmptyConfig = errors.New("configuration is empty")
	// ErrEmptyPath indicates a required path is empty
	ErrEmptyPath = errors.New("path cannot be empty")
	// ErrInvalidProfileName indicates a profile name that cannot be used as a file name
	ErrInvalidProfileName = errors.New("invalid profile name")
	// ErrDuplicateProfile indicates a profile is declared more than once
	ErrDuplicateProfile = errors.New("duplicate profile")
	// ErrSameRoots indicates a profile whose source and destination are the same directory
	ErrSameRoots = errors.New("source and destination must differ")
	// ErrUnknownService indicates a service name outside the supported registry
	ErrUnknownService = errors.New("unknown cloud service")
	// ErrStateInUnisonDir indicates a journal or log file inside the unison directory
	ErrStateInUnisonDir = errors.New("must not be inside unison_dir")
	// ErrRemoteRoot indicates a profile root that is not a local path
	ErrRemoteRoot = errors.New("remote roots are not supported")
	// ErrInvalidThreshold indicates a heuristic threshold out of range
	ErrInvalidThreshold = errors.New("invalid threshold")
)

// profileNamePattern restricts names to characters safe in a file name
var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return c.ValidateWithLogging(nil)
}

// ValidateWithLogging checks if the configuration is valid, tracing each step
// at debug level through logConfig's correlation ID.
func (c *Config) ValidateWithLogging(logConfig *logging.LogConfig) error {
	logger := logging.WithStandardFields(logrus.StandardLogger(), logConfig, logging.ComponentNames.Config)
	logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation: "validate",
		"version":                        c.Version,
		"profile_count":                  len(c.Profiles),
	}).Debug("Starting configuration validation")

	if c.Version != 1 {
		return fmt.Errorf("%w: %d (only version 1 is supported)", ErrUnsupportedVersion, c.Version)
	}

	if c.Requires != "" {
		ok, err := version.Satisfies(c.Requires)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrVersionConstraint, c.Requires, err)
		}
		if !ok {
			return fmt.Errorf("%w: running %s, requires %s", ErrVersionConstraint, version.Get(), c.Requires)
		}
	}

	if strutil.IsEmpty(c.UnisonDir) {
		return fmt.Errorf("unison_dir: %w", ErrEmptyPath)
	}
	if strutil.IsEmpty(c.BackupDir) {
		return fmt.Errorf("backup_dir: %w", ErrEmptyPath)
	}
	if err := c.validateStatePaths(); err != nil {
		return err
	}
	for i, hub := range c.SyncHubs {
		if strutil.IsEmpty(hub) {
			return fmt.Errorf("sync_hubs[%d]: %w", i, ErrEmptyPath)
		}
	}

	seen := make(map[string]struct{}, len(c.Profiles))
	for i := range c.Profiles {
		p := &c.Profiles[i]
		if err := p.validate(); err != nil {
			return fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("profiles[%d]: %w: %s", i, ErrDuplicateProfile, p.Name)
		}
		seen[p.Name] = struct{}{}

		logger.WithField(logging.StandardFields.Profile, p.Name).Trace("Profile configuration valid")
	}

	if err := c.Thresholds.validate(); err != nil {
		return err
	}

	logger.Debug("Configuration validation completed")
	return nil
}

// validateStatePaths keeps the journal and log file out of the unison
// directory, which dry runs must leave byte-for-byte unchanged.
func (c *Config) validateStatePaths() error {
	unison := strutil.NormalizePath(c.UnisonDir)
	state := []struct {
		key     string
		path    string
		enabled bool
	}{
		{"journal_path", c.JournalPath, c.JournalEnabled()},
		{"log_file", c.LogFile, c.LogFileEnabled()},
	}
	for _, s := range state {
		if s.enabled && strutil.IsDescendant(strutil.NormalizePath(s.path), unison) {
			return fmt.Errorf("%s %s: %w", s.key, s.path, ErrStateInUnisonDir)
		}
	}
	return nil
}

func (p *ProfileConfig) validate() error {
	if !profileNamePattern.MatchString(p.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidProfileName, p.Name)
	}
	if strutil.IsEmpty(p.Source) {
		return fmt.Errorf("%s source: %w", p.Name, ErrEmptyPath)
	}
	if strutil.IsEmpty(p.Destination) {
		return fmt.Errorf("%s destination: %w", p.Name, ErrEmptyPath)
	}
	if strutil.IsRemotePath(p.Source) || strutil.IsRemotePath(p.Destination) {
		return fmt.Errorf("%s: %w", p.Name, ErrRemoteRoot)
	}
	if strutil.NormalizePath(p.Source) == strutil.NormalizePath(p.Destination) {
		return fmt.Errorf("%s: %w", p.Name, ErrSameRoots)
	}
	if p.Service != "" && !safety.IsKnownService(p.Service) {
		return fmt.Errorf("%s: %w: %q (supported: %v)", p.Name, ErrUnknownService, p.Service, safety.Services())
	}
	return nil
}

func (t *Thresholds) validate() error {
	if t.NullByteRatio <= 0 || t.NullByteRatio > 1 {
		return fmt.Errorf("%w: null_byte_ratio %v must be in (0, 1]", ErrInvalidThreshold, t.NullByteRatio)
	}
	if t.SampleBytes <= 0 {
		return fmt.Errorf("%w: sample_bytes %d must be positive", ErrInvalidThreshold, t.SampleBytes)
	}
	if t.StaleAfter < 0 || t.LockStaleAfter < 0 || t.AssociationWindow < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidThreshold)
	}
	if t.MinBytes >= t.ProfileMaxBytes {
		return fmt.Errorf("%w: min_bytes %s must be below profile_max_bytes %s", ErrInvalidThreshold, t.MinBytes, t.ProfileMaxBytes)
	}
	return nil
}

// ResolvedService returns the declared service, or the one inferred from the destination shape.
func (p *ProfileConfig) ResolvedService() string {
	if p.Service != "" {
		return p.Service
	}
	return string(safety.InferService(strutil.NormalizePath(p.Destination)))
}
