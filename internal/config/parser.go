package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// configLoadMaxRetries is the maximum number of attempts to load the config file
	configLoadMaxRetries = 2
	// configLoadRetryDelay is the delay between retry attempts
	configLoadRetryDelay = 100 * time.Millisecond
)

// Load reads, parses and validates a configuration file from the given path.
// Transient I/O errors (e.g., the file being rewritten by an editor) are
// retried once.
func Load(path string) (*Config, error) {
	var lastErr error
	for attempt := 1; attempt <= configLoadMaxRetries; attempt++ {
		cfg, err := loadOnce(path)
		if err == nil {
			return cfg, nil
		}

		lastErr = err

		// Don't retry semantic/validation errors
		if !isTransientConfigError(err) {
			return nil, err
		}

		if attempt < configLoadMaxRetries {
			time.Sleep(configLoadRetryDelay)
		}
	}

	return nil, lastErr
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
// An explicitly requested file that is missing is an error.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return Load(path)
}

func loadOnce(path string) (*Config, error) {
	file, err := os.Open(path) //#nosec G304 -- Path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	defer func() { _ = file.Close() }()

	cfg, err := LoadFromReader(file)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isTransientConfigError determines if an error is likely transient and worth retrying.
func isTransientConfigError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrUnsupportedVersion) ||
		errors.Is(err, ErrVersionConstraint) ||
		errors.Is(err, ErrInvalidProfileName) ||
		errors.Is(err, ErrDuplicateProfile) ||
		errors.Is(err, ErrSameRoots) ||
		errors.Is(err, ErrUnknownService) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrEmptyPath) {
		return false
	}

	return true
}

// LoadFromReader parses configuration from an io.Reader and applies defaults.
// It does not validate.
func LoadFromReader(reader io.Reader) (*Config, error) {
	cfg := &Config{}

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true) // Strict parsing - fail on unknown fields

	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", ErrEmptyConfig)
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}
