// Package config provides configuration parsing and validation for go-syncguard
package config

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
)

// Config is the engine configuration
type Config struct {
	Version         int             `yaml:"version"`
	Requires        string          `yaml:"requires,omitempty"`     // semver constraint on the engine version
	UnisonDir       string          `yaml:"unison_dir,omitempty"`   // Default: ~/.unison
	BackupDir       string          `yaml:"backup_dir,omitempty"`   // Default: <unison_dir>/backups
	JournalPath     string          `yaml:"journal_path,omitempty"` // "-" disables the journal
	LogFile         string          `yaml:"log_file,omitempty"`     // "-" disables the log file
	SyncHubs        []string        `yaml:"sync_hubs,omitempty"`
	Profiles        []ProfileConfig `yaml:"profiles,omitempty"`
	RequiredIgnores []string        `yaml:"required_ignores,omitempty"`
	Thresholds      Thresholds      `yaml:"thresholds,omitempty"`
}

// ProfileConfig declares one Unison profile the engine can regenerate
type ProfileConfig struct {
	Name        string         `yaml:"name"`
	Source      string         `yaml:"source"`
	Destination string         `yaml:"destination"`
	Service     string         `yaml:"service,omitempty"` // inferred from destination when empty
	Ignore      []string       `yaml:"ignore,omitempty"`  // extra ignore values, e.g. "Name *.iso"
	Options     ProfileOptions `yaml:"options,omitempty"`
}

// ProfileOptions are the directive values written into a generated profile.
// Pointer fields distinguish "unset" from the zero value.
type ProfileOptions struct {
	Auto          *bool  `yaml:"auto,omitempty"`
	Batch         *bool  `yaml:"batch,omitempty"`
	Prefer        string `yaml:"prefer,omitempty"`
	Log           *bool  `yaml:"log,omitempty"`
	Silent        *bool  `yaml:"silent,omitempty"`
	Backup        string `yaml:"backup,omitempty"`
	MaxBackups    *int   `yaml:"maxbackups,omitempty"`
	Retry         *int   `yaml:"retry,omitempty"`
	ConfirmBigDel *bool  `yaml:"confirmbigdel,omitempty"`
	Times         *bool  `yaml:"times,omitempty"`
	Perms         string `yaml:"perms,omitempty"`
	MaxThreads    *int   `yaml:"maxthreads,omitempty"`
	FastCheck     *bool  `yaml:"fastcheck,omitempty"`
}

// Thresholds tune the corruption heuristics
type Thresholds struct {
	ProfileMaxBytes     ByteSize      `yaml:"profile_max_bytes,omitempty"`
	ArchiveMaxBytes     ByteSize      `yaml:"archive_max_bytes,omitempty"`
	FingerprintMaxBytes ByteSize      `yaml:"fingerprint_max_bytes,omitempty"`
	MinBytes            ByteSize      `yaml:"min_bytes,omitempty"`
	StaleAfter          time.Duration `yaml:"stale_after,omitempty"`
	LockStaleAfter      time.Duration `yaml:"lock_stale_after,omitempty"`
	NullByteRatio       float64       `yaml:"null_byte_ratio,omitempty"`
	SampleBytes         int           `yaml:"sample_bytes,omitempty"`
	AssociationWindow   time.Duration `yaml:"association_window,omitempty"`
}

// ByteSize is a size in bytes that accepts humanized YAML values such as "500MB".
type ByteSize uint64

// UnmarshalYAML implements yaml.Unmarshaler
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", appErrors.FormatError("byte size", raw, "a size such as 500MB"), err)
	}
	*b = ByteSize(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (b ByteSize) MarshalYAML() (interface{}, error) {
	return humanize.IBytes(uint64(b)), nil
}

// String renders the size for humans
func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// Int64 returns the size as a signed byte count for comparison with file sizes.
func (b ByteSize) Int64() int64 {
	return int64(b) //nolint:gosec // configured thresholds are far below MaxInt64
}

// Profile returns the declared profile named name.
func (c *Config) Profile(name string) (*ProfileConfig, bool) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], true
		}
	}
	return nil, false
}

// ProfileNames returns the declared profile names in declaration order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// JournalEnabled reports whether recovery actions are recorded.
func (c *Config) JournalEnabled() bool {
	return c.JournalPath != "" && c.JournalPath != Disabled
}

// LogFileEnabled reports whether logs are appended to a file.
func (c *Config) LogFileEnabled() bool {
	return c.LogFile != "" && c.LogFile != Disabled
}
