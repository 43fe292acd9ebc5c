package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/go-syncguard/internal/strutil"
)

// Disabled turns off an optional file sink such as journal_path or log_file.
const Disabled = "-"

// Default locations and option values
const (
	DefaultUnisonDir  = "~/.unison"
	DefaultSyncHub    = "~/SyncHub"
	DefaultFileName   = "go-syncguard.yaml"
	BackupsDirName    = "backups"
	StateDirName      = "go-syncguard"
	JournalFileName   = "journal.db"
	LogFileName       = "syncguard.log"
	DefaultPrefer     = "newer"
	DefaultBackup     = "Name *"
	DefaultPerms      = "0"
	DefaultMaxBackups = 5
	DefaultRetry      = 3
	DefaultMaxThreads = 10
)

// Default thresholds for the corruption heuristics
const (
	DefaultProfileMaxBytes     ByteSize = 100 * 1024
	DefaultArchiveMaxBytes     ByteSize = 500 * 1024 * 1024
	DefaultFingerprintMaxBytes ByteSize = 1024 * 1024 * 1024
	DefaultMinBytes            ByteSize = 50
	DefaultStaleAfter                   = 30 * 24 * time.Hour
	DefaultLockStaleAfter               = time.Hour
	DefaultNullByteRatio                = 0.5
	DefaultSampleBytes                  = 1024
	DefaultAssociationWindow            = 10 * time.Minute
)

// DefaultRequiredIgnores returns the minimum ignore set every profile should carry
func DefaultRequiredIgnores() []string {
	return []string{
		"Name .DS_Store",
		"Name .git",
		"Name node_modules",
		"Name *.tmp",
		"Name .Trash*",
	}
}

// DefaultStateDir is where the journal and log file live unless configured.
// It is never inside the unison directory, so dry runs leave that untouched.
func DefaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, StateDirName)
}

// Default returns a configuration with no declared profiles and every default applied.
func Default() *Config {
	cfg := &Config{Version: 1}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for optional fields and expands '~' in paths
func applyDefaults(cfg *Config) {
	cfg.UnisonDir = strutil.ExpandHome(strutil.EmptyToDefault(cfg.UnisonDir, DefaultUnisonDir))

	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(cfg.UnisonDir, BackupsDirName)
	}
	cfg.BackupDir = strutil.ExpandHome(cfg.BackupDir)

	if cfg.JournalPath == "" {
		cfg.JournalPath = filepath.Join(DefaultStateDir(), JournalFileName)
	}
	if cfg.JournalPath != Disabled {
		cfg.JournalPath = strutil.ExpandHome(cfg.JournalPath)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(DefaultStateDir(), LogFileName)
	}
	if cfg.LogFile != Disabled {
		cfg.LogFile = strutil.ExpandHome(cfg.LogFile)
	}

	if len(cfg.SyncHubs) == 0 {
		cfg.SyncHubs = []string{DefaultSyncHub}
	}
	for i := range cfg.SyncHubs {
		cfg.SyncHubs[i] = strutil.ExpandHome(cfg.SyncHubs[i])
	}

	if cfg.RequiredIgnores == nil {
		cfg.RequiredIgnores = DefaultRequiredIgnores()
	}

	for i := range cfg.Profiles {
		p := &cfg.Profiles[i]
		p.Source = strutil.ExpandHome(p.Source)
		p.Destination = strutil.ExpandHome(p.Destination)
		ApplyOptionDefaults(&p.Options)
	}

	applyThresholdDefaults(&cfg.Thresholds)
}

// ApplyOptionDefaults fills every unset directive option.
// If opts is nil, the function returns immediately without panic.
func ApplyOptionDefaults(opts *ProfileOptions) {
	if opts == nil {
		return
	}
	if opts.Auto == nil {
		opts.Auto = boolPtr(true)
	}
	if opts.Batch == nil {
		opts.Batch = boolPtr(true)
	}
	opts.Prefer = strutil.EmptyToDefault(opts.Prefer, DefaultPrefer)
	if opts.Log == nil {
		opts.Log = boolPtr(true)
	}
	if opts.Silent == nil {
		opts.Silent = boolPtr(false)
	}
	opts.Backup = strutil.EmptyToDefault(opts.Backup, DefaultBackup)
	if opts.MaxBackups == nil {
		opts.MaxBackups = intPtr(DefaultMaxBackups)
	}
	if opts.Retry == nil {
		opts.Retry = intPtr(DefaultRetry)
	}
	if opts.ConfirmBigDel == nil {
		opts.ConfirmBigDel = boolPtr(true)
	}
	if opts.Times == nil {
		opts.Times = boolPtr(true)
	}
	opts.Perms = strutil.EmptyToDefault(opts.Perms, DefaultPerms)
	if opts.MaxThreads == nil {
		opts.MaxThreads = intPtr(DefaultMaxThreads)
	}
	if opts.FastCheck == nil {
		opts.FastCheck = boolPtr(true)
	}
}

func applyThresholdDefaults(t *Thresholds) {
	if t.ProfileMaxBytes == 0 {
		t.ProfileMaxBytes = DefaultProfileMaxBytes
	}
	if t.ArchiveMaxBytes == 0 {
		t.ArchiveMaxBytes = DefaultArchiveMaxBytes
	}
	if t.FingerprintMaxBytes == 0 {
		t.FingerprintMaxBytes = DefaultFingerprintMaxBytes
	}
	if t.MinBytes == 0 {
		t.MinBytes = DefaultMinBytes
	}
	if t.StaleAfter == 0 {
		t.StaleAfter = DefaultStaleAfter
	}
	if t.LockStaleAfter == 0 {
		t.LockStaleAfter = DefaultLockStaleAfter
	}
	if t.NullByteRatio == 0 {
		t.NullByteRatio = DefaultNullByteRatio
	}
	if t.SampleBytes == 0 {
		t.SampleBytes = DefaultSampleBytes
	}
	if t.AssociationWindow == 0 {
		t.AssociationWindow = DefaultAssociationWindow
	}
}

// DefaultThresholds returns the built-in heuristic thresholds.
func DefaultThresholds() Thresholds {
	var t Thresholds
	applyThresholdDefaults(&t)
	return t
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

// OverrideUnisonDir points the configuration at dir. A backup directory that
// was derived from the previous unison directory follows it.
func (c *Config) OverrideUnisonDir(dir string) {
	previous := c.UnisonDir
	c.UnisonDir = strutil.ExpandHome(dir)
	if previous == c.UnisonDir {
		return
	}

	rebase := func(value string, parts ...string) string {
		if value == filepath.Join(append([]string{previous}, parts...)...) {
			return filepath.Join(append([]string{c.UnisonDir}, parts...)...)
		}
		return value
	}
	c.BackupDir = rebase(c.BackupDir, BackupsDirName)
}
