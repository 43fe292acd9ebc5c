package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-syncguard/internal/version"
)

const validYAML = `
version: 1
unison_dir: /tmp/sg/unison
sync_hubs:
  - /tmp/sg/SyncHub
profiles:
  - name: gdrive
    source: /tmp/sg/SyncHub
    destination: "/tmp/sg/Google Drive/SyncHub"
    ignore:
      - "Name *.iso"
    options:
      batch: false
      maxthreads: 4
thresholds:
  archive_max_bytes: 250MB
  stale_after: 48h
`

func TestLoadFromReader_ValidConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	state := DefaultStateDir()

	cfg, err := LoadFromReader(strings.NewReader(validYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "/tmp/sg/unison", cfg.UnisonDir)
	assert.Equal(t, filepath.Join("/tmp/sg/unison", "backups"), cfg.BackupDir)
	assert.Equal(t, filepath.Join(state, "journal.db"), cfg.JournalPath)
	assert.Equal(t, filepath.Join(state, "syncguard.log"), cfg.LogFile)
	assert.Equal(t, DefaultRequiredIgnores(), cfg.RequiredIgnores)

	p, ok := cfg.Profile("gdrive")
	require.True(t, ok)
	assert.Equal(t, []string{"Name *.iso"}, p.Ignore)
	assert.False(t, *p.Options.Batch)
	assert.True(t, *p.Options.Auto)
	assert.Equal(t, 4, *p.Options.MaxThreads)
	assert.Equal(t, DefaultPrefer, p.Options.Prefer)
	assert.Equal(t, "google_drive", p.ResolvedService())

	assert.Equal(t, ByteSize(250_000_000), cfg.Thresholds.ArchiveMaxBytes)
	assert.Equal(t, 48*time.Hour, cfg.Thresholds.StaleAfter)
	assert.Equal(t, DefaultLockStaleAfter, cfg.Thresholds.LockStaleAfter)
	assert.Equal(t, []string{"gdrive"}, cfg.ProfileNames())
}

func TestLoadFromReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "version: 1\nbogus: true\n", "field bogus not found"},
		{"empty", "", "configuration is empty"},
		{"bad byte size", "version: 1\nthresholds:\n  min_bytes: lots\n", "byte size"},
		{"bad duration", "version: 1\nthresholds:\n  stale_after: soon\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadFromReader(strings.NewReader(validYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"version", func(c *Config) { c.Version = 2 }, ErrUnsupportedVersion},
		{"profile name", func(c *Config) { c.Profiles[0].Name = "bad/name" }, ErrInvalidProfileName},
		{"empty source", func(c *Config) { c.Profiles[0].Source = "" }, ErrEmptyPath},
		{"same roots", func(c *Config) { c.Profiles[0].Destination = c.Profiles[0].Source + "/" }, ErrSameRoots},
		{"unknown service", func(c *Config) { c.Profiles[0].Service = "floppy" }, ErrUnknownService},
		{"duplicate", func(c *Config) { c.Profiles = append(c.Profiles, c.Profiles[0]) }, ErrDuplicateProfile},
		{"ratio", func(c *Config) { c.Thresholds.NullByteRatio = 1.5 }, ErrInvalidThreshold},
		{"min above max", func(c *Config) { c.Thresholds.MinBytes = c.Thresholds.ProfileMaxBytes }, ErrInvalidThreshold},
		{"empty hub", func(c *Config) { c.SyncHubs = []string{" "} }, ErrEmptyPath},
		{"remote source", func(c *Config) { c.Profiles[0].Source = "ssh://host//srv/hub" }, ErrRemoteRoot},
		{"remote destination", func(c *Config) { c.Profiles[0].Destination = "socket://host:5000/hub" }, ErrRemoteRoot},
		{"journal in unison dir", func(c *Config) { c.JournalPath = filepath.Join(c.UnisonDir, "state", "journal.db") }, ErrStateInUnisonDir},
		{"log in unison dir", func(c *Config) { c.LogFile = filepath.Join(c.UnisonDir, "sg.log") }, ErrStateInUnisonDir},
		{"disabled sinks skip the check", func(c *Config) { c.JournalPath, c.LogFile, c.UnisonDir = Disabled, Disabled, "/" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_Requires(t *testing.T) {
	version.Set("1.4.0", "abc123", "2026-01-01")
	t.Cleanup(version.Reset)

	cfg := Default()
	cfg.Requires = ">= 1.2.0"
	require.NoError(t, cfg.Validate())

	cfg.Requires = ">= 2.0.0"
	require.ErrorIs(t, cfg.Validate(), ErrVersionConstraint)

	cfg.Requires = "not-a-constraint"
	require.ErrorIs(t, cfg.Validate(), ErrVersionConstraint)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Profiles, 1)

	require.NoError(t, os.WriteFile(path, []byte("version: 3\n"), 0o600))
	_, err = Load(path)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	assert.Empty(t, cfg.Profiles)
	assert.Len(t, cfg.SyncHubs, 1)
	assert.NotContains(t, cfg.UnisonDir, "~")

	_, err = LoadOrDefault(missing, true)
	require.Error(t, err)
}

func TestDisabledSinks(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader("version: 1\njournal_path: \"-\"\nlog_file: \"-\"\n"))
	require.NoError(t, err)
	assert.False(t, cfg.JournalEnabled())
	assert.False(t, cfg.LogFileEnabled())
	assert.True(t, Default().JournalEnabled())
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, "100 KiB", DefaultProfileMaxBytes.String())
	assert.Equal(t, int64(50), DefaultMinBytes.Int64())

	out, err := DefaultMinBytes.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "50 B", out)
}

func TestApplyOptionDefaults(t *testing.T) {
	ApplyOptionDefaults(nil)

	retry := 7
	opts := ProfileOptions{Retry: &retry, Perms: "0o644"}
	ApplyOptionDefaults(&opts)
	assert.Equal(t, 7, *opts.Retry)
	assert.Equal(t, "0o644", opts.Perms)
	assert.Equal(t, DefaultMaxBackups, *opts.MaxBackups)
	assert.Equal(t, DefaultBackup, opts.Backup)
	assert.False(t, *opts.Silent)
}

func TestOverrideUnisonDir(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader("version: 1\nunison_dir: /tmp/sg/unison\nlog_file: /var/log/sg.log\n"))
	require.NoError(t, err)

	cfg.OverrideUnisonDir("/tmp/other")

	assert.Equal(t, "/tmp/other", cfg.UnisonDir)
	assert.Equal(t, filepath.Join("/tmp/other", BackupsDirName), cfg.BackupDir)
	assert.Equal(t, filepath.Join(DefaultStateDir(), JournalFileName), cfg.JournalPath, "state files never follow the unison dir")
	assert.Equal(t, "/var/log/sg.log", cfg.LogFile)
}

func TestDefaultStateDir(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", state)

	if runtime.GOOS == "linux" {
		assert.Equal(t, filepath.Join(state, StateDirName), DefaultStateDir())
	}
	assert.Equal(t, StateDirName, filepath.Base(DefaultStateDir()))

	cfg := Default()
	assert.False(t, strings.HasPrefix(cfg.JournalPath, cfg.UnisonDir+string(filepath.Separator)))
	assert.False(t, strings.HasPrefix(cfg.LogFile, cfg.UnisonDir+string(filepath.Separator)))
	require.NoError(t, cfg.Validate())
}
