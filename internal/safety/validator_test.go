package safety

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDangerous(t *testing.T) {
	v := NewValidator(nil, WithHomeDir("/Users/alice"))

	dangerous := []string{
		"/",
		"/Users/alice",
		"/Users/alice/",
		"/Users/bob",
		"/home/carol",
		"/Users/alice/Desktop",
		"/Users/alice/Documents",
		"/home/carol/Documents/",
		"/System",
		"/System/Library/CoreServices",
		"/Library",
		"/usr/local/bin",
		"/etc",
		"/Applications/Sync.app",
		"/Volumes",
		"/Users",
		"/Users/alice/SyncHub/..",
		"",
	}
	for _, path := range dangerous {
		t.Run("dangerous "+path, func(t *testing.T) {
			check := v.CheckDangerous(path)
			assert.False(t, check.IsSafe)
			assert.NotEmpty(t, check.Issues)
		})
	}

	safe := []string{
		"/Users/alice/SyncHub",
		"/Users/alice/Documents/Projects",
		"/Users/alice/Desktop/Inbox",
		"/Users/alice/Library/CloudStorage/GoogleDrive-alice@example.com/My Drive/SyncHub",
		"/Volumes/External/Backup",
		"/tmp/synchub",
	}
	for _, path := range safe {
		t.Run("safe "+path, func(t *testing.T) {
			check := v.CheckDangerous(path)
			assert.True(t, check.IsSafe, check.Issues)
			assert.Empty(t, check.Issues)
		})
	}
}

func TestCheckDangerous_ActualHome(t *testing.T) {
	home := t.TempDir()
	v := NewValidator(nil, WithHomeDir(home))

	assert.False(t, v.CheckDangerous(home).IsSafe)
	assert.False(t, v.CheckDangerous(filepath.Join(home, "Desktop")).IsSafe)
	assert.False(t, v.CheckDangerous(filepath.Join(home, "Documents")).IsSafe)
	assert.True(t, v.CheckDangerous(filepath.Join(home, "SyncHub")).IsSafe)
}

func TestValidateSource(t *testing.T) {
	base := t.TempDir()
	hub := filepath.Join(base, "SyncHub")
	require.NoError(t, os.MkdirAll(filepath.Join(hub, "Projects"), 0o750))

	v := NewValidator([]string{hub}, WithHomeDir("/Users/alice"))

	t.Run("exact hub", func(t *testing.T) {
		result := v.ValidateSource(hub)
		assert.True(t, result.IsValid, result.Issues)
		assert.Equal(t, RoleSource, result.Role)
		assert.Empty(t, result.Issues)
	})

	t.Run("trailing slash normalizes", func(t *testing.T) {
		assert.True(t, v.ValidateSource(hub+"/").IsValid)
	})

	t.Run("subdirectory is invalid with warning", func(t *testing.T) {
		result := v.ValidateSource(filepath.Join(hub, "Projects"))
		assert.False(t, result.IsValid)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "subdirectory")
	})

	t.Run("parent is invalid with warning", func(t *testing.T) {
		result := v.ValidateSource(base)
		assert.False(t, result.IsValid)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "parent")
	})

	t.Run("unrelated path", func(t *testing.T) {
		result := v.ValidateSource(filepath.Join(base, "Other"))
		assert.False(t, result.IsValid)
		assert.Empty(t, result.Warnings)
		assert.Contains(t, result.Issues[0], "does not match the configured sync hub")
	})

	t.Run("dangerous path overrides", func(t *testing.T) {
		result := v.ValidateSource("/Users/alice")
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues[0], "dangerous sync root")
	})

	t.Run("missing hub directory", func(t *testing.T) {
		missing := filepath.Join(base, "Missing")
		result := NewValidator([]string{missing}).ValidateSource(missing)
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues[0], "does not exist")
	})

	t.Run("no hubs configured", func(t *testing.T) {
		result := NewValidator(nil).ValidateSource(hub)
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"No sync hub is configured"}, result.Issues)
	})

	t.Run("duplicate hubs collapse", func(t *testing.T) {
		dup := NewValidator([]string{hub, hub + "/", hub + "/./"})
		assert.Len(t, dup.SyncHubs(), 1)
		assert.True(t, dup.ValidateSource(hub).IsValid)
	})
}

func TestValidateDestination(t *testing.T) {
	base := t.TempDir()
	hub := filepath.Join(base, "SyncHub")
	require.NoError(t, os.MkdirAll(hub, 0o750))
	dropbox := filepath.Join(base, "Dropbox", "SyncHub")
	require.NoError(t, os.MkdirAll(dropbox, 0o750))

	v := NewValidator([]string{hub}, WithHomeDir("/Users/alice"))

	t.Run("desktop is rejected before service matching", func(t *testing.T) {
		result := v.ValidateDestination("/Users/alice/Desktop", "")
		assert.False(t, result.IsValid)
		assert.Empty(t, result.CloudService)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "Desktop")
	})

	t.Run("infers service", func(t *testing.T) {
		result := v.ValidateDestination(dropbox, "")
		assert.True(t, result.IsValid, result.Issues)
		assert.Equal(t, ServiceDropbox, result.CloudService)
		assert.Empty(t, result.Warnings)
	})

	t.Run("declared matches", func(t *testing.T) {
		assert.True(t, v.ValidateDestination(dropbox, ServiceDropbox).IsValid)
	})

	t.Run("declared disagrees", func(t *testing.T) {
		result := v.ValidateDestination(dropbox, ServiceGoogleDrive)
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues[0], "declared as google_drive")
	})

	t.Run("unknown declared service", func(t *testing.T) {
		result := v.ValidateDestination(dropbox, Service("ftp"))
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues[0], "Unknown cloud service")
	})

	t.Run("no service shape", func(t *testing.T) {
		result := v.ValidateDestination(filepath.Join(base, "Backups"), "")
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues[0], "does not match any supported cloud storage location")
	})

	t.Run("missing destination is a warning", func(t *testing.T) {
		result := v.ValidateDestination(filepath.Join(base, "Dropbox", "New"), "")
		assert.True(t, result.IsValid)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "will be created")
	})

	t.Run("missing parent is a warning", func(t *testing.T) {
		result := v.ValidateDestination(filepath.Join(base, "OneDrive", "a", "b"), "")
		assert.True(t, result.IsValid)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "Neither destination nor its parent")
	})

	t.Run("overlapping hub", func(t *testing.T) {
		inside := filepath.Join(hub, "Dropbox")
		result := v.ValidateDestination(inside, "")
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Issues[len(result.Issues)-1], "overlaps sync hub")
	})
}

func TestInferService(t *testing.T) {
	tests := []struct {
		path string
		want Service
	}{
		{"/Users/a/Library/CloudStorage/GoogleDrive-a@b.com/My Drive/Hub", ServiceGoogleDrive},
		{"/Users/a/Google Drive/Hub", ServiceGoogleDrive},
		{"/Users/a/Dropbox/Hub", ServiceDropbox},
		{"/Users/a/Dropbox (Personal)/Hub", ServiceDropbox},
		{"/Users/a/Library/CloudStorage/Dropbox/Hub", ServiceDropbox},
		{"/Users/a/OneDrive - Contoso/Hub", ServiceOneDrive},
		{"/Users/a/Library/CloudStorage/OneDrive-Personal/Hub", ServiceOneDrive},
		{"/Users/a/Library/Mobile Documents/com~apple~CloudDocs/Hub", ServiceICloud},
		{"/Users/a/Box/Hub", ServiceBox},
		{"/Users/a/Library/CloudStorage/Box-Box/Hub", ServiceBox},
		{"/Users/a/Dropboxes/Hub", ""},
		{"/srv/data", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, InferService(tt.path))
		})
	}
}

func TestServices(t *testing.T) {
	services := Services()
	assert.Len(t, services, 5)
	assert.True(t, IsKnownService("icloud"))
	assert.False(t, IsKnownService("ftp"))
}
