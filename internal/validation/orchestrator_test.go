package validation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-syncguard/internal/backup"
	"github.com/mrz1836/go-syncguard/internal/config"
	"github.com/mrz1836/go-syncguard/internal/detect"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/recovery"
	"github.com/mrz1836/go-syncguard/internal/safety"
	"github.com/mrz1836/go-syncguard/internal/template"
	"github.com/mrz1836/go-syncguard/internal/testutil"
)

type fixture struct {
	unison *testutil.UnisonDir
	cfg    *config.Config
	source string
	dest   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	source := filepath.Join(root, "SyncHub")
	dest := filepath.Join(root, "Dropbox", "SyncHub")
	testutil.CreateTestDirectory(t, source)
	testutil.CreateTestDirectory(t, dest)

	u := testutil.NewUnisonDir(t)
	cfg := config.Default()
	cfg.UnisonDir = u.Dir
	cfg.BackupDir = filepath.Join(root, "backups")
	cfg.SyncHubs = []string{source}
	cfg.Profiles = []config.ProfileConfig{{Name: "work", Source: source, Destination: dest, Service: "dropbox"}}

	return &fixture{unison: u, cfg: cfg, source: source, dest: dest}
}

func (f *fixture) orchestrator(fixer Fixer) *Orchestrator {
	detector := detect.NewDetector(f.cfg.Thresholds)
	validator := safety.NewValidator(f.cfg.SyncHubs, safety.WithHomeDir("/nonexistent-home"))
	if fixer == nil {
		fixer = recovery.NewEngine(f.cfg, detector, backup.NewManager(f.cfg.BackupDir), template.NewGenerator(f.cfg.RequiredIgnores))
	}
	return NewOrchestrator(f.cfg, detector, validator, fixer)
}

func (f *fixture) writeHealthy() {
	f.unison.WriteProfile("work", testutil.ValidProfile(f.source, f.dest))
	f.unison.WriteArtifact(testutil.HexName("ar", 1), testutil.ArchiveBytes(4096), time.Now())
}

func TestValidate_Healthy(t *testing.T) {
	f := newFixture(t)
	f.writeHealthy()

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{})

	assert.True(t, report.Overall.Success, report.Overall.Issues)
	assert.True(t, report.Success())
	assert.True(t, report.UnisonDirectory.Success)
	assert.True(t, report.Profiles["work"].Success)
	assert.True(t, report.Archives.Success)
	assert.True(t, report.RootPaths["work"].Success)
	assert.True(t, report.IgnorePatterns["work"].Success)
	assert.Empty(t, report.Recommendations)
	assert.Nil(t, report.AutoFixResult)
}

func TestValidate_MissingDirectory(t *testing.T) {
	f := newFixture(t)
	f.cfg.UnisonDir = filepath.Join(t.TempDir(), "absent")

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{})

	assert.False(t, report.Overall.Success)
	assert.Equal(t, string(appErrors.KindDirectoryAccessError), report.UnisonDirectory.Issue)
	assert.Equal(t, IssueProfileMissing, report.Profiles["work"].Issue)
	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, PriorityHigh, report.Recommendations[0].Priority)
}

func TestValidate_CorruptedProfile(t *testing.T) {
	f := newFixture(t)
	f.unison.WriteProfile("work", testutil.ValidProfile(f.source, f.dest, "2024-01-01 changed /foo/bar"))

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{})

	assert.False(t, report.Overall.Success)
	check := report.Profiles["work"]
	assert.Equal(t, string(appErrors.KindProfileCorruption), check.Issue)
	assert.Equal(t, "go-syncguard regenerate work", check.AutoFix)
	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, PriorityHigh, report.Recommendations[0].Priority)
}

func TestValidate_MissingIgnoresAreAdvisory(t *testing.T) {
	f := newFixture(t)
	f.unison.WriteProfile("work", "root = "+f.source+"\nroot = "+f.dest+"\nauto = true\n")

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{})

	assert.True(t, report.Overall.Success, report.Overall.Issues)
	ignores := report.IgnorePatterns["work"]
	assert.False(t, ignores.Success)
	assert.Equal(t, IssueMissingRequiredIgnores, ignores.Issue)
	require.Len(t, report.Overall.Warnings, 1)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, PriorityMedium, report.Recommendations[0].Priority)
}

func TestValidate_RootMismatchIsFixable(t *testing.T) {
	f := newFixture(t)
	other := filepath.Join(t.TempDir(), "Dropbox", "Elsewhere")
	f.unison.WriteProfile("work", testutil.ValidProfile(f.source, other))

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{})

	check := report.RootPaths["work"]
	assert.False(t, check.Success)
	assert.Equal(t, string(appErrors.KindRootPathValidationFailed), check.Issue)
	assert.Equal(t, "go-syncguard regenerate work", check.AutoFix)
	assert.Contains(t, report.regenerate, "work")
}

func TestValidate_DangerousDeclaredRootIsNotFixable(t *testing.T) {
	f := newFixture(t)
	f.cfg.Profiles[0].Destination = "/Users/alice/Desktop"
	f.unison.WriteProfile("work", testutil.ValidProfile(f.source, "/Users/alice/Desktop"))

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{})

	check := report.RootPaths["work"]
	assert.False(t, check.Success)
	assert.Empty(t, check.AutoFix)
	assert.NotContains(t, report.regenerate, "work")
	assert.Contains(t, check.Message, "dangerous sync root")
}

// Scenario: one corrupted profile and healthy archives; a live auto-fix
// applies one fix and the follow-up validation passes.
func TestValidate_AutoFixRegeneratesProfile(t *testing.T) {
	f := newFixture(t)
	f.writeHealthy()
	f.unison.WriteProfile("work", testutil.ValidProfile(f.source, f.dest, "2024-01-01 changed /foo/bar"))

	report := f.orchestrator(nil).Validate(context.Background(), Options{AutoFix: true})

	assert.False(t, report.Overall.Success)
	require.NotNil(t, report.AutoFixResult)
	assert.Equal(t, 1, report.AutoFixResult.FixesAttempted)
	assert.Equal(t, 1, report.AutoFixResult.FixesApplied)
	assert.Equal(t, 0, report.AutoFixResult.FixesFailed)
	assert.Equal(t, recovery.ActionRegenerate, report.AutoFixResult.Fixes[0].Action)

	post := report.AutoFixResult.PostFixValidation
	require.NotNil(t, post)
	assert.True(t, post.Overall.Success, post.Overall.Issues)
	assert.Nil(t, post.AutoFixResult)
	assert.True(t, report.Success())
}

func TestValidate_AutoFixDryRunSkipsRevalidation(t *testing.T) {
	f := newFixture(t)
	f.unison.WriteProfile("work", testutil.ValidProfile(f.source, f.dest, "2024-01-01 changed /foo/bar"))
	before := testutil.Snapshot(t, f.unison.Dir)

	fixer := &MockFixer{}
	fixer.On("RegenerateProfile", mock.Anything, "work", true).Return(&recovery.RegenerateResult{
		Success: true, Profile: "work", Action: recovery.ActionWouldRegenerate, DryRun: true,
	})

	report := f.orchestrator(fixer).Validate(context.Background(), Options{AutoFix: true, DryRun: true})

	fixer.AssertExpectations(t)
	require.NotNil(t, report.AutoFixResult)
	assert.Equal(t, 1, report.AutoFixResult.FixesAttempted)
	assert.Equal(t, 0, report.AutoFixResult.FixesApplied)
	assert.Nil(t, report.AutoFixResult.PostFixValidation)
	assert.False(t, report.Success())
	assert.Equal(t, before, testutil.Snapshot(t, f.unison.Dir))
}

func TestValidate_AutoFixFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.unison.WriteProfile("work", testutil.ValidProfile(f.source, f.dest, "2024-01-01 changed /foo/bar"))
	f.unison.WriteArtifact(testutil.HexName("ar", 2), make([]byte, 4096), time.Now())

	fixer := &MockFixer{}
	fixer.On("RegenerateProfile", mock.Anything, "work", false).Return(&recovery.RegenerateResult{
		Profile: "work", Action: recovery.ActionRegenerate, Error: "boom",
	}).Once()
	fixer.On("CleanupArchives", mock.Anything, mock.Anything, false).Return(&recovery.CleanupResult{
		Processed: []recovery.Outcome{{Path: "ar", Kind: "archive", Action: recovery.ActionRemove}},
	}).Once()

	report := f.orchestrator(fixer).Validate(context.Background(), Options{AutoFix: true})

	fixer.AssertExpectations(t)
	result := report.AutoFixResult
	require.NotNil(t, result)
	assert.Equal(t, 2, result.FixesAttempted)
	assert.Equal(t, 1, result.FixesApplied)
	assert.Equal(t, 1, result.FixesFailed)

	// one re-validation only, never a second remediation pass
	require.NotNil(t, result.PostFixValidation)
	assert.False(t, result.PostFixValidation.Overall.Success)
	assert.Nil(t, result.PostFixValidation.AutoFixResult)
}

func TestValidate_UndeclaredCorruptedProfile(t *testing.T) {
	f := newFixture(t)
	f.writeHealthy()
	f.unison.WriteProfile("stray", testutil.ValidProfile(f.source, f.dest, "deleted /foo"))

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{AutoFix: true, DryRun: true})

	assert.Empty(t, report.Profiles["stray"].AutoFix)
	require.NotNil(t, report.AutoFixResult)
	assert.Equal(t, 1, report.AutoFixResult.FixesFailed)
	assert.Contains(t, report.AutoFixResult.Fixes[0].Error, "stray")
}

func TestValidate_ProfileFilter(t *testing.T) {
	f := newFixture(t)
	f.writeHealthy()
	f.unison.WriteProfile("other", "garbage line\n")

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{Profile: "work"})

	assert.True(t, report.Overall.Success, report.Overall.Issues)
	assert.Len(t, report.Profiles, 1)
	assert.Equal(t, "work", report.Overall.ProfileFilter)
}

func TestValidate_VolumeRecommendation(t *testing.T) {
	f := newFixture(t)
	f.writeHealthy()
	f.cfg.Thresholds.ArchiveMaxBytes = 4096

	report := f.orchestrator(&MockFixer{}).Validate(context.Background(), Options{})

	require.NotEmpty(t, report.Recommendations)
	last := report.Recommendations[len(report.Recommendations)-1]
	assert.Equal(t, PriorityLow, last.Priority)
	assert.Equal(t, "volume", last.Category)
}

func TestCheckAccess(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, checkAccess(dir))
	assert.Error(t, checkAccess(filepath.Join(dir, "missing")))

	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o500))
	assert.Error(t, checkAccess(locked))
}
