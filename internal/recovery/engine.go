// Package recovery backs up, removes or regenerates, and re-validates
// corrupted Unison artifacts.
//
// No artifact is deleted or overwritten unless a verified backup of that exact
// path was taken earlier in the same operation. Dry runs go through the same
// planning functions as live runs and stop before any filesystem mutation.
package recovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/backup"
	"github.com/mrz1836/go-syncguard/internal/config"
	"github.com/mrz1836/go-syncguard/internal/detect"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/journal"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/profile"
	"github.com/mrz1836/go-syncguard/internal/template"
)

// Engine performs recovery operations.
type Engine struct {
	cfg       *config.Config
	detector  *detect.Detector
	backups   *backup.Manager
	generator *template.Generator
	recorder  journal.Recorder
	logger    *logrus.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder journals every recovery action.
func WithRecorder(r journal.Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine composes the detector, backup manager, and generator.
func NewEngine(cfg *config.Config, detector *detect.Detector, backups *backup.Manager, generator *template.Generator, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		detector:  detector,
		backups:   backups,
		generator: generator,
		recorder:  journal.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.ComponentLogger(e.logger, logging.ComponentNames.Recovery)
	return e
}

// Outcome is the result for one artifact.
type Outcome struct {
	Path       string         `json:"path"`
	Kind       string         `json:"kind"`
	Profile    string         `json:"profile,omitempty"`
	Action     Action         `json:"action"`
	State      State          `json:"state"`
	BackupPath string         `json:"backupPath,omitempty"`
	Issues     []string       `json:"issues,omitempty"`
	Error      string         `json:"error,omitempty"`
	ErrorKind  appErrors.Kind `json:"errorKind,omitempty"`
}

// CleanupResult is the result of CleanupArchives.
type CleanupResult struct {
	DryRun    bool            `json:"dryRun"`
	Processed []Outcome       `json:"processed"`
	Failed    []Outcome       `json:"failed"`
	BackedUp  []backup.Record `json:"backedUp"`
}

// Success reports whether every artifact was processed.
func (r *CleanupResult) Success() bool {
	return len(r.Failed) == 0
}

// RegenerateResult is the result of RegenerateProfile.
type RegenerateResult struct {
	Success     bool                  `json:"success"`
	Profile     string                `json:"profile"`
	ProfilePath string                `json:"profilePath"`
	BackupPath  string                `json:"backupPath,omitempty"`
	Action      Action                `json:"action,omitempty"`
	State       State                 `json:"state"`
	DryRun      bool                  `json:"dryRun"`
	Diff        string                `json:"diff,omitempty"`
	PostCheck   *detect.ProfileResult `json:"postCheck,omitempty"`
	Error       string                `json:"error,omitempty"`
	ErrorKind   appErrors.Kind        `json:"errorKind,omitempty"`
}

// BackupResult is the result of BackupProfile.
type BackupResult struct {
	Success   bool           `json:"success"`
	Profile   string         `json:"profile"`
	Record    *backup.Record `json:"backup,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorKind appErrors.Kind `json:"errorKind,omitempty"`
}

// CleanupArchives backs up and removes each corrupted artifact, then confirms
// it is gone. With dryRun nothing is touched and would_* actions are reported.
func (e *Engine) CleanupArchives(ctx context.Context, corrupted []detect.ArtifactResult, dryRun bool) *CleanupResult {
	result := &CleanupResult{
		DryRun:    dryRun,
		Processed: []Outcome{},
		Failed:    []Outcome{},
		BackedUp:  []backup.Record{},
	}

	for _, artifact := range corrupted {
		outcome := e.cleanupOne(ctx, artifact, dryRun, result)
		if outcome.Error != "" {
			result.Failed = append(result.Failed, outcome)
		} else {
			result.Processed = append(result.Processed, outcome)
		}
		e.journal(ctx, outcome, dryRun)
	}

	e.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation: "cleanup_archives",
		logging.StandardFields.DryRun:    dryRun,
		"processed":                      len(result.Processed),
		"failed":                         len(result.Failed),
	}).Info("Archive cleanup finished")

	return result
}

func (e *Engine) cleanupOne(ctx context.Context, artifact detect.ArtifactResult, dryRun bool, result *CleanupResult) Outcome {
	outcome := Outcome{
		Path:    artifact.Path,
		Kind:    string(artifact.Kind),
		Profile: artifact.RelatedProfile,
		State:   StateDetected,
		Issues:  artifact.Descriptions(),
	}

	exists, err := fileExists(artifact.Path)
	if err != nil {
		return e.fail(outcome, appErrors.KindArchiveCleanupFailed, "stat", err)
	}
	outcome.Action = decide(planRemoval(exists), dryRun)
	if dryRun || !outcome.Action.Mutates() {
		if !exists {
			outcome.State = StateConfirmed
		}
		return outcome
	}

	record, err := e.backups.Backup(ctx, artifact.Path, artifact.RelatedProfile)
	if err != nil {
		return e.fail(outcome, appErrors.KindArchiveCleanupFailed, "backup", err)
	}
	result.BackedUp = append(result.BackedUp, *record)
	outcome.BackupPath = record.BackupPath
	outcome.State = StateBackedUp

	if err := os.Remove(artifact.Path); err != nil {
		return e.fail(outcome, appErrors.KindArchiveCleanupFailed, "remove", appErrors.FileDeleteError(artifact.Path, err))
	}
	outcome.State = StateRemoved

	if still, err := fileExists(artifact.Path); err != nil || still {
		if err == nil {
			err = appErrors.ErrArtifactStillThere
		}
		outcome = e.fail(outcome, appErrors.KindArchiveCleanupFailed, "post_check", err)
		outcome.State = StateFailedPostCheck
		return outcome
	}
	outcome.State = StateConfirmed
	return outcome
}

// RegenerateProfile rewrites the named profile from configuration. An existing
// file is backed up first; the written file is re-detected and any remaining
// issue fails the whole operation.
func (e *Engine) RegenerateProfile(ctx context.Context, name string, dryRun bool) *RegenerateResult {
	path := profile.Path(e.cfg.UnisonDir, name)
	result := &RegenerateResult{Profile: name, ProfilePath: path, DryRun: dryRun, State: StateDetected}
	start := time.Now()

	defer func() {
		e.journal(ctx, Outcome{
			Path:       path,
			Kind:       string(detect.KindProfile),
			Profile:    name,
			Action:     result.Action,
			BackupPath: result.BackupPath,
			Error:      result.Error,
		}, dryRun)
		e.logger.WithFields(logrus.Fields{
			logging.StandardFields.Operation:  "regenerate_profile",
			logging.StandardFields.Profile:    name,
			logging.StandardFields.DryRun:     dryRun,
			logging.StandardFields.Status:     result.State,
			logging.StandardFields.DurationMs: time.Since(start).Milliseconds(),
		}).Info("Profile regeneration finished")
	}()

	declared, ok := e.cfg.Profile(name)
	if !ok {
		e.failRegenerate(result, "lookup", appErrors.ProfileNotDefinedError(name))
		return result
	}

	content, err := e.generator.Generate(name, declared)
	if err != nil {
		e.failRegenerate(result, "generate", err)
		return result
	}
	if check := e.detector.DetectContent(name, []byte(content)); check.IsCorrupted {
		result.PostCheck = check
		e.failRegenerate(result, "generate", appErrors.ErrRegeneratedCorrupt)
		return result
	}

	exists, err := fileExists(path)
	if err != nil {
		e.failRegenerate(result, "stat", err)
		return result
	}
	result.Action = decide(planRegeneration(exists), dryRun)

	if dryRun {
		diff, err := e.diff(path, exists, content)
		if err != nil {
			e.failRegenerate(result, "diff", err)
			return result
		}
		result.Diff = diff
		result.Success = true
		return result
	}

	if exists {
		record, err := e.backups.Backup(ctx, path, name)
		if err != nil {
			e.failRegenerateKind(result, appErrors.KindProfileBackupFailed, "backup", err)
			return result
		}
		result.BackupPath = record.BackupPath
		result.State = StateBackedUp
	}

	if err := writeAtomic(path, []byte(content)); err != nil {
		e.failRegenerate(result, "write", err)
		return result
	}
	result.State = StateReplaced

	check, err := e.detector.DetectProfile(path)
	if err != nil {
		e.failRegenerate(result, "post_check", err)
		result.State = StateFailedPostCheck
		return result
	}
	result.PostCheck = check
	if check.IsCorrupted {
		e.failRegenerate(result, "post_check", appErrors.ErrRegeneratedCorrupt)
		result.State = StateFailedPostCheck
		return result
	}

	result.State = StateConfirmed
	result.Success = true
	return result
}

// BackupProfile takes a verified backup of the named profile.
func (e *Engine) BackupProfile(ctx context.Context, name string) *BackupResult {
	path := profile.Path(e.cfg.UnisonDir, name)
	result := &BackupResult{Profile: name}

	if !profile.Exists(e.cfg.UnisonDir, name) {
		err := appErrors.NewOperationError(appErrors.KindProfileBackupFailed, "backup", path, name,
			appErrors.ProfileNotFoundError(name, e.cfg.UnisonDir))
		result.Error, result.ErrorKind = err.Error(), appErrors.KindProfileBackupFailed
		return result
	}

	record, err := e.backups.Backup(ctx, path, name)
	result.Record = record
	if err != nil {
		err = appErrors.NewOperationError(appErrors.KindProfileBackupFailed, "backup", path, name, err)
		result.Error, result.ErrorKind = err.Error(), appErrors.KindProfileBackupFailed
		return result
	}
	result.Success = true
	return result
}

func (e *Engine) diff(path string, exists bool, content string) (string, error) {
	var current string
	if exists {
		data, err := os.ReadFile(path) //#nosec G304 -- profile path inside the unison directory
		if err != nil {
			return "", appErrors.FileReadError(path, err)
		}
		current = template.StripHeader(string(data))
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(template.StripHeader(content)),
		FromFile: path,
		ToFile:   path + " (regenerated)",
		Context:  3,
	})
}

func (e *Engine) fail(outcome Outcome, kind appErrors.Kind, op string, err error) Outcome {
	wrapped := appErrors.NewOperationError(kind, op, outcome.Path, outcome.Profile, err)
	outcome.Error = wrapped.Error()
	outcome.ErrorKind = kind
	if outcome.State != StateFailedPostCheck {
		outcome.State = StateFailed
	}
	e.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation:    op,
		logging.StandardFields.ArtifactPath: outcome.Path,
		logging.StandardFields.Profile:      outcome.Profile,
		logging.StandardFields.ErrorType:    string(kind),
		logging.StandardFields.Severity:     string(kind.Severity()),
	}).WithError(err).Error("Archive recovery failed")
	return outcome
}

func (e *Engine) failRegenerate(result *RegenerateResult, op string, err error) {
	e.failRegenerateKind(result, appErrors.KindProfileRegenerationFailed, op, err)
}

func (e *Engine) failRegenerateKind(result *RegenerateResult, kind appErrors.Kind, op string, err error) {
	wrapped := appErrors.NewOperationError(kind, op, result.ProfilePath, result.Profile, err)
	result.Success = false
	result.Error = wrapped.Error()
	result.ErrorKind = kind
	result.State = StateFailed
	e.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation: op,
		logging.StandardFields.Profile:   result.Profile,
		logging.StandardFields.ErrorType: string(kind),
		logging.StandardFields.Severity:  string(kind.Severity()),
	}).WithError(err).Error("Profile regeneration failed")
}

func (e *Engine) journal(ctx context.Context, outcome Outcome, dryRun bool) {
	if outcome.Action == "" {
		return
	}
	entry := &journal.Entry{
		Kind:         journal.KindRecovery,
		Action:       string(outcome.Action),
		Profile:      outcome.Profile,
		ArtifactPath: outcome.Path,
		BackupPath:   outcome.BackupPath,
		DryRun:       dryRun,
		Success:      outcome.Error == "",
		Error:        outcome.Error,
	}
	if err := e.recorder.Record(ctx, entry); err != nil {
		e.logger.WithError(err).Warn("Failed to journal recovery action")
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, appErrors.FileStatError(path, err)
}

// writeAtomic writes data to a sibling temp file and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return appErrors.DirectoryCreateError(dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(filepath.Base(path), profile.Extension)+".*.tmp")
	if err != nil {
		return appErrors.FileCreateError(path, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return appErrors.FileWriteError(tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return appErrors.FileWriteError(tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return appErrors.FileWriteError(tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return appErrors.FileWriteError(tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return appErrors.FileWriteError(path, err)
	}
	return nil
}
