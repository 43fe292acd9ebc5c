// Package backup copies artifacts aside before they are modified.
//
// A Record with VerifiedSizeMatch set is the only precondition under which a
// caller may delete or overwrite the source. Backups are never overwritten
// and never removed by this package.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/journal"
	"github.com/mrz1836/go-syncguard/internal/logging"
)

const (
	// Infix separates the original file name from the timestamp.
	Infix = ".backup."
	// timestampLayout is fixed-width so names sort chronologically.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
	// copyBufferSize matches a typical filesystem block multiple.
	copyBufferSize = 64 * 1024
	// maxNameAttempts bounds the collision suffixes tried for one timestamp.
	maxNameAttempts = 10
)

// ErrNotRegularFile is returned when the source is a directory or device.
var ErrNotRegularFile = errors.New("not a regular file")

//nolint:gochecknoglobals // fixed replacement table
var timestampReplacer = strings.NewReplacer(":", "-", ".", "-")

// Record describes one backup.
type Record struct {
	SourcePath        string    `json:"sourcePath"`
	BackupPath        string    `json:"backupPath"`
	SourceSize        int64     `json:"sourceSize"`
	BackupSize        int64     `json:"backupSize"`
	VerifiedSizeMatch bool      `json:"verifiedSizeMatch"`
	CreatedAt         time.Time `json:"createdAt"`
}

// CopyFunc copies src into dst and returns the number of bytes written.
type CopyFunc func(dst io.Writer, src io.Reader) (int64, error)

// Manager writes backups into one directory.
type Manager struct {
	dir      string
	now      func() time.Time
	copy     CopyFunc
	recorder journal.Recorder
	logger   *logrus.Entry
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithCopier replaces the byte copy used for backups.
func WithCopier(fn CopyFunc) Option {
	return func(m *Manager) {
		m.copy = fn
	}
}

// WithRecorder journals every backup attempt.
func WithRecorder(r journal.Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager writing into dir.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:      dir,
		now:      time.Now,
		copy:     bufferedCopy,
		recorder: journal.Nop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.ComponentLogger(m.logger, logging.ComponentNames.Backup)
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Name returns the backup file name for base taken at t.
func Name(base string, t time.Time) string {
	return base + Infix + timestampReplacer.Replace(t.UTC().Format(timestampLayout))
}

// OriginalName returns the source file name encoded in a backup name.
func OriginalName(backupName string) (string, bool) {
	idx := strings.LastIndex(backupName, Infix)
	if idx <= 0 {
		return "", false
	}
	return backupName[:idx], true
}

// Backup copies path into the backup directory and verifies the copy's size.
// profile is only used for logging and the journal. A size mismatch returns the
// record together with ErrBackupNotVerified; the partial copy is kept.
func (m *Manager) Backup(ctx context.Context, path, profile string) (*Record, error) {
	record, err := m.backup(path)

	entry := &journal.Entry{
		Kind:         journal.KindBackup,
		Action:       "backed_up",
		Profile:      profile,
		ArtifactPath: path,
		Success:      err == nil,
	}
	if record != nil {
		entry.BackupPath = record.BackupPath
		entry.Verified = record.VerifiedSizeMatch
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if jerr := m.recorder.Record(ctx, entry); jerr != nil {
		m.logger.WithError(jerr).Warn("Failed to journal backup")
	}

	fields := logrus.Fields{
		logging.StandardFields.Operation:    "backup",
		logging.StandardFields.Profile:      profile,
		logging.StandardFields.ArtifactPath: path,
	}
	if err != nil {
		m.logger.WithFields(fields).WithError(err).Error("Backup failed")
		return record, err
	}
	fields[logging.StandardFields.BackupPath] = record.BackupPath
	fields[logging.StandardFields.SizeBytes] = record.BackupSize
	m.logger.WithFields(fields).Info("Backup created and verified")
	return record, nil
}

func (m *Manager) backup(path string) (*Record, error) {
	if strings.ContainsRune(path, 0) {
		return nil, appErrors.PathTraversalError(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, appErrors.FileStatError(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, appErrors.FileOperationError("backup", path, ErrNotRegularFile)
	}

	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return nil, appErrors.DirectoryCreateError(m.dir, err)
	}

	now := m.now()
	dst, backupPath, err := m.createExclusive(filepath.Base(path), now)
	if err != nil {
		return nil, err
	}

	copyErr := m.copyInto(dst, path)
	closeErr := dst.Close()
	if copyErr != nil {
		return nil, copyErr
	}
	if closeErr != nil {
		return nil, appErrors.FileWriteError(backupPath, closeErr)
	}

	// re-stat both sides; the source may have changed during the copy
	srcInfo, err := os.Stat(path)
	if err != nil {
		return nil, appErrors.FileStatError(path, err)
	}
	dstInfo, err := os.Stat(backupPath)
	if err != nil {
		return nil, appErrors.FileStatError(backupPath, err)
	}

	record := &Record{
		SourcePath:        path,
		BackupPath:        backupPath,
		SourceSize:        srcInfo.Size(),
		BackupSize:        dstInfo.Size(),
		VerifiedSizeMatch: srcInfo.Size() == dstInfo.Size(),
		CreatedAt:         now,
	}
	if !record.VerifiedSizeMatch {
		return record, fmt.Errorf("%w: %s is %d bytes, backup %s is %d bytes",
			appErrors.ErrBackupNotVerified, path, record.SourceSize, backupPath, record.BackupSize)
	}
	return record, nil
}

// createExclusive opens a new backup file, adding a numeric suffix when a
// backup with the same timestamp already exists.
func (m *Manager) createExclusive(base string, now time.Time) (*os.File, string, error) {
	name := Name(base, now)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", name, attempt)
		}
		path := filepath.Join(m.dir, candidate)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //#nosec G304 -- name derived from the source base name
		if err == nil {
			return file, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", appErrors.FileCreateError(path, err)
		}
	}
	return nil, "", appErrors.FileCreateError(filepath.Join(m.dir, name), os.ErrExist)
}

func bufferedCopy(dst io.Writer, src io.Reader) (int64, error) {
	return io.CopyBuffer(dst, src, make([]byte, copyBufferSize))
}

func (m *Manager) copyInto(dst *os.File, srcPath string) error {
	src, err := os.Open(srcPath) //#nosec G304 -- caller-validated artifact path
	if err != nil {
		return appErrors.FileOpenError(srcPath, err)
	}
	defer func() { _ = src.Close() }()

	if _, err := m.copy(dst, src); err != nil {
		return appErrors.FileWriteError(dst.Name(), err)
	}
	if err := dst.Sync(); err != nil {
		return appErrors.FileWriteError(dst.Name(), err)
	}
	return nil
}

// Info describes an existing backup file.
type Info struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	OriginalName string    `json:"originalName"`
	SizeBytes    int64     `json:"sizeBytes"`
	ModTime      time.Time `json:"modTime"`
}

// List returns the backups in the directory, oldest first. A missing
// directory yields an empty list.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, appErrors.DirectoryReadError(m.dir, err)
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		original, ok := OriginalName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Name:         entry.Name(),
			Path:         filepath.Join(m.dir, entry.Name()),
			OriginalName: original,
			SizeBytes:    info.Size(),
			ModTime:      info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Name < backups[j].Name })
	return backups, nil
}
