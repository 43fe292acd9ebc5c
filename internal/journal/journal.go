// Package journal keeps an append-only record of backups and recovery actions
// in a local SQLite database.
package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrEmptyPath is returned when the database path is empty
	ErrEmptyPath = errors.New("journal path is required")
	// ErrAppendOnly is returned when an existing entry would be modified or deleted
	ErrAppendOnly = errors.New("journal entries are append-only")
)

// Entry kinds
const (
	KindBackup   = "backup"
	KindRecovery = "recovery"
)

// Entry is one journal row.
type Entry struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	Kind         string    `gorm:"index;not null" json:"kind"`
	Action       string    `gorm:"not null" json:"action"`
	Profile      string    `gorm:"index" json:"profile,omitempty"`
	ArtifactPath string    `json:"artifactPath"`
	BackupPath   string    `json:"backupPath,omitempty"`
	Verified     bool      `json:"verified"`
	DryRun       bool      `json:"dryRun"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
}

// TableName sets the table name
func (Entry) TableName() string {
	return "journal_entries"
}

// BeforeUpdate rejects updates
func (e *Entry) BeforeUpdate(_ *gorm.DB) error {
	return ErrAppendOnly
}

// BeforeDelete rejects deletes
func (e *Entry) BeforeDelete(_ *gorm.DB) error {
	return ErrAppendOnly
}

// Recorder appends entries.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Profile string
	Kind    string
	Limit   int
}

// Journal is the SQLite-backed Recorder.
type Journal struct {
	db *gorm.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := OpenSQLite(SQLiteConfig{Path: path, LogLevel: logger.Silent})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New wraps an open database and migrates the schema.
func New(db *gorm.DB) (*Journal, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends entry; ID and CreatedAt are assigned by the database.
func (j *Journal) Record(ctx context.Context, entry *Entry) error {
	if err := j.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (j *Journal) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := j.db.WithContext(ctx).Model(&Entry{}).Order("id DESC")
	if filter.Profile != "" {
		query = query.Where("profile = ?", filter.Profile)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of entries.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := j.db.WithContext(ctx).Model(&Entry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Nop is a Recorder that discards entries, used when the journal is disabled.
type Nop struct{}

// Record implements Recorder
func (Nop) Record(context.Context, *Entry) error { return nil }
