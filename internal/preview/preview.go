// Package preview shows which files a profile would sync without touching
// anything.
package preview

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/config"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/profile"
	"github.com/mrz1836/go-syncguard/internal/strutil"
)

// DefaultMaxListed caps each file list in a Result. Statistics always cover
// every file.
const DefaultMaxListed = 1000

// File is a file that would be synced.
type File struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
}

// IgnoredFile is a file that would be skipped, with the pattern responsible.
type IgnoredFile struct {
	Path         string `json:"path"`
	SizeBytes    int64  `json:"sizeBytes"`
	Pattern      string `json:"pattern"`
	PatternIndex int    `json:"patternIndex"`
	Via          string `json:"via,omitempty"`
}

// Statistics summarizes a preview.
type Statistics struct {
	TotalFiles       int            `json:"totalFiles"`
	FilesToSync      int            `json:"filesToSync"`
	FilesToIgnore    int            `json:"filesToIgnore"`
	HiddenToSync     int            `json:"hiddenToSync"` // dotfiles, or files under a dot directory, that would sync
	BytesToSync      int64          `json:"bytesToSync"`
	BytesToIgnore    int64          `json:"bytesToIgnore"`
	HumanBytesToSync string         `json:"humanBytesToSync"`
	Patterns         int            `json:"patterns"`
	PatternHits      map[string]int `json:"patternHits"`
	InvalidPatterns  []string       `json:"invalidPatterns,omitempty"`
	DurationMs       int64          `json:"durationMs"`
}

// Result is the outcome of a preview.
type Result struct {
	Profile       string        `json:"profile"`
	ProfilePath   string        `json:"profilePath"`
	SourceRoot    string        `json:"sourceRoot"`
	FilesToSync   []File        `json:"filesToSync"`
	FilesToIgnore []IgnoredFile `json:"filesToIgnore"`
	Truncated     bool          `json:"truncated"`
	Statistics    Statistics    `json:"statistics"`
}

// Previewer classifies source files against a profile's ignore patterns.
type Previewer struct {
	cfg       *config.Config
	maxListed int
	logger    *logrus.Entry
}

// Option configures a Previewer.
type Option func(*Previewer)

// WithMaxListed caps the number of entries in each file list. Zero or less
// lists everything.
func WithMaxListed(n int) Option {
	return func(p *Previewer) {
		p.maxListed = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(p *Previewer) {
		p.logger = logger
	}
}

// NewPreviewer creates a Previewer.
func NewPreviewer(cfg *config.Config, opts ...Option) *Previewer {
	p := &Previewer{cfg: cfg, maxListed: DefaultMaxListed}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.ComponentLogger(p.logger, logging.ComponentNames.Preview)
	return p
}

// Preview walks the source root of the named profile. The first pattern in
// declaration order that matches a path wins; files under an ignored
// directory are attributed to that directory's pattern.
func (p *Previewer) Preview(ctx context.Context, name string) (*Result, error) {
	start := time.Now()
	profilePath := profile.Path(p.cfg.UnisonDir, name)

	doc, err := profile.ParseFile(profilePath)
	if err != nil {
		return nil, appErrors.NewOperationError(appErrors.KindGenericConfigurationError, "preview", profilePath, name, err)
	}

	source := strutil.NormalizePath(doc.Source())
	if source == "" {
		return nil, appErrors.NewOperationError(appErrors.KindRootPathValidationFailed, "preview", profilePath, name,
			appErrors.EmptyFieldError("source root"))
	}

	patterns, errs := profile.ParseIgnores(doc.Ignores)
	result := &Result{
		Profile:       name,
		ProfilePath:   profilePath,
		SourceRoot:    source,
		FilesToSync:   []File{},
		FilesToIgnore: []IgnoredFile{},
		Statistics: Statistics{
			Patterns:    len(patterns),
			PatternHits: make(map[string]int),
		},
	}
	for _, err := range errs {
		result.Statistics.InvalidPatterns = append(result.Statistics.InvalidPatterns, err.Error())
	}

	if err := p.walk(ctx, source, patterns, result); err != nil {
		return nil, appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "preview", source, name, err)
	}

	stats := &result.Statistics
	stats.HumanBytesToSync = humanize.IBytes(uint64(stats.BytesToSync)) //nolint:gosec // sizes are non-negative
	stats.DurationMs = time.Since(start).Milliseconds()

	p.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation:  "preview",
		logging.StandardFields.Profile:    name,
		logging.StandardFields.SourceRoot: source,
		logging.StandardFields.FileCount:  stats.TotalFiles,
		logging.StandardFields.DurationMs: stats.DurationMs,
	}).Debug("Preview complete")

	return result, nil
}

type dirMatch struct {
	pattern profile.IgnorePattern
	dir     string
}

func (p *Previewer) walk(ctx context.Context, root string, patterns []profile.IgnorePattern, result *Result) error {
	info, err := os.Stat(root)
	if err != nil {
		return appErrors.FileStatError(root, err)
	}
	if !info.IsDir() {
		return appErrors.DirectoryReadError(root, appErrors.ValidationError("source root", "not a directory"))
	}

	ignoredDirs := make(map[string]dirMatch)
	stats := &result.Statistics

	walkErr := filepath.WalkDir(root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if full == root {
			return nil
		}

		rel, err := filepath.Rel(root, full)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		inherited, hasInherited := ignoredDirs[path.Dir(rel)]

		if d.IsDir() {
			switch {
			case hasInherited:
				ignoredDirs[rel] = inherited
			default:
				if match, ok := profile.FirstMatch(patterns, rel); ok {
					ignoredDirs[rel] = dirMatch{pattern: match, dir: rel}
				}
			}
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			// removed during the walk
			return nil //nolint:nilerr // vanished entries are skipped
		}
		size := fileInfo.Size()
		stats.TotalFiles++

		var ignored *IgnoredFile
		switch {
		case hasInherited:
			ignored = &IgnoredFile{Path: rel, SizeBytes: size, Pattern: inherited.pattern.Raw, PatternIndex: inherited.pattern.Index, Via: inherited.dir}
		default:
			if match, ok := profile.FirstMatch(patterns, rel); ok {
				ignored = &IgnoredFile{Path: rel, SizeBytes: size, Pattern: match.Raw, PatternIndex: match.Index}
			}
		}

		if ignored != nil {
			stats.FilesToIgnore++
			stats.BytesToIgnore += size
			stats.PatternHits[ignored.Pattern]++
			if p.maxListed <= 0 || len(result.FilesToIgnore) < p.maxListed {
				result.FilesToIgnore = append(result.FilesToIgnore, *ignored)
			} else {
				result.Truncated = true
			}
			return nil
		}

		stats.FilesToSync++
		stats.BytesToSync += size
		if isHidden(rel) {
			stats.HiddenToSync++
		}
		if p.maxListed <= 0 || len(result.FilesToSync) < p.maxListed {
			result.FilesToSync = append(result.FilesToSync, File{Path: rel, SizeBytes: size})
		} else {
			result.Truncated = true
		}
		return nil
	})
	if walkErr != nil {
		return appErrors.DirectoryWalkError(root, walkErr)
	}
	return nil
}

func isHidden(rel string) bool {
	for _, component := range strutil.SplitPath(rel) {
		if strutil.IsHiddenFile(component) {
			return true
		}
	}
	return false
}
