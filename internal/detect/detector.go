package detect

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/config"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/profile"
)

// Detector runs the profile rules and archive heuristics.
type Detector struct {
	thresholds config.Thresholds
	rules      []ProfileRule
	now        func() time.Time
	logger     *logrus.Entry
}

// Option configures a Detector.
type Option func(*Detector)

// WithRules replaces the profile rule list.
func WithRules(rules ...ProfileRule) Option {
	return func(d *Detector) {
		d.rules = rules
	}
}

// WithExtraRules appends rules after the defaults.
func WithExtraRules(rules ...ProfileRule) Option {
	return func(d *Detector) {
		d.rules = append(d.rules, rules...)
	}
}

// WithClock overrides the time source used for age checks.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector creates a Detector with the given thresholds.
func NewDetector(thresholds config.Thresholds, opts ...Option) *Detector {
	d := &Detector{
		thresholds: thresholds,
		rules:      DefaultRules(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.ComponentLogger(d.logger, logging.ComponentNames.Detector)
	return d
}

// Thresholds returns the thresholds in use.
func (d *Detector) Thresholds() config.Thresholds {
	return d.thresholds
}

// DetectProfile inspects the profile at path. Only I/O failures are errors;
// corruption is reported in the result.
func (d *Detector) DetectProfile(path string) (*ProfileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, appErrors.FileStatError(path, err)
	}

	file, err := os.Open(path) //#nosec G304 -- profile paths come from the unison directory
	if err != nil {
		return nil, appErrors.FileOpenError(path, err)
	}
	defer func() { _ = file.Close() }()

	// oversized files are only scanned up to the limit
	limit := d.thresholds.ProfileMaxBytes.Int64()
	reader := io.Reader(file)
	if limit > 0 {
		reader = io.LimitReader(file, limit)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, appErrors.FileReadError(path, err)
	}

	result := d.detect(profile.NameFromPath(path), data, info.Size())
	result.Path = path
	return result, nil
}

// DetectContent inspects profile content that is not on disk.
func (d *Detector) DetectContent(name string, data []byte) *ProfileResult {
	return d.detect(name, data, int64(len(data)))
}

func (d *Detector) detect(name string, data []byte, size int64) *ProfileResult {
	scan := &ProfileScan{
		Name:      name,
		SizeBytes: size,
		MaxBytes:  d.thresholds.ProfileMaxBytes.Int64(),
		Lines:     scanLines(data),
	}

	result := &ProfileResult{
		Name:              name,
		SizeBytes:         size,
		RootCount:         len(scan.Roots()),
		HasValidStructure: true,
		Issues:            []Issue{},
	}

	for _, rule := range d.rules {
		issues := rule.Check(scan)
		if len(issues) == 0 {
			continue
		}
		if rule.Structural() {
			result.HasValidStructure = false
		}
		result.Issues = append(result.Issues, issues...)
	}
	result.IsCorrupted = len(result.Issues) > 0

	entry := d.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation:  "detect_profile",
		logging.StandardFields.Profile:    name,
		logging.StandardFields.IssueCount: len(result.Issues),
		logging.StandardFields.SizeBytes:  size,
	})
	if result.IsCorrupted {
		entry.Warn("Profile corruption detected")
	} else {
		entry.Debug("Profile is clean")
	}

	return result
}

func scanLines(data []byte) []Line {
	var lines []Line
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	number := 0
	for scanner.Scan() {
		number++
		text := scanner.Text()
		if profile.IsComment(text) {
			continue
		}

		l := Line{Number: number, Text: strings.TrimSpace(text)}
		if key, value, ok := profile.SplitLine(text); ok {
			l.Key = key
			l.Value = value
			l.Directive = profile.IsDirective(key)
		}
		lines = append(lines, l)
	}
	return lines
}
