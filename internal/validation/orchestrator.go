// Package validation runs the full integrity pipeline over a unison directory
// and optionally remediates what it finds, once.
package validation

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/config"
	"github.com/mrz1836/go-syncguard/internal/detect"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/profile"
	"github.com/mrz1836/go-syncguard/internal/recovery"
	"github.com/mrz1836/go-syncguard/internal/safety"
	"github.com/mrz1836/go-syncguard/internal/strutil"
)

// Fixer remediates failing artifacts.
type Fixer interface {
	RegenerateProfile(ctx context.Context, name string, dryRun bool) *recovery.RegenerateResult
	CleanupArchives(ctx context.Context, corrupted []detect.ArtifactResult, dryRun bool) *recovery.CleanupResult
}

// Options select what a validation pass covers.
type Options struct {
	Profile string
	AutoFix bool
	DryRun  bool
}

// Orchestrator sequences the checks.
type Orchestrator struct {
	cfg      *config.Config
	detector *detect.Detector
	safety   *safety.Validator
	fixer    Fixer
	now      func() time.Time
	logger   *logrus.Entry
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg *config.Config, detector *detect.Detector, validator *safety.Validator, fixer Fixer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		detector: detector,
		safety:   validator,
		fixer:    fixer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.ComponentLogger(o.logger, logging.ComponentNames.Validation)
	return o
}

// Validate runs every check. With AutoFix and a failing report it remediates
// each failing artifact once and, when something was actually changed,
// validates a second and final time.
func (o *Orchestrator) Validate(ctx context.Context, opts Options) *Report {
	report := o.run(opts)
	if !opts.AutoFix || report.Overall.Success {
		return report
	}

	fixes := o.autoFix(ctx, report, opts.DryRun)
	report.AutoFixResult = fixes
	if fixes.FixesApplied > 0 && !opts.DryRun {
		fixes.PostFixValidation = o.run(Options{Profile: opts.Profile, DryRun: opts.DryRun})
	}

	o.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation: "auto_fix",
		logging.StandardFields.DryRun:    opts.DryRun,
		"fixes_attempted":                fixes.FixesAttempted,
		"fixes_applied":                  fixes.FixesApplied,
		"fixes_failed":                   fixes.FixesFailed,
	}).Info("Auto-fix pass finished")

	return report
}

func (o *Orchestrator) run(opts Options) *Report {
	start := o.now()
	report := &Report{
		Profiles:        make(map[string]CheckResult),
		RootPaths:       make(map[string]CheckResult),
		IgnorePatterns:  make(map[string]CheckResult),
		Recommendations: []Recommendation{},
		Overall: Overall{
			Issues:        []string{},
			Warnings:      []string{},
			ProfileFilter: opts.Profile,
			DryRun:        opts.DryRun,
			CheckedAt:     start,
		},
	}

	report.UnisonDirectory = o.checkDirectory()

	names, err := o.profileNames(opts.Profile)
	if err != nil {
		report.UnisonDirectory = failed(string(appErrors.KindDirectoryAccessError), err.Error(), nil)
	}
	for _, name := range names {
		report.Profiles[name] = o.checkProfile(report, name)
	}

	report.Archives = o.checkArchives(report, opts.Profile)

	for _, name := range names {
		if profile.IsDefault(name) {
			continue
		}
		if check, ok := o.checkRootPaths(report, name); ok {
			report.RootPaths[name] = check
		}
		if check, ok := o.checkIgnores(name); ok {
			report.IgnorePatterns[name] = check
		}
	}

	o.aggregate(report)
	report.Recommendations = recommend(report, o.cfg)
	report.Overall.DurationMs = o.now().Sub(start).Milliseconds()

	o.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation:  "validate",
		logging.StandardFields.Status:     report.Overall.Success,
		logging.StandardFields.IssueCount: len(report.Overall.Issues),
		logging.StandardFields.DurationMs: report.Overall.DurationMs,
	}).Info("Validation pass finished")

	return report
}

// profileNames returns the profiles to check: the filter alone, or every
// profile on disk plus every declared one.
func (o *Orchestrator) profileNames(filter string) ([]string, error) {
	if filter != "" {
		return []string{filter}, nil
	}
	onDisk, err := profile.List(o.cfg.UnisonDir)
	if err != nil {
		return o.cfg.ProfileNames(), err
	}
	names := strutil.UniqueStrings(append(onDisk, o.cfg.ProfileNames()...))
	sort.Strings(names)
	return names, nil
}

func (o *Orchestrator) checkDirectory() CheckResult {
	dir := o.cfg.UnisonDir
	details := map[string]any{"path": dir}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return failed(string(appErrors.KindDirectoryAccessError), fmt.Sprintf("Unison directory %s does not exist", dir), details)
	case err != nil:
		return failed(string(appErrors.KindDirectoryAccessError), fmt.Sprintf("Unison directory %s is not accessible: %v", dir, err), details)
	case !info.IsDir():
		return failed(string(appErrors.KindDirectoryAccessError), fmt.Sprintf("Unison directory %s is not a directory", dir), details)
	}

	if err := checkAccess(dir); err != nil {
		details["error"] = err.Error()
		return failed(string(appErrors.KindDirectoryAccessError), fmt.Sprintf("Unison directory %s is not readable and writable", dir), details)
	}
	return passed(fmt.Sprintf("Unison directory %s is accessible", dir), details)
}

func (o *Orchestrator) checkProfile(report *Report, name string) CheckResult {
	_, declared := o.cfg.Profile(name)
	path := profile.Path(o.cfg.UnisonDir, name)

	if !profile.Exists(o.cfg.UnisonDir, name) {
		if !declared {
			return failed(IssueProfileMissing, appErrors.ProfileNotFoundError(name, o.cfg.UnisonDir).Error(), nil)
		}
		report.regenerate = append(report.regenerate, name)
		check := failed(IssueProfileMissing, fmt.Sprintf("Profile %s is declared but %s does not exist", name, path), nil)
		check.AutoFix = regenerateCommand(name)
		return check
	}

	result, err := o.detector.DetectProfile(path)
	if err != nil {
		return failed(string(appErrors.KindOf(err)), err.Error(), nil)
	}
	if !result.IsCorrupted {
		return passed(fmt.Sprintf("Profile %s is clean", name), result)
	}

	check := failed(string(appErrors.KindProfileCorruption),
		fmt.Sprintf("Profile %s is corrupted: %d issue(s)", name, len(result.Issues)), result)
	if declared {
		check.AutoFix = regenerateCommand(name)
		report.regenerate = append(report.regenerate, name)
	} else {
		report.undeclaredFailed = append(report.undeclaredFailed, name)
	}
	return check
}

func (o *Orchestrator) checkArchives(report *Report, filter string) CheckResult {
	set, err := o.detector.DetectArchiveSet(o.cfg.UnisonDir, filter)
	if err != nil {
		return failed(string(appErrors.KindDirectoryAccessError), err.Error(), nil)
	}
	report.archiveSet = set

	if len(set.Corrupted) == 0 {
		return passed(fmt.Sprintf("%d archive file(s) look healthy", set.TotalArtifacts), set)
	}
	check := failed(string(appErrors.KindArchiveCorruption),
		fmt.Sprintf("%d of %d archive file(s) look corrupted", len(set.Corrupted), set.TotalArtifacts), set)
	check.AutoFix = cleanupCommand(filter)
	return check
}

// rootPathDetails is the payload of a root path check.
type rootPathDetails struct {
	Source       safety.Result `json:"source"`
	Destination  safety.Result `json:"destination"`
	ProfileRoots []string      `json:"profileRoots,omitempty"`
	Mismatches   []string      `json:"mismatches,omitempty"`
}

// checkRootPaths validates the declared roots, or the on-disk roots of an
// undeclared profile, and cross-references the two when both exist.
func (o *Orchestrator) checkRootPaths(report *Report, name string) (CheckResult, bool) {
	declared, isDeclared := o.cfg.Profile(name)

	var doc *profile.Document
	if profile.Exists(o.cfg.UnisonDir, name) {
		if parsed, err := profile.ParseFile(profile.Path(o.cfg.UnisonDir, name)); err == nil {
			doc = parsed
		}
	}

	var source, destination string
	var service safety.Service
	switch {
	case isDeclared:
		source, destination = declared.Source, declared.Destination
		service = safety.Service(declared.Service)
	case doc != nil && len(doc.Roots) > 0:
		source, destination = doc.Source(), doc.Destination()
	default:
		return CheckResult{}, false
	}

	details := rootPathDetails{
		Source:      o.safety.ValidateSource(source),
		Destination: o.safety.ValidateDestination(destination, service),
	}
	if isDeclared && doc != nil {
		details.ProfileRoots = doc.Roots
		if strutil.NormalizePath(doc.Source()) != strutil.NormalizePath(source) {
			details.Mismatches = append(details.Mismatches,
				fmt.Sprintf("Profile source root %q differs from declared %q", doc.Source(), source))
		}
		if strutil.NormalizePath(doc.Destination()) != strutil.NormalizePath(destination) {
			details.Mismatches = append(details.Mismatches,
				fmt.Sprintf("Profile destination root %q differs from declared %q", doc.Destination(), destination))
		}
	}

	if details.Source.IsValid && details.Destination.IsValid && len(details.Mismatches) == 0 {
		return passed(fmt.Sprintf("Roots of %s are valid", name), details), true
	}

	var problems []string
	problems = append(problems, details.Source.Issues...)
	problems = append(problems, details.Destination.Issues...)
	problems = append(problems, details.Mismatches...)
	check := failed(string(appErrors.KindRootPathValidationFailed),
		fmt.Sprintf("Roots of %s are invalid: %s", name, strings.Join(problems, "; ")), details)

	// only a stale profile is fixable; bad declared roots need the operator
	if details.Source.IsValid && details.Destination.IsValid {
		check.AutoFix = regenerateCommand(name)
		if !slices.Contains(report.regenerate, name) {
			report.regenerate = append(report.regenerate, name)
		}
	}
	return check, true
}

func (o *Orchestrator) checkIgnores(name string) (CheckResult, bool) {
	if !profile.Exists(o.cfg.UnisonDir, name) {
		return CheckResult{}, false
	}
	doc, err := profile.ParseFile(profile.Path(o.cfg.UnisonDir, name))
	if err != nil {
		return failed(string(appErrors.KindProfileCorruption), err.Error(), nil), true
	}

	present := make(map[string]struct{}, len(doc.Ignores))
	for _, value := range doc.Ignores {
		present[profile.NormalizeIgnore(value)] = struct{}{}
	}

	missing := []string{}
	for _, required := range o.cfg.RequiredIgnores {
		if _, ok := present[profile.NormalizeIgnore(required)]; !ok {
			missing = append(missing, required)
		}
	}

	details := map[string]any{"required": len(o.cfg.RequiredIgnores), "missing": missing}
	if len(missing) == 0 {
		return passed(fmt.Sprintf("Profile %s carries every required ignore pattern", name), details), true
	}
	check := failed(IssueMissingRequiredIgnores,
		fmt.Sprintf("Profile %s is missing %d required ignore pattern(s)", name, len(missing)), details)
	if _, declared := o.cfg.Profile(name); declared {
		check.AutoFix = regenerateCommand(name)
	}
	return check, true
}

// aggregate sets Overall from the blocking steps. Ignore pattern checks only
// contribute warnings.
func (o *Orchestrator) aggregate(report *Report) {
	overall := &report.Overall
	overall.Success = true

	block := func(check CheckResult) {
		if !check.Success {
			overall.Success = false
			overall.Issues = append(overall.Issues, check.Message)
		}
	}

	block(report.UnisonDirectory)
	for _, name := range sortedKeys(report.Profiles) {
		block(report.Profiles[name])
	}
	block(report.Archives)
	for _, name := range sortedKeys(report.RootPaths) {
		block(report.RootPaths[name])
	}
	for _, name := range sortedKeys(report.IgnorePatterns) {
		if check := report.IgnorePatterns[name]; !check.Success {
			overall.Warnings = append(overall.Warnings, check.Message)
		}
	}
}

func (o *Orchestrator) autoFix(ctx context.Context, report *Report, dryRun bool) *AutoFixResult {
	result := &AutoFixResult{Fixes: []Fix{}}

	record := func(fix Fix) {
		result.FixesAttempted++
		if fix.Applied {
			result.FixesApplied++
		}
		if !fix.Success {
			result.FixesFailed++
		}
		result.Fixes = append(result.Fixes, fix)
	}

	for _, name := range report.regenerate {
		regenerated := o.fixer.RegenerateProfile(ctx, name, dryRun)
		record(Fix{
			Target:     regenerated.ProfilePath,
			Kind:       string(detect.KindProfile),
			Action:     regenerated.Action,
			Success:    regenerated.Success,
			Applied:    regenerated.Success && regenerated.Action.Mutates() && !dryRun,
			BackupPath: regenerated.BackupPath,
			Error:      regenerated.Error,
		})
	}

	for _, name := range report.undeclaredFailed {
		record(Fix{
			Target: profile.Path(o.cfg.UnisonDir, name),
			Kind:   string(detect.KindProfile),
			Error:  appErrors.ProfileNotDefinedError(name).Error(),
		})
	}

	if report.archiveSet != nil && len(report.archiveSet.Corrupted) > 0 {
		cleaned := o.fixer.CleanupArchives(ctx, report.archiveSet.Corrupted, dryRun)
		for _, outcome := range cleaned.Processed {
			record(Fix{
				Target:     outcome.Path,
				Kind:       outcome.Kind,
				Action:     outcome.Action,
				Success:    true,
				Applied:    outcome.Action.Mutates() && !dryRun,
				BackupPath: outcome.BackupPath,
			})
		}
		for _, outcome := range cleaned.Failed {
			record(Fix{
				Target:     outcome.Path,
				Kind:       outcome.Kind,
				Action:     outcome.Action,
				BackupPath: outcome.BackupPath,
				Error:      outcome.Error,
			})
		}
	}

	return result
}

func regenerateCommand(name string) string {
	return "go-syncguard regenerate " + name
}

func cleanupCommand(filter string) string {
	if filter == "" {
		return "go-syncguard cleanup"
	}
	return "go-syncguard cleanup " + filter
}

func sortedKeys(m map[string]CheckResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

