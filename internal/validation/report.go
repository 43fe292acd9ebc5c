package validation

import (
	"time"

	"github.com/mrz1836/go-syncguard/internal/detect"
	"github.com/mrz1836/go-syncguard/internal/recovery"
)

// Issue codes that have no error taxonomy counterpart.
const (
	IssueProfileMissing         = "profile_missing"
	IssueMissingRequiredIgnores = "missing_required_ignores"
)

// CheckResult is the outcome of one sub-check.
type CheckResult struct {
	Success bool   `json:"success"`
	Issue   string `json:"issue,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	AutoFix string `json:"autoFix,omitempty"`
}

func passed(message string, details any) CheckResult {
	return CheckResult{Success: true, Message: message, Details: details}
}

func failed(issue, message string, details any) CheckResult {
	return CheckResult{Issue: issue, Message: message, Details: details}
}

// Overall aggregates the blocking checks.
type Overall struct {
	Success       bool      `json:"success"`
	Issues        []string  `json:"issues"`
	Warnings      []string  `json:"warnings"`
	ProfileFilter string    `json:"profileFilter,omitempty"`
	DryRun        bool      `json:"dryRun"`
	CheckedAt     time.Time `json:"checkedAt"`
	DurationMs    int64     `json:"durationMs"`
}

// Priority orders recommendations.
type Priority string

// Recommendation priorities
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Recommendation is an operator-facing next step.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Command  string   `json:"command,omitempty"`
}

// Fix is one remediation attempted by auto-fix.
type Fix struct {
	Target     string          `json:"target"`
	Kind       string          `json:"kind"`
	Action     recovery.Action `json:"action,omitempty"`
	Success    bool            `json:"success"`
	Applied    bool            `json:"applied"`
	BackupPath string          `json:"backupPath,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// AutoFixResult reports the single remediation pass.
type AutoFixResult struct {
	FixesAttempted    int     `json:"fixesAttempted"`
	FixesApplied      int     `json:"fixesApplied"`
	FixesFailed       int     `json:"fixesFailed"`
	Fixes             []Fix   `json:"fixes"`
	PostFixValidation *Report `json:"postFixValidation,omitempty"`
}

// Report is the aggregate result of one validation pass.
type Report struct {
	UnisonDirectory CheckResult            `json:"unisonDirectory"`
	Profiles        map[string]CheckResult `json:"profiles"`
	Archives        CheckResult            `json:"archives"`
	RootPaths       map[string]CheckResult `json:"rootPaths"`
	IgnorePatterns  map[string]CheckResult `json:"ignorePatterns"`
	Overall         Overall                `json:"overall"`
	Recommendations []Recommendation       `json:"recommendations"`
	AutoFixResult   *AutoFixResult         `json:"autoFixResult,omitempty"`

	archiveSet       *detect.ArchiveSetResult
	regenerate       []string
	undeclaredFailed []string
}

// Success is the final verdict: the post-fix report when one exists,
// otherwise this report.
func (r *Report) Success() bool {
	if r.AutoFixResult != nil && r.AutoFixResult.PostFixValidation != nil {
		return r.AutoFixResult.PostFixValidation.Overall.Success
	}
	return r.Overall.Success
}
