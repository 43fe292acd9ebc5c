// Package safety classifies filesystem paths as legal sync roots or dangerous ones.
//
// The dangerous-root check is unconditional: a path matching any dangerous
// pattern is invalid regardless of existence, service match, or any caller
// override. There is no override in this package.
package safety

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/strutil"
)

// Role is the side of a profile a root is validated for.
type Role string

// Root roles
const (
	RoleSource      Role = "source"
	RoleDestination Role = "destination"
)

// Result is the outcome of validating one root path.
type Result struct {
	Path           string   `json:"path"`
	NormalizedPath string   `json:"normalizedPath"`
	Role           Role     `json:"role"`
	CloudService   Service  `json:"cloudService,omitempty"`
	IsValid        bool     `json:"isValid"`
	Issues         []string `json:"issues"`
	Warnings       []string `json:"warnings"`
}

// DangerCheck is the outcome of CheckDangerous.
type DangerCheck struct {
	IsSafe bool     `json:"isSafe"`
	Issues []string `json:"issues"`
}

// Validator validates sync roots against the configured sync hubs.
type Validator struct {
	hubs   []string
	home   string
	logger *logrus.Entry
}

// Option configures a Validator.
type Option func(*Validator)

// WithHomeDir overrides the home directory used by the dangerous-root rules.
func WithHomeDir(home string) Option {
	return func(v *Validator) {
		v.home = strutil.NormalizePath(home)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *logrus.Entry) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a Validator for the given sync hub directories.
func NewValidator(syncHubs []string, opts ...Option) *Validator {
	v := &Validator{}
	if home, err := os.UserHomeDir(); err == nil {
		v.home = strutil.NormalizePath(home)
	}

	seen := make(map[string]struct{}, len(syncHubs))
	for _, hub := range syncHubs {
		normalized := strutil.NormalizePath(hub)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		v.hubs = append(v.hubs, normalized)
	}

	for _, opt := range opts {
		opt(v)
	}
	v.logger = logging.ComponentLogger(v.logger, logging.ComponentNames.Safety)
	return v
}

// SyncHubs returns the normalized sync hub paths.
func (v *Validator) SyncHubs() []string {
	return append([]string(nil), v.hubs...)
}

// CheckDangerous tests path against the ordered dangerous-root list.
func (v *Validator) CheckDangerous(path string) DangerCheck {
	normalized := strutil.NormalizePath(path)
	if normalized == "" {
		return DangerCheck{IsSafe: false, Issues: []string{"Path is empty"}}
	}

	issues := dangerIssues(normalized, v.home)
	if len(issues) > 0 {
		v.logger.WithFields(logrus.Fields{
			logging.StandardFields.ArtifactPath: normalized,
			logging.StandardFields.IssueCount:   len(issues),
		}).Debug("Dangerous path detected")
	}
	return DangerCheck{IsSafe: len(issues) == 0, Issues: nonNil(issues)}
}

// ValidateSource requires path to equal exactly one configured sync hub.
func (v *Validator) ValidateSource(path string) Result {
	normalized := strutil.NormalizePath(path)
	result := Result{
		Path:           path,
		NormalizedPath: normalized,
		Role:           RoleSource,
		Issues:         []string{},
		Warnings:       []string{},
	}

	danger := v.CheckDangerous(path)
	if !danger.IsSafe {
		result.Issues = append(result.Issues, danger.Issues...)
		return result
	}

	if len(v.hubs) == 0 {
		result.Issues = append(result.Issues, "No sync hub is configured")
		return result
	}

	matched := false
	for _, hub := range v.hubs {
		switch {
		case normalized == hub:
			matched = true
		case strutil.IsDescendant(normalized, hub):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Source is a subdirectory of sync hub %s; use the hub itself", hub))
		case strutil.IsDescendant(hub, normalized):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Source is a parent of sync hub %s; use the hub itself", hub))
		}
	}

	if !matched {
		result.Issues = append(result.Issues,
			fmt.Sprintf("Source %s does not match the configured sync hub", normalized))
		return result
	}

	info, err := os.Stat(normalized)
	switch {
	case os.IsNotExist(err):
		result.Issues = append(result.Issues, fmt.Sprintf("Sync hub %s does not exist", normalized))
	case err != nil:
		result.Issues = append(result.Issues, fmt.Sprintf("Sync hub %s is not accessible: %v", normalized, err))
	case !info.IsDir():
		result.Issues = append(result.Issues, fmt.Sprintf("Sync hub %s is not a directory", normalized))
	}

	result.IsValid = len(result.Issues) == 0
	return result
}

// ValidateDestination checks path against the dangerous roots first, then
// against the cloud service registry. declared may be empty, in which case the
// service is inferred.
func (v *Validator) ValidateDestination(path string, declared Service) Result {
	normalized := strutil.NormalizePath(path)
	result := Result{
		Path:           path,
		NormalizedPath: normalized,
		Role:           RoleDestination,
		Issues:         []string{},
		Warnings:       []string{},
	}

	danger := v.CheckDangerous(path)
	if !danger.IsSafe {
		result.Issues = append(result.Issues, danger.Issues...)
		return result
	}

	inferred := InferService(normalized)
	switch {
	case declared != "" && !IsKnownService(string(declared)):
		result.Issues = append(result.Issues, fmt.Sprintf("Unknown cloud service %q", declared))
	case inferred == "":
		result.Issues = append(result.Issues,
			fmt.Sprintf("Destination %s does not match any supported cloud storage location", normalized))
	case declared != "" && declared != inferred:
		result.Issues = append(result.Issues,
			fmt.Sprintf("Destination is declared as %s but its path looks like %s", declared, inferred))
	}

	result.CloudService = inferred
	if result.CloudService == "" {
		result.CloudService = declared
	}

	for _, hub := range v.hubs {
		if normalized == hub || strutil.IsDescendant(normalized, hub) || strutil.IsDescendant(hub, normalized) {
			result.Issues = append(result.Issues,
				fmt.Sprintf("Destination overlaps sync hub %s", hub))
		}
	}

	if _, err := os.Stat(normalized); os.IsNotExist(err) {
		parent := filepath.Dir(normalized)
		if _, perr := os.Stat(parent); os.IsNotExist(perr) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Neither destination nor its parent %s exists yet", parent))
		} else {
			result.Warnings = append(result.Warnings, "Destination does not exist yet and will be created on first sync")
		}
	}

	result.IsValid = len(result.Issues) == 0
	return result
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
