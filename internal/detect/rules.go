package detect

import (
	"fmt"
	"regexp"

	"github.com/dustin/go-humanize"

	"github.com/mrz1836/go-syncguard/internal/profile"
	"github.com/mrz1836/go-syncguard/internal/strutil"
)

// evidenceLimit caps the evidence snippet copied into an issue.
const evidenceLimit = 80

// Line is one non-blank, non-comment profile line.
type Line struct {
	Number    int
	Text      string
	Key       string
	Value     string
	Directive bool
}

// ProfileScan is the input every ProfileRule inspects.
type ProfileScan struct {
	Name      string
	SizeBytes int64
	MaxBytes  int64
	Lines     []Line
}

// Roots returns the root directive lines.
func (s *ProfileScan) Roots() []Line {
	var roots []Line
	for _, l := range s.Lines {
		if l.Directive && l.Key == profile.RootKey {
			roots = append(roots, l)
		}
	}
	return roots
}

// ProfileRule is one heuristic in the ordered profile rule list.
type ProfileRule interface {
	Name() string
	// Structural rules decide HasValidStructure.
	Structural() bool
	Check(scan *ProfileScan) []Issue
}

// Signature is a pattern identifying sync state leaked into a profile.
type Signature struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultSignatures returns the built-in leaked-sync-data signatures.
func DefaultSignatures() []Signature {
	return []Signature{
		{"iso-date", regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)},
		{"change-verb", regexp.MustCompile(`(?i)^(changed|deleted|new file|new dir|props|created|modified|moved|updating|copying)\b`)},
		{"hex-hash", regexp.MustCompile(`\b[0-9a-f]{32,}\b`)},
		{"xml-tag", regexp.MustCompile(`^<[A-Za-z/?!]`)},
		{"binary", regexp.MustCompile(`[\x00-\x08\x0e-\x1f]`)},
	}
}

// DefaultRules returns the profile rules in evaluation order.
func DefaultRules() []ProfileRule {
	signatures := DefaultSignatures()
	return []ProfileRule{
		SizeRule{},
		SignatureRule{Signatures: signatures},
		UnknownDirectiveRule{Signatures: signatures},
		RootCountRule{},
		RootPathRule{},
	}
}

// SizeRule flags profiles above the size limit.
type SizeRule struct{}

// Name implements ProfileRule
func (SizeRule) Name() string { return "size" }

// Structural implements ProfileRule
func (SizeRule) Structural() bool { return false }

// Check implements ProfileRule
func (SizeRule) Check(scan *ProfileScan) []Issue {
	if scan.MaxBytes <= 0 || scan.SizeBytes <= scan.MaxBytes {
		return nil
	}
	return []Issue{{
		Rule: "size",
		Description: fmt.Sprintf("Profile is %s, above the %s limit",
			humanize.IBytes(uint64(scan.SizeBytes)), humanize.IBytes(uint64(scan.MaxBytes))), //nolint:gosec // sizes are non-negative
	}}
}

// SignatureRule flags non-directive lines that look like leaked sync state.
type SignatureRule struct {
	Signatures []Signature
}

// Name implements ProfileRule
func (SignatureRule) Name() string { return "sync-data" }

// Structural implements ProfileRule
func (SignatureRule) Structural() bool { return false }

// Check implements ProfileRule
func (r SignatureRule) Check(scan *ProfileScan) []Issue {
	var issues []Issue
	for _, l := range scan.Lines {
		if l.Directive {
			continue
		}
		if sig, ok := r.match(l.Text); ok {
			issues = append(issues, Issue{
				Rule:        "sync-data:" + sig,
				Line:        l.Number,
				Evidence:    strutil.Truncate(l.Text, evidenceLimit),
				Description: fmt.Sprintf("Line %d looks like sync data instead of profile directive: %q", l.Number, strutil.Truncate(l.Text, evidenceLimit)),
			})
		}
	}
	return issues
}

func (r SignatureRule) match(text string) (string, bool) {
	for _, sig := range r.Signatures {
		if sig.Pattern.MatchString(text) {
			return sig.Name, true
		}
	}
	return "", false
}

// UnknownDirectiveRule flags lines that are neither directives nor recognized
// sync data. Lines matching Signatures are left to SignatureRule.
type UnknownDirectiveRule struct {
	Signatures []Signature
}

// Name implements ProfileRule
func (UnknownDirectiveRule) Name() string { return "unknown-directive" }

// Structural implements ProfileRule
func (UnknownDirectiveRule) Structural() bool { return false }

// Check implements ProfileRule
func (r UnknownDirectiveRule) Check(scan *ProfileScan) []Issue {
	leaked := SignatureRule{Signatures: r.Signatures}
	var issues []Issue
	for _, l := range scan.Lines {
		if l.Directive {
			continue
		}
		if _, ok := leaked.match(l.Text); ok {
			continue
		}
		issues = append(issues, Issue{
			Rule:        "unknown-directive",
			Line:        l.Number,
			Evidence:    strutil.Truncate(l.Text, evidenceLimit),
			Description: fmt.Sprintf("Line %d is not a recognized profile directive: %q", l.Number, strutil.Truncate(l.Text, evidenceLimit)),
		})
	}
	return issues
}

// RootCountRule requires exactly two roots in every non-default profile.
type RootCountRule struct{}

// Name implements ProfileRule
func (RootCountRule) Name() string { return "root-count" }

// Structural implements ProfileRule
func (RootCountRule) Structural() bool { return true }

// Check implements ProfileRule
func (RootCountRule) Check(scan *ProfileScan) []Issue {
	if profile.IsDefault(scan.Name) {
		return nil
	}
	count := len(scan.Roots())
	if count == profile.RequiredRootCount {
		return nil
	}
	return []Issue{{
		Rule:        "root-count",
		Description: fmt.Sprintf("Expected exactly %d root directives, found %d", profile.RequiredRootCount, count),
	}}
}

// RootPathRule requires every root to be absolute and free of traversal.
// Remote roots (scheme://) are only checked for traversal.
type RootPathRule struct{}

// Name implements ProfileRule
func (RootPathRule) Name() string { return "root-path" }

// Structural implements ProfileRule
func (RootPathRule) Structural() bool { return true }

// Check implements ProfileRule
func (RootPathRule) Check(scan *ProfileScan) []Issue {
	var issues []Issue
	for _, root := range scan.Roots() {
		value := root.Value
		remote := strutil.IsRemotePath(value)
		switch {
		case value == "":
			issues = append(issues, Issue{
				Rule:        "root-path",
				Line:        root.Number,
				Description: fmt.Sprintf("Root directive on line %d is empty", root.Number),
			})
		case !remote && !strutil.IsAbsolutePath(value):
			issues = append(issues, Issue{
				Rule:        "root-path",
				Line:        root.Number,
				Evidence:    strutil.Truncate(value, evidenceLimit),
				Description: fmt.Sprintf("Root directive on line %d is not an absolute path: %q", root.Number, strutil.Truncate(value, evidenceLimit)),
			})
		case strutil.HasPathTraversal(value):
			issues = append(issues, Issue{
				Rule:        "root-path",
				Line:        root.Number,
				Evidence:    strutil.Truncate(value, evidenceLimit),
				Description: fmt.Sprintf("Root directive on line %d contains path traversal: %q", root.Number, strutil.Truncate(value, evidenceLimit)),
			})
		}
	}
	return issues
}
