package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mrz1836/go-syncguard/internal/strutil"
)

// PatternKind is the syntax of an ignore pattern.
type PatternKind string

// Ignore pattern syntaxes
const (
	// PatternName matches any single path component, with glob wildcards.
	PatternName PatternKind = "name"
	// PatternPath matches a contiguous run of path components.
	PatternPath PatternKind = "path"
	// PatternRegex matches the whole relative path.
	PatternRegex PatternKind = "regex"
)

// IgnorePattern is a compiled "ignore =" value.
type IgnorePattern struct {
	Raw   string      `json:"raw"`
	Kind  PatternKind `json:"kind"`
	Value string      `json:"value"`
	Index int         `json:"index"`

	re       *regexp.Regexp
	glob     glob.Glob
	segments int
}

// ParseIgnore compiles one ignore value such as "Name .DS_Store",
// "Path Library/Caches", "BelowPath tmp" or "Regex .*\.tmp".
func ParseIgnore(raw string, index int) (IgnorePattern, error) {
	trimmed := strings.TrimSpace(raw)
	keyword, value, found := strings.Cut(trimmed, " ")
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return IgnorePattern{}, fmt.Errorf("%w: ignore pattern %q", ErrMalformedPattern, raw)
	}

	p := IgnorePattern{Raw: trimmed, Value: value, Index: index}
	switch keyword {
	case "Name":
		p.Kind = PatternName
		g, err := glob.Compile(value, '/')
		if err != nil {
			return IgnorePattern{}, fmt.Errorf("%w: ignore pattern %q: %w", ErrMalformedPattern, raw, err)
		}
		p.glob = g
	case "Path", "BelowPath":
		p.Kind = PatternPath
		segments := strutil.SplitPath(value)
		if len(segments) == 0 {
			return IgnorePattern{}, fmt.Errorf("%w: ignore pattern %q", ErrMalformedPattern, raw)
		}
		g, err := glob.Compile(strings.Join(segments, "/"), '/')
		if err != nil {
			return IgnorePattern{}, fmt.Errorf("%w: ignore pattern %q: %w", ErrMalformedPattern, raw, err)
		}
		p.glob = g
		p.segments = len(segments)
	case "Regex":
		p.Kind = PatternRegex
		re, err := regexp.Compile("^(?:" + value + ")$")
		if err != nil {
			return IgnorePattern{}, fmt.Errorf("%w: ignore pattern %q: %w", ErrMalformedPattern, raw, err)
		}
		p.re = re
	default:
		return IgnorePattern{}, fmt.Errorf("%w: unknown ignore syntax %q", ErrMalformedPattern, keyword)
	}
	return p, nil
}

// Match reports whether the slash-separated relative path rel is ignored.
func (p IgnorePattern) Match(rel string) bool {
	rel = strings.TrimPrefix(strutil.ToUnixPath(rel), "/")
	switch p.Kind {
	case PatternName:
		for _, component := range strings.Split(rel, "/") {
			if p.glob.Match(component) {
				return true
			}
		}
		return false
	case PatternPath:
		return p.matchRun(strings.Split(rel, "/"))
	case PatternRegex:
		return p.re.MatchString(rel)
	default:
		return false
	}
}

// ParseIgnores compiles every value, returning the patterns that compiled and
// one error per value that did not.
func ParseIgnores(values []string) ([]IgnorePattern, []error) {
	patterns := make([]IgnorePattern, 0, len(values))
	var errs []error
	for i, value := range values {
		p, err := ParseIgnore(value, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns, errs
}

// FirstMatch returns the first pattern in declaration order that ignores rel.
func FirstMatch(patterns []IgnorePattern, rel string) (IgnorePattern, bool) {
	for _, p := range patterns {
		if p.Match(rel) {
			return p, true
		}
	}
	return IgnorePattern{}, false
}

// NormalizeIgnore collapses internal whitespace so equivalent values compare equal.
func NormalizeIgnore(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// matchRun reports whether any contiguous run of components, as long as the
// pattern, matches it.
func (p IgnorePattern) matchRun(components []string) bool {
	for start := 0; start+p.segments <= len(components); start++ {
		if p.glob.Match(strings.Join(components[start:start+p.segments], "/")) {
			return true
		}
	}
	return false
}
