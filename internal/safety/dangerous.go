package safety

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// dangerRule is one entry of the ordered dangerous-root list.
type dangerRule struct {
	name  string
	match func(path, home string) bool
}

//nolint:gochecknoglobals // compiled once
var (
	homeRootPattern  = regexp.MustCompile(`^/(Users|home)/[^/]+$`)
	desktopPattern   = regexp.MustCompile(`^/(Users|home)/[^/]+/Desktop$`)
	documentsPattern = regexp.MustCompile(`^/(Users|home)/[^/]+/Documents$`)

	// systemDirs are dangerous along with everything below them.
	systemDirs = []string{
		"/System", "/Library", "/Applications", "/usr", "/bin", "/sbin",
		"/etc", "/dev", "/proc", "/sys", "/boot", "/opt", "/private/etc",
	}

	// mountRoots are dangerous only as exact paths.
	mountRoots = []string{"/Volumes", "/mnt", "/media", "/Users", "/home", "/root"}
)

// dangerRules is evaluated in order; every matching rule contributes an issue.
//
//nolint:gochecknoglobals // static rule table
var dangerRules = []dangerRule{
	{
		name: "filesystem root",
		match: func(path, _ string) bool {
			return filepath.Dir(path) == path
		},
	},
	{
		name: "home directory",
		match: func(path, home string) bool {
			return homeRootPattern.MatchString(path) || (home != "" && path == home)
		},
	},
	{
		name: "Desktop directory",
		match: func(path, home string) bool {
			return desktopPattern.MatchString(path) || (home != "" && path == filepath.Join(home, "Desktop"))
		},
	},
	{
		name: "Documents root",
		match: func(path, home string) bool {
			return documentsPattern.MatchString(path) || (home != "" && path == filepath.Join(home, "Documents"))
		},
	},
	{
		name: "system directory",
		match: func(path, _ string) bool {
			for _, dir := range systemDirs {
				if path == dir || strings.HasPrefix(path, dir+"/") {
					return true
				}
			}
			return false
		},
	},
	{
		name: "mount or user root",
		match: func(path, _ string) bool {
			for _, dir := range mountRoots {
				if path == dir {
					return true
				}
			}
			return false
		},
	},
}

// dangerIssues returns one issue per matching rule. path must be normalized.
func dangerIssues(path, home string) []string {
	var issues []string
	for _, rule := range dangerRules {
		if rule.match(path, home) {
			issues = append(issues, fmt.Sprintf("Path %s is a dangerous sync root (%s)", path, rule.name))
		}
	}
	return issues
}
