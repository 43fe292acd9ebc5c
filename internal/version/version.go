// Package version exposes build information and engine version checks.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
)

const (
	devVersionString = "dev"
	unknownString    = "unknown"
)

// Build information set via ldflags
//
//nolint:gochecknoglobals // Build variables are set via ldflags during compilation
var (
	mu        sync.RWMutex
	version   = devVersionString
	commit    = unknownString
	buildDate = unknownString
)

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Set allows setting version information programmatically (thread-safe).
// Empty arguments leave the current value unchanged.
func Set(v, c, d string) {
	mu.Lock()
	defer mu.Unlock()
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// Reset restores the defaults (thread-safe, for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	version = devVersionString
	commit = unknownString
	buildDate = unknownString
}

// Get returns the current version string with fallback to build info
func Get() string {
	mu.RLock()
	v := version
	mu.RUnlock()
	if v != devVersionString && v != "" {
		return v
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return devVersionString
}

// IsDev reports whether the running binary is an unversioned development build.
func IsDev() bool {
	_, err := semver.NewVersion(Get())
	return err != nil
}

// GetInfo returns complete version information
func GetInfo() Info {
	return Info{
		Version:   Get(),
		Commit:    getCommit(),
		BuildDate: getBuildDate(),
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Satisfies reports whether the running version meets constraint (for example
// ">= 1.2, < 2"). Development builds satisfy every constraint. An empty
// constraint is always satisfied.
func Satisfies(constraint string) (bool, error) {
	return satisfies(Get(), constraint)
}

func satisfies(current, constraint string) (bool, error) {
	if strings.TrimSpace(constraint) == "" {
		return true, nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		// unversioned builds are treated as newest
		return true, nil //nolint:nilerr // dev builds bypass the check
	}
	return c.Check(v), nil
}

func getCommit() string {
	mu.RLock()
	c := commit
	mu.RUnlock()
	if c != unknownString && c != "" {
		return c
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				if len(setting.Value) > 7 {
					return setting.Value[:7]
				}
				return setting.Value
			}
		}
	}
	return unknownString
}

func getBuildDate() string {
	mu.RLock()
	bd := buildDate
	mu.RUnlock()
	if bd != unknownString && bd != "" {
		return bd
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" && setting.Value != "" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.Format("2006-01-02_15:04:05_UTC")
				}
				return setting.Value
			}
		}
	}
	return unknownString
}
