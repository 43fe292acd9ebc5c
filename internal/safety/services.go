package safety

import (
	"regexp"
	"sort"
)

// Service identifies a cloud storage provider.
type Service string

// Supported cloud services
const (
	ServiceGoogleDrive Service = "google_drive"
	ServiceDropbox     Service = "dropbox"
	ServiceOneDrive    Service = "onedrive"
	ServiceICloud      Service = "icloud"
	ServiceBox         Service = "box"
)

// servicePattern is one entry of the closed destination registry.
type servicePattern struct {
	service Service
	pattern *regexp.Regexp
}

// serviceRegistry is matched in order; the first hit names the service.
//
//nolint:gochecknoglobals // compiled once
var serviceRegistry = []servicePattern{
	{ServiceGoogleDrive, regexp.MustCompile(`/(Google Drive|GoogleDrive-[^/]+|My Drive)(/|$)`)},
	{ServiceDropbox, regexp.MustCompile(`/(Dropbox( \([^/]+\))?|Dropbox-[^/]+)(/|$)`)},
	{ServiceOneDrive, regexp.MustCompile(`/(OneDrive( - [^/]+)?|OneDrive-[^/]+)(/|$)`)},
	{ServiceICloud, regexp.MustCompile(`/(Mobile Documents/com~apple~CloudDocs|iCloud Drive)(/|$)`)},
	{ServiceBox, regexp.MustCompile(`/(Box|Box Sync|Box-Box)(/|$)`)},
}

// Services returns every supported service name, sorted.
func Services() []Service {
	out := make([]Service, 0, len(serviceRegistry))
	for _, sp := range serviceRegistry {
		out = append(out, sp.service)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsKnownService reports whether name is a supported service.
func IsKnownService(name string) bool {
	for _, sp := range serviceRegistry {
		if string(sp.service) == name {
			return true
		}
	}
	return false
}

// InferService returns the service whose path shape matches path, or "".
// path must already be normalized.
func InferService(path string) Service {
	for _, sp := range serviceRegistry {
		if sp.pattern.MatchString(path) {
			return sp.service
		}
	}
	return ""
}
