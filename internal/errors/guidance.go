package errors

import (
	"fmt"
	"strings"
)

// GuidanceEntry is the operator-facing explanation for an error kind.
type GuidanceEntry struct {
	Summary      string   `json:"summary"`
	LikelyCauses []string `json:"likely_causes"`
	Remedy       string   `json:"remedy"`
	NextSteps    []string `json:"next_steps"`
	Prevention   []string `json:"prevention"`
}

//nolint:gochecknoglobals // static lookup table
var guidanceTable = map[Kind]GuidanceEntry{
	KindProfileCorruption: {
		Summary: "A Unison profile contains data that is not a valid profile directive.",
		LikelyCauses: []string{
			"Unison wrote sync state into the profile after a crash",
			"The profile was edited by hand and a directive was mistyped",
			"The profile grew without bound from repeated appends",
		},
		Remedy: "Back up the profile and regenerate it from the configured template.",
		NextSteps: []string{
			"Run: go-syncguard detect <profile> to list the offending lines",
			"Run: go-syncguard regenerate <profile> --dry-run to preview the replacement",
			"Run: go-syncguard validate --auto-fix to repair",
		},
		Prevention: []string{
			"Avoid editing profiles while Unison is running",
			"Keep profile definitions in go-syncguard.yaml and regenerate instead of editing",
		},
	},
	KindProfileBackupFailed: {
		Summary: "The profile could not be backed up, so it was left untouched.",
		LikelyCauses: []string{
			"The backup directory is not writable",
			"The disk is full",
			"The profile changed size while it was being copied",
		},
		Remedy: "No change was made. Fix the backup location and retry.",
		NextSteps: []string{
			"Check free space and permissions on the backup directory",
			"Run: go-syncguard backup <profile>",
		},
		Prevention: []string{"Keep the backup directory on the same volume as the unison directory"},
	},
	KindProfileRegenerationFailed: {
		Summary: "A replacement profile could not be written or did not pass its own checks.",
		LikelyCauses: []string{
			"The profile definition in the configuration is incomplete",
			"The unison directory is not writable",
		},
		Remedy: "The original profile is preserved in the backup directory.",
		NextSteps: []string{
			"Review the profile definition in go-syncguard.yaml",
			"Restore the backup manually if Unison must run before the fix",
		},
		Prevention: []string{"Run go-syncguard validate after changing the configuration"},
	},
	KindArchiveCorruption: {
		Summary: "One or more Unison archive, fingerprint or lock files look damaged or stale.",
		LikelyCauses: []string{
			"A previous Unison run crashed or was killed",
			"The disk ran out of space during an archive write",
			"A stale lock was left behind",
		},
		Remedy: "Back up and remove the affected files. Unison rebuilds them on the next run.",
		NextSteps: []string{
			"Run: go-syncguard cleanup --dry-run to preview",
			"Run: go-syncguard cleanup to apply",
		},
		Prevention: []string{"Let Unison runs finish; avoid force-quitting during sync"},
	},
	KindArchiveCleanupFailed: {
		Summary: "Some archive files could not be cleaned up.",
		LikelyCauses: []string{
			"Unison is currently running and holds the files",
			"Permissions on the unison directory changed",
		},
		Remedy: "Files whose backup could not be verified were left in place.",
		NextSteps: []string{
			"Make sure no Unison process is running",
			"Re-run: go-syncguard cleanup",
		},
		Prevention: []string{"Schedule syncs so they do not overlap"},
	},
	KindRootPathValidationFailed: {
		Summary: "A profile root points somewhere it must never point.",
		LikelyCauses: []string{
			"The source root is not the configured sync hub",
			"The destination is a home, Desktop, Documents or system directory",
			"The destination does not match the declared cloud service",
		},
		Remedy: "Nothing is synchronized until the root is corrected.",
		NextSteps: []string{
			"Fix source/destination in go-syncguard.yaml",
			"Run: go-syncguard regenerate <profile>",
		},
		Prevention: []string{"Never point a root at a home directory or filesystem root"},
	},
	KindDirectoryAccessError: {
		Summary: "The unison directory is missing or not readable and writable.",
		LikelyCauses: []string{
			"Unison has never been run on this machine",
			"Permissions on the directory were changed",
		},
		Remedy: "The directory is created when missing; permission problems need an operator.",
		NextSteps: []string{
			"Check ownership of the unison directory",
			"Run: go-syncguard validate --auto-fix",
		},
		Prevention: []string{"Do not run Unison with a different user than go-syncguard"},
	},
	KindGenericConfigurationError: {
		Summary: "The sync configuration could not be processed.",
		LikelyCauses: []string{
			"go-syncguard.yaml is malformed",
			"A path in the configuration does not exist",
		},
		Remedy: "No automatic remedy is available.",
		NextSteps: []string{
			"Run with --log-level debug for details",
			"Check go-syncguard.yaml against the documented fields",
		},
		Prevention: []string{"Keep the configuration under version control"},
	},
}

// Guidance returns the static guidance entry for kind.
func Guidance(kind Kind) GuidanceEntry {
	if entry, ok := guidanceTable[kind]; ok {
		return entry
	}
	return guidanceTable[KindGenericConfigurationError]
}

// RenderGuidance renders the human-readable guidance block. When dryRun is set
// the remedy is phrased as what would happen.
func RenderGuidance(kind Kind, dryRun bool) string {
	entry := Guidance(kind)

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s, severity %s]\n", entry.Summary, kind, kind.Severity())

	b.WriteString("\nLikely causes:\n")
	for _, cause := range entry.LikelyCauses {
		fmt.Fprintf(&b, "  - %s\n", cause)
	}

	if dryRun {
		fmt.Fprintf(&b, "\nRemedy (dry run, nothing changed): %s\n", entry.Remedy)
	} else {
		fmt.Fprintf(&b, "\nRemedy: %s\n", entry.Remedy)
	}

	b.WriteString("\nNext steps:\n")
	for i, step := range entry.NextSteps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}

	b.WriteString("\nPrevention:\n")
	for _, tip := range entry.Prevention {
		fmt.Fprintf(&b, "  - %s\n", tip)
	}

	return b.String()
}
