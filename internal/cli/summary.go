package cli

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-syncguard/internal/detect"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
)

type profileSummary struct {
	Total     int      `json:"total"`
	Declared  int      `json:"declared"`
	Corrupted int      `json:"corrupted"`
	Names     []string `json:"names"`
	Unhealthy []string `json:"unhealthy"`
}

type archiveSummary struct {
	Total      int                         `json:"total"`
	ByKind     map[detect.ArtifactKind]int `json:"byKind"`
	TotalBytes int64                       `json:"totalBytes"`
	TotalSize  string                      `json:"totalSize"`
	Corrupted  int                         `json:"corrupted"`
}

type backupSummary struct {
	Directory  string `json:"directory"`
	Count      int    `json:"count"`
	TotalBytes int64  `json:"totalBytes"`
	TotalSize  string `json:"totalSize"`
	Latest     string `json:"latest,omitempty"`
	LatestAge  string `json:"latestAge,omitempty"`
}

type journalSummary struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
	Entries int64  `json:"entries"`
}

// summaryResult is the output of the summary command. Success means the
// summary could be produced; Healthy reports whether anything is corrupted.
type summaryResult struct {
	Success         bool           `json:"success"`
	Healthy         bool           `json:"healthy"`
	UnisonDirectory string         `json:"unisonDirectory"`
	GeneratedAt     time.Time      `json:"generatedAt"`
	Profiles        profileSummary `json:"profiles"`
	Archives        archiveSummary `json:"archives"`
	Backups         backupSummary  `json:"backups"`
	Journal         journalSummary `json:"journal"`
}

func createSummaryCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize profiles, archives, backups, and the journal",
		Args:  cobra.NoArgs,
		RunE: withRuntime(flags, func(cmd *cobra.Command, _ []string, rt *runtime) error {
			result, err := summarize(cmd, rt)
			if err != nil {
				return fail(cmd, err, false)
			}
			return emit(result, true, "", false)
		}),
	}
}

func summarize(cmd *cobra.Command, rt *runtime) (*summaryResult, error) {
	detected, err := detectAll(rt, "")
	if err != nil {
		return nil, err
	}

	result := &summaryResult{
		Success:         true,
		Healthy:         detected.Success,
		UnisonDirectory: rt.cfg.UnisonDir,
		GeneratedAt:     time.Now().UTC(),
		Profiles: profileSummary{
			Total:     len(detected.Profiles),
			Declared:  len(rt.cfg.Profiles),
			Names:     []string{},
			Unhealthy: []string{},
		},
	}

	for name, p := range detected.Profiles {
		result.Profiles.Names = append(result.Profiles.Names, name)
		if p.IsCorrupted {
			result.Profiles.Corrupted++
			result.Profiles.Unhealthy = append(result.Profiles.Unhealthy, name)
		}
	}
	sort.Strings(result.Profiles.Names)
	sort.Strings(result.Profiles.Unhealthy)

	set := detected.Archives
	result.Archives = archiveSummary{
		Total:      set.TotalArtifacts,
		ByKind:     set.ByKind,
		TotalBytes: set.TotalBytes,
		TotalSize:  humanize.IBytes(uint64(set.TotalBytes)), //nolint:gosec // sizes are non-negative
		Corrupted:  len(set.Corrupted),
	}

	backups, err := rt.backups().List()
	if err != nil {
		return nil, appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "summary", rt.cfg.BackupDir, "", err)
	}
	result.Backups.Directory = rt.cfg.BackupDir
	result.Backups.Count = len(backups)
	var latest time.Time
	for _, b := range backups {
		result.Backups.TotalBytes += b.SizeBytes
		if b.ModTime.After(latest) {
			latest = b.ModTime
			result.Backups.Latest = b.Name
		}
	}
	result.Backups.TotalSize = humanize.IBytes(uint64(result.Backups.TotalBytes)) //nolint:gosec // sizes are non-negative
	if !latest.IsZero() {
		result.Backups.LatestAge = humanize.Time(latest)
	}

	if rt.journal != nil {
		count, err := rt.journal.Count(cmd.Context())
		if err != nil {
			rt.entry.WithError(err).Warn("Failed to count journal entries")
		}
		result.Journal = journalSummary{Enabled: true, Path: rt.cfg.JournalPath, Entries: count}
	}

	return result, nil
}
