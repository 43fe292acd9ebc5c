package cli

import (
	"github.com/spf13/cobra"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/recovery"
)

// cleanupResult is the output of the cleanup command.
type cleanupResult struct {
	Success        bool   `json:"success"`
	ProfileFilter  string `json:"profileFilter,omitempty"`
	TotalArtifacts int    `json:"totalArtifacts"`
	Corrupted      int    `json:"corrupted"`
	*recovery.CleanupResult
}

func createCleanupCmd(flags *Flags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup [profile]",
		Short: "Back up and remove corrupted archive files",
		Long: `Detect corrupted archive, fingerprint, lock, and temp files and remove them.
Each file is backed up and the backup verified before it is removed. Unison
rebuilds its archives on the next run.`,
		Example: `  # Preview what would be removed
  go-syncguard cleanup --dry-run

  # Clean only archives associated with one profile
  go-syncguard cleanup work`,
		Args: cobra.MaximumNArgs(1),
		RunE: withRuntime(flags, func(cmd *cobra.Command, args []string, rt *runtime) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}

			detector := rt.detector()
			set, err := detector.DetectArchiveSet(rt.cfg.UnisonDir, filter)
			if err != nil {
				return fail(cmd, appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "cleanup", rt.cfg.UnisonDir, filter, err), dryRun)
			}

			cleaned := rt.engine(detector).CleanupArchives(cmd.Context(), set.Corrupted, dryRun)
			result := cleanupResult{
				Success:        cleaned.Success(),
				ProfileFilter:  filter,
				TotalArtifacts: set.TotalArtifacts,
				Corrupted:      len(set.Corrupted),
				CleanupResult:  cleaned,
			}
			return emit(result, result.Success, appErrors.KindArchiveCleanupFailed, dryRun)
		}),
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without changing anything")
	return cmd
}
