package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-syncguard/internal/detect"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/profile"
)

// detectResult is the output of the detect command.
type detectResult struct {
	Success         bool                             `json:"success"`
	UnisonDirectory string                           `json:"unisonDirectory"`
	ProfileFilter   string                           `json:"profileFilter,omitempty"`
	Profiles        map[string]*detect.ProfileResult `json:"profiles"`
	Archives        *detect.ArchiveSetResult         `json:"archives"`
}

func createDetectCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [profile]",
		Short: "Detect corrupted profiles and archive files",
		Long: `Inspect every profile in the unison directory, or only the named one, and
every archive, fingerprint, lock, and temp file. With a profile name the archive
scan is limited to files associated with that profile.`,
		Example: `  # Scan everything
  go-syncguard detect

  # Scan one profile and its archives
  go-syncguard detect work`,
		Args: cobra.MaximumNArgs(1),
		RunE: withRuntime(flags, runDetect),
	}
}

func runDetect(cmd *cobra.Command, args []string, rt *runtime) error {
	filter := ""
	if len(args) == 1 {
		filter = args[0]
	}

	result, err := detectAll(rt, filter)
	if err != nil {
		return fail(cmd, err, false)
	}

	kind := appErrors.KindArchiveCorruption
	for _, p := range result.Profiles {
		if p.IsCorrupted {
			kind = appErrors.KindProfileCorruption
			break
		}
	}
	return emit(result, result.Success, kind, false)
}

// detectAll runs profile and archive detection over the unison directory.
func detectAll(rt *runtime, filter string) (*detectResult, error) {
	dir := rt.cfg.UnisonDir
	detector := rt.detector()

	names := []string{filter}
	if filter == "" {
		listed, err := profile.List(dir)
		if err != nil {
			return nil, appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "detect", dir, "", err)
		}
		names = listed
	} else if !profile.Exists(dir, filter) {
		return nil, appErrors.NewOperationError(appErrors.KindGenericConfigurationError, "detect", dir, filter,
			appErrors.ProfileNotFoundError(filter, dir))
	}

	result := &detectResult{
		Success:         true,
		UnisonDirectory: dir,
		ProfileFilter:   filter,
		Profiles:        make(map[string]*detect.ProfileResult, len(names)),
	}

	for _, name := range names {
		detected, err := detector.DetectProfile(profile.Path(dir, name))
		if err != nil {
			return nil, appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "detect", profile.Path(dir, name), name, err)
		}
		result.Profiles[name] = detected
		if detected.IsCorrupted {
			result.Success = false
		}
	}

	archives, err := detector.DetectArchiveSet(dir, filter)
	if err != nil {
		return nil, appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "detect", dir, filter, err)
	}
	result.Archives = archives
	if len(archives.Corrupted) > 0 {
		result.Success = false
	}

	return result, nil
}
