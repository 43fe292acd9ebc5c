package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-syncguard/internal/preview"
)

// previewResult is the output of the preview command.
type previewResult struct {
	Success bool `json:"success"`
	*preview.Result
}

func createPreviewCmd(flags *Flags) *cobra.Command {
	var maxListed int

	cmd := &cobra.Command{
		Use:   "preview <profile>",
		Short: "List which source files a profile would sync or ignore",
		Long: `Walk the source root of a profile and classify every file against its ignore
patterns. The first matching pattern is reported for each ignored file. Nothing
is changed. Run detect first: results are only meaningful for a clean profile.`,
		Args: cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(cmd *cobra.Command, args []string, rt *runtime) error {
			result, err := preview.NewPreviewer(rt.cfg, preview.WithLogger(rt.entry), preview.WithMaxListed(maxListed)).
				Preview(cmd.Context(), args[0])
			if err != nil {
				return fail(cmd, err, true)
			}
			return emit(previewResult{Success: true, Result: result}, true, "", true)
		}),
	}

	cmd.Flags().IntVar(&maxListed, "max-listed", preview.DefaultMaxListed, "Maximum entries per file list (0 lists everything)")
	return cmd
}
