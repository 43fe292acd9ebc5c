package cli

import (
	"github.com/spf13/cobra"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/validation"
)

// validateResult is the output of the validate command.
type validateResult struct {
	Success bool `json:"success"`
	*validation.Report
}

func createValidateCmd(flags *Flags) *cobra.Command {
	var opts validation.Options

	cmd := &cobra.Command{
		Use:   "validate [profile]",
		Short: "Run the full integrity check",
		Long: `Check the unison directory, every profile, the archive files, the root paths
of each profile, and the required ignore patterns. With --auto-fix, failing
profiles are regenerated and corrupted archives removed once, followed by a
single re-validation.`,
		Example: `  # Validate everything
  go-syncguard validate

  # Repair and re-check
  go-syncguard validate --auto-fix

  # Show what auto-fix would do
  go-syncguard validate --auto-fix --dry-run`,
		Aliases: []string{"check"},
		Args:    cobra.MaximumNArgs(1),
		RunE: withRuntime(flags, func(cmd *cobra.Command, args []string, rt *runtime) error {
			if len(args) == 1 {
				opts.Profile = args[0]
			}

			report := rt.orchestrator().Validate(cmd.Context(), opts)
			result := validateResult{Success: report.Success(), Report: report}
			return emit(result, result.Success, guidanceKind(report), opts.DryRun)
		}),
	}

	cmd.Flags().BoolVar(&opts.AutoFix, "auto-fix", false, "Regenerate failing profiles and remove corrupted archives")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report fixes without applying them")
	return cmd
}

// guidanceKind picks the kind of the most urgent recommendation.
func guidanceKind(report *validation.Report) appErrors.Kind {
	final := report
	if report.AutoFixResult != nil && report.AutoFixResult.PostFixValidation != nil {
		final = report.AutoFixResult.PostFixValidation
	}
	if len(final.Recommendations) == 0 {
		return ""
	}
	return kindOfIssue(final.Recommendations[0].Category)
}
