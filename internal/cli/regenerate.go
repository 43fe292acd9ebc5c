package cli

import (
	"github.com/spf13/cobra"
)

func createRegenerateCmd(flags *Flags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "regenerate <profile>",
		Short: "Back up and rewrite a profile from its definition",
		Long: `Render the named profile from its definition in the configuration file, back
up the existing file, write the new one, and check it. With --dry-run the
result carries a unified diff of the current body against the new one.`,
		Example: `  go-syncguard regenerate work --dry-run
  go-syncguard regenerate work`,
		Args: cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(cmd *cobra.Command, args []string, rt *runtime) error {
			result := rt.engine(rt.detector()).RegenerateProfile(cmd.Context(), args[0], dryRun)
			return emit(result, result.Success, result.ErrorKind, dryRun)
		}),
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the diff without writing anything")
	return cmd
}
