package cli

import (
	"github.com/spf13/cobra"
)

func createBackupCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <profile>",
		Short: "Take a verified backup of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(flags, func(cmd *cobra.Command, args []string, rt *runtime) error {
			result := rt.engine(rt.detector()).BackupProfile(cmd.Context(), args[0])
			return emit(result, result.Success, result.ErrorKind, false)
		}),
	}
}
