package cli

import (
	"errors"

	"github.com/spf13/cobra"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/journal"
)

// ErrJournalDisabled is returned by history when no journal is available.
var ErrJournalDisabled = errors.New("journal is disabled")

// historyResult is the output of the history command.
type historyResult struct {
	Success bool            `json:"success"`
	Journal string          `json:"journal"`
	Count   int             `json:"count"`
	Entries []journal.Entry `json:"entries"`
}

func createHistoryCmd(flags *Flags) *cobra.Command {
	var filter journal.Filter

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded backups and recovery actions, newest first",
		Args:  cobra.NoArgs,
		RunE: withRuntime(flags, func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if rt.journal == nil {
				return fail(cmd, ErrJournalDisabled, false)
			}

			entries, err := rt.journal.List(cmd.Context(), filter)
			if err != nil {
				return fail(cmd, appErrors.NewOperationError(appErrors.KindGenericConfigurationError, "history", rt.cfg.JournalPath, filter.Profile, err), false)
			}
			if entries == nil {
				entries = []journal.Entry{}
			}

			return emit(historyResult{
				Success: true,
				Journal: rt.cfg.JournalPath,
				Count:   len(entries),
				Entries: entries,
			}, true, "", false)
		}),
	}

	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "Maximum number of entries (0 for all)")
	cmd.Flags().StringVar(&filter.Profile, "profile", "", "Only entries for this profile")
	cmd.Flags().StringVar(&filter.Kind, "kind", "", "Only entries of this kind (backup, recovery)")
	return cmd
}
