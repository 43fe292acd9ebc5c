// Package cli implements the go-syncguard command line.
//
// Every command prints exactly one JSON object to stdout (watch prints one
// per event) and fails with ErrCommandFailed when the result is not a success.
// Logs and operator guidance go to stderr.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-syncguard/internal/config"
)

const rootLong = `go-syncguard detects and repairs corruption in Unison profiles and archive
files before a sync runs.

Profiles are backed up before they are regenerated, corrupted archives are
backed up before they are removed, and every action can be previewed with
--dry-run. Results are printed as JSON on stdout.`

// NewRootCmd creates an isolated root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	flags := defaultFlags()

	cmd := &cobra.Command{
		Use:               "go-syncguard",
		Short:             "Keep Unison profiles and archives healthy",
		Long:              rootLong,
		PersistentPreRunE: createSetupLogging(flags),
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", config.DefaultFileName, "Path to configuration file")
	pf.StringVar(&flags.UnisonDir, "unison-dir", "", "Unison directory (overrides the configuration)")
	pf.StringVar(&flags.LogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.LogFormat, "log-format", "text", "Log format on stderr (text, json)")
	pf.CountVarP(&flags.Verbose, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	cmd.AddCommand(
		createDetectCmd(flags),
		createCleanupCmd(flags),
		createValidateCmd(flags),
		createRegenerateCmd(flags),
		createBackupCmd(flags),
		createSummaryCmd(flags),
		createPreviewCmd(flags),
		createHistoryCmd(flags),
		createWatchCmd(flags),
		createVersionCmd(),
	)

	return cmd
}

// ExecuteWithContext runs the CLI with os.Args, canceling ctx on SIGINT or SIGTERM.
func ExecuteWithContext(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}
