package cli

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-syncguard/internal/backup"
	"github.com/mrz1836/go-syncguard/internal/config"
	"github.com/mrz1836/go-syncguard/internal/detect"
	"github.com/mrz1836/go-syncguard/internal/journal"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/metrics"
	"github.com/mrz1836/go-syncguard/internal/recovery"
	"github.com/mrz1836/go-syncguard/internal/safety"
	"github.com/mrz1836/go-syncguard/internal/template"
	"github.com/mrz1836/go-syncguard/internal/validation"
)

// runtime holds what one command invocation needs. Components are built on
// demand and nothing survives the invocation.
type runtime struct {
	cfg     *config.Config
	logger  *logrus.Logger
	entry   *logrus.Entry
	journal *journal.Journal
	closers []io.Closer
}

// newRuntime loads configuration, attaches the log file, and opens the
// journal. A journal that cannot be opened is logged and skipped.
func newRuntime(ctx context.Context, flags *Flags, dryRun bool) (*runtime, error) {
	logger := loggerFrom(ctx)
	logConfig := (&logging.LogConfig{ConfigFile: flags.ConfigFile, DryRun: dryRun}).WithCorrelationID(logging.GenerateCorrelationID())

	cfg, err := config.LoadOrDefault(flags.ConfigFile, flags.configExplicit)
	if err != nil {
		return nil, err
	}
	if flags.UnisonDir != "" {
		cfg.OverrideUnisonDir(flags.UnisonDir)
		// backup_dir may have moved with it
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		entry:  logging.WithStandardFields(logger, logConfig, logging.ComponentNames.CLI),
	}

	if cfg.LogFileEnabled() {
		rt.closers = append(rt.closers, logging.AttachLogFile(logger, cfg.LogFile))
	}

	if cfg.JournalEnabled() {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			rt.entry.WithError(err).Warn("Journal unavailable, continuing without it")
		} else {
			rt.journal = j
			rt.closers = append(rt.closers, j)
		}
	}

	rt.entry.WithFields(logrus.Fields{
		"unison_dir": cfg.UnisonDir,
		"profiles":   len(cfg.Profiles),
		"journal":    rt.journal != nil,
	}).Debug("Configuration loaded")

	return rt, nil
}

// Close releases the journal and the log file.
func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			r.entry.WithError(err).Debug("Failed to close resource")
		}
	}
}

func (r *runtime) recorder() journal.Recorder {
	if r.journal == nil {
		return journal.Nop{}
	}
	return r.journal
}

func (r *runtime) detector() *detect.Detector {
	return detect.NewDetector(r.cfg.Thresholds, detect.WithLogger(r.entry))
}

func (r *runtime) backups() *backup.Manager {
	return backup.NewManager(r.cfg.BackupDir, backup.WithRecorder(r.recorder()), backup.WithLogger(r.entry))
}

func (r *runtime) safety() *safety.Validator {
	return safety.NewValidator(r.cfg.SyncHubs, safety.WithLogger(r.entry))
}

func (r *runtime) engine(detector *detect.Detector) *recovery.Engine {
	return recovery.NewEngine(r.cfg, detector, r.backups(),
		template.NewGenerator(r.cfg.RequiredIgnores, template.WithLogger(r.entry)),
		recovery.WithRecorder(r.recorder()),
		recovery.WithLogger(r.entry),
	)
}

func (r *runtime) orchestrator() *validation.Orchestrator {
	detector := r.detector()
	return validation.NewOrchestrator(r.cfg, detector, r.safety(), r.engine(detector), validation.WithLogger(r.entry))
}

// runFunc is a command body with a loaded runtime.
type runFunc func(cmd *cobra.Command, args []string, rt *runtime) error

// withRuntime loads the runtime for a command. Failures to load are reported
// as a JSON failure result like any other.
func withRuntime(flags *Flags, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		rt, err := newRuntime(cmd.Context(), flags, dryRun)
		if err != nil {
			return fail(cmd, err, false)
		}
		defer rt.Close()

		timer := metrics.StartTimer(cmd.Context(), rt.entry, cmd.Name())
		err = fn(cmd, args, rt)
		if errors.Is(err, ErrCommandFailed) {
			// the failure is already in the result
			timer.AddField("success", false).Stop()
			return err
		}
		timer.StopWithError(err)
		return err
	}
}
