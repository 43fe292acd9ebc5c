package cli

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-syncguard/internal/detect"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/output"
	"github.com/mrz1836/go-syncguard/internal/profile"
)

// watchEvent is one line of watch output.
type watchEvent struct {
	Time    time.Time             `json:"time"`
	Profile string                `json:"profile"`
	Path    string                `json:"path"`
	Op      string                `json:"op"`
	Removed bool                  `json:"removed,omitempty"`
	Result  *detect.ProfileResult `json:"result,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func createWatchCmd(flags *Flags) *cobra.Command {
	var maxEvents int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run profile detection whenever a profile changes",
		Long: `Watch the unison directory and print one JSON line per profile change with
the detection result for that profile. Runs until interrupted or until
--max-events lines have been printed.`,
		Args: cobra.NoArgs,
		RunE: withRuntime(flags, func(cmd *cobra.Command, _ []string, rt *runtime) error {
			emitted := 0
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			err := watchProfiles(ctx, rt.cfg.UnisonDir, rt.detector(), rt.entry, func(ev watchEvent) error {
				if err := output.JSONLine(ev); err != nil {
					return err
				}
				emitted++
				if maxEvents > 0 && emitted >= maxEvents {
					cancel()
				}
				return nil
			})
			if err != nil {
				return fail(cmd, err, false)
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "Stop after this many events (0 for no limit)")
	return cmd
}

// watchProfiles blocks until ctx is done, calling emit for every profile
// write, create, rename, or removal in dir.
func watchProfiles(ctx context.Context, dir string, detector *detect.Detector, logger *logrus.Entry, emit func(watchEvent) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "watch", dir, "", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return appErrors.NewOperationError(appErrors.KindDirectoryAccessError, "watch", dir, "", err)
	}
	logger.WithField("dir", dir).Info("Watching profiles")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("Watcher error")
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != profile.Extension {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if err := emit(inspect(detector, ev)); err != nil {
				return err
			}
		}
	}
}

func inspect(detector *detect.Detector, ev fsnotify.Event) watchEvent {
	out := watchEvent{
		Time:    time.Now().UTC(),
		Profile: profile.NameFromPath(ev.Name),
		Path:    ev.Name,
		Op:      ev.Op.String(),
	}
	result, err := detector.DetectProfile(ev.Name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		out.Removed = true
		return out
	case err != nil:
		out.Error = err.Error()
		return out
	}
	out.Result = result
	return out
}
