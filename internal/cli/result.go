package cli

import (
	"errors"
	"slices"

	"github.com/spf13/cobra"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/output"
)

// ErrCommandFailed is returned after a failure result has been printed. The
// caller only needs to set the exit code.
var ErrCommandFailed = errors.New("command reported failure")

// failureResult is printed when a command cannot produce its own result.
type failureResult struct {
	Success   bool           `json:"success"`
	Command   string         `json:"command"`
	Error     string         `json:"error"`
	ErrorKind appErrors.Kind `json:"errorKind"`
	Severity  string         `json:"severity"`
}

// emit prints result and, when it is not a success, the guidance for kind.
func emit(result any, success bool, kind appErrors.Kind, dryRun bool) error {
	if err := output.JSON(result); err != nil {
		return err
	}
	if success {
		return nil
	}
	if kind != "" {
		output.Warn(appErrors.RenderGuidance(kind, dryRun))
	}
	return ErrCommandFailed
}

// fail prints err as a failure result.
func fail(cmd *cobra.Command, err error, dryRun bool) error {
	kind := appErrors.KindOf(err)
	loggerFrom(cmd.Context()).WithError(err).WithField("command", cmd.Name()).Error("Command failed")

	return emit(failureResult{
		Command:   cmd.Name(),
		Error:     err.Error(),
		ErrorKind: kind,
		Severity:  string(kind.Severity()),
	}, false, kind, dryRun)
}

// kindOfIssue maps a check issue code to an error kind for guidance.
func kindOfIssue(issue string) appErrors.Kind {
	kind := appErrors.Kind(issue)
	if slices.Contains(appErrors.Kinds(), kind) {
		return kind
	}
	return appErrors.KindGenericConfigurationError
}
