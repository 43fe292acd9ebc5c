// Command go-syncguard detects and repairs corrupted Unison profiles and
// archive files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mrz1836/go-syncguard/internal/cli"
	"github.com/mrz1836/go-syncguard/internal/env"
	"github.com/mrz1836/go-syncguard/internal/output"
)

// Process exit codes. Every failure, whether reported in a JSON result or not,
// exits with exitFailure.
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(newApp().run(context.Background()))
}

// Console receives messages that are not part of a command's JSON result.
type Console interface {
	Init()
	Error(msg string)
}

// stderrConsole writes through the output package.
type stderrConsole struct{}

func (stderrConsole) Init()            { output.Init() }
func (stderrConsole) Error(msg string) { output.Error(msg) }

// app binds the process to the command tree. Each dependency is a field so
// tests can replace it.
type app struct {
	console Console
	loadEnv func() ([]string, error)
	execute func(context.Context) error
}

func newApp() *app {
	return &app{
		console: stderrConsole{},
		loadEnv: env.LoadEnvFiles,
		execute: cli.ExecuteWithContext,
	}
}

// run executes the command line and returns the exit code. Panics become a
// fatal message with the stack and exitFailure.
func (a *app) run(ctx context.Context) (code int) {
	defer func() {
		if r := recover(); r != nil {
			a.console.Error(fmt.Sprintf("Fatal error: %v\n%s", r, debug.Stack()))
			code = exitFailure
		}
	}()

	a.console.Init()

	// a broken .env.syncguard or .env only warns; flags and the real
	// environment still apply
	if _, err := a.loadEnv(); err != nil {
		a.console.Error(fmt.Sprintf("Warning: ignoring environment files: %v", err))
	}

	return a.exitCode(a.execute(ctx))
}

// exitCode maps a command error to a process exit code. Failures the command
// already printed as JSON are not repeated.
func (a *app) exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, cli.ErrCommandFailed):
		return exitFailure
	default:
		a.console.Error(err.Error())
		return exitFailure
	}
}
