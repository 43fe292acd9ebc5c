// Package output provides colored output functions for the CLI.
//
// Stdout carries exactly one JSON document per command; human-readable
// messages (warnings, guidance blocks) go to stderr.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/mrz1836/go-syncguard/internal/jsonutil"
)

//nolint:gochecknoglobals // Output package requires package-level state for consistent formatting
var (
	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)

	// Output writers
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// Mutex for thread-safe output
	mu sync.Mutex
)

// Init initializes the output system. Colors are enabled only when stderr is
// a terminal and NO_COLOR is unset.
func Init() {
	color.NoColor = os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // fd fits in int
}

// SetStdout sets the standard output writer (useful for testing)
func SetStdout(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	stdout = w
}

// SetStderr sets the standard error writer (useful for testing)
func SetStderr(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	stderr = w
}

// Stdout returns the current stdout writer
func Stdout() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	return stdout
}

// Stderr returns the current stderr writer
func Stderr() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	return stderr
}

// JSON writes v to stdout as a single indented JSON document.
func JSON(v interface{}) error {
	mu.Lock()
	defer mu.Unlock()
	return jsonutil.EncodeIndented(stdout, v)
}

// JSONLine writes v to stdout as one compact JSON line, for streams of events.
func JSONLine(v interface{}) error {
	data, err := jsonutil.MarshalJSON(v)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

// Success prints a success message in green to stderr
func Success(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = successColor.Fprintln(stderr, msg)
}

// Successf prints a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Info prints an info message in cyan to stderr
func Info(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = infoColor.Fprintln(stderr, msg)
}

// Infof prints a formatted info message
func Infof(format string, args ...interface{}) {
	Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning message in yellow
func Warn(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = warnColor.Fprintln(stderr, msg)
}

// Warnf prints a formatted warning message
func Warnf(format string, args ...interface{}) {
	Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message in red
func Error(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = errorColor.Fprintln(stderr, msg)
}

// Errorf prints a formatted error message
func Errorf(format string, args ...interface{}) {
	Error(fmt.Sprintf(format, args...))
}

// Plain prints a message without color to stdout
func Plain(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintln(stdout, msg)
}
