package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/go-syncguard/internal/env"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/output"
)

// loggerContextKey is a type for context keys to avoid collisions
type loggerContextKey struct{}

// createSetupLogging resolves flags against SYNCGUARD_* variables and stores
// an isolated logger in the command context.
func createSetupLogging(flags *Flags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if err := resolveFlags(cmd, flags); err != nil {
			return err
		}

		logger := logrus.New()
		logger.SetOutput(output.Stderr())

		logConfig := &logging.LogConfig{
			ConfigFile: flags.ConfigFile,
			LogLevel:   flags.LogLevel,
			Verbose:    flags.Verbose,
			LogFormat:  flags.LogFormat,
		}
		if err := logging.ConfigureLogger(logger, logConfig); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(context.WithValue(ctx, loggerContextKey{}, logger))

		logger.WithFields(logrus.Fields{
			logging.StandardFields.Component: logging.ComponentNames.CLI,
			"command":                        cmd.Name(),
			"config":                         flags.ConfigFile,
			"log_level":                      flags.LogLevel,
		}).Debug("CLI initialized")

		return nil
	}
}

// resolveFlags applies flag > environment > default precedence.
func resolveFlags(cmd *cobra.Command, flags *Flags) error {
	v := viper.New()
	v.SetEnvPrefix(env.Prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	flags.ConfigFile = v.GetString("config")
	flags.UnisonDir = v.GetString("unison-dir")
	flags.LogLevel = v.GetString("log-level")
	flags.LogFormat = v.GetString("log-format")

	_, fromEnv := os.LookupEnv(env.Key("CONFIG"))
	flags.configExplicit = cmd.Flags().Changed("config") || fromEnv
	return nil
}

// loggerFrom returns the logger stored by createSetupLogging.
func loggerFrom(ctx context.Context) *logrus.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerContextKey{}).(*logrus.Logger); ok {
			return logger
		}
	}
	return logrus.StandardLogger()
}
