// Package env loads optional .env files into the process environment before
// configuration is resolved.
package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Prefix is the prefix of every environment variable the engine reads.
const Prefix = "SYNCGUARD"

// Files lists the .env files considered, highest precedence first.
//
//nolint:gochecknoglobals // fixed search order
var Files = []string{".env.syncguard", ".env"}

// LoadEnvFiles loads the optional .env files from the working directory.
// Variables already set in the environment are never overridden.
func LoadEnvFiles() ([]string, error) {
	return LoadEnvFilesFromDir(".")
}

// LoadEnvFilesFromDir loads the optional .env files from dir and returns the
// files that were applied. Missing files are skipped.
func LoadEnvFilesFromDir(dir string) ([]string, error) {
	loaded := make([]string, 0, len(Files))
	for _, name := range Files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		// godotenv.Load keeps existing values, so earlier files win over later ones
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// Key returns the prefixed environment variable name for suffix, e.g. Key("CONFIG")
// is SYNCGUARD_CONFIG.
func Key(suffix string) string {
	return Prefix + "_" + suffix
}
