package cli

import "github.com/mrz1836/go-syncguard/internal/config"

// Flags contains the persistent flags shared by every command
type Flags struct {
	ConfigFile string
	UnisonDir  string
	LogLevel   string
	LogFormat  string
	Verbose    int

	// configExplicit is set when the config path came from a flag or the
	// environment; a missing explicit file is an error.
	configExplicit bool
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile: config.DefaultFileName,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}
