package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-syncguard/internal/output"
	"github.com/mrz1836/go-syncguard/internal/version"
)

func createVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printVersion(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information in JSON format")
	return cmd
}

// printVersion prints version information based on the format
func printVersion(jsonFormat bool) error {
	info := version.GetInfo()

	if jsonFormat {
		return output.JSON(info)
	}

	output.Plain(fmt.Sprintf("go-syncguard %s", info.Version))
	output.Plain(fmt.Sprintf("Commit:     %s", info.Commit))
	output.Plain(fmt.Sprintf("Build Date: %s", info.BuildDate))
	output.Plain(fmt.Sprintf("Go Version: %s", info.GoVersion))
	output.Plain(fmt.Sprintf("Platform:   %s/%s", info.OS, info.Arch))
	return nil
}
