package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/fiducials/version"
	"github.com/spf13/cobra"
)

var (
	scenePath  string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "fiducials",
	Short: "Edit fiducial point-sets in a scene file",
	Long: `fiducials places, moves, orients and removes fiducial points stored in a
YAML scene file. Every edit goes through the same handle synchronization the
interactive viewers use, so the scene ends up exactly as a drag would leave it.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scenePath, "scene", "s", "scene.yaml", "scene file")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default: fiducials.yaml in the current or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
