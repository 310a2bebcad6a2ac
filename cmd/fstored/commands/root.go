// Package commands implements the fstored CLI commands.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "fstored",
	Short: "fstore - content-addressed object store",
	Long: `fstore pairs a relational metadata catalog with a content-addressed
blob filesystem.

Use "fstored [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultConfig := os.Getenv("FSTORED_CONFIG")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfig,
		"config file (default: $XDG_CONFIG_HOME/fstore/fstore.yml, overridden by $FSTORED_CONFIG)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(restoreCmd)
}

// GetConfigFile returns the config file path from the global flag (or its
// $FSTORED_CONFIG default).
func GetConfigFile() string {
	return cfgFile
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
