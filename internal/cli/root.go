package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "archpkg",
		Short: "Look up Arch Linux packages in the official repositories and the AUR",
		Long: `Archpkg resolves a package name to a single package record.

The official repositories are searched first. When nothing matches, the AUR
is queried: its suggestions are resolved concurrently and the candidate with
the most votes is shown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a config file (yaml, toml or json)")

	// Add subcommands
	rootCmd.AddCommand(NewPkgCmd())

	return rootCmd
}
