// Package cmd implements the CLI commands for claude-venv
package cmd

import (
	"os"

	"github.com/smichaku/claude.vim/src/internal/ui"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "claude-venv",
	Short: "Python virtual environment provisioner for the claude.vim plugin",
	Long: `claude-venv guarantees the claude.vim plugin has a usable Python virtual
environment next to it, with the AWS SDK (boto3) installed.

Run with no arguments it checks the environment, rebuilds it from scratch if
it is missing or broken, installs the requirements manifest, and prints the
interpreter path as the final line of output.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
	},
	RunE:          runEnsure,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	// Check for --version flag before Cobra parses
	for _, arg := range os.Args[1:] {
		if arg == "--version" {
			versionCmd.Run(versionCmd, []string{})
			return
		}
	}

	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	// Hide the completion command until we implement it
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	// Add global verbose flag
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output for debugging")
}
