package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/smichaku/claude.vim/src/internal/config"
	"github.com/smichaku/claude.vim/src/internal/constants"
	"github.com/smichaku/claude.vim/src/internal/ui"
	"github.com/smichaku/claude.vim/src/internal/venv"
	"github.com/spf13/cobra"
)

var cleanYesFlag bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the virtual environment",
	Long: `Delete the virtual environment directory. The next run of claude-venv
will rebuild it from scratch.

Examples:
  claude-venv clean
  claude-venv clean --yes    # Skip confirmation prompt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.DefaultPaths()

		if _, err := os.Stat(paths.Venv); os.IsNotExist(err) {
			ui.Info("No virtual environment at %s", paths.Venv)
			return nil
		}

		if !promptCleanConfirmation(paths.Venv) {
			ui.Info("Canceled")
			return nil
		}

		if err := venv.New(paths).Clean(); err != nil {
			return err
		}

		ui.Success("Removed %s", paths.Venv)
		return nil
	},
}

// promptCleanConfirmation prompts the user before deleting. Deletion is
// destructive, so the default answer is no.
func promptCleanConfirmation(dir string) bool {
	if cleanYesFlag {
		return true
	}

	ui.Info("Remove virtual environment at %s?", dir)
	ui.Info("Continue? [y/N]: ")

	var response string
	_, _ = fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))

	return response == constants.ResponseY || response == constants.ResponseYes
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanYesFlag, "yes", "y", false, "Skip confirmation prompt")
}
