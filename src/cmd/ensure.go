package cmd

import (
	"fmt"

	"github.com/smichaku/claude.vim/src/internal/config"
	"github.com/smichaku/claude.vim/src/internal/ui"
	"github.com/smichaku/claude.vim/src/internal/venv"
	"github.com/spf13/cobra"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create or repair the virtual environment (default command)",
	Long: `Make sure the virtual environment exists and has the required packages,
recreating it from scratch when it is missing or unusable.

Equivalent to running claude-venv with no arguments. The last line of output
is the interpreter path inside the environment, for callers to capture:

  let s:python = split(system('claude-venv'), "\n")[-1]`,
	Args: cobra.NoArgs,
	RunE: runEnsure,
}

func runEnsure(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	ui.Debug("Plugin directory: %s", paths.Plugin)
	ui.Debug("Environment directory: %s", paths.Venv)

	interpreter, err := venv.New(paths).EnsureReady()
	if err != nil {
		return err
	}

	// Final line of stdout is the resolved interpreter path
	fmt.Println(interpreter)
	return nil
}

func init() {
	rootCmd.AddCommand(ensureCmd)
}
