package cmd

import (
	"fmt"

	"github.com/smichaku/claude.vim/src/internal/config"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the interpreter path inside the virtual environment",
	Long: `Print the path where the virtual environment's Python interpreter lives,
without provisioning or probing anything. The path is printed even if the
environment has not been created yet.

Examples:
  claude-venv path`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.DefaultPaths().Interpreter())
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
