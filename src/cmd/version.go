package cmd

import (
	"fmt"

	"github.com/smichaku/claude.vim/src/internal/tui"
	"github.com/spf13/cobra"
)

// Version can be set at build time using ldflags
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the claude-venv version",
	Long:  `Display the current version of claude-venv.`,
	Run: func(cmd *cobra.Command, args []string) {
		content := fmt.Sprintf("claude-venv %s", tui.RenderVersion(Version))
		fmt.Println(tui.RenderInfoBox(content))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
