package cmd

import (
	"fmt"

	"github.com/smichaku/claude.vim/src/internal/config"
	"github.com/smichaku/claude.vim/src/internal/manifest"
	"github.com/smichaku/claude.vim/src/internal/tui"
	"github.com/smichaku/claude.vim/src/internal/ui"
	"github.com/smichaku/claude.vim/src/internal/venv"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the virtual environment",
	Long: `Inspect the virtual environment without modifying it: where it lives,
whether it is usable, and what the requirements manifest asks for.

Examples:
  claude-venv status
  claude-venv status --verbose`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		paths := config.DefaultPaths()
		p := venv.New(paths)
		status := p.Check()

		table := tui.NewTable("", "")
		table.SetTitle("Virtual Environment")
		table.HideHeader()
		table.AddRow("Plugin directory", paths.Plugin)
		table.AddRow("Environment", paths.Venv)
		table.AddRow("Interpreter", paths.Interpreter())
		if status.Ready {
			table.AddRow("Status", tui.GetCheckMark()+" ready")
			table.AddRow(p.Package(), status.PackageVersion)
		} else {
			table.AddRow("Status", tui.GetCrossMark()+" "+status.Reason)
		}

		fmt.Println(table.Render())
		showRequirements(paths)

		if !status.Ready {
			ui.Info("Run %s to rebuild the environment", ui.Highlight("claude-venv"))
		}
	},
}

// showRequirements renders the manifest contents, if the manifest exists
func showRequirements(paths *config.Paths) {
	reqs, err := manifest.ParseFile(paths.Requirements)
	if err != nil {
		ui.Warning("No requirements manifest at %s", paths.Requirements)
		return
	}
	if len(reqs) == 0 {
		ui.Info("Requirements manifest is empty: %s", paths.Requirements)
		return
	}

	table := tui.NewTable("Package", "Version")
	table.SetTitle("Requirements")
	for _, req := range reqs {
		version := req.Constraint + req.Version
		if version == "" {
			version = tui.RenderMuted("(unpinned)")
		}
		table.AddRow(req.Name, version)
	}

	fmt.Println(table.Render())
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
