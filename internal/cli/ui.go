package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/focuslock/internal/tui"
)

func addUI(topLevel *cobra.Command, rt *runtime) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "ui",
		Short: "Open the terminal UI (the default when no command is given).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(rt)
		},
	})
}

func runUI(rt *runtime) error {
	p := tea.NewProgram(tui.NewApp(rt.svc.tui()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
