package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/falstudio/falkey/internal/output"
	"github.com/falstudio/falkey/internal/panel"
	"github.com/falstudio/falkey/internal/tui/manage"
)

// ManageCmd opens the interactive key management dialog.
type ManageCmd struct{}

// Run executes the manage command
func (cmd *ManageCmd) Run(p *panel.Panel, fp *FormatterProvider) error {
	program := tea.NewProgram(manage.New(p))
	if _, err := program.Run(); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Dialog failed: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}
	return nil
}
