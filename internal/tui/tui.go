// Package tui is the interactive donation-intake terminal UI: a weight
// entry view with a donor combobox, a donor management view, and a
// donation log view.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pantry-cli/internal/store"
)

// Run starts the TUI over the store at dir with the already-loaded state.
func Run(dir string, db *store.DB) error {
	applyColorProfilePreference()
	m := newAppModel(dir, db)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
