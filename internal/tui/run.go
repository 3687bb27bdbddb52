package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the roster editor and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
