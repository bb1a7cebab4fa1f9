package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sovgrid/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if m, ok := final.(model); ok && m.st != nil {
		if c, ok := m.st.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}
