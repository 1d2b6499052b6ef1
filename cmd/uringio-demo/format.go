package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// styles holds the lipgloss styles the demo uses for its two scenarios.
type styles struct {
	Label lipgloss.Style
	OK    lipgloss.Style
	Fail  lipgloss.Style
	Value lipgloss.Style
}

// newStyles returns colorized styles when stdout is a terminal and plain
// ones otherwise.
func newStyles() styles {
	if !stdoutIsTerminal() {
		return styles{}
	}
	return styles{
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),            // cyan
		OK:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true), // green
		Fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true), // red
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),            // magenta
	}
}

func stdoutIsTerminal() bool {
	_, err := unix.IoctlGetTermios(int(os.Stdout.Fd()), unix.TCGETS)
	return err == nil
}
