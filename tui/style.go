package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dirt/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Italic(true)

	styleNPC = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleBubble = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("252")).
			Padding(0, 1)

	styleBigMessage = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("228")).
			Padding(1, 2)

	styleBackdrop = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	styleSpeaker = lipgloss.NewStyle().
			Bold(true)

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleChoiceSelected = lipgloss.NewStyle().
				Foreground(lipgloss.Color("228")).
				Bold(true)

	styleHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindNPC
	kindPlayer
	kindSystem
)

// kindOf maps a log entry to the style of its line.
func kindOf(e types.LogEntry) lineKind {
	switch e.Kind {
	case types.PlayerMessage:
		return kindPlayer
	case types.NPCMessage:
		return kindNPC
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindPlayer:
		return stylePlayerInput.Render(line)
	case kindNPC:
		return styleNPC.Render(line)
	case kindSystem:
		return styledSystemMsg(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
