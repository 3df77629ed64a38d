package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// player's health, money and the time of day, and who they are dealing with.
func (m Model) renderStatusBar() string {
	g := m.game
	p := g.Player()

	left := fmt.Sprintf(" HP %.1f/%.1f | $%d | %s", p.Health(), p.MaxHealth(), p.Money(), g.Clock())

	right := ""
	switch {
	case g.Over():
		right = "You have died. "
	case g.Opponent() != nil:
		right = fmt.Sprintf("Battle: %s ", g.Opponent().Name())
	case g.InConversation() && g.Conversation() != nil:
		right = fmt.Sprintf("Talking: %s ", g.Conversation().DefaultName)
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
