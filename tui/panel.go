package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nathoo/dirt/engine"
	"github.com/nathoo/dirt/engine/director"
	"github.com/nathoo/dirt/types"
)

// renderPanel draws what sits above the log: the running dialogue, or the
// opponent and the battle menu. Dialogues give way to a conversation they
// opened.
func (m Model) renderPanel() string {
	g := m.game
	width := max(m.width, 20)

	if d := g.Director(); d.IsActive() && !g.InConversation() {
		return renderDirector(d, width)
	}
	if opp := g.Opponent(); opp != nil {
		var menu []string
		if g.Player().InMenu() {
			menu = g.BattleOptions()
		}
		return renderBattle(opp, menu, g.Selection(), width)
	}
	return ""
}

func renderDirector(d *director.Director, width int) string {
	var parts []string
	if bd := d.Backdrop(); bd != nil {
		parts = append(parts, styleBackdrop.Render("~ "+bd.Name+" ~"))
	}

	switch d.Mode() {
	case types.ModeSaying:
		parts = append(parts, renderBubble(d.Text(), width))
	case types.ModeChoosing:
		parts = append(parts, renderChoices(d.Choices(), d.Selection(), width))
	case types.ModeBigMessage:
		body := wordWrap(d.Text(), width-8) + "\n\n" + styleHint.Render("[Enter]")
		parts = append(parts, styleBigMessage.Render(body))
	}
	return strings.Join(parts, "\n")
}

func renderBattle(opp engine.Opponent, menu []string, selection, width int) string {
	parts := []string{styleSpeaker.Render(opp.Name())}
	if b := opp.Bubble(); b.Visible() {
		parts = append(parts, renderBubble(b.Text(), width))
	}
	if len(menu) > 0 {
		parts = append(parts, renderChoices(menu, selection, width))
	}
	return strings.Join(parts, "\n")
}

// renderBubble boxes short speech. Its line breaks are kept as written;
// lines too wide for the screen are cut.
func renderBubble(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = runewidth.Truncate(l, width-4, "…")
	}
	return styleBubble.Render(strings.Join(lines, "\n"))
}

// renderChoices lists entries with a cursor on the selection.
func renderChoices(entries []string, selection, width int) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		e = runewidth.Truncate(strings.ReplaceAll(e, "\n", " "), width-2, "…")
		if i == selection {
			lines[i] = styleChoiceSelected.Render("> " + e)
		} else {
			lines[i] = styleChoice.Render("  " + e)
		}
	}
	return strings.Join(lines, "\n")
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries and measuring display width. Existing newlines are kept.
func wordWrap(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width && !strings.Contains(text, "\n") {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	for i, para := range paragraphs {
		paragraphs[i] = wrapLine(para, width)
	}
	return strings.Join(paragraphs, "\n")
}

func wrapLine(text string, width int) string {
	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wLen := runewidth.StringWidth(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}
