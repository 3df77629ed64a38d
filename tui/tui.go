package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dirt/engine"
	"github.com/nathoo/dirt/engine/convo"
	"github.com/nathoo/dirt/engine/save"
	"github.com/nathoo/dirt/types"
)

// DefaultFrameRate is the number of game frames stepped per second.
const DefaultFrameRate = 40

// rawLine stores an unstyled log line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for the dirt TUI.
type Model struct {
	game *engine.Game

	viewport viewport.Model
	input    textinput.Model
	history  *History
	keys     keyMap

	rawLines []rawLine      // accumulated log lines (unstyled, for re-wrapping)
	pending  []engine.Input // inputs waiting for the next frame
	seen     map[*convo.Conversation]int
	journal  int

	frameRate int
	width     int
	height    int
	ready     bool
	quitting  bool
	saveDir   string
}

// frameMsg asks the model to step one game frame.
type frameMsg time.Time

// startMsg starts the game once the program is running.
type startMsg struct{}

// New creates a TUI model wired to the given game. Non-positive frame rates
// use DefaultFrameRate.
func New(g *engine.Game, frameRate int, saveDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	if saveDir == "" {
		home, _ := os.UserHomeDir()
		saveDir = filepath.Join(home, ".dirt", "saves")
	}
	return Model{
		game:      g,
		input:     ti,
		history:   NewHistory(100),
		keys:      defaultKeyMap(),
		seen:      map[*convo.Conversation]int{},
		frameRate: frameRate,
		saveDir:   saveDir,
	}
}

// Run starts the Bubble Tea program.
func Run(g *engine.Game, frameRate int, saveDir string) error {
	m := New(g, frameRate, saveDir)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the frame clock and the game.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick(), func() tea.Msg { return startMsg{} })
}

// tick schedules the next frame.
func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages (frames, key presses, window resize).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.viewport.Width = m.width
		m.refreshViewport()
		return m, nil

	case startMsg:
		defs := m.game.Defs()
		title := defs.Game.Title
		if defs.Game.Version != "" {
			title += " v" + defs.Game.Version
		}
		if defs.Game.Author != "" {
			title += " by " + defs.Game.Author
		}
		m.rawLines = append(m.rawLines, rawLine{text: title, kind: kindSystem}, rawLine{})
		m.game.Intro()
		m.refreshViewport()
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m = m.step()
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			return m.handleEnter()

		case key.Matches(msg, m.keys.Up):
			m = m.handleArrow(types.KeyUp)
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m = m.handleArrow(types.KeyDown)
			return m, nil

		case key.Matches(msg, m.keys.Scroll):
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// step runs one game frame with the inputs gathered since the last one.
func (m Model) step() Model {
	m.game.Step(m.pending...)
	m.pending = nil
	m.collect()

	if m.game.InConversation() {
		m.input.Prompt = "Talk> "
	} else {
		m.input.Prompt = "> "
	}
	m.refreshViewport()
	return m
}

// handleArrow walks the input history while typing to an NPC, and moves
// the menu cursor otherwise.
func (m Model) handleArrow(k types.Key) Model {
	if !m.game.InConversation() {
		m.pending = append(m.pending, engine.KeyPress(k))
		return m
	}

	if k == types.KeyUp {
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m
	}
	if next, ok := m.history.Next(); ok {
		m.input.SetValue(next)
		m.input.CursorEnd()
	} else {
		m.input.SetValue("")
		m.history.ResetCursor()
	}
	return m
}

// handleEnter processes the submitted input line. An empty line confirms
// the current choice or message.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		m.pending = append(m.pending, engine.KeyPress(types.KeyConfirm))
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendSystem(output...)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case m.game.InConversation():
		m.pending = append(m.pending, engine.Text(input))
	case input == "wait" || input == "z":
		if !m.game.Wait() {
			m = m.appendSystem("You are busy.")
		}
	default:
		m = m.appendSystem("Nobody is listening. Try /talk <npc>, /fight <npc>, wait, or /help.")
	}
	return m, nil
}

// collect moves new conversation and journal entries into the log.
func (m *Model) collect() {
	if conv := m.game.Conversation(); conv != nil {
		m.appendEntries(conv.Log(), conv.LogTotal()-m.seen[conv])
		m.seen[conv] = conv.LogTotal()
	}
	m.appendEntries(m.game.Journal(), m.game.JournalTotal()-m.journal)
	m.journal = m.game.JournalTotal()
}

func (m *Model) appendEntries(entries []types.LogEntry, fresh int) {
	fresh = min(fresh, len(entries))
	for _, e := range entries[len(entries)-fresh:] {
		text := e.String()
		if e.Kind == types.PlayerMessage {
			text = "> " + text
		}
		m.rawLines = append(m.rawLines, rawLine{text: text, kind: kindOf(e)})
	}
}

// appendSystem adds system messages to the log and refreshes the viewport.
func (m Model) appendSystem(lines ...string) Model {
	for _, line := range lines {
		m.rawLines = append(m.rawLines, rawLine{text: line, kind: kindSystem})
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width,
// sizes the viewport to the space the panel leaves, and scrolls to the end.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		styled = append(styled, renderLineKind(wordWrap(rl.text, width), rl.kind))
	}

	used := 2 // 1 status bar + 1 input line
	if panel := m.renderPanel(); panel != "" {
		used += lipgloss.Height(panel)
	}
	m.viewport.Height = max(m.height-used, 1)
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: panel + log + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var parts []string
	if panel := m.renderPanel(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, m.viewport.View(), m.renderStatusBar(), m.input.View())
	return strings.Join(parts, "\n")
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg, arg2 string
	if len(parts) > 1 {
		arg = parts[1]
	}
	if len(parts) > 2 {
		arg2 = parts[2]
	}

	g := m.game
	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/talk":
		if arg == "" {
			return []string{"Usage: /talk <npc> [circumstance]"}, false
		}
		if err := g.Talk(arg, arg2); err != nil {
			return []string{err.Error()}, false
		}
		return nil, false

	case "/leave":
		g.LeaveConversation()
		return nil, false

	case "/dialogue":
		if arg == "" {
			return []string{"Usage: /dialogue <id>"}, false
		}
		if err := g.StartDialogue(arg); err != nil {
			return []string{err.Error()}, false
		}
		return nil, false

	case "/fight":
		if arg == "" {
			return []string{"Usage: /fight <npc>"}, false
		}
		if err := g.Encounter(arg); err != nil {
			return []string{err.Error()}, false
		}
		return nil, false

	case "/wait":
		if !g.Wait() {
			return []string{"You are busy."}, false
		}
		return nil, false

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := m.game.Save()
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.game.RestoreSave(sd)
	output := []string{fmt.Sprintf("Game loaded from %s (frame %d).", name, sd.Player.Frame)}
	return append(output, m.cmdState()...)
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /talk <npc> [circumstance]  Start a conversation",
		"  /leave                      Leave the conversation",
		"  /dialogue <id>              Start a dialogue",
		"  /fight <npc>                Start a battle",
		"  /wait                       Let a minute pass (also: wait, z)",
		"  /save [name]                Save game (default: quicksave)",
		"  /load [name]                Load game (default: quicksave)",
		"  /state                      Show health, money and time",
		"  /help                       Show this help",
		"  /quit                       Exit game",
		"",
		"In a conversation, type to talk. Up/Down recall what you said.",
		"At a choice or in battle, Up/Down move and Enter confirms.",
		"Navigation: PgUp/PgDn to scroll the log",
	}
}

func (m *Model) cmdState() []string {
	g := m.game
	p := g.Player()
	output := []string{
		fmt.Sprintf("Health: %.1f/%.1f", p.Health(), p.MaxHealth()),
		fmt.Sprintf("Money: %d", p.Money()),
		fmt.Sprintf("Time: %s", g.Clock()),
		fmt.Sprintf("Frame: %d", g.Frame()),
	}
	if opp := g.Opponent(); opp != nil {
		output = append(output, fmt.Sprintf("Fighting: %s", opp.Name()))
	}
	return output
}
