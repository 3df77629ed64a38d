// Package cli provides a line-oriented front end for the dirt engine,
// suitable for playing in a plain terminal and for script playback.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/dirt/engine"
	"github.com/nathoo/dirt/engine/convo"
	"github.com/nathoo/dirt/engine/save"
	"github.com/nathoo/dirt/types"
)

// maxSettleFrames bounds how long the CLI runs frames waiting for the
// screen to become quiet.
const maxSettleFrames = 10000

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *engine.Game
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool // echo each input line after the prompt (for script playback)

	seen     map[*convo.Conversation]int
	journal  int
	opponent engine.Opponent
	said     sayState
	choices  string
	menu     string
	over     bool
}

// sayState remembers the last director frame shown, so each said text is
// printed once.
type sayState struct {
	mode      types.Mode
	text      string
	remaining int
}

// New creates a CLI wired to the given game.
func New(g *engine.Game) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Game:    g,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".dirt", "saves"),
	}
}

// Run shows the intro and then loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	c.Game.Intro()
	c.render()
	c.settle()

	scanner := bufio.NewScanner(c.In)
	for !c.Game.Over() {
		c.print(c.prompt())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
		} else {
			c.handleLine(input)
		}
		c.render()
		c.settle()
	}
}

func (c *CLI) prompt() string {
	if c.Game.InConversation() {
		return "Talk> "
	}
	return "> "
}

// handleLine routes one line of play to whatever currently has the
// player's attention.
func (c *CLI) handleLine(input string) {
	g := c.Game
	d := g.Director()
	p := g.Player()

	switch {
	case g.InConversation():
		if input != "" {
			g.Step(engine.Text(input))
		}

	case d.Mode() == types.ModeChoosing:
		c.choose(input, d.Selection(), len(d.Choices()))

	case d.Mode() == types.ModeBigMessage:
		g.Step(engine.KeyPress(types.KeyConfirm))

	case d.IsActive():
		// Saying: settle runs the frames.

	case p.InMenu() && g.Opponent() != nil:
		c.choose(input, g.Selection(), len(g.BattleOptions()))

	case g.Opponent() != nil:
		g.Step(engine.KeyPress(types.KeyConfirm))

	case input == "wait" || input == "z":
		g.Wait()
		g.Step()

	case input == "":

	default:
		c.printSystem("Nobody is listening. Try /talk <npc>, /fight <npc>, wait, or /help.")
	}
}

// choose turns a line into menu keys: a number selects that entry, u and d
// move the cursor and an empty line confirms.
func (c *CLI) choose(input string, selection, count int) {
	var keys []engine.Input
	switch input {
	case "":
		keys = append(keys, engine.KeyPress(types.KeyConfirm))
	case "u":
		keys = append(keys, engine.KeyPress(types.KeyUp))
	case "d":
		keys = append(keys, engine.KeyPress(types.KeyDown))
	default:
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > count {
			c.printSystem(fmt.Sprintf("Choose 1-%d.", count))
			return
		}
		keys = moveKeys(selection, n-1)
		keys = append(keys, engine.KeyPress(types.KeyConfirm))
	}
	c.Game.Step(keys...)
}

// moveKeys returns the Up or Down presses that move a cursor from one
// entry to another.
func moveKeys(from, to int) []engine.Input {
	k := types.KeyDown
	if to < from {
		k = types.KeyUp
		from, to = to, from
	}
	keys := make([]engine.Input, 0, to-from)
	for i := 0; i < to-from; i++ {
		keys = append(keys, engine.KeyPress(k))
	}
	return keys
}

// busy reports whether something on screen is still counting down.
func (c *CLI) busy() bool {
	g := c.Game
	if g.Over() {
		return false
	}
	if g.Director().Mode() == types.ModeSaying {
		return true
	}
	opp := g.Opponent()
	return opp != nil && (opp.Bubble().Visible() || opp.IsDead())
}

// settle runs frames until the screen is quiet, printing as it goes.
func (c *CLI) settle() {
	for i := 0; i < maxSettleFrames && c.busy(); i++ {
		c.Game.Step()
		c.render()
	}
}

// render prints whatever changed since the last call.
func (c *CLI) render() {
	g := c.Game

	if conv := g.Conversation(); conv != nil {
		if c.seen == nil {
			c.seen = map[*convo.Conversation]int{}
		}
		c.printEntries(conv.Log(), conv.LogTotal()-c.seen[conv])
		c.seen[conv] = conv.LogTotal()
	}
	c.printEntries(g.Journal(), g.JournalTotal()-c.journal)
	c.journal = g.JournalTotal()

	c.renderDirector()
	c.renderBattle()

	if g.Over() && !c.over {
		c.over = true
		c.printLine("You have died.")
	}
}

func (c *CLI) printEntries(entries []types.LogEntry, fresh int) {
	fresh = min(fresh, len(entries))
	for _, e := range entries[len(entries)-fresh:] {
		if e.Kind != types.PlayerMessage {
			c.printLine(e.String())
		}
	}
}

func (c *CLI) renderDirector() {
	g := c.Game
	d := g.Director()
	if g.InConversation() {
		// Choices come back into view when the conversation ends.
		c.choices = ""
		return
	}

	now := sayState{mode: d.Mode(), text: d.Text(), remaining: d.Remaining()}
	switch now.mode {
	case types.ModeSaying:
		if c.said.mode != types.ModeSaying || c.said.text != now.text || now.remaining > c.said.remaining {
			c.printLine(flatten(now.text))
		}
	case types.ModeBigMessage:
		if c.said.mode != types.ModeBigMessage || c.said.text != now.text {
			c.printBox(now.text)
		}
	case types.ModeChoosing:
		menu := formatMenu(d.Choices(), d.Selection())
		if menu != c.choices {
			c.print(menu)
		}
		c.choices = menu
	}
	if now.mode != types.ModeChoosing {
		c.choices = ""
	}
	c.said = now
}

func (c *CLI) renderBattle() {
	g := c.Game
	opp := g.Opponent()
	if opp != c.opponent {
		c.opponent = opp
		c.menu = ""
		if opp != nil {
			c.printSystem(fmt.Sprintf("%s appears!", opp.Name()))
			if opp.Bubble().Visible() {
				c.printLine(opp.Name() + ": " + flatten(opp.Bubble().Text()))
			}
			name, bubble := opp.Name(), opp.Bubble()
			bubble.OnStart(func() {
				c.printLine(name + ": " + flatten(bubble.Text()))
			})
		}
	}
	if opp == nil {
		return
	}

	menu := ""
	if g.Player().InMenu() {
		menu = formatMenu(g.BattleOptions(), g.Selection())
	}
	if menu != c.menu && menu != "" {
		c.print(menu)
	}
	c.menu = menu
}

// formatMenu lists entries numbered from 1 with a cursor on the selection.
func formatMenu(entries []string, selection int) string {
	var b strings.Builder
	for i, e := range entries {
		cursor := " "
		if i == selection {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %d. %s\n", cursor, i+1, flatten(e))
	}
	return b.String()
}

// flatten joins the lines of a bubble or say text into one.
func flatten(text string) string {
	text = strings.ReplaceAll(text, "-\n", "")
	return strings.Join(strings.Fields(text), " ")
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg, arg2 string
	if len(parts) > 1 {
		arg = parts[1]
	}
	if len(parts) > 2 {
		arg2 = parts[2]
	}

	g := c.Game
	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/talk":
		if arg == "" {
			c.printSystem("Usage: /talk <npc> [circumstance]")
			break
		}
		if err := g.Talk(arg, arg2); err != nil {
			c.printSystem(err.Error())
		}

	case "/leave":
		g.LeaveConversation()

	case "/dialogue":
		if arg == "" {
			c.printSystem("Usage: /dialogue <id>")
			break
		}
		if err := g.StartDialogue(arg); err != nil {
			c.printSystem(err.Error())
		}

	case "/fight":
		if arg == "" {
			c.printSystem("Usage: /fight <npc>")
			break
		}
		if err := g.Encounter(arg); err != nil {
			c.printSystem(err.Error())
		}

	case "/wait":
		if !g.Wait() {
			c.printSystem("You are busy.")
			break
		}
		g.Step()

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := c.Game.Save()
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Game.RestoreSave(sd)
	c.printSystem(fmt.Sprintf("Game loaded from %s (frame %d).", name, sd.Player.Frame))
	c.cmdState()
}

func (c *CLI) cmdHelp() {
	help := []string{
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
		"In a conversation, type to talk.",
		"At a choice, type its number, u or d to move, or Enter to confirm.",
		"At a message, press Enter to continue.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	g := c.Game
	p := g.Player()
	c.printSystem(fmt.Sprintf("Health: %.1f/%.1f", p.Health(), p.MaxHealth()))
	c.printSystem(fmt.Sprintf("Money: %d", p.Money()))
	c.printSystem(fmt.Sprintf("Time: %s", g.Clock()))
	c.printSystem(fmt.Sprintf("Frame: %d", g.Frame()))
	if opp := g.Opponent(); opp != nil {
		c.printSystem(fmt.Sprintf("Fighting: %s", opp.Name()))
	}
}

func (c *CLI) printBox(text string) {
	lines := strings.Split(text, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	border := "+" + strings.Repeat("-", width+2) + "+"
	c.printLine(border)
	for _, l := range lines {
		c.printLine("| " + l + strings.Repeat(" ", width-len(l)) + " |")
	}
	c.printLine(border)
	c.printLine("[Enter]")
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
