// Package engine provides the Game frame loop that wires together the
// dialogue director, conversations, battles and the day clock.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dirt/engine/assets"
	"github.com/nathoo/dirt/engine/convo"
	"github.com/nathoo/dirt/engine/director"
	"github.com/nathoo/dirt/engine/effects"
	"github.com/nathoo/dirt/engine/hooks"
	"github.com/nathoo/dirt/engine/save"
	"github.com/nathoo/dirt/engine/state"
	"github.com/nathoo/dirt/engine/timer"
	"github.com/nathoo/dirt/types"
)

// ErrUnknownOpponent is returned when a battle names no known opponent.
var ErrUnknownOpponent = errors.New("unknown opponent")

// DefaultEncounterOdds is the 1-in-N chance of a random encounter each time
// game time passes.
const DefaultEncounterOdds = 31

// Options configures a Game.
type Options struct {
	SayTicks      int   // frames a dialogue say stays up
	BubbleTicks   int   // frames an opponent's speech bubble stays up
	EncounterOdds int   // 1-in-N encounter chance; 0 disables encounters
	Seed          int64 // RNG seed

	// Assets resolves backdrops and sounds. Without it, handles carry only
	// the asset name.
	Assets *assets.Cache
	Logger logrus.FieldLogger
}

// DefaultOptions returns the options of a standard game.
func DefaultOptions() Options {
	return Options{
		SayTicks:      director.DefaultSayTicks,
		BubbleTicks:   director.DefaultSayTicks,
		EncounterOdds: DefaultEncounterOdds,
	}
}

// Input is one player input delivered to a frame: either a line of typed
// text or a classified key press.
type Input struct {
	Text   string
	IsText bool
	Key    types.Key
}

// Text returns a typed-text input.
func Text(s string) Input { return Input{Text: s, IsText: true} }

// KeyPress returns a key input.
func KeyPress(k types.Key) Input { return Input{Key: k} }

// Game holds the game definitions and mutable state.
type Game struct {
	defs *state.Defs
	opts Options
	log  logrus.FieldLogger

	rng      *RNG
	clock    *Clock
	player   *Player
	director *director.Director
	timers   timer.Queue

	conversations map[string]*convo.Conversation
	conversation  *convo.Conversation
	journal       *convo.Conversation
	scripts       map[string]director.Factory

	opponent  Opponent
	selection int

	frame  int
	sounds hooks.List[func(types.Sound)]
}

// New creates a game from definitions. Every conversation is built up
// front so content errors surface before play starts.
func New(defs *state.Defs, opts Options) (*Game, error) {
	if opts.SayTicks <= 0 {
		opts.SayTicks = director.DefaultSayTicks
	}
	if opts.BubbleTicks <= 0 {
		opts.BubbleTicks = director.DefaultSayTicks
	}
	if opts.Logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		opts.Logger = quiet
	}

	g := &Game{
		defs:          defs,
		opts:          opts,
		log:           opts.Logger,
		rng:           NewRNG(opts.Seed),
		conversations: map[string]*convo.Conversation{},
		journal:       convo.New(""),
	}
	g.director = director.New(
		director.WithSayTicks(opts.SayTicks),
		director.WithLogger(g.log.WithField("component", "director")),
	)
	g.player = &Player{game: g}
	g.Restore(state.NewPlayerState())

	for _, id := range defs.ConversationIDs() {
		c, err := convo.Build(defs.Conversations[id], defs.Verbs, g.log)
		if err != nil {
			return nil, fmt.Errorf("building conversation: %w", err)
		}
		g.conversations[id] = c
	}
	g.scripts = map[string]director.Factory{
		"tavern": director.Func(g.tavern),
	}
	return g, nil
}

// Step runs one frame: timers and displays tick, then the inputs are
// handled in order, then the consequences of the frame are settled. A
// finished game ignores every step.
func (g *Game) Step(inputs ...Input) {
	if g.Over() {
		return
	}
	g.frame++

	g.director.OnTick()
	if g.opponent != nil {
		g.opponent.Tick()
	}
	g.timers.Advance()

	for _, in := range inputs {
		g.handle(in)
	}

	g.settle()
}

func (g *Game) handle(in Input) {
	p := g.player
	if in.IsText {
		if p.inConversation && g.conversation != nil {
			g.conversation.FeedPlayerMessage(in.Text, p)
		}
		return
	}

	switch {
	case p.inConversation:
		// The keyboard belongs to the Talk> prompt.
	case g.director.IsActive():
		g.director.OnKey(in.Key)
	case p.inMenu && g.opponent != nil:
		g.battleKey(in.Key)
	case in.Key == types.KeyConfirm && g.opponent != nil:
		p.EnterMenu()
	}
}

func (g *Game) settle() {
	p := g.player
	if g.opponent != nil && g.opponent.IsDead() {
		g.opponent.Reward(p)
		g.endBattle()
	}

	if !p.timePassed {
		return
	}
	p.timePassed = false
	g.clock.Advance()

	if g.opponent != nil {
		g.opponent.Engage(p)
		return
	}
	if p.inConversation || g.director.IsActive() {
		return
	}
	if g.rng.Chance(g.opts.EncounterOdds) {
		if err := g.Encounter(g.pickEncounter()); err != nil {
			g.log.WithError(err).Warn("random encounter failed")
		}
	}
}

// pickEncounter draws an opponent from the encounter table.
func (g *Game) pickEncounter() string {
	table := g.defs.Game.Encounters
	if len(table) == 0 {
		return encounterOrder[g.rng.Pick(len(encounterOrder))]
	}
	weights := make([]int, len(table))
	for i, e := range table {
		weights[i] = e.Weight
	}
	return table[g.rng.WeightedSelect(weights)].NPC
}

// Talk enters the conversation with npcID and runs its begin hooks with
// circumstance.
func (g *Game) Talk(npcID, circumstance string) error {
	c, ok := g.conversations[npcID]
	if !ok {
		return fmt.Errorf("%w: %q", state.ErrUnknownConversation, npcID)
	}
	g.conversation = c
	g.player.inConversation = true
	g.log.WithFields(logrus.Fields{"npc": npcID, "circumstance": circumstance}).Info("conversation entered")
	c.RunBeginHooks(g.player, circumstance)
	return nil
}

// LeaveConversation returns the keyboard from the conversation. Its log is
// kept for the next visit.
func (g *Game) LeaveConversation() {
	g.player.LeaveConversation()
}

// StartDialogue presents the dialogue id, replacing any dialogue already
// running. Content dialogues take precedence over built-in scripts.
func (g *Game) StartDialogue(id string) error {
	if def, ok := g.defs.Dialogues[id]; ok {
		backdrop, err := g.backdrop(def.Backdrop)
		if err != nil {
			return fmt.Errorf("dialogue %q: %w", id, err)
		}
		g.log.WithField("dialogue", id).Debug("dialogue started")
		g.director.Start(director.Tree(def.Body, g.runEffects), backdrop)
		return nil
	}
	if f, ok := g.scripts[id]; ok {
		g.log.WithField("dialogue", id).Debug("script started")
		g.director.Start(f, nil)
		return nil
	}
	return fmt.Errorf("%w: %q", state.ErrUnknownDialogue, id)
}

// StartScript presents a Go-authored script.
func (g *Game) StartScript(f director.Factory, backdrop *types.Image) {
	g.director.Start(f, backdrop)
}

// backdrop resolves a dialogue backdrop, preferring the _night or _day
// variant for the current time of day.
func (g *Game) backdrop(name string) (*types.Image, error) {
	if name == "" {
		return nil, nil
	}
	if g.opts.Assets == nil {
		return &types.Image{Name: name}, nil
	}
	variant := name + "_day"
	if g.clock.IsNight() {
		variant = name + "_night"
	}
	img, err := g.opts.Assets.FirstImage(variant, name)
	if err != nil {
		return nil, fmt.Errorf("backdrop: %w", err)
	}
	return &img, nil
}

// runEffects carries out the effects of a dialogue do node.
func (g *Game) runEffects(effs []types.Effect) {
	if err := effects.Apply(effs, gameLog{g}, g.player, types.Args{}); err != nil {
		g.log.WithError(err).Warn("dialogue effects failed")
	}
}

// Encounter starts a battle with a fresh npcID opponent and opens the
// battle menu. A battle already under way is abandoned.
func (g *Game) Encounter(npcID string) error {
	newOpponent, ok := opponents[npcID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOpponent, npcID)
	}
	g.opponent = newOpponent(g)
	g.selection = 0
	g.player.EnterMenu()
	g.log.WithField("opponent", g.opponent.Name()).Info("battle started")
	return nil
}

func (g *Game) endBattle() {
	if g.opponent == nil {
		return
	}
	g.log.WithField("opponent", g.opponent.Name()).Info("battle ended")
	g.opponent = nil
	g.selection = 0
	g.player.LeaveMenu()
}

// Intro shows the game's intro text, if it has one.
func (g *Game) Intro() {
	if g.defs.Game.Intro == "" {
		return
	}
	g.director.Start(director.Func(g.intro), nil)
}

// Wait lets a minute pass, as walking one step does. An opponent follows
// the player. Reports false when the player is busy with a dialogue, a
// conversation or the battle menu.
func (g *Game) Wait() bool {
	p := g.player
	if g.Over() || g.director.IsActive() || p.inConversation || p.inMenu {
		return false
	}
	p.PassTime()
	if g.opponent != nil {
		g.opponent.Follow(p)
	}
	return true
}

// After runs callback once the given number of frames has passed.
func (g *Game) After(frames int, callback func()) *timer.Timer {
	return g.timers.After(frames, callback)
}

// OnSound registers fn to be called with every sound the game plays.
func (g *Game) OnSound(fn func(types.Sound)) hooks.Handle {
	return g.sounds.Add(fn)
}

func (g *Game) playSound(name string) {
	snd := types.Sound{Name: name}
	if g.opts.Assets != nil {
		var err error
		if snd, err = g.opts.Assets.Sound(name); err != nil {
			g.log.WithError(err).WithField("sound", name).Debug("sound not played")
			return
		}
	}
	g.sounds.Each(func(fn func(types.Sound)) { fn(snd) })
}

// Director returns the dialogue director.
func (g *Game) Director() *director.Director { return g.director }

// Conversation returns the conversation entered last, or nil.
func (g *Game) Conversation() *convo.Conversation { return g.conversation }

// InConversation reports whether typed text goes to the conversation.
func (g *Game) InConversation() bool { return g.player.inConversation }

// Journal returns narration and NPC lines produced outside conversations.
func (g *Game) Journal() []types.LogEntry { return g.journal.Log() }

// JournalTotal returns the number of journal entries ever written.
func (g *Game) JournalTotal() int { return g.journal.LogTotal() }

// Opponent returns the current opponent, or nil outside battle.
func (g *Game) Opponent() Opponent { return g.opponent }

// Player returns the player.
func (g *Game) Player() *Player { return g.player }

// Clock returns the time of day.
func (g *Game) Clock() *Clock { return g.clock }

// Frame returns the number of frames stepped.
func (g *Game) Frame() int { return g.frame }

// Over reports whether the player has died.
func (g *Game) Over() bool { return g.player.IsDead() }

// Defs returns the game definitions.
func (g *Game) Defs() *state.Defs { return g.defs }

// Seed returns the RNG seed.
func (g *Game) Seed() int64 { return g.rng.Seed() }

// RNGPosition returns how far the RNG has advanced from its seed.
func (g *Game) RNGPosition() int64 { return g.rng.Position() }

// Save serializes the game's persistent state.
func (g *Game) Save() ([]byte, error) {
	return save.Save(g.PlayerState(), g.defs, g.rng.Seed(), g.rng.Position())
}

// RestoreSave restores the player's values and the RNG from loaded save
// data, so rolls continue exactly where the save left them.
func (g *Game) RestoreSave(sd *save.SaveData) {
	var ps types.PlayerState
	save.ApplySave(&ps, sd)
	g.Restore(ps)
	g.rng = RestoreRNG(sd.RNGSeed, sd.RNGPos)
}

// PlayerState returns the player's persistent values.
func (g *Game) PlayerState() types.PlayerState {
	return types.PlayerState{
		Health:    g.player.health,
		MaxHealth: g.player.maxHealth,
		Money:     g.player.money,
		Minute:    g.clock.Minute(),
		Frame:     g.frame,
	}
}

// Restore replaces the player's persistent values. Dialogues, battles and
// conversations in progress are ended.
func (g *Game) Restore(ps types.PlayerState) {
	g.director.Stop()
	g.endBattle()
	g.player.inConversation = false
	g.player.timePassed = false

	g.player.health = ps.Health
	g.player.maxHealth = ps.MaxHealth
	g.player.money = ps.Money
	g.clock = NewClock(ps.Minute)
	g.frame = ps.Frame
}

// gameLog sends effect output to the open conversation, or to the journal
// when there is none.
type gameLog struct{ g *Game }

func (l gameLog) target() *convo.Conversation {
	if l.g.player.inConversation && l.g.conversation != nil {
		return l.g.conversation
	}
	return l.g.journal
}

func (l gameLog) LogNPC(text string)         { l.target().LogNPC(text) }
func (l gameLog) LogNPCAs(name, text string) { l.target().LogNPCAs(name, text) }
func (l gameLog) LogNarrative(text string)   { l.target().LogNarrative(text) }
