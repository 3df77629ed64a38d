package engine

import (
	"slices"

	"github.com/nathoo/dirt/engine/combat"
	"github.com/nathoo/dirt/engine/speech"
	"github.com/nathoo/dirt/types"
)

// Opponent is someone the player can meet in battle. Each opponent talks
// through a speech bubble and fights through a combat component; the
// battle ends once it is done fighting and its last words have run out.
type Opponent interface {
	Name() string
	Combat() *combat.Component
	Bubble() *speech.Bubble

	// Options lists the battle menu entries; empty once the fight is over.
	Options(p *Player) []string
	// Suffer carries out the option the player picked.
	Suffer(p *Player, option string)
	// Engage strikes the player, unless the fight is over, and reopens the
	// battle menu.
	Engage(p *Player)
	// Follow reacts to the player moving on while the battle is open.
	Follow(p *Player)
	// Reward is paid when the battle ends.
	Reward(p *Player)
	Tick()
	IsDead() bool
}

// opponentFactory builds a fresh opponent for a battle.
type opponentFactory func(g *Game) Opponent

// opponents is the built-in cast, keyed by NPC ID.
var opponents = map[string]opponentFactory{
	"rat":          newRat,
	"guard":        newGuard,
	"proselytizer": newProselytizer,
	"jyesula":      newJyesula,
}

// encounterOrder is the default random encounter table.
var encounterOrder = []string{"rat", "proselytizer", "jyesula", "guard"}

// monster holds what every opponent shares.
type monster struct {
	name  string
	fight *combat.Component
	mouth *speech.Bubble
}

func newMonster(g *Game, name string, health, power float64) monster {
	m := monster{
		name:  name,
		fight: combat.New(health, power),
		mouth: speech.New(g.opts.BubbleTicks),
	}
	m.fight.OnBlow(func() { g.playSound("blow") })
	return m
}

func (m *monster) Name() string              { return m.name }
func (m *monster) Combat() *combat.Component { return m.fight }
func (m *monster) Bubble() *speech.Bubble    { return m.mouth }
func (m *monster) Follow(*Player)            {}
func (m *monster) Reward(*Player)            {}
func (m *monster) Tick()                     { m.mouth.Tick() }

func (m *monster) Engage(p *Player) {
	if !m.fight.IsDone() {
		m.fight.TakeTurn(p)
	}
	p.EnterMenu()
}

func (m *monster) IsDead() bool {
	return m.fight.IsDone() && m.mouth.IsDone()
}

func (m *monster) options(own ...string) []string {
	if m.fight.IsDone() {
		return nil
	}
	return m.fight.AddOptions(own)
}

// settle ends the fight peacefully with last words.
func (m *monster) settle(farewell string) {
	m.mouth.Farewell(farewell)
	m.fight.SkipTurn()
	m.fight.Surrender()
}

type rat struct {
	monster
	pacified bool
}

func newRat(g *Game) Opponent {
	r := &rat{monster: newMonster(g, "Rat", 1, 0.5)}
	r.fight.OnAttack(func(_ types.Player) {
		r.mouth.Say("*squeaky\nsqueak*!")
		r.pacified = false
	})
	r.fight.OnIgnore(func(_ types.Player) { r.mouth.Say("*squeeeak*!") })
	r.fight.OnDeath(func(_ types.Player) { r.mouth.Farewell("*squoo*...") })
	r.mouth.Say("*sniff*!\n  *sniff*!")
	return r
}

func (r *rat) Options(*Player) []string {
	return r.options("Back away slowly", "Bide")
}

func (r *rat) Follow(*Player) {
	if r.pacified {
		r.mouth.Say("*sniff*...")
	} else {
		r.mouth.Say("*squarrr*!")
	}
}

func (r *rat) Suffer(p *Player, option string) {
	if r.fight.HandleOption(option, p) {
		return
	}
	switch option {
	case "Back away slowly":
		if r.pacified {
			r.settle("...")
		} else {
			r.mouth.Say("*SQUEEEAK!*")
		}
		p.PassTime()
	case "Bide":
		r.mouth.Say("... *squeak*?")
		r.pacified = true
		p.PassTime()
	}
}

type guard struct {
	monster
	hostile bool
}

func newGuard(g *Game) Opponent {
	gd := &guard{monster: newMonster(g, "Guard", 10, 0.5)}
	gd.fight.OnAttack(func(_ types.Player) {
		if !gd.hostile {
			gd.mouth.Say("Assault!")
			gd.hostile = true
		} else {
			gd.mouth.Say("Not on my watch!")
		}
	})
	gd.fight.OnIgnore(func(_ types.Player) {
		if !gd.hostile {
			gd.settle("Have a nice\nday, citizen.")
		} else {
			gd.mouth.Say("Trying to run,\nare you?!")
		}
	})
	gd.fight.OnDeath(func(_ types.Player) { gd.mouth.Farewell("Reinforce-\nments...") })
	gd.mouth.Say("Greetings,\ncitizen.\nAnything\nto report?")
	return gd
}

func (gd *guard) Options(*Player) []string {
	return gd.options("Advice", "Proselytizers")
}

func (gd *guard) Follow(*Player) {
	if gd.hostile {
		gd.mouth.Say("Get back here!")
	}
}

func (gd *guard) Suffer(p *Player, option string) {
	if gd.fight.HandleOption(option, p) {
		return
	}
	switch option {
	case "Advice":
		gd.settle("I'd watch\nthe shadows\nif I were\nyou.")
		p.PassTime()
	case "Proselytizers":
		gd.settle("We guards\ndon't meddle\nwith the\nchurch.")
		p.PassTime()
	}
}

type proselytizer struct {
	monster
	rng *RNG
}

func newProselytizer(g *Game) Opponent {
	pr := &proselytizer{monster: newMonster(g, "Proselytizer", 2, 0.5), rng: g.rng}
	pr.fight.OnAttack(func(_ types.Player) { pr.mouth.Say("The gods\ncurse thee!") })
	pr.fight.OnDeath(func(_ types.Player) { pr.mouth.Farewell("Thou hast\nsinned...") })
	pr.mouth.Say("Dost thou\nhave a\ndonation?")
	return pr
}

func (pr *proselytizer) Options(p *Player) []string {
	if p.Money() > 0 {
		return pr.options("Donate")
	}
	return pr.options("Turn out pockets")
}

func (pr *proselytizer) Follow(*Player) {
	pr.mouth.Say("A donation!")
}

func (pr *proselytizer) Reward(p *Player) {
	p.GainMoney(pr.rng.Pick(4))
}

func (pr *proselytizer) Suffer(p *Player, option string) {
	if pr.fight.HandleOption(option, p) {
		return
	}
	switch option {
	case "Donate":
		pr.settle("We thank\nyou. May the\ngods be on\nyour side.")
		p.LoseMoney(1)
		p.PassTime()
	case "Turn out pockets":
		pr.settle("Be blessed,\npoor one.")
		p.PassTime()
	}
}

type jyesula struct {
	monster
}

var jyesulaRebukes = []string{"Hmm...", "No, child.", "Be wise."}

func newJyesula(g *Game) Opponent {
	j := &jyesula{monster: newMonster(g, "Jyesula", 100, 1)}
	j.fight.OnAttack(func(_ types.Player) {
		j.mouth.Say(jyesulaRebukes[g.rng.Pick(len(jyesulaRebukes))])
	})
	j.fight.OnIgnore(func(_ types.Player) { j.settle("Adieu,\ncomrade.") })
	j.fight.OnDeath(func(_ types.Player) { j.mouth.Farewell("Killed by...\nyou...") })
	j.mouth.Say("Ah.  Jauld.")
	return j
}

func (j *jyesula) Options(*Player) []string {
	return j.options("Lettre", "Pester")
}

func (j *jyesula) Suffer(p *Player, option string) {
	if j.fight.HandleOption(option, p) {
		return
	}
	switch option {
	case "Lettre":
		j.settle("I have no\ntime to read.\nPlease take\ncare of it.")
		p.PassTime()
	case "Pester":
		j.settle("I must away,\nJauld.")
		p.PassTime()
	}
}

// OpponentIDs returns the NPC IDs battles can be fought with, sorted.
func OpponentIDs() []string {
	ids := make([]string, 0, len(opponents))
	for id := range opponents {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
