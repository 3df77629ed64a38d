package engine

import "github.com/nathoo/dirt/engine/director"

// ScriptIDs lists the dialogues built into the engine. Content may start
// them by ID like any dialogue it defines.
func ScriptIDs() []string {
	return []string{"tavern"}
}

// intro shows the game's opening text.
func (g *Game) intro(y *director.Yield) {
	y.BigMessage(g.defs.Game.Intro)
}

// tavern sells the player a drink that restores health.
func (g *Game) tavern(y *director.Yield) {
	p := g.player
	if p.Money() > 1 {
		p.Heal()
		p.LoseMoney(2)
		y.BigMessage("You went in and had a drink.")
		return
	}
	y.BigMessage("You can't afford an ale.")
}
