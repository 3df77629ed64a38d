// Package combat implements the battle component opponents build on: health
// and power, the Attack and Ignore menu options, and hooks that let an
// opponent react to being attacked, ignored, or killed.
package combat

import (
	"github.com/nathoo/dirt/engine/hooks"
	"github.com/nathoo/dirt/types"
)

// Menu options every opponent offers.
const (
	OptionAttack = "Attack"
	OptionIgnore = "Ignore"
)

// Attacker is the player as seen from a battle.
type Attacker interface {
	types.Player
	Attack(target *Component)
}

// Hook reacts to something the player did in battle.
type Hook func(p types.Player)

// Component is an opponent's fighting side. The newest hook runs first.
type Component struct {
	Health float64
	Power  float64

	surrendered bool
	turnSkipped bool

	attack hooks.List[Hook]
	ignore hooks.List[Hook]
	death  hooks.List[Hook]
	blow   hooks.List[func()]
}

// New creates a component with the given health and power.
func New(health, power float64) *Component {
	return &Component{Health: health, Power: power}
}

// OnAttack registers a hook run before the player's blow lands.
func (c *Component) OnAttack(h Hook) hooks.Handle { return c.attack.Prepend(h) }

// OnIgnore registers a hook run when the player picks Ignore.
func (c *Component) OnIgnore(h Hook) hooks.Handle { return c.ignore.Prepend(h) }

// OnDeath registers a hook run when an attack kills the component.
func (c *Component) OnDeath(h Hook) hooks.Handle { return c.death.Prepend(h) }

// OnBlow registers a hook run whenever the component strikes the player.
func (c *Component) OnBlow(fn func()) hooks.Handle { return c.blow.Prepend(fn) }

// TakeTurn strikes the player for Power damage, unless the turn was skipped.
// Reports whether the player was struck.
func (c *Component) TakeTurn(p types.Player) bool {
	if c.turnSkipped {
		c.turnSkipped = false
		return false
	}
	p.TakeDamage(c.Power)
	c.blow.Each(func(fn func()) { fn() })
	return true
}

// SkipTurn makes the next TakeTurn do nothing.
func (c *Component) SkipTurn() {
	c.turnSkipped = true
}

// HandleOption handles the options every opponent shares. Attack runs the
// attack hooks, lets the player strike, then either runs the death hooks or
// strikes back; time passes either way. Ignore runs the ignore hooks and
// closes the menu. Reports whether option was one of them.
func (c *Component) HandleOption(option string, p Attacker) bool {
	switch option {
	case OptionAttack:
		c.runHooks(&c.attack, p)
		p.Attack(c)
		if c.IsDead() {
			c.runHooks(&c.death, p)
		} else {
			c.TakeTurn(p)
		}
		p.PassTime()
		return true

	case OptionIgnore:
		c.runHooks(&c.ignore, p)
		p.LeaveMenu()
		return true
	}
	return false
}

// AddOptions wraps an opponent's own options with Attack first and Ignore
// last.
func (c *Component) AddOptions(options []string) []string {
	out := make([]string, 0, len(options)+2)
	out = append(out, OptionAttack)
	out = append(out, options...)
	return append(out, OptionIgnore)
}

// TakeDamage lowers health, never below zero.
func (c *Component) TakeDamage(amount float64) {
	c.Health = max(0, c.Health-amount)
}

// Surrender ends the fight without killing the component.
func (c *Component) Surrender() {
	c.surrendered = true
}

// IsDead reports whether health has run out.
func (c *Component) IsDead() bool {
	return c.Health <= 0
}

// IsDone reports whether the fight is over for this component.
func (c *Component) IsDone() bool {
	return c.surrendered || c.IsDead()
}

func (c *Component) runHooks(l *hooks.List[Hook], p types.Player) {
	l.Each(func(h Hook) { h(p) })
}
