package engine

import (
	"github.com/nathoo/dirt/engine/combat"
	"github.com/nathoo/dirt/engine/effects"
	"github.com/nathoo/dirt/types"
)

// Player is the capability surface conversations, dialogues and battles act
// on. Requests that involve the wider game (battles, dialogues,
// conversations) are forwarded to the Game that owns the player.
type Player struct {
	game *Game

	health    float64
	maxHealth float64
	money     int

	inMenu         bool
	inConversation bool
	timePassed     bool
}

// TakeDamage lowers health, never below zero.
func (p *Player) TakeDamage(amount float64) {
	p.health = max(0, p.health-amount)
}

// GainMoney adds money.
func (p *Player) GainMoney(amount int) {
	p.money += amount
}

// LoseMoney removes money, never below zero.
func (p *Player) LoseMoney(amount int) {
	p.money = max(0, p.money-amount)
}

// EnterMenu opens the battle menu.
func (p *Player) EnterMenu() { p.inMenu = true }

// LeaveMenu closes the battle menu.
func (p *Player) LeaveMenu() { p.inMenu = false }

// EnterBattle starts a battle with the opponent npcID.
func (p *Player) EnterBattle(npcID string) {
	if err := p.game.Encounter(npcID); err != nil {
		p.game.log.WithError(err).Warn("cannot start battle")
	}
}

// LeaveBattle ends the current battle.
func (p *Player) LeaveBattle() {
	p.game.endBattle()
}

// PassTime marks that game time has passed this frame. The clock, opponent
// and encounter updates happen at the end of the frame.
func (p *Player) PassTime() { p.timePassed = true }

// LeaveConversation stops feeding typed text to the conversation.
func (p *Player) LeaveConversation() {
	p.inConversation = false
}

// Attack strikes an opponent for one point of damage.
func (p *Player) Attack(target *combat.Component) {
	target.TakeDamage(1)
}

// StartDialogue starts the dialogue id.
func (p *Player) StartDialogue(id string) error {
	return p.game.StartDialogue(id)
}

// Talk enters the conversation npcID.
func (p *Player) Talk(npcID, circumstance string) error {
	return p.game.Talk(npcID, circumstance)
}

// Health returns current health.
func (p *Player) Health() float64 { return p.health }

// MaxHealth returns maximum health.
func (p *Player) MaxHealth() float64 { return p.maxHealth }

// Money returns the player's money.
func (p *Player) Money() int { return p.money }

// Heal restores health up to the maximum.
func (p *Player) Heal() { p.health = p.maxHealth }

// InMenu reports whether the battle menu is open.
func (p *Player) InMenu() bool { return p.inMenu }

// InConversation reports whether typed text goes to a conversation.
func (p *Player) InConversation() bool { return p.inConversation }

// TimePassed reports whether time has passed this frame.
func (p *Player) TimePassed() bool { return p.timePassed }

// IsDead reports whether health has run out.
func (p *Player) IsDead() bool { return p.health <= 0 }

var (
	_ types.Player            = (*Player)(nil)
	_ combat.Attacker         = (*Player)(nil)
	_ effects.DialogueStarter = (*Player)(nil)
	_ effects.Talker          = (*Player)(nil)
)
