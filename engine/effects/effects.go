// Package effects applies data-driven conversation effects to a
// conversation log and the player. Every effect type is one atomic operation.
package effects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/dirt/types"
)

// Log is the part of a conversation effects write to.
type Log interface {
	LogNPC(text string)
	LogNPCAs(name, text string)
	LogNarrative(text string)
}

// DialogueStarter is implemented by players that can open a full-screen
// dialogue from inside a conversation.
type DialogueStarter interface {
	StartDialogue(id string) error
}

// Talker is implemented by players that can enter a conversation from
// inside a dialogue.
type Talker interface {
	Talk(npcID, circumstance string) error
}

// Effect types.
const (
	Npc             = "npc"
	Narrate         = "narrate"
	EndConversation = "end_conversation"
	GainMoney       = "gain_money"
	LoseMoney       = "lose_money"
	TakeDamage      = "take_damage"
	PassTime        = "pass_time"
	StartBattle     = "start_battle"
	StartDialogue   = "start_dialogue"
	Talk            = "talk"
	Stop            = "stop"
)

var known = map[string]bool{
	Npc: true, Narrate: true, EndConversation: true,
	GainMoney: true, LoseMoney: true, TakeDamage: true, PassTime: true,
	StartBattle: true, StartDialogue: true, Talk: true, Stop: true,
}

// Known reports whether typ is an effect type Apply understands.
func Known(typ string) bool {
	return known[typ]
}

// Apply runs effects in order. Text parameters may reference verb arguments
// as {name} (named) or {1}, {2}, ... (positional). Stops at the first error.
func Apply(effs []types.Effect, log Log, p types.Player, args types.Args) error {
	for _, eff := range effs {
		switch eff.Type {
		case Npc:
			text := interpolate(str(eff.Params, "text"), args)
			if name := str(eff.Params, "name"); name != "" {
				log.LogNPCAs(name, text)
			} else {
				log.LogNPC(text)
			}

		case Narrate:
			log.LogNarrative(interpolate(str(eff.Params, "text"), args))

		case EndConversation:
			p.LeaveConversation()

		case GainMoney:
			p.GainMoney(toInt(eff.Params["amount"]))

		case LoseMoney:
			p.LoseMoney(toInt(eff.Params["amount"]))

		case TakeDamage:
			p.TakeDamage(toFloat(eff.Params["amount"]))

		case PassTime:
			p.PassTime()

		case StartBattle:
			p.EnterBattle(interpolate(str(eff.Params, "npc"), args))

		case StartDialogue:
			id := str(eff.Params, "dialogue")
			ds, ok := p.(DialogueStarter)
			if !ok {
				return fmt.Errorf("start_dialogue %q: player cannot start dialogues", id)
			}
			if err := ds.StartDialogue(id); err != nil {
				return fmt.Errorf("start_dialogue %q: %w", id, err)
			}

		case Talk:
			npc := str(eff.Params, "npc")
			t, ok := p.(Talker)
			if !ok {
				return fmt.Errorf("talk %q: player cannot talk", npc)
			}
			if err := t.Talk(npc, str(eff.Params, "circumstance")); err != nil {
				return fmt.Errorf("talk %q: %w", npc, err)
			}

		case Stop:
			return nil

		default:
			return fmt.Errorf("unknown effect type %q", eff.Type)
		}
	}
	return nil
}

// interpolate replaces {name} and {n} placeholders with verb arguments.
func interpolate(text string, args types.Args) string {
	if !strings.Contains(text, "{") {
		return text
	}
	pairs := make([]string, 0, 2*(len(args.Named)+len(args.Positional)))
	for name, v := range args.Named {
		pairs = append(pairs, "{"+name+"}", v)
	}
	for i, v := range args.Positional {
		pairs = append(pairs, "{"+strconv.Itoa(i+1)+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

func str(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}
