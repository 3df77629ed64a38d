package loader

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nathoo/dirt/engine/convo"
	"github.com/nathoo/dirt/engine/effects"
	"github.com/nathoo/dirt/engine/state"
	"github.com/nathoo/dirt/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs, cfg *config) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.Title is required")
	}
	for _, enc := range defs.Game.Encounters {
		if enc.Weight <= 0 {
			ve.errorf("encounter %q has weight %d, must be positive", enc.NPC, enc.Weight)
		}
		validateOpponent("encounter", enc.NPC, cfg, ve)
	}

	for _, id := range sortedIDs(defs.Verbs) {
		validateVerb(defs.Verbs[id], ve)
	}

	for _, id := range defs.ConversationIDs() {
		conv := defs.Conversations[id]
		for _, b := range conv.Begin {
			validateEffects(b.Effects, defs, cfg, ve)
		}
		for i, rule := range conv.Rules {
			switch rule.Kind {
			case types.RuleVerb:
				if _, ok := defs.Verbs[rule.Verb]; !ok {
					ve.errorf("conversation %q rule %d uses undefined verb %q", id, i+1, rule.Verb)
				}
			case types.RuleTopic:
				for _, name := range append([]string{rule.Canonical}, rule.Synonyms...) {
					if convo.Normalize(name) != name {
						ve.warnf("conversation %q topic %q can never match; write it as %q",
							id, name, convo.Normalize(name))
					}
				}
			}
			validateEffects(rule.Effects, defs, cfg, ve)
		}
	}

	for _, id := range defs.DialogueIDs() {
		validateNodes(id, defs.Dialogues[id].Body, defs, cfg, ve)
	}

	for _, w := range ve.Warnings {
		cfg.log.Warn(w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateVerb(vd types.VerbDef, ve *ValidationError) {
	if vd.Pattern != "" {
		if _, err := regexp.Compile(vd.Pattern); err != nil {
			ve.errorf("verb %q has a bad pattern: %v", vd.Name, err)
		}
		return
	}
	if len(vd.Phrases) == 0 {
		ve.errorf("verb %q needs phrases or a pattern", vd.Name)
	}
	for _, p := range vd.Phrases {
		if convo.Normalize(p) != p {
			ve.warnf("verb %q phrase %q can never match; write it as %q", vd.Name, p, convo.Normalize(p))
		}
	}
}

func validateEffects(effs []types.Effect, defs *state.Defs, cfg *config, ve *ValidationError) {
	for _, eff := range effs {
		if !effects.Known(eff.Type) {
			ve.errorf("unknown effect type %q", eff.Type)
			continue
		}

		switch eff.Type {
		case effects.StartDialogue:
			id, _ := eff.Params["dialogue"].(string)
			if _, ok := defs.Dialogues[id]; !ok && !cfg.scripts[id] {
				ve.errorf("effect start_dialogue references undefined dialogue %q", id)
			}
		case effects.Talk:
			npc, _ := eff.Params["npc"].(string)
			if _, ok := defs.Conversations[npc]; !ok {
				ve.errorf("effect talk references undefined conversation %q", npc)
			}
		case effects.StartBattle:
			npc, _ := eff.Params["npc"].(string)
			if !isTemplate(npc) {
				validateOpponent("effect start_battle", npc, cfg, ve)
			}
		}
	}
}

func validateOpponent(what, npc string, cfg *config, ve *ValidationError) {
	if npc == "" {
		ve.errorf("%s names no opponent", what)
		return
	}
	if cfg.opponents != nil && !cfg.opponents[npc] {
		ve.errorf("%s references unknown opponent %q", what, npc)
	}
}

// validateNodes checks a dialogue body.
func validateNodes(id string, nodes []types.Node, defs *state.Defs, cfg *config, ve *ValidationError) {
	for _, n := range nodes {
		switch n.Kind {
		case types.NodeSay, types.NodeBigMessage:
			if n.Text == "" {
				ve.warnf("dialogue %q has an empty %s", id, n.Kind)
			}
		case types.NodeChoose:
			if len(n.Options) == 0 {
				ve.errorf("dialogue %q has a Choose with no options", id)
			}
			for _, o := range n.Options {
				if o.Label == "" {
					ve.errorf("dialogue %q has an Option with no label", id)
				}
				validateNodes(id, o.Body, defs, cfg, ve)
			}
		case types.NodeLoop:
			if !pauses(n.Body) {
				ve.errorf("dialogue %q has a Loop that never waits for the player", id)
			}
			validateNodes(id, n.Body, defs, cfg, ve)
		case types.NodeSequence:
			validateNodes(id, n.Body, defs, cfg, ve)
		case types.NodeDo:
			validateEffects(n.Effects, defs, cfg, ve)
		}
	}
}

// pauses reports whether nodes contain something that waits for the player
// or leaves the loop, so a loop over them cannot spin forever. A break
// inside a nested loop only leaves that loop, so it does not count.
func pauses(nodes []types.Node) bool {
	for _, n := range nodes {
		switch n.Kind {
		case types.NodeSay, types.NodeBigMessage, types.NodeChoose, types.NodeBreak:
			return true
		case types.NodeSequence:
			if pauses(n.Body) {
				return true
			}
		case types.NodeLoop:
			if waits(n.Body) {
				return true
			}
		}
	}
	return false
}

// waits reports whether nodes contain something that waits for the player.
func waits(nodes []types.Node) bool {
	for _, n := range nodes {
		switch n.Kind {
		case types.NodeSay, types.NodeBigMessage, types.NodeChoose:
			return true
		case types.NodeSequence, types.NodeLoop:
			if waits(n.Body) {
				return true
			}
		}
	}
	return false
}

func sortedIDs(m map[string]types.VerbDef) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// isTemplate returns true if the string contains a template variable.
func isTemplate(s string) bool {
	return strings.Contains(s, "{") && strings.Contains(s, "}")
}
