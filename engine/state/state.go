// Package state holds the compiled, read-only game content and the
// player's starting values.
package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nathoo/dirt/types"
)

var (
	ErrUnknownDialogue     = errors.New("unknown dialogue")
	ErrUnknownConversation = errors.New("unknown conversation")
)

// Day length and start of the game clock, in minutes.
const (
	MinutesPerDay = 60 * 24
	StartMinute   = 60 * 5
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game          types.GameDef
	Verbs         map[string]types.VerbDef
	Conversations map[string]types.ConversationDef
	Dialogues     map[string]types.DialogueDef
}

// NewDefs returns empty definitions with every map allocated.
func NewDefs() *Defs {
	return &Defs{
		Verbs:         map[string]types.VerbDef{},
		Conversations: map[string]types.ConversationDef{},
		Dialogues:     map[string]types.DialogueDef{},
	}
}

// Dialogue returns the dialogue with the given ID.
func (d *Defs) Dialogue(id string) (types.DialogueDef, error) {
	def, ok := d.Dialogues[id]
	if !ok {
		return types.DialogueDef{}, fmt.Errorf("%w: %q", ErrUnknownDialogue, id)
	}
	return def, nil
}

// Conversation returns the conversation with the given ID.
func (d *Defs) Conversation(id string) (types.ConversationDef, error) {
	def, ok := d.Conversations[id]
	if !ok {
		return types.ConversationDef{}, fmt.Errorf("%w: %q", ErrUnknownConversation, id)
	}
	return def, nil
}

// DialogueIDs returns the dialogue IDs in sorted order.
func (d *Defs) DialogueIDs() []string {
	return sortedKeys(d.Dialogues)
}

// ConversationIDs returns the conversation IDs in sorted order.
func (d *Defs) ConversationIDs() []string {
	return sortedKeys(d.Conversations)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// NewPlayerState returns the player's values at the start of a game.
func NewPlayerState() types.PlayerState {
	return types.PlayerState{
		Health:    3,
		MaxHealth: 3,
		Money:     3,
		Minute:    StartMinute,
	}
}
