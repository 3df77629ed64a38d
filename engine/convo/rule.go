package convo

import (
	"slices"

	"github.com/nathoo/dirt/types"
)

// Rule interprets one piece of player input. Activate returns true when the
// rule fired, which stops rule evaluation for that input.
type Rule interface {
	Activate(input string, c *Conversation, p types.Player) bool
}

// TopicFunc responds to a topic.
type TopicFunc func(c *Conversation, p types.Player)

// VerbFunc responds to a verb with the arguments the verb extracted.
type VerbFunc func(c *Conversation, p types.Player, args types.Args)

// TopicRule fires when the player names a topic, either bare or wrapped in
// one of the question forms ExtractTopic understands.
type TopicRule struct {
	Canonical string
	Synonyms  []string
	Callback  TopicFunc
}

// Activate normalizes input, extracts the topic, and fires on a canonical
// name or synonym match.
func (r *TopicRule) Activate(input string, c *Conversation, p types.Player) bool {
	topic := ExtractTopic(Normalize(input))
	if topic != r.Canonical && !slices.Contains(r.Synonyms, topic) {
		return false
	}
	r.Callback(c, p)
	return true
}

// VerbRule fires when its verb matches the normalized input.
type VerbRule struct {
	Verb     Verb
	Callback VerbFunc
}

// Activate normalizes input and delegates matching to the verb.
func (r *VerbRule) Activate(input string, c *Conversation, p types.Player) bool {
	args, ok := r.Verb.Match(Normalize(input))
	if !ok {
		return false
	}
	r.Callback(c, p, args)
	return true
}
