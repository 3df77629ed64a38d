// Package convo implements the text-command conversation engine: player
// input normalization, topic and verb rules, and per-NPC conversation logs.
package convo

import (
	"github.com/nathoo/dirt/engine/hooks"
	"github.com/nathoo/dirt/types"
)

// BeginFunc runs when a conversation is entered. circumstance says why or
// where it began (e.g. "throneroom").
type BeginFunc func(c *Conversation, p types.Player, circumstance string)

// Conversation holds one NPC's rules and dialogue history. Rules are
// evaluated in registration order and the first one that fires wins.
type Conversation struct {
	DefaultName string

	log   Log
	rules []Rule
	begin hooks.List[BeginFunc]
}

// New creates an empty conversation whose NPC lines default to defaultName.
func New(defaultName string) *Conversation {
	return &Conversation{DefaultName: defaultName}
}

// AddRule appends a rule with the lowest priority so far.
func (c *Conversation) AddRule(r Rule) {
	c.rules = append(c.rules, r)
}

// Topic registers a topic rule.
func (c *Conversation) Topic(canonical string, synonyms []string, fn TopicFunc) {
	c.AddRule(&TopicRule{Canonical: canonical, Synonyms: synonyms, Callback: fn})
}

// Verb registers a verb rule.
func (c *Conversation) Verb(v Verb, fn VerbFunc) {
	c.AddRule(&VerbRule{Verb: v, Callback: fn})
}

// Rules returns the registered rules in priority order.
func (c *Conversation) Rules() []Rule {
	return c.rules
}

// OnBegin registers a hook run by RunBeginHooks.
func (c *Conversation) OnBegin(fn BeginFunc) hooks.Handle {
	return c.begin.Add(fn)
}

// RunBeginHooks runs every begin hook in registration order.
func (c *Conversation) RunBeginHooks(p types.Player, circumstance string) {
	c.begin.Each(func(fn BeginFunc) {
		fn(c, p, circumstance)
	})
}

// FeedPlayerMessage logs the player's message and runs the first rule that
// accepts it. Unmatched input is logged and otherwise ignored. Returns
// whether a rule fired.
func (c *Conversation) FeedPlayerMessage(text string, p types.Player) bool {
	c.LogPlayer(text)
	for _, r := range c.rules {
		if r.Activate(text, c, p) {
			return true
		}
	}
	return false
}

// LogPlayer appends a player message.
func (c *Conversation) LogPlayer(text string) {
	c.log.Append(types.LogEntry{Kind: types.PlayerMessage, Text: text})
}

// LogNPC appends a message spoken by the conversation's default NPC.
func (c *Conversation) LogNPC(text string) {
	c.LogNPCAs(c.DefaultName, text)
}

// LogNPCAs appends a message spoken by name.
func (c *Conversation) LogNPCAs(name, text string) {
	c.log.Append(types.LogEntry{Kind: types.NPCMessage, Speaker: name, Text: text})
}

// LogNarrative appends a passage that is not dialogue.
func (c *Conversation) LogNarrative(text string) {
	c.log.Append(types.LogEntry{Kind: types.Narrative, Text: text})
}

// Log returns the retained history, oldest first.
func (c *Conversation) Log() []types.LogEntry {
	return c.log.Entries()
}

// LogTotal returns the number of entries ever logged.
func (c *Conversation) LogTotal() int {
	return c.log.Total()
}
