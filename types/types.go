// Package types defines the shared data structures for the dirt dialogue engine.
// This package contains only type definitions and their formatting.
package types

import "fmt"

// LogKind identifies the variant of a LogEntry.
type LogKind int

const (
	PlayerMessage LogKind = iota
	NPCMessage
	Narrative
)

// LogEntry is one line of conversation history. Immutable once created.
type LogEntry struct {
	Kind    LogKind
	Speaker string // NPCMessage only
	Text    string
}

// String renders the entry the way it appears in a conversation log.
func (e LogEntry) String() string {
	if e.Kind == NPCMessage {
		return fmt.Sprintf("%s: %s", e.Speaker, e.Text)
	}
	return e.Text
}

// Args carries the values a verb extracted from player input.
type Args struct {
	Positional []string
	Named      map[string]string
}

// CommandKind is the kind of presentation a dialogue script asks for.
type CommandKind string

const (
	CommandSay        CommandKind = "say"
	CommandChoose     CommandKind = "choose"
	CommandBigMessage CommandKind = "big_message"
)

// Command is what a dialogue script yields at each suspension point.
type Command struct {
	Kind    CommandKind
	Text    string   // say, big_message
	Choices []string // choose
}

// Mode is the Director's current presentation mode.
type Mode int

const (
	ModeInactive Mode = iota
	ModeSaying
	ModeChoosing
	ModeBigMessage
)

func (m Mode) String() string {
	switch m {
	case ModeInactive:
		return "inactive"
	case ModeSaying:
		return "saying"
	case ModeChoosing:
		return "choosing"
	case ModeBigMessage:
		return "big_message"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Key is a classified key-down event.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyConfirm
)

// Image is an opaque image handle produced by the asset resolver.
type Image struct {
	Name string
	Path string
}

// Sound is an opaque sound handle produced by the asset resolver.
type Sound struct {
	Name string
	Path string
}

// Player is the capability surface conversation callbacks and combat
// components act on.
type Player interface {
	TakeDamage(amount float64)
	GainMoney(amount int)
	LoseMoney(amount int)
	EnterMenu()
	LeaveMenu()
	EnterBattle(npcID string)
	LeaveBattle()
	PassTime()
	LeaveConversation()
}

// PlayerState holds the player's persistent runtime values.
type PlayerState struct {
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	Money     int     `json:"money"`
	Minute    int     `json:"minute"`
	Frame     int     `json:"frame"`
}

// Effect is a single data-driven conversation action.
type Effect struct {
	Type   string
	Params map[string]any
}

// RuleKind distinguishes topic rules from verb rules.
type RuleKind string

const (
	RuleTopic RuleKind = "topic"
	RuleVerb  RuleKind = "verb"
)

// RuleDef is a compiled conversation rule.
type RuleDef struct {
	Kind      RuleKind
	Canonical string   // topic
	Synonyms  []string // topic
	Verb      string   // verb: name of a VerbDef
	Effects   []Effect
}

// VerbDef is a named verb: either a phrase set or a pattern.
type VerbDef struct {
	Name    string
	Phrases []string
	Pattern string // regexp; takes precedence over Phrases when set
}

// BeginDef runs Effects when a conversation starts under Circumstance.
// An empty Circumstance matches every circumstance.
type BeginDef struct {
	Circumstance string
	Effects      []Effect
}

// ConversationDef is the compiled definition of one NPC's conversation.
type ConversationDef struct {
	ID    string
	Name  string
	Begin []BeginDef
	Rules []RuleDef
}

// NodeKind identifies a dialogue tree node.
type NodeKind string

const (
	NodeSay        NodeKind = "say"
	NodeBigMessage NodeKind = "big_message"
	NodeChoose     NodeKind = "choose"
	NodeSequence   NodeKind = "sequence"
	NodeLoop       NodeKind = "loop"
	NodeBreak      NodeKind = "break"
	NodeDo         NodeKind = "do"
)

// Node is one instruction of a data-authored dialogue script.
type Node struct {
	Kind    NodeKind
	Text    string   // say, big_message
	Options []Option // choose
	Body    []Node   // sequence, loop
	Effects []Effect // do
}

// Option is one labelled branch of a choose node.
type Option struct {
	Label string
	Body  []Node
}

// DialogueDef is a compiled, data-authored dialogue script.
type DialogueDef struct {
	ID       string
	Backdrop string // asset name; may have _day/_night variants
	Body     []Node
}

// EncounterDef weights one opponent in the random encounter table.
type EncounterDef struct {
	NPC    string
	Weight int
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title      string
	Author     string
	Version    string
	Intro      string
	Encounters []EncounterDef // empty: every built-in opponent, equally likely
}
