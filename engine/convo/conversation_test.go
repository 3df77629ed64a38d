package convo

import (
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dirt/types"
)

type stubPlayer struct {
	money int
	left  bool
	time  int
}

func (p *stubPlayer) TakeDamage(float64) {}
func (p *stubPlayer) GainMoney(n int)    { p.money += n }
func (p *stubPlayer) LoseMoney(n int)    { p.money -= n }
func (p *stubPlayer) EnterMenu()         {}
func (p *stubPlayer) LeaveMenu()         {}
func (p *stubPlayer) EnterBattle(string) {}
func (p *stubPlayer) LeaveBattle()       {}
func (p *stubPlayer) PassTime()          { p.time++ }
func (p *stubPlayer) LeaveConversation() { p.left = true }

func lines(c *Conversation) []string {
	var out []string
	for _, e := range c.Log() {
		out = append(out, e.String())
	}
	return out
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestFeedPlayerMessage_Unmatched(t *testing.T) {
	c := New("Jyesula")
	c.Topic("ring", nil, func(c *Conversation, p types.Player) {
		c.LogNPC("The ring is mine.")
	})

	if c.FeedPlayerMessage("what is your name", &stubPlayer{}) {
		t.Error("expected no rule to fire")
	}
	want := []string{"what is your name"}
	if got := lines(c); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFeedPlayerMessage_Topic(t *testing.T) {
	c := New("Jyesula")
	c.Topic("cold garden", []string{"garden"}, func(c *Conversation, p types.Player) {
		c.LogNPC("It is always cold there.")
	})

	for _, input := range []string{"cold garden", "Ask Jyesula about the garden?", "what about the cold garden"} {
		if !c.FeedPlayerMessage(input, &stubPlayer{}) {
			t.Errorf("expected %q to fire the topic", input)
		}
	}
	if c.LogTotal() != 6 {
		t.Errorf("expected 6 entries logged, got %d", c.LogTotal())
	}
}

func TestFeedPlayerMessage_FirstRuleWins(t *testing.T) {
	c := New("Jyesula")
	var fired []string
	c.Verb(NewSimpleMatchingVerb("ring"), func(c *Conversation, p types.Player, args types.Args) {
		fired = append(fired, "verb")
	})
	c.Topic("ring", nil, func(c *Conversation, p types.Player) {
		fired = append(fired, "topic")
	})

	c.FeedPlayerMessage("ring", &stubPlayer{})
	c.FeedPlayerMessage("The RING!", &stubPlayer{})
	c.FeedPlayerMessage("what about ring", &stubPlayer{})

	want := []string{"verb", "verb", "topic"}
	if !reflect.DeepEqual(fired, want) {
		t.Errorf("expected %v, got %v", want, fired)
	}
}

func TestLogHelpers(t *testing.T) {
	c := New("Jyesula")
	c.LogNPC("Greetings.")
	c.LogNPCAs("Guard", "Halt.")
	c.LogNarrative("The Chairman broods.")

	want := []string{"Jyesula: Greetings.", "Guard: Halt.", "The Chairman broods."}
	if got := lines(c); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRunBeginHooks_AllRunInOrder(t *testing.T) {
	c := New("Jyesula")
	var order []string
	c.OnBegin(func(c *Conversation, p types.Player, circumstance string) {
		order = append(order, "first:"+circumstance)
	})
	c.OnBegin(func(c *Conversation, p types.Player, circumstance string) {
		order = append(order, "second:"+circumstance)
	})

	c.RunBeginHooks(&stubPlayer{}, "throneroom")

	want := []string{"first:throneroom", "second:throneroom"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestBuild(t *testing.T) {
	verbs := map[string]types.VerbDef{
		"hello": {Name: "hello", Phrases: []string{"hello", "hi"}},
		"bye":   {Name: "bye", Phrases: []string{"bye", "goodbye"}},
		"give":  {Name: "give", Pattern: `^give (?P<item>.+)$`},
	}
	def := types.ConversationDef{
		ID:   "jyesula",
		Name: "Jyesula",
		Begin: []types.BeginDef{
			{Circumstance: "throneroom", Effects: []types.Effect{
				{Type: "narrate", Params: map[string]any{"text": "The Chairman acknowledges your presence\nbut is engaged in brooding."}},
			}},
		},
		Rules: []types.RuleDef{
			{Kind: types.RuleVerb, Verb: "hello", Effects: []types.Effect{
				{Type: "npc", Params: map[string]any{"text": "Hello."}},
			}},
			{Kind: types.RuleVerb, Verb: "give", Effects: []types.Effect{
				{Type: "npc", Params: map[string]any{"text": "I have no use for {item}."}},
			}},
			{Kind: types.RuleTopic, Canonical: "money", Synonyms: []string{"coins"}, Effects: []types.Effect{
				{Type: "npc", Params: map[string]any{"text": "Take this."}},
				{Type: "gain_money", Params: map[string]any{"amount": 1}},
			}},
			{Kind: types.RuleVerb, Verb: "bye", Effects: []types.Effect{
				{Type: "end_conversation"},
			}},
		},
	}

	c, err := Build(def, verbs, quietLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(c.Rules()) != 4 {
		t.Fatalf("expected 4 rules, got %d", len(c.Rules()))
	}

	p := &stubPlayer{}
	c.RunBeginHooks(p, "street")
	if c.LogTotal() != 0 {
		t.Errorf("expected begin hook to ignore other circumstances, got %v", lines(c))
	}
	c.RunBeginHooks(p, "throneroom")
	c.FeedPlayerMessage("Hi!", p)
	c.FeedPlayerMessage("give a turnip", p)
	c.FeedPlayerMessage("ask about coins", p)

	// The narration and "Hi!" have dropped out of the five-entry log.
	want := []string{
		"Jyesula: Hello.",
		"give a turnip",
		"Jyesula: I have no use for a turnip.",
		"ask about coins",
		"Jyesula: Take this.",
	}
	if got := lines(c); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if p.money != 1 {
		t.Errorf("expected money 1, got %d", p.money)
	}

	c.FeedPlayerMessage("goodbye", p)
	if !p.left {
		t.Error("expected goodbye to end the conversation")
	}
}

func TestBuild_UnknownVerb(t *testing.T) {
	def := types.ConversationDef{
		ID:    "rat",
		Rules: []types.RuleDef{{Kind: types.RuleVerb, Verb: "squeak"}},
	}
	if _, err := Build(def, nil, quietLogger()); err == nil {
		t.Error("expected error for unknown verb")
	}
}

func TestBuild_DefaultsNameToID(t *testing.T) {
	c, err := Build(types.ConversationDef{ID: "guard"}, nil, quietLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if c.DefaultName != "guard" {
		t.Errorf("expected default name 'guard', got %q", c.DefaultName)
	}
}
