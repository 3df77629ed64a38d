package director

import (
	"reflect"
	"testing"

	"github.com/nathoo/dirt/types"
)

func say(text string) types.Node { return types.Node{Kind: types.NodeSay, Text: text} }

func option(label string, body ...types.Node) types.Option {
	return types.Option{Label: label, Body: body}
}

func choose(opts ...types.Option) types.Node {
	return types.Node{Kind: types.NodeChoose, Options: opts}
}

func loop(body ...types.Node) types.Node { return types.Node{Kind: types.NodeLoop, Body: body} }

var breakNode = types.Node{Kind: types.NodeBreak}

// run feeds resumes to a task and records the commands it yields.
func run(task Task, resumes []Resume) []types.Command {
	var cmds []types.Command
	cmd, ok := task.Resume(Resume{})
	for i := 0; ok; i++ {
		cmds = append(cmds, cmd)
		r := Resume{}
		if i < len(resumes) {
			r = resumes[i]
		}
		cmd, ok = task.Resume(r)
	}
	return cmds
}

func TestTree_Sequence(t *testing.T) {
	body := []types.Node{
		{Kind: types.NodeBigMessage, Text: "Dear Lettre,"},
		{Kind: types.NodeSequence, Body: []types.Node{say("a"), say("b")}},
		say("c"),
	}

	got := run(Tree(body, nil)(), nil)
	want := []types.Command{
		{Kind: types.CommandBigMessage, Text: "Dear Lettre,"},
		{Kind: types.CommandSay, Text: "a"},
		{Kind: types.CommandSay, Text: "b"},
		{Kind: types.CommandSay, Text: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestTree_LoopWithChoiceAndBreak(t *testing.T) {
	body := []types.Node{
		loop(
			choose(
				option("Bow", say("You bow.")),
				option("Depart", breakNode),
			),
		),
		say("You leave."),
	}

	resumes := []Resume{
		{Index: 0, Chosen: true}, // Bow
		{},                       // say ends
		{Index: 0, Chosen: true}, // Bow
		{},                       // say ends
		{Index: 1, Chosen: true}, // Depart
	}
	got := run(Tree(body, nil)(), resumes)

	choices := types.Command{Kind: types.CommandChoose, Choices: []string{"Bow", "Depart"}}
	bow := types.Command{Kind: types.CommandSay, Text: "You bow."}
	want := []types.Command{
		choices, bow,
		choices, bow,
		choices,
		{Kind: types.CommandSay, Text: "You leave."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestTree_BreakLeavesInnermostLoopOnly(t *testing.T) {
	body := []types.Node{
		loop(
			say("outer"),
			loop(
				choose(option("again"), option("out", breakNode)),
			),
			choose(option("again"), option("quit", breakNode)),
		),
	}

	resumes := []Resume{
		{},                       // outer
		{Index: 0, Chosen: true}, // inner again
		{Index: 1, Chosen: true}, // inner out
		{Index: 1, Chosen: true}, // quit
	}
	got := run(Tree(body, nil)(), resumes)

	if len(got) != 4 {
		t.Fatalf("expected 4 commands, got %d: %+v", len(got), got)
	}
	if got[3].Choices[1] != "quit" {
		t.Errorf("expected outer choice after inner break, got %+v", got[3])
	}
}

func TestTree_BreakOutsideLoopEnds(t *testing.T) {
	body := []types.Node{say("a"), breakNode, say("never")}
	got := run(Tree(body, nil)(), nil)
	if len(got) != 1 {
		t.Errorf("expected break to end the script, got %+v", got)
	}
}

func TestTree_EmptyLoopDoesNotSpin(t *testing.T) {
	got := run(Tree([]types.Node{loop(), say("after")}, nil)(), nil)
	if len(got) != 1 || got[0].Text != "after" {
		t.Errorf("expected empty loop to be skipped, got %+v", got)
	}
}

func TestTree_WithDirector(t *testing.T) {
	body := []types.Node{
		loop(choose(
			option("Bow", say("The Chairman nods.")),
			option("Depart", breakNode),
		)),
	}

	d := New(WithSayTicks(2))
	d.Start(Tree(body, nil), &types.Image{Name: "throne_night"})

	if d.Mode() != types.ModeChoosing {
		t.Fatalf("expected choosing, got %s", d.Mode())
	}
	d.OnKey(types.KeyConfirm)
	if d.Mode() != types.ModeSaying || d.Text() != "The Chairman nods." {
		t.Fatalf("expected the bow line, got %s %q", d.Mode(), d.Text())
	}
	d.OnTick()
	d.OnTick()
	if d.Mode() != types.ModeChoosing {
		t.Fatalf("expected loop back to choosing, got %s", d.Mode())
	}
	d.OnKey(types.KeyDown)
	d.OnKey(types.KeyConfirm)
	if d.IsActive() {
		t.Error("expected Depart to end the dialogue")
	}
}

func TestTree_UnknownNodePanicsInDirector(t *testing.T) {
	d := New()
	expectPanic(t, "no such dialogue command: dance", func() {
		d.Start(Tree([]types.Node{{Kind: "dance"}}, nil), nil)
	})
}

func TestTree_Abandon(t *testing.T) {
	task := Tree([]types.Node{say("a"), say("b")}, nil)()
	if _, ok := task.Resume(Resume{}); !ok {
		t.Fatal("expected first command")
	}
	task.Abandon()
	if _, ok := task.Resume(Resume{}); ok {
		t.Error("expected abandoned task to yield nothing")
	}
}

func TestTree_DoRunsEffectsWithoutSuspending(t *testing.T) {
	var ran [][]types.Effect
	talk := []types.Effect{{Type: "talk", Params: map[string]any{"npc": "jyesula"}}}
	body := []types.Node{
		choose(option("Talk", types.Node{Kind: types.NodeDo, Effects: talk})),
		say("done"),
	}

	task := Tree(body, func(effs []types.Effect) { ran = append(ran, effs) })()
	got := run(task, []Resume{{Index: 0, Chosen: true}})

	if len(got) != 2 || got[1].Text != "done" {
		t.Errorf("expected choose then say, got %+v", got)
	}
	if !reflect.DeepEqual(ran, [][]types.Effect{talk}) {
		t.Errorf("expected talk effects once, got %+v", ran)
	}
}

func TestTree_DoStartingAnotherScript(t *testing.T) {
	d := New()
	next := Tree([]types.Node{{Kind: types.NodeBigMessage, Text: "It's locked."}}, nil)
	body := []types.Node{
		choose(option("Open", types.Node{Kind: types.NodeDo})),
		say("never shown"),
	}
	d.Start(Tree(body, func([]types.Effect) { d.Start(next, nil) }), nil)

	d.OnKey(types.KeyConfirm)

	if d.Mode() != types.ModeBigMessage || d.Text() != "It's locked." {
		t.Fatalf("expected the started script's message, got %s %q", d.Mode(), d.Text())
	}
}

func TestTree_LoopThatNeverWaitsPanics(t *testing.T) {
	tests := []struct {
		name string
		body []types.Node
	}{
		{"break of inner loop only", []types.Node{loop(loop(breakNode))}},
		{"do only", []types.Node{loop(types.Node{Kind: types.NodeDo})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			expectPanic(t, "dialogue loop never waits for the player", func() {
				d.Start(Tree(tt.body, nil), nil)
			})
			if d.IsActive() {
				t.Error("expected the director to be inactive after the panic")
			}
		})
	}
}

func TestTree_LoopAfterWaitingKeepsGoing(t *testing.T) {
	// The inner loop's break returns control to the outer loop, which
	// waited on its own say before coming round.
	body := []types.Node{loop(say("tick"), loop(breakNode))}
	task := Tree(body, nil)()
	for i := 0; i < 3; i++ {
		cmd, ok := task.Resume(Resume{})
		if !ok || cmd.Text != "tick" {
			t.Fatalf("pass %d: expected tick, got %+v %v", i, cmd, ok)
		}
	}
}

func TestTree_ChooseResumedWithoutChoicePanics(t *testing.T) {
	d := New()
	d.Start(Tree([]types.Node{choose(option("Bow"), option("Depart"))}, nil), nil)
	if d.Mode() != types.ModeChoosing {
		t.Fatalf("expected choosing, got %s", d.Mode())
	}
	expectPanic(t, "resumed without a choice", func() {
		d.Advance()
	})
}
