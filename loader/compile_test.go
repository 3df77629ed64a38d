package loader

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dirt/types"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := newVM()
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func run(t *testing.T, src string) *collector {
	t.Helper()
	L, coll := newTestVM()
	t.Cleanup(L.Close)
	if err := L.DoString(src); err != nil {
		t.Fatal(err)
	}
	return coll
}

func TestCompileGame(t *testing.T) {
	coll := run(t, `
		Game {
			title = "Test Game",
			author = "Author",
			version = "1.0",
			intro = "Welcome!",
			encounters = { rat = 2, guard = 1, jyesula = 5 },
		}
	`)

	game, err := compileGame(coll.game)
	if err != nil {
		t.Fatal(err)
	}
	if game.Title != "Test Game" {
		t.Errorf("Title = %q, want %q", game.Title, "Test Game")
	}
	if game.Author != "Author" {
		t.Errorf("Author = %q, want %q", game.Author, "Author")
	}
	if game.Version != "1.0" {
		t.Errorf("Version = %q, want %q", game.Version, "1.0")
	}
	if game.Intro != "Welcome!" {
		t.Errorf("Intro = %q, want %q", game.Intro, "Welcome!")
	}

	want := []types.EncounterDef{{NPC: "guard", Weight: 1}, {NPC: "jyesula", Weight: 5}, {NPC: "rat", Weight: 2}}
	if len(game.Encounters) != len(want) {
		t.Fatalf("expected %d encounters, got %d", len(want), len(game.Encounters))
	}
	for i := range want {
		if game.Encounters[i] != want[i] {
			t.Errorf("encounter %d = %+v, want %+v", i, game.Encounters[i], want[i])
		}
	}
}

func TestCompileGame_BadEncounters(t *testing.T) {
	coll := run(t, `Game { title = "T", encounters = { rat = "lots" } }`)
	if _, err := compileGame(coll.game); err == nil {
		t.Error("expected error for non-numeric encounter weight")
	}
}

func TestCompileVerb(t *testing.T) {
	coll := run(t, `
		Verb "hello" { "hello", "hi", "good day" }
		Verb "give" { pattern = "^give (?P<item>.+)$" }
	`)
	if len(coll.verbs) != 2 {
		t.Fatalf("expected 2 verbs, got %d", len(coll.verbs))
	}

	hello := compileVerb(coll.verbs[0])
	if hello.Name != "hello" {
		t.Errorf("Name = %q, want %q", hello.Name, "hello")
	}
	if strings.Join(hello.Phrases, "|") != "hello|hi|good day" {
		t.Errorf("Phrases = %v", hello.Phrases)
	}
	if hello.Pattern != "" {
		t.Errorf("expected no pattern, got %q", hello.Pattern)
	}

	give := compileVerb(coll.verbs[1])
	if give.Pattern != "^give (?P<item>.+)$" {
		t.Errorf("Pattern = %q", give.Pattern)
	}
	if len(give.Phrases) != 0 {
		t.Errorf("expected no phrases, got %v", give.Phrases)
	}
}

func TestCompileConversation(t *testing.T) {
	coll := run(t, `
		Conversation "jyesula" {
			name = "Jyesula",
			begin = {
				Begin("throneroom", { Narrate "Jyesula looks up." }),
				Begin({ Npc "Ah." }),
			},
			rules = {
				OnVerb("hello", { Npc "Greetings, child." }),
				Topic({ "ring", "my ring" }, { Npc("Find it.", "Jyesula"), GainMoney(3) }),
				Topic("bye", { EndConversation() }),
			},
		}
	`)

	conv, err := compileConversation(coll.conversations[0])
	if err != nil {
		t.Fatal(err)
	}
	if conv.ID != "jyesula" || conv.Name != "Jyesula" {
		t.Errorf("ID/Name = %q/%q", conv.ID, conv.Name)
	}

	if len(conv.Begin) != 2 {
		t.Fatalf("expected 2 begin hooks, got %d", len(conv.Begin))
	}
	if conv.Begin[0].Circumstance != "throneroom" {
		t.Errorf("begin 0 circumstance = %q", conv.Begin[0].Circumstance)
	}
	if conv.Begin[1].Circumstance != "" {
		t.Errorf("begin 1 circumstance = %q, want empty", conv.Begin[1].Circumstance)
	}
	if conv.Begin[0].Effects[0].Type != "narrate" {
		t.Errorf("begin 0 effect = %q", conv.Begin[0].Effects[0].Type)
	}

	if len(conv.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(conv.Rules))
	}
	if conv.Rules[0].Kind != types.RuleVerb || conv.Rules[0].Verb != "hello" {
		t.Errorf("rule 0 = %+v", conv.Rules[0])
	}

	ring := conv.Rules[1]
	if ring.Kind != types.RuleTopic || ring.Canonical != "ring" {
		t.Errorf("rule 1 = %+v", ring)
	}
	if len(ring.Synonyms) != 1 || ring.Synonyms[0] != "my ring" {
		t.Errorf("rule 1 synonyms = %v", ring.Synonyms)
	}
	if len(ring.Effects) != 2 {
		t.Fatalf("expected 2 effects, got %d", len(ring.Effects))
	}
	if ring.Effects[0].Params["name"] != "Jyesula" {
		t.Errorf("npc name = %v", ring.Effects[0].Params["name"])
	}
	if ring.Effects[1].Type != "gain_money" || ring.Effects[1].Params["amount"] != 3 {
		t.Errorf("effect 1 = %+v", ring.Effects[1])
	}

	if conv.Rules[2].Canonical != "bye" || len(conv.Rules[2].Synonyms) != 0 {
		t.Errorf("rule 2 = %+v", conv.Rules[2])
	}
}

func TestCompileConversation_BadRule(t *testing.T) {
	coll := run(t, `Conversation "x" { rules = { "not a rule" } }`)
	if _, err := compileConversation(coll.conversations[0]); err == nil {
		t.Error("expected error for non-table rule")
	}

	coll = run(t, `Conversation "x" { rules = { { kind = "sometimes", effects = {} } } }`)
	_, err := compileConversation(coll.conversations[0])
	if err == nil || !strings.Contains(err.Error(), "unknown rule kind") {
		t.Errorf("expected unknown rule kind error, got %v", err)
	}

	coll = run(t, `Conversation "x" { rules = { Topic({}, {}) } }`)
	if _, err := compileConversation(coll.conversations[0]); err == nil {
		t.Error("expected error for topic with no names")
	}
}

func TestCompileEffects_AllHelpers(t *testing.T) {
	coll := run(t, `
		Conversation "x" {
			rules = {
				Topic("all", {
					Npc "hi",
					Narrate "It rains.",
					EndConversation(),
					GainMoney(2),
					LoseMoney(1),
					TakeDamage(0.5),
					PassTime(),
					StartBattle "rat",
					StartDialogue "throne_room",
					Talk("jyesula", "throneroom"),
					Stop(),
				}),
			},
		}
	`)

	conv, err := compileConversation(coll.conversations[0])
	if err != nil {
		t.Fatal(err)
	}
	effs := conv.Rules[0].Effects

	tests := []struct {
		typ   string
		param string
		want  any
	}{
		{"npc", "text", "hi"},
		{"narrate", "text", "It rains."},
		{"end_conversation", "", nil},
		{"gain_money", "amount", 2},
		{"lose_money", "amount", 1},
		{"take_damage", "amount", 0.5},
		{"pass_time", "", nil},
		{"start_battle", "npc", "rat"},
		{"start_dialogue", "dialogue", "throne_room"},
		{"talk", "circumstance", "throneroom"},
		{"stop", "", nil},
	}
	if len(effs) != len(tests) {
		t.Fatalf("expected %d effects, got %d", len(tests), len(effs))
	}
	for i, tt := range tests {
		if effs[i].Type != tt.typ {
			t.Errorf("effect %d type = %q, want %q", i, effs[i].Type, tt.typ)
		}
		if tt.param != "" && effs[i].Params[tt.param] != tt.want {
			t.Errorf("effect %d %s = %v, want %v", i, tt.param, effs[i].Params[tt.param], tt.want)
		}
	}
}

func TestCompileDialogue(t *testing.T) {
	coll := run(t, `
		Dialogue "throne_room" {
			backdrop = "throne",
			Loop {
				Choose {
					Option "Bow" { Say "Manners." },
					Option "Talk" { Do { Talk "jyesula" } },
					Option "Depart" { Break() },
				},
			},
			BigMessage "Farewell.",
		}
	`)

	dlg, err := compileDialogue(coll.dialogues[0])
	if err != nil {
		t.Fatal(err)
	}
	if dlg.ID != "throne_room" || dlg.Backdrop != "throne" {
		t.Errorf("ID/Backdrop = %q/%q", dlg.ID, dlg.Backdrop)
	}
	if len(dlg.Body) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(dlg.Body))
	}

	loop := dlg.Body[0]
	if loop.Kind != types.NodeLoop || len(loop.Body) != 1 {
		t.Fatalf("node 0 = %+v", loop)
	}
	choose := loop.Body[0]
	if choose.Kind != types.NodeChoose || len(choose.Options) != 3 {
		t.Fatalf("loop body = %+v", choose)
	}

	labels := []string{"Bow", "Talk", "Depart"}
	kinds := []types.NodeKind{types.NodeSay, types.NodeDo, types.NodeBreak}
	for i, opt := range choose.Options {
		if opt.Label != labels[i] {
			t.Errorf("option %d label = %q, want %q", i, opt.Label, labels[i])
		}
		if len(opt.Body) != 1 || opt.Body[0].Kind != kinds[i] {
			t.Errorf("option %d body = %+v", i, opt.Body)
		}
	}
	if choose.Options[0].Body[0].Text != "Manners." {
		t.Errorf("say text = %q", choose.Options[0].Body[0].Text)
	}
	if eff := choose.Options[1].Body[0].Effects[0]; eff.Type != "talk" || eff.Params["npc"] != "jyesula" {
		t.Errorf("do effect = %+v", eff)
	}

	if dlg.Body[1].Kind != types.NodeBigMessage || dlg.Body[1].Text != "Farewell." {
		t.Errorf("node 1 = %+v", dlg.Body[1])
	}
}

func TestCompileDialogue_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bare string", `Dialogue "d" { "hello" }`, "not a dialogue node"},
		{"plain table", `Dialogue "d" { { text = "hi" } }`, "not a dialogue node"},
		{"unknown node", `Dialogue "d" { { node = "dance" } }`, "unknown dialogue node"},
		{"choice not option", `Dialogue "d" { Choose { Say "x" } }`, "not an Option"},
		{"nested error", `Dialogue "d" { Sequence { Loop { "oops" } } }`, "not a dialogue node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := run(t, tt.src)
			_, err := compileDialogue(coll.dialogues[0])
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestCompile_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"verb", `Verb "hi" { "hi" } Verb "hi" { "hello" }`},
		{"conversation", `Conversation "a" {} Conversation "a" {}`},
		{"dialogue", `Dialogue "a" { Say "x" } Dialogue "a" { Say "y" }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := run(t, `Game { title = "T" } `+tt.src)
			_, err := compile(coll)
			if err == nil || !strings.Contains(err.Error(), "duplicate") {
				t.Errorf("expected duplicate error, got %v", err)
			}
		})
	}
}

func TestCompile_NoGame(t *testing.T) {
	coll := run(t, `Verb "hi" { "hi" }`)
	if _, err := compile(coll); err == nil {
		t.Error("expected error without Game{}")
	}
}

func TestToGoValue(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	if err := L.DoString(`return { 1, 2.5, "x", true }`); err != nil {
		t.Fatal(err)
	}
	arr, ok := toGoValue(L.Get(-1)).([]any)
	if !ok || len(arr) != 4 {
		t.Fatalf("expected 4-element array, got %v", toGoValue(L.Get(-1)))
	}
	if arr[0] != 1 || arr[1] != 2.5 || arr[2] != "x" || arr[3] != true {
		t.Errorf("array = %v", arr)
	}

	if err := L.DoString(`return { a = 1, b = "two" }`); err != nil {
		t.Fatal(err)
	}
	m, ok := toGoValue(L.Get(-1)).(map[string]any)
	if !ok || m["a"] != 1 || m["b"] != "two" {
		t.Errorf("map = %v", m)
	}
}

func TestSandbox(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "rawset"} {
		if L.GetGlobal(name) != lua.LNil {
			t.Errorf("%s should be removed", name)
		}
	}
	if err := L.DoString(`math.randomseed(1)`); err == nil {
		t.Error("math.randomseed should be removed")
	}
	if err := L.DoString(`os.exit(1)`); err == nil {
		t.Error("os library should not be available")
	}
	if err := L.DoString(`local s = string.upper("ok")`); err != nil {
		t.Errorf("string library should work: %v", err)
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"z.lua", "game.lua", "a.lua"})
	want := []string{"game.lua", "a.lua", "z.lua"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}

	got = sortedLuaFiles([]string{"b.lua", "a.lua"})
	if strings.Join(got, ",") != "a.lua,b.lua" {
		t.Errorf("got %v", got)
	}
}
