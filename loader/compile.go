// Package loader compiles Lua game content into Go structs. The Lua VM is
// discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dirt/engine/state"
	"github.com/nathoo/dirt/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// arrayPart returns the values of tbl's array part, in order.
func arrayPart(tbl *lua.LTable) []lua.LValue {
	if tbl == nil {
		return nil
	}
	n := tbl.MaxN()
	out := make([]lua.LValue, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, tbl.RawGetInt(i))
	}
	return out
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := state.NewDefs()

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	game, err := compileGame(coll.game)
	if err != nil {
		return nil, fmt.Errorf("compiling game: %w", err)
	}
	defs.Game = game

	for _, raw := range coll.verbs {
		if _, dup := defs.Verbs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate verb %q", raw.id)
		}
		defs.Verbs[raw.id] = compileVerb(raw)
	}

	for _, raw := range coll.conversations {
		if _, dup := defs.Conversations[raw.id]; dup {
			return nil, fmt.Errorf("duplicate conversation %q", raw.id)
		}
		conv, err := compileConversation(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling conversation %s: %w", raw.id, err)
		}
		defs.Conversations[raw.id] = conv
	}

	for _, raw := range coll.dialogues {
		if _, dup := defs.Dialogues[raw.id]; dup {
			return nil, fmt.Errorf("duplicate dialogue %q", raw.id)
		}
		dlg, err := compileDialogue(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling dialogue %s: %w", raw.id, err)
		}
		defs.Dialogues[raw.id] = dlg
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) (types.GameDef, error) {
	game := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}

	// encounters = { rat = 2, guard = 1 }, sorted by name so that weighted
	// draws are reproducible.
	if enc := getTable(tbl, "encounters"); enc != nil {
		var err error
		enc.ForEach(func(k, v lua.LValue) {
			name, ok := k.(lua.LString)
			weight, isNum := v.(lua.LNumber)
			if !ok || !isNum {
				err = fmt.Errorf("encounters must map opponent names to weights")
				return
			}
			game.Encounters = append(game.Encounters, types.EncounterDef{NPC: string(name), Weight: int(weight)})
		})
		if err != nil {
			return types.GameDef{}, err
		}
		sort.Slice(game.Encounters, func(i, j int) bool {
			return game.Encounters[i].NPC < game.Encounters[j].NPC
		})
	}
	return game, nil
}

func compileVerb(raw rawDef) types.VerbDef {
	vd := types.VerbDef{
		Name:    raw.id,
		Pattern: getString(raw.table, "pattern"),
	}
	for _, v := range arrayPart(raw.table) {
		if s, ok := v.(lua.LString); ok {
			vd.Phrases = append(vd.Phrases, string(s))
		}
	}
	return vd
}

func compileConversation(raw rawDef) (types.ConversationDef, error) {
	conv := types.ConversationDef{
		ID:   raw.id,
		Name: getString(raw.table, "name"),
	}

	for i, v := range arrayPart(getTable(raw.table, "begin")) {
		tbl, ok := v.(*lua.LTable)
		if !ok {
			return conv, fmt.Errorf("begin entry %d is not a Begin(...)", i+1)
		}
		conv.Begin = append(conv.Begin, types.BeginDef{
			Circumstance: getString(tbl, "circumstance"),
			Effects:      compileEffects(getTable(tbl, "effects")),
		})
	}

	for i, v := range arrayPart(getTable(raw.table, "rules")) {
		tbl, ok := v.(*lua.LTable)
		if !ok {
			return conv, fmt.Errorf("rule %d is not a Topic(...) or OnVerb(...)", i+1)
		}
		rule, err := compileRule(tbl)
		if err != nil {
			return conv, fmt.Errorf("rule %d: %w", i+1, err)
		}
		conv.Rules = append(conv.Rules, rule)
	}
	return conv, nil
}

func compileRule(tbl *lua.LTable) (types.RuleDef, error) {
	rule := types.RuleDef{
		Kind:    types.RuleKind(getString(tbl, "kind")),
		Effects: compileEffects(getTable(tbl, "effects")),
	}
	switch rule.Kind {
	case types.RuleTopic:
		var names []string
		switch n := tbl.RawGetString("names").(type) {
		case lua.LString:
			names = []string{string(n)}
		case *lua.LTable:
			for _, v := range arrayPart(n) {
				if s, ok := v.(lua.LString); ok {
					names = append(names, string(s))
				}
			}
		}
		if len(names) == 0 {
			return rule, fmt.Errorf("topic has no names")
		}
		rule.Canonical = names[0]
		rule.Synonyms = names[1:]
	case types.RuleVerb:
		rule.Verb = getString(tbl, "verb")
	default:
		return rule, fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
	return rule, nil
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	for _, v := range arrayPart(tbl) {
		if effTbl, ok := v.(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	}
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	effType := getString(tbl, "type")
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			key := string(ks)
			if key != "type" {
				params[key] = toGoValue(v)
			}
		}
	})
	return types.Effect{
		Type:   effType,
		Params: params,
	}
}

func compileDialogue(raw rawDef) (types.DialogueDef, error) {
	body, err := compileNodes(raw.table)
	if err != nil {
		return types.DialogueDef{}, err
	}
	return types.DialogueDef{
		ID:       raw.id,
		Backdrop: getString(raw.table, "backdrop"),
		Body:     body,
	}, nil
}

func compileNodes(tbl *lua.LTable) ([]types.Node, error) {
	var nodes []types.Node
	for i, v := range arrayPart(tbl) {
		nodeTbl, ok := v.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("entry %d is not a dialogue node", i+1)
		}
		n, err := compileNode(nodeTbl)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func compileNode(tbl *lua.LTable) (types.Node, error) {
	n := types.Node{Kind: types.NodeKind(getString(tbl, "node"))}
	var err error

	switch n.Kind {
	case types.NodeSay, types.NodeBigMessage:
		n.Text = getString(tbl, "text")

	case types.NodeChoose:
		for i, v := range arrayPart(getTable(tbl, "options")) {
			optTbl, ok := v.(*lua.LTable)
			if !ok || getString(optTbl, "node") != "option" {
				return n, fmt.Errorf("choice %d is not an Option", i+1)
			}
			body, err := compileNodes(getTable(optTbl, "body"))
			if err != nil {
				return n, fmt.Errorf("option %q: %w", getString(optTbl, "label"), err)
			}
			n.Options = append(n.Options, types.Option{Label: getString(optTbl, "label"), Body: body})
		}

	case types.NodeLoop, types.NodeSequence:
		n.Body, err = compileNodes(getTable(tbl, "body"))

	case types.NodeBreak:

	case types.NodeDo:
		n.Effects = compileEffects(getTable(tbl, "effects"))

	case "":
		return n, fmt.Errorf("table is not a dialogue node")

	default:
		return n, fmt.Errorf("unknown dialogue node %q", n.Kind)
	}
	return n, err
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
