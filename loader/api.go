package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerRuleHelpers(L)
	registerEffectHelpers(L)
	registerNodeHelpers(L)
}

// curried returns a Lua function taking a name and returning a function
// that takes the definition table, so content can write Verb "hello" {...}.
func curried(L *lua.LState, add func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", intro = "...", encounters = {...} }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Verb "hello" { "hello", "hi" } or Verb "give" { pattern = "..." }
	L.SetGlobal("Verb", curried(L, func(id string, tbl *lua.LTable) {
		coll.verbs = append(coll.verbs, rawDef{id: id, table: tbl})
	}))

	// Conversation "jyesula" { name = "...", begin = {...}, rules = {...} }
	L.SetGlobal("Conversation", curried(L, func(id string, tbl *lua.LTable) {
		coll.conversations = append(coll.conversations, rawDef{id: id, table: tbl})
	}))

	// Dialogue "throne_room" { backdrop = "throne", <nodes> }
	L.SetGlobal("Dialogue", curried(L, func(id string, tbl *lua.LTable) {
		coll.dialogues = append(coll.dialogues, rawDef{id: id, table: tbl})
	}))
}

func registerRuleHelpers(L *lua.LState) {
	// Topic("ring", effects) or Topic({"ring", "my ring"}, effects).
	// The first name is canonical, the rest are synonyms.
	L.SetGlobal("Topic", L.NewFunction(func(L *lua.LState) int {
		names := L.Get(1)
		if _, ok := names.(lua.LString); !ok {
			names = L.CheckTable(1)
		}
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("topic"))
		tbl.RawSetString("names", names)
		tbl.RawSetString("effects", L.CheckTable(2))
		L.Push(tbl)
		return 1
	}))

	// OnVerb("hello", effects)
	L.SetGlobal("OnVerb", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("verb"))
		tbl.RawSetString("verb", lua.LString(L.CheckString(1)))
		tbl.RawSetString("effects", L.CheckTable(2))
		L.Push(tbl)
		return 1
	}))

	// Begin("throneroom", effects) runs under one circumstance;
	// Begin(effects) runs whenever the conversation starts.
	L.SetGlobal("Begin", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		if s, ok := L.Get(1).(lua.LString); ok {
			tbl.RawSetString("circumstance", s)
			tbl.RawSetString("effects", L.CheckTable(2))
		} else {
			tbl.RawSetString("effects", L.CheckTable(1))
		}
		L.Push(tbl)
		return 1
	}))
}

// effect builds an effect table of the given type.
func effect(L *lua.LState, typ string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	return tbl
}

func registerEffectHelpers(L *lua.LState) {
	// Npc("text") or Npc("text", "speaker")
	L.SetGlobal("Npc", L.NewFunction(func(L *lua.LState) int {
		tbl := effect(L, "npc")
		tbl.RawSetString("text", lua.LString(L.CheckString(1)))
		if name := L.OptString(2, ""); name != "" {
			tbl.RawSetString("name", lua.LString(name))
		}
		L.Push(tbl)
		return 1
	}))

	// Narrate("text")
	L.SetGlobal("Narrate", L.NewFunction(func(L *lua.LState) int {
		tbl := effect(L, "narrate")
		tbl.RawSetString("text", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// EndConversation()
	L.SetGlobal("EndConversation", L.NewFunction(func(L *lua.LState) int {
		L.Push(effect(L, "end_conversation"))
		return 1
	}))

	// GainMoney(n), LoseMoney(n), TakeDamage(n)
	for name, typ := range map[string]string{
		"GainMoney":  "gain_money",
		"LoseMoney":  "lose_money",
		"TakeDamage": "take_damage",
	} {
		typ := typ
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := effect(L, typ)
			tbl.RawSetString("amount", L.CheckNumber(1))
			L.Push(tbl)
			return 1
		}))
	}

	// PassTime()
	L.SetGlobal("PassTime", L.NewFunction(func(L *lua.LState) int {
		L.Push(effect(L, "pass_time"))
		return 1
	}))

	// StartBattle("rat")
	L.SetGlobal("StartBattle", L.NewFunction(func(L *lua.LState) int {
		tbl := effect(L, "start_battle")
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// StartDialogue("throne_room")
	L.SetGlobal("StartDialogue", L.NewFunction(func(L *lua.LState) int {
		tbl := effect(L, "start_dialogue")
		tbl.RawSetString("dialogue", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// Talk("jyesula") or Talk("jyesula", "throneroom")
	L.SetGlobal("Talk", L.NewFunction(func(L *lua.LState) int {
		tbl := effect(L, "talk")
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		if c := L.OptString(2, ""); c != "" {
			tbl.RawSetString("circumstance", lua.LString(c))
		}
		L.Push(tbl)
		return 1
	}))

	// Stop()
	L.SetGlobal("Stop", L.NewFunction(func(L *lua.LState) int {
		L.Push(effect(L, "stop"))
		return 1
	}))
}

// dialogueNode builds a dialogue node table of the given kind.
func dialogueNode(L *lua.LState, kind string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("node", lua.LString(kind))
	return tbl
}

func registerNodeHelpers(L *lua.LState) {
	// Say "text", BigMessage "text"
	for name, kind := range map[string]string{
		"Say":        "say",
		"BigMessage": "big_message",
	} {
		kind := kind
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := dialogueNode(L, kind)
			tbl.RawSetString("text", lua.LString(L.CheckString(1)))
			L.Push(tbl)
			return 1
		}))
	}

	// Choose { Option "Bow" {...}, ... }
	L.SetGlobal("Choose", L.NewFunction(func(L *lua.LState) int {
		tbl := dialogueNode(L, "choose")
		tbl.RawSetString("options", L.CheckTable(1))
		L.Push(tbl)
		return 1
	}))

	// Option "Bow" { <nodes> }
	L.SetGlobal("Option", L.NewFunction(func(L *lua.LState) int {
		label := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := dialogueNode(L, "option")
			tbl.RawSetString("label", lua.LString(label))
			tbl.RawSetString("body", L.CheckTable(1))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Loop { <nodes> }, Sequence { <nodes> }
	for name, kind := range map[string]string{
		"Loop":     "loop",
		"Sequence": "sequence",
	} {
		kind := kind
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := dialogueNode(L, kind)
			tbl.RawSetString("body", L.CheckTable(1))
			L.Push(tbl)
			return 1
		}))
	}

	// Break()
	L.SetGlobal("Break", L.NewFunction(func(L *lua.LState) int {
		L.Push(dialogueNode(L, "break"))
		return 1
	}))

	// Do { <effects> }
	L.SetGlobal("Do", L.NewFunction(func(L *lua.LState) int {
		tbl := dialogueNode(L, "do")
		tbl.RawSetString("effects", L.CheckTable(1))
		L.Push(tbl)
		return 1
	}))
}
