package loader

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dirt/engine"
	"github.com/nathoo/dirt/types"
)

func TestLoad_MinimalGame(t *testing.T) {
	defs, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Minimal Test Game" {
		t.Errorf("Title = %q, want %q", defs.Game.Title, "Minimal Test Game")
	}
	if len(defs.Conversations) != 0 || len(defs.Dialogues) != 0 || len(defs.Verbs) != 0 {
		t.Errorf("expected empty content, got %d conversations, %d dialogues, %d verbs",
			len(defs.Conversations), len(defs.Dialogues), len(defs.Verbs))
	}
	if len(defs.Game.Encounters) != 0 {
		t.Errorf("expected no encounter table, got %v", defs.Game.Encounters)
	}
}

func TestLoad_FullGame(t *testing.T) {
	defs, err := Load("testdata/full",
		WithScripts("tavern"),
		WithOpponents("guard", "jyesula", "proselytizer", "rat"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Full Test Game" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	if defs.Game.Author != "Tester" {
		t.Errorf("Author = %q", defs.Game.Author)
	}
	if !strings.HasPrefix(defs.Game.Intro, "Dear Jyesula,\n\n") {
		t.Errorf("Intro = %q", defs.Game.Intro)
	}
	if len(defs.Game.Encounters) != 2 || defs.Game.Encounters[1] != (types.EncounterDef{NPC: "rat", Weight: 3}) {
		t.Errorf("Encounters = %v", defs.Game.Encounters)
	}

	// Verbs.
	if len(defs.Verbs) != 2 {
		t.Errorf("expected 2 verbs, got %d", len(defs.Verbs))
	}
	if defs.Verbs["give"].Pattern == "" {
		t.Error("verb 'give' should have a pattern")
	}

	// Conversations.
	jy, ok := defs.Conversations["jyesula"]
	if !ok {
		t.Fatal("conversation 'jyesula' not found")
	}
	if jy.Name != "Jyesula" {
		t.Errorf("Name = %q", jy.Name)
	}
	if len(jy.Begin) != 2 || len(jy.Rules) != 4 {
		t.Errorf("expected 2 begin hooks and 4 rules, got %d and %d", len(jy.Begin), len(jy.Rules))
	}

	// Dialogues, from a file loaded after game.lua.
	if ids := defs.DialogueIDs(); strings.Join(ids, ",") != "letter,throne_room" {
		t.Errorf("DialogueIDs = %v", ids)
	}
	if defs.Dialogues["throne_room"].Backdrop != "throne" {
		t.Errorf("Backdrop = %q", defs.Dialogues["throne_room"].Backdrop)
	}
}

func TestLoad_UnknownScript(t *testing.T) {
	// Without WithScripts the letter dialogue starts an unknown dialogue.
	_, err := Load("testdata/full")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 1 || !strings.Contains(ve.Errors[0], `"tavern"`) {
		t.Errorf("Errors = %v", ve.Errors)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"missing dir", "testdata/nope", "reading game directory"},
		{"no lua files", "testdata/empty", "no .lua files"},
		{"bad lua", "testdata/bad_lua", "executing game.lua"},
		{"no game", "testdata/no_game", "no Game{} definition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_Logging(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if _, err := Load("testdata/minimal", WithLogger(log)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "executing content file") {
		t.Errorf("expected per-file debug line, got:\n%s", out)
	}
	if !strings.Contains(out, "content loaded") {
		t.Errorf("expected summary line, got:\n%s", out)
	}
}

func TestLoad_ShippedContent(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	defs, err := Load("../content",
		WithLogger(log),
		WithScripts(engine.ScriptIDs()...),
		WithOpponents(engine.OpponentIDs()...))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if strings.Contains(buf.String(), "level=warning") {
		t.Errorf("expected no content warnings, got:\n%s", buf.String())
	}
	if !strings.HasSuffix(defs.Game.Intro, "-Mayor of Anstre") {
		t.Errorf("Intro = %q", defs.Game.Intro)
	}
	for _, id := range []string{"throne_room", "ghost", "locked", "guard_blocks"} {
		if _, ok := defs.Dialogues[id]; !ok {
			t.Errorf("missing dialogue %q", id)
		}
	}
	if defs.Conversations["jyesula"].Name != "Jyesula" {
		t.Errorf("jyesula conversation = %+v", defs.Conversations["jyesula"])
	}
}
