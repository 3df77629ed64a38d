package save

import (
	"encoding/json"
	"testing"

	"github.com/nathoo/dirt/engine/state"
	"github.com/nathoo/dirt/types"
)

func testDefs() *state.Defs {
	d := state.NewDefs()
	d.Game = types.GameDef{Title: "Dirt", Version: "1.0"}
	return d
}

func TestRoundTrip(t *testing.T) {
	defs := testDefs()
	ps := state.NewPlayerState()
	ps.Health = 1.5
	ps.Money = 7
	ps.Minute = 19 * 60
	ps.Frame = 1234

	data, err := Save(ps, defs, 42, 17)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Game != "Dirt" || sd.Version != "1.0" {
		t.Errorf("expected game Dirt 1.0, got %s %s", sd.Game, sd.Version)
	}
	if sd.RNGSeed != 42 || sd.RNGPos != 17 {
		t.Errorf("expected seed 42 at 17, got %d at %d", sd.RNGSeed, sd.RNGPos)
	}

	var restored types.PlayerState
	ApplySave(&restored, sd)
	if restored != ps {
		t.Errorf("expected %+v, got %+v", ps, restored)
	}
}

func TestSave_JSONKeys(t *testing.T) {
	data, err := Save(state.NewPlayerState(), testDefs(), 0, 0)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	player, ok := raw["player"].(map[string]any)
	if !ok {
		t.Fatalf("expected player object, got %T", raw["player"])
	}
	for _, key := range []string{"health", "max_health", "money", "minute", "frame"} {
		if _, ok := player[key]; !ok {
			t.Errorf("expected player key %q", key)
		}
	}
}

func TestLoad_Clamps(t *testing.T) {
	sd, err := Load([]byte(`{"player": {"health": 9, "max_health": 3, "money": -4, "minute": 1500}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Player.Health != 3 {
		t.Errorf("expected health clamped to 3, got %v", sd.Player.Health)
	}
	if sd.Player.Money != 0 {
		t.Errorf("expected money clamped to 0, got %d", sd.Player.Money)
	}
	if sd.Player.Minute != 60 {
		t.Errorf("expected minute wrapped to 60, got %d", sd.Player.Minute)
	}
}

func TestLoad_MissingMaxHealth(t *testing.T) {
	sd, err := Load([]byte(`{"player": {"health": 2}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Player.MaxHealth != 3 {
		t.Errorf("expected default max health 3, got %v", sd.Player.MaxHealth)
	}
	if sd.Player.Health != 2 {
		t.Errorf("expected health 2, got %v", sd.Player.Health)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	if _, err := Load([]byte(`{not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
