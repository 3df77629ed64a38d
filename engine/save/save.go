// Package save implements JSON serialization of the player's state.
// Dialogue scripts and conversation logs are never saved.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/dirt/engine/state"
	"github.com/nathoo/dirt/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version string            `json:"version"`
	Game    string            `json:"game"`
	Player  types.PlayerState `json:"player"`
	RNGSeed int64             `json:"rng_seed"`
	RNGPos  int64             `json:"rng_position"`
}

// Save serializes the player's state and the RNG's seed and position to
// JSON bytes.
func Save(ps types.PlayerState, defs *state.Defs, seed, rngPos int64) ([]byte, error) {
	data := SaveData{
		Version: defs.Game.Version,
		Game:    defs.Game.Title,
		Player:  ps,
		RNGSeed: seed,
		RNGPos:  rngPos,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData. Out-of-range values are
// clamped so a hand-edited save cannot break the clock or health display.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("parsing save: %w", err)
	}
	p := &sd.Player
	if p.MaxHealth <= 0 {
		p.MaxHealth = state.NewPlayerState().MaxHealth
	}
	p.Health = min(max(p.Health, 0), p.MaxHealth)
	p.Money = max(p.Money, 0)
	p.Minute = ((p.Minute % state.MinutesPerDay) + state.MinutesPerDay) % state.MinutesPerDay
	sd.RNGPos = max(sd.RNGPos, 0)
	return &sd, nil
}

// ApplySave copies loaded save data onto a player's state.
func ApplySave(ps *types.PlayerState, sd *SaveData) {
	*ps = sd.Player
}
