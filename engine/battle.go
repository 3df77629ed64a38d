package engine

import "github.com/nathoo/dirt/types"

// BattleOptions returns the battle menu entries, or nil outside battle.
func (g *Game) BattleOptions() []string {
	if g.opponent == nil {
		return nil
	}
	return g.opponent.Options(g.player)
}

// Selection returns the highlighted battle menu entry, clamped to the
// options currently on offer.
func (g *Game) Selection() int {
	return clampSelection(g.selection, len(g.BattleOptions()))
}

// battleKey moves through the battle menu and carries out the confirmed
// option. The options can shrink between frames, so the selection is
// clamped before every use.
func (g *Game) battleKey(k types.Key) {
	options := g.BattleOptions()
	if len(options) == 0 {
		return
	}
	g.selection = clampSelection(g.selection, len(options))

	switch k {
	case types.KeyUp:
		if g.selection > 0 {
			g.selection--
		}
	case types.KeyDown:
		if g.selection < len(options)-1 {
			g.selection++
		}
	case types.KeyConfirm:
		g.opponent.Suffer(g.player, options[g.selection])
	}
}

func clampSelection(sel, n int) int {
	if sel >= n {
		sel = n - 1
	}
	return max(sel, 0)
}
