package engine

import (
	gm "drake-engine/drakemg"
)

// KillerStruct tracks the two most recent quiet moves that caused a beta
// cutoff at each ply.
type KillerStruct struct {
	KillerMoves [MaxDepth + 1][2]gm.Move
}

func (k *KillerStruct) InsertKiller(move gm.Move, ply int) {
	if ply < 0 || ply > MaxDepth {
		return
	}
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// ClearKillers resets the killer move table.
func (k *KillerStruct) ClearKillers() {
	for ply := 0; ply <= MaxDepth; ply++ {
		k.KillerMoves[ply][0] = gm.NullMove
		k.KillerMoves[ply][1] = gm.NullMove
	}
}
