package engine

import (
	"fmt"

	gm "drake-engine/drakemg"
)

var counterMove [2][64][64]gm.Move
var historyMove [2][64][64]int32
var historyMaxVal int32 = 10000 // Ensure we stay below the captures, countermoves etc

/*
	HISTORY/COUNTER MOVES
	If a move was a cut-node (above beta), and not a capture, we keep track of two things:
	The move that countered us (previous move made) - a counter move
	A historical score of the move - since we know it was a good move to keep track of, we make sure we can use this for move ordering later
*/
func storeCounter(side gm.Color, prevMove gm.Move, move gm.Move) {
	if prevMove == gm.NullMove {
		return
	}
	counterMove[side][prevMove.From()][prevMove.To()] = move
}

// Increment the history score for the given move if it caused a beta-cutoff and is quiet.
func incrementHistoryScore(side gm.Color, move gm.Move, depth int) {
	historyMove[side][move.From()][move.To()] += int32(depth * depth)
	if historyMove[side][move.From()][move.To()] >= historyMaxVal {
		ageHistoryTable(side)
	}
}

// Decrement the history score for the given move if it didn't cause a beta-cutoff and is quiet.
func decrementHistoryScore(side gm.Color, move gm.Move) {
	if historyMove[side][move.From()][move.To()] > 0 {
		historyMove[side][move.From()][move.To()]--
	}
}

// Age the values in the history table by halving them.
func ageHistoryTable(side gm.Color) {
	for sq1 := 0; sq1 < 64; sq1++ {
		for sq2 := 0; sq2 < 64; sq2++ {
			historyMove[side][sq1][sq2] /= 2
		}
	}
}

// ClearHistoryTable zeroes both sides' history scores.
func ClearHistoryTable() {
	for sq1 := 0; sq1 < 64; sq1++ {
		for sq2 := 0; sq2 < 64; sq2++ {
			historyMove[0][sq1][sq2] = 0
			historyMove[1][sq1][sq2] = 0
		}
	}
}

// PVLine collects the principal variation as the search unwinds.
type PVLine struct {
	Moves []gm.Move
}

// Update sets this line to move followed by the child's line.
func (pv *PVLine) Update(move gm.Move, child *PVLine) {
	pv.Moves = pv.Moves[:0]
	pv.Moves = append(pv.Moves, move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clear drops the collected moves but keeps the storage.
func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Clone copies the line into fresh storage.
func (pv *PVLine) Clone() PVLine {
	out := PVLine{Moves: make([]gm.Move, len(pv.Moves))}
	copy(out.Moves, pv.Moves)
	return out
}

// GetPVMove returns the first move of the line, or NullMove when empty.
func (pv *PVLine) GetPVMove() gm.Move {
	if len(pv.Moves) == 0 {
		return gm.NullMove
	}
	return pv.Moves[0]
}

func getPVLineString(pv PVLine) (theMoves string) {
	for _, move := range pv.Moves {
		theMoves += " "
		theMoves += move.String()
	}
	return theMoves
}

// getMateOrCPScore renders a score for a UCI info line: "cp N" for ordinary
// scores, "mate N" in moves (not plies) once past the mate threshold.
func getMateOrCPScore(score int32) string {
	if score >= Checkmate {
		pliesToMate := MaxScore - score
		if pliesToMate < 0 {
			pliesToMate = 0
		}
		return fmt.Sprintf("mate %d", (pliesToMate+1)/2)
	}
	if score <= -Checkmate {
		pliesToMate := MaxScore + score
		if pliesToMate < 0 {
			pliesToMate = 0
		}
		return fmt.Sprintf("mate %d", -(pliesToMate+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// hasNonPawnMaterial reports whether the side still owns a knight, bishop,
// rook or queen. Null-move pruning is unsound without one (zugzwang).
func hasNonPawnMaterial(b *gm.Board, side gm.Color) bool {
	own := b.Bitboards(side)
	return own.Knights|own.Bishops|own.Rooks|own.Queens != 0
}

// gamePhase mirrors the evaluation's phase: non-pawn material scaled into
// [0, TotalPhase], full board = TotalPhase.
func gamePhase(b *gm.Board) int {
	white := b.WhiteBitboards()
	black := b.BlackBitboards()
	phase := gm.PopCount(white.Knights|black.Knights)*KnightPhase +
		gm.PopCount(white.Bishops|black.Bishops)*BishopPhase +
		gm.PopCount(white.Rooks|black.Rooks)*RookPhase +
		gm.PopCount(white.Queens|black.Queens)*QueenPhase
	if phase > TotalPhase {
		phase = TotalPhase
	}
	return phase
}

// ResetForNewGame clears every table that carries information between
// searches: TT, killers, history, countermoves and the repetition stack.
func ResetForNewGame() {
	if TT.isInitialized {
		TT.Clear()
	}
	killerMoveTable.ClearKillers()
	ClearHistoryTable()
	stateStack = stateStack[:0]
	for i := 0; i < 64; i++ {
		for z := 0; z < 64; z++ {
			counterMove[0][i][z] = gm.NullMove
			counterMove[1][i][z] = gm.NullMove
		}
	}
}

// computeLMRReduction looks up the precomputed reduction and nudges it by the
// move's history: well-scoring quiets get searched a bit deeper, hopeless
// late ones a bit shallower.
func computeLMRReduction(depth, moveIdx int, historyScore int32) int {
	d := Clamp(depth, 0, MaxDepth)
	m := Clamp(moveIdx, 0, 99)
	r := int(LMR[d][m])

	if r > 0 && historyScore > 0 {
		bonus := int(historyScore / 4000)
		if bonus > 2 {
			bonus = 2
		}
		if bonus > r {
			bonus = r
		}
		r -= bonus
	}
	if historyScore <= 0 && moveIdx > 12 {
		r++
	}
	return r
}
