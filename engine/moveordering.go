package engine

import (
	gm "drake-engine/drakemg"
)

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 9}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 19}, // victim Knight
	{0, 34, 33, 32, 31, 30, 29}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 39}, // victim Rook
	{0, 54, 53, 52, 51, 50, 49}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},
}

/*
	Move ordering offsets.
	- The TT move goes first: it guided us here, so it is the best guess for a
	  quick cutoff.
	- Winning captures (SEE >= 0) next, ordered MVV-LVA + SEE.
	- Promotions right behind; a new queen is usually a winning capture in slow
	  motion.
	- Killers and counters ahead of the quiet mass; history orders the rest.
	- Losing captures drop below the killers but stay above plain history
	  quiets, so obvious sacrifices still get a look before shuffling moves.
*/
const (
	ttMoveScore       int32 = 1 << 20
	goodCaptureOffset int32 = 1 << 18
	promotionOffset   int32 = 1 << 17
	killerOffset      int32 = 1 << 16
	badCaptureOffset  int32 = 1 << 14
	counterBonus      int32 = 1 << 10
)

type scoredMove struct {
	move  gm.Move
	score int32
}

// movePicker scores every move once up front, then hands them out best-first
// with an O(n) selection per call. Cheaper than a full sort when the first
// few moves already cut.
type movePicker struct {
	moves [gm.MaxMoves]scoredMove
	count int
	index int
}

// next returns the best remaining move, or ok=false when exhausted.
func (mp *movePicker) next() (m gm.Move, ok bool) {
	if mp.index >= mp.count {
		return gm.NullMove, false
	}
	best := mp.index
	for i := mp.index + 1; i < mp.count; i++ {
		if mp.moves[i].score > mp.moves[best].score {
			best = i
		}
	}
	mp.moves[mp.index], mp.moves[best] = mp.moves[best], mp.moves[mp.index]
	m = mp.moves[mp.index].move
	mp.index++
	return m, true
}

// newMovePicker scores a main-search move list. ttMove dominates everything;
// captures split into winning and losing by SEE; quiets take killer, counter
// and history scores.
func newMovePicker(b *gm.Board, buf *gm.MoveBuffer, ttMove gm.Move, ply int, prevMove gm.Move) movePicker {
	var mp movePicker
	side := int(b.SideToMove())

	for i, move := range buf.Slice() {
		var score int32
		switch {
		case move == ttMove && ttMove != gm.NullMove:
			score = ttMoveScore
		case move.IsCapture():
			victim := b.PieceAt(move.To()).Type()
			if move.IsEnPassant() {
				victim = gm.PieceTypePawn
			}
			attacker := b.PieceAt(move.From()).Type()
			seeScore := see(b, move)
			if seeScore >= 0 {
				score = goodCaptureOffset + mvvLva[victim][attacker] + seeScore
			} else {
				score = badCaptureOffset + seeScore
			}
			if move.IsPromotion() {
				score += seeValue[move.PromotionPieceType()]
			}
		case move.IsPromotion():
			score = promotionOffset + seeValue[move.PromotionPieceType()]
		case killerMoveTable.KillerMoves[ply][0] == move:
			score = killerOffset + 1
		case killerMoveTable.KillerMoves[ply][1] == move:
			score = killerOffset
		default:
			score = historyMove[side][move.From()][move.To()]
			if prevMove != gm.NullMove && counterMove[side][prevMove.From()][prevMove.To()] == move {
				score += counterBonus
			}
		}
		mp.moves[i] = scoredMove{move: move, score: score}
	}
	mp.count = buf.Len()
	return mp
}

// newQuiescencePicker scores a captures/evasions list for quiescence:
// MVV-LVA + SEE for captures, promotions below them with the queen first.
// No killers, no history.
func newQuiescencePicker(b *gm.Board, buf *gm.MoveBuffer) movePicker {
	var mp movePicker
	for i, move := range buf.Slice() {
		var score int32
		switch {
		case move.IsCapture():
			victim := b.PieceAt(move.To()).Type()
			if move.IsEnPassant() {
				victim = gm.PieceTypePawn
			}
			attacker := b.PieceAt(move.From()).Type()
			score = goodCaptureOffset + mvvLva[victim][attacker] + see(b, move)
			if move.IsPromotion() {
				score += seeValue[move.PromotionPieceType()]
			}
		case move.IsPromotion():
			score = promotionOffset
			if move.PromotionPieceType() == gm.PieceTypeQueen {
				score += seeValue[gm.PieceTypeQueen]
			}
		}
		mp.moves[i] = scoredMove{move: move, score: score}
	}
	mp.count = buf.Len()
	return mp
}
