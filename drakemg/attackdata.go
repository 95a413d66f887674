package drakemg

// AttackData holds everything move generation needs to emit strictly legal
// moves in one pass: who checks the king, which ray can block the check,
// which pieces are pinned, and the full opponent attack map.
type AttackData struct {
	KingSq      Square
	InCheck     bool
	DoubleCheck bool

	// CheckerMask holds the squares of all checking pieces.
	CheckerMask uint64
	// CheckRayMask constrains non-king move targets while in check: the
	// squares that block the check or capture the checker. All ones when not
	// in check, empty under double check (only the king may move).
	CheckRayMask uint64
	// PinMask holds the squares of friendly pieces pinned to the king. A
	// pinned piece may only move along Line(kingSq, pieceSq).
	PinMask uint64
	// OppAttacks is the union of all opponent attack sets, computed with the
	// friendly king removed from occupancy so the king cannot step away
	// along a slider's line.
	OppAttacks uint64
}

// ComputeAttackData analyzes checks, pins and opponent attacks for the given
// side in a single pass over the enemy pieces.
func (b *Board) ComputeAttackData(us Color) AttackData {
	ad := AttackData{KingSq: b.KingSquare(us), CheckRayMask: ^uint64(0)}
	if ad.KingSq == NoSquare {
		// No king: neutral masks, every target allowed.
		return ad
	}

	them := us.Flip()
	ksq := ad.KingSq
	occ := b.AllOccupancy()
	friendly := b.occupancy[us]

	theirRooks := b.rooks[them] | b.queens[them]
	theirBishops := b.bishops[them] | b.queens[them]

	checkers := 0

	// Slider checks and pins, per axis. Attacks from the king square over an
	// occupancy with friendly pieces removed expose both direct checkers and
	// the sliders a single friendly piece is shielding the king from.
	for _, axis := range [2]struct {
		sliders uint64
		attacks func(Square, uint64) uint64
	}{
		{theirRooks, RookAttacks},
		{theirBishops, BishopAttacks},
	} {
		if axis.sliders == 0 {
			continue
		}
		xray := axis.attacks(ksq, occ&^friendly) & axis.sliders
		for s := xray; s != 0; {
			sliderSq := Square(popLSB(&s))
			blockers := betweenMask[ksq][sliderSq] & friendly
			switch PopCount(blockers) {
			case 0:
				// Direct check.
				checkers++
				ad.CheckerMask |= bb(sliderSq)
				if checkers == 1 {
					ad.CheckRayMask = betweenMask[ksq][sliderSq] | bb(sliderSq)
				}
			case 1:
				// Exactly one friendly piece between king and slider: pinned.
				ad.PinMask |= blockers
			}
		}
	}

	// Knight and pawn checks cannot be blocked, only captured.
	if n := knightMoves[ksq] & b.knights[them]; n != 0 {
		checkers += PopCount(n)
		ad.CheckerMask |= n
		if checkers == 1 {
			ad.CheckRayMask = n
		}
	}
	if p := pawnAttacks[us][ksq] & b.pawns[them]; p != 0 {
		checkers += PopCount(p)
		ad.CheckerMask |= p
		if checkers == 1 {
			ad.CheckRayMask = p
		}
	}

	ad.InCheck = checkers > 0
	ad.DoubleCheck = checkers > 1
	if ad.DoubleCheck {
		ad.CheckRayMask = 0
	}

	ad.OppAttacks = b.attackMap(them, occ&^b.kings[us])
	return ad
}

// attackMap unions every attack set of the given side over the supplied
// occupancy.
func (b *Board) attackMap(side Color, occ uint64) uint64 {
	var attacks uint64

	for p := b.pawns[side]; p != 0; {
		attacks |= pawnAttacks[side][popLSB(&p)]
	}
	for n := b.knights[side]; n != 0; {
		attacks |= knightMoves[popLSB(&n)]
	}
	for s := b.bishops[side] | b.queens[side]; s != 0; {
		attacks |= BishopAttacks(Square(popLSB(&s)), occ)
	}
	for s := b.rooks[side] | b.queens[side]; s != 0; {
		attacks |= RookAttacks(Square(popLSB(&s)), occ)
	}
	if b.kings[side] != 0 {
		attacks |= kingMoves[Lsb(b.kings[side])]
	}
	return attacks
}

// IsSquareAttacked reports whether the given square is attacked by the given
// side under the supplied occupancy.
func (b *Board) IsSquareAttacked(sq Square, by Color, occ uint64) bool {
	if pawnAttacks[by.Flip()][sq]&b.pawns[by] != 0 {
		return true
	}
	if knightMoves[sq]&b.knights[by] != 0 {
		return true
	}
	if kingMoves[sq]&b.kings[by] != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(b.bishops[by]|b.queens[by]) != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(b.rooks[by]|b.queens[by]) != 0 {
		return true
	}
	return false
}

// InCheck reports whether the given side's king is attacked.
func (b *Board) InCheck(side Color) bool {
	ksq := b.KingSquare(side)
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ksq, side.Flip(), b.AllOccupancy())
}
