package engine

import (
	gm "drake-engine/drakemg"
)

// see runs a static exchange evaluation of the capture sequence on the move's
// target square: each side answers with its least valuable attacker until one
// side stands pat. The result is the net material swing in centipawns from
// the mover's point of view. X-rays are picked up by recomputing the slider
// attacks after every removal.
func see(b *gm.Board, m gm.Move) int32 {
	from, to := m.From(), m.To()
	attacker := b.PieceAt(from).Type()
	target := b.PieceAt(to).Type()

	// En passant: the victim pawn is not on the target square.
	occ := b.AllOccupancy()
	if m.IsEnPassant() {
		target = gm.PieceTypePawn
		victimSq := to - 8
		if b.SideToMove() == gm.Black {
			victimSq = to + 8
		}
		occ = gm.ClearBit(occ, victimSq)
	}

	var gain [32]int32
	d := 0
	gain[0] = seeValue[target]

	occ = gm.ClearBit(occ, from)
	attadef := attackersTo(b, to, occ) & occ
	stm := b.SideToMove().Flip()
	next := attacker

	for {
		d++
		gain[d] = seeValue[next] - gain[d-1]
		// Prune: the side to move can stand pat on a lost exchange.
		if Max(-gain[d-1], gain[d]) < 0 {
			break
		}
		attBB, pt := leastValuableAttacker(b, attadef&b.ColorOccupancy(stm), stm)
		if attBB == 0 {
			break
		}
		occ &^= attBB
		// Recompute with the shrunk occupancy so sliders x-ray through.
		attadef = attackersTo(b, to, occ) & occ
		next = pt
		stm = stm.Flip()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -Max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// attackersTo returns every piece of either color that attacks sq under the
// given occupancy.
func attackersTo(b *gm.Board, sq gm.Square, occ uint64) uint64 {
	white := b.WhiteBitboards()
	black := b.BlackBitboards()

	att := white.Pawns & gm.PawnAttacks(gm.Black, sq)
	att |= black.Pawns & gm.PawnAttacks(gm.White, sq)
	att |= gm.KnightAttacks(sq) & (white.Knights | black.Knights)
	att |= gm.KingAttacks(sq) & (white.Kings | black.Kings)
	att |= gm.RookAttacks(sq, occ) & (white.Rooks | white.Queens | black.Rooks | black.Queens)
	att |= gm.BishopAttacks(sq, occ) & (white.Bishops | white.Queens | black.Bishops | black.Queens)
	return att
}

// leastValuableAttacker picks one attacker of the given side from the set,
// cheapest piece type first.
func leastValuableAttacker(b *gm.Board, attadef uint64, side gm.Color) (uint64, gm.PieceType) {
	if attadef == 0 {
		return 0, gm.PieceTypeNone
	}
	own := b.Bitboards(side)
	sets := [6]struct {
		set uint64
		pt  gm.PieceType
	}{
		{own.Pawns, gm.PieceTypePawn},
		{own.Knights, gm.PieceTypeKnight},
		{own.Bishops, gm.PieceTypeBishop},
		{own.Rooks, gm.PieceTypeRook},
		{own.Queens, gm.PieceTypeQueen},
		{own.Kings, gm.PieceTypeKing},
	}
	for _, s := range sets {
		if subset := attadef & s.set; subset != 0 {
			return subset & -subset, s.pt
		}
	}
	return 0, gm.PieceTypeNone
}
