package engine

import (
	gm "drake-engine/drakemg"
)

// Evaluator scores a position from the side to move's perspective. The search
// only talks to this interface, so a trace-collecting implementation can be
// swapped in for tuning runs.
type Evaluator interface {
	Evaluate(b *gm.Board) int32
}

// StandardEvaluator is the tapered centipawn scorer used in play.
type StandardEvaluator struct{}

func (StandardEvaluator) Evaluate(b *gm.Board) int32 { return Evaluation(b) }

// TraceEvaluator scores exactly like StandardEvaluator but also accumulates
// feature counts into Trace, for consumption by a tuner.
type TraceEvaluator struct {
	Trace *EvalTrace
}

func (t TraceEvaluator) Evaluate(b *gm.Board) int32 { return evaluate(b, t.Trace) }

// EvalTrace records how often each evaluation feature fired, per side.
// Counts, not centipawns: the tuner multiplies them by candidate weights.
type EvalTrace struct {
	PieceCount    [2][7]int32
	PSQTIndex     [2][7][64]int32
	Isolated      [2]int32
	Doubled       [2]int32
	Backward      [2]int32
	Connected     [2]int32
	PassedByRank  [2][8]int32
	Mobility      [2][7]int32
	BishopPair    [2]int32
	RookOpenFile  [2]int32
	RookSemiOpen  [2]int32
	Castled       [2]int32
	ShieldPawns   [2]int32
	KingOpenFiles [2]int32
	KingSemiOpen  [2]int32
	AttackUnits   [2]int32
	Phase         int32
}

// Reset zeroes the trace in place.
func (t *EvalTrace) Reset() { *t = EvalTrace{} }

// Helper masks built once at package init.
var (
	adjacentFileMasks [8]uint64
	ranksAhead        [2][8]uint64 // ranksAhead[color][rank]: every rank strictly in front
)

func init() {
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFileMasks[f] |= gm.FileMask(f - 1)
		}
		if f < 7 {
			adjacentFileMasks[f] |= gm.FileMask(f + 1)
		}
	}
	for r := 0; r < 8; r++ {
		for ahead := r + 1; ahead < 8; ahead++ {
			ranksAhead[gm.White][r] |= gm.RankMask(ahead)
		}
		for ahead := r - 1; ahead >= 0; ahead-- {
			ranksAhead[gm.Black][r] |= gm.RankMask(ahead)
		}
	}
}

// Evaluation returns the tapered score of the position in centipawns from the
// side to move's perspective. Pure: no allocation, no table mutation.
func Evaluation(b *gm.Board) int32 {
	return evaluate(b, nil)
}

func evaluate(b *gm.Board, tr *EvalTrace) int32 {
	var mg, eg [2]int32

	white := b.Bitboards(gm.White)
	black := b.Bitboards(gm.Black)
	occ := white.All | black.All

	phase := int32(gm.PopCount(white.Knights|black.Knights))*KnightPhase +
		int32(gm.PopCount(white.Bishops|black.Bishops))*BishopPhase +
		int32(gm.PopCount(white.Rooks|black.Rooks))*RookPhase +
		int32(gm.PopCount(white.Queens|black.Queens))*QueenPhase
	if phase > TotalPhase {
		phase = TotalPhase
	}
	if tr != nil {
		tr.Phase = phase
	}

	for c := gm.White; c <= gm.Black; c++ {
		own := b.Bitboards(c)
		opp := b.Bitboards(c.Flip())
		ci := int(c)

		evalMaterialAndPSQT(c, &own, &mg[ci], &eg[ci], tr)
		evalPawnStructure(c, own.Pawns, opp.Pawns, &mg[ci], &eg[ci], tr)
		evalMobility(c, &own, occ, &mg[ci], &eg[ci], tr)
		evalKingSafety(b, c, &own, &opp, occ, &mg[ci], &eg[ci], tr)

		if gm.PopCount(own.Bishops) >= 2 {
			mg[ci] += bishopPairBonusMG
			eg[ci] += bishopPairBonusEG
			if tr != nil {
				tr.BishopPair[ci]++
			}
		}
		evalRookFiles(c, own.Rooks, own.Pawns, opp.Pawns, &mg[ci], tr)
	}

	mgScore := mg[gm.White] - mg[gm.Black]
	egScore := eg[gm.White] - eg[gm.Black]
	score := (mgScore*phase + egScore*(TotalPhase-phase)) / TotalPhase

	// Side-to-move sign, applied exactly once, plus a small tempo nudge.
	if b.SideToMove() == gm.Black {
		score = -score
	}
	return score + tempoBonusMG*phase/TotalPhase
}

func evalMaterialAndPSQT(c gm.Color, own *gm.Bitboards, mg, eg *int32, tr *EvalTrace) {
	pieceSets := [6]struct {
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
	for _, ps := range pieceSets {
		for set := ps.set; set != 0; set &= set - 1 {
			sq := gm.Lsb(set)
			rel := sq
			if c == gm.Black {
				rel = sq ^ 56
			}
			*mg += pieceValueMG[ps.pt] + PSQT_MG[ps.pt][rel]
			*eg += pieceValueEG[ps.pt] + PSQT_EG[ps.pt][rel]
			if tr != nil {
				tr.PieceCount[c][ps.pt]++
				tr.PSQTIndex[c][ps.pt][rel]++
			}
		}
	}
}

func evalPawnStructure(c gm.Color, ownPawns, oppPawns uint64, mg, eg *int32, tr *EvalTrace) {
	for set := ownPawns; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		file, rank := sq.File(), sq.Rank()
		relRank := rank
		if c == gm.Black {
			relRank = 7 ^ rank
		}

		if adjacentFileMasks[file]&ownPawns == 0 {
			*mg += isolatedPawnPenaltyMG
			*eg += isolatedPawnPenaltyEG
			if tr != nil {
				tr.Isolated[c]++
			}
		}

		// Doubled: a friendly pawn in front on the same file. Counting from
		// the rear pawn charges each extra pawn exactly once.
		if gm.FileMask(file)&ownPawns&ranksAhead[c][rank] != 0 {
			*mg += doubledPawnPenaltyMG
			*eg += doubledPawnPenaltyEG
			if tr != nil {
				tr.Doubled[c]++
			}
		}

		// Backward: cannot be defended by a pawn (no neighbor at or behind)
		// while its stop square is covered by an enemy pawn.
		support := adjacentFileMasks[file] &^ ranksAhead[c][rank]
		if support&ownPawns == 0 {
			stopSq := sq + 8
			if c == gm.Black {
				stopSq = sq - 8
			}
			if stopSq >= 0 && stopSq < 64 && gm.PawnAttacks(c, stopSq)&oppPawns != 0 {
				*mg += backwardPawnPenaltyMG
				*eg += backwardPawnPenaltyEG
				if tr != nil {
					tr.Backward[c]++
				}
			}
		}

		// Passed: no enemy pawn ahead on this or an adjacent file.
		front := (gm.FileMask(file) | adjacentFileMasks[file]) & ranksAhead[c][rank]
		if front&oppPawns == 0 {
			*mg += passedPawnBonusMG[relRank]
			*eg += passedPawnBonusEG[relRank]
			if tr != nil {
				tr.PassedByRank[c][relRank]++
			}
		}

		// Connected: a neighbor on an adjacent file of the same rank.
		if adjacentFileMasks[file]&gm.RankMask(rank)&ownPawns != 0 {
			*mg += connectedPawnsBonusMG
			*eg += connectedPawnsBonusEG
			if tr != nil {
				tr.Connected[c]++
			}
		}
	}
}

func evalMobility(c gm.Color, own *gm.Bitboards, occ uint64, mg, eg *int32, tr *EvalTrace) {
	for set := own.Knights; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		n := gm.PopCount(gm.KnightAttacks(sq) &^ own.All)
		*mg += knightMobilityMG[n]
		*eg += knightMobilityEG[n]
		if tr != nil {
			tr.Mobility[c][gm.PieceTypeKnight] += int32(n)
		}
	}
	for set := own.Bishops; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		n := gm.PopCount(gm.BishopAttacks(sq, occ) &^ own.All)
		*mg += bishopMobilityMG[n]
		*eg += bishopMobilityEG[n]
		if tr != nil {
			tr.Mobility[c][gm.PieceTypeBishop] += int32(n)
		}
	}
	for set := own.Rooks; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		n := gm.PopCount(gm.RookAttacks(sq, occ) &^ own.All)
		*mg += rookMobilityMG[n]
		*eg += rookMobilityEG[n]
		if tr != nil {
			tr.Mobility[c][gm.PieceTypeRook] += int32(n)
		}
	}
	for set := own.Queens; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		n := gm.PopCount(gm.QueenAttacks(sq, occ) &^ own.All)
		*mg += queenMobilityMG[n]
		*eg += queenMobilityEG[n]
		if tr != nil {
			tr.Mobility[c][gm.PieceTypeQueen] += int32(n)
		}
	}
}

func evalKingSafety(b *gm.Board, c gm.Color, own, opp *gm.Bitboards, occ uint64, mg, eg *int32, tr *EvalTrace) {
	ksq := b.KingSquare(c)
	if ksq == gm.NoSquare {
		return
	}
	file, rank := ksq.File(), ksq.Rank()
	relRank := rank
	if c == gm.Black {
		relRank = 7 ^ rank
	}

	// Castled bonus: king tucked away on its first rank, off the center files.
	if relRank == 0 && (file >= 5 || file <= 2) {
		*mg += castledBonusMG
		if tr != nil {
			tr.Castled[c]++
		}
	}

	// Pawn shield: the three squares directly in front of the king.
	shieldRank := rank + 1
	if c == gm.Black {
		shieldRank = rank - 1
	}
	if shieldRank >= 0 && shieldRank < 8 {
		zone := (gm.FileMask(file) | adjacentFileMasks[file]) & gm.RankMask(shieldRank)
		switch n := gm.PopCount(zone & own.Pawns); {
		case n >= 3:
			*mg += fullShieldBonusMG
		case n >= 1:
			*mg += partialShieldBonusMG
		}
		if tr != nil {
			tr.ShieldPawns[c] += int32(gm.PopCount(zone & own.Pawns))
		}
	}

	// Open and semi-open files next to the king invite heavy pieces in.
	for f := file - 1; f <= file+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		fm := gm.FileMask(f)
		switch {
		case fm&(own.Pawns|opp.Pawns) == 0:
			*mg += kingOpenFilePenalty
			if tr != nil {
				tr.KingOpenFiles[c]++
			}
		case fm&own.Pawns == 0:
			*mg += kingSemiOpenFilePen
			if tr != nil {
				tr.KingSemiOpen[c]++
			}
		}
	}

	// Attack units: enemy pieces bearing on the king zone feed the nonlinear
	// safety table.
	kingZone := gm.KingAttacks(ksq) | (uint64(1) << uint(ksq))
	var units int32
	for set := opp.Knights; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		units += attackUnits[gm.PieceTypeKnight] * int32(gm.PopCount(gm.KnightAttacks(sq)&kingZone))
	}
	for set := opp.Bishops; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		units += attackUnits[gm.PieceTypeBishop] * int32(gm.PopCount(gm.BishopAttacks(sq, occ)&kingZone))
	}
	for set := opp.Rooks; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		units += attackUnits[gm.PieceTypeRook] * int32(gm.PopCount(gm.RookAttacks(sq, occ)&kingZone))
	}
	for set := opp.Queens; set != 0; set &= set - 1 {
		sq := gm.Square(gm.Lsb(set))
		units += attackUnits[gm.PieceTypeQueen] * int32(gm.PopCount(gm.QueenAttacks(sq, occ)&kingZone))
	}
	if units > 99 {
		units = 99
	}
	*mg -= KingSafetyTable[units]
	if tr != nil {
		tr.AttackUnits[c] = units
	}
}

func evalRookFiles(c gm.Color, rooks, ownPawns, oppPawns uint64, mg *int32, tr *EvalTrace) {
	for set := rooks; set != 0; set &= set - 1 {
		file := gm.Square(gm.Lsb(set)).File()
		fm := gm.FileMask(file)
		switch {
		case fm&(ownPawns|oppPawns) == 0:
			*mg += rookOpenFileMG
			if tr != nil {
				tr.RookOpenFile[c]++
			}
		case fm&ownPawns == 0:
			*mg += rookSemiOpenFileMG
			if tr != nil {
				tr.RookSemiOpen[c]++
			}
		}
	}
}
