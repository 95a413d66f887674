package drakemg

// GenerateLegalMoves fills buf with every strictly legal move for the side to
// move. There is no pseudo-legal pass: check and pin masks filter targets as
// moves are emitted, with one extra occupancy simulation for en passant.
//
// With capturesOnly set, only captures and promotions are emitted, except
// when in check, where every evasion is emitted.
func (b *Board) GenerateLegalMoves(buf *MoveBuffer, capturesOnly bool) {
	buf.Clear()

	us := b.sideToMove
	them := us.Flip()
	ad := b.ComputeAttackData(us)
	occ := b.AllOccupancy()
	own := b.occupancy[us]
	enemy := b.occupancy[them]

	// King moves never depend on the check masks, only on the opponent
	// attack map (computed with the king removed, so stepping along the
	// checking ray is rejected).
	if ad.KingSq != NoSquare {
		targets := kingMoves[ad.KingSq] &^ own &^ ad.OppAttacks
		if capturesOnly && !ad.InCheck {
			targets &= enemy
		}
		for t := targets; t != 0; {
			to := Square(popLSB(&t))
			flag := FlagQuiet
			if enemy&bb(to) != 0 {
				flag = FlagCapture
			}
			buf.Push(NewMove(ad.KingSq, to, flag))
		}
	}

	// Under double check only the king may move.
	if ad.DoubleCheck {
		return
	}

	genQuiets := !capturesOnly || ad.InCheck
	targetMask := ad.CheckRayMask

	// Knights: a pinned knight can never move.
	for n := b.knights[us] &^ ad.PinMask; n != 0; {
		from := Square(popLSB(&n))
		b.emitPieceMoves(buf, from, knightMoves[from]&^own&targetMask, enemy, genQuiets)
	}

	for s := b.bishops[us]; s != 0; {
		from := Square(popLSB(&s))
		att := BishopAttacks(from, occ) &^ own & targetMask
		if ad.PinMask&bb(from) != 0 {
			att &= lineMask[ad.KingSq][from]
		}
		b.emitPieceMoves(buf, from, att, enemy, genQuiets)
	}
	for s := b.rooks[us]; s != 0; {
		from := Square(popLSB(&s))
		att := RookAttacks(from, occ) &^ own & targetMask
		if ad.PinMask&bb(from) != 0 {
			att &= lineMask[ad.KingSq][from]
		}
		b.emitPieceMoves(buf, from, att, enemy, genQuiets)
	}
	for s := b.queens[us]; s != 0; {
		from := Square(popLSB(&s))
		att := QueenAttacks(from, occ) &^ own & targetMask
		if ad.PinMask&bb(from) != 0 {
			att &= lineMask[ad.KingSq][from]
		}
		b.emitPieceMoves(buf, from, att, enemy, genQuiets)
	}

	b.generatePawnMoves(buf, &ad, occ, enemy, genQuiets)

	if genQuiets && !ad.InCheck && !capturesOnly {
		b.generateCastling(buf, &ad, occ)
	}
}

// emitPieceMoves pushes knight/slider moves for the precomputed target set.
func (b *Board) emitPieceMoves(buf *MoveBuffer, from Square, targets, enemy uint64, genQuiets bool) {
	if !genQuiets {
		targets &= enemy
	}
	for t := targets; t != 0; {
		to := Square(popLSB(&t))
		flag := FlagQuiet
		if enemy&bb(to) != 0 {
			flag = FlagCapture
		}
		buf.Push(NewMove(from, to, flag))
	}
}

var promoFlags = [4]uint8{FlagPromoQueen, FlagPromoRook, FlagPromoBishop, FlagPromoKnight}
var promoCaptureFlags = [4]uint8{FlagPromoCaptureQueen, FlagPromoCaptureRook, FlagPromoCaptureBishop, FlagPromoCaptureKnight}

func (b *Board) generatePawnMoves(buf *MoveBuffer, ad *AttackData, occ, enemy uint64, genQuiets bool) {
	us := b.sideToMove
	them := us.Flip()
	lastRank := rankMasks[7]
	if us == Black {
		lastRank = rankMasks[0]
	}

	for p := b.pawns[us]; p != 0; {
		from := Square(popLSB(&p))
		pinLine := ^uint64(0)
		if ad.PinMask&bb(from) != 0 {
			pinLine = lineMask[ad.KingSq][from]
		}

		// Pushes. The double push requires both squares ahead empty.
		if push := pawnPush[us][from] &^ occ; push != 0 {
			if to := push & pinLine & ad.CheckRayMask; to != 0 {
				toSq := Square(Lsb(to))
				if to&lastRank != 0 {
					// Promotions count as tactical even in captures-only mode.
					for _, f := range promoFlags {
						buf.Push(NewMove(from, toSq, f))
					}
				} else if genQuiets {
					buf.Push(NewMove(from, toSq, FlagQuiet))
				}
			}
			if genQuiets {
				if dbl := pawnDoublePush[us][from] &^ occ & pinLine & ad.CheckRayMask; dbl != 0 {
					buf.Push(NewMove(from, Square(Lsb(dbl)), FlagDoublePush))
				}
			}
		}

		// Captures.
		caps := pawnAttacks[us][from] & enemy & pinLine & ad.CheckRayMask
		for t := caps; t != 0; {
			to := Square(popLSB(&t))
			if bb(to)&lastRank != 0 {
				for _, f := range promoCaptureFlags {
					buf.Push(NewMove(from, to, f))
				}
			} else {
				buf.Push(NewMove(from, to, FlagCapture))
			}
		}

		// En passant. The captured pawn is not on the target square, so both
		// check resolution and king exposure need their own handling.
		if b.enPassantSquare != NoSquare && pawnAttacks[us][from]&bb(b.enPassantSquare)&pinLine != 0 {
			epSq := b.enPassantSquare
			capSq := epSq - 8
			if us == Black {
				capSq = epSq + 8
			}
			if ad.InCheck && ad.CheckerMask&bb(capSq) == 0 && ad.CheckRayMask&bb(epSq) == 0 {
				continue
			}
			// Remove both pawns, place ours, and verify the king is not
			// exposed (the rank case where both pawns shielded the king is
			// the one a plain pin mask cannot see).
			occAfter := (occ &^ bb(from) &^ bb(capSq)) | bb(epSq)
			if ad.KingSq != NoSquare {
				if RookAttacks(ad.KingSq, occAfter)&(b.rooks[them]|b.queens[them]) != 0 {
					continue
				}
				if BishopAttacks(ad.KingSq, occAfter)&(b.bishops[them]|b.queens[them]) != 0 {
					continue
				}
			}
			buf.Push(NewMove(from, epSq, FlagEnPassant))
		}
	}
}

// Castling squares are the standard-chess ones; Chess960 is not supported.
func (b *Board) generateCastling(buf *MoveBuffer, ad *AttackData, occ uint64) {
	if b.sideToMove == White {
		if b.castlingRights&CastlingWhiteK != 0 &&
			occ&(bb(5)|bb(6)) == 0 &&
			ad.OppAttacks&(bb(5)|bb(6)) == 0 {
			buf.Push(NewMove(4, 6, FlagKingCastle))
		}
		if b.castlingRights&CastlingWhiteQ != 0 &&
			occ&(bb(1)|bb(2)|bb(3)) == 0 &&
			ad.OppAttacks&(bb(2)|bb(3)) == 0 {
			buf.Push(NewMove(4, 2, FlagQueenCastle))
		}
	} else {
		if b.castlingRights&CastlingBlackK != 0 &&
			occ&(bb(61)|bb(62)) == 0 &&
			ad.OppAttacks&(bb(61)|bb(62)) == 0 {
			buf.Push(NewMove(60, 62, FlagKingCastle))
		}
		if b.castlingRights&CastlingBlackQ != 0 &&
			occ&(bb(57)|bb(58)|bb(59)) == 0 &&
			ad.OppAttacks&(bb(58)|bb(59)) == 0 {
			buf.Push(NewMove(60, 58, FlagQueenCastle))
		}
	}
}

// GivesCheck reports whether the move (assumed legal for the side to move)
// leaves the opponent's king in check. It answers with attack queries over a
// patched occupancy instead of mutating the board.
func (b *Board) GivesCheck(m Move) bool {
	us := b.sideToMove
	them := us.Flip()
	ksq := b.KingSquare(them)
	if ksq == NoSquare {
		return false
	}

	from, to := m.From(), m.To()
	occ := (b.AllOccupancy() &^ bb(from)) | bb(to)

	pt := b.pieces[from].Type()
	if m.IsPromotion() {
		pt = m.PromotionPieceType()
	}
	if m.IsEnPassant() {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		occ &^= bb(capSq)
	}

	// Direct check from the moved (or promoted) piece.
	switch pt {
	case PieceTypePawn:
		if pawnAttacks[us][to]&bb(ksq) != 0 {
			return true
		}
	case PieceTypeKnight:
		if knightMoves[to]&bb(ksq) != 0 {
			return true
		}
	case PieceTypeBishop:
		if BishopAttacks(to, occ)&bb(ksq) != 0 {
			return true
		}
	case PieceTypeRook:
		if RookAttacks(to, occ)&bb(ksq) != 0 {
			return true
		}
	case PieceTypeQueen:
		if QueenAttacks(to, occ)&bb(ksq) != 0 {
			return true
		}
	}

	// Castling can check with the rook's new square.
	if m.IsCastle() {
		var rookTo Square
		switch to {
		case 6:
			rookTo = 5
		case 2:
			rookTo = 3
		case 62:
			rookTo = 61
		default:
			rookTo = 59
		}
		rookFrom := castleRookFrom(to)
		occC := (occ &^ bb(rookFrom)) | bb(rookTo)
		if RookAttacks(rookTo, occC)&bb(ksq) != 0 {
			return true
		}
	}

	// Discovered checks: sliders that the vacated squares now expose.
	if RookAttacks(ksq, occ)&((b.rooks[us]|b.queens[us])&^bb(from)) != 0 {
		return true
	}
	if BishopAttacks(ksq, occ)&((b.bishops[us]|b.queens[us])&^bb(from)) != 0 {
		return true
	}
	return false
}

func castleRookFrom(kingTo Square) Square {
	switch kingTo {
	case 6:
		return 7
	case 2:
		return 0
	case 62:
		return 63
	default:
		return 56
	}
}

func castleRookTo(kingTo Square) Square {
	switch kingTo {
	case 6:
		return 5
	case 2:
		return 3
	case 62:
		return 61
	default:
		return 59
	}
}
