package drakemg

// Undo captures the irreversible state MakeMove destroys, so UnmakeMove can
// restore the exact prior position, hash included.
type Undo struct {
	Move          Move
	Captured      Piece
	PrevCastling  CastlingRights
	PrevEnPassant Square
	PrevHalfmove  int
	PrevZobrist   uint64
}

// NullUndo is the undo record of a null move.
type NullUndo struct {
	PrevEnPassant Square
	PrevZobrist   uint64
}

// castleRightsMask[sq] clears the rights a move touching sq revokes: king or
// rook leaving home, or a rook being captured on home.
var castleRightsMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	for sq := 0; sq < 64; sq++ {
		m[sq] = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ
	}
	m[0] &^= CastlingWhiteQ
	m[4] &^= CastlingWhiteK | CastlingWhiteQ
	m[7] &^= CastlingWhiteK
	m[56] &^= CastlingBlackQ
	m[60] &^= CastlingBlackK | CastlingBlackQ
	m[63] &^= CastlingBlackK
	return m
}()

// MakeMove applies a legal move and returns the undo record. The move MUST
// come from GenerateLegalMoves for the current position; feeding an illegal
// move is a programming error and leaves the board corrupted.
//
// The Zobrist key is maintained incrementally: addPiece/removePiece handle
// the piece keys, the castle/ep/side keys are patched here.
func (b *Board) MakeMove(m Move) Undo {
	us := b.sideToMove
	them := us.Flip()
	from, to := m.From(), m.To()
	moving := b.pieces[from]

	st := Undo{
		Move:          m,
		PrevCastling:  b.castlingRights,
		PrevEnPassant: b.enPassantSquare,
		PrevHalfmove:  b.halfmoveClock,
		PrevZobrist:   b.zobristKey,
	}

	// XOR out the state keys; the new ones are XORed back in below.
	b.zobristKey ^= zobristCastle[int(b.castlingRights)]
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}

	// Captures. On en passant the captured pawn is behind the target square.
	if m.IsEnPassant() {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		st.Captured = b.removePiece(capSq)
	} else if m.IsCapture() {
		st.Captured = b.removePiece(to)
	}

	// Move the piece, promoting if needed.
	b.removePiece(from)
	if m.IsPromotion() {
		b.addPiece(to, PieceFromType(us, m.PromotionPieceType()))
	} else {
		b.addPiece(to, moving)
	}

	// Castling also moves the rook.
	if m.IsCastle() {
		rookFrom := castleRookFrom(to)
		b.addPiece(castleRookTo(to), b.removePiece(rookFrom))
	}

	b.castlingRights &= castleRightsMask[from] & castleRightsMask[to]

	// New en-passant square, canonical: only recorded when an enemy pawn is
	// positioned to capture, so equal positions always hash equally.
	b.enPassantSquare = NoSquare
	if m.IsDoublePush() {
		epSq := (from + to) / 2
		if pawnAttacks[us][epSq]&b.pawns[them] != 0 {
			b.enPassantSquare = epSq
		}
	}

	if moving.Type() == PieceTypePawn || m.IsCapture() {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}

	b.sideToMove = them

	b.zobristKey ^= zobristCastle[int(b.castlingRights)]
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	b.zobristKey ^= zobristSide

	return st
}

// UnmakeMove reverses a move made with MakeMove. The board is restored
// field-by-field, including the Zobrist key.
func (b *Board) UnmakeMove(m Move, st Undo) {
	us := b.sideToMove.Flip() // the side that made the move
	from, to := m.From(), m.To()

	moved := b.removePiece(to)
	if m.IsPromotion() {
		moved = PieceFromType(us, PieceTypePawn)
	}
	b.addPiece(from, moved)

	if m.IsCastle() {
		b.addPiece(castleRookFrom(to), b.removePiece(castleRookTo(to)))
	}

	if st.Captured != NoPiece {
		capSq := to
		if m.IsEnPassant() {
			capSq = to - 8
			if us == Black {
				capSq = to + 8
			}
		}
		b.addPiece(capSq, st.Captured)
	}

	b.sideToMove = us
	b.castlingRights = st.PrevCastling
	b.enPassantSquare = st.PrevEnPassant
	b.halfmoveClock = st.PrevHalfmove
	if us == Black {
		b.fullmoveNumber--
	}
	// addPiece/removePiece above touched the key; snap back to the exact
	// prior value instead of re-deriving the state keys.
	b.zobristKey = st.PrevZobrist
}

// MakeNullMove passes the turn: flips the side to move and clears the
// en-passant square. Used by null-move pruning.
func (b *Board) MakeNullMove() NullUndo {
	st := NullUndo{PrevEnPassant: b.enPassantSquare, PrevZobrist: b.zobristKey}
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
		b.enPassantSquare = NoSquare
	}
	b.sideToMove = b.sideToMove.Flip()
	b.zobristKey ^= zobristSide
	return st
}

// UnmakeNullMove reverses MakeNullMove.
func (b *Board) UnmakeNullMove(st NullUndo) {
	b.sideToMove = b.sideToMove.Flip()
	b.enPassantSquare = st.PrevEnPassant
	b.zobristKey = st.PrevZobrist
}
