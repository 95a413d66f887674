package drakemg

// Move encodes a chess move in 16 bits:
// bits 0-5 the from square, bits 6-11 the to square, bits 12-15 a flag.
// The encoding is bit-exact; moves are stored verbatim in the transposition
// table, so two equal moves always compare equal as integers.
type Move uint16

const NullMove Move = 0

// Move flags. Bit 2 marks captures (en passant included), bit 3 marks
// promotions; the low two bits of a promotion flag select the piece.
const (
	FlagQuiet uint8 = iota
	FlagDoublePush
	FlagKingCastle
	FlagQueenCastle
	FlagCapture
	FlagEnPassant
	_
	_
	FlagPromoKnight
	FlagPromoBishop
	FlagPromoRook
	FlagPromoQueen
	FlagPromoCaptureKnight
	FlagPromoCaptureBishop
	FlagPromoCaptureRook
	FlagPromoCaptureQueen
)

// NewMove constructs a Move value from components.
func NewMove(from, to Square, flag uint8) Move {
	return Move(uint16(from&0x3F) | uint16(to&0x3F)<<6 | uint16(flag&0xF)<<12)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((m >> 6) & 0x3F) }

// Flag returns the move's flag nibble.
func (m Move) Flag() uint8 { return uint8(m >> 12) }

// IsCapture reports whether the move captures a piece (en passant included).
func (m Move) IsCapture() bool { return m&(1<<14) != 0 }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m&(1<<15) != 0 }

// IsEnPassant reports whether the move is an en-passant capture.
func (m Move) IsEnPassant() bool { return m.Flag() == FlagEnPassant }

// IsCastle reports whether the move is a castling move.
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagKingCastle || f == FlagQueenCastle
}

// IsDoublePush reports whether the move is a two-square pawn advance.
func (m Move) IsDoublePush() bool { return m.Flag() == FlagDoublePush }

// PromotionPieceType returns the piece type a promotion move promotes to,
// or PieceTypeNone for non-promotions.
func (m Move) PromotionPieceType() PieceType {
	if !m.IsPromotion() {
		return PieceTypeNone
	}
	return PieceTypeKnight + PieceType(m.Flag()&3)
}

var promoChar = [7]byte{PieceTypeKnight: 'n', PieceTypeBishop: 'b', PieceTypeRook: 'r', PieceTypeQueen: 'q'}

// String produces the UCI representation of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(promoChar[m.PromotionPieceType()])
	}
	return s
}

// MaxMoves is a safe upper bound on the number of legal moves in any
// reachable chess position (the known maximum is 218).
const MaxMoves = 256

// MoveBuffer is a fixed-capacity move container that lives on the stack.
// Generation fills it in place; the search indexes into Slice().
type MoveBuffer struct {
	moves [MaxMoves]Move
	count int
}

// Push appends a move. Overflow is impossible for legal chess positions.
func (mb *MoveBuffer) Push(m Move) {
	mb.moves[mb.count] = m
	mb.count++
}

// Len returns the number of moves in the buffer.
func (mb *MoveBuffer) Len() int { return mb.count }

// Clear resets the buffer without releasing storage.
func (mb *MoveBuffer) Clear() { mb.count = 0 }

// Slice returns the filled portion of the buffer.
func (mb *MoveBuffer) Slice() []Move { return mb.moves[:mb.count] }

// Get returns the move at index i.
func (mb *MoveBuffer) Get(i int) Move { return mb.moves[i] }

// Swap exchanges two moves in place.
func (mb *MoveBuffer) Swap(i, j int) {
	mb.moves[i], mb.moves[j] = mb.moves[j], mb.moves[i]
}
