package drakemg

import "fmt"

// ParseMove resolves a UCI move string ("e2e4", "e7e8q") against the current
// position. The flag bits (capture, castle, en passant, promotion piece) are
// recovered by matching against the legal move list, so only legal moves
// parse successfully.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := parseSquare(s[:2])
	if err != nil {
		return NullMove, fmt.Errorf("invalid move %q: %v", s, err)
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("invalid move %q: %v", s, err)
	}

	var promo PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = PieceTypeKnight
		case 'b':
			promo = PieceTypeBishop
		case 'r':
			promo = PieceTypeRook
		case 'q':
			promo = PieceTypeQueen
		default:
			return NullMove, fmt.Errorf("invalid promotion piece %q in %q", s[4], s)
		}
	}

	var buf MoveBuffer
	b.GenerateLegalMoves(&buf, false)
	for i := 0; i < buf.Len(); i++ {
		m := buf.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() {
			if m.PromotionPieceType() != promo {
				continue
			}
		} else if promo != PieceTypeNone {
			continue
		}
		return m, nil
	}
	return NullMove, fmt.Errorf("illegal move %q", s)
}
