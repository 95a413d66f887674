package drakemg

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceFromChar = map[byte]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

var charFromPieceType = [7]byte{PieceTypePawn: 'P', PieceTypeKnight: 'N', PieceTypeBishop: 'B', PieceTypeRook: 'R', PieceTypeQueen: 'Q', PieceTypeKing: 'K'}

// ParseFEN builds a Board from a FEN string. The en-passant field is accepted
// as given but only recorded when an enemy pawn is actually positioned to
// capture, keeping Zobrist hashes canonical.
func ParseFEN(fen string) (Board, error) {
	var b Board
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return b, fmt.Errorf("fen: expected at least 4 fields, got %d in %q", len(fields), fen)
	}

	b.enPassantSquare = NoSquare
	b.fullmoveNumber = 1

	// Piece placement, rank 8 first.
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return b, fmt.Errorf("fen: expected 8 ranks, got %d in %q", len(ranks), fields[0])
	}
	for r := 0; r < 8; r++ {
		rank := 7 - r
		file := 0
		for i := 0; i < len(ranks[r]); i++ {
			c := ranks[r][i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := pieceFromChar[c]
			if !ok {
				return b, fmt.Errorf("fen: invalid piece character %q", c)
			}
			if file > 7 {
				return b, fmt.Errorf("fen: rank %d overflows the board", rank+1)
			}
			b.addPiece(SquareAt(file, rank), p)
			file++
		}
		if file != 8 {
			return b, fmt.Errorf("fen: rank %d has %d files", rank+1, file)
		}
	}

	if b.kings[White] == 0 || b.kings[Black] == 0 || PopCount(b.kings[White]) > 1 || PopCount(b.kings[Black]) > 1 {
		return b, fmt.Errorf("fen: each side needs exactly one king")
	}
	if (b.pawns[White]|b.pawns[Black])&(rankMasks[0]|rankMasks[7]) != 0 {
		return b, fmt.Errorf("fen: pawns on the first or last rank")
	}

	// Side to move.
	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return b, fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	// Castling rights, validated against piece placement.
	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castlingRights |= CastlingWhiteK
			case 'Q':
				b.castlingRights |= CastlingWhiteQ
			case 'k':
				b.castlingRights |= CastlingBlackK
			case 'q':
				b.castlingRights |= CastlingBlackQ
			default:
				return b, fmt.Errorf("fen: invalid castling flag %q", fields[2][i])
			}
		}
	}
	if b.pieces[4] != WhiteKing {
		b.castlingRights &^= CastlingWhiteK | CastlingWhiteQ
	}
	if b.pieces[7] != WhiteRook {
		b.castlingRights &^= CastlingWhiteK
	}
	if b.pieces[0] != WhiteRook {
		b.castlingRights &^= CastlingWhiteQ
	}
	if b.pieces[60] != BlackKing {
		b.castlingRights &^= CastlingBlackK | CastlingBlackQ
	}
	if b.pieces[63] != BlackRook {
		b.castlingRights &^= CastlingBlackK
	}
	if b.pieces[56] != BlackRook {
		b.castlingRights &^= CastlingBlackQ
	}

	// En passant, canonicalized.
	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return b, fmt.Errorf("fen: %v", err)
		}
		if sq.Rank() != 2 && sq.Rank() != 5 {
			return b, fmt.Errorf("fen: en-passant square %s not on rank 3 or 6", sq)
		}
		// The pawns of the side to move that can capture on sq sit on the
		// squares a pawn of the opposite color would attack from sq.
		if pawnAttacks[b.sideToMove.Flip()][sq]&b.pawns[b.sideToMove] != 0 {
			b.enPassantSquare = sq
		}
	}

	// Optional clocks.
	if len(fields) > 4 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil || hm < 0 {
			return b, fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
		}
		b.halfmoveClock = hm
	}
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return b, fmt.Errorf("fen: invalid fullmove number %q", fields[5])
		}
		b.fullmoveNumber = fm
	}

	b.zobristKey = b.ComputeZobrist()
	return b, nil
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}

// ToFEN serializes the board back to a FEN string.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[SquareAt(file, rank)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			c := charFromPieceType[p.Type()]
			if p.Color() == Black {
				c += 'a' - 'A'
			}
			sb.WriteByte(c)
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.enPassantSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
