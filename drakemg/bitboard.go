package drakemg

import "math/bits"

// Bitboards use the little-endian rank-file mapping: bit 0 is a1, bit 63 is h8.
// File of a square is sq&7, rank is sq>>3.

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// PopCount returns the number of set bits.
func PopCount(b uint64) int { return bits.OnesCount64(b) }

// Lsb returns the index of the lowest set bit, or 64 if the board is empty.
func Lsb(b uint64) int { return bits.TrailingZeros64(b) }

// Msb returns the index of the highest set bit, or -1 if the board is empty.
func Msb(b uint64) int { return 63 - bits.LeadingZeros64(b) }

// SetBit returns the bitboard with the square's bit set.
func SetBit(b uint64, sq Square) uint64 { return b | bb(sq) }

// ClearBit returns the bitboard with the square's bit cleared.
func ClearBit(b uint64, sq Square) uint64 { return b &^ bb(sq) }

// TestBit reports whether the square's bit is set.
func TestBit(b uint64, sq Square) bool { return b&bb(sq) != 0 }

// File returns the file (0..7) of the square, 0 being the a-file.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the rank (0..7) of the square, 0 being rank 1.
func (sq Square) Rank() int { return int(sq) >> 3 }

// SquareAt builds a square from file and rank coordinates.
func SquareAt(file, rank int) Square { return Square(rank<<3 | file) }

// String returns the algebraic coordinate of the square (e.g. "e4").
func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}
