package drakemg

// Ray directions, indexing rays[dir][sq].
const (
	dirNorth = iota
	dirSouth
	dirEast
	dirWest
	dirNorthEast
	dirSouthEast
	dirSouthWest
	dirNorthWest
)

var (
	knightMoves [64]uint64
	kingMoves   [64]uint64

	// pawnAttacks[side][sq] are the capture targets of a pawn of that side.
	pawnAttacks [2][64]uint64
	// pawnPush / pawnDoublePush are the advance targets; double push only from
	// the starting rank, and the generator still requires both squares empty.
	pawnPush       [2][64]uint64
	pawnDoublePush [2][64]uint64

	// rays[dir][sq]: every square strictly beyond sq in that direction.
	rays [8][64]uint64

	// betweenMask[a][b]: squares strictly between a and b when they share a
	// rank, file or diagonal; zero otherwise.
	betweenMask [64][64]uint64
	// lineMask[a][b]: the full line through a and b (both included) when
	// aligned; zero otherwise. Used to constrain pinned pieces.
	lineMask [64][64]uint64

	fileMasks [8]uint64
	rankMasks [8]uint64
)

func init() {
	initLeaperTables()
	initRayTables()
	initLineTables()
	initMagics()
}

// onBoard reports whether (file, rank) is a real square.
func onBoard(f, r int) bool { return f >= 0 && f < 8 && r >= 0 && r < 8 }

func initLeaperTables() {
	for f := 0; f < 8; f++ {
		fileMasks[f] = 0x0101010101010101 << uint(f)
	}
	for r := 0; r < 8; r++ {
		rankMasks[r] = 0xFF << uint(8*r)
	}

	knightDeltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3

		for _, d := range knightDeltas {
			if onBoard(f+d[0], r+d[1]) {
				knightMoves[sq] |= bb(SquareAt(f+d[0], r+d[1]))
			}
		}
		for _, d := range kingDeltas {
			if onBoard(f+d[0], r+d[1]) {
				kingMoves[sq] |= bb(SquareAt(f+d[0], r+d[1]))
			}
		}

		// Pawn captures clamp at the board edge.
		if r < 7 {
			if f > 0 {
				pawnAttacks[White][sq] |= bb(SquareAt(f-1, r+1))
			}
			if f < 7 {
				pawnAttacks[White][sq] |= bb(SquareAt(f+1, r+1))
			}
			pawnPush[White][sq] = bb(SquareAt(f, r+1))
		}
		if r > 0 {
			if f > 0 {
				pawnAttacks[Black][sq] |= bb(SquareAt(f-1, r-1))
			}
			if f < 7 {
				pawnAttacks[Black][sq] |= bb(SquareAt(f+1, r-1))
			}
			pawnPush[Black][sq] = bb(SquareAt(f, r-1))
		}
		if r == 1 {
			pawnDoublePush[White][sq] = bb(SquareAt(f, r+2))
		}
		if r == 6 {
			pawnDoublePush[Black][sq] = bb(SquareAt(f, r-2))
		}
	}
}

var rayDeltas = [8][2]int{
	dirNorth:     {0, 1},
	dirSouth:     {0, -1},
	dirEast:      {1, 0},
	dirWest:      {-1, 0},
	dirNorthEast: {1, 1},
	dirSouthEast: {1, -1},
	dirSouthWest: {-1, -1},
	dirNorthWest: {-1, 1},
}

func initRayTables() {
	for sq := 0; sq < 64; sq++ {
		for dir := 0; dir < 8; dir++ {
			d := rayDeltas[dir]
			f, r := sq&7+d[0], sq>>3+d[1]
			for onBoard(f, r) {
				rays[dir][sq] |= bb(SquareAt(f, r))
				f += d[0]
				r += d[1]
			}
		}
	}
}

func initLineTables() {
	for a := 0; a < 64; a++ {
		for dir := 0; dir < 8; dir++ {
			targets := rays[dir][a]
			for t := targets; t != 0; {
				sqB := popLSB(&t)
				// Everything between a and b along dir is the ray from a
				// minus the ray continuing beyond b.
				betweenMask[a][sqB] = rays[dir][a] &^ rays[dir][sqB] &^ bb(Square(sqB))
				lineMask[a][sqB] = rays[dir][a] | rays[opposite(dir)][a] | bb(Square(a))
			}
		}
	}
}

func opposite(dir int) int {
	switch dir {
	case dirNorth:
		return dirSouth
	case dirSouth:
		return dirNorth
	case dirEast:
		return dirWest
	case dirWest:
		return dirEast
	case dirNorthEast:
		return dirSouthWest
	case dirSouthWest:
		return dirNorthEast
	case dirSouthEast:
		return dirNorthWest
	default:
		return dirSouthEast
	}
}

// KnightAttacks returns the knight attack set from the square.
func KnightAttacks(sq Square) uint64 { return knightMoves[sq] }

// KingAttacks returns the king attack set from the square.
func KingAttacks(sq Square) uint64 { return kingMoves[sq] }

// PawnAttacks returns the capture squares of a pawn of the given side.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// Ray returns all squares beyond sq in the given direction.
func Ray(dir int, sq Square) uint64 { return rays[dir][sq] }

// Between returns the squares strictly between two aligned squares.
func Between(a, b Square) uint64 { return betweenMask[a][b] }

// Line returns the full line through two aligned squares.
func Line(a, b Square) uint64 { return lineMask[a][b] }

// FileMask returns the mask of the given file (0 = a-file).
func FileMask(f int) uint64 { return fileMasks[f] }

// RankMask returns the mask of the given rank (0 = rank 1).
func RankMask(r int) uint64 { return rankMasks[r] }
