package engine

import (
	gm "drake-engine/drakemg"
)

// Game phase weights for tapering. Phase runs from TotalPhase (all pieces on
// the board) down to 0 (kings and pawns); the evaluation blends midgame and
// endgame terms linearly along it.
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2 // 24
)

// Material values, indexed by piece type.
var pieceValueMG = [7]int32{
	gm.PieceTypePawn:   82,
	gm.PieceTypeKnight: 337,
	gm.PieceTypeBishop: 365,
	gm.PieceTypeRook:   477,
	gm.PieceTypeQueen:  1025,
}
var pieceValueEG = [7]int32{
	gm.PieceTypePawn:   94,
	gm.PieceTypeKnight: 281,
	gm.PieceTypeBishop: 297,
	gm.PieceTypeRook:   512,
	gm.PieceTypeQueen:  936,
}

// seeValue is the flat material scale used by static exchange evaluation and
// delta pruning; the king value makes any exchange that loses the king
// register as catastrophic.
var seeValue = [7]int32{
	gm.PieceTypePawn:   100,
	gm.PieceTypeKnight: 300,
	gm.PieceTypeBishop: 300,
	gm.PieceTypeRook:   500,
	gm.PieceTypeQueen:  900,
	gm.PieceTypeKing:   5000,
}

// Piece-square tables from White's point of view, rank 1 first. Black mirrors
// with sq^56.
var PSQT_MG = [7][64]int32{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-35, -1, -20, -23, -15, 24, 38, -22,
		-26, -4, -4, -10, 3, 3, 33, -12,
		-27, -2, -5, 12, 17, 6, 10, -25,
		-14, 13, 6, 21, 23, 12, 17, -23,
		-6, 7, 26, 31, 65, 56, 25, -20,
		98, 134, 61, 95, 68, 126, 34, -11,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-105, -21, -58, -33, -17, -28, -19, -23,
		-29, -53, -12, -3, -1, 18, -14, -19,
		-23, -9, 12, 10, 19, 17, 25, -16,
		-13, 4, 16, 13, 28, 19, 21, -8,
		-9, 17, 19, 53, 37, 69, 18, 22,
		-47, 60, 37, 65, 84, 129, 73, 44,
		-73, -41, 72, 36, 23, 62, 7, -17,
		-167, -89, -34, -49, 61, -97, -15, -107,
	},
	gm.PieceTypeBishop: {
		-33, -3, -14, -21, -13, -12, -39, -21,
		4, 15, 16, 0, 7, 21, 33, 1,
		0, 15, 15, 15, 14, 27, 18, 10,
		-6, 13, 13, 26, 34, 12, 10, 4,
		-4, 5, 19, 50, 37, 37, 7, -2,
		-16, 37, 43, 40, 35, 50, 37, -2,
		-26, 16, -18, -13, 30, 59, 18, -47,
		-29, 4, -82, -37, -25, -42, 7, -8,
	},
	gm.PieceTypeRook: {
		-19, -13, 1, 17, 16, 7, -37, -26,
		-44, -16, -20, -9, -1, 11, -6, -71,
		-45, -25, -16, -17, 3, 0, -5, -33,
		-36, -26, -12, -1, 9, -7, 6, -23,
		-24, -11, 7, 26, 24, 35, -8, -20,
		-5, 19, 26, 36, 17, 45, 61, 16,
		27, 32, 58, 62, 80, 67, 26, 44,
		32, 42, 32, 51, 63, 9, 31, 43,
	},
	gm.PieceTypeQueen: {
		-1, -18, -9, 10, -15, -25, -31, -50,
		-35, -8, 11, 2, 8, 15, -3, 1,
		-14, 2, -11, -2, -5, 2, 14, 5,
		-9, -26, -9, -10, -2, -4, 3, -3,
		-27, -27, -16, -16, -1, 17, -2, 1,
		-13, -17, 7, 8, 29, 56, 47, 57,
		-24, -39, -5, 1, -16, 57, 28, 54,
		-28, 0, 29, 12, 59, 44, 43, 45,
	},
	gm.PieceTypeKing: {
		-15, 36, 12, -54, 8, -28, 24, 14,
		1, 7, -8, -64, -43, -16, 9, 8,
		-14, -14, -22, -46, -44, -30, -15, -27,
		-49, -1, -27, -39, -46, -44, -33, -51,
		-17, -20, -12, -27, -30, -25, -14, -36,
		-9, 24, 2, -16, -20, 6, 22, -22,
		29, -1, -20, -7, -8, -4, -38, -29,
		-65, 23, 16, -15, -56, -34, 2, 13,
	},
}
var PSQT_EG = [7][64]int32{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		13, 8, 8, 10, 13, 0, 2, -7,
		4, 7, -6, 1, 0, -5, -1, -8,
		13, 9, -3, -7, -7, -8, 3, -1,
		32, 24, 13, 5, -2, 4, 17, 17,
		94, 100, 85, 67, 56, 53, 82, 84,
		178, 173, 158, 134, 147, 132, 165, 187,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-29, -51, -23, -15, -22, -18, -50, -64,
		-42, -20, -10, -5, -2, -20, -23, -44,
		-23, -3, -1, 15, 10, -3, -20, -22,
		-18, -6, 16, 25, 16, 17, 4, -18,
		-17, 3, 22, 22, 22, 11, 8, -18,
		-24, -20, 10, 9, -1, -9, -19, -41,
		-25, -8, -25, -2, -9, -25, -24, -52,
		-58, -38, -13, -28, -31, -27, -63, -99,
	},
	gm.PieceTypeBishop: {
		-23, -9, -23, -5, -9, -16, -5, -17,
		-14, -18, -7, -1, 4, -9, -15, -27,
		-12, -3, 8, 10, 13, 3, -7, -15,
		-6, 3, 13, 19, 7, 10, -3, -9,
		-3, 9, 12, 9, 14, 10, 3, 2,
		2, -8, 0, -1, -2, 6, 0, 4,
		-8, -4, 7, -12, -3, -13, -4, -14,
		-14, -21, -11, -8, -7, -9, -17, -24,
	},
	gm.PieceTypeRook: {
		-9, 2, 3, -1, -5, -13, 4, -20,
		-6, -6, 0, 2, -9, -9, -11, -3,
		-4, 0, -5, -1, -7, -12, -8, -16,
		3, 5, 8, 4, -5, -6, -8, -11,
		4, 3, 13, 1, 2, 1, -1, 2,
		7, 7, 7, 5, 4, -3, -5, -3,
		11, 13, 13, 11, -3, 3, 8, 3,
		13, 10, 18, 15, 12, 12, 8, 5,
	},
	gm.PieceTypeQueen: {
		-33, -28, -22, -43, -5, -32, -20, -41,
		-22, -23, -30, -16, -16, -23, -36, -32,
		-16, -27, 15, 6, 9, 17, 10, 5,
		-18, 28, 19, 47, 31, 34, 39, 23,
		3, 22, 24, 45, 57, 40, 57, 36,
		-20, 6, 9, 49, 47, 35, 19, 9,
		-17, 20, 32, 41, 58, 25, 30, 0,
		-9, 22, 22, 27, 27, 19, 10, 20,
	},
	gm.PieceTypeKing: {
		-53, -34, -21, -11, -28, -14, -24, -43,
		-27, -11, 4, 13, 14, 4, -5, -17,
		-19, -3, 11, 21, 23, 16, 7, -9,
		-18, -4, 21, 24, 27, 23, 9, -11,
		-8, 22, 24, 27, 26, 33, 26, 3,
		10, 17, 23, 15, 20, 45, 44, 13,
		-12, 17, 14, 17, 17, 38, 23, 11,
		-74, -35, -18, -18, -11, 15, 4, -17,
	},
}

// Passed pawn bonus keyed by the passer's relative rank.
var passedPawnBonusMG = [8]int32{0, 5, 10, 18, 30, 48, 72, 0}
var passedPawnBonusEG = [8]int32{0, 10, 18, 32, 55, 90, 140, 0}

// Pawn structure terms.
const (
	isolatedPawnPenaltyMG int32 = -15
	isolatedPawnPenaltyEG int32 = -10
	doubledPawnPenaltyMG  int32 = -10
	doubledPawnPenaltyEG  int32 = -18
	backwardPawnPenaltyMG int32 = -8
	backwardPawnPenaltyEG int32 = -6
	connectedPawnsBonusMG int32 = 5
	connectedPawnsBonusEG int32 = 7
)

// Mobility bonus per piece type, indexed by the number of attack squares not
// occupied by friendly pieces.
var knightMobilityMG = [9]int32{-30, -18, -8, -2, 2, 6, 10, 13, 15}
var knightMobilityEG = [9]int32{-40, -24, -12, -4, 2, 8, 12, 15, 17}
var bishopMobilityMG = [14]int32{-25, -14, -5, 0, 5, 10, 14, 17, 19, 21, 23, 25, 26, 27}
var bishopMobilityEG = [14]int32{-35, -20, -10, -2, 4, 10, 15, 19, 23, 26, 28, 30, 31, 32}
var rookMobilityMG = [15]int32{-20, -12, -7, -3, 0, 2, 5, 8, 10, 12, 14, 16, 17, 18, 19}
var rookMobilityEG = [15]int32{-35, -18, -8, 0, 6, 12, 18, 23, 28, 32, 35, 38, 40, 42, 43}
var queenMobilityMG = [28]int32{
	-15, -10, -7, -4, -2, 0, 2, 4, 6, 7, 9, 10, 11, 12,
	13, 14, 15, 16, 17, 17, 18, 18, 19, 19, 20, 20, 20, 20,
}
var queenMobilityEG = [28]int32{
	-25, -18, -12, -8, -4, 0, 4, 8, 11, 14, 17, 19, 21, 23,
	25, 27, 29, 30, 31, 32, 33, 34, 35, 35, 36, 36, 36, 36,
}

// King-safety attack units per attacking piece type. Units from all attackers
// into the king zone accumulate and index the nonlinear safety table.
var attackUnits = [7]int32{
	gm.PieceTypeKnight: 2,
	gm.PieceTypeBishop: 2,
	gm.PieceTypeRook:   3,
	gm.PieceTypeQueen:  5,
}

// KingSafetyTable maps accumulated attack units to a centipawn penalty. The
// curve is fixed and deliberately not exposed to tuning.
var KingSafetyTable = [100]int32{
	0, 0, 1, 2, 3, 5, 7, 9, 12, 15,
	18, 22, 26, 30, 35, 39, 44, 50, 56, 62,
	68, 75, 82, 85, 89, 97, 105, 113, 122, 131,
	140, 150, 169, 180, 191, 202, 213, 225, 237, 248,
	260, 272, 283, 295, 307, 319, 330, 342, 354, 366,
	377, 389, 401, 412, 424, 436, 448, 459, 471, 483,
	494, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
}

// King shield and file terms.
const (
	castledBonusMG       int32 = 20
	fullShieldBonusMG    int32 = 24
	partialShieldBonusMG int32 = 12
	kingOpenFilePenalty  int32 = -25
	kingSemiOpenFilePen  int32 = -12
)

// Miscellaneous terms.
const (
	bishopPairBonusMG  int32 = 22
	bishopPairBonusEG  int32 = 48
	rookOpenFileMG     int32 = 22
	rookSemiOpenFileMG int32 = 10
	tempoBonusMG       int32 = 12
)
