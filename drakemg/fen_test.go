package drakemg_test

import (
	"testing"

	"drake-engine/drakemg"
)

func TestParseFENStartPos(t *testing.T) {
	b, err := drakemg.ParseFEN(drakemg.FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	if b.SideToMove() != drakemg.White {
		t.Fatalf("side to move: got %v want White", b.SideToMove())
	}
	if b.Castling() != drakemg.CastlingWhiteK|drakemg.CastlingWhiteQ|drakemg.CastlingBlackK|drakemg.CastlingBlackQ {
		t.Fatalf("castling rights: got %b want all four", b.Castling())
	}
	if b.EnPassantSquare() != drakemg.NoSquare {
		t.Fatalf("en passant: got %v want none", b.EnPassantSquare())
	}
	if !b.Validate() {
		t.Fatal("board failed validation after parse")
	}
	if got := b.ToFEN(); got != drakemg.FENStartPos {
		t.Fatalf("round trip:\n got %s\nwant %s", got, drakemg.FENStartPos)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"4k3/8/5K2/8/8/8/8/5Q2 w - - 0 1",
		"8/8/8/8/8/8/8/K1k5 b - - 42 99",
	}
	for _, fen := range fens {
		b, err := drakemg.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := b.ToFEN(); got != fen {
			t.Fatalf("round trip:\n got %s\nwant %s", got, fen)
		}
		if !b.Validate() {
			t.Fatalf("validation failed for %q", fen)
		}
	}
}

// The en-passant field is only kept when an enemy pawn can actually take.
func TestParseFENCanonicalEnPassant(t *testing.T) {
	// No black pawn stands on d4 or f4, so the e3 ep square is dead weight
	// and must be dropped.
	b, err := drakemg.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if b.EnPassantSquare() != drakemg.NoSquare {
		t.Fatalf("non-capturable ep square kept: %v", b.EnPassantSquare())
	}

	// With a black pawn on d4 the ep square is live and survives.
	b, err = drakemg.ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.EnPassantSquare(); got.String() != "e3" {
		t.Fatalf("capturable ep square: got %v want e3", got)
	}
}

// Two boards differing only in a dead ep field must hash identically.
func TestCanonicalEnPassantHashing(t *testing.T) {
	with, err := drakemg.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	without, err := drakemg.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if with.Hash() != without.Hash() {
		t.Fatalf("dead ep square changes hash: %#x vs %#x", with.Hash(), without.Hash())
	}
}

// Castling flags that do not match the piece placement are dropped.
func TestParseFENStaleCastlingRights(t *testing.T) {
	b, err := drakemg.ParseFEN("rnbq1bnr/ppppkppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Castling() != drakemg.CastlingWhiteK|drakemg.CastlingWhiteQ {
		t.Fatalf("castling rights: got %b want white only", b.Castling())
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq -",           // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -",  // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq -",  // bad castling flag
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9", // bad ep square
		"9/8/8/8/8/8/8/8 w - -",                                 // rank overflow
		"8/8/8/8/8/8/8/8 w - -",                                 // no kings
		"K6k/8/8/8/8/8/8/P6p w - - 0 1",                         // pawns on rank 1
		"pppppppp/8/8/8/K6k/8/8/8 w - - 0 1",                    // pawns on rank 8
	}
	for _, fen := range bad {
		if _, err := drakemg.ParseFEN(fen); err == nil {
			t.Fatalf("ParseFEN(%q) accepted invalid input", fen)
		}
	}
}
