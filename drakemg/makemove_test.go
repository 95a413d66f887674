package drakemg_test

import (
	"testing"

	"drake-engine/drakemg"
)

// Making and unmaking every legal move must restore the exact prior state:
// placement, rights, clocks and hash.
func TestMakeUnmakeSymmetry(t *testing.T) {
	for _, fen := range movegenFens {
		b, err := drakemg.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		before := b.ToFEN()
		hashBefore := b.Hash()

		var buf drakemg.MoveBuffer
		b.GenerateLegalMoves(&buf, false)
		for _, m := range buf.Slice() {
			st := b.MakeMove(m)
			if !b.Validate() {
				t.Fatalf("%q after %s: board inconsistent", fen, m)
			}
			if b.Hash() != b.ComputeZobrist() {
				t.Fatalf("%q after %s: incremental hash %#x != recomputed %#x", fen, m, b.Hash(), b.ComputeZobrist())
			}
			b.UnmakeMove(m, st)
			if got := b.ToFEN(); got != before {
				t.Fatalf("%q after %s unmake:\n got %s\nwant %s", fen, m, got, before)
			}
			if b.Hash() != hashBefore {
				t.Fatalf("%q after %s unmake: hash %#x want %#x", fen, m, b.Hash(), hashBefore)
			}
		}
	}
}

// Two-ply deep symmetry catches undo bugs a single ply hides (stale undo
// state, ep squares surviving a reply).
func TestMakeUnmakeSymmetryDeep(t *testing.T) {
	for _, fen := range movegenFens {
		b, err := drakemg.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		before := b.ToFEN()

		var buf drakemg.MoveBuffer
		b.GenerateLegalMoves(&buf, false)
		for _, m := range buf.Slice() {
			st := b.MakeMove(m)
			inner := b.ToFEN()

			var replies drakemg.MoveBuffer
			b.GenerateLegalMoves(&replies, false)
			for _, r := range replies.Slice() {
				st2 := b.MakeMove(r)
				b.UnmakeMove(r, st2)
				if got := b.ToFEN(); got != inner {
					t.Fatalf("%q %s %s: inner state not restored:\n got %s\nwant %s", fen, m, r, got, inner)
				}
			}

			b.UnmakeMove(m, st)
			if got := b.ToFEN(); got != before {
				t.Fatalf("%q after %s: outer state not restored", fen, m)
			}
		}
	}
}

// A double push only records the ep square when an enemy pawn can take.
func TestDoublePushCanonicalEnPassant(t *testing.T) {
	b, err := drakemg.ParseFEN(drakemg.FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	m, err := b.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	b.MakeMove(m)
	if b.EnPassantSquare() != drakemg.NoSquare {
		t.Fatalf("no black pawn can take on e3, yet ep=%v", b.EnPassantSquare())
	}

	// With a black pawn on d4 the square is recorded.
	b, err = drakemg.ParseFEN("rnbqkbnr/ppp1pppp/8/8/3p4/8/PPPPPPPP/RNBQKBNR w KQkq - 0 3")
	if err != nil {
		t.Fatal(err)
	}
	m, err = b.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	b.MakeMove(m)
	if got := b.EnPassantSquare(); got.String() != "e3" {
		t.Fatalf("ep square: got %v want e3", got)
	}
}

// Transposing move orders must reach the same hash; the same position via a
// dead double push must too.
func TestZobristTranspositions(t *testing.T) {
	play := func(moves ...string) uint64 {
		b, err := drakemg.ParseFEN(drakemg.FENStartPos)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range moves {
			m, err := b.ParseMove(s)
			if err != nil {
				t.Fatalf("%s: %v", s, err)
			}
			b.MakeMove(m)
		}
		return b.Hash()
	}

	if a, bhash := play("g1f3", "g8f6", "b1c3", "b8c6"), play("b1c3", "b8c6", "g1f3", "g8f6"); a != bhash {
		t.Fatalf("knight transposition: %#x vs %#x", a, bhash)
	}

	// A dead double push hashes like the same position parsed without an ep
	// field, because the square is never recorded.
	parsed, err := drakemg.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := play("e2e4"); got != parsed.Hash() {
		t.Fatalf("double-push hash: %#x, parsed %#x", got, parsed.Hash())
	}
}

func TestNullMoveSymmetry(t *testing.T) {
	fens := []string{
		drakemg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
	}
	for _, fen := range fens {
		b, err := drakemg.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		before := b.ToFEN()
		side := b.SideToMove()
		st := b.MakeNullMove()
		if b.SideToMove() != side.Flip() {
			t.Fatalf("%q: null move did not flip the side", fen)
		}
		if b.EnPassantSquare() != drakemg.NoSquare {
			t.Fatalf("%q: null move kept the ep square", fen)
		}
		if b.Hash() != b.ComputeZobrist() {
			t.Fatalf("%q: null move hash drifted", fen)
		}
		b.UnmakeNullMove(st)
		if got := b.ToFEN(); got != before {
			t.Fatalf("%q: null unmake:\n got %s\nwant %s", fen, got, before)
		}
	}
}

func TestRepetitionDetection(t *testing.T) {
	b, err := drakemg.ParseFEN(drakemg.FENStartPos)
	if err != nil {
		t.Fatal(err)
	}

	var stack []drakemg.Undo
	history := []uint64{b.Hash()}

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	for i, s := range shuffle {
		m, err := b.ParseMove(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		b.PushMove(m, &stack, &history)
		isRep := b.IsDrawByRepetition(history)
		// The start position recurs after moves 4 and 8; the third occurrence
		// lands on move 8.
		if want := i == 7; isRep != want {
			t.Fatalf("after %d shuffle moves: repetition=%v want %v", i+1, isRep, want)
		}
	}

	// Rewinding pops history entries along with the board state.
	for range shuffle {
		b.PopMove(&stack, &history)
	}
	if got := b.ToFEN(); got != drakemg.FENStartPos {
		t.Fatalf("pop rewind: got %s", got)
	}
}

func TestCastlingRightsRevocation(t *testing.T) {
	b, err := drakemg.ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	// Rook a1 takes a8: both queenside rights die, one per side.
	m, err := b.ParseMove("a1a8")
	if err != nil {
		t.Fatal(err)
	}
	st := b.MakeMove(m)
	if got := b.Castling(); got != drakemg.CastlingWhiteK|drakemg.CastlingBlackK {
		t.Fatalf("after Rxa8: rights %b want kingside pair", got)
	}
	b.UnmakeMove(m, st)

	// Moving the king drops both rights at once.
	m, err = b.ParseMove("e1f2")
	if err != nil {
		t.Fatal(err)
	}
	b.MakeMove(m)
	if got := b.Castling(); got != drakemg.CastlingBlackK|drakemg.CastlingBlackQ {
		t.Fatalf("after Kf2: rights %b want black pair", got)
	}
}
