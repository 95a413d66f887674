package engine

import (
	"testing"

	gm "drake-engine/drakemg"
)

func parseBoard(t *testing.T, fen string) gm.Board {
	t.Helper()
	b, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func parseMove(t *testing.T, b *gm.Board, s string) gm.Move {
	t.Helper()
	m, err := b.ParseMove(s)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func TestSEEAccountsForRecapture(t *testing.T) {
	cases := []struct {
		fen  string
		move string
		want int32
	}{
		// Bishop takes knight, queen recaptures: 300 - 300.
		{"6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1", "c4e6", 0},
		// Rook grabs a pawn defended by a pawn: 100 - 500.
		{"4k3/8/4p3/3p4/8/8/3R4/4K3 w - - 0 1", "d2d5", -400},
		// Undefended pawn is a clean win.
		{"4k3/8/8/3p4/8/8/3R4/4K3 w - - 0 1", "d2d5", 100},
		// Queen takes a rook defended by a knight: 500 - 900.
		{"4k3/2n5/8/3r4/8/8/3Q4/4K3 w - - 0 1", "d2d5", -400},
	}
	for _, tc := range cases {
		b := parseBoard(t, tc.fen)
		m := parseMove(t, &b, tc.move)
		if got := see(&b, m); got != tc.want {
			t.Errorf("%q %s: see=%d want %d", tc.fen, tc.move, got, tc.want)
		}
	}
}

func TestSEEHandlesEnPassantCapture(t *testing.T) {
	b := parseBoard(t, "4k3/8/8/3pP3/8/8/8/6K1 w - d6 0 1")
	m := parseMove(t, &b, "e5d6")
	if !m.IsEnPassant() {
		t.Fatalf("expected an en passant move, got flag %d", m.Flag())
	}
	if got := see(&b, m); got != seeValue[gm.PieceTypePawn] {
		t.Fatalf("en passant see=%d want %d", got, seeValue[gm.PieceTypePawn])
	}
}

func TestSEESeesXRayDefense(t *testing.T) {
	// Rook takes pawn; the pawn is defended by a rook with a second rook
	// stacked behind it. RxP pxR is off the table, so: 100 - 500 + 500 - 500.
	b := parseBoard(t, "3r4/3r4/8/3p4/8/8/3R4/3RK2k w - - 0 1")
	m := parseMove(t, &b, "d2d5")
	if got := see(&b, m); got != -400 {
		t.Fatalf("x-ray see=%d want -400", got)
	}
}

func TestLeastValuableAttackerOrder(t *testing.T) {
	// Pawn, knight and queen all attack d5: the pawn must be picked first.
	b := parseBoard(t, "4k3/8/8/3p4/2P5/4N3/8/3QK3 w - - 0 1")
	att := attackersTo(&b, gm.Square(35), b.AllOccupancy()) // d5
	attBB, pt := leastValuableAttacker(&b, att&b.ColorOccupancy(gm.White), gm.White)
	if pt != gm.PieceTypePawn || attBB == 0 {
		t.Fatalf("least valuable attacker: got %v, want pawn", pt)
	}
}
