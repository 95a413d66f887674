package engine

import (
	"testing"

	gm "drake-engine/drakemg"
)

func quietConfig() SearchConfig {
	cfg := DefaultSearchConfig()
	cfg.EmitInfo = false
	cfg.HashSizeMB = 16
	return cfg
}

func searchFEN(t *testing.T, fen string, limits SearchLimits) SearchResult {
	t.Helper()
	b, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	ResetForNewGame()
	ResetStateTracking(&b)
	return StartSearch(&b, quietConfig(), limits)
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Back-rank mate: only Ra8 ends the game.
	res := searchFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", SearchLimits{MaxDepth: 2})
	if !res.IsMate {
		t.Fatalf("no mate reported: score=%d", res.Score)
	}
	if res.Score < Checkmate {
		t.Fatalf("mate score %d below threshold", res.Score)
	}
	if res.MateIn != 1 {
		t.Fatalf("mate in %d, want 1", res.MateIn)
	}
	if got := res.BestMove.String(); got != "a1a8" {
		t.Fatalf("best move %s, want a1a8", got)
	}
}

func TestSearchMatedAndStalemated(t *testing.T) {
	// Checkmated: no move, -MATE.
	res := searchFEN(t, "7k/6Q1/6K1/8/8/8/8/8 b - - 0 1", SearchLimits{MaxDepth: 3})
	if res.BestMove != gm.NullMove {
		t.Fatalf("checkmated side returned move %s", res.BestMove)
	}
	if res.Score != -MaxScore {
		t.Fatalf("checkmated score %d, want %d", res.Score, -MaxScore)
	}

	// Stalemated: no move, draw score.
	res = searchFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", SearchLimits{MaxDepth: 3})
	if res.BestMove != gm.NullMove {
		t.Fatalf("stalemated side returned move %s", res.BestMove)
	}
	if res.Score != DrawScore {
		t.Fatalf("stalemated score %d, want %d", res.Score, DrawScore)
	}
}

func TestSearchInvariants(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}
	for _, fen := range fens {
		b, err := gm.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		ResetForNewGame()
		ResetStateTracking(&b)
		res := StartSearch(&b, quietConfig(), SearchLimits{MaxDepth: 4})

		if res.Nodes == 0 {
			t.Errorf("%q: zero nodes", fen)
		}
		if res.Depth < 1 {
			t.Errorf("%q: depth %d", fen, res.Depth)
		}
		if res.Score < -MaxScore || res.Score > MaxScore {
			t.Errorf("%q: score %d out of range", fen, res.Score)
		}
		var buf gm.MoveBuffer
		b.GenerateLegalMoves(&buf, false)
		legal := false
		for _, m := range buf.Slice() {
			if m == res.BestMove {
				legal = true
			}
		}
		if !legal {
			t.Errorf("%q: best move %s not legal", fen, res.BestMove)
		}
		if len(res.PV) == 0 || res.PV[0] != res.BestMove {
			t.Errorf("%q: pv %v does not start with best move %s", fen, res.PV, res.BestMove)
		}
		// The board must come back untouched.
		if got := b.ToFEN(); got != fen {
			t.Errorf("board mutated by search:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestSearchHonorsNodeLimit(t *testing.T) {
	res := searchFEN(t, gm.FENStartPos, SearchLimits{MaxDepth: 30, MaxNodes: 20000})
	if res.BestMove == gm.NullMove {
		t.Fatal("no best move under node limit")
	}
	// The limit is polled every nodeCheckMask nodes; allow that much overshoot.
	if res.Nodes > 20000+nodeCheckMask+1 {
		t.Fatalf("node limit blown: %d nodes", res.Nodes)
	}
}

func TestSearchStopFlag(t *testing.T) {
	b, err := gm.ParseFEN(gm.FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	ResetForNewGame()
	ResetStateTracking(&b)
	Stop()
	// An already-raised stop flag is reset at search entry, so the search
	// still produces a legal move.
	res := StartSearch(&b, quietConfig(), SearchLimits{MaxDepth: 2})
	if res.BestMove == gm.NullMove {
		t.Fatal("search with pre-raised stop returned no move")
	}
}

func TestSearchWithPruningDisabled(t *testing.T) {
	// Every pruning toggle off must still find the hanging queen.
	b, err := gm.ParseFEN("4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	ResetForNewGame()
	ResetStateTracking(&b)
	cfg := SearchConfig{HashSizeMB: 16}
	res := StartSearch(&b, cfg, SearchLimits{MaxDepth: 4})
	if got := res.BestMove.String(); got != "d2d5" {
		t.Fatalf("best move %s, want d2d5", got)
	}
	if res.Score < 300 {
		t.Fatalf("score %d after winning a queen", res.Score)
	}
}

func TestSearchReportsForcedMateAhead(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-ply mate proof in short mode")
	}
	// King and queen against bare king: a deep enough search proves the
	// forced mate.
	res := searchFEN(t, "4k3/8/5K2/8/8/8/8/5Q2 w - - 0 1", SearchLimits{MaxDepth: 10})
	if res.Score < Checkmate {
		t.Fatalf("no forced mate found: score=%d depth=%d", res.Score, res.Depth)
	}
	if !res.IsMate || res.MateIn <= 0 {
		t.Fatalf("mate flags: IsMate=%v MateIn=%d", res.IsMate, res.MateIn)
	}
}

func TestSearchDetectsRepetitionDraw(t *testing.T) {
	// Down a rook, the defender can force perpetual shuffling; the score
	// must collapse toward the draw once the repetition is on the stack.
	b, err := gm.ParseFEN(gm.FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	ResetForNewGame()
	ResetStateTracking(&b)
	for _, s := range []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1"} {
		m, err := b.ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		b.MakeMove(m)
		RecordState(&b)
	}
	// Ng8 now repeats the start position for the third time.
	res := StartSearch(&b, quietConfig(), SearchLimits{MaxDepth: 3})
	if res.BestMove == gm.NullMove {
		t.Fatal("no move returned")
	}
	// The search must at least see the draw line as scoring 0.
	m, err := b.ParseMove("f6g8")
	if err != nil {
		t.Fatal(err)
	}
	b.MakeMove(m)
	RecordState(&b)
	if !isDraw(0) {
		t.Fatal("threefold repetition not flagged on the state stack")
	}
}

func TestKillerInsertShiftsAndDedups(t *testing.T) {
	var k KillerStruct
	m1 := gm.NewMove(1, 2, gm.FlagQuiet)
	m2 := gm.NewMove(3, 4, gm.FlagQuiet)
	k.InsertKiller(m1, 5)
	k.InsertKiller(m1, 5) // duplicate must not shift
	if k.KillerMoves[5][0] != m1 || k.KillerMoves[5][1] != gm.NullMove {
		t.Fatalf("duplicate insert shifted: %v", k.KillerMoves[5])
	}
	k.InsertKiller(m2, 5)
	if k.KillerMoves[5][0] != m2 || k.KillerMoves[5][1] != m1 {
		t.Fatalf("insert did not shift: %v", k.KillerMoves[5])
	}
	k.ClearKillers()
	if k.KillerMoves[5][0] != gm.NullMove {
		t.Fatal("ClearKillers left a move behind")
	}
}

func TestMateOrCPScoreFormatting(t *testing.T) {
	cases := []struct {
		score int32
		want  string
	}{
		{15, "cp 15"},
		{-230, "cp -230"},
		{MaxScore - 1, "mate 1"},
		{MaxScore - 4, "mate 2"},
		{-(MaxScore - 3), "mate -2"},
	}
	for _, tc := range cases {
		if got := getMateOrCPScore(tc.score); got != tc.want {
			t.Errorf("score %d: got %q want %q", tc.score, got, tc.want)
		}
	}
}
