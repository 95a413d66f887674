package engine

import (
	"strings"
	"testing"
	"unicode"

	gm "drake-engine/drakemg"
)

// mirrorFEN swaps colors, mirrors ranks and flips the side to move, producing
// the color-reversed twin of the position.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		t.Fatalf("unexpected FEN %q", fen)
	}

	ranks := strings.Split(fields[0], "/")
	mirrored := make([]string, 8)
	for i, r := range ranks {
		var sb strings.Builder
		for _, ch := range r {
			switch {
			case unicode.IsUpper(ch):
				sb.WriteRune(unicode.ToLower(ch))
			case unicode.IsLower(ch):
				sb.WriteRune(unicode.ToUpper(ch))
			default:
				sb.WriteRune(ch)
			}
		}
		mirrored[7-i] = sb.String()
	}

	side := "w"
	if fields[1] == "w" {
		side = "b"
	}

	castling := "-"
	if fields[2] != "-" {
		var sb strings.Builder
		for _, want := range "KQkq" {
			flipped := unicode.ToLower(want)
			if unicode.IsLower(want) {
				flipped = unicode.ToUpper(want)
			}
			if strings.ContainsRune(fields[2], flipped) {
				sb.WriteRune(want)
			}
		}
		if sb.Len() > 0 {
			castling = sb.String()
		}
	}

	ep := fields[3]
	if ep != "-" {
		rank := ep[1] - '0'
		ep = string(ep[0]) + string('0'+9-rank)
	}

	return strings.Join([]string{strings.Join(mirrored, "/"), side, castling, ep, fields[4], fields[5]}, " ")
}

func evalFEN(t *testing.T, fen string) int32 {
	t.Helper()
	b, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return Evaluation(&b)
}

func TestEvaluationStartPosNearZero(t *testing.T) {
	score := evalFEN(t, gm.FENStartPos)
	if abs32(score) > 30 {
		t.Fatalf("start position eval %d, want near zero", score)
	}
}

func TestEvaluationExtraQueen(t *testing.T) {
	score := evalFEN(t, "rnbqkbnr/pppppppp/8/8/3Q4/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if score < 500 {
		t.Fatalf("extra queen eval %d, want clearly positive", score)
	}
}

// Mirroring a position must not change its score: the evaluation has no
// color-dependent terms.
func TestEvaluationMirrorSymmetry(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"8/k1P5/8/1K6/8/8/8/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		orig := evalFEN(t, fen)
		flip := evalFEN(t, mirrorFEN(t, fen))
		if orig != flip {
			t.Errorf("%q: eval %d, mirrored %d", fen, orig, flip)
		}
	}
}

func TestTraceEvaluatorMatchesScorer(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}
	for _, fen := range fens {
		b, err := gm.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var trace EvalTrace
		traced := TraceEvaluator{Trace: &trace}.Evaluate(&b)
		plain := StandardEvaluator{}.Evaluate(&b)
		if traced != plain {
			t.Errorf("%q: traced score %d != plain %d", fen, traced, plain)
		}
		if trace.Phase == 0 {
			t.Errorf("%q: trace phase not recorded", fen)
		}
		if trace.PieceCount[gm.White][gm.PieceTypeKing] != 1 {
			t.Errorf("%q: king count %d", fen, trace.PieceCount[gm.White][gm.PieceTypeKing])
		}
	}
}

func TestEvaluationIsPureAcrossCalls(t *testing.T) {
	b, err := gm.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	first := Evaluation(&b)
	for i := 0; i < 100; i++ {
		if got := Evaluation(&b); got != first {
			t.Fatalf("call %d: eval drifted %d -> %d", i, first, got)
		}
	}
}
