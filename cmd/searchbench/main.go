package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/dylhunn/dragontoothmg"

	gm "drake-engine/drakemg"
	"drake-engine/engine"
)

// A small bank of positions covering the opening, a tactical middlegame and
// two endgames, so the bench exercises every search phase.
var benchFENs = []string{
	gm.FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"8/k1P5/8/1K6/8/8/8/8 w - - 0 1",
}

func main() {
	depthFlag := flag.Int("depth", 10, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of bench passes to run")
	fenFlag := flag.String("fen", "", "single FEN to search (empty = built-in bank)")
	crossCheck := flag.Bool("crosscheck", false, "verify perft(4) of every bench position against dragontoothmg")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	fens := benchFENs
	if *fenFlag != "" {
		fens = []string{*fenFlag}
	}

	if *crossCheck {
		for _, fen := range fens {
			board, err := gm.ParseFEN(fen)
			if err != nil {
				log.Fatalf("ParseFEN(%q): %v", fen, err)
			}
			ref := dragontoothmg.ParseFen(fen)
			got := board.Perft(4)
			want := uint64(dragontoothmg.Perft(&ref, 4))
			if got != want {
				log.Fatalf("perft(4) mismatch on %q: got %d, reference %d", fen, got, want)
			}
		}
		fmt.Println("crosscheck: all bench positions agree with the reference generator")
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	cfg := engine.DefaultSearchConfig()
	cfg.EmitInfo = false

	fmt.Printf("searchbench: depth=%d repeat=%d positions=%d\n", *depthFlag, *repeatFlag, len(fens))

	var totalNodes uint64
	startAll := time.Now()
	for pass := 0; pass < *repeatFlag; pass++ {
		for _, fen := range fens {
			board, err := gm.ParseFEN(fen)
			if err != nil {
				log.Fatalf("ParseFEN(%q): %v", fen, err)
			}
			engine.ResetForNewGame()
			engine.ResetStateTracking(&board)

			res := engine.StartSearch(&board, cfg, engine.SearchLimits{MaxDepth: *depthFlag})
			totalNodes += res.Nodes
			nps := uint64(0)
			if res.Time > 0 {
				nps = uint64(float64(res.Nodes) / res.Time.Seconds())
			}
			fmt.Printf("%-72s bestmove %-6s score %-6d nodes %-10d time %-12v nps %d\n",
				fen, res.BestMove, res.Score, res.Nodes, res.Time, nps)
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total: nodes=%d time=%v nps=%.0f\n",
		totalNodes, totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
