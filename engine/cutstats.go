package engine

import "fmt"

// CutStatistics collects counts for each pruning/cutoff mechanism.
type CutStatistics struct {
	TTCutoffs        uint64
	NullMoveCutoffs  uint64
	BetaCutoffs      uint64
	DeltaPrunes      uint64
	SEEPrunes        uint64
	LMRResearches    uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
}

var cutStats CutStatistics

// PrintCutStats controls whether the engine dumps the cut statistics once the
// current search finishes. Set via a CLI/command toggle.
var PrintCutStats bool

func resetCutStats() {
	cutStats = CutStatistics{}
}

func dumpCutStats() {
	fmt.Println("info string Cut statistics:")
	fmt.Printf("info string   TT cutoffs: %d\n", cutStats.TTCutoffs)
	fmt.Printf("info string   Null-move cutoffs: %d\n", cutStats.NullMoveCutoffs)
	fmt.Printf("info string   Beta cutoffs: %d\n", cutStats.BetaCutoffs)
	fmt.Printf("info string   Delta prunes: %d\n", cutStats.DeltaPrunes)
	fmt.Printf("info string   SEE prunes: %d\n", cutStats.SEEPrunes)
	fmt.Printf("info string   LMR re-searches: %d\n", cutStats.LMRResearches)
	fmt.Printf("info string   QStandPat cutoffs: %d\n", cutStats.QStandPatCutoffs)
	fmt.Printf("info string   QBeta cutoffs: %d\n", cutStats.QBetaCutoffs)
}
