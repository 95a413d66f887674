package engine

// MaxDepth is the absolute ply ceiling for the search stack, killer table and
// LMR lookups.
const MaxDepth = 100

// LMR holds precomputed late-move reductions indexed by [depth][move index].
var LMR [MaxDepth + 1][100]int8

func init() {
	initLMRTable()
}

func initLMRTable() {
	for d := 1; d <= MaxDepth; d++ {
		for m := 1; m < 100; m++ {
			r := 1 + d/8 + m/16 // gentle growth with depth & lateness
			if r > d-2 {
				r = d - 2 // keep depth-1-r >= 1
			}
			if r < 0 {
				r = 0
			}
			LMR[d][m] = int8(r)
		}
	}
}
