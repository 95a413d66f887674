package drakemg

import "fmt"

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Depth 0 is a single leaf. Bulk counting is used at depth 1.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	var buf MoveBuffer
	b.GenerateLegalMoves(&buf, false)

	if depth == 1 {
		return uint64(buf.Len())
	}

	var nodes uint64
	for i := 0; i < buf.Len(); i++ {
		m := buf.Get(i)
		st := b.MakeMove(m)
		nodes += b.Perft(depth - 1)
		b.UnmakeMove(m, st)
	}
	return nodes
}

// PerftDivide prints the node count under each root move and returns the
// total. Handy for diffing against another generator when a perft count is
// off.
func (b *Board) PerftDivide(depth int) uint64 {
	var buf MoveBuffer
	b.GenerateLegalMoves(&buf, false)

	var total uint64
	for i := 0; i < buf.Len(); i++ {
		m := buf.Get(i)
		st := b.MakeMove(m)
		nodes := b.Perft(depth - 1)
		b.UnmakeMove(m, st)
		fmt.Printf("%s: %d\n", m, nodes)
		total += nodes
	}
	fmt.Printf("total: %d\n", total)
	return total
}
