package engine

import (
	"testing"

	gm "drake-engine/drakemg"
)

func TestTransTableStoreProbe(t *testing.T) {
	var tt TransTable
	tt.Resize(1)

	hash := uint64(0xDEADBEEFCAFE)
	move := gm.NewMove(12, 28, gm.FlagDoublePush) // e2e4
	tt.storeEntry(hash, 6, 0, move, 42, ExactFlag)

	entry, found := tt.getEntry(hash)
	if !found {
		t.Fatal("stored entry not found")
	}
	if entry.Move != move {
		t.Fatalf("move: got %s want %s", entry.Move, move)
	}
	usable, score := tt.useEntry(entry, hash, 6, -MaxScore, MaxScore, 0)
	if !usable || score != 42 {
		t.Fatalf("useEntry: usable=%v score=%d", usable, score)
	}

	// A deeper requirement must reject the shallow entry.
	if usable, _ := tt.useEntry(entry, hash, 7, -MaxScore, MaxScore, 0); usable {
		t.Fatal("entry searched to depth 6 satisfied a depth-7 probe")
	}
}

func TestTransTableBoundKinds(t *testing.T) {
	var tt TransTable
	tt.Resize(1)

	// Lower bound only cuts when it clears beta.
	tt.storeEntry(1, 4, 0, gm.NullMove, 120, BetaFlag)
	entry, _ := tt.getEntry(1)
	if usable, score := tt.useEntry(entry, 1, 4, -50, 100, 0); !usable || score != 100 {
		t.Fatalf("lower bound vs beta=100: usable=%v score=%d", usable, score)
	}
	if usable, _ := tt.useEntry(entry, 1, 4, -50, 300, 0); usable {
		t.Fatal("lower bound 120 cut a window reaching 300")
	}

	// Upper bound only cuts when it stays under alpha.
	tt.storeEntry(2, 4, 0, gm.NullMove, -80, AlphaFlag)
	entry, _ = tt.getEntry(2)
	if usable, score := tt.useEntry(entry, 2, 4, -50, 100, 0); !usable || score != -50 {
		t.Fatalf("upper bound vs alpha=-50: usable=%v score=%d", usable, score)
	}
	if usable, _ := tt.useEntry(entry, 2, 4, -200, 100, 0); usable {
		t.Fatal("upper bound -80 cut a window from -200")
	}
}

// Mate scores go in ply-absolute and come back out relative to the probing
// ply, so mate distances stay consistent across transpositions.
func TestTransTableMateScoreAdjustment(t *testing.T) {
	var tt TransTable
	tt.Resize(1)

	mateAtPly4 := MaxScore - 4
	tt.storeEntry(7, 8, 4, gm.NullMove, mateAtPly4, ExactFlag)

	entry, _ := tt.getEntry(7)
	if entry.Score != int16(MaxScore) {
		t.Fatalf("stored score %d, want ply-absolute %d", entry.Score, MaxScore)
	}
	usable, score := tt.useEntry(entry, 7, 8, -MaxScore, MaxScore, 4)
	if !usable || score != mateAtPly4 {
		t.Fatalf("probe at ply 4: usable=%v score=%d want %d", usable, score, mateAtPly4)
	}
	// Probed two plies deeper, the mate is two plies further away.
	usable, score = tt.useEntry(entry, 7, 8, -MaxScore, MaxScore, 6)
	if !usable || score != MaxScore-6 {
		t.Fatalf("probe at ply 6: usable=%v score=%d want %d", usable, score, MaxScore-6)
	}
}

// A full cluster only evicts its shallowest entry, and only for an entry at
// least as deep.
func TestTransTableReplacementPolicy(t *testing.T) {
	var tt TransTable
	tt.Resize(1)

	stride := tt.clusterMask + 1
	base := uint64(5)
	for i := uint64(0); i < clusterSize; i++ {
		tt.storeEntry(base+i*stride, int(10+i), 0, gm.NullMove, 1, ExactFlag)
	}

	// Shallower than everything in the cluster: dropped.
	shallow := base + clusterSize*stride
	tt.storeEntry(shallow, 3, 0, gm.NullMove, 1, ExactFlag)
	if _, found := tt.getEntry(shallow); found {
		t.Fatal("shallow entry evicted a deeper one")
	}
	for i := uint64(0); i < clusterSize; i++ {
		if _, found := tt.getEntry(base + i*stride); !found {
			t.Fatalf("resident entry %d lost", i)
		}
	}

	// Deep enough: replaces the shallowest resident (depth 10).
	deep := base + (clusterSize+1)*stride
	tt.storeEntry(deep, 30, 0, gm.NullMove, 1, ExactFlag)
	if _, found := tt.getEntry(deep); !found {
		t.Fatal("deep entry was not stored")
	}
	if _, found := tt.getEntry(base); found {
		t.Fatal("shallowest resident survived the eviction")
	}

	// Same hash always updates in place.
	tt.storeEntry(deep, 31, 0, gm.NullMove, 9, ExactFlag)
	entry, _ := tt.getEntry(deep)
	if entry.Depth != 31 || entry.Score != 9 {
		t.Fatalf("in-place update failed: depth=%d score=%d", entry.Depth, entry.Score)
	}
}

func TestTransTableClearAndHashFull(t *testing.T) {
	var tt TransTable
	tt.Resize(1)
	if tt.HashFull() != 0 {
		t.Fatalf("fresh table hashfull %d", tt.HashFull())
	}
	for i := uint64(1); i <= 500; i++ {
		tt.storeEntry(i*0x9E3779B97F4A7C15, 4, 0, gm.NullMove, 0, ExactFlag)
	}
	if tt.HashFull() == 0 {
		t.Fatal("hashfull still 0 after 500 stores")
	}
	tt.Clear()
	if tt.HashFull() != 0 {
		t.Fatalf("hashfull %d after Clear", tt.HashFull())
	}
	if _, found := tt.getEntry(0x9E3779B97F4A7C15); found {
		t.Fatal("entry survived Clear")
	}
}
