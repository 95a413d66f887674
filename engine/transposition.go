package engine

import (
	"unsafe"

	gm "drake-engine/drakemg"
)

// Bound kinds for stored scores.
const (
	AlphaFlag = iota // upper bound: real score <= Score
	BetaFlag         // lower bound: real score >= Score
	ExactFlag
)

const (
	clusterSize       = 4
	DefaultHashSizeMB = 64

	// Sentinel for probes that produced nothing usable.
	UnusableScore int32 = -32750
)

// TTEntry is one transposition table slot. Moves are stored verbatim; the
// 16-bit encoding is bit-exact so equality against a generated move is an
// integer compare.
type TTEntry struct {
	Hash  uint64
	Move  gm.Move
	Score int16
	Depth int8
	Flag  int8
}

// TransTable is a cluster-of-four transposition table. The cluster count is a
// power of two so indexing is a single mask.
type TransTable struct {
	entries       []TTEntry
	clusterMask   uint64
	sizeMB        int
	isInitialized bool
}

// Resize allocates the table for the requested size in MB, rounding the
// cluster count down to a power of two. Existing entries are dropped.
func (tt *TransTable) Resize(sizeMB int) {
	if sizeMB <= 0 {
		sizeMB = DefaultHashSizeMB
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	clusterBytes := entrySize * clusterSize
	clusterCount := uint64(sizeMB) * 1024 * 1024 / clusterBytes

	// Round down to a power of two so we can index with hash & mask.
	pow := uint64(1)
	for pow*2 <= clusterCount {
		pow *= 2
	}
	tt.clusterMask = pow - 1
	tt.entries = make([]TTEntry, pow*clusterSize)
	tt.sizeMB = sizeMB
	tt.isInitialized = true
}

// Clear zeroes every slot but keeps the allocation.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
}

func (tt *TransTable) free() {
	tt.entries = nil
	tt.clusterMask = 0
	tt.sizeMB = 0
	tt.isInitialized = false
}

// getEntry returns the matching entry in the hash's cluster, if any.
func (tt *TransTable) getEntry(hash uint64) (entry *TTEntry, found bool) {
	if !tt.isInitialized {
		return nil, false
	}
	base := int((hash & tt.clusterMask) * clusterSize)
	for i := 0; i < clusterSize; i++ {
		next := &tt.entries[base+i]
		if next.Hash == hash {
			return next, true
		}
	}
	return nil, false
}

// useEntry applies the stored bound against the caller's window. Mate scores
// are stored ply-absolute and converted back to ply-relative here, so that the
// same position reached at different depths reports consistent distances.
func (tt *TransTable) useEntry(entry *TTEntry, hash uint64, depth int, alpha, beta int32, ply int) (usable bool, score int32) {
	score = UnusableScore
	if entry == nil || entry.Hash != hash {
		return false, score
	}
	if int(entry.Depth) < depth {
		return false, score
	}
	norm := int32(entry.Score)
	if norm > Checkmate {
		norm -= int32(ply)
	} else if norm < -Checkmate {
		norm += int32(ply)
	}
	switch entry.Flag {
	case ExactFlag:
		return true, norm
	case AlphaFlag:
		if norm <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if norm >= beta {
			return true, beta
		}
	}
	return false, score
}

// storeEntry writes the result of a node into the hash's cluster. Preference
// order: the slot already holding this hash, then an empty slot, then the
// shallowest slot in the cluster - and that one only when the new entry
// searched at least as deep.
func (tt *TransTable) storeEntry(hash uint64, depth int, ply int, move gm.Move, score int32, flag int8) {
	if !tt.isInitialized {
		return
	}
	base := int((hash & tt.clusterMask) * clusterSize)

	// Mate scores become ply-absolute on the way in.
	if score > Checkmate {
		score += int32(ply)
	} else if score < -Checkmate {
		score -= int32(ply)
	}

	targetIdx := -1
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].Hash == hash {
			targetIdx = base + i
			break
		}
	}
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.entries[base+i].Hash == 0 {
				targetIdx = base + i
				break
			}
		}
	}
	if targetIdx == -1 {
		targetIdx = base
		minDepth := tt.entries[base].Depth
		for i := 1; i < clusterSize; i++ {
			if tt.entries[base+i].Depth < minDepth {
				minDepth = tt.entries[base+i].Depth
				targetIdx = base + i
			}
		}
		if int(minDepth) > depth {
			return // keep the older, deeper entry
		}
	}

	entry := &tt.entries[targetIdx]
	entry.Hash = hash
	entry.Depth = int8(depth)
	entry.Move = move
	entry.Flag = flag
	entry.Score = int16(score)
}

// HashFull reports the fill rate in per-mille, sampled over the first
// thousand entries the way UCI engines do.
func (tt *TransTable) HashFull() int {
	if !tt.isInitialized || len(tt.entries) == 0 {
		return 0
	}
	sample := 1000
	if len(tt.entries) < sample {
		sample = len(tt.entries)
	}
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].Hash != 0 {
			used++
		}
	}
	return used * 1000 / sample
}
