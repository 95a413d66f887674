package drakemg

import "math/rand"

// Magic bitboards map (square, blockers) to a precomputed attack set with a
// single multiply and shift: ATTACKS[offset + ((blockers&mask)*magic)>>shift].
// The magic constants are found once at init by a seeded random search and
// verified to hash every blocker subset perfectly; a failure to find a
// verified magic is fatal, the tables are unusable without one.

type magicEntry struct {
	mask   uint64
	magic  uint64
	shift  uint8
	offset uint32
}

var (
	rookMagics   [64]magicEntry
	bishopMagics [64]magicEntry

	// Shared attack storage for both sliders: rook tables first, bishop after.
	// 102400 rook entries + 5248 bishop entries.
	attackTable [107648]uint64
)

var rookDirs = [4]int{dirNorth, dirSouth, dirEast, dirWest}
var bishopDirs = [4]int{dirNorthEast, dirSouthEast, dirSouthWest, dirNorthWest}

// positiveDir reports whether the direction increases square indices, which
// decides whether the nearest blocker is the lowest or highest bit on the ray.
func positiveDir(dir int) bool {
	switch dir {
	case dirNorth, dirEast, dirNorthEast, dirNorthWest:
		return true
	}
	return false
}

// slidingAttack computes slider attacks by walking rays until the first
// blocker. This is the slow reference the magic tables are verified against.
func slidingAttack(sq Square, dirs [4]int, occupancy uint64) uint64 {
	var attacks uint64
	for _, dir := range dirs {
		ray := rays[dir][sq]
		attacks |= ray
		if blockers := ray & occupancy; blockers != 0 {
			var first int
			if positiveDir(dir) {
				first = Lsb(blockers)
			} else {
				first = Msb(blockers)
			}
			attacks &^= rays[dir][first]
		}
	}
	return attacks
}

// relevantMask is the blocker mask hashed by the magic: the empty-board
// attack set with the board edge stripped per axis (a blocker on the edge
// never changes the attack set).
func relevantMask(sq Square, dirs [4]int) uint64 {
	edges := ((rankMasks[0] | rankMasks[7]) &^ rankMasks[sq.Rank()]) |
		((fileMasks[0] | fileMasks[7]) &^ fileMasks[sq.File()])
	return slidingAttack(sq, dirs, 0) &^ edges
}

// sparseRandom draws candidates with few set bits; dense magics almost never
// hash perfectly.
func sparseRandom(rnd *rand.Rand) uint64 {
	return rnd.Uint64() & rnd.Uint64() & rnd.Uint64()
}

const magicSearchLimit = 100000000

// findMagic searches for a verified magic for one square. occupancies and
// reference hold every blocker subset of the mask and its true attack set.
func findMagic(rnd *rand.Rand, mask uint64, occupancies, reference []uint64, scratch []uint64) uint64 {
	numBits := PopCount(mask)
	shift := uint(64 - numBits)
	size := 1 << uint(numBits)

	for attempt := 0; attempt < magicSearchLimit; attempt++ {
		magic := sparseRandom(rnd)
		// The top byte of mask*magic must be well mixed or the hash cannot
		// be perfect; cheap rejection before the full verification.
		if PopCount((mask*magic)&0xFF00000000000000) < 6 {
			continue
		}

		for i := 0; i < size; i++ {
			scratch[i] = 0
		}
		ok := true
		for i := 0; i < len(occupancies); i++ {
			idx := (occupancies[i] * magic) >> shift
			if scratch[idx] == 0 {
				scratch[idx] = reference[i]
			} else if scratch[idx] != reference[i] {
				ok = false
				break
			}
		}
		if ok {
			return magic
		}
	}
	panic("drakemg: magic search failed to converge")
}

func initMagics() {
	// Fixed seed so every process builds identical tables.
	rnd := rand.New(rand.NewSource(0x5EED))

	var offset uint32
	offset = initSliderMagics(rnd, rookDirs, &rookMagics, offset)
	offset = initSliderMagics(rnd, bishopDirs, &bishopMagics, offset)
	if int(offset) != len(attackTable) {
		panic("drakemg: magic table size mismatch")
	}
}

func initSliderMagics(rnd *rand.Rand, dirs [4]int, entries *[64]magicEntry, offset uint32) uint32 {
	var occupancies, reference, scratch [4096]uint64

	for sq := Square(0); sq < 64; sq++ {
		mask := relevantMask(sq, dirs)
		numBits := PopCount(mask)
		size := 1 << uint(numBits)

		// Carry-rippler: enumerate every subset of the mask.
		count := 0
		for subset := uint64(0); ; subset = (subset - mask) & mask {
			occupancies[count] = subset
			reference[count] = slidingAttack(sq, dirs, subset)
			count++
			if subset == mask {
				break
			}
		}

		magic := findMagic(rnd, mask, occupancies[:count], reference[:count], scratch[:size])

		e := magicEntry{
			mask:   mask,
			magic:  magic,
			shift:  uint8(64 - numBits),
			offset: offset,
		}
		// Fill the shared table through the verified hash.
		for i := 0; i < count; i++ {
			idx := (occupancies[i] * magic) >> e.shift
			attackTable[offset+uint32(idx)] = reference[i]
		}
		entries[sq] = e
		offset += uint32(size)
	}
	return offset
}

// RookAttacks returns the rook attack set for the given blockers.
func RookAttacks(sq Square, blockers uint64) uint64 {
	e := &rookMagics[sq]
	return attackTable[e.offset+uint32(((blockers&e.mask)*e.magic)>>e.shift)]
}

// BishopAttacks returns the bishop attack set for the given blockers.
func BishopAttacks(sq Square, blockers uint64) uint64 {
	e := &bishopMagics[sq]
	return attackTable[e.offset+uint32(((blockers&e.mask)*e.magic)>>e.shift)]
}

// QueenAttacks returns the queen attack set for the given blockers.
func QueenAttacks(sq Square, blockers uint64) uint64 {
	return RookAttacks(sq, blockers) | BishopAttacks(sq, blockers)
}
