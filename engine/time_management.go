package engine

import (
	"time"

	gm "drake-engine/drakemg"
)

// TimeHandler turns a clock + increment into a per-move deadline. The search
// polls TimeStatus between batches of nodes.
type TimeHandler struct {
	remainingTime    int
	increment        int
	timeForMove      time.Time
	isInitialized    bool
	usingCustomDepth bool
	infinite         bool
}

// Start derives the move deadline from the limits for the side to move.
func (th *TimeHandler) Start(b *gm.Board, limits SearchLimits) {
	th.isInitialized = true
	th.usingCustomDepth = false
	th.infinite = false

	if limits.Infinite {
		th.infinite = true
		return
	}
	if limits.MoveTime > 0 {
		th.remainingTime = limits.MoveTime
		th.timeForMove = time.Now().Add(time.Duration(limits.MoveTime) * time.Millisecond)
		return
	}

	rem, inc := limits.WhiteTime, limits.WhiteInc
	if b.SideToMove() == gm.Black {
		rem, inc = limits.BlackTime, limits.BlackInc
	}
	if rem <= 0 {
		// Depth- or node-limited search with no clock.
		th.usingCustomDepth = true
		return
	}
	th.remainingTime = rem
	th.increment = inc

	// Estimate moves left from phase
	movesLeft := estimateMovesRemaining(gamePhase(b))

	// Engine-side safety knobs
	const overheadMs = 30      // reserve for UCI/IO jitter
	const minMoveMs = 5        // never less than this
	const maxFrac = 0.7        // never spend >70% of remaining time
	const panicThreshMs = 1000 // almost flagging
	const panicFrac = 0.90     // use 90% of inc in panic

	var moveTime int
	if inc > 0 {
		if rem < panicThreshMs {
			// Panic: try to bank a little time
			moveTime = int(float64(inc) * panicFrac)
		} else {
			// Normal: spend a fraction of remaining + take (most of) the inc
			moveTime = rem/movesLeft + inc
		}
	} else {
		moveTime = rem / 40
	}

	// Apply overhead and clamps
	if moveTime < minMoveMs {
		moveTime = minMoveMs
	}
	if moveTime > int(float64(rem)*maxFrac) {
		moveTime = int(float64(rem) * maxFrac)
	}
	if moveTime > rem-overheadMs {
		moveTime = rem - overheadMs
	}
	if moveTime < minMoveMs {
		moveTime = minMoveMs // re-check after ceiling
	}

	th.timeForMove = time.Now().Add(time.Duration(moveTime) * time.Millisecond)
}

// Update pushes the deadline out by extraTime milliseconds from now.
func (th *TimeHandler) Update(extraTime int64) {
	th.timeForMove = time.Now().Add(time.Duration(extraTime) * time.Millisecond)
}

// TimeStatus reports true once the allotted move time has run out. Infinite
// and unclocked searches never time out; they stop on depth, nodes or the
// stop flag.
func (th *TimeHandler) TimeStatus() bool {
	if !th.isInitialized || th.infinite || th.usingCustomDepth {
		return false
	}
	return th.timeForMove.Before(time.Now())
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/24 + 20 // result in [20, 45]
}
