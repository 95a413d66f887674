package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	gm "drake-engine/drakemg"
)

// Score bounds. Mate scores count down from MaxScore by the ply the mate was
// found at; anything past Checkmate is treated as a forced mate.
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

// Search knobs.
const (
	aspirationWindow  int32 = 48
	aspirationMax     int32 = 4096
	nullMoveMinDepth        = 5
	nullMoveReduction       = 3
	lmrMinDepth             = 3
	lmrMinIndex             = 3
	deltaMargin       int32 = 200
	qsearchExtension        = 16
	nodeCheckMask           = 2047
)

// Shared search state. The tables persist across searches so iterative
// deepening and consecutive game moves reuse earlier work; behavior toggles
// live in SearchConfig, passed by value.
var (
	TT              TransTable
	killerMoveTable KillerStruct
	timeHandler     TimeHandler

	// GlobalStop is the asynchronous stop flag; the UCI loop flips it from
	// another goroutine and the search polls it between node batches.
	GlobalStop atomic.Bool
)

// SearchConfig enumerates the recognized behavior toggles.
type SearchConfig struct {
	EnableNMP  bool
	EnableLMR  bool
	EnableASP  bool
	EmitInfo   bool
	HashSizeMB int
}

// DefaultSearchConfig enables every standard technique.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		EnableNMP:  true,
		EnableLMR:  true,
		EnableASP:  true,
		EmitInfo:   true,
		HashSizeMB: DefaultHashSizeMB,
	}
}

// SearchLimits bounds a search. Times are in milliseconds; zero means
// "not limited by this".
type SearchLimits struct {
	MaxDepth  int
	MaxNodes  uint64
	MoveTime  int
	WhiteTime int
	BlackTime int
	WhiteInc  int
	BlackInc  int
	Infinite  bool
}

// SearchResult reports the outcome of the last completed iteration.
type SearchResult struct {
	BestMove gm.Move
	Score    int32
	Depth    int
	Nodes    uint64
	Time     time.Duration
	PV       []gm.Move
	IsMate   bool
	MateIn   int
}

// Stop requests that a running search terminate as soon as possible.
func Stop() {
	GlobalStop.Store(true)
}

type searchContext struct {
	board     *gm.Board
	cfg       SearchConfig
	limits    SearchLimits
	evaluator Evaluator
	nodes     uint64
	rootIndex int
	qPlyCap   int
	aborted   bool
}

// StartSearch runs an iterative-deepening search on the board under the given
// limits and returns the best move of the last completed iteration. If even
// depth 1 cannot finish, the first legal root move is returned as a safe
// placeholder.
func StartSearch(board *gm.Board, cfg SearchConfig, limits SearchLimits) SearchResult {
	GlobalStop.Store(false)
	resetCutStats()
	if !TT.isInitialized || (cfg.HashSizeMB > 0 && cfg.HashSizeMB != TT.sizeMB) {
		TT.Resize(cfg.HashSizeMB)
	}
	ensureStateStackSynced(board)
	timeHandler.Start(board, limits)

	maxDepth := limits.MaxDepth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	ctx := &searchContext{
		board:     board,
		cfg:       cfg,
		limits:    limits,
		evaluator: StandardEvaluator{},
		rootIndex: len(stateStack) - 1,
		qPlyCap:   Min(maxDepth+qsearchExtension, MaxDepth),
	}

	start := time.Now()
	ctx.nodes++ // the root itself

	var rootMoves gm.MoveBuffer
	board.GenerateLegalMoves(&rootMoves, false)
	if rootMoves.Len() == 0 {
		score := DrawScore
		if board.InCheck(board.SideToMove()) {
			score = -MaxScore
		}
		return SearchResult{BestMove: gm.NullMove, Score: score, Nodes: ctx.nodes, Time: time.Since(start)}
	}

	result := SearchResult{BestMove: rootMoves.Get(0), Score: 0, Nodes: ctx.nodes}

	var pv PVLine
	prevScore := int32(0)
	for depth := 1; depth <= maxDepth; depth++ {
		score, completed := ctx.searchRoot(depth, prevScore, &pv)
		if !completed {
			break
		}
		prevScore = score

		best := pv.Clone()
		if best.GetPVMove() != gm.NullMove {
			result.BestMove = best.GetPVMove()
			result.PV = best.Moves
		}
		result.Score = score
		result.Depth = depth
		result.Nodes = ctx.nodes
		result.Time = time.Since(start)

		if cfg.EmitInfo {
			ms := result.Time.Milliseconds()
			nps := int64(ctx.nodes)
			if ms > 0 {
				nps = int64(ctx.nodes) * 1000 / ms
			}
			fmt.Printf("info depth %d score %s nodes %d time %d nps %d pv%s\n",
				depth, getMateOrCPScore(score), ctx.nodes, ms, nps, getPVLineString(best))
		}

		if abs32(score) >= Checkmate {
			break // forced mate; deeper iterations only re-prove it
		}
		if ctx.shouldStop() {
			break
		}
	}

	result.Nodes = ctx.nodes
	result.Time = time.Since(start)
	if abs32(result.Score) >= Checkmate {
		result.IsMate = true
		plies := int(MaxScore - abs32(result.Score))
		result.MateIn = (plies + 1) / 2
		if result.Score < 0 {
			result.MateIn = -result.MateIn
		}
	}
	if PrintCutStats {
		dumpCutStats()
	}
	return result
}

// searchRoot runs one iteration, wrapped in an aspiration window centered on
// the previous score. The window doubles on each failure until it hits the
// cap, at which point that side falls back to the full bound.
func (ctx *searchContext) searchRoot(depth int, prev int32, pv *PVLine) (int32, bool) {
	alpha, beta := -MaxScore, MaxScore
	window := aspirationWindow
	useAsp := ctx.cfg.EnableASP && depth > 1 && abs32(prev) < Checkmate
	if useAsp {
		alpha, beta = prev-window, prev+window
	}
	for {
		score := ctx.alphabeta(depth, 0, alpha, beta, pv, gm.NullMove, true)
		if ctx.aborted {
			return 0, false
		}
		if useAsp && score <= alpha {
			window *= 2
			if window >= aspirationMax {
				alpha = -MaxScore
			} else {
				alpha = prev - window
			}
			continue
		}
		if useAsp && score >= beta {
			window *= 2
			if window >= aspirationMax {
				beta = MaxScore
			} else {
				beta = prev + window
			}
			continue
		}
		return score, true
	}
}

func (ctx *searchContext) alphabeta(depth, ply int, alpha, beta int32, pv *PVLine, prevMove gm.Move, nullOK bool) int32 {
	b := ctx.board
	ctx.nodes++
	if ctx.nodes&nodeCheckMask == 0 {
		ctx.checkLimits()
	}
	if ctx.aborted || GlobalStop.Load() {
		ctx.aborted = true
		return 0
	}

	pv.Clear()

	if ply > 0 && isDraw(ctx.rootIndex) {
		return DrawScore
	}

	inCheck := b.InCheck(b.SideToMove())
	if inCheck {
		depth++ // check extension
	}
	if depth <= 0 || ply >= MaxDepth {
		return ctx.quiescence(ply, alpha, beta)
	}

	isPVNode := beta-alpha > 1

	var ttMove gm.Move
	hash := b.Hash()
	if entry, found := TT.getEntry(hash); found {
		ttMove = entry.Move
		if ply > 0 && !isPVNode {
			if usable, score := TT.useEntry(entry, hash, depth, alpha, beta, ply); usable {
				cutStats.TTCutoffs++
				return score
			}
		}
	}

	// Null-move pruning: hand the opponent a free move; if the reduced search
	// still lands above beta the real position surely does too. Unsound in
	// check and in pawn endings (zugzwang), so those are excluded.
	if ctx.cfg.EnableNMP && nullOK && !isPVNode && depth >= nullMoveMinDepth &&
		!inCheck && hasNonPawnMaterial(b, b.SideToMove()) {
		st := b.MakeNullMove()
		pushState(b)
		var nullPV PVLine
		score := -ctx.alphabeta(depth-1-nullMoveReduction, ply+1, -beta, -beta+1, &nullPV, gm.NullMove, false)
		popState()
		b.UnmakeNullMove(st)
		if ctx.aborted {
			return 0
		}
		if score >= beta {
			cutStats.NullMoveCutoffs++
			return beta
		}
	}

	var moves gm.MoveBuffer
	b.GenerateLegalMoves(&moves, false)
	if moves.Len() == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}

	mp := newMovePicker(b, &moves, ttMove, ply, prevMove)
	side := b.SideToMove()

	origAlpha := alpha
	bestScore := -MaxScore
	bestMove := gm.NullMove
	var childPV PVLine
	var quietsTried [gm.MaxMoves]gm.Move
	quietCount := 0

	for moveIdx := 0; ; moveIdx++ {
		move, ok := mp.next()
		if !ok {
			break
		}
		quiet := !move.IsCapture() && !move.IsPromotion()
		givesCheck := b.GivesCheck(move)
		histScore := historyMove[side][move.From()][move.To()]

		st := b.MakeMove(move)
		pushState(b)

		var score int32
		if moveIdx == 0 {
			score = -ctx.alphabeta(depth-1, ply+1, -beta, -alpha, &childPV, move, true)
		} else {
			// Late quiet moves start at a reduced depth with a null window;
			// anything that beats alpha earns the two-stage re-search.
			reduction := 0
			if ctx.cfg.EnableLMR && depth >= lmrMinDepth && moveIdx >= lmrMinIndex &&
				quiet && !inCheck && !givesCheck {
				reduction = computeLMRReduction(depth, moveIdx, histScore)
			}
			score = -ctx.alphabeta(depth-1-reduction, ply+1, -(alpha + 1), -alpha, &childPV, move, true)
			if score > alpha && reduction > 0 {
				cutStats.LMRResearches++
				score = -ctx.alphabeta(depth-1, ply+1, -(alpha + 1), -alpha, &childPV, move, true)
			}
			if score > alpha && score < beta {
				score = -ctx.alphabeta(depth-1, ply+1, -beta, -alpha, &childPV, move, true)
			}
		}

		popState()
		b.UnmakeMove(move, st)
		if ctx.aborted {
			return 0
		}

		if score >= beta {
			cutStats.BetaCutoffs++
			if quiet {
				killerMoveTable.InsertKiller(move, ply)
				incrementHistoryScore(side, move, depth)
				storeCounter(side, prevMove, move)
				for i := 0; i < quietCount; i++ {
					decrementHistoryScore(side, quietsTried[i])
				}
			}
			TT.storeEntry(hash, depth, ply, move, beta, BetaFlag)
			return beta
		}
		if score > bestScore {
			bestScore = score
			bestMove = move
			if score > alpha {
				alpha = score
				pv.Update(move, &childPV)
			}
		}
		if quiet && quietCount < len(quietsTried) {
			quietsTried[quietCount] = move
			quietCount++
		}
	}

	flag := int8(AlphaFlag)
	if alpha > origAlpha {
		flag = ExactFlag
	}
	TT.storeEntry(hash, depth, ply, bestMove, bestScore, flag)
	return bestScore
}

func (ctx *searchContext) quiescence(ply int, alpha, beta int32) int32 {
	b := ctx.board
	ctx.nodes++
	if ctx.nodes&nodeCheckMask == 0 {
		ctx.checkLimits()
	}
	if ctx.aborted || GlobalStop.Load() {
		ctx.aborted = true
		return 0
	}

	inCheck := b.InCheck(b.SideToMove())
	standPat := ctx.evaluator.Evaluate(b)

	if ply >= ctx.qPlyCap {
		return standPat
	}

	if !inCheck {
		if standPat >= beta {
			cutStats.QStandPatCutoffs++
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var moves gm.MoveBuffer
	b.GenerateLegalMoves(&moves, true) // captures+promotions, or evasions in check
	if moves.Len() == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return alpha
	}

	mp := newQuiescencePicker(b, &moves)
	for {
		move, ok := mp.next()
		if !ok {
			break
		}
		if !inCheck && move.IsCapture() {
			victim := b.PieceAt(move.To()).Type()
			if move.IsEnPassant() {
				victim = gm.PieceTypePawn
			}
			margin := deltaMargin
			if move.IsPromotion() {
				margin += seeValue[move.PromotionPieceType()]
			}
			if standPat+seeValue[victim]+margin < alpha {
				cutStats.DeltaPrunes++
				continue
			}
			if see(b, move) < 0 {
				cutStats.SEEPrunes++
				continue
			}
		}

		st := b.MakeMove(move)
		score := -ctx.quiescence(ply+1, -beta, -alpha)
		b.UnmakeMove(move, st)
		if ctx.aborted {
			return 0
		}

		if score >= beta {
			cutStats.QBetaCutoffs++
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (ctx *searchContext) checkLimits() {
	if GlobalStop.Load() {
		ctx.aborted = true
		return
	}
	if ctx.limits.MaxNodes > 0 && ctx.nodes >= ctx.limits.MaxNodes {
		ctx.aborted = true
		return
	}
	if timeHandler.TimeStatus() {
		ctx.aborted = true
	}
}

func (ctx *searchContext) shouldStop() bool {
	ctx.checkLimits()
	return ctx.aborted
}
