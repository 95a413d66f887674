package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	gm "drake-engine/drakemg"
	"drake-engine/engine"
)

const (
	engineName    = "Drake"
	engineVersion = "1.0"
	engineAuthor  = "the Drake authors"
)

func main() {
	uciLoop()
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1<<16), 1<<16)

	board, _ := gm.ParseFEN(gm.FENStartPos)
	engine.ResetStateTracking(&board)
	cfg := engine.DefaultSearchConfig()

	// Non-nil while a search goroutine is running; closed when it finishes.
	var searchDone chan struct{}
	waitSearch := func() {
		if searchDone != nil {
			<-searchDone
			searchDone = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Printf("id name %s %s\n", engineName, engineVersion)
			fmt.Printf("id author %s\n", engineAuthor)
			fmt.Printf("option name Hash type spin default %d min 1 max 4096\n", engine.DefaultHashSizeMB)
			fmt.Println("option name Clear Hash type button")
			fmt.Println("option name NullMovePruning type check default true")
			fmt.Println("option name LateMoveReductions type check default true")
			fmt.Println("option name AspirationWindows type check default true")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			engine.Stop()
			waitSearch()
			board, _ = gm.ParseFEN(gm.FENStartPos)
			engine.ResetForNewGame()
			engine.ResetStateTracking(&board)
		case "position":
			engine.Stop()
			waitSearch()
			if err := parsePosition(line, &board); err != nil {
				fmt.Println("info string", err)
			}
		case "go":
			if searchDone != nil {
				select {
				case <-searchDone:
					searchDone = nil
				default:
					fmt.Println("info string search already running")
					continue
				}
			}
			limits := parseGo(line)
			done := make(chan struct{})
			searchDone = done
			b := board // search on copies so "position"/"setoption" can't race
			c := cfg
			go func() {
				res := engine.StartSearch(&b, c, limits)
				if res.BestMove == gm.NullMove {
					fmt.Println("bestmove 0000")
				} else {
					fmt.Println("bestmove", res.BestMove.String())
				}
				close(done)
			}()
		case "stop":
			engine.Stop()
			waitSearch()
		case "setoption":
			applyOption(line, &cfg)
		case "eval":
			fmt.Println("info string static eval", engine.Evaluation(&board), "cp")
		case "quit":
			engine.Stop()
			waitSearch()
			return
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

// parsePosition handles "position startpos [moves ...]" and
// "position fen <fen> [moves ...]", updating the board and the
// repetition history as moves are applied.
func parsePosition(line string, board *gm.Board) error {
	posScanner := bufio.NewScanner(strings.NewReader(line))
	posScanner.Split(bufio.ScanWords)
	posScanner.Scan() // skip "position"
	if !posScanner.Scan() {
		return fmt.Errorf("malformed position command")
	}

	switch strings.ToLower(posScanner.Text()) {
	case "startpos":
		b, _ := gm.ParseFEN(gm.FENStartPos)
		*board = b
		posScanner.Scan() // advance onto "moves", if present
	case "fen":
		fenstr := ""
		for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
			fenstr += posScanner.Text() + " "
		}
		b, err := gm.ParseFEN(strings.TrimSpace(fenstr))
		if err != nil {
			return fmt.Errorf("invalid fen position: %v", err)
		}
		*board = b
	default:
		return fmt.Errorf("invalid position subcommand %q", posScanner.Text())
	}

	engine.ResetStateTracking(board)
	if strings.ToLower(posScanner.Text()) != "moves" {
		return nil
	}
	for posScanner.Scan() {
		moveStr := strings.ToLower(posScanner.Text())
		move, err := board.ParseMove(moveStr)
		if err != nil {
			return fmt.Errorf("move %s not playable in position %s", moveStr, board.ToFEN())
		}
		board.MakeMove(move)
		engine.RecordState(board)
	}
	return nil
}

// parseGo extracts the search limits from a "go" command line. Unknown
// subcommands are reported and skipped.
func parseGo(line string) engine.SearchLimits {
	var limits engine.SearchLimits

	goScanner := bufio.NewScanner(strings.NewReader(line))
	goScanner.Split(bufio.ScanWords)
	goScanner.Scan() // skip "go"

	nextInt := func(name string) int {
		if !goScanner.Scan() {
			fmt.Println("info string Malformed go command option", name)
			return 0
		}
		v, err := strconv.Atoi(goScanner.Text())
		if err != nil {
			fmt.Println("info string Could not convert", name, "value", goScanner.Text())
			return 0
		}
		return v
	}

	for goScanner.Scan() {
		switch strings.ToLower(goScanner.Text()) {
		case "infinite":
			limits.Infinite = true
		case "wtime":
			limits.WhiteTime = nextInt("wtime")
		case "btime":
			limits.BlackTime = nextInt("btime")
		case "winc":
			limits.WhiteInc = nextInt("winc")
		case "binc":
			limits.BlackInc = nextInt("binc")
		case "movetime":
			limits.MoveTime = nextInt("movetime")
		case "depth":
			limits.MaxDepth = nextInt("depth")
		case "nodes":
			limits.MaxNodes = uint64(nextInt("nodes"))
		case "movestogo":
			nextInt("movestogo") // accepted but unused
		default:
			fmt.Println("info string Unknown go subcommand", goScanner.Text())
		}
	}
	return limits
}

// applyOption handles "setoption name <Name> [value <x>]".
func applyOption(line string, cfg *engine.SearchConfig) {
	lower := strings.ToLower(line)
	name, value := "", ""
	if i := strings.Index(lower, "name "); i >= 0 {
		name = strings.TrimSpace(lower[i+len("name "):])
	}
	if i := strings.Index(name, " value "); i >= 0 {
		value = strings.TrimSpace(name[i+len(" value "):])
		name = strings.TrimSpace(name[:i])
	}

	boolVal := value == "true"
	switch name {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 || mb > 4096 {
			fmt.Println("info string Invalid Hash value", value)
			return
		}
		cfg.HashSizeMB = mb
	case "clear hash":
		engine.ResetForNewGame()
	case "nullmovepruning":
		cfg.EnableNMP = boolVal
	case "latemovereductions":
		cfg.EnableLMR = boolVal
	case "aspirationwindows":
		cfg.EnableASP = boolVal
	default:
		fmt.Println("info string Unknown option", name)
	}
}
