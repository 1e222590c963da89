// Package match runs a game between two engines sharing one position.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notnil/chess"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/engine"
	"github.com/hailam/chessduel/internal/storage"
)

// ErrEngineMismatch is returned when the engines do not fit the match.
var ErrEngineMismatch = errors.New("engine does not match the game")

// Timing accumulates the time one side spent choosing moves.
type Timing struct {
	Moves int
	Total time.Duration
}

// Average returns the mean time per move.
func (t Timing) Average() time.Duration {
	if t.Moves == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Moves)
}

// StepResult describes one engine turn.
type StepResult struct {
	Side     chess.Color
	Move     *chess.Move // nil when the engine had no move
	Duration time.Duration
	Done     bool // Game over after this step
}

// Match alternates two engines on a shared position.
// A Match is not safe for concurrent use.
type Match struct {
	pos      *board.Position
	startFEN string
	engines  [3]*engine.Engine // Indexed by chess.Color
	timings  [3]Timing
	moves    []string
	started  time.Time
	elapsed  time.Duration
	stalled  bool // An engine returned no move

	// Callbacks
	OnStep func(StepResult)
}

// New creates a match. Both engines must play their own color on pos.
func New(pos *board.Position, white, black *engine.Engine) (*Match, error) {
	for _, e := range []struct {
		eng  *engine.Engine
		side chess.Color
	}{{white, chess.White}, {black, chess.Black}} {
		if e.eng == nil {
			return nil, fmt.Errorf("%w: no %s engine", ErrEngineMismatch, e.side.Name())
		}
		if e.eng.Side() != e.side {
			return nil, fmt.Errorf("%w: %s engine plays %s", ErrEngineMismatch, e.side.Name(), e.eng.Side().Name())
		}
		if e.eng.Position() != pos {
			return nil, fmt.Errorf("%w: %s engine searches another position", ErrEngineMismatch, e.side.Name())
		}
	}

	m := &Match{
		pos:      pos,
		startFEN: pos.ToFEN(),
	}
	m.engines[chess.White] = white
	m.engines[chess.Black] = black
	return m, nil
}

// Position returns the shared position.
func (m *Match) Position() *board.Position {
	return m.pos
}

// Engine returns the engine playing side.
func (m *Match) Engine(side chess.Color) *engine.Engine {
	return m.engines[side]
}

// Timing returns the accumulated move time of side.
func (m *Match) Timing(side chess.Color) Timing {
	return m.timings[side]
}

// Moves returns the moves played so far in UCI notation.
func (m *Match) Moves() []string {
	return append([]string(nil), m.moves...)
}

// Elapsed returns the total time spent in Step.
func (m *Match) Elapsed() time.Duration {
	return m.elapsed
}

// Done returns true if the game is over or an engine had no move.
func (m *Match) Done() bool {
	return m.stalled || m.pos.IsGameOver()
}

// Step lets the side to move play one move.
func (m *Match) Step() StepResult {
	side := m.pos.SideToMove()
	if m.Done() {
		return StepResult{Side: side, Done: true}
	}
	if m.started.IsZero() {
		m.started = time.Now()
	}

	start := time.Now()
	move := m.engines[side].MakeBestMove()
	d := time.Since(start)
	m.elapsed += d

	result := StepResult{Side: side, Move: move, Duration: d}
	if move == nil {
		m.stalled = true
	} else {
		m.timings[side].Moves++
		m.timings[side].Total += d
		m.moves = append(m.moves, move.String())
	}
	result.Done = m.Done()

	if m.OnStep != nil {
		m.OnStep(result)
	}
	return result
}

// Play steps until the game is over, maxPlies moves have been played
// (0 = no limit) or ctx is done. ctx is checked between moves only.
func (m *Match) Play(ctx context.Context, maxPlies int) string {
	for !m.Done() {
		if maxPlies > 0 && len(m.moves) >= maxPlies {
			break
		}
		if ctx.Err() != nil {
			break
		}
		m.Step()
	}
	return m.Result()
}

// Result returns "1-0", "0-1", "1/2-1/2", or "*" while undecided.
func (m *Match) Result() string {
	switch m.pos.Outcome() {
	case board.Checkmate:
		if m.pos.SideToMove() == chess.White {
			return storage.ResultBlackWins
		}
		return storage.ResultWhiteWins
	case board.Ongoing:
		return storage.ResultOngoing
	}
	return storage.ResultDraw
}

// Termination returns how the game ended, or "unfinished".
func (m *Match) Termination() string {
	if outcome := m.pos.Outcome(); outcome != board.Ongoing {
		return outcome.String()
	}
	return "unfinished"
}

// Description returns a human-readable result.
func (m *Match) Description() string {
	switch outcome := m.pos.Outcome(); outcome {
	case board.Checkmate:
		if m.pos.SideToMove() == chess.White {
			return "Black wins by checkmate!"
		}
		return "White wins by checkmate!"
	case board.Ongoing:
		return "Game unfinished"
	default:
		return "Draw by " + outcome.String()
	}
}

// Record returns a storage record of the match.
func (m *Match) Record() *storage.MatchRecord {
	player := func(side chess.Color) storage.PlayerInfo {
		e, t := m.engines[side], m.timings[side]
		return storage.PlayerInfo{
			Algorithm:       string(e.Algorithm()),
			Moves:           t.Moves,
			MovesAnalyzed:   e.MovesAnalyzed(),
			AverageMoveTime: t.Average(),
		}
	}

	return &storage.MatchRecord{
		White:       player(chess.White),
		Black:       player(chess.Black),
		Result:      m.Result(),
		Termination: m.Termination(),
		StartFEN:    m.startFEN,
		FinalFEN:    m.pos.ToFEN(),
		Moves:       m.Moves(),
		Duration:    m.elapsed,
		PlayedAt:    m.started,
	}
}
