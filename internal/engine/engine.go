package engine

import (
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/hailam/chessduel/internal/board"
)

// Algorithm selects the search an engine runs.
type Algorithm string

const (
	AlphaBeta  Algorithm = "alphabeta"
	MonteCarlo Algorithm = "mcts"
)

// DefaultDepth is the alpha-beta search depth used when none is configured.
const DefaultDepth = 3

// ParseAlgorithm converts a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case AlphaBeta, MonteCarlo:
		return a, nil
	}
	return "", fmt.Errorf("unknown algorithm %q (want %q or %q)", s, AlphaBeta, MonteCarlo)
}

// SearchInfo describes the most recent search of an engine.
type SearchInfo struct {
	Move     *chess.Move
	Value    int  // Alpha-beta value for the engine's side
	HasValue bool // False for MCTS, which reports no value
	Duration time.Duration
	Nodes    uint64 // Moves analyzed during this search
}

// Option configures an Engine.
type Option func(e *Engine)

// WithDepth sets the alpha-beta search depth.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.depth = depth
		}
	}
}

// WithSimulations sets the MCTS simulation budget.
func WithSimulations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.simulations = n
		}
	}
}

// WithRolloutDepth sets the maximum MCTS rollout length in plies.
func WithRolloutDepth(depth int) Option {
	return func(e *Engine) {
		if depth >= 0 {
			e.rolloutDepth = depth
		}
	}
}

// WithExploration sets the UCT exploration constant.
func WithExploration(c float64) Option {
	return func(e *Engine) {
		if c >= 0 {
			e.exploration = c
		}
	}
}

// WithSeed makes the engine's random choices reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithTableLimit bounds the transposition table. 0 means unbounded.
func WithTableLimit(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.tableLimit = n
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine plays one side of a game on a shared position.
type Engine struct {
	pos       *board.Position
	side      chess.Color
	algorithm Algorithm

	depth        int
	simulations  int
	rolloutDepth int
	exploration  float64
	seed         uint64
	seeded       bool
	tableLimit   int
	logger       zerolog.Logger

	searcher *Searcher
	mcts     *MCTS
	last     SearchInfo
}

// New creates an engine playing side on pos with the given algorithm.
// It panics if the algorithm is unknown.
func New(pos *board.Position, side chess.Color, algorithm Algorithm, opts ...Option) *Engine {
	e := &Engine{ // Default values
		pos:          pos,
		side:         side,
		algorithm:    algorithm,
		depth:        DefaultDepth,
		simulations:  DefaultSimulations,
		rolloutDepth: DefaultRolloutDepth,
		exploration:  DefaultExploration,
		logger:       log.Logger.With().Str("component", "engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.seeded {
		e.seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(e.seed))

	switch algorithm {
	case AlphaBeta:
		e.searcher = NewSearcher(NewTranspositionTable(e.tableLimit), rng)
	case MonteCarlo:
		e.mcts = NewMCTS(e.simulations, e.rolloutDepth, e.exploration, rng)
	default:
		panic(fmt.Sprintf("engine: unknown algorithm %q", algorithm))
	}

	return e
}

// Side returns the color the engine plays.
func (e *Engine) Side() chess.Color {
	return e.side
}

// Algorithm returns the engine's search algorithm.
func (e *Engine) Algorithm() Algorithm {
	return e.algorithm
}

// Position returns the shared position the engine searches.
func (e *Engine) Position() *board.Position {
	return e.pos
}

// MovesAnalyzed returns the number of moves the engine has examined.
func (e *Engine) MovesAnalyzed() uint64 {
	if e.searcher != nil {
		return e.searcher.Nodes()
	}
	return e.mcts.Nodes()
}

// LastSearch returns information about the most recent search.
func (e *Engine) LastSearch() SearchInfo {
	return e.last
}

// ComputeBestMove searches the current position and returns the chosen move
// without playing it. Returns nil if no move is available.
func (e *Engine) ComputeBestMove() *chess.Move {
	hash, ply := e.pos.Hash(), e.pos.Ply()
	nodes := e.MovesAnalyzed()
	start := time.Now()

	info := SearchInfo{}
	switch e.algorithm {
	case AlphaBeta:
		info.Move, info.Value = e.searcher.BestMove(e.pos, e.side, e.depth)
		info.HasValue = true
	case MonteCarlo:
		info.Move = e.mcts.BestMove(e.pos, e.side)
	}

	if e.pos.Hash() != hash || e.pos.Ply() != ply {
		panic(fmt.Sprintf("engine: %s search left the position modified", e.algorithm))
	}

	info.Duration = time.Since(start)
	info.Nodes = e.MovesAnalyzed() - nodes
	e.last = info

	ev := e.logger.Debug().
		Str("side", e.side.Name()).
		Str("algorithm", string(e.algorithm)).
		Str("move", moveString(info.Move)).
		Dur("duration", info.Duration).
		Uint64("nodes", info.Nodes)
	if info.HasValue {
		ev = ev.Int("value", info.Value)
	}
	ev.Msg("search complete")

	return info.Move
}

// MakeBestMove computes the best move and plays it on the shared position.
// Returns nil, leaving the position unchanged, if no move is available.
func (e *Engine) MakeBestMove() *chess.Move {
	move := e.ComputeBestMove()
	if move == nil {
		return nil
	}
	e.pos.MakeMove(move)
	return move
}

func moveString(m *chess.Move) string {
	if m == nil {
		return "none"
	}
	return m.String()
}
