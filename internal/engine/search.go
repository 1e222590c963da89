package engine

import (
	"github.com/notnil/chess"
	"golang.org/x/exp/rand"

	"github.com/hailam/chessduel/internal/board"
)

// Search constants
const (
	Infinity  = 1 << 30
	MateScore = 999999
)

// Searcher performs depth-limited alpha-beta search with quiescence.
// A Searcher owns its transposition table and is not safe for concurrent use.
type Searcher struct {
	tt   *TranspositionTable
	rng  *rand.Rand
	side chess.Color // Side of interest for the current search

	tableSide chess.Color // Side the cached values are signed for

	nodes uint64 // Moves applied since creation
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable, rng *rand.Rand) *Searcher {
	return &Searcher{tt: tt, rng: rng}
}

// Nodes returns the number of moves applied by all searches so far.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Table returns the searcher's transposition table.
func (s *Searcher) Table() *TranspositionTable {
	return s.tt
}

// BestMove searches pos to the given depth from side's perspective.
// Among moves sharing the best value one is chosen at random.
// Returns nil when the side to move has no legal moves.
func (s *Searcher) BestMove(pos *board.Position, side chess.Color, depth int) (*chess.Move, int) {
	s.side = side
	if s.tableSide != side {
		// Cached values are from the other side's perspective
		s.tt.Clear()
		s.tableSide = side
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil, s.alphaBeta(pos, depth, -Infinity, Infinity)
	}
	OrderRootMoves(pos, moves)

	bestValue := -Infinity
	var best []*chess.Move
	for _, m := range moves {
		value := s.try(pos, m, func() int {
			return s.alphaBeta(pos, depth-1, -Infinity, Infinity)
		})

		switch {
		case value > bestValue:
			bestValue = value
			best = append(best[:0], m)
		case value == bestValue:
			best = append(best, m)
		}
	}

	return best[s.rng.Intn(len(best))], bestValue
}

// Value returns the alpha-beta value of pos at the given depth.
func (s *Searcher) Value(pos *board.Position, side chess.Color, depth int) int {
	_, value := s.BestMove(pos, side, depth)
	return value
}

// try applies m, runs fn, and undoes m on every exit path.
func (s *Searcher) try(pos *board.Position, m *chess.Move, fn func() int) int {
	pos.MakeMove(m)
	defer pos.UnmakeMove()
	s.nodes++
	return fn()
}

// terminal scores positions that end the search outright.
// The second result is false when the search must continue.
func (s *Searcher) terminal(pos *board.Position) (int, bool) {
	if pos.IsCheckmate() {
		if pos.SideToMove() == s.side {
			return -MateScore, true
		}
		return MateScore, true
	}
	if pos.IsStalemate() || pos.IsInsufficientMaterial() {
		return 0, true
	}
	return 0, false
}

// alphaBeta is the bounded minimax. Positions with side to move equal to the
// side of interest are maximizing nodes.
func (s *Searcher) alphaBeta(pos *board.Position, depth, alpha, beta int) int {
	if value, ok := s.terminal(pos); ok {
		return value
	}
	if depth <= 0 || pos.IsGameOver() {
		return s.quiescence(pos, alpha, beta)
	}

	key := TTKey{Hash: pos.Hash(), Depth: depth, Side: pos.SideToMove()}
	if value, ok := s.tt.Probe(key); ok {
		return value
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return Evaluate(pos, s.side)
	}
	OrderMoves(pos, moves)

	search := func() int { return s.alphaBeta(pos, depth-1, alpha, beta) }

	var value int
	if pos.SideToMove() == s.side {
		value = -Infinity
		for _, m := range moves {
			value = max(value, s.try(pos, m, search))
			alpha = max(alpha, value)
			if alpha >= beta {
				break
			}
		}
	} else {
		value = Infinity
		for _, m := range moves {
			value = min(value, s.try(pos, m, search))
			beta = min(beta, value)
			if alpha >= beta {
				break
			}
		}
	}

	s.tt.Store(key, value)
	return value
}

// quiescence extends the search over captures until the position is quiet.
// The static evaluation is a lower bound for the maximizer (stand pat) and
// an upper bound for the minimizer.
func (s *Searcher) quiescence(pos *board.Position, alpha, beta int) int {
	standPat := Evaluate(pos, s.side)
	maximizing := pos.SideToMove() == s.side

	if maximizing {
		if standPat >= beta {
			return standPat
		}
		alpha = max(alpha, standPat)
	} else {
		if standPat <= alpha {
			return standPat
		}
		beta = min(beta, standPat)
	}

	search := func() int { return s.quiescence(pos, alpha, beta) }

	value := standPat
	for _, m := range Captures(pos, pos.LegalMoves()) {
		score := s.try(pos, m, search)
		if maximizing {
			value = max(value, score)
			alpha = max(alpha, value)
		} else {
			value = min(value, score)
			beta = min(beta, value)
		}
		if alpha >= beta {
			break
		}
	}

	return value
}

// Minimax returns the unpruned minimax value of pos at the given depth,
// using the same terminal scoring and leaf evaluation as BestMove. Leaves
// are scored by full-window quiescence, whose value is exact.
// It does not consult the transposition table.
func (s *Searcher) Minimax(pos *board.Position, side chess.Color, depth int) int {
	s.side = side

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return s.minimax(pos, depth)
	}

	best := -Infinity
	for _, m := range moves {
		best = max(best, s.try(pos, m, func() int {
			return s.minimax(pos, depth-1)
		}))
	}
	return best
}

func (s *Searcher) minimax(pos *board.Position, depth int) int {
	if value, ok := s.terminal(pos); ok {
		return value
	}
	if depth <= 0 || pos.IsGameOver() {
		return s.quiescence(pos, -Infinity, Infinity)
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return Evaluate(pos, s.side)
	}

	search := func() int { return s.minimax(pos, depth-1) }

	if pos.SideToMove() == s.side {
		value := -Infinity
		for _, m := range moves {
			value = max(value, s.try(pos, m, search))
		}
		return value
	}
	value := Infinity
	for _, m := range moves {
		value = min(value, s.try(pos, m, search))
	}
	return value
}
