package engine

import (
	"sort"

	"github.com/notnil/chess"

	"github.com/hailam/chessduel/internal/board"
)

// Move ordering priorities
const (
	CaptureBase = 10000 // Captures: CaptureBase + 100*victim - attacker
	CheckScore  = 5000  // Quiet checks
)

// RootKey is the coarse ordering key used at the root.
// Keys compare lexicographically: capture, then check, then promotion.
type RootKey struct {
	Capture   bool
	Check     bool
	Promotion bool
}

// Less reports whether k orders before o in descending order.
func (k RootKey) Less(o RootKey) bool {
	if k.Capture != o.Capture {
		return k.Capture
	}
	if k.Check != o.Check {
		return k.Check
	}
	if k.Promotion != o.Promotion {
		return k.Promotion
	}
	return false
}

// RootKeyOf returns the coarse ordering key of a move.
func RootKeyOf(pos *board.Position, m *chess.Move) RootKey {
	return RootKey{
		Capture:   pos.IsCapture(m),
		Check:     pos.GivesCheck(m),
		Promotion: board.IsPromotion(m),
	}
}

// MoveScore returns the fine ordering score for a move.
func MoveScore(pos *board.Position, m *chess.Move) int {
	if pos.IsCapture(m) {
		victim := pos.Victim(m)
		attacker := pos.Attacker(m)
		return CaptureBase + 100*pieceValues[victim] - pieceValues[attacker]
	}
	if pos.GivesCheck(m) {
		return CheckScore
	}
	return 0
}

// ScoreMoves assigns fine ordering scores to moves.
func ScoreMoves(pos *board.Position, moves []*chess.Move) []int {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = MoveScore(pos, m)
	}
	return scores
}

// OrderMoves sorts moves by their fine score (descending), keeping the
// generator's order among equal scores.
func OrderMoves(pos *board.Position, moves []*chess.Move) {
	sortMoves(moves, ScoreMoves(pos, moves))
}

// OrderRootMoves sorts moves by the coarse root key, then by fine score.
func OrderRootMoves(pos *board.Position, moves []*chess.Move) {
	keys := make([]RootKey, len(moves))
	for i, m := range moves {
		keys[i] = RootKeyOf(pos, m)
	}
	scores := ScoreMoves(pos, moves)

	sort.Stable(&rootSorter{moves: moves, keys: keys, scores: scores})
}

// Captures returns the capturing moves ordered by fine score.
func Captures(pos *board.Position, moves []*chess.Move) []*chess.Move {
	captures := moves[:0:0]
	for _, m := range moves {
		if pos.IsCapture(m) {
			captures = append(captures, m)
		}
	}
	OrderMoves(pos, captures)
	return captures
}

// sortMoves sorts moves by their scores (descending), stable.
func sortMoves(moves []*chess.Move, scores []int) {
	sort.Stable(&scoreSorter{moves: moves, scores: scores})
}

type scoreSorter struct {
	moves  []*chess.Move
	scores []int
}

func (s *scoreSorter) Len() int           { return len(s.moves) }
func (s *scoreSorter) Less(i, j int) bool { return s.scores[i] > s.scores[j] }
func (s *scoreSorter) Swap(i, j int) {
	s.moves[i], s.moves[j] = s.moves[j], s.moves[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}

type rootSorter struct {
	moves  []*chess.Move
	keys   []RootKey
	scores []int
}

func (s *rootSorter) Len() int { return len(s.moves) }
func (s *rootSorter) Less(i, j int) bool {
	if s.keys[i] != s.keys[j] {
		return s.keys[i].Less(s.keys[j])
	}
	return s.scores[i] > s.scores[j]
}
func (s *rootSorter) Swap(i, j int) {
	s.moves[i], s.moves[j] = s.moves[j], s.moves[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}
