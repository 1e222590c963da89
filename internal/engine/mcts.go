package engine

import (
	"math"
	"sort"

	"github.com/notnil/chess"
	"golang.org/x/exp/rand"

	"github.com/hailam/chessduel/internal/board"
)

// MCTS defaults
const (
	DefaultSimulations  = 1000
	DefaultRolloutDepth = 20
	DefaultExploration  = 1.41

	rolloutCandidates = 2    // Rollouts pick uniformly among this many best moves
	rolloutScale      = 1000 // Evaluation divisor for rollout results
)

// mctsNode is a node of the search tree. It owns a copy of the position
// reached by the moves on its path.
type mctsNode struct {
	pos      *board.Position
	parent   *mctsNode // Not owned; used for backpropagation only
	move     *chess.Move
	children []*mctsNode
	untried  []*chess.Move

	visits int
	wins   float64
}

func newNode(pos *board.Position, parent *mctsNode, move *chess.Move) *mctsNode {
	return &mctsNode{
		pos:     pos,
		parent:  parent,
		move:    move,
		untried: pos.LegalMoves(),
	}
}

func (n *mctsNode) fullyExpanded() bool {
	return len(n.untried) == 0
}

// uct returns the selection score of a child of a node visited parentVisits times.
func (n *mctsNode) uct(parentVisits int, c float64) float64 {
	if n.visits == 0 {
		panic("engine: UCT on an unvisited node")
	}
	visits := float64(n.visits)
	return n.wins/visits + c*math.Sqrt(math.Log(float64(parentVisits))/visits)
}

// bestChild returns the child with the highest UCT score (first wins ties).
func (n *mctsNode) bestChild(c float64) *mctsNode {
	best := n.children[0]
	bestScore := best.uct(n.visits, c)
	for _, child := range n.children[1:] {
		if score := child.uct(n.visits, c); score > bestScore {
			best, bestScore = child, score
		}
	}
	return best
}

// mostVisited returns the child with the most visits (first wins ties).
func (n *mctsNode) mostVisited() *mctsNode {
	var best *mctsNode
	for _, child := range n.children {
		if best == nil || child.visits > best.visits {
			best = child
		}
	}
	return best
}

// MCTS is a Monte Carlo tree search with UCT selection and
// heuristic rollouts. Each search starts from a fresh tree.
type MCTS struct {
	simulations  int
	rolloutDepth int
	exploration  float64
	rng          *rand.Rand

	side  chess.Color // Root side of the current search
	nodes uint64      // Moves applied since creation
}

// NewMCTS creates a tree search. Non-positive simulations and negative
// rollout depth or exploration fall back to the defaults.
func NewMCTS(simulations, rolloutDepth int, exploration float64, rng *rand.Rand) *MCTS {
	if simulations <= 0 {
		simulations = DefaultSimulations
	}
	if rolloutDepth < 0 {
		rolloutDepth = DefaultRolloutDepth
	}
	if exploration < 0 {
		exploration = DefaultExploration
	}
	return &MCTS{
		simulations:  simulations,
		rolloutDepth: rolloutDepth,
		exploration:  exploration,
		rng:          rng,
	}
}

// Nodes returns the number of moves applied by all searches so far.
func (m *MCTS) Nodes() uint64 {
	return m.nodes
}

// BestMove runs the configured number of simulations from pos and returns
// the most visited root move, or nil if the root has no children.
// Rollouts are scored for side. pos is copied and never modified.
func (m *MCTS) BestMove(pos *board.Position, side chess.Color) *chess.Move {
	best := m.buildTree(pos, side).mostVisited()
	if best == nil {
		return nil
	}
	return best.move
}

// buildTree runs all simulations and returns the root.
func (m *MCTS) buildTree(pos *board.Position, side chess.Color) *mctsNode {
	m.side = side
	root := newNode(pos.Copy(), nil, nil)

	for i := 0; i < m.simulations; i++ {
		node := m.selectNode(root)
		if !node.pos.IsGameOver() {
			node = m.expand(node)
		}
		m.backpropagate(node, m.rollout(node.pos))
	}

	return root
}

// selectNode descends through fully expanded nodes by UCT.
func (m *MCTS) selectNode(node *mctsNode) *mctsNode {
	for !node.pos.IsGameOver() && node.fullyExpanded() {
		node = node.bestChild(m.exploration)
	}
	return node
}

// expand pops an untried move into a new child.
func (m *MCTS) expand(node *mctsNode) *mctsNode {
	if node.fullyExpanded() {
		return node
	}

	last := len(node.untried) - 1
	move := node.untried[last]
	node.untried = node.untried[:last]

	pos := node.pos.Copy()
	pos.MakeMove(move)
	m.nodes++

	child := newNode(pos, node, move)
	node.children = append(node.children, child)
	return child
}

type rolloutMove struct {
	move    *chess.Move
	capture bool
	check   bool
	score   int
}

// rollout plays heuristic moves from a copy of pos and returns the scaled
// evaluation of the final position for the root side. The result is not
// clamped to [0, 1].
func (m *MCTS) rollout(pos *board.Position) float64 {
	pos = pos.Copy()

	for ply := 0; ply < m.rolloutDepth; ply++ {
		if pos.IsGameOver() {
			break
		}

		moves := pos.LegalMoves()
		candidates := make([]rolloutMove, len(moves))
		for i, mv := range moves {
			pos.MakeMove(mv)
			score := Evaluate(pos, m.side)
			pos.UnmakeMove()

			candidates[i] = rolloutMove{
				move:    mv,
				capture: pos.IsCapture(mv),
				check:   pos.GivesCheck(mv),
				score:   score,
			}
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.capture != b.capture {
				return a.capture
			}
			if a.check != b.check {
				return a.check
			}
			return a.score > b.score
		})

		top := candidates[:min(rolloutCandidates, len(candidates))]
		pos.MakeMove(top[m.rng.Intn(len(top))].move)
		m.nodes++
	}

	return float64(Evaluate(pos, m.side)) / rolloutScale
}

// backpropagate updates visit counts and results from node to the root.
// A node whose side to move is the root side's opponent was reached by a
// root-side move and is credited result; other nodes get 1 - result.
func (m *MCTS) backpropagate(node *mctsNode, result float64) {
	for ; node != nil; node = node.parent {
		node.visits++
		if node.pos.SideToMove() != m.side {
			node.wins += result
		} else {
			node.wins += 1 - result
		}
	}
}
