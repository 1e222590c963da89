package board

import "github.com/notnil/chess"

// Game-over thresholds (automatic, not claimable, draws)
const (
	seventyFiveMoveLimit = 150 // Half moves
	fivefoldRepetition   = 5
)

// Outcome describes how a position ended.
type Outcome int

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	SeventyFiveMoves
	FivefoldRepetition
)

var outcomeNames = [...]string{
	Ongoing:              "ongoing",
	Checkmate:            "checkmate",
	Stalemate:            "stalemate",
	InsufficientMaterial: "insufficient material",
	SeventyFiveMoves:     "seventy-five move rule",
	FivefoldRepetition:   "fivefold repetition",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// LegalMoves returns all legal moves in the current position.
// The returned slice is owned by the caller and may be reordered.
func (p *Position) LegalMoves() []*chess.Move {
	return append([]*chess.Move(nil), p.current().ValidMoves()...)
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	return len(p.current().ValidMoves()) > 0
}

// MakeMove plays a legal move of the current position.
// It must be undone with UnmakeMove in strict LIFO order.
func (p *Position) MakeMove(m *chess.Move) {
	cp := p.current()

	halfMoves := p.HalfMoveClock() + 1
	if p.IsCapture(m) || cp.Board().Piece(m.S1()).Type() == chess.Pawn {
		halfMoves = 0
	}

	next := cp.Update(m)
	p.positions = append(p.positions, next)
	p.moves = append(p.moves, m)
	p.hashes = append(p.hashes, computeHash(next))
	p.halfMoves = append(p.halfMoves, halfMoves)
}

// UnmakeMove undoes the most recently made move.
// Undoing past the position's root is a programming error and panics.
func (p *Position) UnmakeMove() {
	n := len(p.positions)
	if n <= 1 {
		panic("board: UnmakeMove without a matching MakeMove")
	}
	p.positions[n-1] = nil
	p.positions = p.positions[:n-1]
	p.moves = p.moves[:len(p.moves)-1]
	p.hashes = p.hashes[:len(p.hashes)-1]
	p.halfMoves = p.halfMoves[:len(p.halfMoves)-1]
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.current().Status() == chess.Checkmate
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return p.current().Status() == chess.Stalemate
}

// IsInsufficientMaterial returns true if neither side can checkmate:
// K vs K, K+minor vs K, or only bishops left, all on one square color.
func (p *Position) IsInsufficientMaterial() bool {
	b := p.current().Board()

	var minors [3]int         // Indexed by chess.Color
	var bishopSquares [2]bool // Square colors holding a bishop
	knights := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := b.Piece(sq)
		switch pc.Type() {
		case chess.Pawn, chess.Rook, chess.Queen:
			return false
		case chess.Knight:
			minors[pc.Color()]++
			knights++
		case chess.Bishop:
			minors[pc.Color()]++
			bishopSquares[(int(sq.File())+int(sq.Rank()))%2] = true
		}
	}

	w, bl := minors[chess.White], minors[chess.Black]
	if w+bl == 0 || (w <= 1 && bl == 0) || (bl <= 1 && w == 0) {
		return true
	}
	return knights == 0 && !(bishopSquares[0] && bishopSquares[1])
}

// IsSeventyFiveMoves returns true if 75 moves passed without capture or pawn move.
func (p *Position) IsSeventyFiveMoves() bool {
	return p.HalfMoveClock() >= seventyFiveMoveLimit
}

// IsFivefoldRepetition returns true if the current position occurred five times.
func (p *Position) IsFivefoldRepetition() bool {
	hash := p.Hash()
	count := 0
	// Only positions since the last irreversible move can repeat
	limit := p.HalfMoveClock()
	for i := len(p.hashes) - 1; i >= 0 && limit >= 0; i, limit = i-1, limit-1 {
		if p.hashes[i] == hash {
			count++
		}
	}
	return count >= fivefoldRepetition
}

// Outcome returns how the game ended, or Ongoing.
func (p *Position) Outcome() Outcome {
	switch p.current().Status() {
	case chess.Checkmate:
		return Checkmate
	case chess.Stalemate:
		return Stalemate
	}
	switch {
	case p.IsInsufficientMaterial():
		return InsufficientMaterial
	case p.IsSeventyFiveMoves():
		return SeventyFiveMoves
	case p.IsFivefoldRepetition():
		return FivefoldRepetition
	}
	return Ongoing
}

// IsGameOver returns true if the game is over (checkmate, stalemate, or draw).
func (p *Position) IsGameOver() bool {
	return p.Outcome() != Ongoing
}
