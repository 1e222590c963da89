// Package board adapts github.com/notnil/chess into the mutable, push/undo
// position the search engines work on.
package board

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Position is a chess position with a move history.
//
// The underlying notnil positions are immutable, so the history is a stack:
// MakeMove pushes the successor and UnmakeMove pops it. Copy is cheap because
// the stacked positions can be shared.
type Position struct {
	positions []*chess.Position
	moves     []*chess.Move

	// Per-entry state the library does not expose
	hashes    []uint64
	halfMoves []int

	fullMoveBase int // Full move number of positions[0]
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	return newPosition(chess.NewGame().Position(), 0, 1)
}

func newPosition(cp *chess.Position, halfMoveClock, fullMove int) *Position {
	return &Position{
		positions:    []*chess.Position{cp},
		hashes:       []uint64{computeHash(cp)},
		halfMoves:    []int{halfMoveClock},
		fullMoveBase: fullMove,
	}
}

// Copy creates an independent copy of the position and its history.
func (p *Position) Copy() *Position {
	return &Position{
		positions:    append([]*chess.Position(nil), p.positions...),
		moves:        append([]*chess.Move(nil), p.moves...),
		hashes:       append([]uint64(nil), p.hashes...),
		halfMoves:    append([]int(nil), p.halfMoves...),
		fullMoveBase: p.fullMoveBase,
	}
}

// current returns the position on top of the stack.
func (p *Position) current() *chess.Position {
	return p.positions[len(p.positions)-1]
}

// Board returns the underlying board of the current position.
func (p *Position) Board() *chess.Board {
	return p.current().Board()
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() chess.Color {
	return p.current().Turn()
}

// Hash returns the Zobrist hash of the current position.
func (p *Position) Hash() uint64 {
	return p.hashes[len(p.hashes)-1]
}

// PieceAt returns the piece at the given square, or chess.NoPiece if empty.
func (p *Position) PieceAt(sq chess.Square) chess.Piece {
	return p.current().Board().Piece(sq)
}

// PieceCount returns the number of pieces on the board, kings included.
func (p *Position) PieceCount() int {
	b := p.current().Board()
	n := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if b.Piece(sq) != chess.NoPiece {
			n++
		}
	}
	return n
}

// Count returns the number of pieces of the given type and color.
func (p *Position) Count(pt chess.PieceType, c chess.Color) int {
	b := p.current().Board()
	n := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := b.Piece(sq)
		if pc.Type() == pt && pc.Color() == c {
			n++
		}
	}
	return n
}

// Ply returns the number of moves made since the position was created.
func (p *Position) Ply() int {
	return len(p.moves)
}

// HalfMoveClock returns the number of half moves since the last capture or pawn move.
func (p *Position) HalfMoveClock() int {
	return p.halfMoves[len(p.halfMoves)-1]
}

// FullMoveNumber returns the full move counter, starting at 1.
func (p *Position) FullMoveNumber() int {
	n := p.fullMoveBase
	plies := len(p.moves)
	if p.positions[0].Turn() == chess.Black {
		plies++
	}
	return n + plies/2
}

// LastMove returns the most recently made move, or nil.
func (p *Position) LastMove() *chess.Move {
	if len(p.moves) == 0 {
		return nil
	}
	return p.moves[len(p.moves)-1]
}

// Moves returns the moves made since the position was created.
func (p *Position) Moves() []*chess.Move {
	return append([]*chess.Move(nil), p.moves...)
}

// Equal reports whether both positions have the same piece placement, side to
// move, castling rights and en passant square.
func (p *Position) Equal(o *Position) bool {
	return p.Hash() == o.Hash() && p.placementFEN() == o.placementFEN()
}

// placementFEN returns the first four FEN fields.
func (p *Position) placementFEN() string {
	fields := strings.Fields(p.current().String())
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n" + p.current().Board().Draw()
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove().Name())
	s += fmt.Sprintf("FEN: %s\n", p.ToFEN())
	s += fmt.Sprintf("Hash: %016x\n", p.Hash())
	return s
}
