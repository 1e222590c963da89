package board

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

// ErrIllegalMove is returned when a move string does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// IsCapture returns true if the move captures a piece (including en passant).
func (p *Position) IsCapture(m *chess.Move) bool {
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
}

// GivesCheck returns true if the move puts the opponent in check.
func (p *Position) GivesCheck(m *chess.Move) bool {
	return m.HasTag(chess.Check)
}

// IsPromotion returns true if the move promotes a pawn.
func IsPromotion(m *chess.Move) bool {
	return m.Promo() != chess.NoPieceType
}

// Victim returns the piece type captured by the move, or chess.NoPieceType.
func (p *Position) Victim(m *chess.Move) chess.PieceType {
	if m.HasTag(chess.EnPassant) {
		return chess.Pawn
	}
	if !m.HasTag(chess.Capture) {
		return chess.NoPieceType
	}
	return p.PieceAt(m.S2()).Type()
}

// Attacker returns the type of the piece making the move.
func (p *Position) Attacker(m *chess.Move) chess.PieceType {
	return p.PieceAt(m.S1()).Type()
}

// ParseMove parses a move in UCI notation (e.g. "e2e4", "e7e8q") and returns
// the matching legal move.
func (p *Position) ParseMove(s string) (*chess.Move, error) {
	for _, m := range p.current().ValidMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, p.ToFEN())
}
