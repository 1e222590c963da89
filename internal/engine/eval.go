// Package engine implements the chess move-selection engines.
package engine

import (
	"github.com/notnil/chess"

	"github.com/hailam/chessduel/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values indexed by chess.PieceType
var pieceValues = [7]int{
	chess.NoPieceType: 0,
	chess.King:        KingValue,
	chess.Queen:       QueenValue,
	chess.Rook:        RookValue,
	chess.Bishop:      BishopValue,
	chess.Knight:      KnightValue,
	chess.Pawn:        PawnValue,
}

// Endgame when fewer pieces than this remain on the board
const endgamePieceCount = 10

// Piece-Square Tables (PST) for positional evaluation.
// Written from White's point of view with rank 8 on the first row;
// mirrored vertically for Black.

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Pawn PST (endgame) - push passers
var pawnEndgamePST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	80, 80, 80, 80, 80, 80, 80, 80,
	50, 50, 50, 50, 50, 50, 50, 50,
	30, 30, 30, 30, 30, 30, 30, 30,
	20, 20, 20, 20, 20, 20, 20, 20,
	10, 10, 10, 10, 10, 10, 10, 10,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank and open files
var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST (middlegame) - encourages castling
var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// King PST (endgame) - king should be active
var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// pstIndex maps a square to its table index for the given color.
func pstIndex(sq chess.Square, c chess.Color) int {
	rank, file := int(sq.Rank()), int(sq.File())
	if c == chess.White {
		return (7-rank)*8 + file
	}
	return rank*8 + file
}

// pstValue returns the positional bonus of a piece on a square.
func pstValue(pc chess.Piece, sq chess.Square, endgame bool) int {
	idx := pstIndex(sq, pc.Color())
	switch pc.Type() {
	case chess.Pawn:
		if endgame {
			return pawnEndgamePST[idx]
		}
		return pawnPST[idx]
	case chess.Knight:
		return knightPST[idx]
	case chess.Bishop:
		return bishopPST[idx]
	case chess.Rook:
		return rookPST[idx]
	case chess.Queen:
		return queenPST[idx]
	case chess.King:
		if endgame {
			return kingEndgamePST[idx]
		}
		return kingMidgamePST[idx]
	}
	return 0
}

// Evaluate returns the static evaluation of the position from side's perspective.
func Evaluate(pos *board.Position, side chess.Color) int {
	endgame := IsEndgame(pos, side)
	b := pos.Board()

	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := b.Piece(sq)
		if pc == chess.NoPiece {
			continue
		}

		value := pieceValues[pc.Type()] + pstValue(pc, sq, endgame)
		if pc.Color() == side {
			score += value
		} else {
			score -= value
		}
	}

	return score
}

// IsEndgame returns true if side's opponent has no queens or few pieces remain.
func IsEndgame(pos *board.Position, side chess.Color) bool {
	if pos.Count(chess.Queen, side.Other()) == 0 {
		return true
	}
	return pos.PieceCount() < endgamePieceCount
}
