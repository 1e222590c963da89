package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a new position.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid FEN: expected at least 4 fields, got %d", len(fields))
	}
	// The library requires all six fields
	if len(fields) == 4 {
		fields = append(fields, "0", "1")
	}
	if len(fields) == 5 {
		fields = append(fields, "1")
	}

	halfMove, err := strconv.Atoi(fields[4])
	if err != nil || halfMove < 0 {
		return nil, fmt.Errorf("invalid half-move clock: %s", fields[4])
	}
	fullMove, err := strconv.Atoi(fields[5])
	if err != nil || fullMove < 1 {
		return nil, fmt.Errorf("invalid full move number: %s", fields[5])
	}

	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	cp := chess.NewGame(opt).Position()

	return newPosition(cp, halfMove, fullMove), nil
}

// MustParseFEN is like ParseFEN but panics on error. Intended for tests and constants.
func MustParseFEN(fen string) *Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// ToFEN returns the FEN string of the current position.
func (p *Position) ToFEN() string {
	fields := strings.Fields(p.current().String())
	if len(fields) < 6 {
		return p.current().String()
	}
	// Counters come from the tracked history
	fields[4] = strconv.Itoa(p.HalfMoveClock())
	fields[5] = strconv.Itoa(p.FullMoveNumber())
	return strings.Join(fields, " ")
}
