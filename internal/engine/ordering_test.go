package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/chessduel/internal/board"
)

func TestMoveScore(t *testing.T) {
	// White pawn on d4 can take the queen on e5; the queen can take the pawn on d4
	pos := board.MustParseFEN("4k3/8/8/4q3/3P4/8/8/K7 w - - 0 1")

	pxq, err := pos.ParseMove("d4e5")
	require.NoError(t, err)
	require.Equal(t, CaptureBase+100*QueenValue-PawnValue, MoveScore(pos, pxq))

	quiet, err := pos.ParseMove("a1b1")
	require.NoError(t, err)
	require.Equal(t, 0, MoveScore(pos, quiet))

	pos = board.MustParseFEN("4k3/8/8/4q3/3P4/8/8/K7 b - - 0 1")
	qxp, err := pos.ParseMove("e5d4")
	require.NoError(t, err)
	require.Equal(t, CaptureBase+100*PawnValue-QueenValue, MoveScore(pos, qxp))

	check, err := pos.ParseMove("e5e1")
	require.NoError(t, err)
	require.False(t, pos.IsCapture(check))
	require.Equal(t, CheckScore, MoveScore(pos, check))
}

func TestOrderRootMoves(t *testing.T) {
	pos := board.MustParseFEN("3r3k/4P3/8/8/8/8/8/K7 w - - 0 1")
	moves := pos.LegalMoves()
	OrderRootMoves(pos, moves)

	// Captures, then checks, then promotions, then the rest
	for i := 1; i < len(moves); i++ {
		prev, cur := RootKeyOf(pos, moves[i-1]), RootKeyOf(pos, moves[i])
		require.False(t, cur.Less(prev), "%s ordered after %s", moves[i], moves[i-1])
	}

	require.True(t, pos.IsCapture(moves[0]), "First move should be a capture, got %s", moves[0])
	last := moves[len(moves)-1]
	require.Equal(t, RootKey{}, RootKeyOf(pos, last), "Last move should be quiet, got %s", last)
}

func TestOrderMovesStable(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.LegalMoves()
	want := make([]string, len(moves))
	for i, m := range moves {
		want[i] = m.String()
	}

	// No captures or checks: the generator order is kept
	OrderMoves(pos, moves)
	for i, m := range moves {
		require.Equal(t, want[i], m.String())
	}
}

func TestCaptures(t *testing.T) {
	pos := board.MustParseFEN("4k3/8/8/2r1q3/3P4/8/8/7K w - - 0 1")
	captures := Captures(pos, pos.LegalMoves())

	require.Len(t, captures, 2)
	require.Equal(t, "d4e5", captures[0].String(), "Capturing the queen comes first")
	require.Equal(t, "d4c5", captures[1].String())
}
