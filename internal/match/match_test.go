package match

import (
	"context"
	"io"
	"testing"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/engine"
	"github.com/hailam/chessduel/internal/storage"
)

func newTestMatch(t *testing.T, fen string) *Match {
	t.Helper()
	pos := board.MustParseFEN(fen)
	logger := engine.WithLogger(zerolog.New(io.Discard))

	white := engine.New(pos, chess.White, engine.AlphaBeta, engine.WithDepth(1), engine.WithSeed(1), logger)
	black := engine.New(pos, chess.Black, engine.MonteCarlo,
		engine.WithSimulations(10), engine.WithRolloutDepth(2), engine.WithSeed(1), logger)

	m, err := New(pos, white, black)
	require.NoError(t, err)
	return m
}

func TestNewRejectsMismatchedEngines(t *testing.T) {
	pos := board.NewPosition()
	other := board.NewPosition()

	white := engine.New(pos, chess.White, engine.AlphaBeta)
	black := engine.New(pos, chess.Black, engine.AlphaBeta)

	_, err := New(pos, black, white)
	require.ErrorIs(t, err, ErrEngineMismatch)

	_, err = New(other, white, black)
	require.ErrorIs(t, err, ErrEngineMismatch)

	_, err = New(pos, white, nil)
	require.ErrorIs(t, err, ErrEngineMismatch)
}

func TestStepAlternatesSides(t *testing.T) {
	m := newTestMatch(t, board.StartFEN)

	var steps []StepResult
	m.OnStep = func(r StepResult) { steps = append(steps, r) }

	first := m.Step()
	require.Equal(t, chess.White, first.Side)
	require.NotNil(t, first.Move)
	require.False(t, first.Done)

	second := m.Step()
	require.Equal(t, chess.Black, second.Side)
	require.NotNil(t, second.Move)

	require.Len(t, steps, 2)
	require.Equal(t, 2, m.Position().Ply())
	require.Len(t, m.Moves(), 2)
	require.Equal(t, 1, m.Timing(chess.White).Moves)
	require.Equal(t, 1, m.Timing(chess.Black).Moves)
	require.Equal(t, storage.ResultOngoing, m.Result())
}

func TestPlayStopsAtPlyLimit(t *testing.T) {
	m := newTestMatch(t, board.StartFEN)

	result := m.Play(context.Background(), 4)
	require.Equal(t, storage.ResultOngoing, result)
	require.Len(t, m.Moves(), 4)
	require.Equal(t, "unfinished", m.Termination())
}

func TestPlayStopsOnCancel(t *testing.T) {
	m := newTestMatch(t, board.StartFEN)

	ctx, cancel := context.WithCancel(context.Background())
	m.OnStep = func(StepResult) { cancel() }

	m.Play(ctx, 0)
	require.Len(t, m.Moves(), 1, "Cancellation is seen before the next move")
}

func TestPlayToCheckmate(t *testing.T) {
	m := newTestMatch(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	result := m.Play(context.Background(), 0)
	require.Equal(t, storage.ResultWhiteWins, result)
	require.Equal(t, "checkmate", m.Termination())
	require.Equal(t, "White wins by checkmate!", m.Description())
	require.Equal(t, []string{"a1a8"}, m.Moves())

	after := m.Step()
	require.True(t, after.Done)
	require.Nil(t, after.Move)
}

func TestDrawResult(t *testing.T) {
	m := newTestMatch(t, "7k/8/6QK/8/8/8/8/8 b - - 0 1")

	require.True(t, m.Done())
	require.Equal(t, storage.ResultDraw, m.Result())
	require.Equal(t, "Draw by stalemate", m.Description())
}

func TestRecord(t *testing.T) {
	m := newTestMatch(t, board.StartFEN)
	m.Play(context.Background(), 2)

	r := m.Record()
	require.Equal(t, "alphabeta", r.White.Algorithm)
	require.Equal(t, "mcts", r.Black.Algorithm)
	require.Equal(t, 1, r.White.Moves)
	require.Positive(t, r.White.MovesAnalyzed)
	require.Equal(t, board.StartFEN, r.StartFEN)
	require.Equal(t, m.Position().ToFEN(), r.FinalFEN)
	require.Len(t, r.Moves, 2)
	require.Equal(t, storage.ResultOngoing, r.Result)
	require.False(t, r.PlayedAt.IsZero())
}

func TestTimingAverage(t *testing.T) {
	require.Zero(t, Timing{}.Average())
	require.Equal(t, int64(5), int64(Timing{Moves: 2, Total: 10}.Average()))
}
