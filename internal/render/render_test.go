package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessduel/internal/board"
)

func TestClampSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultSize},
		{10, MinSize},
		{64, 64},
		{300, 300},
		{1024, 1024},
		{5000, MaxSize},
		{-3, MinSize},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ClampSize(tt.in), "ClampSize(%d)", tt.in)
	}
}

func TestLastMoveSquares(t *testing.T) {
	pos := board.NewPosition()
	require.Empty(t, LastMoveSquares(pos))

	m, err := pos.ParseMove("e2e4")
	require.NoError(t, err)
	pos.MakeMove(m)
	require.Equal(t, []chess.Square{chess.E2, chess.E4}, LastMoveSquares(pos))
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, board.NewPosition()))
	require.Contains(t, buf.String(), "<svg")
}

func TestPNG(t *testing.T) {
	pos := board.NewPosition()
	m, _ := pos.ParseMove("g1f3")
	pos.MakeMove(m)

	for _, size := range []int{0, 100, 2000} {
		var buf bytes.Buffer
		require.NoError(t, PNG(&buf, pos, size, "Black to move"))

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		want := ClampSize(size)
		require.Equal(t, want, img.Bounds().Dx())
		require.Equal(t, want, img.Bounds().Dy())
	}
}

func TestSprites(t *testing.T) {
	for _, c := range []chess.Color{chess.White, chess.Black} {
		for _, pt := range []chess.PieceType{chess.King, chess.Queen, chess.Rook, chess.Bishop, chess.Knight, chess.Pawn} {
			p := chess.NewPiece(pt, c)
			img, err := Sprite(p, 90)
			require.NoError(t, err, p.String())
			require.Equal(t, 90, img.Bounds().Dx())

			opaque := 0
			for i := 3; i < len(img.Pix); i += 4 {
				if img.Pix[i] > 0 {
					opaque++
				}
			}
			require.Positive(t, opaque, "%s sprite is empty", p)
		}
	}
}

func requireColorNear(t *testing.T, want, got color.RGBA, msg string) {
	t.Helper()
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	require.True(t, diff(want.R, got.R) <= 3 && diff(want.G, got.G) <= 3 && diff(want.B, got.B) <= 3,
		"%s: want %v, got %v", msg, want, got)
}

func TestImageSquares(t *testing.T) {
	pos := board.NewPosition()
	m, err := pos.ParseMove("e2e4")
	require.NoError(t, err)
	pos.MakeMove(m)

	img, err := Image(pos, 480)
	require.NoError(t, err)
	require.Equal(t, 480, img.Bounds().Dx())

	// Square centers, 60 pixels per square
	center := func(sq chess.Square) (int, int) {
		return int(sq.File())*60 + 30, (7-int(sq.Rank()))*60 + 30
	}

	x, y := center(chess.E3)
	requireColorNear(t, darkSquare, img.RGBAAt(x, y), "e3")
	x, y = center(chess.D5)
	requireColorNear(t, lightSquare, img.RGBAAt(x, y), "d5")

	// e2 is light and carries the last-move mark
	x, y = center(chess.E2)
	got := img.RGBAAt(x, y)
	require.NotEqual(t, lightSquare.R, got.R, "e2 should be marked")
}

func TestText(t *testing.T) {
	pos := board.NewPosition()
	require.NotContains(t, Text(pos), "Last move")

	m, _ := pos.ParseMove("d2d4")
	pos.MakeMove(m)
	text := Text(pos)
	require.True(t, strings.HasSuffix(text, "Last move: d2d4\n"), text)
}
