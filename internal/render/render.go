// Package render draws positions as SVG, PNG, and text.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/notnil/chess"
	chessimage "github.com/notnil/chess/image"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessduel/internal/board"
)

// PNG sizes in pixels
const (
	MinSize     = 64
	MaxSize     = 1024
	DefaultSize = 480
)

const renderScale = 3 // Rasterize at this multiple for smooth downscaling

//go:embed pieces/*.svg
var pieceAssets embed.FS

var (
	lightSquare   = color.RGBA{R: 235, G: 209, B: 166, A: 0xff}
	darkSquare    = color.RGBA{R: 165, G: 117, B: 81, A: 0xff}
	lastMoveColor = color.RGBA{R: 0xcd, G: 0xd2, B: 0x6a, A: 0xff}
	lastMoveTint  = color.NRGBA{R: 0xcd, G: 0xd2, B: 0x6a, A: 0x99} // PNG overlay
	captionBack   = color.RGBA{A: 0xb0}
	captionFore   = color.White
)

var pieceLetters = map[chess.PieceType]string{
	chess.King:   "K",
	chess.Queen:  "Q",
	chess.Rook:   "R",
	chess.Bishop: "B",
	chess.Knight: "N",
	chess.Pawn:   "P",
}

// ClampSize returns size limited to [MinSize, MaxSize]; 0 means DefaultSize.
func ClampSize(size int) int {
	switch {
	case size == 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}

// LastMoveSquares returns the origin and target of the last move, if any.
func LastMoveSquares(pos *board.Position) []chess.Square {
	m := pos.LastMove()
	if m == nil {
		return nil
	}
	return []chess.Square{m.S1(), m.S2()}
}

// SVG writes the board with the last move marked.
func SVG(w io.Writer, pos *board.Position) error {
	marks := chessimage.MarkSquares(lastMoveColor, LastMoveSquares(pos)...)
	if err := chessimage.SVG(w, pos.Board(), marks); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

// PNG writes the board as a size x size PNG. A non-empty caption is
// drawn along the bottom edge.
func PNG(w io.Writer, pos *board.Position, size int, caption string) error {
	img, err := Image(pos, size)
	if err != nil {
		return err
	}
	if caption != "" {
		drawCaption(img, caption)
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// Image draws the board from White's side with the last move marked.
// size is clamped with ClampSize.
func Image(pos *board.Position, size int) (*image.RGBA, error) {
	size = ClampSize(size)

	// Render at higher resolution, then scale down
	hi := size * renderScale
	img := image.NewRGBA(image.Rect(0, 0, hi, hi))
	cell := (hi + 7) / 8

	marked := make(map[chess.Square]bool)
	for _, sq := range LastMoveSquares(pos) {
		marked[sq] = true
	}

	squares := pos.Board().SquareMap()
	sprites := make(map[chess.Piece]*image.RGBA)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := chess.NewSquare(chess.File(col), chess.Rank(7-row))
			r := image.Rect(col*hi/8, row*hi/8, (col+1)*hi/8, (row+1)*hi/8)

			draw.Draw(img, r, image.NewUniform(squareColor(sq)), image.Point{}, draw.Src)
			if marked[sq] {
				draw.Draw(img, r, image.NewUniform(lastMoveTint), image.Point{}, draw.Over)
			}

			p := squares[sq]
			if p == chess.NoPiece {
				continue
			}
			sprite, ok := sprites[p]
			if !ok {
				var err error
				if sprite, err = Sprite(p, cell); err != nil {
					return nil, err
				}
				sprites[p] = sprite
			}
			draw.Draw(img, r, sprite, image.Point{}, draw.Over)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst, nil
}

func squareColor(sq chess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}

// Sprite rasterizes the piece to a size x size image.
func Sprite(p chess.Piece, size int) (*image.RGBA, error) {
	prefix := "w"
	if p.Color() == chess.Black {
		prefix = "b"
	}
	path := "pieces/" + prefix + pieceLetters[p.Type()] + ".svg"

	data, err := pieceAssets.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read piece %s: %w", path, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

func drawCaption(img *image.RGBA, caption string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	height := face.Metrics().Height.Ceil() + 6

	band := image.Rect(b.Min.X, b.Max.Y-height, b.Max.X, b.Max.Y)
	draw.Draw(img, band, image.NewUniform(captionBack), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(captionFore),
		Face: face,
		Dot:  fixed.P(b.Min.X+4, b.Max.Y-4-face.Metrics().Descent.Ceil()),
	}
	d.DrawString(caption)
}

// Text returns the board as text, with the last move in UCI notation.
func Text(pos *board.Position) string {
	s := pos.Board().Draw()
	if m := pos.LastMove(); m != nil {
		s += fmt.Sprintf("Last move: %s\n", m)
	}
	return s
}
