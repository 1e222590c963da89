package board

import "github.com/notnil/chess"

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [3][7][64]uint64 // [Color][PieceType][Square], indexed by the library's enums
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [4]uint64        // K, Q, k, q
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for _, c := range []chess.Color{chess.White, chess.Black} {
		for pt := chess.King; pt <= chess.Pawn; pt++ {
			for sq := chess.A1; sq <= chess.H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// computeHash computes the Zobrist hash for the position from scratch.
func computeHash(cp *chess.Position) uint64 {
	var hash uint64

	b := cp.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := b.Piece(sq)
		if pc == chess.NoPiece {
			continue
		}
		hash ^= zobristPiece[pc.Color()][pc.Type()][sq]
	}

	if cp.Turn() == chess.Black {
		hash ^= zobristSideToMove
	}

	cr := cp.CastleRights()
	if cr.CanCastle(chess.White, chess.KingSide) {
		hash ^= zobristCastling[0]
	}
	if cr.CanCastle(chess.White, chess.QueenSide) {
		hash ^= zobristCastling[1]
	}
	if cr.CanCastle(chess.Black, chess.KingSide) {
		hash ^= zobristCastling[2]
	}
	if cr.CanCastle(chess.Black, chess.QueenSide) {
		hash ^= zobristCastling[3]
	}

	if ep := cp.EnPassantSquare(); ep != chess.NoSquare {
		hash ^= zobristEnPassant[ep.File()]
	}

	return hash
}
