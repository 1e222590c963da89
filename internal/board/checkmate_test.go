package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate - already checkmate
	// White: Ka1, Ra8
	// Black: Kh8, pawns on g7 and h7 blocking escape
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Checkmate position:")
	t.Log(pos)

	if pos.HasLegalMoves() {
		t.Errorf("Expected no legal moves, got %v", pos.LegalMoves())
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("Checkmate reported as stalemate")
	}
	if pos.Outcome() != Checkmate || !pos.IsGameOver() {
		t.Errorf("Expected outcome checkmate, got %s", pos.Outcome())
	}
}

func TestNotCheckmate(t *testing.T) {
	// King CAN escape - not checkmate
	// Black king on h8, rook on g8 but king can take it
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	if pos.IsGameOver() {
		t.Errorf("Expected ongoing game, got %s", pos.Outcome())
	}
}

func TestMateInOneDetectedAfterMove(t *testing.T) {
	pos := MustParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	m, err := pos.ParseMove("a1a8")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.GivesCheck(m) {
		t.Error("Ra8 should give check")
	}

	pos.MakeMove(m)
	if !pos.IsCheckmate() {
		t.Errorf("Expected checkmate after Ra8, got %s", pos.Outcome())
	}
	pos.UnmakeMove()
	if pos.IsCheckmate() {
		t.Error("Checkmate should be undone")
	}
}

func TestStalemate(t *testing.T) {
	pos := MustParseFEN("7k/8/6QK/8/8/8/8/8 b - - 0 1")
	if !pos.IsStalemate() {
		t.Errorf("Expected stalemate, got %s", pos.Outcome())
	}
	if pos.Outcome() != Stalemate {
		t.Errorf("Expected outcome stalemate, got %s", pos.Outcome())
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},     // K vs K
		{"8/8/8/4k3/8/8/8/3NK3 w - - 0 1", true},    // K+N vs K
		{"8/8/8/4k3/8/8/8/2B1K3 b - - 0 1", true},   // K+B vs K
		{"8/8/8/4k3/8/8/8/2BNK3 w - - 0 1", false},  // K+B+N vs K
		{"8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},  // Pawn on board
		{"8/8/3n4/4k3/8/8/8/2B1K3 w - - 0 1", false}, // Minor each
		{"5b2/8/8/4k3/8/8/8/2B1K3 w - - 0 1", true},  // Bishops on dark squares
		{"2b5/8/8/4k3/8/8/8/2B1K3 w - - 0 1", false}, // Opposite-colored bishops
		{"8/8/8/4k3/8/8/8/B1B1K3 w - - 0 1", true},   // Two dark-square bishops
	}

	for _, tc := range tests {
		pos := MustParseFEN(tc.fen)
		if got := pos.IsInsufficientMaterial(); got != tc.want {
			t.Errorf("IsInsufficientMaterial(%s) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}
