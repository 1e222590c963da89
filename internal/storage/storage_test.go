package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(result string, plies int) *MatchRecord {
	return &MatchRecord{
		White:    PlayerInfo{Algorithm: "alphabeta", Moves: (plies + 1) / 2},
		Black:    PlayerInfo{Algorithm: "mcts", Moves: plies / 2},
		Result:   result,
		Moves:    make([]string, plies),
		Duration: time.Second,
	}
}

func TestStorage(t *testing.T) {
	t.Run("NewMatchStats", func(t *testing.T) {
		stats := NewMatchStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.AveragePlies() != 0 {
			t.Errorf("Expected 0 average plies")
		}
	})

	t.Run("Winner", func(t *testing.T) {
		tests := []struct {
			result string
			want   string
		}{
			{ResultWhiteWins, "alphabeta"},
			{ResultBlackWins, "mcts"},
			{ResultDraw, ""},
			{ResultOngoing, ""},
		}
		for _, tt := range tests {
			if got := record(tt.result, 10).Winner(); got != tt.want {
				t.Errorf("Winner() for %s = %q, want %q", tt.result, got, tt.want)
			}
		}
	})
}

func TestSaveAndLoadMatch(t *testing.T) {
	s := openTestStorage(t)

	r := record(ResultWhiteWins, 3)
	r.Moves = []string{"e2e4", "e7e5", "d1h5"}
	r.FinalFEN = "rnbqkbnr/pppp1ppp/8/4p2Q/4P3/8/PPPP1PPP/RNB1KBNR b KQkq - 1 2"
	if err := s.SaveMatch(r); err != nil {
		t.Fatalf("SaveMatch failed: %v", err)
	}
	if r.ID == "" || r.PlayedAt.IsZero() {
		t.Fatal("SaveMatch should assign ID and PlayedAt")
	}

	got, err := s.LoadMatch(r.ID)
	if err != nil {
		t.Fatalf("LoadMatch failed: %v", err)
	}
	if got.Result != r.Result || got.FinalFEN != r.FinalFEN || len(got.Moves) != 3 {
		t.Errorf("Loaded record differs: %+v", got)
	}
	if got.White.Algorithm != "alphabeta" || got.Black.Algorithm != "mcts" {
		t.Errorf("Players not restored: %+v / %+v", got.White, got.Black)
	}

	if _, err := s.LoadMatch("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListMatchesNewestFirst(t *testing.T) {
	s := openTestStorage(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, result := range []string{ResultWhiteWins, ResultDraw, ResultBlackWins} {
		r := record(result, 10+i)
		r.PlayedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.SaveMatch(r); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListMatches(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(all))
	}
	if all[0].Result != ResultBlackWins || all[2].Result != ResultWhiteWins {
		t.Errorf("Matches not newest first: %s, %s, %s", all[0].Result, all[1].Result, all[2].Result)
	}

	latest, err := s.ListMatches(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 1 || latest[0].ID != all[0].ID {
		t.Errorf("Limit not applied")
	}
}

func TestSameTimestampGetsDistinctKeys(t *testing.T) {
	s := openTestStorage(t)

	at := time.Now()
	a, b := record(ResultDraw, 4), record(ResultDraw, 6)
	a.PlayedAt, b.PlayedAt = at, at

	if err := s.SaveMatch(a); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMatch(b); err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("Records share ID %s", a.ID)
	}

	all, _ := s.ListMatches(0)
	if len(all) != 2 {
		t.Errorf("Expected 2 matches, got %d", len(all))
	}
}

func TestStatsAggregate(t *testing.T) {
	s := openTestStorage(t)

	for _, r := range []*MatchRecord{
		record(ResultWhiteWins, 40),
		record(ResultWhiteWins, 20),
		record(ResultBlackWins, 30),
		record(ResultDraw, 10),
	} {
		if err := s.SaveMatch(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 4 || stats.WhiteWins != 2 || stats.BlackWins != 1 || stats.Draws != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.WinsByAlgorithm["alphabeta"] != 2 || stats.WinsByAlgorithm["mcts"] != 1 {
		t.Errorf("Unexpected wins by algorithm: %v", stats.WinsByAlgorithm)
	}
	if stats.AveragePlies() != 25 {
		t.Errorf("Expected 25 average plies, got %.2f", stats.AveragePlies())
	}
	if stats.TotalPlayTime != 4*time.Second {
		t.Errorf("Expected 4s total play time, got %s", stats.TotalPlayTime)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(dataDirEnv, "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if filepath.Base(dataDir) != appName {
		t.Errorf("Expected data dir to end in %s, got %s", appName, dataDir)
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if dbDir != filepath.Join(dataDir, "matches") {
		t.Errorf("Unexpected database directory: %s", dbDir)
	}
}

func TestDataDirOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom")
	t.Setenv(dataDirEnv, want)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != want {
		t.Errorf("Expected %s, got %s", want, dataDir)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Override directory was not created: %v", err)
	}
}
