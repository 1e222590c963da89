package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyStats     = "stats"
	prefixMatch  = "match/"
	matchKeyDigs = 20 // Zero-padded nanoseconds keep keys in time order
)

// Match results
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultOngoing   = "*"
)

// ErrNotFound is returned when a match record does not exist.
var ErrNotFound = errors.New("storage: not found")

// PlayerInfo describes one side of a recorded match
type PlayerInfo struct {
	Algorithm       string        `json:"algorithm"`
	Settings        string        `json:"settings,omitempty"`
	Moves           int           `json:"moves"`
	MovesAnalyzed   uint64        `json:"moves_analyzed"`
	AverageMoveTime time.Duration `json:"average_move_time"`
}

// MatchRecord stores a finished engine-vs-engine game
type MatchRecord struct {
	ID          string        `json:"id"`
	White       PlayerInfo    `json:"white"`
	Black       PlayerInfo    `json:"black"`
	Result      string        `json:"result"`
	Termination string        `json:"termination"`
	StartFEN    string        `json:"start_fen"`
	FinalFEN    string        `json:"final_fen"`
	Moves       []string      `json:"moves"`
	Duration    time.Duration `json:"duration"`
	PlayedAt    time.Time     `json:"played_at"`
}

// Winner returns the algorithm of the winning side, or "" for draws and
// unfinished games.
func (r *MatchRecord) Winner() string {
	switch r.Result {
	case ResultWhiteWins:
		return r.White.Algorithm
	case ResultBlackWins:
		return r.Black.Algorithm
	}
	return ""
}

// MatchStats aggregates all recorded matches
type MatchStats struct {
	GamesPlayed     int            `json:"games_played"`
	WhiteWins       int            `json:"white_wins"`
	BlackWins       int            `json:"black_wins"`
	Draws           int            `json:"draws"`
	Unfinished      int            `json:"unfinished"`
	WinsByAlgorithm map[string]int `json:"wins_by_algorithm"`
	TotalPlies      int            `json:"total_plies"`
	TotalPlayTime   time.Duration  `json:"total_play_time"`
}

// NewMatchStats returns empty match statistics
func NewMatchStats() *MatchStats {
	return &MatchStats{
		WinsByAlgorithm: make(map[string]int),
	}
}

// add folds a record into the statistics
func (s *MatchStats) add(r *MatchRecord) {
	s.GamesPlayed++
	s.TotalPlies += len(r.Moves)
	s.TotalPlayTime += r.Duration

	switch r.Result {
	case ResultWhiteWins:
		s.WhiteWins++
	case ResultBlackWins:
		s.BlackWins++
	case ResultDraw:
		s.Draws++
	default:
		s.Unfinished++
	}
	if winner := r.Winner(); winner != "" {
		s.WinsByAlgorithm[winner]++
	}
}

// AveragePlies returns the mean game length in half moves
func (s *MatchStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir
func Open(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func matchKey(nanos int64) []byte {
	return []byte(fmt.Sprintf("%s%0*d", prefixMatch, matchKeyDigs, nanos))
}

// SaveMatch stores a record and updates the aggregate statistics.
// The record's ID and PlayedAt are filled in when empty.
func (s *Storage) SaveMatch(r *MatchRecord) error {
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Find a free key at or after the record's timestamp
		nanos := r.PlayedAt.UnixNano()
		key := matchKey(nanos)
		for {
			_, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				break
			}
			if err != nil {
				return err
			}
			nanos++
			key = matchKey(nanos)
		}
		r.ID = string(key[len(prefixMatch):])

		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.add(r)

		data, err = json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadMatch loads a record by ID
func (s *Storage) LoadMatch(id string) (*MatchRecord, error) {
	r := &MatchRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixMatch + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("match %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, r)
		})
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// ListMatches returns up to limit records, newest first. limit <= 0 returns all.
func (s *Storage) ListMatches(limit int) ([]*MatchRecord, error) {
	var records []*MatchRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefixMatch)

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixMatch)
		for it.Seek(append(prefix, 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}

			r := &MatchRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, r)
			})
			if err != nil {
				return err
			}
			records = append(records, r)
		}
		return nil
	})

	return records, err
}

// LoadStats loads the aggregate statistics, returns empty stats if none
func (s *Storage) LoadStats() (*MatchStats, error) {
	var stats *MatchStats

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})

	return stats, err
}

func loadStats(txn *badger.Txn) (*MatchStats, error) {
	stats := NewMatchStats()

	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.WinsByAlgorithm == nil {
		stats.WinsByAlgorithm = make(map[string]int)
	}
	return stats, err
}
