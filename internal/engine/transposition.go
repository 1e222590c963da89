package engine

import "github.com/notnil/chess"

// TTKey identifies a cached search result.
type TTKey struct {
	Hash  uint64      // Zobrist hash of the position
	Depth int         // Remaining depth
	Side  chess.Color // Side to move
}

// TranspositionTable maps search keys to previously computed values.
//
// Entries carry no bound type: a value stored after a cutoff is returned
// as if it were exact. The table is not safe for concurrent use.
type TranspositionTable struct {
	entries map[TTKey]int
	limit   int // Maximum entries before the table is cleared (0 = unbounded)

	// Statistics
	hits   uint64
	probes uint64
	clears uint64
}

// NewTranspositionTable creates a transposition table.
// A positive limit bounds the number of entries; 0 means no bound.
func NewTranspositionTable(limit int) *TranspositionTable {
	if limit < 0 {
		limit = 0
	}
	return &TranspositionTable{
		entries: make(map[TTKey]int),
		limit:   limit,
	}
}

// Probe looks up a key. Returns the value and true if found.
func (tt *TranspositionTable) Probe(key TTKey) (int, bool) {
	tt.probes++
	value, ok := tt.entries[key]
	if ok {
		tt.hits++
	}
	return value, ok
}

// Store saves a value, replacing any previous value for the key.
func (tt *TranspositionTable) Store(key TTKey, value int) {
	if tt.limit > 0 && len(tt.entries) >= tt.limit {
		if _, ok := tt.entries[key]; !ok {
			tt.Clear()
			tt.clears++
		}
	}
	tt.entries[key] = value
}

// Clear removes all entries. Statistics are kept.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
}

// Len returns the number of stored entries.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}

// Clears returns how many times the entry limit forced a clear.
func (tt *TranspositionTable) Clears() uint64 {
	return tt.clears
}

// HitRate returns the fraction of probes that found an entry.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes)
}
