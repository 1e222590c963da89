package engine

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

func TestTranspositionTable(t *testing.T) {
	tt := NewTranspositionTable(0)
	key := TTKey{Hash: 0x1234, Depth: 3, Side: chess.White}

	_, ok := tt.Probe(key)
	require.False(t, ok, "Empty table should miss")

	tt.Store(key, 42)
	value, ok := tt.Probe(key)
	require.True(t, ok)
	require.Equal(t, 42, value)
	require.Equal(t, 0.5, tt.HitRate())

	// Depth and side are part of the key
	_, ok = tt.Probe(TTKey{Hash: 0x1234, Depth: 2, Side: chess.White})
	require.False(t, ok, "Different depth should miss")
	_, ok = tt.Probe(TTKey{Hash: 0x1234, Depth: 3, Side: chess.Black})
	require.False(t, ok, "Different side should miss")

	tt.Store(key, -7)
	value, _ = tt.Probe(key)
	require.Equal(t, -7, value, "Store should replace")
	require.Equal(t, 1, tt.Len())

	tt.Clear()
	require.Equal(t, 0, tt.Len())
}

func TestTranspositionTableLimit(t *testing.T) {
	tt := NewTranspositionTable(2)

	tt.Store(TTKey{Hash: 1}, 1)
	tt.Store(TTKey{Hash: 2}, 2)
	require.Equal(t, 2, tt.Len())

	// Replacing an existing key does not clear
	tt.Store(TTKey{Hash: 2}, 3)
	require.Equal(t, 2, tt.Len())
	require.Equal(t, uint64(0), tt.Clears())

	tt.Store(TTKey{Hash: 3}, 4)
	require.Equal(t, 1, tt.Len(), "Full table should be cleared before storing")
	require.Equal(t, uint64(1), tt.Clears())

	value, ok := tt.Probe(TTKey{Hash: 3})
	require.True(t, ok)
	require.Equal(t, 4, value)
}
