// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackedMap(t *testing.T) {
	src := map[string]string{"base": "value"}
	sm := New(func(key any) (any, bool, error) {
		v, ok := src[key.(string)]
		return v, ok, nil
	})

	v, ok, err := sm.Get("base")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	depth := sm.Push()
	assert.Equal(t, 0, depth)
	sm.Put("k1", "v1")
	sm.Put("base", "shadowed")

	v, ok, _ = sm.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
	v, _, _ = sm.Get("base")
	assert.Equal(t, "shadowed", v)

	sm.Push()
	sm.Put("k1", "v2")
	v, _, _ = sm.Get("k1")
	assert.Equal(t, "v2", v)

	sm.Pop()
	v, _, _ = sm.Get("k1")
	assert.Equal(t, "v1", v)

	sm.PopTo(0)
	assert.Equal(t, 0, sm.Depth())
	_, ok, _ = sm.Get("k1")
	assert.False(t, ok)
	v, _, _ = sm.Get("base")
	assert.Equal(t, "value", v)
}

func TestStackedMapRepeatedPut(t *testing.T) {
	sm := New(func(any) (any, bool, error) { return nil, false, nil })

	sm.Push()
	sm.Put("k", 1)
	sm.Put("k", 2)
	sm.Pop()

	_, ok, err := sm.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJournal(t *testing.T) {
	sm := New(func(any) (any, bool, error) { return nil, false, nil })

	sm.Push()
	sm.Put("a", 1)
	sm.Push()
	sm.Put("b", 2)
	sm.Put("a", 3)

	var entries []JournalEntry
	sm.Journal(func(key, value any) bool {
		entries = append(entries, JournalEntry{key, value})
		return true
	})
	require.Len(t, entries, 3)
	assert.Equal(t, JournalEntry{"a", 1}, entries[0])
	assert.Equal(t, JournalEntry{"b", 2}, entries[1])
	assert.Equal(t, JournalEntry{"a", 3}, entries[2])

	// iteration stops when the callback declines
	count := 0
	sm.Journal(func(_, _ any) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
