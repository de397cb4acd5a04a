package hashtable_test

import (
	"fmt"
	"testing"

	"github.com/gofoundation/memsub/hashtable"
	"github.com/stretchr/testify/require"
)

func TestInsertGetRemove(t *testing.T) {
	m := hashtable.New[string, int]()
	m.Insert("a", 1)
	m.Insert("b", 2)

	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	require.True(t, m.Contains("b"))
	require.False(t, m.Contains("c"))

	m.Remove("a")
	require.False(t, m.Contains("a"))
	require.Equal(t, 1, m.Len())
}

func TestInsertDuplicateKeyPanics(t *testing.T) {
	m := hashtable.New[string, int]()
	m.Insert("a", 1)
	require.Panics(t, func() { m.Insert("a", 2) })
}

func TestRemoveAbsentKeyPanics(t *testing.T) {
	m := hashtable.New[string, int]()
	require.Panics(t, func() { m.Remove("missing") })
}

func TestRefInsertsZeroValueOnMiss(t *testing.T) {
	m := hashtable.New[string, int]()
	p := m.Ref("counter")
	require.Equal(t, 0, *p)
	*p++
	*p++
	v, ok := m.Get("counter")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

// TestGrowthPreservesAllEntries covers spec.md §8's large-scale insert +
// lookup scenario at a scale small enough for a unit test: every key
// inserted across several in-place rehashes must remain findable
// afterward.
func TestGrowthPreservesAllEntries(t *testing.T) {
	m := hashtable.New[int, string]()
	const n = 5000
	for i := 0; i < n; i++ {
		m.Insert(i, fmt.Sprintf("v%d", i))
	}
	require.Equal(t, n, m.Len())
	require.GreaterOrEqual(t, m.Capacity(), n)

	for i := 0; i < n; i++ {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("v%d", i), v)
	}
}

// TestInsertRemoveAllShrinksToEmpty covers spec.md §8's insert-then-
// remove-all scenario: after removing every key the table must report zero
// live entries and none of the keys must still be findable.
func TestInsertRemoveAllShrinksToEmpty(t *testing.T) {
	m := hashtable.New[int, int]()
	const n = 2000
	for i := 0; i < n; i++ {
		m.Insert(i, i*i)
	}
	for i := 0; i < n; i++ {
		m.Remove(i)
	}
	require.Equal(t, 0, m.Len())
	for i := 0; i < n; i++ {
		require.False(t, m.Contains(i))
	}
}

func TestClearTombstonesPreservesLiveEntries(t *testing.T) {
	m := hashtable.New[int, int]()
	for i := 0; i < 200; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 150; i++ {
		m.Remove(i)
	}
	m.ClearTombstones()

	require.Equal(t, 50, m.Len())
	for i := 150; i < 200; i++ {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	for i := 0; i < 150; i++ {
		require.False(t, m.Contains(i))
	}
}

func TestOptimizeReducesCollisionScore(t *testing.T) {
	m := hashtable.New[int, int](hashtable.WithHash[int, int](func(k int) uint64 {
		return uint64(k) << 6 // pathological: every key collides mod any capacity up to 64
	}))
	for i := 0; i < 40; i++ {
		m.Insert(i, i)
	}
	before := m.CollisionScore()
	m.Optimize(0, 1<<20)
	after := m.CollisionScore()
	require.LessOrEqual(t, after, before)

	for i := 0; i < 40; i++ {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestEachKeysValuesItems(t *testing.T) {
	m := hashtable.New[int, int]()
	for i := 0; i < 10; i++ {
		m.Insert(i, i*10)
	}

	seen := map[int]int{}
	m.Each(func(k, v int) bool {
		seen[k] = v
		return true
	})
	require.Len(t, seen, 10)

	require.Len(t, m.Keys(), 10)
	require.Len(t, m.Values(), 10)
	require.Len(t, m.Items(), 10)

	count := 0
	m.Each(func(k, v int) bool {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

func TestCustomEqualIsRespected(t *testing.T) {
	type ci string
	m := hashtable.New[ci, int](
		hashtable.WithHash[ci, int](func(k ci) uint64 {
			h := uint64(0)
			for _, r := range []byte(lower(string(k))) {
				h = h*31 + uint64(r)
			}
			return h
		}),
		hashtable.WithEqual[ci, int](func(a, b ci) bool {
			return lower(string(a)) == lower(string(b))
		}),
	)
	m.Insert(ci("Foo"), 1)
	v, ok := m.Get(ci("FOO"))
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
