package tagged_test

import (
	"sync"
	"testing"

	"github.com/gofoundation/memsub/tagged"
	"github.com/stretchr/testify/require"
)

func TestLoadStoreRoundTrip(t *testing.T) {
	var p tagged.Pointer[int]
	a, b := new(int), new(int)
	*a, *b = 1, 2

	require.True(t, p.Store(p.Load(), a))
	pair := p.Load()
	require.Equal(t, a, pair.Ptr)
	require.EqualValues(t, 1, pair.Generation)

	require.True(t, p.Store(pair, b))
	pair = p.Load()
	require.Equal(t, b, pair.Ptr)
	require.EqualValues(t, 2, pair.Generation)
}

func TestStoreFailsOnStaleExpected(t *testing.T) {
	var p tagged.Pointer[int]
	a, b, c := new(int), new(int), new(int)

	stale := p.Load()
	require.True(t, p.Store(stale, a))

	// stale is now out of date; a Store against it must fail and must not
	// mutate the pair.
	require.False(t, p.Store(stale, b))
	pair := p.Load()
	require.Equal(t, a, pair.Ptr)

	fresh := p.Load()
	require.True(t, p.Store(fresh, c))
}

func TestConcurrentCASRetryLoopConvergesWithoutLoss(t *testing.T) {
	var p tagged.Pointer[int]
	values := make([]*int, 64)
	for i := range values {
		v := i
		values[i] = &v
	}

	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func(v *int) {
			defer wg.Done()
			for {
				pair := p.Load()
				if p.Store(pair, v) {
					return
				}
			}
		}(v)
	}
	wg.Wait()

	final := p.Load()
	require.Contains(t, values, final.Ptr)
}
