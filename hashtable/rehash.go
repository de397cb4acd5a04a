package hashtable

import (
	"unsafe"

	"github.com/gofoundation/memsub/errs"
)

// allocStates draws a zero-filled n-byte state array from m.alloc. Memory
// handed back by pool.Pool or arena.Arena is not guaranteed zeroed — freed
// blocks keep their previous contents — so every fresh states buffer is
// explicitly zeroed before use; a stray non-zero byte here would be
// misread as a bogus state.
func (m *Map[K, V]) allocStates(n int) []byte {
	ptr := m.alloc.Alloc(n, 1)
	errs.Require(ptr != nil, "hashtable: allocator returned nil for %d state bytes", n)
	buf := unsafe.Slice((*byte)(ptr), n)
	for i := range buf {
		buf[i] = byte(unused)
	}
	return buf
}

func (m *Map[K, V]) freeStates() {
	if len(m.states) == 0 {
		return
	}
	m.alloc.Free(unsafe.Pointer(&m.states[0]))
}

// reserve ensures the table can hold size+additional entries without
// exceeding the 0.7 load factor, growing and rehashing in place if not.
func (m *Map[K, V]) reserve(additional int) {
	target := neededCapacity(m.size + additional)
	if target > m.capacity {
		m.rehash(target)
	}
}

func neededCapacity(minSize int) int {
	cap := minCapacity
	for float64(minSize)/float64(cap) > maxLoad {
		cap <<= 1
	}
	return cap
}

// rehash is the table's single entry point for both growth (capacity
// increases) and compaction (clearTombstones, which rehashes at the
// current capacity). It never allocates a second full-size data buffer to
// permute records into: growth copies data/states into larger buffers of
// the new capacity (as a realloc would), and then the cycle-walking loop
// below relocates every OCCUPIED record to its new home within that same
// array.
func (m *Map[K, V]) rehash(newCapacity int) {
	if newCapacity != m.capacity {
		newData := make([]slot[K, V], newCapacity)
		copy(newData, m.data)
		newStates := m.allocStates(newCapacity)
		copy(newStates, m.states)
		m.freeStates()

		m.data = newData
		m.states = newStates
		m.capacity = newCapacity
	}

	// Step 1: tombstones become vacancies, and every still-occupied record
	// walks to wherever its hash now places it.
	for i := 0; i < m.capacity; i++ {
		switch state(m.states[i]) {
		case deleted:
			m.states[i] = byte(unused)
		case occupied:
			m.walk(i)
		}
	}
	// Step 2: every record the walk relocated is marked PLACED rather than
	// OCCUPIED so the walk never revisits it; sweep those back to OCCUPIED
	// now that the permutation is complete.
	for i := 0; i < m.capacity; i++ {
		if state(m.states[i]) == placed {
			m.states[i] = byte(occupied)
		}
	}
}

// walk relocates the record starting at index start to its correct home,
// following the classic in-place cycle-walk: a record displaced by the
// walk is swapped into the slot it vacated and the walk continues on it
// from there, so every record is visited exactly once regardless of how
// many records share a probe chain.
//
// A slot is marked PLACED the instant it holds a record known to be at its
// final home for this rehash pass — never before, since until a record's
// destination slot is chosen "home" isn't yet known.
func (m *Map[K, V]) walk(start int) {
	cur := start
	for {
		key := m.data[cur].key
		home := int(m.hash(key) % uint64(m.capacity))
		dest := m.firstNonPlaced(home)

		if dest == cur {
			m.states[cur] = byte(placed)
			return
		}

		if state(m.states[dest]) == occupied {
			m.data[cur], m.data[dest] = m.data[dest], m.data[cur]
			m.states[dest] = byte(placed)
			continue // cur now holds the record dest used to hold; keep walking it.
		}

		// dest is UNUSED or DELETED: the record has nowhere else to go.
		m.data[dest] = m.data[cur]
		m.states[dest] = byte(placed)
		m.states[cur] = byte(unused)
		return
	}
}

// firstNonPlaced linear-probes forward from idx for the first slot not
// marked PLACED. Termination is guaranteed by the 0.7 load factor: there
// is always at least one slot no walk has claimed yet.
func (m *Map[K, V]) firstNonPlaced(idx int) int {
	for state(m.states[idx]) == placed {
		idx = (idx + 1) % m.capacity
	}
	return idx
}

// ClearTombstones rehashes the table at its current capacity, converting
// every DELETED slot back to UNUSED and compacting every record onto the
// shortest probe chain its hash allows. It does not shrink capacity.
func (m *Map[K, V]) ClearTombstones() {
	if m.capacity == 0 {
		return
	}
	m.rehash(m.capacity)
}

// CollisionScore sums, over every OCCUPIED slot, the distance it sits from
// its home slot (0 for a record sitting exactly at its home). A table with
// no collisions at all scores 0; a high score indicates clustering that
// ClearTombstones or growth (via Optimize) can relieve.
func (m *Map[K, V]) CollisionScore() int {
	score := 0
	for i, s := range m.states {
		if state(s) != occupied {
			continue
		}
		home := int(m.hash(m.data[i].key) % uint64(m.capacity))
		score += ((i - home) + m.capacity) % m.capacity
	}
	return score
}

// Optimize doubles capacity (rehashing each time) until CollisionScore is
// at or below maxScore or capacity would exceed maxCapacity, whichever
// comes first. It is a tuning knob, not a correctness requirement: a table
// that never calls it remains correct, only more collision-prone.
func (m *Map[K, V]) Optimize(maxScore, maxCapacity int) {
	for m.CollisionScore() > maxScore {
		next := m.capacity * 2
		if m.capacity == 0 {
			next = minCapacity
		}
		if next > maxCapacity {
			return
		}
		m.rehash(next)
	}
}
