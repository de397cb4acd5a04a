// Package hashtable implements the open-addressed, linear-probing hash
// table whose defining feature is an in-place rehash: growing or
// compacting the table never allocates a second full-size buffer to
// permute records into. See rehash.go for the cycle-walking algorithm that
// makes that possible.
//
// Record state lives in its own byte-per-slot array, allocated through the
// allocator.Allocator contract (§6.1) — this is where hashtable actually
// exercises the pool/arena allocator dependency spec.md's component table
// calls for. The {key, value} pairs themselves stay on the Go-managed heap:
// K and V are arbitrary generic types that may hold pointers, and storage
// drawn from pool or arena memory is invisible to the garbage collector, so
// keeping only the provably-pointer-free state bytes off-heap is what lets
// this table honor the allocator dependency without breaking GC safety for
// caller-supplied keys and values. See DESIGN.md for the full rationale.
package hashtable

import (
	"github.com/dolthub/maphash"

	"github.com/gofoundation/memsub/allocator"
	"github.com/gofoundation/memsub/errs"
	"github.com/gofoundation/memsub/pool"
)

type state uint8

const (
	unused state = iota
	deleted
	occupied
	placed
)

const (
	minCapacity = 16
	maxLoad     = 0.7
)

type slot[K comparable, V any] struct {
	key   K
	value V
}

// Map is an open-addressed hash table with linear probing, power-of-two
// capacity, and a load factor capped at 0.7. It is not internally
// synchronized; concurrent callers must serialize their own access, per
// spec.md §5.
type Map[K comparable, V any] struct {
	alloc allocator.Allocator
	hash  func(K) uint64
	equal func(a, b K) bool

	data     []slot[K, V]
	states   []byte
	capacity int
	size     int
}

// Option configures a Map at construction.
type Option[K comparable, V any] func(*Map[K, V])

// WithAllocator overrides the allocator used for the table's state array.
// The default is pool.Default.
func WithAllocator[K comparable, V any](a allocator.Allocator) Option[K, V] {
	return func(m *Map[K, V]) { m.alloc = a }
}

// WithHash overrides the hash function. The default uses
// github.com/dolthub/maphash's generic hasher.
func WithHash[K comparable, V any](hash func(K) uint64) Option[K, V] {
	return func(m *Map[K, V]) { m.hash = hash }
}

// WithEqual overrides the equality predicate. The default is Go's built-in
// == on the comparable key type.
func WithEqual[K comparable, V any](equal func(a, b K) bool) Option[K, V] {
	return func(m *Map[K, V]) { m.equal = equal }
}

// New constructs an empty Map. Backing storage is not allocated until the
// first insertion.
func New[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	hasher := maphash.NewHasher[K]()
	m := &Map[K, V]{
		alloc: pool.Default,
		hash:  hasher.Hash,
		equal: func(a, b K) bool { return a == b },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the number of live (OCCUPIED) entries.
func (m *Map[K, V]) Len() int { return m.size }

// Capacity returns the current backing capacity (a power of two, 0 before
// the first insertion).
func (m *Map[K, V]) Capacity() int { return m.capacity }

// Get looks up k, probing forward from its home slot and skipping
// tombstones, stopping on the first OCCUPIED match, an UNUSED slot, or a
// full cycle back to the home slot (which can happen once deletions leave
// no UNUSED slot along a probe path).
func (m *Map[K, V]) Get(k K) (V, bool) {
	var zero V
	if m.capacity == 0 {
		return zero, false
	}
	home := m.indexOf(k)
	idx := home
	for {
		switch state(m.states[idx]) {
		case unused:
			return zero, false
		case occupied:
			if m.equal(m.data[idx].key, k) {
				return m.data[idx].value, true
			}
		}
		idx = (idx + 1) % m.capacity
		if idx == home {
			return zero, false
		}
	}
}

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Insert adds k -> v. The precondition that k is absent is asserted: a
// duplicate Insert is a caller bug, not a recoverable condition, matching
// spec.md §7's contractual-assertion error model.
func (m *Map[K, V]) Insert(k K, v V) {
	errs.Require(!m.Contains(k), "hashtable: key already present")
	m.reserve(1)
	idx := m.firstNonOccupied(m.indexOf(k))
	m.data[idx] = slot[K, V]{key: k, value: v}
	m.states[idx] = byte(occupied)
	m.size++
}

// Remove deletes k, which must be present: the precondition is asserted the
// same way Insert's is.
func (m *Map[K, V]) Remove(k K) {
	idx := m.find(k)
	errs.Require(idx >= 0, "hashtable: key not present")
	m.states[idx] = byte(deleted)
	m.size--
}

// Ref returns a pointer to k's value slot, inserting a zero value first if
// k is absent. This is this module's rendering of spec.md §4.G's
// "subscript" operation ("if key is present return its slot; else insert
// with default value"): Go has no operator overloading to spell m[k] with
// auto-insert-on-miss semantics, so the pointer return stands in for it.
func (m *Map[K, V]) Ref(k K) *V {
	if idx := m.find(k); idx >= 0 {
		return &m.data[idx].value
	}
	var zero V
	m.Insert(k, zero)
	idx := m.find(k)
	return &m.data[idx].value
}

// find returns the index of k's OCCUPIED slot, or -1 if absent. Unlike Get
// it is usable internally without allocating a (V, bool) pair.
func (m *Map[K, V]) find(k K) int {
	if m.capacity == 0 {
		return -1
	}
	home := m.indexOf(k)
	idx := home
	for {
		switch state(m.states[idx]) {
		case unused:
			return -1
		case occupied:
			if m.equal(m.data[idx].key, k) {
				return idx
			}
		}
		idx = (idx + 1) % m.capacity
		if idx == home {
			return -1
		}
	}
}

// firstNonOccupied finds the first non-OCCUPIED slot starting at idx,
// probing forward. Because reserve() guarantees load factor < 1 before
// this is called, termination is guaranteed.
func (m *Map[K, V]) firstNonOccupied(idx int) int {
	for state(m.states[idx]) == occupied {
		idx = (idx + 1) % m.capacity
	}
	return idx
}

func (m *Map[K, V]) indexOf(k K) int {
	return int(m.hash(k) % uint64(m.capacity))
}

// Clear removes every entry, resetting size to zero but keeping the
// currently-allocated capacity.
func (m *Map[K, V]) Clear() {
	for i := range m.states {
		m.states[i] = byte(unused)
	}
	m.size = 0
}

// Close releases the table's backing storage. The Map must not be used
// again afterward.
func (m *Map[K, V]) Close() {
	m.freeStates()
	m.data = nil
	m.states = nil
	m.capacity = 0
	m.size = 0
}
