// Package syncprim is the thread-primitive layer: mutex, condition variable,
// counting semaphore, and detached thread spawn. The arena's growth lock is
// a Mutex from this package; the lock-free paths above this layer (arena's
// mark, pool's free-lists and debug census counters) use sync/atomic and the
// tagged package instead.
package syncprim

import "sync"

// Mutex is a non-recursive mutex. Its zero value is ready to use, matching
// this module's default-initialized-collaborator convention; Init exists
// for callers that prefer an explicit construction step mirroring the
// source library's init/lock/try_lock/unlock/deinit lifecycle.
type Mutex struct {
	mu sync.Mutex
}

// Init resets m to its default-initialized state. It is only meaningful
// before first use or after Deinit; calling it on a locked mutex is a
// caller bug and is not guarded against, matching this library's general
// policy of not defending against misuse that indexing or allocator misuse
// would equally not defend against.
func (m *Mutex) Init() {
	*m = Mutex{}
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() {
	m.mu.Lock()
}

// TryLock attempts to acquire the mutex without blocking and reports
// whether it succeeded. This is deliberately "true on acquisition" — the
// natural reading of the name — regardless of what a POSIX trylock's raw
// return code would suggest.
func (m *Mutex) TryLock() bool {
	return m.mu.TryLock()
}

// Unlock releases the mutex. Unlocking an unlocked Mutex is a caller bug.
func (m *Mutex) Unlock() {
	m.mu.Unlock()
}

// Deinit is a no-op placeholder for parity with the source library's
// lifecycle; Go's garbage collector reclaims the Mutex's storage on its own.
func (m *Mutex) Deinit() {}
