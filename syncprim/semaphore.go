package syncprim

// Semaphore is a counting semaphore built from a Mutex and a Cond rather
// than from Go's channel-based idioms. That composition is deliberate, not
// an oversight: it is what gives Wait(n) a single blocking call instead of
// forcing callers to simulate it with n separate acquires.
type Semaphore struct {
	mu      Mutex
	cond    *Cond
	counter int
}

// NewSemaphore returns a Semaphore initialized with the given starting
// counter value.
func NewSemaphore(initial int) *Semaphore {
	s := &Semaphore{counter: initial}
	s.cond = NewCond(&s.mu)
	return s
}

// Wait blocks while the counter is less than n, then subtracts n from it.
func (s *Semaphore) Wait(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.counter < n {
		s.cond.Wait()
	}
	s.counter -= n
}

// Post adds n to the counter and wakes waiters: a single Signal when n == 1
// (at most one waiter's condition can newly be satisfied), a Broadcast when
// n > 1 (multiple waiters of different sizes might now be satisfiable).
func (s *Semaphore) Post(n int) {
	s.mu.Lock()
	s.counter += n
	if n > 1 {
		s.cond.Broadcast()
	} else {
		s.cond.Signal()
	}
	s.mu.Unlock()
}

// Value returns the current counter value. Intended for tests and
// diagnostics; the value may be stale immediately after it is read.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}
