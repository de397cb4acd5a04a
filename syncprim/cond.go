package syncprim

import "sync"

// Cond is a condition variable associated with a Mutex. Wait atomically
// releases the mutex and blocks the calling goroutine; Signal wakes one
// waiter; Broadcast wakes all of them. Callers must hold the associated
// Mutex when calling Wait, Signal, or Broadcast, per the usual condition
// variable discipline.
type Cond struct {
	once sync.Once
	cond *sync.Cond
	m    *Mutex
}

// NewCond returns a Cond associated with m.
func NewCond(m *Mutex) *Cond {
	return &Cond{cond: sync.NewCond(&m.mu), m: m}
}

func (c *Cond) init() {
	c.once.Do(func() {
		if c.cond == nil {
			c.cond = sync.NewCond(&c.m.mu)
		}
	})
}

// Wait atomically unlocks the associated mutex and suspends the calling
// goroutine, then reacquires the mutex before returning. The caller must
// re-check its wait condition in a loop, since Wait offers no guarantee
// about which waiter a Signal wakes.
func (c *Cond) Wait() {
	c.init()
	c.cond.Wait()
}

// Signal wakes one goroutine waiting on c, if any.
func (c *Cond) Signal() {
	c.init()
	c.cond.Signal()
}

// Broadcast wakes all goroutines waiting on c.
func (c *Cond) Broadcast() {
	c.init()
	c.cond.Broadcast()
}
