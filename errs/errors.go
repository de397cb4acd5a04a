// Package errs carries the module's error and assertion vocabulary.
//
// Two layers, matching the split observed across the rest of this codebase:
// sentinel/wrapped errors for conditions a caller could plausibly want to
// inspect, and panicking "contract" helpers for the precondition violations
// this library treats as fatal bugs rather than recoverable failures
// (indexing out of bounds, inserting a duplicate hash-table key, exhausting
// an arena's reservation).
package errs

import (
	cerrors "github.com/cockroachdb/errors"
)

// ErrNotPowerOfTwo is returned by CheckPow2 when a value that must be a
// power of two is not.
var ErrNotPowerOfTwo error = cerrors.New("value must be a power of two")

// ErrUnknownPointer is the sentinel for a pointer passed to Free or Realloc
// that the allocator did not return. No allocator in this module checks where
// a pointer came from, so none of them raises it: pool.Pool and arena.Arena
// read the header in front of whatever pointer they are given.
var ErrUnknownPointer error = cerrors.New("pointer was not allocated by this allocator")

// ErrArenaExhausted is wrapped into the panic raised when an arena's bump
// pointer would advance past the end of its virtual memory reservation.
var ErrArenaExhausted error = cerrors.New("arena reservation exhausted")

// CheckPow2 reports an error if value is zero or not a power of two.
func CheckPow2(value uint64, name string) error {
	if value == 0 || value&(value-1) != 0 {
		return cerrors.Wrapf(ErrNotPowerOfTwo, "%s is %d", name, value)
	}
	return nil
}
