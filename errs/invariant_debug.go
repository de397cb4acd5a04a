//go:build assert

package errs

import cerrors "github.com/cockroachdb/errors"

// AssertEnabled reports whether the assert build tag is active. No package in
// this module reads it; the pool's debug bucket census is maintained in every
// build.
const AssertEnabled = true

// Invariant checks an internal consistency condition that is expensive
// enough, or specific enough to this library's own bookkeeping, that it is
// only checked under the assert build tag. Unlike Require, a failing
// Invariant is never expected to fire in a correct build; it exists to catch
// bugs in this library, not in its callers.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(cerrors.Newf("invariant violated: "+format, args...))
	}
}
