//go:build !assert

package errs

// AssertEnabled reports whether the assert build tag is active. No package in
// this module reads it; the pool's debug bucket census is maintained in every
// build.
const AssertEnabled = false

// Invariant no-ops unless the assert build tag is present.
func Invariant(cond bool, format string, args ...any) {
}
