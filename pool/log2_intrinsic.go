//go:build !portablelog2

package pool

import "math/bits"

// ceilLog2 returns the smallest k such that 1<<k >= n, for n >= 1. This
// build uses the leading-zero-count intrinsic math/bits compiles down to on
// every architecture Go supports.
func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}
