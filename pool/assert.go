package pool

import "github.com/gofoundation/memsub/allocator"

var _ allocator.Allocator = (*Pool)(nil)
