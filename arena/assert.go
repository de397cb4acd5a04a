package arena

import "github.com/gofoundation/memsub/allocator"

var _ allocator.Allocator = (*Arena)(nil)
