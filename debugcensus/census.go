// Package debugcensus is the read-only, optional introspection layer over a
// pool.Pool's per-bucket statistics: block size, total blocks drawn from the
// backing arena, and blocks currently handed out. spec.md §9's open
// question about the source's lazy-initializer-as-constructor-side-effect
// is resolved here the way the spec prescribes: the by-block-size index is
// built eagerly on first real use, not as a side effect of construction.
package debugcensus

import (
	"sync"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/slog"

	"github.com/gofoundation/memsub/pool"
)

// Census wraps a pool.Pool with a lazily-built, block-size-keyed index over
// its bucket statistics, mirroring the handle-keyed swiss.Map this module's
// teacher uses for its own block bookkeeping.
type Census struct {
	pool *pool.Pool

	mu    sync.Mutex
	index *swiss.Map[int, int] // block size -> index into the snapshot slice
}

// New wraps p. The index is not built yet; it is built on the first call to
// Snapshot or Lookup.
func New(p *pool.Pool) *Census {
	return &Census{pool: p}
}

// Snapshot returns the current per-bucket statistics. It also builds the
// block-size index on first call.
func (c *Census) Snapshot() []pool.BucketStat {
	snap := c.pool.Census()
	c.ensureIndex(snap)
	return snap
}

func (c *Census) ensureIndex(snap []pool.BucketStat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index != nil {
		return
	}
	idx := swiss.NewMap[int, int](uint32(len(snap)))
	for i, s := range snap {
		idx.Put(s.BlockSize, i)
	}
	c.index = idx
}

// Lookup returns the statistics for the bucket whose block size exactly
// equals blockSize, if any.
func (c *Census) Lookup(blockSize int) (pool.BucketStat, bool) {
	snap := c.Snapshot()

	c.mu.Lock()
	i, ok := c.index.Get(blockSize)
	c.mu.Unlock()
	if !ok {
		return pool.BucketStat{}, false
	}
	return snap[i], true
}

// Log writes one structured log line per non-empty bucket to logger. It
// never runs on an allocator's hot path; it exists purely for diagnostics.
func (c *Census) Log(logger *slog.Logger) {
	for _, s := range c.Snapshot() {
		if s.TotalBlocks == 0 {
			continue
		}
		logger.Info("pool bucket census",
			"block_size", s.BlockSize,
			"total_blocks", s.TotalBlocks,
			"used_blocks", s.UsedBlocks,
		)
	}
}
