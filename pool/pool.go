// Package pool implements the size-class ("bucket") allocator, nalloc: a
// fixed set of power-of-two buckets, each backed by a lock-free LIFO
// free-list threaded through the freed blocks themselves and protected from
// ABA by the tagged package's CAS protocol, with a private arena supplying
// fresh chunks whenever a bucket's free-list runs dry.
package pool

import (
	"sync/atomic"
	"unsafe"

	"github.com/gofoundation/memsub/arena"
	"github.com/gofoundation/memsub/errs"
	"github.com/gofoundation/memsub/layout"
	"github.com/gofoundation/memsub/tagged"
)

// numBuckets is the bit width of a machine word, per spec.md §3 ("The
// number of buckets equals the bit width of a machine word").
const numBuckets = 64

var wordSize = int(unsafe.Sizeof(uintptr(0)))

// freeNode is written into the first machine word of a free block, LIFO-
// threading that bucket's free-list. It is never live at the same time as a
// block header + payload for the same storage: the block is either handed
// out (header + payload) or free (freeNode), never both.
type freeNode struct {
	next *freeNode
}

// bucketStats is the debug-census bookkeeping for one bucket; see the
// debugcensus package for the read-only view built on top of it.
type bucketStats struct {
	blockSize   int
	totalBlocks atomic.Int64
	usedBlocks  atomic.Int64
}

type bucket struct {
	head       tagged.Pointer[freeNode]
	blockBytes int // raw chunk size requested from the backing arena
	stats      bucketStats
}

// Pool is a size-class allocator. It implements allocator.Allocator. The
// zero value is not usable; construct with New.
type Pool struct {
	backing *arena.Arena
	buckets [numBuckets]bucket
}

// Default is the process-wide pool allocator singleton, the allocator
// spec.md §6.3's DEFAULT_ALLOCATOR knob selects when a container is not
// given one explicitly.
var Default = New()

// New creates a Pool with its own private backing arena.
func New() *Pool {
	p := &Pool{backing: arena.New(0)}
	for k := 0; k < numBuckets; k++ {
		p.buckets[k].blockBytes = blockBytesForBucket(k)
		p.buckets[k].stats.blockSize = 1 << uint(k)
	}
	return p
}

// blockBytesForBucket returns the raw chunk size requested from the backing
// arena for bucket k: 2^k payload bytes, plus two header-widths of slack.
// bucketIndex already accounts for one header-width of alignment padding
// (padding = alignment - HeaderSize) in choosing k; a second header-width
// covers the case where the header ends up shifted forward from the chunk
// start to satisfy an alignment larger than HeaderSize, which the padding
// term alone underestimates. See DESIGN.md for the derivation.
func blockBytesForBucket(k int) int {
	return (1 << uint(k)) + 2*layout.HeaderSize
}

// bucketIndex computes the size class per spec.md §3: k = ceil(log2(max(
// word_size, size+padding))), padding = max(0, alignment - sizeof(header)).
func bucketIndex(size, alignment int) int {
	padding := alignment - layout.HeaderSize
	if padding < 0 {
		padding = 0
	}
	need := size + padding
	if need < wordSize {
		need = wordSize
	}
	return ceilLog2(need)
}

// Alloc allocates size bytes aligned to at least alignment.
func (p *Pool) Alloc(size, alignment int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	if alignment < 1 {
		alignment = layout.HeaderAlign
	}
	k := bucketIndex(size, alignment)
	errs.Require(k < numBuckets, "pool: size %d exceeds the largest bucket", size)

	chunk := p.acquireChunk(k)
	return p.carve(chunk, k, size, alignment)
}

// Realloc resizes the block at ptr to size bytes.
func (p *Pool) Realloc(ptr unsafe.Pointer, size int) unsafe.Pointer {
	if ptr == nil {
		return p.Alloc(size, layout.HeaderAlign)
	}
	if size <= 0 {
		p.Free(ptr)
		return nil
	}

	hdr := layout.HeaderFor(ptr)
	oldSize, alignment := hdr.Size, hdr.Alignment
	kOld := bucketIndex(oldSize, alignment)
	kNew := bucketIndex(size, alignment)

	if kNew <= kOld {
		hdr.Size = size
		return ptr
	}

	newPtr := p.Alloc(size, alignment)
	copy(unsafe.Slice((*byte)(newPtr), oldSize), unsafe.Slice((*byte)(ptr), oldSize))
	p.Free(ptr)
	return newPtr
}

// Free releases a block previously returned by Alloc or Realloc.
func (p *Pool) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	hdr := layout.HeaderFor(ptr)
	k := bucketIndex(hdr.Size, hdr.Alignment)
	chunk := chunkStart(ptr, hdr)
	p.releaseChunk(k, chunk)
}

// acquireChunk pops a raw chunk from bucket k's free-list, or draws a fresh
// one from the backing arena when the free-list is empty.
func (p *Pool) acquireChunk(k int) unsafe.Pointer {
	b := &p.buckets[k]
	for {
		pair := b.head.Load()
		if pair.Ptr == nil {
			raw := p.backing.Alloc(b.blockBytes, layout.HeaderAlign)
			b.stats.totalBlocks.Add(1)
			b.stats.usedBlocks.Add(1)
			return raw
		}
		if b.head.Store(pair, pair.Ptr.next) {
			b.stats.usedBlocks.Add(1)
			return unsafe.Pointer(pair.Ptr)
		}
	}
}

// releaseChunk pushes a raw chunk back onto bucket k's free-list.
func (p *Pool) releaseChunk(k int, chunk unsafe.Pointer) {
	b := &p.buckets[k]
	node := (*freeNode)(chunk)
	for {
		pair := b.head.Load()
		node.next = pair.Ptr
		if b.head.Store(pair, node) {
			b.stats.usedBlocks.Add(-1)
			return
		}
	}
}

// carve lays out a header + payload for (size, alignment) at the start of a
// raw chunk, exactly as PlaceHeader(0, ...) would have when the chunk was
// first drawn from the arena — this determinism is what lets Free recover
// the chunk's start address from nothing but the header it finds.
func (p *Pool) carve(chunk unsafe.Pointer, k int, size, alignment int) unsafe.Pointer {
	headerOffset, payloadOffset, _ := layout.PlaceHeader(0, size, alignment)
	hdr := (*layout.Header)(unsafe.Add(chunk, headerOffset))
	hdr.Size = size
	hdr.Alignment = alignment
	return unsafe.Add(chunk, payloadOffset)
}

// chunkStart recovers a raw chunk's start address from a live payload
// pointer and its header, by re-running the same deterministic placement
// formula carve used to build it.
func chunkStart(payload unsafe.Pointer, hdr *layout.Header) unsafe.Pointer {
	headerOffset, _, _ := layout.PlaceHeader(0, hdr.Size, hdr.Alignment)
	return unsafe.Add(unsafe.Pointer(hdr), -headerOffset)
}

// BucketStat is a read-only snapshot of one bucket's census, exposed for
// debugcensus.
type BucketStat struct {
	BlockSize   int
	TotalBlocks int64
	UsedBlocks  int64
}

// Census returns a snapshot of every bucket's debug statistics.
func (p *Pool) Census() []BucketStat {
	out := make([]BucketStat, numBuckets)
	for k := range p.buckets {
		out[k] = BucketStat{
			BlockSize:   p.buckets[k].stats.blockSize,
			TotalBlocks: p.buckets[k].stats.totalBlocks.Load(),
			UsedBlocks:  p.buckets[k].stats.usedBlocks.Load(),
		}
	}
	return out
}
