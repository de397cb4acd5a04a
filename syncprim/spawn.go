package syncprim

import (
	"sync"

	"github.com/google/uuid"
)

// trampolinePool recycles trampoline records the way the source library
// recycles them from its pool allocator — except here the record is kept on
// the Go heap via sync.Pool (the same technique the metadata package in this
// codebase's teacher uses for its own block records) rather than off-heap,
// because a trampoline holds a Go closure and an any, both of which may
// contain GC-managed pointers that an off-heap byte arena cannot keep alive.
var trampolinePool = sync.Pool{
	New: func() any { return &trampoline{} },
}

type trampoline struct {
	fn  func(any)
	arg any
	id  uuid.UUID
}

// Spawn launches fn(arg) on a new, detached goroutine standing in for this
// module's "thread spawn" primitive. The trampoline record is taken from a
// recycling pool and returned to it before fn runs, mirroring the source
// library's "the record is freed by the trampoline before invoking the user
// function" contract. The assigned id has no behavioral effect; it exists
// so logs emitted from within fn can be correlated back to a specific spawn
// call.
func Spawn(fn func(any), arg any) uuid.UUID {
	tr := trampolinePool.Get().(*trampoline)
	tr.fn = fn
	tr.arg = arg
	tr.id = uuid.New()
	id := tr.id

	go func(tr *trampoline) {
		f, a := tr.fn, tr.arg
		tr.fn, tr.arg = nil, nil
		trampolinePool.Put(tr)
		f(a)
	}(tr)

	return id
}
