// Package pmm is the physical frame allocator: a stack-based bump allocator
// with LIFO recycling, guarded by an IRQFreeCell so every allocator call runs
// with interrupts briefly masked. The page table walker in kernel/mm/vmm does
// not use the cell and does not mask interrupts itself.
package pmm

import (
	"sv39kernel/kernel"
	"sv39kernel/kernel/mm"
	"sv39kernel/kernel/sync"
)

// stackAllocator hands out frames from [current, end) and recycles freed
// frames on a LIFO stack, preferring recycled frames over fresh ones so a
// tight alloc/free loop never grows current past what churn alone needs.
type stackAllocator struct {
	current  mm.Frame
	end      mm.Frame
	recycled []mm.Frame
}

func (a *stackAllocator) init(l, r mm.Frame) {
	a.current = l
	a.end = r
	a.recycled = a.recycled[:0]
}

func (a *stackAllocator) alloc() (mm.Frame, bool) {
	if n := len(a.recycled); n > 0 {
		f := a.recycled[n-1]
		a.recycled = a.recycled[:n-1]
		return f, true
	}
	if a.current == a.end {
		return mm.InvalidFrame, false
	}
	f := a.current
	a.current++
	return f, true
}

// allocMore reserves pages consecutive frames out of the bump region only —
// it does not dip into recycled, the same tradeoff the original allocator
// makes so callers that need contiguity never get fresh and recycled frames
// mixed into one "contiguous" answer.
func (a *stackAllocator) allocMore(pages int) ([]mm.Frame, bool) {
	if pages <= 0 {
		return nil, true
	}
	need := mm.Frame(pages)
	if a.current+need >= a.end {
		return nil, false
	}
	out := make([]mm.Frame, pages)
	for i := 0; i < pages; i++ {
		out[i] = a.current + mm.Frame(i)
	}
	a.current += need
	return out, true
}

var errDoubleFree = &kernel.Error{Module: "pmm", Message: "frame freed twice or never allocated"}

// dealloc panics on a double free or a free of a frame this allocator never
// handed out. That is a caller bug, not a hardware fault, so it raises a
// plain Go panic — recoverable by tests and by a future caller's own
// recover(), unlike kernel.Panic which halts unconditionally.
func (a *stackAllocator) dealloc(f mm.Frame) {
	if f >= a.current {
		panic(errDoubleFree)
	}
	for _, r := range a.recycled {
		if r == f {
			panic(errDoubleFree)
		}
	}
	a.recycled = append(a.recycled, f)
}

var allocator = sync.NewIRQFreeCell(stackAllocator{})

// Init seeds the allocator with the free frame range [l, r). It must be
// called exactly once, after the kernel image's own frames have been
// excluded from the range, before any Alloc/Dealloc call.
func Init(l, r mm.Frame) {
	g := allocator.Acquire()
	defer g.Release()
	g.Value().init(l, r)
}

// Alloc reserves a single frame. The returned frame's contents are whatever
// was last in it; callers that need a clean page should go through
// NewFrameTracker or zero it themselves.
func Alloc() (mm.Frame, bool) {
	g := allocator.Acquire()
	defer g.Release()
	return g.Value().alloc()
}

// AllocMore reserves pages physically contiguous frames out of the
// never-recycled region.
func AllocMore(pages int) ([]mm.Frame, bool) {
	g := allocator.Acquire()
	defer g.Release()
	return g.Value().allocMore(pages)
}

// Dealloc returns f to the recycle stack. Freeing a frame that was never
// allocated, or freeing it twice, is a programming error and panics.
func Dealloc(f mm.Frame) {
	g := allocator.Acquire()
	defer g.Release()
	g.Value().dealloc(f)
}

var errFramesExhausted = &kernel.Error{Module: "pmm", Message: "out of physical frames"}

// AllocPersist matches the platform.FrameAllocPersistFn signature: the page
// table walker has no use for an (ok bool) return, since running out of
// frames mid-walk is unrecoverable, so exhaustion panics instead.
func AllocPersist() mm.Frame {
	f, ok := Alloc()
	if !ok {
		panic(errFramesExhausted)
	}
	return f
}

// Unalloc matches the platform.FrameUnallocFn signature used by
// PageTable.Destroy to reclaim interior table frames.
func Unalloc(f mm.Frame) {
	Dealloc(f)
}
