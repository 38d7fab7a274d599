package pmm

import "sv39kernel/kernel/mm"

// FrameTracker owns one physical frame and zeroes it on construction. Go has
// no destructors, so unlike the Rust original this does not free the frame
// automatically when it goes out of scope — callers must call Release
// explicitly, exactly once, when they are done with the frame.
type FrameTracker struct {
	Frame    mm.Frame
	released bool
}

// ZeroFrameFn performs the zero-on-construct step for NewFrameTracker and
// AllocTrackedMore. It is a direct-map write in production; tests across
// every package that constructs FrameTrackers swap it out for a no-op or a
// fake-memory write, since the real direct-map dereference only resolves to
// valid memory on an actual kernel boot.
var ZeroFrameFn = func(f mm.Frame) { f.Zero() }

// NewFrameTracker allocates a fresh frame, zeroes it, and wraps it.
func NewFrameTracker() (*FrameTracker, bool) {
	f, ok := Alloc()
	if !ok {
		return nil, false
	}
	ZeroFrameFn(f)
	return &FrameTracker{Frame: f}, true
}

// TrackFrame wraps an already-allocated frame without reallocating or
// re-zeroing it, for callers (like the page table walker) that allocated the
// frame themselves and want tracked release semantics.
func TrackFrame(f mm.Frame) *FrameTracker {
	return &FrameTracker{Frame: f}
}

// Release returns the tracked frame to the allocator. Calling Release more
// than once is a no-op, mirroring the idempotent Release on sync.Guard.
func (t *FrameTracker) Release() {
	if t.released {
		return
	}
	t.released = true
	Dealloc(t.Frame)
}

// AllocTrackedMore reserves pages contiguous frames and wraps each in its own
// FrameTracker, zeroing each page — the tracked equivalent of AllocMore.
func AllocTrackedMore(pages int) ([]*FrameTracker, bool) {
	frames, ok := AllocMore(pages)
	if !ok {
		return nil, false
	}
	out := make([]*FrameTracker, len(frames))
	for i, f := range frames {
		ZeroFrameFn(f)
		out[i] = &FrameTracker{Frame: f}
	}
	return out, true
}
