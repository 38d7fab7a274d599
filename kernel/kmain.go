package kernel

import (
	"sv39kernel/kernel/kfmt"
	"sv39kernel/kernel/mm"
	"sv39kernel/kernel/mm/memoryset"
	"sv39kernel/kernel/mm/pmm"
	"sv39kernel/kernel/platform"
)

var errKmainReturned = &Error{Module: "kmain", Message: "Kmain returned"}

// kernelImageEndFrame derives the first frame after the running kernel
// image: ceil(&ekernel & VIRT_ADDR_START_MASK) per spec.md §4.2. The frame
// allocator must never start below this, or it could hand out a frame that
// still holds kernel code or data. platform.KernelSectionsFn reports every
// linker section's virtual bounds; the highest End is &ekernel's
// direct-mapped address.
func kernelImageEndFrame() mm.Frame {
	var highest mm.VirtAddr
	for _, sec := range platform.KernelSectionsFn() {
		if sec.End > highest {
			highest = sec.End
		}
	}
	return highest.ToPhys().Ceil()
}

// HeapInitFn brings up the global kernel heap allocator before any code that
// needs Go-heap-backed types (maps, slices growing past their initial
// capacity) runs. The buddy allocator itself is out of scope for this
// module — a real boot image supplies its own — so the default is a no-op
// rather than a panic: a kernel that never touches the Go heap before
// memoryset.NewKernel can legitimately skip it.
var HeapInitFn = func() {}

// Kmain performs the boot sequence: heap bring-up, physical frame allocator
// seeding, kernel address space construction, and activation of the
// resulting page table. It is not expected to return — wire it as the sole
// Go entry point from rt0 the way the teacher's boot.go does, behind a
// trampoline main() so the linker can't dead-code-eliminate it.
//
//go:noinline
func Kmain() {
	// The sole top-level recover: every programmer-invariant panic raised
	// by pmm/vmm/memoryset below (see DESIGN.md's "Panic vs kernel.Panic")
	// is a plain Go panic specifically so it can be caught here and
	// funneled into Panic's halt-and-report sequence, instead of
	// unwinding into whatever rt0 left on the stack.
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(*Error); ok {
				Panic(err)
			}
			Panic(r)
		}
	}()

	kfmt.Printf("starting kernel\n")

	HeapInitFn()

	// platform.GetTrxMappingFn and the section/MMIO/memory-end queries
	// below are board-specific and must already be wired by a boot shim
	// before Kmain runs — the defaults in kernel/platform panic loudly
	// if that step was skipped.
	platform.FrameAllocPersistFn = pmm.AllocPersist
	platform.FrameUnallocFn = pmm.Unalloc

	memEnd := platform.MemoryEndFn()
	pmm.Init(kernelImageEndFrame(), mm.FrameFromAddr(memEnd))

	ks := memoryset.NewKernel()
	ks.Activate()

	kfmt.Printf("kernel address space active\n")

	// Use Panic instead of panic so the compiler can't treat this as
	// dead code and eliminate Kmain's body.
	Panic(errKmainReturned)
}
