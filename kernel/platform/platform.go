// Package platform is the seam between the architecture-independent page
// table walker and the two things that differ per boot environment: how a
// fresh page-table frame is obtained, and where the trap-handling trampoline
// page (sigtrx) is physically located. The teacher inverts exactly this kind
// of dependency with package-level function variables (activePDTFn,
// switchPDTFn, mapFn in its vmm package) rather than an interface value,
// and kmain.go rebinds these at boot the same way the teacher's Init does.
package platform

import "sv39kernel/kernel/mm"

// FrameAllocPersistFn allocates one frame that the page table walker will
// own (a root table, or an interior table allocated during a walk). The
// default panics so that forgetting to wire this up
// at boot fails loudly instead of silently corrupting page zero.
var FrameAllocPersistFn = func() mm.Frame {
	panic("platform.FrameAllocPersistFn not wired")
}

// FrameUnallocFn releases a frame previously handed out by
// FrameAllocPersistFn. Used by PageTable.Destroy to reclaim interior tables.
var FrameUnallocFn = func(f mm.Frame) {
	panic("platform.FrameUnallocFn not wired")
}

// GetTrxMappingFn returns the physical address of the trap-handling
// trampoline page that every page table's restore() step maps at a fixed
// high virtual address (index 0x104 on Sv39), so a trap taken mid
// address-space-switch can still find its handler code.
var GetTrxMappingFn = func() mm.PhysAddr {
	panic("platform.GetTrxMappingFn not wired")
}

// KernelSection names one linker-provided boundary of the running kernel
// image, e.g. ".text" or ".bss".
type KernelSection struct {
	Name       string
	Start, End mm.VirtAddr
	Readable, Writable, Executable bool
}

// KernelSectionsFn returns the kernel image's own section boundaries, as
// supplied by the linker script, for NewKernel to direct-map with
// section-appropriate permissions. The default panics: this must be wired
// at boot before the kernel address space is built.
var KernelSectionsFn = func() []KernelSection {
	panic("platform.KernelSectionsFn not wired")
}

// MMIOWindow is one device register range the kernel must be able to
// access uncached through its own address space.
type MMIOWindow struct {
	Start, End mm.PhysAddr
}

// MMIOWindowsFn returns the platform's MMIO device windows (UART, PLIC,
// CLINT, etc.) for NewKernel to map alongside the direct map. Empty by
// default — not every boot target has fixed MMIO windows worth listing.
var MMIOWindowsFn = func() []MMIOWindow {
	return nil
}

// MemoryEndFn returns the physical address ceiling of usable RAM, used by
// Kmain as the frame allocator's upper bound.
var MemoryEndFn = func() mm.PhysAddr {
	panic("platform.MemoryEndFn not wired")
}
