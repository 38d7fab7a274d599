package vmm

import (
	"unsafe"

	"sv39kernel/kernel"
	"sv39kernel/kernel/cpu"
	"sv39kernel/kernel/mm"
	"sv39kernel/kernel/platform"
)

// PageTable is a three-level Sv39 page table, identified by the physical
// frame holding its root (L2) table. Every lookup of an interior table goes
// through the kernel's direct map rather than a recursive self-mapping
// trick, so PageTable itself never needs to be "the currently active" table
// to be walked.
type PageTable struct {
	root mm.Frame
}

// AllocPageTable allocates a fresh root frame through platform.FrameAllocPersistFn
// and installs the kernel's fixed direct-map entries into it.
func AllocPageTable() *PageTable {
	pt := &PageTable{root: platform.FrameAllocPersistFn()}
	pt.restore()
	return pt
}

// FromRoot wraps an already-allocated root frame (used to rehydrate a
// PageTable from a saved SATP value) without re-running restore — the frame
// is assumed to already hold a previously restored table.
func FromRoot(root mm.Frame) *PageTable {
	return &PageTable{root: root}
}

// FrameTableFn resolves a frame to its PTE table contents. It is a direct-map
// dereference in production, and is swapped out in tests for a map-backed
// fake so the walker is exercisable without real physical memory behind the
// direct map — the same testability seam the teacher uses throughout
// kernel/mm/vmm for its own frame/page accesses.
var FrameTableFn = func(f mm.Frame) []uintptr { return f.AsPTETable() }

// ZeroInteriorFrameFn zeroes a freshly allocated interior table frame before
// it is linked in. Same direct-map caveat and test-seam rationale as
// FrameTableFn.
var ZeroInteriorFrameFn = func(f mm.Frame) { f.Zero() }

func (pt *PageTable) tableAt(f mm.Frame) []uintptr {
	return FrameTableFn(f)
}

// restore installs the direct-map identity windows and the trap trampoline
// mapping every page table must carry so the kernel keeps running across an
// address-space switch.
func (pt *PageTable) restore() {
	arr := pt.tableAt(pt.root)
	arr[directMapL2IndexLow] = uintptr(PTEFromFrame(mm.FrameFromAddr(0x0000_0000), PTEFlagsDirectMap))
	arr[directMapL2IndexMid] = uintptr(PTEFromFrame(mm.FrameFromAddr(0x4000_0000), PTEFlagsDirectMap))
	arr[directMapL2IndexHigh] = uintptr(PTEFromFrame(mm.FrameFromAddr(0x8000_0000), PTEFlagsDirectMap))
	arr[trapTrampolineL2Index] = uintptr(PTEFromFrame(mm.FrameFromAddr(platform.GetTrxMappingFn()), PTEFlagV))
	arr[directMapL2IndexExtra] = uintptr(PTEFromFrame(mm.FrameFromAddr(0x8000_0000), PTEFlagsDirectMap))
	for i := 0; i < reservedL2Start; i++ {
		arr[i] = uintptr(NewPTE())
	}
}

// GetSATP returns the value to load into the SATP register to activate this
// table under Sv39, ASID 0.
func (pt *PageTable) GetSATP() uintptr {
	return uintptr(mm.SATPMode)<<60 | uintptr(pt.root)
}

// FromSATP rebuilds a PageTable handle from a previously-captured SATP
// value, extracting the root PPN from its low 44 bits.
func FromSATP(satp uintptr) *PageTable {
	const ppnFieldMask = (uintptr(1) << 44) - 1
	return FromRoot(mm.Frame(satp & ppnFieldMask))
}

// cpuWriteSATPFn/cpuFlushTLBAllFn/cpuFlushTLBEntryFn are swapped out by tests
// so PageTable methods are exercisable on a hosted GOOS/GOARCH, the same
// seam the teacher's vmm package uses for activePDTFn/flushTLBEntryFn.
var cpuWriteSATPFn = cpu.WriteSATP
var cpuFlushTLBAllFn = cpu.FlushTLBAll
var cpuFlushTLBEntryFn = cpu.FlushTLBEntry

// Change installs this table as the active one and flushes the entire TLB.
// It is the architecture hook spec.md calls PageTable.install/flush.
func (pt *PageTable) Change() {
	cpuWriteSATPFn(pt.GetSATP())
	cpuFlushTLBAllFn()
}

var errWalkOffTable = &kernel.Error{Module: "vmm", Message: "page table walk stepped through a non-interior entry"}

// walk returns the three-level PTE slots, in descending level order
// (L2 first), allocating intermediate tables on demand when create is true.
// It mirrors the original's map()/find_pte() loop.
func (pt *PageTable) walk(vpn mm.Page, create bool) []*PTE {
	idx := vpn.Indexes()
	out := make([]*PTE, 0, 3)
	table := pt.tableAt(pt.root)
	for level := 0; level < 3; level++ {
		slot := ptrTo(table, idx[level])
		out = append(out, slot)
		if level == 2 {
			break
		}
		if !slot.IsValid() {
			if !create {
				return out
			}
			child := platform.FrameAllocPersistFn()
			ZeroInteriorFrameFn(child)
			*slot = PTEFromFrame(child, PTEFlagV)
		}
		if slot.IsHuge() {
			panic(errWalkOffTable)
		}
		table = pt.tableAt(slot.ToFrame())
	}
	return out
}

// ptrTo indexes into a raw PTE table slice as a *PTE, staying within the
// slice's own backing array rather than doing separate unsafe arithmetic —
// the slice from Frame.AsPTETable already spans exactly PageItemCount words.
func ptrTo(table []uintptr, index uintptr) *PTE {
	return (*PTE)(unsafe.Pointer(&table[index]))
}

// Map installs a translation from vpn to ppn with the given permissions,
// allocating any missing interior tables along the way. level is accepted
// for forward compatibility with huge-page mapping but is not yet acted on:
// every mapping currently walks all three levels down to a 4 KiB leaf.
func (pt *PageTable) Map(ppn mm.Frame, vpn mm.Page, flags MappingFlags, level int) {
	_ = level
	slots := pt.walk(vpn, true)
	leaf := slots[len(slots)-1]
	*leaf = PTEFromFrame(ppn, fromMappingFlags(flags))
	cpuFlushTLBEntryFn(vpn.ToAddr().Addr())
}

// Unmap clears the translation for vpn, if any. Unmapping a page that was
// never mapped is a silent no-op, matching the original's early return when
// it walks off a missing interior table.
func (pt *PageTable) Unmap(vpn mm.Page) {
	slots := pt.walk(vpn, false)
	if len(slots) < 3 {
		return
	}
	leaf := slots[len(slots)-1]
	if !leaf.IsValid() {
		return
	}
	*leaf = NewPTE()
	cpuFlushTLBEntryFn(vpn.ToAddr().Addr())
}

// Translate returns the leaf PTE mapping vpn, if the full walk down to a
// leaf succeeds.
func (pt *PageTable) Translate(vpn mm.Page) (PTE, bool) {
	slots := pt.walk(vpn, false)
	if len(slots) < 3 {
		return NewPTE(), false
	}
	leaf := slots[len(slots)-1]
	if !leaf.IsValid() {
		return NewPTE(), false
	}
	return *leaf, true
}

// TranslateVA resolves a full virtual address to its physical address,
// preserving the in-page offset.
func (pt *PageTable) TranslateVA(va mm.VirtAddr) (mm.PhysAddr, bool) {
	pte, ok := pt.Translate(va.Floor())
	if !ok {
		return 0, false
	}
	base := pte.ToFrame().ToAddr()
	return mm.PhysAddr(base.Addr() + va.PageOffset()), true
}

// VirtToPhys walks the table honoring huge-page leaves at any level, unlike
// Translate/TranslateVA which only resolve full 4 KiB leaves. It is the Go
// analogue of the original's virt_to_phys, used by code that must cope with
// a direct-map huge entry installed by restore().
func (pt *PageTable) VirtToPhys(vaddr mm.VirtAddr) (mm.PhysAddr, bool) {
	paddr := pt.root.ToAddr()
	idx := vaddr.Floor().Indexes()
	for level := 0; level < 3; level++ {
		table := FrameTableFn(mm.FrameFromAddr(paddr))
		pte := PTE(table[idx[level]])
		if !pte.IsValid() {
			return 0, false
		}
		if pte.IsHuge() {
			shift := uintptr(12 + 9*(2-level))
			hugeOffset := vaddr.Addr() & ((uintptr(1) << shift) - 1)
			return mm.PhysAddr(pte.ToFrame().ToAddr().Addr() | hugeOffset), true
		}
		paddr = pte.ToFrame().ToAddr()
	}
	return mm.PhysAddr(paddr.Addr() | vaddr.PageOffset()), true
}

// Destroy reclaims every interior and leaf frame this table owns, then the
// root frame itself. Go has no Drop, so every owner of a PageTable (only
// MemorySet) must call this explicitly exactly once when the address space
// is torn down.
func (pt *PageTable) Destroy() {
	root := pt.tableAt(pt.root)
	for i := 0; i < reservedL2Start; i++ {
		l1pte := PTE(root[i])
		if !l1pte.IsLeaf() {
			continue
		}
		l1 := FrameTableFn(l1pte.ToFrame())
		for _, raw := range l1 {
			l0pte := PTE(raw)
			if l0pte.IsLeaf() {
				platform.FrameUnallocFn(l0pte.ToFrame())
			}
		}
		platform.FrameUnallocFn(l1pte.ToFrame())
	}
	platform.FrameUnallocFn(pt.root)
}
