// Package memoryset is a virtual address space: a page table plus the
// ordered collection of mapped ranges (MapAreas) that describe what is
// mapped into it and who owns the backing frames.
package memoryset

import (
	"sv39kernel/kernel"
	"sv39kernel/kernel/mm"
	"sv39kernel/kernel/mm/pmm"
	"sv39kernel/kernel/mm/vmm"
)

// MapType selects how a MapArea's VPNs relate to physical frames.
type MapType int

const (
	// MapIdentity maps VPN to PPN by a fixed linear offset (the PPN is the
	// VPN with the direct map's high-half bits stripped), used for the
	// kernel's own high-half
	// window over physical memory. No FrameTracker is owned per page.
	MapIdentity MapType = iota
	// MapFramed backs each VPN with a freshly allocated physical frame,
	// tracked individually so the area can release them on unmap.
	MapFramed
)

// MapArea is a contiguous VPN range mapped with one permission set and one
// map type. Every VPN in Range has a live leaf PTE in the owning
// MemorySet's PageTable for as long as the area is mapped.
type MapArea struct {
	Range   mm.VPNRange
	Flags   vmm.MappingFlags
	MapType MapType

	// frames holds one FrameTracker per VPN for MapFramed areas, keyed by
	// page number; empty for MapIdentity areas, which own no frames.
	frames map[mm.Page]*pmm.FrameTracker
}

// NewMapArea builds an unmapped area description; call MemorySet.Map or
// MemorySet.InsertFramedArea to actually install it into a page table.
func NewMapArea(start, end mm.Page, flags vmm.MappingFlags, mapType MapType) *MapArea {
	return &MapArea{
		Range:   mm.NewVPNRange(start, end),
		Flags:   flags,
		MapType: mapType,
		frames:  make(map[mm.Page]*pmm.FrameTracker),
	}
}

// MemorySet owns one PageTable and the disjoint MapAreas installed into it.
// A kernel image has exactly one (the boot-time kernel space); every process
// gets its own.
type MemorySet struct {
	pt    *vmm.PageTable
	areas []*MapArea
}

// New allocates a fresh, empty address space (just the kernel's own
// direct-map/trampoline entries from PageTable.restore, no MapAreas yet).
func New() *MemorySet {
	return &MemorySet{pt: vmm.AllocPageTable()}
}

// mapArea installs every page of area into ms's page table, allocating a fresh
// frame per page for MapFramed areas.
func (ms *MemorySet) mapArea(area *MapArea) {
	for _, vpn := range area.Range.Pages() {
		switch area.MapType {
		case MapIdentity:
			// The linear VPN-to-PPN offset is the kernel's direct map:
			// recovering the frame is exactly undoing VirtAddr.DirectMap.
			ppn := vpn.ToAddr().ToPhys().Floor()
			ms.pt.Map(ppn, vpn, area.Flags, 3)
		case MapFramed:
			tr, ok := pmm.NewFrameTracker()
			if !ok {
				kernel.Panic(&kernel.Error{Module: "memoryset", Message: "out of physical frames while mapping area"})
			}
			area.frames[vpn] = tr
			ms.pt.Map(tr.Frame, vpn, area.Flags, 3)
		}
	}
}

// unmapArea clears every page of area from ms's page table and releases any
// FrameTrackers it owned.
func (ms *MemorySet) unmapArea(area *MapArea) {
	for _, vpn := range area.Range.Pages() {
		ms.pt.Unmap(vpn)
		if tr, ok := area.frames[vpn]; ok {
			tr.Release()
			delete(area.frames, vpn)
		}
	}
}

// Map installs area into this address space and records it.
func (ms *MemorySet) Map(area *MapArea) {
	ms.mapArea(area)
	ms.areas = append(ms.areas, area)
}

// InsertFramedArea is the common case of Map: build a MapFramed area over
// [start, end) with the given permissions and install it.
func (ms *MemorySet) InsertFramedArea(start, end mm.Page, flags vmm.MappingFlags) *MapArea {
	area := NewMapArea(start, end, flags, MapFramed)
	ms.Map(area)
	return area
}

// RemoveAreaWithStartVPN unmaps and drops the area beginning at start, if
// one is tracked. It is a no-op if no such area exists.
func (ms *MemorySet) RemoveAreaWithStartVPN(start mm.Page) {
	for i, area := range ms.areas {
		if area.Range.Start() != start {
			continue
		}
		ms.unmapArea(area)
		ms.areas = append(ms.areas[:i], ms.areas[i+1:]...)
		return
	}
}

// Token returns the SATP value for this address space's page table.
func (ms *MemorySet) Token() uintptr {
	return ms.pt.GetSATP()
}

// Activate installs this address space as the one running on the current
// hart.
func (ms *MemorySet) Activate() {
	ms.pt.Change()
}

// Destroy releases every owned frame: page-table (interior) frames first,
// via the PageTable's own reclaim, then every MapFramed area's data frames.
// This is the Go analogue of the original MemorySet's Drop, and like
// PageTable.Destroy must be called explicitly exactly once.
func (ms *MemorySet) Destroy() {
	ms.pt.Destroy()
	for _, area := range ms.areas {
		for vpn, tr := range area.frames {
			tr.Release()
			delete(area.frames, vpn)
		}
	}
	ms.areas = nil
}
