package vmm

import "sv39kernel/kernel/mm"

// PTE is one raw Sv39 page table entry: bits [9:0] flags, [53:10] the
// 44-bit physical page number of what it points at, [63:54] reserved.
type PTE uintptr

const ppnShift = 10
const ppnMask = (uintptr(1) << 44) - 1

// NewPTE returns the zero (invalid) entry.
func NewPTE() PTE { return PTE(0) }

// PTEFromFrame builds a leaf or interior entry pointing at frame f with the
// given flags. R/X implies A (the page is assumed already accessed); W
// implies D (assumed already dirtied) — software page tables on Sv39 must
// pre-set A/D themselves since this kernel does not implement the hardware
// A/D-update extension, mirroring the original's from_ppn.
func PTEFromFrame(f mm.Frame, flags PTEFlags) PTE {
	if flags&(PTEFlagR|PTEFlagX) != 0 {
		flags |= PTEFlagA
	}
	if flags&PTEFlagW != 0 {
		flags |= PTEFlagD
	}
	return PTE(uintptr(f)<<ppnShift | uintptr(flags))
}

// ToFrame returns the physical page number this entry points at.
func (p PTE) ToFrame() mm.Frame {
	return mm.Frame((uintptr(p) >> ppnShift) & ppnMask)
}

// Flags returns the low-byte flag bits (V R W X U G A D).
func (p PTE) Flags() PTEFlags {
	return PTEFlags(p) & 0xff
}

// IsValid reports whether V is set and the entry is not merely the
// zero/reserved pattern.
func (p PTE) IsValid() bool {
	return p.Flags()&PTEFlagV != 0 && uintptr(p) > 0xff
}

// IsHuge reports whether the entry is valid and terminal (at least one of
// R/W/X set). It does not know the entry's level: an ordinary 4 KiB leaf at
// L0 reports true as well, and only a caller that found the entry at L2 or
// L1 can read it as a huge page.
func (p PTE) IsHuge() bool {
	f := p.Flags()
	return f&PTEFlagV != 0 && (f&(PTEFlagR|PTEFlagW|PTEFlagX) != 0)
}

// IsLeaf reports whether the entry is valid and non-terminal at this level
// (no R/W/X set), i.e. it points at the next table down rather than at data.
func (p PTE) IsLeaf() bool {
	f := p.Flags()
	return f&PTEFlagV != 0 && f&(PTEFlagR|PTEFlagW|PTEFlagX) == 0
}
