package memoryset

import (
	"bytes"
	"debug/elf"

	"sv39kernel/kernel"
	"sv39kernel/kernel/mm"
	"sv39kernel/kernel/mm/vmm"
)

// Layout constants for every user address space FromELF builds: the
// trap-context save area is the last page of the 27-bit Sv39 VPN space, and
// the user stack sits directly above the highest loaded segment with one
// unmapped guard page between them. The trap trampoline is not part of this
// layout; PageTable.restore installs it as an L2 entry in every table.
// spec.md does not fix the exact addresses, only that these regions exist
// (§4.5).
const (
	// TrapContextPage is the last page of user virtual address space,
	// holding the saved register file across a trap.
	TrapContextPage = mm.Page((uintptr(1) << 27) - 1)

	userStackSize = 4096 * 8
)

// LoadedProgram is the result of parsing an ELF image into a fresh address
// space: the areas from_elf created plus the bookkeeping a task needs to
// start running it.
type LoadedProgram struct {
	MemorySet  *MemorySet
	EntryPoint mm.VirtAddr
	UserStackTop mm.VirtAddr
	TrapContext  mm.Page
}

var errBadELF = &kernel.Error{Module: "memoryset", Message: "malformed ELF image"}

// FromELF parses an ELF binary's PT_LOAD segments into framed MapAreas with
// permissions derived from each segment's flags, copies the segment payload
// into the freshly mapped pages, and additionally maps a guarded user stack
// and a trap-context page near the top of user address space.
func FromELF(raw []byte) *LoadedProgram {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		kernel.Panic(errBadELF)
	}

	ms := New()
	maxEnd := mm.Page(0)

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		start := mm.VirtAddr(prog.Vaddr).Floor()
		end := mm.VirtAddr(prog.Vaddr + prog.Memsz).Ceil()

		flags := vmm.FlagU
		if prog.Flags&elf.PF_R != 0 {
			flags |= vmm.FlagR
		}
		if prog.Flags&elf.PF_W != 0 {
			flags |= vmm.FlagW
		}
		if prog.Flags&elf.PF_X != 0 {
			flags |= vmm.FlagX
		}

		area := ms.InsertFramedArea(start, end, flags)
		copySegmentInto(area, mm.VirtAddr(prog.Vaddr), raw, prog)

		if end > maxEnd {
			maxEnd = end
		}
	}

	stackBottom := maxEnd + 1 // one guard page below the user stack
	stackTop := stackBottom + mm.Page(userStackSize/int(mm.PageSize))
	ms.InsertFramedArea(stackBottom, stackTop, vmm.FlagR|vmm.FlagW|vmm.FlagU)

	ms.InsertFramedArea(TrapContextPage, TrapContextPage+1, vmm.FlagR|vmm.FlagW)

	return &LoadedProgram{
		MemorySet:    ms,
		EntryPoint:   mm.VirtAddr(f.Entry),
		UserStackTop: stackTop.ToAddr(),
		TrapContext:  TrapContextPage,
	}
}

// copySegmentInto reads prog's file-backed bytes out of raw and writes them,
// byte by byte, into the frames InsertFramedArea just allocated for area —
// memsz may exceed filesz (the remainder, e.g. .bss, is left zeroed, since
// FrameTracker zeroes every page it allocates).
func copySegmentInto(area *MapArea, segStart mm.VirtAddr, raw []byte, prog *elf.Prog) {
	if prog.Filesz == 0 {
		return
	}
	data := raw[prog.Off : prog.Off+prog.Filesz]
	for i, b := range data {
		va := mm.VirtAddr(uintptr(segStart) + uintptr(i))
		tr, ok := area.frames[va.Floor()]
		if !ok {
			continue
		}
		writeFrameByteFn(tr.Frame, va.PageOffset(), b)
	}
}

// writeFrameByteFn pokes one byte into a physical frame through the direct
// map. Swapped out in tests for a fake backed by plain Go memory, the same
// seam frameTableFn is in the vmm package, since the real direct-map
// dereference only resolves to valid memory on an actual kernel boot.
var writeFrameByteFn = func(f mm.Frame, offset uintptr, b byte) {
	f.PageBytes()[offset] = b
}
