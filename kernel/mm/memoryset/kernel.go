package memoryset

import (
	"sv39kernel/kernel/platform"
	"sv39kernel/kernel/mm/vmm"
)

// NewKernel builds the kernel's own address space: an identity map of every
// linker-reported section with permissions derived from its R/W/X flags,
// plus the platform's MMIO windows. platform.MemoryEndFn is not consulted;
// the rest of physical memory is reachable only through the 1 GiB direct-map
// entries PageTable.restore installs. Called exactly once at boot.
func NewKernel() *MemorySet {
	ms := New()

	for _, sec := range platform.KernelSectionsFn() {
		flags := vmm.MappingFlags(0)
		if sec.Readable {
			flags |= vmm.FlagR
		}
		if sec.Writable {
			flags |= vmm.FlagW
		}
		if sec.Executable {
			flags |= vmm.FlagX
		}
		ms.Map(NewMapArea(sec.Start.Floor(), sec.End.Ceil(), flags, MapIdentity))
	}

	for _, mmio := range platform.MMIOWindowsFn() {
		start := mmio.Start.DirectMap()
		end := mmio.End.DirectMap()
		ms.Map(NewMapArea(start.Floor(), end.Ceil(), vmm.FlagR|vmm.FlagW, MapIdentity))
	}

	return ms
}
