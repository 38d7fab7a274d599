//go:build riscv64

package vmm

// Fixed L2 entries every page table's restore() installs so the kernel can
// keep running through a switch into any address space: a 3 GiB identity
// window over low physical memory (covering the platforms this kernel
// targets) plus the trap trampoline page. Indices are VPN[2] values, i.e.
// bits [38:30] of the virtual address they each cover a 1 GiB region of.
const (
	directMapL2IndexLow  = 0x100 // identity-maps PA 0x0000_0000
	directMapL2IndexMid  = 0x101 // identity-maps PA 0x4000_0000
	directMapL2IndexHigh = 0x102 // identity-maps PA 0x8000_0000
	trapTrampolineL2Index = 0x104
	directMapL2IndexExtra  = 0x106 // identity-maps PA 0x8000_0000 again, a second window some boot ROMs need mapped at a distinct VA
)

// reservedL2Start is the first L2 index the kernel direct map owns; indices
// 0 up to, but not including, this one are left for MemorySet-owned
// mappings.
const reservedL2Start = directMapL2IndexLow
