//go:build riscv64

package mm

const (
	// PageShift is log2(PageSize); used to convert a byte address to a
	// page number and back.
	PageShift = uintptr(12)

	// PageSize is the system's page size in bytes.
	PageSize = uintptr(1 << PageShift)

	// PageItemCount is the number of entries in a single page-table
	// level on Sv39 (512 9-bit-indexed entries per table).
	PageItemCount = 512

	// PageLevels is the number of page-table levels Sv39 walks: L2, L1,
	// L0.
	PageLevels = 3

	// SATPMode is the SATP.MODE value selecting Sv39 translation.
	SATPMode = uintptr(8)

	// VirtAddrStart is the high-half base under which every physical
	// address is linearly remapped (the direct map).
	VirtAddrStart = uintptr(0xffff_ffc0_0000_0000)

	// VirtAddrStartMask strips the high-half bits, turning a direct-map
	// virtual address back into a physical one.
	VirtAddrStartMask = ^VirtAddrStart
)
