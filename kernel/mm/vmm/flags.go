package vmm

// MappingFlags are the architecture-independent permission bits a caller of
// PageTable.Map asks for; PTEFlags below is the Sv39-specific encoding they
// translate to.
type MappingFlags uint8

const (
	FlagNone MappingFlags = 0
	FlagR    MappingFlags = 1 << 0
	FlagW    MappingFlags = 1 << 1
	FlagX    MappingFlags = 1 << 2
	FlagU    MappingFlags = 1 << 3
	FlagA    MappingFlags = 1 << 4
	FlagD    MappingFlags = 1 << 5
)

// Contains reports whether f has every bit set in want.
func (f MappingFlags) Contains(want MappingFlags) bool { return f&want == want }

// PTEFlags are the literal Sv39 PTE low-byte bits (table 4.4 of the RISC-V
// privileged spec): V R W X U G A D occupying bits [7:0] in that order.
type PTEFlags uint64

const (
	PTEFlagNone PTEFlags = 0
	PTEFlagV    PTEFlags = 1 << 0
	PTEFlagR    PTEFlags = 1 << 1
	PTEFlagW    PTEFlags = 1 << 2
	PTEFlagX    PTEFlags = 1 << 3
	PTEFlagU    PTEFlags = 1 << 4
	PTEFlagG    PTEFlags = 1 << 5
	PTEFlagA    PTEFlags = 1 << 6
	PTEFlagD    PTEFlags = 1 << 7

	// PTEFlagsDirectMap is the fixed flag set the direct map's leaf
	// entries use: global, valid, and fully readable/writable/
	// executable, with A/D pre-set since the direct map is never
	// faulted on demand.
	PTEFlagsDirectMap = PTEFlagG | PTEFlagA | PTEFlagD | PTEFlagV | PTEFlagR | PTEFlagW | PTEFlagX
)

// fromMappingFlags translates the architecture-independent permission bits
// into their Sv39 PTE encoding, setting V unless the caller asked for no
// permissions at all (an unmapped placeholder entry).
func fromMappingFlags(f MappingFlags) PTEFlags {
	if f == FlagNone {
		return PTEFlagNone
	}
	out := PTEFlagV
	if f.Contains(FlagR) {
		out |= PTEFlagR
	}
	if f.Contains(FlagW) {
		out |= PTEFlagW
	}
	if f.Contains(FlagX) {
		out |= PTEFlagX
	}
	if f.Contains(FlagU) {
		out |= PTEFlagU
	}
	if f.Contains(FlagA) {
		out |= PTEFlagA
	}
	if f.Contains(FlagD) {
		out |= PTEFlagD
	}
	return out
}
