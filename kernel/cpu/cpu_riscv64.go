//go:build riscv64

package cpu

// EnableInterrupts unmasks interrupts on the current hart.
func EnableInterrupts()

// DisableInterrupts masks interrupts on the current hart and returns
// whether they were previously enabled.
func DisableInterrupts() (wasEnabled bool)

// Halt stops instruction execution on the current hart.
func Halt()

// WriteSATP installs a new value into the SATP register. The caller must
// follow this with a TLB flush before relying on the new mapping.
func WriteSATP(satp uintptr)

// ReadSATP returns the value currently held in SATP.
func ReadSATP() uintptr

// FlushTLBEntry invalidates any cached translation for virtAddr
// (sfence.vma virtAddr, x0).
func FlushTLBEntry(virtAddr uintptr)

// FlushTLBAll invalidates every cached translation on the current hart
// (sfence.vma with no operands).
func FlushTLBAll()
