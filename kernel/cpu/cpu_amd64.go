//go:build amd64

package cpu

// EnableInterrupts unmasks interrupts on the current core (sti).
func EnableInterrupts()

// DisableInterrupts masks interrupts on the current core (cli) and returns
// whether they were previously enabled.
func DisableInterrupts() (wasEnabled bool)

// Halt stops instruction execution on the current core (hlt, looped).
func Halt()

// WriteSATP installs a new value into CR3, the amd64 analogue of SATP. The
// caller must follow this with a TLB flush before relying on the new
// mapping.
func WriteSATP(satp uintptr)

// ReadSATP returns the value currently held in CR3.
func ReadSATP() uintptr

// FlushTLBEntry invalidates any cached translation for virtAddr (invlpg).
func FlushTLBEntry(virtAddr uintptr)

// FlushTLBAll invalidates every cached translation by reloading CR3.
func FlushTLBAll()
