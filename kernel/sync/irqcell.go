// Package sync provides the one mutual-exclusion primitive the memory
// management core needs: a cell that grants exclusive access by masking
// interrupts for the duration of the critical section. The kernel is
// single-hart, so this is sufficient — there is no cross-hart contention to
// resolve, only trap handlers that might otherwise run on top of a
// half-updated allocator or page table.
package sync

import "sv39kernel/kernel/cpu"

// DisableInterruptsFn/EnableInterruptsFn are swapped out by tests, in this
// package and any package whose tests reach IRQFreeCell (pmm, and memoryset
// through pmm), so guarded
// code is exercisable on a hosted GOOS/GOARCH — the real privileged
// instructions behind cpu.DisableInterrupts/EnableInterrupts would trap
// outside kernel mode.
var DisableInterruptsFn = cpu.DisableInterrupts
var EnableInterruptsFn = cpu.EnableInterrupts

// IRQFreeCell guards a value of type T by disabling interrupts for the
// duration of each access. Acquiring a cell that is already held is a
// programming error (this kernel has no recursive-lock support) and is not
// detected — the caller is responsible for keeping critical sections short
// and non-reentrant, exactly as the frame allocator does. PageTable methods
// do not go through a cell and leave the interrupt state unchanged.
type IRQFreeCell[T any] struct {
	value T
}

// NewIRQFreeCell wraps value in a new cell.
func NewIRQFreeCell[T any](value T) *IRQFreeCell[T] {
	return &IRQFreeCell[T]{value: value}
}

// Guard is returned by Acquire and gives exclusive, interrupts-masked access
// to the guarded value until Release is called.
type Guard[T any] struct {
	cell       *IRQFreeCell[T]
	wasEnabled bool
	released   bool
}

// Acquire disables interrupts and returns a Guard granting access to the
// cell's value. The caller must call Release exactly once.
func (c *IRQFreeCell[T]) Acquire() *Guard[T] {
	wasEnabled := DisableInterruptsFn()
	return &Guard[T]{cell: c, wasEnabled: wasEnabled}
}

// Value returns a pointer to the guarded value for the lifetime of the
// guard.
func (g *Guard[T]) Value() *T {
	return &g.cell.value
}

// Release restores the interrupt state that was active before the matching
// Acquire. Calling Release more than once is a no-op.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	if g.wasEnabled {
		EnableInterruptsFn()
	}
}
