// Package cpu declares the architecture primitives the memory-management
// core needs from the MMU and the interrupt controller. Each function is
// declared without a Go body in an arch-tagged file; a real kernel build
// supplies the implementation in the matching arch-tagged assembly file.
//
// The riscv64 (Sv39) back-end is the one this repository fully specifies;
// the amd64 file exists so architecture-independent packages (kernel/mm,
// kernel/mm/pmm) still build under GOARCH=amd64, per spec.md's acknowledged
// secondary target.
package cpu
