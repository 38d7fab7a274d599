package main

import "sv39kernel/kernel"

// main is the sole Go symbol visible to the rt0 initialization code. It
// trampolines into kernel.Kmain and is kept deliberately trivial so the
// linker can't see through it and drop Kmain's body as dead code.
//
// main is not expected to return. If it does, the rt0 code halts the CPU.
func main() {
	kernel.Kmain()
}
