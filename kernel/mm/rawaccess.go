package mm

import "unsafe"

// PageBytes returns the 4 KiB page contents backing physical frame f, read
// through the kernel's direct map. The caller must guarantee f is actually
// backed by memory and that the returned slice is not aliased mutably from
// another hart while in use — the core gives no further protection here.
func (f Frame) PageBytes() []byte {
	addr := f.DirectMap().Addr()
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), PageSize)
}

// AsPTETable reinterprets the page backing physical frame f as a table of
// n machine words, used by the page-table walker to read and write page
// table entries through the direct map. The caller must guarantee f holds
// a page-table page.
func (f Frame) AsPTETable() []uintptr {
	addr := f.DirectMap().Addr()
	return unsafe.Slice((*uintptr)(unsafe.Pointer(addr)), PageItemCount)
}

// Zero clears the entire page backing physical frame f.
func (f Frame) Zero() {
	buf := f.PageBytes()
	for i := range buf {
		buf[i] = 0
	}
}
