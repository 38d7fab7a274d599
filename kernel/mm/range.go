package mm

import "sv39kernel/kernel"

// Stepper is any key type that can be advanced one unit at a time. Frame and
// Page both implement it so SimpleRange can iterate either.
type Stepper interface {
	Step() Stepper
}

// Step returns the next page number.
func (p Page) Step() Stepper { return p + 1 }

// Step returns the next frame number.
func (f Frame) Step() Stepper { return f + 1 }

// SimpleRange is a half-open iterable range [l, r) over a Stepper key.
type SimpleRange[T Stepper] struct {
	l, r T
}

// NewSimpleRange builds the range [l, r). It panics if l > r — a caller
// building an inverted range is a programming error, not a runtime fault, so
// this raises a plain Go panic rather than going through kernel.Panic (which
// never returns and so can't be recovered from by callers or tests).
func NewSimpleRange[T Stepper](l, r T, less func(a, b T) bool) SimpleRange[T] {
	if less(r, l) {
		panic(&kernel.Error{Module: "mm", Message: "range start is greater than range end"})
	}
	return SimpleRange[T]{l: l, r: r}
}

// Start returns the inclusive lower bound of the range.
func (s SimpleRange[T]) Start() T { return s.l }

// End returns the exclusive upper bound of the range.
func (s SimpleRange[T]) End() T { return s.r }

// VPNRange is a SimpleRange instantiated over Page (virtual page numbers).
// It must be a defined type embedding SimpleRange[Page] rather than a type
// alias: Go forbids declaring new methods (Pages, Len below) on an alias of
// an instantiated generic type. Embedding keeps Start/End promoted from
// SimpleRange[Page] for free.
type VPNRange struct {
	SimpleRange[Page]
}

// NewVPNRange builds a VPNRange, panicking if l > r.
func NewVPNRange(l, r Page) VPNRange {
	return VPNRange{NewSimpleRange(l, r, func(a, b Page) bool { return a < b })}
}

// Pages returns every page number in the range, in increasing order. It is
// the Go equivalent of the range's Rust IntoIterator impl — called out
// explicitly since Go has no generic iterator protocol as convenient as
// Rust's for a half-open countable range.
func (s VPNRange) Pages() []Page {
	out := make([]Page, 0, int(s.r-s.l))
	for v := s.l; v != s.r; v++ {
		out = append(out, v)
	}
	return out
}

// Len returns the number of pages in the range.
func (s VPNRange) Len() int { return int(s.r - s.l) }
