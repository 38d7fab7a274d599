package sync

import "testing"

// fakeInterruptState stands in for the real SIE bit so these tests don't
// execute privileged csrsi/csrrci instructions on a hosted GOOS/GOARCH.
func installFakeInterruptState(t *testing.T) {
	t.Helper()
	enabled := true
	origDisable, origEnable := DisableInterruptsFn, EnableInterruptsFn
	DisableInterruptsFn = func() bool {
		was := enabled
		enabled = false
		return was
	}
	EnableInterruptsFn = func() { enabled = true }
	t.Cleanup(func() {
		DisableInterruptsFn = origDisable
		EnableInterruptsFn = origEnable
	})
}

func TestAcquireGivesExclusiveValueAccess(t *testing.T) {
	installFakeInterruptState(t)
	cell := NewIRQFreeCell(42)

	g := cell.Acquire()
	if *g.Value() != 42 {
		t.Fatalf("expected initial value 42, got %d", *g.Value())
	}
	*g.Value() = 7
	g.Release()

	g2 := cell.Acquire()
	defer g2.Release()
	if *g2.Value() != 7 {
		t.Errorf("expected mutation through the first guard to persist, got %d", *g2.Value())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	installFakeInterruptState(t)
	cell := NewIRQFreeCell("x")
	g := cell.Acquire()
	g.Release()
	g.Release() // must not panic or double-restore interrupt state
}
