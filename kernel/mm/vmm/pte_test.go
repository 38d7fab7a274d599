package vmm

import (
	"testing"

	"sv39kernel/kernel/mm"
)

func TestPTEFromFrameRoundTripsPPN(t *testing.T) {
	f := mm.Frame(0xabcde)
	p := PTEFromFrame(f, PTEFlagV|PTEFlagR)
	if p.ToFrame() != f {
		t.Errorf("ToFrame: got %#x, want %#x", p.ToFrame(), f)
	}
}

func TestPTEReadImpliesAccessed(t *testing.T) {
	p := PTEFromFrame(mm.Frame(1), PTEFlagV|PTEFlagR)
	if p.Flags()&PTEFlagA == 0 {
		t.Errorf("expected R to imply A auto-set")
	}
	if p.Flags()&PTEFlagD != 0 {
		t.Errorf("expected R alone to not imply D")
	}
}

func TestPTEWriteImpliesDirty(t *testing.T) {
	p := PTEFromFrame(mm.Frame(1), PTEFlagV|PTEFlagW)
	if p.Flags()&PTEFlagD == 0 {
		t.Errorf("expected W to imply D auto-set")
	}
}

func TestPTEIsValid(t *testing.T) {
	if NewPTE().IsValid() {
		t.Errorf("zero PTE must not be valid")
	}
	if !PTEFromFrame(mm.Frame(1), PTEFlagV).IsValid() {
		t.Errorf("PTE with V set must be valid")
	}
}

func TestPTEHugeVsLeaf(t *testing.T) {
	terminal := PTEFromFrame(mm.Frame(1), PTEFlagV|PTEFlagR)
	if !terminal.IsHuge() {
		t.Errorf("entry with V and R set should report IsHuge()")
	}
	if terminal.IsLeaf() {
		t.Errorf("entry with V and R set should not report IsLeaf() (pointer-only)")
	}

	pointerOnly := PTEFromFrame(mm.Frame(1), PTEFlagV)
	if pointerOnly.IsHuge() {
		t.Errorf("entry with only V set should not report IsHuge()")
	}
	if !pointerOnly.IsLeaf() {
		t.Errorf("entry with only V set should report IsLeaf() (pointer-only)")
	}
}

func TestFromMappingFlagsTranslatesPermissions(t *testing.T) {
	got := fromMappingFlags(FlagR | FlagW | FlagU)
	if got&PTEFlagV == 0 {
		t.Errorf("expected V to be set for any non-None mapping")
	}
	if got&PTEFlagR == 0 || got&PTEFlagW == 0 || got&PTEFlagU == 0 {
		t.Errorf("expected R, W, U bits to carry through, got %#x", got)
	}
	if got&PTEFlagX != 0 {
		t.Errorf("expected X to not be set when not requested")
	}
}

func TestFromMappingFlagsNoneIsZero(t *testing.T) {
	if fromMappingFlags(FlagNone) != PTEFlagNone {
		t.Errorf("expected FlagNone to translate to PTEFlagNone")
	}
}
