package mm

import "testing"

func TestVPNRangeIteratesHalfOpen(t *testing.T) {
	r := NewVPNRange(Page(10), Page(13))
	got := r.Pages()
	want := []Page{10, 11, 12}
	if len(got) != len(want) {
		t.Fatalf("got %d pages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestVPNRangeEmptyWhenEqual(t *testing.T) {
	r := NewVPNRange(Page(5), Page(5))
	if r.Len() != 0 {
		t.Errorf("expected empty range, got length %d", r.Len())
	}
}

func TestVPNRangePanicsWhenInverted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected NewVPNRange(r, l) with r > l reversed to panic")
		}
	}()
	NewVPNRange(Page(5), Page(2))
}

func TestVPNRangeStartEnd(t *testing.T) {
	r := NewVPNRange(Page(4), Page(9))
	if r.Start() != Page(4) || r.End() != Page(9) {
		t.Errorf("Start/End: got [%d, %d), want [4, 9)", r.Start(), r.End())
	}
}
