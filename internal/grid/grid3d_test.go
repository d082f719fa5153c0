package grid

import "testing"

func addFloat(a, b float64) float64 { return a + b }

func TestSetAt(t *testing.T) {
	g := New[float64](3, 4)
	g.Set(1, 2, 5.0)
	if got := g.At(1, 2); got != 5.0 {
		t.Errorf("At(1,2): expected 5.0, got %v", got)
	}
	if got := g.At(0, 0); got != 0 {
		t.Errorf("At(0,0) default: expected 0, got %v", got)
	}
}

func TestIncAtCore(t *testing.T) {
	g := New[float64](3, 4)
	g.IncAt(1, 1, 2.0, addFloat)
	g.IncAt(1, 1, 3.0, addFloat)
	if got := g.At(1, 1); got != 5.0 {
		t.Errorf("IncAt accumulation: expected 5.0, got %v", got)
	}
}

func TestIncAtOverlay(t *testing.T) {
	g := New[float64](3, 4)
	// -1 and nr/nz index into the halo ring, not the core.
	g.IncAt(-1, 0, 7.0, addFloat)
	if got := g.At(0, 0); got != 0 {
		t.Errorf("overlay write leaked into core: got %v", got)
	}
	if got := g.At(-1, 0); got != 7.0 {
		t.Errorf("overlay At(-1,0): expected 7.0, got %v", got)
	}
}

func TestFillWritesCoreAndOverlay(t *testing.T) {
	g := New[float64](2, 2)
	g.Fill(9.0)
	for i := -1; i <= 2; i++ {
		for j := -1; j <= 2; j++ {
			if got := g.At(i, j); got != 9.0 {
				t.Errorf("Fill: At(%d,%d) = %v, expected 9.0", i, j, got)
			}
		}
	}
}

func TestOverlaySetLeavesCoreIntact(t *testing.T) {
	g := New[float64](2, 2)
	g.Fill(1.0)
	g.OverlaySet(0.0)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if got := g.At(i, j); got != 1.0 {
				t.Errorf("OverlaySet touched core at (%d,%d): got %v", i, j, got)
			}
		}
	}
	if got := g.At(-1, 0); got != 0.0 {
		t.Errorf("OverlaySet: halo not reset, got %v", got)
	}
	if got := g.At(2, 1); got != 0.0 {
		t.Errorf("OverlaySet: halo not reset, got %v", got)
	}
}
