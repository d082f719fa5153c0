package current

import (
	"math"
	"testing"

	"picopic-go/internal/geometry"
	"picopic-go/internal/particle"
)

func testGeom(t *testing.T) *geometry.Geometry {
	t.Helper()
	g, err := geometry.New(1.0, 1.0, 0, 10, 0, 10, 10, 10, geometry.PML{}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	return g
}

func TestDepositNoMotionIsNoOp(t *testing.T) {
	g := testGeom(t)
	c := New(g, 1e-12)
	p := &particle.Particle{R: 0.55, Z: 0.55, ROld: 0.55, ZOld: 0.55, Charge: -1.6e-19, Alive: true}

	if err := c.Deposit(p); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	for i := 0; i < g.RGridAmount; i++ {
		for j := 0; j < g.ZGridAmount; j++ {
			v := c.J.At(i, j)
			if v.R != 0 || v.Z != 0 {
				t.Fatalf("expected no deposition for a stationary particle, got %+v at (%d,%d)", v, i, j)
			}
		}
	}
}

func TestDepositNegativeCellIsFatal(t *testing.T) {
	g := testGeom(t)
	c := New(g, 1e-12)
	p := &particle.Particle{R: -0.1, Z: 0.5, ROld: -0.2, ZOld: 0.4, Charge: -1.6e-19, Alive: true}

	if err := c.Deposit(p); err == nil {
		t.Fatalf("expected OutOfDomainError for negative cell index")
	}
}

// TestStrictMotionRadialCrossing exercises the res_cell=1 strict-motion
// path from scenario E6: a radial trajectory crossing r=dr with z
// unchanged should deposit a finite, nonzero total j_r across its nodes.
func TestStrictMotionRadialCrossing(t *testing.T) {
	g := testGeom(t)
	dt := 1e-12
	c := New(g, dt)

	rOld := 0.95 * g.DR
	rNew := 1.05 * g.DR
	z := 0.55

	p := &particle.Particle{R: rNew, Z: z, ROld: rOld, ZOld: z, Charge: -1.6e-19, Alive: true}
	if err := c.Deposit(p); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	var total float64
	for i := 0; i < g.RGridAmount; i++ {
		for j := 0; j < g.ZGridAmount; j++ {
			total += c.J.At(i, j).R
		}
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		t.Fatalf("deposited j_r diverged: %v", total)
	}
	if total == 0 {
		t.Errorf("expected nonzero total j_r for a radial boundary crossing")
	}
}

func TestDepositAzimuthalWeightsFourNodes(t *testing.T) {
	g := testGeom(t)
	c := New(g, 1e-12)
	p := &particle.Particle{R: 0.55, Z: 0.55, VPhi: 1e6, Charge: -1.6e-19, Alive: true}

	if err := c.DepositAzimuthal(p); err != nil {
		t.Fatalf("DepositAzimuthal: %v", err)
	}

	rI := geometry.CellNumber(p.R, g.DR)
	zK := geometry.CellNumber(p.Z, g.DZ)
	touched := []struct{ i, k int }{{rI, zK}, {rI + 1, zK}, {rI, zK + 1}, {rI + 1, zK + 1}}
	for _, n := range touched {
		if c.J.At(n.i, n.k).Phi == 0 {
			t.Errorf("expected nonzero j_phi at node (%d,%d)", n.i, n.k)
		}
	}
}
