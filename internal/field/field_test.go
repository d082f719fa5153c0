package field

import (
	"math"
	"testing"

	"picopic-go/internal/geometry"
	"picopic-go/internal/grid"
	"picopic-go/internal/vector"
)

func testGeom(t *testing.T) *geometry.Geometry {
	t.Helper()
	g, err := geometry.New(1.0, 1.0, 0, 5, 0, 5, 5, 5, geometry.PML{}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	return g
}

func TestWeightFieldHLeavesZeroFieldAtZero(t *testing.T) {
	g := testGeom(t)
	f := New(g.RGridAmount, g.ZGridAmount)
	f.WeightFieldH(g, 1e-12)

	for i := 0; i < g.RGridAmount; i++ {
		for j := 0; j < g.ZGridAmount; j++ {
			h := f.H.At(i, j)
			if h.R != 0 || h.Phi != 0 || h.Z != 0 {
				t.Fatalf("H should stay zero with zero E, got %+v at (%d,%d)", h, i, j)
			}
		}
	}
}

func TestWeightFieldEAdvancesFromCurrent(t *testing.T) {
	g := testGeom(t)
	f := New(g.RGridAmount, g.ZGridAmount)
	j := grid.New[vector.Vec3](g.RGridAmount, g.ZGridAmount)
	j.Set(2, 2, vector.New(0, 1.0, 0))

	f.WeightFieldE(g, j, 1e-12)

	e := f.E.At(2, 2)
	if e.Phi == 0 {
		t.Errorf("expected nonzero E_phi response to deposited current")
	}
	if math.IsNaN(e.Phi) || math.IsInf(e.Phi, 0) {
		t.Errorf("E_phi diverged: %v", e.Phi)
	}
}

func TestPMLDampsNearWall(t *testing.T) {
	g, err := geometry.New(1.0, 1.0, 0, 5, 0, 5, 5, 5,
		geometry.PML{LengthR0: 0.3, Sigma1: 0, Sigma2: 10}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	inLayer := pmlSigma(g, 0, 0)
	outLayer := pmlSigma(g, 4, 0)
	if inLayer <= outLayer {
		t.Errorf("expected larger PML damping near the layer edge: in=%v out=%v", inLayer, outLayer)
	}
}
