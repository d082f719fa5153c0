package pusher

import (
	"math"
	"testing"

	"picopic-go/internal/constant"
	"picopic-go/internal/geometry"
	"picopic-go/internal/grid"
	"picopic-go/internal/particle"
	"picopic-go/internal/vector"
)

func zeroFields(geom *geometry.Geometry) (*grid.Grid3D[vector.Vec3], *grid.Grid3D[vector.Vec3]) {
	return grid.New[vector.Vec3](geom.RGridAmount, geom.ZGridAmount), grid.New[vector.Vec3](geom.RGridAmount, geom.ZGridAmount)
}

// TestZeroFieldLinearMotion exercises scenario E1: a single electron in
// zero field drifts linearly; 1000 steps of dt=1e-12s at v_z=1e6 m/s
// should advance z by 1e-6 m total.
func TestZeroFieldLinearMotion(t *testing.T) {
	g, err := geometry.New(1.0, 1.0, 0, 100, 0, 100, 100, 100, geometry.PML{}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	e, h := zeroFields(g)

	p := &particle.Particle{R: 0.5, Z: 0.5, VZ: 1e6, Charge: constant.ElectronCharge, Mass: constant.ElectronMass, Alive: true}
	dt := 1e-12
	startZ := p.Z

	for i := 0; i < 1000; i++ {
		if err := Push(p, e, h, g, dt); err != nil {
			t.Fatalf("Push step %d: %v", i, err)
		}
		AdvanceHalf(p, dt/2)
		AdvanceHalf(p, dt/2)
	}

	advanced := p.Z - startZ
	want := 1e-6
	if math.Abs(advanced-want) > 1e-9 {
		t.Errorf("expected z to advance by %.3e, got %.3e", want, advanced)
	}
	if p.VR != 0 || p.VPhi != 0 {
		t.Errorf("zero-field motion should not induce transverse velocity, got vr=%v vphi=%v", p.VR, p.VPhi)
	}
}

// TestUniformBFieldPreservesSpeed exercises scenario E3: a uniform B_z
// field should leave speed invariant under the Boris push (energy
// conservation of the rotation).
func TestUniformBFieldPreservesSpeed(t *testing.T) {
	g, err := geometry.New(1.0, 1.0, 0, 100, 0, 100, 100, 100, geometry.PML{}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	e, h := zeroFields(g)
	h.Fill(vector.New(0, 0, 1e-3)) // uniform B_z

	p := &particle.Particle{R: 0.5, Z: 0.5, VPhi: 1e7, Charge: constant.ElectronCharge, Mass: constant.ElectronMass, Alive: true}
	dt := 1e-14
	speedBefore := math.Sqrt(p.SpeedSq())

	for i := 0; i < 200; i++ {
		if err := Push(p, e, h, g, dt); err != nil {
			t.Fatalf("Push step %d: %v", i, err)
		}
	}

	speedAfter := math.Sqrt(p.SpeedSq())
	if math.Abs(speedAfter-speedBefore)/speedBefore > 1e-9 {
		t.Errorf("speed not preserved by Boris rotation: before=%v after=%v", speedBefore, speedAfter)
	}
}

func TestReflectAtAxis(t *testing.T) {
	g, err := geometry.New(1.0, 1.0, 0, 10, 0, 10, 10, 10, geometry.PML{}, geometry.Walls{R0: true})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	p := &particle.Particle{R: -0.1, VR: -5, Alive: true}
	Reflect(p, g)
	if p.R != 0.1 || p.VR != 5 {
		t.Errorf("expected axis reflection to mirror r and flip vr, got r=%v vr=%v", p.R, p.VR)
	}
}
