// Package pusher implements the relativistic Boris mover (§4.3, C4):
// CIC field interpolation, the half-kick/rotate/half-kick velocity
// update, and the cylindrical position advance with axis/wall
// reflection. The teacher's nearest analogue is its Newtonian
// leapfrog (internal/physics/time_evolution.go, force_calculation.go);
// the relativistic Boris rotation itself is grounded directly on spec
// §4.3's formulas, since the teacher's mover is non-relativistic.
package pusher

import (
	"math"

	"picopic-go/internal/constant"
	"picopic-go/internal/geometry"
	"picopic-go/internal/grid"
	"picopic-go/internal/particle"
	"picopic-go/internal/simerr"
	"picopic-go/internal/vector"
)

// interpolate performs CIC (bilinear) interpolation of a Grid3D[Vec3] at
// the continuous position (r, z).
func interpolate(g *grid.Grid3D[vector.Vec3], r, z, dr, dz float64) vector.Vec3 {
	ri := r / dr
	zi := z / dz
	i := int(math.Floor(ri))
	j := int(math.Floor(zi))
	fr := ri - float64(i)
	fz := zi - float64(j)

	v00 := g.At(i, j)
	v10 := g.At(i+1, j)
	v01 := g.At(i, j+1)
	v11 := g.At(i+1, j+1)

	return v00.Scale((1 - fr) * (1 - fz)).
		Add(v10.Scale(fr * (1 - fz))).
		Add(v01.Scale((1 - fr) * fz)).
		Add(v11.Scale(fr * fz))
}

// Push performs the relativistic Boris velocity update (§4.3 steps 1-2)
// for one alive particle: interpolates E and H-at-ET to the particle's
// position, applies the half-kick/rotate/half-kick sequence, and
// snapshots (r, z) into (r_old, z_old) ahead of the position advance.
// Returns SuperluminalError if the updated speed is not sub-luminal.
func Push(p *particle.Particle, e, h *grid.Grid3D[vector.Vec3], geom *geometry.Geometry, dt float64) error {
	if !p.Alive {
		return nil
	}

	efield := interpolate(e, p.R, p.Z, geom.DR, geom.DZ)
	hfield := interpolate(h, p.R, p.Z, geom.DR, geom.DZ)

	gammaOld := p.Gamma(constant.LightVelSq)
	u := vector.New(p.VR, p.VPhi, p.VZ).Scale(gammaOld)

	qOver2m := p.Charge * dt / (2 * p.Mass)
	uMinus := u.Add(efield.Scale(qOver2m))

	gammaMinus := math.Sqrt(1 + uMinus.Length2()/constant.LightVelSq)
	t := hfield.Scale(qOver2m / gammaMinus)
	s := t.Scale(2 / (1 + t.Dot(t)))

	uPrime := uMinus.Add(uMinus.Cross(t))
	uPlus := uMinus.Add(uPrime.Cross(s))
	uNew := uPlus.Add(efield.Scale(qOver2m))

	gammaNew := math.Sqrt(1 + uNew.Length2()/constant.LightVelSq)
	vNew := uNew.Scale(1 / gammaNew)

	if vNew.Length2() >= constant.LightVelSq {
		return simerr.NewSuperluminalError("particle %d: |v|^2=%g exceeds c^2 after Boris push", p.ID, vNew.Length2())
	}

	p.SaveOld()
	p.VR, p.VPhi, p.VZ = vNew.R, vNew.Phi, vNew.Z
	return nil
}

// AdvanceHalf advances (r, z) by v*dt in a Cartesian intermediate frame
// local to the particle's current azimuth, then projects back to
// (r, z) and rotates the transverse velocity components to match the
// new azimuth (§4.3 step 3; fuses update_particles_coords_at_half,
// particles_back_position_to_rz and particles_back_velocity_to_rz since
// all three express one local-frame rotation). The driver calls this
// twice with dt/2, once in Phase A and once in Phase B, per §4.8.
func AdvanceHalf(p *particle.Particle, dt float64) {
	if !p.Alive {
		return
	}

	x := p.R + p.VR*dt
	y := p.VPhi * dt

	newR := math.Hypot(x, y)
	if newR < constant.MNZL {
		p.R = 0
		p.Z += p.VZ * dt
		return
	}

	dphi := math.Atan2(y, x)
	cosA, sinA := math.Cos(dphi), math.Sin(dphi)

	newVR := p.VR*cosA + p.VPhi*sinA
	newVPhi := -p.VR*sinA + p.VPhi*cosA

	p.R = newR
	p.Z += p.VZ * dt
	p.VR, p.VPhi = newVR, newVPhi
}

// Reflect applies axis/wall reflection exactly as Geometry's wall flags
// govern (spec §4.5 reflect): a particle crossing r=0 has its radial
// position mirrored and radial velocity sign-flipped only when
// geom.Walls.R0 is set, and likewise at any other wall marked present
// in geom.Walls.
func Reflect(p *particle.Particle, geom *geometry.Geometry) {
	if !p.Alive {
		return
	}

	if geom.Walls.R0 && p.R < 0 {
		p.R = -p.R
		p.VR = -p.VR
	}
	if geom.Walls.RWall && p.R > geom.RSize {
		p.R = 2*geom.RSize - p.R
		p.VR = -p.VR
	}
	if geom.Walls.Z0 && p.Z < 0 {
		p.Z = -p.Z
		p.VZ = -p.VZ
	}
	if geom.Walls.ZWall && p.Z > geom.ZSize {
		p.Z = 2*geom.ZSize - p.Z
		p.VZ = -p.VZ
	}
}
