// Package current implements the charge-conserving current deposition
// of §4.4 (C5): per-particle weighting of (j_r, j_phi, j_z) with
// trajectory splitting at cell boundaries. This is the most heavily
// ported component of the kernel, grounded expression-for-expression on
// original_source/src/current.cpp's simple_current_distribution,
// current_distribution, azimuthal_current_distribution, and
// strict_motion_weighting.
package current

import (
	"math"

	"picopic-go/internal/constant"
	"picopic-go/internal/geometry"
	"picopic-go/internal/grid"
	"picopic-go/internal/particle"
	"picopic-go/internal/simerr"
	"picopic-go/internal/vector"
)

// Current owns one tile's deposited-current grid. Components are packed
// into a single Grid3D[Vec3] (R, Phi, Z), matching the Vec3 layout field
// and the pusher already share.
type Current struct {
	J *grid.Grid3D[vector.Vec3]

	geom *geometry.Geometry
	dt   float64
}

// New allocates a Current sized to the tile's geometry.
func New(geom *geometry.Geometry, dt float64) *Current {
	return &Current{
		J:    grid.New[vector.Vec3](geom.RGridAmount, geom.ZGridAmount),
		geom: geom,
		dt:   dt,
	}
}

// Reset zeroes j's core and overlay, per §4.5 reset_current.
func (c *Current) Reset() {
	c.J.Fill(vector.Vec3{})
}

func addVec(a, b vector.Vec3) vector.Vec3 { return a.Add(b) }

func (c *Current) incZ(i, k int, wj float64)   { c.J.IncAt(i, k, vector.Vec3{Z: wj}, addVec) }
func (c *Current) incR(i, k int, wj float64)   { c.J.IncAt(i, k, vector.Vec3{R: wj}, addVec) }
func (c *Current) incPhi(i, k int, wj float64) { c.J.IncAt(i, k, vector.Vec3{Phi: wj}, addVec) }

// densityWeight is the common "some_shit_density" closed form shared by
// the jr and jz weightings away from the axis: charge per unit cell
// volume per timestep at cylindrical radius r.
func densityWeight(charge, r, dr, dz, dt float64) float64 {
	return charge / (2 * constant.Pi * r * dr * dz * dt)
}

// depositSimple ports Current::simple_current_distribution: closed-form
// integrals of the straight-line segment (rOld,zOld)->(rNew,zNew) over
// the cell (iN, kN), for j_z into (iN,kN)/(iN+1,kN) and j_r into
// (iN,kN)/(iN,kN+1).
func (c *Current) depositSimple(rNew, zNew, rOld, zOld float64, iN, kN int, charge float64) {
	dr, dz, dt := c.geom.DR, c.geom.DZ, c.dt
	deltaR := rNew - rOld
	deltaZ := zNew - zOld
	if math.Abs(deltaR) < constant.MNZL || math.Abs(deltaZ) < constant.MNZL {
		return
	}

	if iN >= 1 {
		k := deltaR / deltaZ
		b := rOld

		dens := densityWeight(charge, float64(iN)*dr, dr, dz, dt)
		wj := dens * (dr*deltaZ - k*deltaZ*deltaZ/2 - deltaZ*b + dr*dr/k*
			((float64(iN)+0.5)*(float64(iN)+0.5)-0.25)*math.Log((k*deltaZ+b)/b))
		c.incZ(iN, kN, wj)

		dens = densityWeight(charge, float64(iN+1)*dr, dr, dz, dt)
		wj = dens * (k*deltaZ*deltaZ/2 + deltaZ*b + deltaZ*dr + dr*dr/k*
			(0.25-(float64(iN)+0.5)*(float64(iN)+0.5))*math.Log((k*deltaZ+b)/b))
		c.incZ(iN+1, kN, wj)

		k = -deltaZ / deltaR
		r0 := (float64(iN) + 0.5) * dr
		r1 := rOld
		b = (float64(kN)+1)*dz - zOld

		densR := densityWeight(charge, r0, dr, dz, dt)
		wj = densR * (r0*k*deltaR + k/2*deltaR*(rOld+deltaR/2) +
			0.5*deltaR*(b-k*(2*r0+r1)) +
			deltaR*(b-k*r1)*(4*r0*r0-dr*dr)/(8*rOld*(rOld+deltaR)) +
			(k*(r0*r0/2-dr*dr/8))*math.Log((rOld+deltaR)/rOld))
		c.incR(iN, kN, wj)

		b = zOld - float64(kN)*dz
		wj = densR * (-r0*k*deltaR - k/2*deltaR*(rOld+deltaR/2) +
			0.5*deltaR*(b+k*(2*r0+r1)) +
			deltaR*(b+k*r1)*(4*r0*r0-dr*dr)/(8*rOld*(rOld+deltaR)) -
			(k*(r0*r0/2-dr*dr/8))*math.Log((rOld+deltaR)/rOld))
		c.incR(iN, kN+1, wj)
		return
	}

	// near-axis cell (i_n == 0): the axis-cell volume replaces 2*pi*r*dr.
	k := deltaR / deltaZ
	b := rOld
	densAxis := charge / (2 * constant.Pi * dr / 4 * dr * dz * dt * dr)
	wj := densAxis * (dr*deltaZ - k*deltaZ*deltaZ/2 - deltaZ*b)
	c.incZ(iN, kN, wj)

	dens := densityWeight(charge, dr, dr, dz, dt)
	wj = dens * (k*deltaZ*deltaZ/2 + deltaZ*dr + deltaZ*b)
	c.incZ(iN+1, kN, wj)

	k = -deltaZ / deltaR
	r0 := (float64(iN) + 0.5) * dr
	r1 := rOld
	b = (float64(kN)+1)*dz - zOld

	densR := densityWeight(charge, r0, dr, dz, dt)
	wj = densR * (r0*k*deltaR + k/2*deltaR*(rOld+deltaR/2) +
		0.5*deltaR*(b-k*(2*r0+r1)) +
		deltaR*(b-k*r1)*(4*r0*r0-dr*dr)/(8*rOld*(rOld+deltaR)) +
		(k*(r0*r0/2-dr*dr/8))*math.Log((rOld+deltaR)/rOld))
	c.incR(iN, kN, wj)

	b = zOld - float64(kN)*dz
	wj = densR * (-r0*k*deltaR - k/2*deltaR*(rOld+deltaR/2) +
		0.5*deltaR*(b+k*(2*r0+r1)) +
		deltaR*(b+k*r1)*(4*r0*r0-dr*dr)/(8*rOld*(rOld+deltaR)) -
		(k*(r0*r0/2-dr*dr/8))*math.Log((rOld+deltaR)/rOld))
	c.incR(iN, kN+1, wj)
}

// Deposit dispatches a single alive particle's contribution to j_r and
// j_z per §4.4: it computes the old/new cell, applies the on-boundary
// tie-break rule, and either runs the strict-motion path (near-zero
// displacement on one axis) or splits the trajectory into 1-3 segments
// by res_cell = |di| + |dk|.
func (c *Current) Deposit(p *particle.Particle) error {
	if !p.Alive {
		return nil
	}
	dr, dz := c.geom.DR, c.geom.DZ

	iN := geometry.CellNumber(p.R, dr)
	kN := geometry.CellNumber(p.Z, dz)
	iO := geometry.CellNumber(p.ROld, dr)
	kO := geometry.CellNumber(p.ZOld, dz)
	if iN < 0 || kN < 0 || iO < 0 || kO < 0 {
		return simerr.NewOutOfDomainError("current deposition: negative cell index (iN=%d kN=%d iO=%d kO=%d) for particle %d", iN, kN, iO, kO, p.ID)
	}

	if p.ROld == float64(iO+1)*dr {
		iO = iN
	}
	if p.ZOld == float64(kO+1)*dz {
		kO = kN
	}
	if p.R == float64(iN+1)*dr {
		iN = iO
	}
	if p.Z == float64(kN+1)*dz {
		kN = kO
	}

	if math.Abs(p.R-p.ROld) < constant.MNZL || math.Abs(p.Z-p.ZOld) < constant.MNZL {
		return c.depositStrict(p.R, p.Z, p.ROld, p.ZOld, p.Charge)
	}

	resCell := abs(iN-iO) + abs(kN-kO)
	switch resCell {
	case 0:
		c.depositSimple(p.R, p.Z, p.ROld, p.ZOld, iN, kN, p.Charge)
	case 1:
		c.depositSingleCrossing(p, iN, kN, iO, kO, dr, dz)
	case 2:
		c.depositDoubleCrossing(p, iN, kN, iO, kO, dr, dz)
	}
	return nil
}

// depositSingleCrossing ports the res_cell == 1 branch of
// current_distribution: the trajectory crosses exactly one cell
// boundary, so it is split into two segments at that boundary.
func (c *Current) depositSingleCrossing(p *particle.Particle, iN, kN, iO, kO int, dr, dz float64) {
	charge := p.Charge
	if iN != iO && kN == kO {
		if p.ROld > float64(iN+1)*dr {
			a := (p.ROld - p.R) / (p.ZOld - p.Z)
			rBoundary := float64(iN+1) * dr
			deltaR := rBoundary - p.R
			zBoundary := p.Z + deltaR/a

			c.depositSimple(rBoundary, zBoundary, p.ROld, p.ZOld, iN+1, kN, charge)
			c.depositSimple(p.R, p.Z, rBoundary, zBoundary, iN, kN, charge)
		} else {
			a := (p.R - p.ROld) / (p.Z - p.ZOld)
			rBoundary := float64(iN) * dr
			deltaR := rBoundary - p.ROld
			zBoundary := p.ZOld + deltaR/a

			c.depositSimple(rBoundary, zBoundary, p.ROld, p.ZOld, iN-1, kN, charge)
			c.depositSimple(p.R, p.Z, rBoundary, zBoundary, iN, kN, charge)
		}
		return
	}

	// (i_n == i_o) && (k_n != k_o): crossing on the z-axis.
	if p.ZOld < float64(kN)*dz {
		zBoundary := float64(kN) * dz
		deltaZ := zBoundary - p.ZOld
		a := (p.R - p.ROld) / (p.Z - p.ZOld)
		rBoundary := p.ROld + a*deltaZ
		c.depositSimple(rBoundary, zBoundary, p.ROld, p.ZOld, iN, kN-1, charge)
		c.depositSimple(p.R, p.Z, rBoundary, zBoundary, iN, kN, charge)
	} else {
		zBoundary := float64(kN+1) * dz
		deltaZ := zBoundary - p.Z
		a := (p.ROld - p.R) / (p.ZOld - p.Z)
		rBoundary := p.R + a*deltaZ
		c.depositSimple(rBoundary, zBoundary, p.ROld, p.ZOld, iN, kN+1, charge)
		c.depositSimple(p.R, p.Z, rBoundary, zBoundary, iN, kN, charge)
	}
}

// depositDoubleCrossing ports the res_cell == 2 branch: both axes
// cross, so the trajectory is split into three segments at whichever
// boundary (r or z) is crossed first along the straight-line motion.
func (c *Current) depositDoubleCrossing(p *particle.Particle, iN, kN, iO, kO int, dr, dz float64) {
	charge := p.Charge
	a := (p.R - p.ROld) / (p.Z - p.ZOld)

	if iO < iN {
		rB := float64(iN) * dr
		z1 := p.ZOld + (rB-p.ROld)/a
		if kO < kN {
			z2 := float64(kN) * dz
			r2 := p.ROld + (z2-p.ZOld)*a
			if z1 < float64(kN)*dz {
				c.depositSimple(rB, z1, p.ROld, p.ZOld, iN-1, kN-1, charge)
				c.depositSimple(r2, z2, rB, z1, iN, kN-1, charge)
				c.depositSimple(p.R, p.Z, r2, z2, iN, kN, charge)
			} else if z1 > float64(kN)*dz {
				c.depositSimple(r2, z2, p.ROld, p.ZOld, iN-1, kN-1, charge)
				c.depositSimple(rB, z1, r2, z2, iN-1, kN, charge)
				c.depositSimple(p.R, p.Z, rB, z1, iN, kN, charge)
			}
		} else {
			z2 := float64(kN+1) * dz
			r2 := p.ROld - (p.ZOld-z2)*a
			if z1 > float64(kN+1)*dz {
				c.depositSimple(rB, z1, p.ROld, p.ZOld, iN-1, kN+1, charge)
				c.depositSimple(r2, z2, rB, z1, iN, kN+1, charge)
				c.depositSimple(p.R, p.Z, r2, z2, iN, kN, charge)
			} else if z1 < float64(kN+1)*dz {
				c.depositSimple(r2, z2, p.ROld, p.ZOld, iN-1, kN+1, charge)
				c.depositSimple(rB, z1, r2, z2, iN-1, kN, charge)
				c.depositSimple(p.R, p.Z, rB, z1, iN, kN, charge)
			}
		}
		return
	}

	if iO > iN {
		rB := float64(iN+1) * dr
		z1 := p.ZOld - (p.ROld-rB)/a
		if kO < kN {
			z2 := float64(kN) * dz
			r2 := p.ROld - (z2-p.ZOld)*a
			if z1 < float64(kN)*dz {
				c.depositSimple(rB, z1, p.ROld, p.ZOld, iN+1, kN-1, charge)
				c.depositSimple(r2, z2, rB, z1, iN, kN-1, charge)
				c.depositSimple(p.R, p.Z, r2, z2, iN, kN, charge)
			} else if z1 > float64(kN)*dz {
				c.depositSimple(r2, z2, p.ROld, p.ZOld, iN+1, kN-1, charge)
				c.depositSimple(rB, z1, r2, z2, iN+1, kN, charge)
				c.depositSimple(p.R, p.Z, rB, z1, iN, kN, charge)
			}
		} else {
			aRev := (p.ROld - p.R) / (p.ZOld - p.Z)
			z1rev := p.Z + (rB-p.R)/aRev
			z2 := float64(kN+1) * dz
			r2 := p.R + (z2-p.Z)*aRev
			if z1rev > float64(kN+1)*dz {
				c.depositSimple(rB, z1rev, p.ROld, p.ZOld, iN+1, kN+1, charge)
				c.depositSimple(r2, z2, rB, z1rev, iN, kN+1, charge)
				c.depositSimple(p.R, p.Z, r2, z2, iN, kN, charge)
			} else if z1rev < float64(kN+1)*dz {
				c.depositSimple(r2, z2, p.ROld, p.ZOld, iN+1, kN+1, charge)
				c.depositSimple(rB, z1rev, r2, z2, iN+1, kN, charge)
				c.depositSimple(p.R, p.Z, rB, z1rev, iN, kN, charge)
			}
		}
	}
}

// DepositAzimuthal deposits j_phi by four-node cylindrical-ring
// weighting at the particle's current position, ported from
// Current::azimuthal_current_distribution. Unlike Deposit, it does not
// split a trajectory: j_phi is axisymmetric and deposited from position
// alone.
func (c *Current) DepositAzimuthal(p *particle.Particle) error {
	if !p.Alive {
		return nil
	}
	dr, dz := c.geom.DR, c.geom.DZ

	rI := geometry.CellNumber(p.R, dr)
	zK := geometry.CellNumber(p.Z, dz)
	if rI < 0 {
		rI = 0
	}
	if zK < 0 {
		zK = 0
	}

	r1 := p.R - 0.5*dr
	r2 := (float64(rI) + 0.5) * dr
	r3 := p.R + 0.5*dr
	dz1 := (float64(zK)+0.5)*dz - (p.Z - 0.5*dz)
	dz2 := (p.Z + 0.5*dz) - (float64(zK)+0.5)*dz

	roV := p.Charge / (2 * constant.Pi * dz * dr * p.R)

	var v1, v2 float64
	if p.R > dr {
		v1 = geometry.CellVolume(rI, dr, dz)
	} else {
		v1 = geometry.CylVolume(dz, dr)
	}
	v2 = geometry.CellVolume(rI+1, dr, dz)

	dep := func(i, k int, ring, vol float64) {
		rho := roV * ring / vol
		c.incPhi(i, k, rho*p.VPhi)
	}

	dep(rI, zK, geometry.CylRingVolume(dz1, r1, r2), v1)
	dep(rI+1, zK, geometry.CylRingVolume(dz1, r2, r3), v2)
	dep(rI, zK+1, geometry.CylRingVolume(dz2, r1, r2), v1)
	dep(rI+1, zK+1, geometry.CylRingVolume(dz2, r2, r3), v2)
	return nil
}

// depositStrict ports Current::strict_motion_weighting: the 1-D special
// cases used when the trajectory's displacement on one axis is below
// MNZL, so the general two-axis split would divide by ~0.
func (c *Current) depositStrict(rNew, zNew, rOld, zOld, charge float64) error {
	dr, dz, dt := c.geom.DR, c.geom.DZ, c.dt

	iN := geometry.CellNumber(rNew, dr)
	kN := geometry.CellNumber(zNew, dz)
	iO := geometry.CellNumber(rOld, dr)
	kO := geometry.CellNumber(zOld, dz)
	if iN < 0 || kN < 0 || iO < 0 || kO < 0 {
		return simerr.NewOutOfDomainError("strict-motion deposition: negative cell index (iN=%d kN=%d iO=%d kO=%d)", iN, kN, iO, kO)
	}

	if math.Abs(rNew-rOld) < constant.MNZL && math.Abs(zNew-zOld) < constant.MNZL {
		return nil
	}

	if math.Abs(rNew-rOld) < constant.MNZL {
		valuePart := 2 * constant.Pi * rNew * dr * dz
		r1 := rNew - 0.5*dr
		r2 := (float64(iN) + 0.5) * dr
		r3 := rNew + 0.5*dr

		var wjLower float64
		if iN == 0 {
			wjLower = charge / (dt * constant.Pi * dr * dr / 4) * constant.Pi * (r2*r2 - r1*r1) / valuePart
		} else {
			wjLower = charge / (dt * 2 * constant.Pi * float64(iN) * dr * dr) * constant.Pi * (r2*r2 - r1*r1) / valuePart
		}
		wjUpper := charge / (dt * 2 * constant.Pi * float64(iN+1) * dr * dr) * constant.Pi * (r3*r3 - r2*r2) / valuePart

		resK := kN - kO
		switch resK {
		case 0:
			deltaZ := zNew - zOld
			c.incZ(iN, kN, wjLower*deltaZ)
			c.incZ(iN+1, kN, wjUpper*deltaZ)
		case 1:
			deltaZ := float64(kN)*dz - zOld
			c.incZ(iN, kN-1, wjLower*deltaZ)
			c.incZ(iN+1, kN-1, wjUpper*deltaZ)
			deltaZ = zNew - float64(kN)*dz
			c.incZ(iN, kN, wjLower*deltaZ)
			c.incZ(iN+1, kN, wjUpper*deltaZ)
		case -1:
			deltaZ := float64(kN+1)*dz - zOld
			c.incZ(iN, kN+1, wjLower*deltaZ)
			c.incZ(iN+1, kN+1, wjUpper*deltaZ)
			deltaZ = zNew - float64(kN+1)*dz
			c.incZ(iN, kN, wjLower*deltaZ)
			c.incZ(iN+1, kN, wjUpper*deltaZ)
		}
		return nil
	}

	// strict radial motion: abs(zNew-zOld) < MNZL
	resI := iN - iO
	leftDeltaZ := float64(kN+1)*dz - zNew
	rightDeltaZ := zNew - float64(kN)*dz

	switch resI {
	case 0:
		deltaR := rNew - rOld
		r0 := (float64(iN) + 0.5) * dr
		dens := densityWeight(charge, r0, dr, dz, dt)
		wj := dens * (deltaR - r0*r0/(rOld+deltaR) + r0*r0/rOld +
			dr*dr/(4*(rOld+deltaR)) - dr*dr/(4*rOld))
		c.incR(iN, kN, wj*leftDeltaZ)
		c.incR(iN, kN+1, wj*rightDeltaZ)
	case 1:
		deltaR := float64(iN)*dr - rOld
		r0 := (float64(iN) - 0.5) * dr
		dens := densityWeight(charge, r0, dr, dz, dt)
		wj := dens * (deltaR - r0*r0/(rOld+deltaR) + r0*r0/rOld +
			dr*dr/(4*(rOld+deltaR)) - dr*dr/(4*rOld))
		c.incR(iN-1, kN, wj*leftDeltaZ)
		c.incR(iN-1, kN+1, wj*rightDeltaZ)

		deltaR = rNew - float64(iN)*dr
		r0 = (float64(iN) + 0.5) * dr
		base := float64(iN) * dr
		dens = densityWeight(charge, r0, dr, dz, dt)
		wj = dens * (deltaR - r0*r0/(base+deltaR) + r0*r0/base +
			dr*dr/(4*(base+deltaR)) - dr*dr/(4*base))
		c.incR(iN, kN, wj*leftDeltaZ)
		c.incR(iN, kN+1, wj*rightDeltaZ)
	case -1:
		deltaR := float64(iN+1)*dr - rOld
		r0 := (float64(iN) + 1.5) * dr
		dens := densityWeight(charge, r0, dr, dz, dt)
		wj := dens * (deltaR - r0*r0/(rOld+deltaR) + r0*r0/rOld +
			dr*dr/(4*(rOld+deltaR)) - dr*dr/(4*rOld))
		c.incR(iN+1, kN, wj*leftDeltaZ)
		c.incR(iN+1, kN+1, wj*rightDeltaZ)

		deltaR = rNew - float64(iN+1)*dr
		r0 = (float64(iN) + 0.5) * dr
		base := float64(iN+1) * dr
		dens = densityWeight(charge, r0, dr, dz, dt)
		wj = dens * (deltaR - r0*r0/(base+deltaR) + r0*r0/base +
			dr*dr/(4*(base+deltaR)) - dr*dr/(4*base))
		c.incR(iN, kN, wj*leftDeltaZ)
		c.incR(iN, kN+1, wj*rightDeltaZ)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
