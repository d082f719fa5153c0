// Package field implements the staggered E/H field storage and its FDTD
// half-updates with PML absorption (§3 Field, §4.5 weight_field_h /
// weight_field_e). The teacher has no electromagnetic solver of its own
// (its force_calculation.go solves a Newtonian Poisson problem, dropped
// per the non-goal on Poisson/Dirichlet solvers); the curl-update loop
// shape below follows the teacher's nested-range-over-grid idiom used
// throughout force_calculation.go.
package field

import (
	"picopic-go/internal/geometry"
	"picopic-go/internal/grid"
	"picopic-go/internal/vector"
)

// Field owns the two staggered electromagnetic grids for one tile. HAtET
// is H resampled to the E timestep (the mean of H before and after the
// latest half-update), carried because the pusher's Lorentz force needs
// E and H co-timed (§3).
type Field struct {
	E     *grid.Grid3D[vector.Vec3]
	H     *grid.Grid3D[vector.Vec3]
	HAtET *grid.Grid3D[vector.Vec3]
}

const (
	mu0  = 1.25663706212e-6
	eps0 = 8.8541878128e-12
)

// New allocates a Field sized to the tile's core grid shape.
func New(nr, nz int) *Field {
	return &Field{
		E:     grid.New[vector.Vec3](nr, nz),
		H:     grid.New[vector.Vec3](nr, nz),
		HAtET: grid.New[vector.Vec3](nr, nz),
	}
}

// pmlSigma returns the PML damping coefficient active at cell (i, j),
// linearly ramped from Sigma1 at the outer edge of a PML layer to Sigma2
// at the wall, 0 outside any PML layer.
func pmlSigma(geom *geometry.Geometry, i, j int) float64 {
	var sigma float64

	if geom.PML.LengthR0 > 0 {
		depth := float64(i) * geom.DR
		if depth < geom.PML.LengthR0 {
			frac := 1 - depth/geom.PML.LengthR0
			sigma += geom.PML.Sigma1 + (geom.PML.Sigma2-geom.PML.Sigma1)*frac
		}
	}
	if geom.PML.LengthRWall > 0 {
		depth := geom.RSize - float64(i+1)*geom.DR
		if depth < geom.PML.LengthRWall {
			frac := 1 - depth/geom.PML.LengthRWall
			sigma += geom.PML.Sigma1 + (geom.PML.Sigma2-geom.PML.Sigma1)*frac
		}
	}
	if geom.PML.LengthZ0 > 0 {
		depth := float64(j) * geom.DZ
		if depth < geom.PML.LengthZ0 {
			frac := 1 - depth/geom.PML.LengthZ0
			sigma += geom.PML.Sigma1 + (geom.PML.Sigma2-geom.PML.Sigma1)*frac
		}
	}
	if geom.PML.LengthZWall > 0 {
		depth := geom.ZSize - float64(j+1)*geom.DZ
		if depth < geom.PML.LengthZWall {
			frac := 1 - depth/geom.PML.LengthZWall
			sigma += geom.PML.Sigma1 + (geom.PML.Sigma2-geom.PML.Sigma1)*frac
		}
	}
	return sigma
}

// WeightFieldH performs the FDTD half-update of H from curl E,
// damped by the PML absorber where a layer is present (§4.5
// weight_field_h).
func (f *Field) WeightFieldH(geom *geometry.Geometry, dt float64) {
	nr, nz := geom.RGridAmount, geom.ZGridAmount
	for i := 0; i < nr; i++ {
		for j := 0; j < nz; j++ {
			e := f.E.At(i, j)
			eRNext := f.E.At(i, j+1)
			eZNext := f.E.At(i+1, j)

			curlR := (e.Phi - eRNext.Phi) / geom.DZ
			curlZ := (eRNext.Phi - e.Phi) / geom.DR
			curlPhi := (eZNext.R-e.R)/geom.DR - (eRNext.Z-e.Z)/geom.DZ

			damp := 1.0 / (1.0 + pmlSigma(geom, i, j)*dt)
			hOld := f.H.At(i, j)
			h := hOld
			h.R = (h.R - dt/mu0*curlR) * damp
			h.Phi = (h.Phi - dt/mu0*curlPhi) * damp
			h.Z = (h.Z - dt/mu0*curlZ) * damp
			f.H.Set(i, j, h)

			f.HAtET.Set(i, j, hOld.Add(h).Scale(0.5))
		}
	}
}

// WeightFieldE performs the FDTD update of E from curl H minus the
// deposited current j, damped by the PML absorber (§4.5 weight_field_e).
// j is the current tile's Grid3D[Vec3]; field does not import the
// current package to avoid a cycle (current depends on field-adjacent
// geometry only, not vice versa).
func (f *Field) WeightFieldE(geom *geometry.Geometry, j *grid.Grid3D[vector.Vec3], dt float64) {
	nr, nz := geom.RGridAmount, geom.ZGridAmount
	for i := 0; i < nr; i++ {
		for jj := 0; jj < nz; jj++ {
			h := f.H.At(i, jj)
			hRPrev := f.H.At(i, jj-1)
			hZPrev := f.H.At(i-1, jj)

			curlR := (hRPrev.Phi - h.Phi) / geom.DZ
			curlZ := (h.Phi - hZPrev.Phi) / geom.DR
			curlPhi := (h.R-hZPrev.R)/geom.DR - (h.Z-hRPrev.Z)/geom.DZ

			jc := j.At(i, jj)
			damp := 1.0 / (1.0 + pmlSigma(geom, i, jj)*dt)

			e := f.E.At(i, jj)
			e.R = (e.R + dt/eps0*(curlR-jc.R)) * damp
			e.Phi = (e.Phi + dt/eps0*(curlPhi-jc.Phi)) * damp
			e.Z = (e.Z + dt/eps0*(curlZ-jc.Z)) * damp
			f.E.Set(i, jj, e)
		}
	}
}
