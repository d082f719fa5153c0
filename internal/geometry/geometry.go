// Package geometry describes a cylindrical (r, z) sub-domain: its
// physical extent, its position within the global grid, its PML
// absorption layers, and the closed-form cell-volume helpers the rest of
// the kernel builds on.
package geometry

import (
	"math"

	"picopic-go/internal/constant"
	"picopic-go/internal/simerr"
)

// Walls indexes the four edges of a tile: r=0, r=wall, z=0, z=wall.
type Walls struct {
	R0, RWall, Z0, ZWall bool
}

// PML holds the four per-edge absorption layer thicknesses (0 if absent,
// ordered r=0, z=0, r=wall, z=wall per spec §3) and the two shared
// conductivity coefficients.
type PML struct {
	LengthR0, LengthZ0, LengthRWall, LengthZWall float64
	Sigma1, Sigma2                               float64
}

// Geometry is the per-tile spatial description, §3.
type Geometry struct {
	RSize, ZSize float64

	BotR, TopR     int
	LeftZ, RightZ  int
	RGridAmount    int
	ZGridAmount    int

	DR, DZ float64

	Walls Walls
	PML   PML

	IsNearZAxis bool

	// AreasByR/AreasByZ record the global tile-grid shape. cmd/picopic
	// stamps them on; nothing in the kernel reads them (PML placement
	// takes the tile counts as separate arguments).
	AreasByR, AreasByZ int
}

// New constructs a Geometry from its physical extent, global-index
// offsets, PML thicknesses/conductivities, and wall flags, deriving DR,
// DZ and IsNearZAxis.
func New(rSize, zSize float64, botR, topR, leftZ, rightZ, rGridAmount, zGridAmount int,
	pml PML, walls Walls) (*Geometry, error) {
	if rGridAmount <= 0 || zGridAmount <= 0 {
		return nil, simerr.NewConfigError("grid amount must be positive: r=%d z=%d", rGridAmount, zGridAmount)
	}

	g := &Geometry{
		RSize: rSize, ZSize: zSize,
		BotR: botR, TopR: topR, LeftZ: leftZ, RightZ: rightZ,
		RGridAmount: rGridAmount, ZGridAmount: zGridAmount,
		DR: rSize / float64(rGridAmount),
		DZ: zSize / float64(zGridAmount),
		Walls:       walls,
		IsNearZAxis: botR == 0,
	}

	if err := g.SetPML(pml); err != nil {
		return nil, err
	}

	return g, nil
}

// SetPML validates PML thicknesses against the geometry's extent and,
// if valid, installs them. Fails with ConfigError on violation.
func (g *Geometry) SetPML(pml PML) error {
	if pml.LengthR0 < 0 || pml.LengthZ0 < 0 || pml.LengthRWall < 0 || pml.LengthZWall < 0 {
		return simerr.NewConfigError("PML length must be non-negative")
	}
	if pml.LengthR0+pml.LengthRWall > g.RSize {
		return simerr.NewConfigError("PML r-layers (%f + %f) exceed r_size %f",
			pml.LengthR0, pml.LengthRWall, g.RSize)
	}
	if pml.LengthZ0+pml.LengthZWall > g.ZSize {
		return simerr.NewConfigError("PML z-layers (%f + %f) exceed z_size %f",
			pml.LengthZ0, pml.LengthZWall, g.ZSize)
	}
	g.PML = pml
	return nil
}

// CellVolume is the volume of the cylindrical shell at radial index i:
// pi * dz * dr^2 * 2i.
func CellVolume(i int, dr, dz float64) float64 {
	return constant.Pi * dz * dr * dr * 2.0 * float64(i)
}

// CylRingVolume is the volume of the cylindrical ring over [r1, r2] with
// height z (internal cylinder of radius r1 is cut out).
func CylRingVolume(z, r1, r2 float64) float64 {
	return constant.Pi * z * (r2*r2 - r1*r1)
}

// CylVolume is the volume of the near-axis cell (a solid cylinder of
// radius r/2), used where CellVolume would be singular at i=0.
func CylVolume(z, r float64) float64 {
	return constant.Pi * z * r * r / 4.0
}

// CellNumber returns the zero-based cell index a position falls into
// for a cell size of delta: ceil(position/delta) - 1. Cell i spans
// (i*delta, (i+1)*delta], so position 0 — the r=0/z=0 domain edge,
// routinely hit exactly by an on-axis particle — falls outside every
// cell under that convention and is special-cased to cell 0 rather
// than the -1 the raw formula would give; any other negative position
// still yields a negative index, signaling a genuinely out-of-domain
// particle.
func CellNumber(position, delta float64) int {
	if position == 0 {
		return 0
	}
	return int(math.Ceil(position/delta)) - 1
}
