// Package migration implements the runaway-particle collector and the
// seam (border) field reduction that runs between push phases (§4.5,
// C7). Grounded on original_source/src/PicoPIC.cpp's
// particles_runaway_collector: for every tile, walk its species'
// particles, relocate any that have crossed into a neighboring tile's
// footprint, drop any that left the simulation entirely, then fold the
// tile's right/top overlay edges into its r+1/z+1 neighbors' core edges.
//
// The REDESIGN FLAG of §9 is applied here: the original computes
// z_areas as areas.size_x() (a copy-paste of the r_areas line above it),
// which silently under-counts the z dimension of the tile grid whenever
// it differs from the r dimension. TileCols below is computed correctly
// from the grid's own z extent.
package migration

import (
	"picopic-go/internal/geometry"
	"picopic-go/internal/particle"
	"picopic-go/internal/tile"
	"picopic-go/internal/vector"
)

// Grid is the full row-major tile grid the driver owns: Tiles[i][j] is
// the tile at radial row i, axial column j.
type Grid struct {
	Tiles [][]*tile.Tile
}

// TileRows is the r-extent of the tile grid (the original's r_areas,
// computed correctly here rather than copy-pasted).
func (g *Grid) TileRows() int { return len(g.Tiles) }

// TileCols is the z-extent of the tile grid (the original's buggy
// z_areas = areas.size_x(); here genuinely areas.size_z()).
func (g *Grid) TileCols() int {
	if len(g.Tiles) == 0 {
		return 0
	}
	return len(g.Tiles[0])
}

// Stats reports how many particles moved tiles and how many left the
// simulation entirely during one Collect pass, mirroring the original's
// j_c/r_c debug counters.
type Stats struct {
	Jumped  int
	Removed int
}

// Collect runs one runaway-collection-and-seam-reduction pass over the
// whole grid (§4.5; invariant 9, §8). globalGeom supplies the
// simulation-wide grid extent that out-of-domain removal is checked
// against.
func Collect(g *Grid, globalGeom *geometry.Geometry) Stats {
	var stats Stats
	rows, cols := g.TileRows(), g.TileCols()

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			relocate(g, i, j, globalGeom, &stats)
		}
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			reduceSeams(g, i, j)
		}
	}

	return stats
}

// relocate walks every species in tile (i, j), removing particles that
// left the simulation and moving particles that crossed into a
// neighboring tile's footprint into that tile's matching species slice.
func relocate(g *Grid, i, j int, globalGeom *geometry.Geometry, stats *Stats) {
	src := g.Tiles[i][j]

	for _, sp := range src.Species {
		original := sp.Particles()
		kept := original[:0]
		for _, p := range original {
			if !p.Alive {
				continue
			}

			rCell := geometry.CellNumber(p.R, src.Geom.DR)
			zCell := geometry.CellNumber(p.Z, src.Geom.DZ)
			rGlobal := src.Geom.BotR + rCell
			zGlobal := src.Geom.LeftZ + zCell

			if rGlobal < 0 || rGlobal >= globalGeom.RGridAmount ||
				zGlobal < 0 || zGlobal >= globalGeom.ZGridAmount {
				stats.Removed++
				continue
			}

			iDst := i + destOffset(rCell, src.Geom.RGridAmount)
			jDst := j + destOffset(zCell, src.Geom.ZGridAmount)

			if iDst == i && jDst == j {
				kept = append(kept, p)
				continue
			}
			if iDst < 0 || iDst >= g.TileRows() || jDst < 0 || jDst >= g.TileCols() {
				stats.Removed++
				continue
			}

			stats.Jumped++
			appendToNeighbor(g, iDst, jDst, sp.Id(), p, src.Geom)
		}
		sp.SetParticles(kept)
	}
}

// destOffset reports which neighboring tile a cell index belongs to
// relative to this tile's own [0, localAmount) footprint: -1 for the
// tile before it, 0 for this tile, 1 for the tile after it. A cell more
// than one tile away still maps only to the adjacent tile; nothing in
// the driver or the config validation limits the step size so that a
// particle stays within one tile of its source.
func destOffset(cell, localAmount int) int {
	if cell < 0 {
		return -1
	}
	if cell >= localAmount {
		return 1
	}
	return 0
}

// appendToNeighbor re-expresses p's position in the destination tile's
// local coordinate frame and appends it to the matching species (by Id)
// there.
func appendToNeighbor(g *Grid, iDst, jDst, specieID int, p *particle.Particle, srcGeom *geometry.Geometry) {
	moved := *p
	if p.R < 0 {
		moved.R += srcGeom.RSize
		moved.ROld += srcGeom.RSize
	} else if geometry.CellNumber(p.R, srcGeom.DR) >= srcGeom.RGridAmount {
		moved.R -= srcGeom.RSize
		moved.ROld -= srcGeom.RSize
	}
	if p.Z < 0 {
		moved.Z += srcGeom.ZSize
		moved.ZOld += srcGeom.ZSize
	} else if geometry.CellNumber(p.Z, srcGeom.DZ) >= srcGeom.ZGridAmount {
		moved.Z -= srcGeom.ZSize
		moved.ZOld -= srcGeom.ZSize
	}

	dst := g.Tiles[iDst][jDst]
	for _, sp := range dst.Species {
		if sp.Id() == specieID {
			sp.AddParticle(&moved)
			return
		}
	}
}

// reduceSeams folds tile (i, j)'s right and top overlay edges into its
// r+1 and z+1 neighbors' core edges (current, E, H, H_at_et), serialized
// tile-by-tile rather than guarded by a per-edge lock — matching the
// REDESIGN choice of §9 to serialize seam reduction instead of
// reproducing the original's unguarded concurrent increments.
func reduceSeams(g *Grid, i, j int) {
	src := g.Tiles[i][j]
	rows, cols := g.TileRows(), g.TileCols()

	if i < rows-1 {
		dst := g.Tiles[i+1][j]
		nr := src.Geom.RGridAmount
		for v := 0; v < src.Geom.ZGridAmount; v++ {
			addEdge(dst, src, nr, v, 0, v)
		}
	}

	if j < cols-1 {
		dst := g.Tiles[i][j+1]
		nz := src.Geom.ZGridAmount
		for v := 0; v < src.Geom.RGridAmount; v++ {
			addEdge(dst, src, v, nz, v, 0)
		}

		if i < rows-1 {
			corner := g.Tiles[i+1][j+1]
			addEdge(corner, src, src.Geom.RGridAmount, src.Geom.ZGridAmount, 0, 0)
		}
	}
}

// addEdge adds src's grid values at (srcI, srcJ) into dst's grids at
// (dstI, dstJ), across current, E, H, and H_at_et, matching the six
// component-by-component `inc` calls of the original per edge cell.
func addEdge(dst, src *tile.Tile, srcI, srcJ, dstI, dstJ int) {
	dst.Current.J.IncAt(dstI, dstJ, src.Current.J.At(srcI, srcJ), vector.Vec3.Add)
	dst.Field.E.IncAt(dstI, dstJ, src.Field.E.At(srcI, srcJ), vector.Vec3.Add)
	dst.Field.H.IncAt(dstI, dstJ, src.Field.H.At(srcI, srcJ), vector.Vec3.Add)
	dst.Field.HAtET.IncAt(dstI, dstJ, src.Field.HAtET.At(srcI, srcJ), vector.Vec3.Add)
}
