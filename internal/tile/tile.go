// Package tile implements the sub-domain worker (§4.5, C6): one tile
// binds a Geometry, a Field, a Current, and the species living in it,
// and exposes every phase entry point the driver dispatches across
// (§4.8). Grounded on the teacher's Simulation type
// (internal/simulation/simulation.go) for the "bag of owned state with
// phase methods" shape, generalized from a single global simulation to
// one sub-domain tile among many.
package tile

import (
	"picopic-go/internal/collision"
	"picopic-go/internal/current"
	"picopic-go/internal/field"
	"picopic-go/internal/geometry"
	"picopic-go/internal/particle"
	"picopic-go/internal/prng"
	"picopic-go/internal/pusher"
)

// Tile owns one sub-domain's state exclusively during a phase (§5).
type Tile struct {
	Row, Col int

	Geom    *geometry.Geometry
	Field   *field.Field
	Current *current.Current
	Species []particle.Specie

	Seeds prng.SeedMap
	DT    float64
}

// New constructs a Tile over the given geometry and species list.
func New(row, col int, geom *geometry.Geometry, dt float64, seeds prng.SeedMap, species []particle.Specie) *Tile {
	return &Tile{
		Row: row, Col: col,
		Geom:    geom,
		Field:   field.New(geom.RGridAmount, geom.ZGridAmount),
		Current: current.New(geom, dt),
		Species: species,
		Seeds:   seeds,
		DT:      dt,
	}
}

func (t *Tile) stream(phase string, step int) *prng.Stream {
	return t.Seeds.Substream(t.Row, t.Col, phase, step)
}

// Distribute performs the initial spatial+velocity distribution for
// every species' slice of this tile (§4.5 distribute).
func (t *Tile) Distribute(step int) {
	s := t.stream("distribute", step)
	for _, sp := range t.Species {
		sp.Distribute(t.Geom, s)
	}
}

// ManageBeam injects any beam bunches scheduled to fire at tNow (§4.5
// manage_beam).
func (t *Tile) ManageBeam(tNow float64, step int) {
	s := t.stream("beam", step)
	for _, sp := range t.Species {
		sp.ManageBeam(tNow, t.Geom, s)
	}
}

// WeightFieldH runs the FDTD half-update of H (§4.5 weight_field_h).
func (t *Tile) WeightFieldH() {
	t.Field.WeightFieldH(t.Geom, t.DT)
}

// WeightFieldE runs the FDTD update of E from curl H minus current
// (§4.5 weight_field_e).
func (t *Tile) WeightFieldE() {
	t.Field.WeightFieldE(t.Geom, t.Current.J, t.DT)
}

// ResetCurrent zeroes j (§4.5 reset_current).
func (t *Tile) ResetCurrent() {
	t.Current.Reset()
}

// PushParticles runs the Boris mover on every alive particle (§4.5
// push_particles).
func (t *Tile) PushParticles() error {
	for _, sp := range t.Species {
		for _, p := range sp.Particles() {
			if err := pusher.Push(p, t.Field.E, t.Field.HAtET, t.Geom, t.DT); err != nil {
				return err
			}
		}
	}
	return nil
}

// DumpPositionsToOld snapshots (r, z) into (r_old, z_old) for every
// alive particle (§4.5 dump_particle_positions_to_old). Calling it
// twice in a row with no intervening push leaves (r_old, z_old)
// unchanged (invariant 7, §8).
func (t *Tile) DumpPositionsToOld() {
	for _, sp := range t.Species {
		for _, p := range sp.Particles() {
			if p.Alive {
				p.SaveOld()
			}
		}
	}
}

// UpdateCoordsAtHalf advances every alive particle's position by
// v*dtHalf, rotating the transverse velocity back into the (r, phi, z)
// basis (§4.5 update_particles_coords_at_half /
// particles_back_position_to_rz / particles_back_velocity_to_rz, fused
// per pusher.AdvanceHalf's doc comment).
func (t *Tile) UpdateCoordsAtHalf(dtHalf float64) {
	for _, sp := range t.Species {
		for _, p := range sp.Particles() {
			pusher.AdvanceHalf(p, dtHalf)
		}
	}
}

// Reflect applies wall/axis reflection to every alive particle (§4.5
// reflect).
func (t *Tile) Reflect() {
	for _, sp := range t.Species {
		for _, p := range sp.Particles() {
			pusher.Reflect(p, t.Geom)
		}
	}
}

// WeightCurrentAzimuthal deposits j_phi for every alive particle (§4.5
// weight_current_azimuthal).
func (t *Tile) WeightCurrentAzimuthal() error {
	for _, sp := range t.Species {
		for _, p := range sp.Particles() {
			if err := t.Current.DepositAzimuthal(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// WeightCurrent deposits j_r and j_z with trajectory splitting for
// every alive particle (§4.5 weight_current).
func (t *Tile) WeightCurrent() error {
	for _, sp := range t.Species {
		for _, p := range sp.Particles() {
			if err := t.Current.Deposit(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// Collide runs the per-cell binary-collision pass (§4.7, C8) over this
// tile's electron and ion populations. It is not named among the §4.5
// phase table's entries, but the data-flow summary of §2 ("collision
// pass rescatters velocities") places it after the field update and
// before output, so the driver (§4.8) invokes it once per tick after
// Phase C. Pairing is binned per grid cell (i, j): the original's
// collide() (original_source/src/collisionsSentokuM.cpp:258-261) never
// pairs particles from different cells, so electrons and ions are
// grouped by cell before Pairing runs on each cell's lists in turn.
func (t *Tile) Collide(tE, tI float64, densityEl, densityIon, temperatureEl float64, wRatioOverride float64, step int) {
	cells := t.electronsAndIonsByCell()
	if len(cells) == 0 {
		return
	}

	stream := t.stream("collision", step)
	stats := collisionStats(densityEl, densityIon, temperatureEl)

	ta77 := collision.TA77Kernel{}
	var sentoku *collision.SentokuMKernel

	for _, cell := range cells {
		electrons := shuffled(cell.electrons, stream)
		ions := shuffled(cell.ions, stream)
		pairs := collision.Pairing(electrons, ions)

		for _, pair := range pairs {
			if sameSign(pair.A.Charge, pair.B.Charge) {
				ta77.Scatter(pair.A, pair.B, stats, t.DT, stream)
				continue
			}
			if sentoku == nil {
				sentoku = collision.NewSentokuMKernel(tE, densityEl, tI, densityIon, wRatioOverride)
			}
			sentoku.Scatter(pair.A, pair.B, stats, t.DT, stream)
		}
	}
}

// cellKey locates a grid cell within this tile's own geometry.
type cellKey struct {
	I, J int
}

// cellParticles holds one cell's alive electron and ion populations.
type cellParticles struct {
	electrons, ions []*particle.Particle
}

// electronsAndIonsByCell groups every alive particle in this tile by
// the grid cell its (r, z) position falls into, splitting each cell's
// population into electrons and ions.
func (t *Tile) electronsAndIonsByCell() map[cellKey]*cellParticles {
	cells := make(map[cellKey]*cellParticles)
	for _, sp := range t.Species {
		for _, p := range sp.Particles() {
			if !p.Alive {
				continue
			}
			key := cellKey{
				I: geometry.CellNumber(p.R, t.Geom.DR),
				J: geometry.CellNumber(p.Z, t.Geom.DZ),
			}
			cell := cells[key]
			if cell == nil {
				cell = &cellParticles{}
				cells[key] = cell
			}
			if p.Charge < 0 {
				cell.electrons = append(cell.electrons, p)
			} else {
				cell.ions = append(cell.ions, p)
			}
		}
	}
	return cells
}

func sameSign(a, b float64) bool {
	return (a < 0) == (b < 0)
}

// collisionStats builds the per-cell context collision.Scatter needs.
// collision.cellStats is unexported but structurally identical to this
// anonymous struct, so Go's structural assignability lets it cross the
// package boundary without an exported alias.
func collisionStats(densityEl, densityIon, temperatureEl float64) struct {
	DensityEl, DensityIon, TemperatureEl float64
} {
	return struct {
		DensityEl, DensityIon, TemperatureEl float64
	}{densityEl, densityIon, temperatureEl}
}

func shuffled(ps []*particle.Particle, s *prng.Stream) []*particle.Particle {
	perm := s.Perm(len(ps))
	out := make([]*particle.Particle, len(ps))
	for i, idx := range perm {
		out[i] = ps[idx]
	}
	return out
}
