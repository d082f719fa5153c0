// Package particle implements the per-species macro-particle store (§3,
// C2): flat particle records plus the two species kinds (background
// plasma, beam) that populate and repopulate them.
package particle

import "math"

// Particle is a single macro-particle: two-position-plus-three-velocity
// in the cylindrical (r, phi, z) basis, per §3. phi is carried only in
// the velocity; the position is the 2D (r, z) pair, with the azimuthal
// position implicit by rotational symmetry.
type Particle struct {
	ID int64

	R, Z         float64
	ROld, ZOld   float64
	VR, VPhi, VZ float64

	Charge, Mass float64
	Alive        bool
}

// SpeedSq returns |v|^2 = v_r^2 + v_phi^2 + v_z^2, tested against c^2 by
// the pusher (invariant 2 of §8).
func (p *Particle) SpeedSq() float64 {
	return p.VR*p.VR + p.VPhi*p.VPhi + p.VZ*p.VZ
}

// Gamma returns the relativistic Lorentz factor for the particle's
// current velocity. lightVelSq is passed in rather than imported from
// internal/constant to keep this package free of a physics-constant
// dependency; callers pass constant.LightVelSq.
func (p *Particle) Gamma(lightVelSq float64) float64 {
	beta2 := p.SpeedSq() / lightVelSq
	return 1.0 / math.Sqrt(1.0-beta2)
}

// SaveOld snapshots (r, z) into (r_old, z_old), used by
// dump_particle_positions_to_old (§4.5) ahead of a push.
func (p *Particle) SaveOld() {
	p.ROld, p.ZOld = p.R, p.Z
}
