package particle

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"picopic-go/internal/geometry"
	"picopic-go/internal/prng"
)

// Specie is the tagged-variant interface from Design Notes §9:
// Background and Beam share particle storage but differ in how
// they populate it. Id distinguishes species for migration (a particle
// moving tiles must be appended to the matching species' list) and for
// collision pairing (electrons vs. ions).
type Specie interface {
	Name() string
	Id() int
	Charge() float64
	Mass() float64
	Particles() []*Particle
	AddParticle(p *Particle)
	SetParticles(ps []*Particle)

	// Distribute performs the initial spatial+velocity distribution for
	// this tile's slice of the species (§4.5 distribute).
	Distribute(geom *geometry.Geometry, stream *prng.Stream)

	// ManageBeam injects the batch of macro-particles, if any, that
	// becomes active at the given simulation time for this tile's slice
	// of the beam footprint (§4.5 manage_beam). Background always
	// returns nil.
	ManageBeam(tNow float64, geom *geometry.Geometry, stream *prng.Stream) []*Particle
}

// Background is a bulk plasma species distributed once at t=0 from a
// density profile and a Maxwell-Juttner-like thermal spread. Grounded on
// the teacher's InitializeParticles (internal/physics/particle_initialization.go),
// generalized from uniform-placement-only to a density-weighted
// cylindrical sample with a thermal velocity draw.
type Background struct {
	name                    string
	id                      int
	mass, charge            float64
	macroAmount             int
	leftDensity, rightDensity float64
	temperature             float64

	particles []*Particle
}

// NewBackground constructs a background species descriptor. Particles
// are populated later by Distribute.
func NewBackground(name string, id int, mass, charge float64, macroAmount int, leftDensity, rightDensity, temperature float64) *Background {
	return &Background{
		name:          name,
		id:            id,
		mass:          mass,
		charge:        charge,
		macroAmount:   macroAmount,
		leftDensity:   leftDensity,
		rightDensity:  rightDensity,
		temperature:   temperature,
	}
}

func (b *Background) Name() string             { return b.name }
func (b *Background) Id() int                  { return b.id }
func (b *Background) Charge() float64           { return b.charge }
func (b *Background) Mass() float64             { return b.mass }
func (b *Background) Particles() []*Particle    { return b.particles }
func (b *Background) AddParticle(p *Particle)   { b.particles = append(b.particles, p) }
func (b *Background) SetParticles(ps []*Particle) { b.particles = ps }

// densityAt linearly interpolates the species' left/right density
// profile across the tile's local z extent.
func (b *Background) densityAt(z, zSize float64) float64 {
	if zSize <= 0 {
		return b.leftDensity
	}
	frac := z / zSize
	return b.leftDensity + (b.rightDensity-b.leftDensity)*frac
}

// Distribute places macroAmount particles uniformly over the tile's
// (r, z) extent, thinned by rejection against the local density profile,
// then draws a thermal 3-velocity per particle from a Gaussian with
// sigma = sqrt(T/mass) (a Maxwell-Juttner spread in the non-relativistic
// limit, matching the teacher's single-moment thermal treatment).
func (b *Background) Distribute(geom *geometry.Geometry, stream *prng.Stream) {
	if b.macroAmount <= 0 {
		return
	}

	maxDensity := math.Max(b.leftDensity, b.rightDensity)
	if maxDensity <= 0 {
		maxDensity = 1
	}

	sigma := math.Sqrt(math.Abs(b.temperature) / b.mass)
	vSrc := stream.XRandSource()
	normal := distuv.Normal{Mu: 0, Sigma: sigma, Src: vSrc}

	particles := make([]*Particle, 0, b.macroAmount)
	nextID := int64(0)
	for len(particles) < b.macroAmount {
		r := stream.Float64() * geom.RSize
		z := stream.Float64() * geom.ZSize
		if stream.Float64()*maxDensity > b.densityAt(z, geom.ZSize) {
			continue
		}
		particles = append(particles, &Particle{
			ID:     nextID,
			R:      r,
			Z:      z,
			ROld:   r,
			ZOld:   z,
			VR:     normal.Rand(),
			VPhi:   normal.Rand(),
			VZ:     normal.Rand(),
			Charge: b.charge,
			Mass:   b.mass,
			Alive:  true,
		})
		nextID++
	}
	b.particles = particles
}

// ManageBeam is a no-op for background species.
func (b *Background) ManageBeam(tNow float64, geom *geometry.Geometry, stream *prng.Stream) []*Particle {
	return nil
}

// Beam is a time-gated bunch-injection species with no teacher
// equivalent; grounded on original_source/src/PicoPIC.cpp's BeamP
// construction and the bunch parameters of §6.
type Beam struct {
	name         string
	id           int
	mass, charge float64
	macroAmount  int
	startTime    float64
	bunchRadius  float64
	density      float64
	bunchesAmount int
	bunchLength  float64
	bunchesDistance float64
	velocity     float64

	particles     []*Particle
	bunchesFired  int
	nextID        int64
}

// NewBeam constructs a beam species descriptor.
func NewBeam(name string, id int, mass, charge float64, macroAmount int, startTime, bunchRadius, density float64, bunchesAmount int, bunchLength, bunchesDistance, velocity float64) *Beam {
	return &Beam{
		name:            name,
		id:              id,
		mass:            mass,
		charge:          charge,
		macroAmount:     macroAmount,
		startTime:       startTime,
		bunchRadius:     bunchRadius,
		density:         density,
		bunchesAmount:   bunchesAmount,
		bunchLength:     bunchLength,
		bunchesDistance: bunchesDistance,
		velocity:        velocity,
	}
}

func (b *Beam) Name() string              { return b.name }
func (b *Beam) Id() int                   { return b.id }
func (b *Beam) Charge() float64           { return b.charge }
func (b *Beam) Mass() float64             { return b.mass }
func (b *Beam) Particles() []*Particle    { return b.particles }
func (b *Beam) AddParticle(p *Particle)   { b.particles = append(b.particles, p) }
func (b *Beam) SetParticles(ps []*Particle) { b.particles = ps }

// Distribute is a no-op for beams; particles arrive through ManageBeam.
func (b *Beam) Distribute(geom *geometry.Geometry, stream *prng.Stream) {}

// ManageBeam injects the next bunch once its scheduled time has arrived,
// placing macroAmount/bunchesAmount particles per bunch at r uniform in
// [0, bunchRadius) and z uniform in [0, bunchLength) from z=0 of this
// tile's footprint (both clipped to the tile's extent), moving at the
// beam's longitudinal velocity.
func (b *Beam) ManageBeam(tNow float64, geom *geometry.Geometry, stream *prng.Stream) []*Particle {
	if b.bunchesFired >= b.bunchesAmount {
		return nil
	}
	fireTime := b.startTime + float64(b.bunchesFired)*b.bunchesDistance
	if tNow < fireTime {
		return nil
	}

	perBunch := b.macroAmount / b.bunchesAmount
	if perBunch <= 0 {
		perBunch = 1
	}

	batch := make([]*Particle, 0, perBunch)
	for k := 0; k < perBunch; k++ {
		r := stream.Float64() * math.Min(b.bunchRadius, geom.RSize)
		z := stream.Float64() * math.Min(b.bunchLength, geom.ZSize)
		p := &Particle{
			ID:     b.nextID,
			R:      r,
			Z:      z,
			ROld:   r,
			ZOld:   z,
			VZ:     b.velocity,
			Charge: b.charge,
			Mass:   b.mass,
			Alive:  true,
		}
		b.nextID++
		batch = append(batch, p)
	}
	b.particles = append(b.particles, batch...)
	b.bunchesFired++
	return batch
}
