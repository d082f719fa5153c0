package migration

import (
	"testing"

	"picopic-go/internal/geometry"
	"picopic-go/internal/particle"
	"picopic-go/internal/prng"
	"picopic-go/internal/tile"
	"picopic-go/internal/vector"
)

func vectorOne() vector.Vec3 { return vector.New(1, 0, 0) }

type stubSpecie struct {
	id        int
	charge    float64
	particles []*particle.Particle
}

func (s *stubSpecie) Name() string                   { return "stub" }
func (s *stubSpecie) Id() int                         { return s.id }
func (s *stubSpecie) Charge() float64                 { return s.charge }
func (s *stubSpecie) Mass() float64                   { return 9.11e-31 }
func (s *stubSpecie) Particles() []*particle.Particle { return s.particles }
func (s *stubSpecie) AddParticle(p *particle.Particle) {
	s.particles = append(s.particles, p)
}
func (s *stubSpecie) SetParticles(ps []*particle.Particle) { s.particles = ps }
func (s *stubSpecie) Distribute(geom *geometry.Geometry, stream *prng.Stream) {}
func (s *stubSpecie) ManageBeam(tNow float64, geom *geometry.Geometry, stream *prng.Stream) []*particle.Particle {
	return nil
}

func buildGrid(t *testing.T, rows, cols int) *Grid {
	t.Helper()
	g := &Grid{Tiles: make([][]*tile.Tile, rows)}
	for i := 0; i < rows; i++ {
		g.Tiles[i] = make([]*tile.Tile, cols)
		for j := 0; j < cols; j++ {
			geom, err := geometry.New(1.0, 1.0, i*2, (i+1)*2, j*2, (j+1)*2, 2, 2, geometry.PML{}, geometry.Walls{})
			if err != nil {
				t.Fatalf("geometry.New: %v", err)
			}
			sp := &stubSpecie{id: 0, charge: -1.6e-19}
			g.Tiles[i][j] = tile.New(i, j, geom, 1e-12, prng.NewSeedMap(1), []particle.Specie{sp})
		}
	}
	return g
}

func TestTileRowsAndColsDistinctDimensions(t *testing.T) {
	g := buildGrid(t, 2, 3)
	if g.TileRows() != 2 {
		t.Errorf("TileRows() = %d, want 2", g.TileRows())
	}
	if g.TileCols() != 3 {
		t.Errorf("TileCols() = %d, want 3 (the original's copy-paste bug would give 2)", g.TileCols())
	}
}

func TestCollectRemovesOutOfDomainParticle(t *testing.T) {
	g := buildGrid(t, 1, 1)
	sp := g.Tiles[0][0].Species[0].(*stubSpecie)
	sp.particles = []*particle.Particle{
		{R: -0.5, Z: 0.5, Alive: true},
	}

	stats := Collect(g, g.Tiles[0][0].Geom)
	if stats.Removed != 1 {
		t.Errorf("expected 1 removed particle, got %d", stats.Removed)
	}
	if len(sp.Particles()) != 0 {
		t.Errorf("expected particle to be gone, got %d remaining", len(sp.Particles()))
	}
}

func TestCollectMigratesParticleAcrossRBoundary(t *testing.T) {
	g := buildGrid(t, 2, 1)
	srcSp := g.Tiles[0][0].Species[0].(*stubSpecie)
	dstSp := g.Tiles[1][0].Species[0].(*stubSpecie)

	srcSp.particles = []*particle.Particle{
		{R: 1.01, Z: 0.5, Alive: true},
	}

	globalGeom, err := geometry.New(2.0, 1.0, 0, 4, 0, 2, 4, 2, geometry.PML{}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}

	stats := Collect(g, globalGeom)
	if stats.Jumped != 1 {
		t.Fatalf("expected 1 jumped particle, got %d", stats.Jumped)
	}
	if len(srcSp.Particles()) != 0 {
		t.Errorf("expected particle removed from source tile, got %d", len(srcSp.Particles()))
	}
	if len(dstSp.Particles()) != 1 {
		t.Fatalf("expected particle to land in destination tile, got %d", len(dstSp.Particles()))
	}
	if got := dstSp.Particles()[0].R; got < 0 || got >= 1.0 {
		t.Errorf("expected migrated particle's R to be re-expressed in destination tile's local frame, got %v", got)
	}
}

func TestCollectDropsParticleCrossingPastGridEdge(t *testing.T) {
	g := buildGrid(t, 1, 1)
	sp := g.Tiles[0][0].Species[0].(*stubSpecie)
	sp.particles = []*particle.Particle{
		{R: 0.5, Z: 1.01, Alive: true},
	}

	stats := Collect(g, g.Tiles[0][0].Geom)
	if stats.Removed != 1 {
		t.Errorf("expected particle crossing past the last tile's edge to be removed, got stats=%+v", stats)
	}
}

func TestReduceSeamsFoldsCurrentIntoNeighbor(t *testing.T) {
	g := buildGrid(t, 2, 2)
	src := g.Tiles[0][0]
	src.Current.J.Set(src.Geom.RGridAmount, 0, vectorOne())

	Collect(g, g.Tiles[0][0].Geom)

	dst := g.Tiles[1][0]
	if got := dst.Current.J.At(0, 0); got.R != 1.0 {
		t.Errorf("expected right-edge current to fold into the r+1 neighbor's core edge, got %+v", got)
	}
}
