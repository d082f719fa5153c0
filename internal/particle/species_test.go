package particle

import (
	"testing"

	"picopic-go/internal/geometry"
	"picopic-go/internal/prng"
)

func testGeometry(t *testing.T) *geometry.Geometry {
	t.Helper()
	g, err := geometry.New(1.0, 1.0, 0, 10, 0, 10, 10, 10, geometry.PML{}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	return g
}

func TestBackgroundDistributePopulatesMacroAmount(t *testing.T) {
	g := testGeometry(t)
	stream := prng.NewSeedMap(1).Substream(0, 0, "distribute", 0)

	b := NewBackground("electron", 0, 9.11e-31, -1.6e-19, 50, 1e18, 1e18, 1e-19)
	b.Distribute(g, stream)

	if len(b.Particles()) != 50 {
		t.Fatalf("expected 50 particles, got %d", len(b.Particles()))
	}
	for _, p := range b.Particles() {
		if !p.Alive {
			t.Errorf("distributed particle should be alive")
		}
		if p.R < 0 || p.R >= g.RSize || p.Z < 0 || p.Z >= g.ZSize {
			t.Errorf("particle out of tile bounds: r=%v z=%v", p.R, p.Z)
		}
	}
}

func TestBeamManageBeamFiresOnSchedule(t *testing.T) {
	g := testGeometry(t)
	stream := prng.NewSeedMap(1).Substream(0, 0, "beam", 0)

	beam := NewBeam("driver", 1, 9.11e-31, -1.6e-19, 20, 1.0, 0.1, 1e18, 2, 0.05, 2.0, 1e8)

	if got := beam.ManageBeam(0.5, g, stream); got != nil {
		t.Errorf("expected no injection before start time, got %d particles", len(got))
	}

	batch := beam.ManageBeam(1.0, g, stream)
	if len(batch) != 10 {
		t.Fatalf("expected 10 particles in first bunch, got %d", len(batch))
	}
	if len(beam.Particles()) != 10 {
		t.Errorf("expected beam to retain injected particles, got %d", len(beam.Particles()))
	}

	if got := beam.ManageBeam(1.0, g, stream); got != nil {
		t.Errorf("expected no second injection before next bunch's schedule, got %d", len(got))
	}

	second := beam.ManageBeam(3.0, g, stream)
	if len(second) != 10 {
		t.Fatalf("expected second bunch of 10, got %d", len(second))
	}

	if got := beam.ManageBeam(100.0, g, stream); got != nil {
		t.Errorf("expected no injection after bunches exhausted, got %d", len(got))
	}
}
