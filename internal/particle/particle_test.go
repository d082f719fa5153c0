package particle

import (
	"math"
	"testing"
)

const testLightVelSq = 8.98755178737e16 // c^2 in SI

func TestSpeedSq(t *testing.T) {
	p := &Particle{VR: 3, VPhi: 4, VZ: 0}
	if got := p.SpeedSq(); got != 25 {
		t.Errorf("SpeedSq: expected 25, got %v", got)
	}
}

func TestGammaAtRest(t *testing.T) {
	p := &Particle{}
	if got := p.Gamma(testLightVelSq); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Gamma at rest: expected 1.0, got %v", got)
	}
}

func TestSaveOld(t *testing.T) {
	p := &Particle{R: 1.5, Z: 2.5}
	p.SaveOld()
	if p.ROld != 1.5 || p.ZOld != 2.5 {
		t.Errorf("SaveOld: expected (1.5, 2.5), got (%v, %v)", p.ROld, p.ZOld)
	}
	p.R, p.Z = 9, 9
	if p.ROld == p.R {
		t.Errorf("SaveOld snapshot should not track subsequent mutation")
	}
}
