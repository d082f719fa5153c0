package collision

import (
	"math"

	"picopic-go/internal/constant"
)

// cellStats is the per-cell physical context a scatter kernel needs
// beyond the two particles: electron/ion densities and electron
// temperature, collected by the tile from its distributed species
// (§4.7's get_el_density/get_ion_density/get_el_temperature).
type cellStats struct {
	DensityEl, DensityIon, TemperatureEl float64
}

func (s cellStats) densityLowest() float64  { return math.Min(s.DensityEl, s.DensityIon) }
func (s cellStats) densityHighest() float64 { return math.Max(s.DensityEl, s.DensityIon) }

// admissible implements the shared gate list of §4.7: a collision is
// skipped (idempotently, no velocity change) if relative momentum
// vanishes, relative velocity is below MNZL, electron density is
// non-positive, or electron temperature is not a positive finite number.
// The remaining gate, a non-positive Coulomb logarithm, is checked by
// each kernel after admissible passes, since lnLambda depends on the
// pair's relative speed.
func admissible(pRelSq, vRelSq float64, stats cellStats) bool {
	if pRelSq == 0 {
		return false
	}
	if vRelSq < constant.MNZL {
		return false
	}
	if stats.DensityEl <= 0 {
		return false
	}
	if math.IsNaN(stats.TemperatureEl) || math.IsInf(stats.TemperatureEl, 0) || stats.TemperatureEl <= 0 {
		return false
	}
	return true
}

// debyeLength computes lambda_D = sqrt(eps0 * T_e / (n_e * e^2))
// (§GLOSSARY).
func debyeLength(densityEl, temperatureEl float64) float64 {
	return math.Sqrt(constant.Epsilon0 * temperatureEl / (densityEl * constant.ElectronCharge * constant.ElectronCharge))
}

// coulombLogarithm bounds the Coulomb logarithm below by 0, computed
// from the classical distance-of-closest-approach b0 at the pair's
// reduced mass and relative speed.
func coulombLogarithm(massA, massB, debye, vRel float64) float64 {
	if vRel <= 0 {
		return 0
	}
	mu := massA * massB / (massA + massB)
	b0 := constant.ElectronCharge * constant.ElectronCharge / (4 * constant.Pi * constant.Epsilon0 * mu * vRel * vRel)
	if b0 <= 0 {
		return 0
	}
	return math.Max(0, math.Log(debye/b0))
}

// lorentzFactor returns 1/sqrt(1 - v^2/c^2), matching
// phys::rel::lorenz_factor in the original source.
func lorentzFactor(speedSq float64) float64 {
	return 1 / math.Sqrt(1-speedSq/constant.LightVelSq)
}
