package collision

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"picopic-go/internal/constant"
	"picopic-go/internal/particle"
	"picopic-go/internal/prng"
	"picopic-go/internal/vector"
)

// TA77Kernel is the non-relativistic like-like scatter of Takizuka &
// Abe 1977 (§4.7), grounded on the declared collide_single shape in
// collisionsTA77S.hpp and on the sigma^2/theta/phi formulas of spec
// §4.7 directly (the original TA77 source file was not part of the
// retrieved pack; collisionsSentokuM.cpp's relativistic variant supplies
// the shared rotation and pairing structure this kernel mirrors in the
// non-relativistic limit).
type TA77Kernel struct{}

// Scatter performs one TA77 small-angle scattering update on the pair
// (a, b) in place. Returns false (a no-op) when any gate in §4.7 fails.
func (TA77Kernel) Scatter(a, b *particle.Particle, stats cellStats, dt float64, stream *prng.Stream) bool {
	massA, massB := a.Mass, b.Mass
	chargeA, chargeB := a.Charge, b.Charge
	vA := vector.New(a.VR, a.VPhi, a.VZ)
	vB := vector.New(b.VR, b.VPhi, b.VZ)

	vRel := vA.Sub(vB)
	mu := massA * massB / (massA + massB)
	pRel := vRel.Scale(mu)

	if !admissible(pRel.Length2(), vRel.Length2(), stats) {
		return false
	}

	vRelLen := vRel.Length()
	if vRelLen < constant.MNZL {
		return false
	}

	debye := debyeLength(stats.DensityEl, stats.TemperatureEl)
	lnLambda := coulombLogarithm(massA, massB, debye, vRelLen)
	if lnLambda <= 0 {
		return false
	}

	variance := chargeA * chargeA * chargeB * chargeB * stats.densityLowest() * lnLambda /
		(8 * constant.Pi * constant.Epsilon0 * constant.Epsilon0 * mu * mu * pRel.Length2() * vRelLen) * dt
	if variance < 0 || math.IsNaN(variance) {
		return false
	}
	stdDev := math.Sqrt(variance)

	normal := distuv.Normal{Mu: 0, Sigma: stdDev, Src: stream.XRandSource()}
	delta := normal.Rand()
	sinTheta := 2 * delta / (1 + delta*delta)
	cosTheta := 1 - 2*delta*delta/(1+delta*delta)

	phiAngle := distuv.Uniform{Min: 0, Max: 2 * constant.Pi, Src: stream.XRandSource()}.Rand()
	sinPhi, cosPhi := math.Sin(phiAngle), math.Cos(phiAngle)

	axis := vRel.Scale(1 / vRelLen)
	perp1, perp2 := orthonormalBasis(axis)
	rotated := axis.Scale(cosTheta).
		Add(perp1.Scale(sinTheta * cosPhi)).
		Add(perp2.Scale(sinTheta * sinPhi))
	newVRel := rotated.Scale(vRelLen)

	comVelocity := vA.Scale(massA).Add(vB.Scale(massB)).Scale(1 / (massA + massB))
	newVA := comVelocity.Add(newVRel.Scale(massB / (massA + massB)))
	newVB := comVelocity.Sub(newVRel.Scale(massA / (massA + massB)))

	a.VR, a.VPhi, a.VZ = newVA.R, newVA.Phi, newVA.Z
	b.VR, b.VPhi, b.VZ = newVB.R, newVB.Phi, newVB.Z
	return true
}

// orthonormalBasis returns two unit vectors perpendicular to axis (and
// to each other), used to rotate the relative velocity by the drawn
// (theta, phi) scattering angles.
func orthonormalBasis(axis vector.Vec3) (vector.Vec3, vector.Vec3) {
	ref := vector.Vec3{R: 1}
	if math.Abs(axis.R) > 0.9 {
		ref = vector.Vec3{Phi: 1}
	}
	perp1 := axis.Cross(ref)
	perp1 = perp1.Scale(1 / perp1.Length())
	perp2 := axis.Cross(perp1)
	return perp1, perp2
}
