package collision

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"picopic-go/internal/constant"
	"picopic-go/internal/particle"
	"picopic-go/internal/prng"
	"picopic-go/internal/vector"
)

// SentokuMKernel is the relativistic center-of-momentum scatter,
// grounded on collisionsSentokuM.cpp's collide_single: Lorentz-boost to
// the CM frame, identify the lighter particle, scatter by (theta, phi),
// boost back. WRatio decides which particle is treated as the lighter
// "a" particle (REDESIGN FLAG of §9: the source hard-codes this to 2;
// here it is a configurable field that defaults, via NewSentokuMKernel,
// to the real weight ratio m_a*n_b / (m_b*n_a)).
type SentokuMKernel struct {
	WRatio float64
}

// NewSentokuMKernel builds a kernel defaulting WRatio to the species
// weight ratio unless override is nonzero.
func NewSentokuMKernel(massA, densityA, massB, densityB, override float64) *SentokuMKernel {
	ratio := override
	if ratio == 0 {
		ratio = massA * densityB / (massB * densityA)
	}
	return &SentokuMKernel{WRatio: ratio}
}

// Scatter performs one collide_single update on the pair (a, b) in
// place. It returns false (a no-op) when any gate in §4.7 fails.
func (k *SentokuMKernel) Scatter(a, b *particle.Particle, stats cellStats, dt float64, stream *prng.Stream) bool {
	massA, massB := a.Mass, b.Mass
	chargeA, chargeB := a.Charge, b.Charge
	vA := vector.New(a.VR, a.VPhi, a.VZ)
	vB := vector.New(b.VR, b.VPhi, b.VZ)
	swap := false

	if k.WRatio > 1 {
		vA, vB = vB, vA
		massA, massB = massB, massA
		chargeA, chargeB = chargeB, chargeA
		swap = true
	}

	gammaA := lorentzFactor(vA.Length2())
	gammaB := lorentzFactor(vB.Length2())

	vCm := vA.Scale(gammaA * massA).Add(vB.Scale(gammaB * massB)).Scale(1 / (gammaA*massA + gammaB*massB))
	gammaCm := lorentzFactor(vCm.Length2())

	vACm := boostToCM(vA, vCm, gammaCm)
	vBCm := boostToCM(vB, vCm, gammaCm)
	gammaACm := lorentzFactor(vACm.Length2())
	gammaBCm := lorentzFactor(vBCm.Length2())

	pACm := vACm.Scale(massA * gammaACm)
	pBCm := vBCm.Scale(massB * gammaBCm)
	pCm := pACm

	vRel := vACm.Sub(vBCm).Scale(1 / (1 - vACm.Dot(vBCm)/constant.LightVelSq))
	pRel := pBCm.Sub(pACm)

	if !admissible(pRel.Length2(), vRel.Length2(), stats) {
		return false
	}

	debye := debyeLength(stats.DensityEl, stats.TemperatureEl)
	lnLambda := coulombLogarithm(massA, massB, debye, vRel.Length())
	if lnLambda <= 0 {
		return false
	}

	mAB := massA * massB / (massA + massB)
	varianceD := chargeA * chargeA * chargeB * chargeB * stats.densityLowest() * lnLambda /
		(8 * constant.Pi * constant.Epsilon0 * constant.Epsilon0 * mAB * pCm.Length2() * vCm.Length()) * dt
	if varianceD < 0 || math.IsNaN(varianceD) {
		return false
	}
	stdDevD := math.Sqrt(varianceD)

	normal := distuv.Normal{Mu: 0, Sigma: stdDevD, Src: stream.XRandSource()}
	delta := normal.Rand()

	sinTheta := 2 * delta / (1 + delta*delta)
	cosTheta := 1 - 2*delta*delta/(1+delta*delta)

	phiAngle := distuv.Uniform{Min: 0, Max: 2 * constant.Pi, Src: stream.XRandSource()}.Rand()
	sinPhi, cosPhi := math.Sin(phiAngle), math.Cos(phiAngle)

	pCmAbs := pCm.Length()
	pCmPrp := math.Sqrt(pCm.R*pCm.R + pCm.Phi*pCm.Phi)
	if pCmPrp < constant.MNZL {
		return false
	}

	dP := vector.Vec3{
		R: pCm.R*pCm.Z/pCmPrp*sinTheta*cosPhi - pCm.Phi*pCmAbs/pCmPrp*sinTheta*sinPhi - pCm.R*(1-cosTheta),
		Phi: pCm.Phi*pCm.Z/pCmPrp*sinTheta*cosPhi + pCm.R*pCmAbs/pCmPrp*sinTheta*sinPhi - pCm.R*(1-cosTheta),
		Z: -pCmPrp*sinTheta*cosPhi - pCm.Z*(1-cosTheta),
	}

	pABarCm := pACm.Add(dP)
	pBBarCm := pBCm.Sub(dP)

	vABarCm := pABarCm.Scale(1 / (gammaACm * massA))
	vBBarCm := pBBarCm.Scale(1 / (gammaBCm * massB))

	vABar := boostFromCM(vABarCm, vCm, gammaCm)
	vBBar := boostFromCM(vBBarCm, vCm, gammaCm)

	if swap {
		vABar, vBBar = vBBar, vABar
	}
	a.VR, a.VPhi, a.VZ = vABar.R, vABar.Phi, vABar.Z
	b.VR, b.VPhi, b.VZ = vBBar.R, vBBar.Phi, vBBar.Z
	return true
}

// boostToCM boosts v from the lab frame into the frame moving at vCm.
func boostToCM(v, vCm vector.Vec3, gammaCm float64) vector.Vec3 {
	if vCm.Length2() == 0 {
		return v
	}
	out := vCm.Scale(vCm.Dot(v) * (gammaCm - 1) / vCm.Length2())
	out = out.Add(v)
	out = out.Sub(vCm.Scale(gammaCm))
	return out.Scale(1 / (gammaCm * (1 - vCm.Dot(v)/constant.LightVelSq)))
}

// boostFromCM is the inverse of boostToCM: boosts v from the frame
// moving at vCm back into the lab frame.
func boostFromCM(v, vCm vector.Vec3, gammaCm float64) vector.Vec3 {
	if vCm.Length2() == 0 {
		return v
	}
	out := vCm.Scale(vCm.Dot(v) * (gammaCm - 1) / vCm.Length2())
	out = out.Add(v)
	out = out.Add(vCm.Scale(gammaCm))
	return out.Scale(1 / (gammaCm * (1 + vCm.Dot(v)/constant.LightVelSq)))
}
