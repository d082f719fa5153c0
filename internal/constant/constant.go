// Package constant holds the physical and mathematical constants shared
// across the simulation kernel.
package constant

const (
	// Pi is the ratio of circumference to diameter.
	Pi = 3.1415926535897932

	// Epsilon0 is the vacuum permittivity, F*m^-1.
	Epsilon0 = 8.85e-12

	// ElectronMass is the electron rest mass, kg.
	ElectronMass = 9.1e-31

	// ElectronCharge is the elementary charge, coulomb.
	ElectronCharge = 1.6e-19

	// ProtonMass is the proton rest mass, kg.
	ProtonMass = 1.673e-27

	// LightVel is the speed of light in vacuum, m/s.
	LightVel = 3.0e8

	// LightVelSq is LightVel squared, precomputed to save a multiply on hot paths.
	LightVelSq = LightVel * LightVel

	// MagnConst is the vacuum permeability, m*kg*s^-2*A^-2.
	MagnConst = 1.26e-6

	// MNZL is the Minimal Non-Zeroing Limit: distances or velocities
	// smaller than this are treated as zero.
	MNZL = 1e-15
)
