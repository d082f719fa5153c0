// Package vector provides the small 3-component vector type shared by
// fields, currents, and particle velocities (radial, azimuthal, and
// longitudinal components in the cylindrical (r, phi, z) frame).
package vector

import "math"

// Vec3 is a 3-component vector: R (radial), Phi (azimuthal), Z (longitudinal).
type Vec3 struct {
	R, Phi, Z float64
}

// New creates a new Vec3.
func New(r, phi, z float64) Vec3 {
	return Vec3{R: r, Phi: phi, Z: z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{R: v.R + other.R, Phi: v.Phi + other.Phi, Z: v.Z + other.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{R: v.R - other.R, Phi: v.Phi - other.Phi, Z: v.Z - other.Z}
}

// Scale returns the vector scaled by a scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{R: v.R * s, Phi: v.Phi * s, Z: v.Z * s}
}

// Length2 returns the squared magnitude of the vector.
func (v Vec3) Length2() float64 {
	return v.R*v.R + v.Phi*v.Phi + v.Z*v.Z
}

// Length returns the magnitude of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Length2())
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.R*other.R + v.Phi*other.Phi + v.Z*other.Z
}

// Cross returns the cross product of two vectors, treating (R, Phi, Z)
// as ordinary Cartesian axes for the rotation math that needs it (Boris
// rotation, collision-frame boosts).
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		R:   v.Phi*other.Z - v.Z*other.Phi,
		Phi: v.Z*other.R - v.R*other.Z,
		Z:   v.R*other.Phi - v.Phi*other.R,
	}
}
