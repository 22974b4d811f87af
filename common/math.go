package common

import "math"

// DefaultGravity is the downward acceleration used when a scene does not
// configure one.
const DefaultGravity = -9.81

// DefaultFixedTimeStep is the integrator sub-step in seconds.
const DefaultFixedTimeStep = 1.0 / 60.0

// MinFixedTimeStep is the smallest sub-step the integrator accepts.
const MinFixedTimeStep = 0.001

// MinMass is the floor applied by RigidBody.SetMass.
const MinMass = 0.001

// Epsilon guards divisions by near-zero lengths in the narrow phase.
const Epsilon = 1e-4

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Sign returns 1 for strictly positive values and -1 otherwise.
func Sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ApproxEqual reports whether a and b differ by at most tol.
func ApproxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
