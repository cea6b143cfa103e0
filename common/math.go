package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// NearZeroSq is the squared length below which a vector is treated as zero.
const NearZeroSq = 0.0001

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Sign returns 1 for v >= 0 and -1 otherwise. Zero counts as positive.
func Sign(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return -1
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + Sign(target-current)*maxDelta
}

// Normalize returns v scaled to unit length, or the zero vector when v is
// too short to have a meaningful direction.
func Normalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < 1e-5 {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

func IsNearZero(v cp.Vector) bool {
	return v.LengthSq() < NearZeroSq
}

func LerpVec(a, b cp.Vector, t float64) cp.Vector {
	return cp.Vector{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// SignedAngle returns the angle in degrees from `from` to `to`, positive
// counter-clockwise, in (-180, 180].
func SignedAngle(from, to cp.Vector) float64 {
	cross := from.X*to.Y - from.Y*to.X
	dot := from.X*to.X + from.Y*to.Y
	return math.Atan2(cross, dot) * 180 / math.Pi
}

// ClampLength rescales v down to max while keeping its direction. A max of
// zero or less disables the clamp.
func ClampLength(v cp.Vector, max float64) (cp.Vector, bool) {
	if max <= 0 {
		return v, false
	}
	l := v.Length()
	if l <= max {
		return v, false
	}
	return v.Mult(max / l), true
}

// Perp rotates v by 90 degrees counter-clockwise.
func Perp(v cp.Vector) cp.Vector {
	return cp.Vector{X: -v.Y, Y: v.X}
}
