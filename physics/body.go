package physics

import "github.com/jakecoffman/cp"

// Mask selects which collision layers a cast can hit. The zero mask matches
// every layer.
type Mask uint

const MaskAll Mask = ^Mask(0)

// OrAll maps the zero mask to MaskAll.
func (m Mask) OrAll() Mask {
	if m == 0 {
		return MaskAll
	}
	return m
}

// Hit is the first contact of a cast.
type Hit struct {
	Point    cp.Vector
	Distance float64
}

// Constraint is an opaque handle to a distance constraint between a body and
// a fixed world point. The zero handle refers to nothing.
type Constraint uint32

// Body is the capability set the ability core needs from a physics engine.
// Casts never report the body's own shapes.
type Body interface {
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	GravityScale() float64
	SetGravityScale(g float64)
	Position() cp.Vector
	Mass() float64
	// ApplyImpulse changes velocity by j / mass immediately.
	ApplyImpulse(j cp.Vector)

	Raycast(origin, dir cp.Vector, maxDist float64, mask Mask) (Hit, bool)
	Linecast(a, b cp.Vector, mask Mask) (Hit, bool)

	// CreateDistanceConstraint returns a disabled constraint holding the
	// body at restLength from anchor once enabled.
	CreateDistanceConstraint(anchor cp.Vector, restLength float64) Constraint
	SetConstraintEnabled(c Constraint, enabled bool)
	SetConstraintDistance(c Constraint, d float64)
	SetConstraintAnchor(c Constraint, anchor cp.Vector)
	ConstraintAnchor(c Constraint) cp.Vector
	DestroyConstraint(c Constraint)
}
