// Package physicstest provides a deterministic physics.Body for tests.
package physicstest

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/physics"
)

type CastFunc func(origin, dir cp.Vector, maxDist float64, mask physics.Mask) (physics.Hit, bool)

type LineFunc func(a, b cp.Vector, mask physics.Mask) (physics.Hit, bool)

type Joint struct {
	Anchor   cp.Vector
	Distance float64
	Enabled  bool
}

// Body records every mutation and never moves on its own. Step integrates
// velocity and gravity when a test wants motion.
type Body struct {
	Pos     cp.Vector
	Vel     cp.Vector
	Gravity float64
	M       float64

	OnRaycast  CastFunc
	OnLinecast LineFunc
	// OnImpulse runs before each impulse is applied.
	OnImpulse  func(j cp.Vector)

	Impulses  []cp.Vector
	Joints    map[physics.Constraint]*Joint
	Destroyed []physics.Constraint
	nextID    physics.Constraint
}

var _ physics.Body = (*Body)(nil)

func New(pos cp.Vector) *Body {
	return &Body{Pos: pos, Gravity: 1, M: 1, Joints: make(map[physics.Constraint]*Joint)}
}

func (b *Body) Velocity() cp.Vector       { return b.Vel }
func (b *Body) SetVelocity(v cp.Vector)   { b.Vel = v }
func (b *Body) GravityScale() float64     { return b.Gravity }
func (b *Body) SetGravityScale(g float64) { b.Gravity = g }
func (b *Body) Position() cp.Vector       { return b.Pos }
func (b *Body) Mass() float64             { return b.M }

func (b *Body) ApplyImpulse(j cp.Vector) {
	if b.OnImpulse != nil {
		b.OnImpulse(j)
	}
	b.Impulses = append(b.Impulses, j)
	b.Vel = b.Vel.Add(j.Mult(1 / b.M))
}

func (b *Body) Raycast(origin, dir cp.Vector, maxDist float64, mask physics.Mask) (physics.Hit, bool) {
	if b.OnRaycast == nil {
		return physics.Hit{}, false
	}
	return b.OnRaycast(origin, dir, maxDist, mask)
}

func (b *Body) Linecast(a, c cp.Vector, mask physics.Mask) (physics.Hit, bool) {
	if b.OnLinecast == nil {
		return physics.Hit{}, false
	}
	return b.OnLinecast(a, c, mask)
}

func (b *Body) CreateDistanceConstraint(anchor cp.Vector, restLength float64) physics.Constraint {
	if b.Joints == nil {
		b.Joints = make(map[physics.Constraint]*Joint)
	}
	b.nextID++
	b.Joints[b.nextID] = &Joint{Anchor: anchor, Distance: restLength}
	return b.nextID
}

func (b *Body) SetConstraintEnabled(c physics.Constraint, enabled bool) {
	if j, ok := b.Joints[c]; ok {
		j.Enabled = enabled
	}
}

func (b *Body) SetConstraintDistance(c physics.Constraint, d float64) {
	if j, ok := b.Joints[c]; ok {
		j.Distance = d
	}
}

func (b *Body) SetConstraintAnchor(c physics.Constraint, anchor cp.Vector) {
	if j, ok := b.Joints[c]; ok {
		j.Anchor = anchor
	}
}

func (b *Body) ConstraintAnchor(c physics.Constraint) cp.Vector {
	if j, ok := b.Joints[c]; ok {
		return j.Anchor
	}
	return cp.Vector{}
}

func (b *Body) DestroyConstraint(c physics.Constraint) {
	if _, ok := b.Joints[c]; !ok {
		return
	}
	delete(b.Joints, c)
	b.Destroyed = append(b.Destroyed, c)
}

// EnabledJoint returns the single enabled joint, if any.
func (b *Body) EnabledJoint() (*Joint, bool) {
	for _, j := range b.Joints {
		if j.Enabled {
			return j, true
		}
	}
	return nil, false
}

// Step applies gravity along -Y scaled by GravityScale, then moves.
func (b *Body) Step(dt, gravity float64) {
	b.Vel.Y -= gravity * b.Gravity * dt
	b.Pos = b.Pos.Add(b.Vel.Mult(dt))
}

// HitAt returns a CastFunc that reports a hit on the first cast whose ray
// passes within tolerance of point.
func HitAt(point cp.Vector) CastFunc {
	return func(origin, dir cp.Vector, maxDist float64, _ physics.Mask) (physics.Hit, bool) {
		to := point.Sub(origin)
		along := to.Dot(dir)
		if along < 0 || along > maxDist {
			return physics.Hit{}, false
		}
		off := to.Sub(dir.Mult(along))
		if off.LengthSq() > 1e-6 {
			return physics.Hit{}, false
		}
		return physics.Hit{Point: point, Distance: along}, true
	}
}
