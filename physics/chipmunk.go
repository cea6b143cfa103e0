package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
)

// World owns the Chipmunk space and its static geometry.
type World struct {
	space     *cp.Space
	nextGroup uint
}

// NewWorld creates a space with the given gravity. Y points up.
func NewWorld(gravity cp.Vector) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)
	return &World{space: space}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Gravity returns the space gravity.
func (w *World) Gravity() cp.Vector {
	if w == nil || w.space == nil {
		return cp.Vector{}
	}
	return w.space.Gravity()
}

// Step advances the physics simulation.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// Tick lets the world run on a fixed-step scheduler.
func (w *World) Tick(dt float64) {
	w.Step(dt)
}

// AddStaticBox adds an axis-aligned solid box on the given layers.
func (w *World) AddStaticBox(center cp.Vector, width, height float64, layers Mask) *cp.Shape {
	bb := cp.BB{
		L: center.X - width/2,
		B: center.Y - height/2,
		R: center.X + width/2,
		T: center.Y + height/2,
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(layers.OrAll()), Mask: uint(MaskAll)})
	w.space.AddShape(shape)
	return shape
}

// AddStaticSegment adds a solid segment on the given layers.
func (w *World) AddStaticSegment(a, b cp.Vector, radius float64, layers Mask) *cp.Shape {
	shape := cp.NewSegment(w.space.StaticBody, a, b, radius)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(layers.OrAll()), Mask: uint(MaskAll)})
	w.space.AddShape(shape)
	return shape
}

// NewBody creates a dynamic, rotation-locked box body centred on pos.
func (w *World) NewBody(pos cp.Vector, width, height, mass float64) *ChipmunkBody {
	if w == nil || w.space == nil {
		panic("physics: NewBody needs a world")
	}
	if mass <= 0 {
		mass = 1
	}
	w.nextGroup++

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(pos)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.ShapeFilter{Group: w.nextGroup, Categories: uint(MaskAll), Mask: uint(MaskAll)})

	w.space.AddBody(body)
	w.space.AddShape(shape)

	cb := &ChipmunkBody{
		world:        w,
		body:         body,
		shape:        shape,
		group:        w.nextGroup,
		gravityScale: 1,
		joints:       make(map[Constraint]*joint),
	}
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity.Mult(cb.gravityScale), damping, dt)
	})
	return cb
}

type joint struct {
	constraint *cp.Constraint
	pin        *cp.PinJoint
	enabled    bool
}

// ChipmunkBody implements Body over a cp.Body living in a World.
type ChipmunkBody struct {
	world        *World
	body         *cp.Body
	shape        *cp.Shape
	group        uint
	gravityScale float64

	joints    map[Constraint]*joint
	nextJoint Constraint
}

var _ Body = (*ChipmunkBody)(nil)

// CP exposes the raw body for rendering and debugging.
func (b *ChipmunkBody) CP() *cp.Body { return b.body }

// Shape exposes the body's collision shape.
func (b *ChipmunkBody) Shape() *cp.Shape { return b.shape }

func (b *ChipmunkBody) Velocity() cp.Vector { return b.body.Velocity() }

func (b *ChipmunkBody) SetVelocity(v cp.Vector) { b.body.SetVelocityVector(v) }

func (b *ChipmunkBody) GravityScale() float64 { return b.gravityScale }

func (b *ChipmunkBody) SetGravityScale(g float64) { b.gravityScale = g }

func (b *ChipmunkBody) Position() cp.Vector { return b.body.Position() }

// SetPosition teleports the body.
func (b *ChipmunkBody) SetPosition(p cp.Vector) { b.body.SetPosition(p) }

func (b *ChipmunkBody) Mass() float64 { return b.body.Mass() }

func (b *ChipmunkBody) ApplyImpulse(j cp.Vector) {
	b.body.ApplyImpulseAtWorldPoint(j, b.body.Position())
}

func (b *ChipmunkBody) filter(mask Mask) cp.ShapeFilter {
	return cp.ShapeFilter{Group: b.group, Categories: uint(MaskAll), Mask: uint(mask.OrAll())}
}

func (b *ChipmunkBody) Raycast(origin, dir cp.Vector, maxDist float64, mask Mask) (Hit, bool) {
	l := dir.Length()
	if l == 0 || maxDist <= 0 {
		return Hit{}, false
	}
	end := origin.Add(dir.Mult(maxDist / l))
	return b.segmentQuery(origin, end, maxDist, mask)
}

func (b *ChipmunkBody) Linecast(a, c cp.Vector, mask Mask) (Hit, bool) {
	length := c.Sub(a).Length()
	if length == 0 {
		return Hit{}, false
	}
	return b.segmentQuery(a, c, length, mask)
}

func (b *ChipmunkBody) segmentQuery(start, end cp.Vector, length float64, mask Mask) (Hit, bool) {
	info := b.world.space.SegmentQueryFirst(start, end, 0, b.filter(mask))
	if info.Shape == nil {
		return Hit{}, false
	}
	return Hit{Point: info.Point, Distance: info.Alpha * length}, true
}

func (b *ChipmunkBody) CreateDistanceConstraint(anchor cp.Vector, restLength float64) Constraint {
	c := cp.NewPinJoint(b.body, b.world.space.StaticBody, cp.Vector{}, anchor)
	pin, ok := c.Class.(*cp.PinJoint)
	if !ok {
		log.Printf("physics: pin joint has unexpected class %T", c.Class)
		return 0
	}
	pin.Dist = restLength
	b.nextJoint++
	b.joints[b.nextJoint] = &joint{constraint: c, pin: pin}
	return b.nextJoint
}

func (b *ChipmunkBody) SetConstraintEnabled(c Constraint, enabled bool) {
	j := b.joints[c]
	if j == nil || j.enabled == enabled {
		return
	}
	if enabled {
		b.world.space.AddConstraint(j.constraint)
	} else {
		b.world.space.RemoveConstraint(j.constraint)
	}
	j.enabled = enabled
}

// ConstraintEnabled reports whether the constraint is currently in the space.
func (b *ChipmunkBody) ConstraintEnabled(c Constraint) bool {
	j := b.joints[c]
	return j != nil && j.enabled
}

// ConstraintDistance returns the rest length of the constraint.
func (b *ChipmunkBody) ConstraintDistance(c Constraint) float64 {
	if j := b.joints[c]; j != nil {
		return j.pin.Dist
	}
	return 0
}

func (b *ChipmunkBody) SetConstraintDistance(c Constraint, d float64) {
	if j := b.joints[c]; j != nil {
		j.pin.Dist = d
	}
}

// The static body sits at the origin, so its local anchor is the world point.
func (b *ChipmunkBody) SetConstraintAnchor(c Constraint, anchor cp.Vector) {
	if j := b.joints[c]; j != nil {
		j.pin.AnchorB = anchor
	}
}

func (b *ChipmunkBody) ConstraintAnchor(c Constraint) cp.Vector {
	if j := b.joints[c]; j != nil {
		return j.pin.AnchorB
	}
	return cp.Vector{}
}

func (b *ChipmunkBody) DestroyConstraint(c Constraint) {
	j := b.joints[c]
	if j == nil {
		return
	}
	if j.enabled {
		b.world.space.RemoveConstraint(j.constraint)
	}
	delete(b.joints, c)
}
