package ability

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/physics/physicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLasso(t *testing.T, def *LassoDefinition, o *testOwner, anchor, aim cp.Vector) *Lasso {
	t.Helper()
	o.body.OnRaycast = physicstest.HitAt(anchor)
	l := def.NewRuntime(o).(*Lasso)
	l.Use(aim)
	require.True(t, l.Active())
	return l
}

// placeAt moves the body onto the rope at deg degrees from straight down,
// positive counter-clockwise.
func placeAt(o *testOwner, anchor cp.Vector, length, deg float64) cp.Vector {
	rad := deg * math.Pi / 180
	u := cp.Vector{X: math.Sin(rad), Y: -math.Cos(rad)}
	o.body.Pos = anchor.Add(u.Mult(length))
	return u
}

func TestLassoAttachesDiagonally(t *testing.T) {
	o := newTestOwner()
	anchor := cp.Vector{X: 4, Y: 4}
	l := startLasso(t, NewLassoDefinition(), o, anchor, cp.Vector{X: 1})

	assert.Equal(t, PhaseSwinging, l.Phase())
	assert.True(t, l.Exclusive())
	assert.InDelta(t, 4*math.Sqrt2, l.Length(), 1e-9)
	assert.InDelta(t, 1.15, o.body.Gravity, 1e-9)

	j, ok := o.body.EnabledJoint()
	require.True(t, ok)
	assert.Equal(t, anchor, j.Anchor)
	assert.InDelta(t, 4*math.Sqrt2, j.Distance, 1e-9)

	assert.InDelta(t, 10, o.body.Vel.Length(), 1e-9, "tangential speed is topped up at attach")
	assert.InDelta(t, 0, o.body.Vel.Dot(anchor), 1e-9)
}

func TestLassoCastsTowardFacingWithoutAim(t *testing.T) {
	o := newTestOwner()
	o.facing = -1
	l := startLasso(t, NewLassoDefinition(), o, cp.Vector{X: -3, Y: 3}, cp.Vector{})

	assert.Equal(t, cp.Vector{X: -3, Y: 3}, l.Anchor())
}

func TestLassoFallsBackUp(t *testing.T) {
	o := newTestOwner()
	l := startLasso(t, NewLassoDefinition(), o, cp.Vector{Y: 0.5}, cp.Vector{X: 1})

	assert.Equal(t, cp.Vector{Y: 0.5}, l.Anchor())
	assert.Equal(t, 1.5, l.Length(), "short hits clamp to the minimum length")
}

func TestLassoMiss(t *testing.T) {
	def := NewLassoDefinition()
	def.FallbackUpIfMiss = false
	o := newTestOwner()
	o.body.OnRaycast = physicstest.HitAt(cp.Vector{Y: 3})

	l := def.NewRuntime(o)
	l.Use(cp.Vector{X: 1})

	assert.False(t, l.Active())
	assert.Empty(t, o.body.Joints)
	assert.Equal(t, 1.0, o.body.Gravity)
	require.Len(t, o.ropes.Previews(), 1)
}

func TestLassoKeepsExistingTangentialSpeed(t *testing.T) {
	o := newTestOwner()
	o.body.Vel = cp.Vector{X: 20, Y: -20}
	startLasso(t, NewLassoDefinition(), o, cp.Vector{X: 4, Y: 4}, cp.Vector{X: 1})

	assert.Equal(t, cp.Vector{X: 20, Y: -20}, o.body.Vel)
}

func TestLassoAngularClamp(t *testing.T) {
	tests := []struct {
		name      string
		deg       float64
		vel       cp.Vector
		unchanged bool
	}{
		{name: "inside arc", deg: 30, vel: cp.Vector{X: 5, Y: 5}, unchanged: true},
		{name: "right limit outward", deg: 80, vel: cp.Vector{Y: 10}},
		{name: "left limit outward", deg: -80, vel: cp.Vector{X: -5, Y: 5}},
		{name: "right limit inward", deg: 80, vel: cp.Vector{Y: -10}, unchanged: true},
		{name: "just past threshold", deg: 69.6, vel: cp.Vector{X: 1, Y: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOwner()
			anchor := cp.Vector{X: 4, Y: 4}
			l := startLasso(t, NewLassoDefinition(), o, anchor, cp.Vector{X: 1})

			u := placeAt(o, anchor, 5, tt.deg)
			o.body.Vel = tt.vel
			l.Tick(tick)

			if tt.unchanged {
				assert.Equal(t, tt.vel, o.body.Vel)
				return
			}
			outward := cp.Vector{X: -u.Y, Y: u.X}.Mult(math.Copysign(1, tt.deg))
			assert.LessOrEqual(t, o.body.Vel.Dot(outward), 1e-9)
			assert.InDelta(t, tt.vel.Dot(u), o.body.Vel.Dot(u), 1e-9, "radial motion is untouched")
		})
	}
}

func TestLassoJumpDetachesBeforeBump(t *testing.T) {
	o := newTestOwner()
	anchor := cp.Vector{X: 4, Y: 4}
	l := startLasso(t, NewLassoDefinition(), o, anchor, cp.Vector{X: 1})
	placeAt(o, anchor, 5, 0)
	o.body.Vel = cp.Vector{X: 6}

	var jointsAtImpulse int
	var gravityAtImpulse float64
	o.body.OnImpulse = func(cp.Vector) {
		jointsAtImpulse = len(o.body.Joints)
		gravityAtImpulse = o.body.Gravity
	}

	require.True(t, l.OnJumpPressed())
	assert.Equal(t, 0, jointsAtImpulse)
	assert.Equal(t, 1.0, gravityAtImpulse)
	require.Len(t, o.body.Impulses, 1)
	assert.InDelta(t, 7, o.body.Impulses[0].X, 1e-9)
	assert.InDelta(t, 13, o.body.Vel.X, 1e-9)
	assert.False(t, l.Active())

	_, shown := o.ropes.Rope(RopeLasso)
	assert.False(t, shown)
}

func TestLassoJumpClampsResultSpeed(t *testing.T) {
	o := newTestOwner()
	anchor := cp.Vector{X: 4, Y: 4}
	l := startLasso(t, NewLassoDefinition(), o, anchor, cp.Vector{X: 1})
	placeAt(o, anchor, 5, 0)
	o.body.Vel = cp.Vector{X: 20}

	require.True(t, l.OnJumpPressed())
	assert.InDelta(t, 22, o.body.Vel.Length(), 1e-9)
}

func TestLassoJumpWithoutBumpStillConsumes(t *testing.T) {
	def := NewLassoDefinition()
	def.JumpAddsBump = false
	o := newTestOwner()
	l := startLasso(t, def, o, cp.Vector{X: 4, Y: 4}, cp.Vector{X: 1})

	assert.True(t, l.OnJumpPressed())
	assert.Empty(t, o.body.Impulses)
	assert.False(t, l.OnJumpPressed())
}

func TestLassoForceCancelIsIdempotent(t *testing.T) {
	o := newTestOwner()
	o.body.Gravity = 2
	l := startLasso(t, NewLassoDefinition(), o, cp.Vector{X: 4, Y: 4}, cp.Vector{X: 1})

	l.ForceCancel()
	l.ForceCancel()
	assert.Equal(t, 2.0, o.body.Gravity)
	assert.Len(t, o.body.Destroyed, 1)
}
