package ability

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/physics"
	"github.com/milk9111/traversal/physics/physicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatGrapple() *GrappleDefinition {
	def := NewGrappleDefinition()
	def.CastOriginYOffset = 0
	return def
}

func startGrapple(t *testing.T, def *GrappleDefinition, o *testOwner, anchor cp.Vector) *Grapple {
	t.Helper()
	o.body.OnRaycast = physicstest.HitAt(anchor)
	g := def.NewRuntime(o).(*Grapple)
	g.Use(anchor.Sub(o.body.Pos.Add(cp.Vector{Y: def.CastOriginYOffset})))
	require.True(t, g.Active())
	return g
}

func TestGrappleAttachesOnHit(t *testing.T) {
	o := newTestOwner()
	g := startGrapple(t, NewGrappleDefinition(), o, cp.Vector{X: 8, Y: 0.15})

	assert.Equal(t, PhasePulling, g.Phase())
	assert.True(t, g.Exclusive())
	assert.Equal(t, 0.2, o.body.Gravity)
	assert.Equal(t, cp.Vector{X: 8, Y: 0.15}, g.Anchor())

	require.Len(t, o.body.Joints, 1)
	_, enabled := o.body.EnabledJoint()
	assert.False(t, enabled, "constraint waits for the latch")
}

func TestGrappleMissShowsPreview(t *testing.T) {
	o := newTestOwner()
	g := NewGrappleDefinition().NewRuntime(o)
	g.Use(cp.Vector{X: 1})

	assert.False(t, g.Active())
	assert.Equal(t, PhaseNone, g.Phase())
	assert.Equal(t, 1.0, o.body.Gravity)

	previews := o.ropes.Previews()
	require.Len(t, previews, 1)
	assert.InDelta(t, 14, previews[0].B.X, 1e-9)
	assert.InDelta(t, 0.15, previews[0].A.Y, 1e-9)
}

func TestGrappleZeroMaskCastsEverything(t *testing.T) {
	o := newTestOwner()
	var got physics.Mask
	o.body.OnRaycast = func(_, _ cp.Vector, _ float64, mask physics.Mask) (physics.Hit, bool) {
		got = mask
		return physics.Hit{}, false
	}
	NewGrappleDefinition().NewRuntime(o).Use(cp.Vector{X: 1})

	assert.Equal(t, physics.MaskAll, got)
}

func TestGrappleLatchesWithRecordedAnchor(t *testing.T) {
	o := newTestOwner()
	anchor := cp.Vector{X: 5}
	g := startGrapple(t, flatGrapple(), o, anchor)
	o.body.OnRaycast = physicstest.HitAt(cp.Vector{X: 4.9})

	g.Tick(tick)
	require.Equal(t, PhasePulling, g.Phase())

	o.body.Pos = cp.Vector{X: 4.7}
	o.body.Vel = cp.Vector{X: 12, Y: 1}
	g.Tick(tick)

	assert.Equal(t, PhaseLatched, g.Phase())
	j, ok := o.body.EnabledJoint()
	require.True(t, ok)
	assert.Equal(t, anchor, j.Anchor)
	assert.Equal(t, 0.25, j.Distance)
	assert.Equal(t, cp.Vector{}, o.body.Vel)
	assert.Equal(t, 0.0, o.body.Gravity)

	o.body.Vel = cp.Vector{X: 3, Y: -3}
	g.Tick(tick)
	assert.Equal(t, cp.Vector{}, o.body.Vel, "latched body stays frozen")

	rope, ok := o.ropes.Rope(RopeGrapple)
	require.True(t, ok)
	assert.Equal(t, anchor, rope.B)
}

func TestGrappleNoProgressCancels(t *testing.T) {
	o := newTestOwner()
	g := startGrapple(t, flatGrapple(), o, cp.Vector{X: 10})

	ticks(g, 12)
	assert.True(t, g.Active())

	g.Tick(tick)
	assert.False(t, g.Active())
	assert.Equal(t, 1.0, o.body.Gravity)
	assert.Empty(t, o.body.Joints)
	_, shown := o.ropes.Rope(RopeGrapple)
	assert.False(t, shown)
}

func TestGrappleProgressKeepsPulling(t *testing.T) {
	o := newTestOwner()
	g := startGrapple(t, flatGrapple(), o, cp.Vector{X: 10})

	for i := 0; i < 30; i++ {
		o.body.Pos.X += 0.1
		g.Tick(tick)
	}
	assert.True(t, g.Active())
	assert.Equal(t, PhasePulling, g.Phase())
}

func TestGrappleMaxPullDuration(t *testing.T) {
	def := flatGrapple()
	def.MaxNoProgressTime = 0
	def.MaxPullDuration = 0.1
	o := newTestOwner()
	g := startGrapple(t, def, o, cp.Vector{X: 10})

	ticks(g, 4)
	assert.True(t, g.Active())
	g.Tick(tick)
	assert.False(t, g.Active())
}

func TestGrappleLineOfSight(t *testing.T) {
	tests := []struct {
		name   string
		hit    cp.Vector
		active bool
	}{
		{name: "blocked midway", hit: cp.Vector{X: 5}, active: false},
		{name: "anchor surface", hit: cp.Vector{X: 10.005}, active: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOwner()
			g := startGrapple(t, flatGrapple(), o, cp.Vector{X: 10})
			o.body.OnLinecast = func(_, _ cp.Vector, _ physics.Mask) (physics.Hit, bool) {
				return physics.Hit{Point: tt.hit}, true
			}

			g.Tick(tick)
			assert.Equal(t, tt.active, g.Active())
		})
	}
}

func TestGrapplePullClampsSpeedExactly(t *testing.T) {
	for _, mass := range []float64{1, 2} {
		o := newTestOwner()
		o.body.M = mass
		g := startGrapple(t, flatGrapple(), o, cp.Vector{X: 10})
		o.body.Vel = cp.Vector{X: 30}

		g.Tick(tick)
		assert.InDelta(t, 18, o.body.Vel.X, 1e-9)
	}
}

func TestGrapplePullDampsLateralVelocity(t *testing.T) {
	o := newTestOwner()
	g := startGrapple(t, flatGrapple(), o, cp.Vector{X: 10})
	o.body.Vel = cp.Vector{Y: 10}

	g.Tick(tick)

	assert.InDelta(t, 60*tick, o.body.Vel.X, 1e-9)
	assert.InDelta(t, 10-10*0.25*tick, o.body.Vel.Y, 1e-9)
}

func TestGrappleJumpDetaches(t *testing.T) {
	o := newTestOwner()
	g := startGrapple(t, flatGrapple(), o, cp.Vector{X: 10})

	assert.True(t, g.OnJumpPressed())
	assert.False(t, g.Active())
	assert.False(t, g.Exclusive())
	assert.Empty(t, o.body.Joints)
	assert.False(t, g.OnJumpPressed())
}

func TestGrappleForceCancelIsIdempotent(t *testing.T) {
	o := newTestOwner()
	g := startGrapple(t, flatGrapple(), o, cp.Vector{X: 10})

	g.ForceCancel()
	g.ForceCancel()
	assert.Len(t, o.body.Destroyed, 1)
	assert.Equal(t, 1.0, o.body.Gravity)
}
