package ability

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startDash(t *testing.T, def *DashDefinition, o *testOwner, aim cp.Vector) *Dash {
	t.Helper()
	d := def.NewRuntime(o).(*Dash)
	d.Use(aim)
	require.True(t, d.Active())
	return d
}

func TestDashLocksVelocityAndSuspendsGravity(t *testing.T) {
	o := newTestOwner()
	o.body.Vel = cp.Vector{X: 2, Y: 5}
	d := startDash(t, NewDashDefinition(), o, cp.Vector{X: 1})

	assert.True(t, d.Exclusive())
	assert.Equal(t, PhaseDashing, d.Phase())
	assert.Equal(t, cp.Vector{X: 18}, o.body.Vel)
	assert.Equal(t, 0.0, o.body.Gravity)

	o.body.Vel = cp.Vector{X: 3}
	d.Tick(tick)
	assert.Equal(t, cp.Vector{X: 18}, o.body.Vel, "speed is re-asserted each tick")
}

func TestDashUsesFacingWithoutAim(t *testing.T) {
	o := newTestOwner()
	o.facing = -1
	startDash(t, NewDashDefinition(), o, cp.Vector{X: 0.001})

	assert.Equal(t, cp.Vector{X: -18}, o.body.Vel)
}

func TestDashTimeline(t *testing.T) {
	o := newTestOwner()
	d := startDash(t, NewDashDefinition(), o, cp.Vector{X: 1})

	ticks(d, 7)
	assert.Equal(t, PhaseDashing, d.Phase())
	assert.True(t, d.Exclusive())

	d.Tick(tick)
	assert.Equal(t, PhaseGrace, d.Phase(), "0.16s of dash is exactly eight ticks")
	assert.True(t, d.Active())
	assert.False(t, d.Exclusive())
	assert.Equal(t, 1.0, o.body.Gravity)

	ticks(d, 7)
	assert.True(t, d.Active())

	d.Tick(tick)
	assert.False(t, d.Active())
	assert.Equal(t, PhaseTerminated, d.Phase())
	assert.False(t, d.OnJumpPressed(), "no bump after grace")
}

func TestDashZeroesUpwardVelocityOnExit(t *testing.T) {
	def := NewDashDefinition()
	def.LockSpeedConstant = false
	o := newTestOwner()
	d := startDash(t, def, o, cp.Vector{X: 1, Y: 1})

	ticks(d, 8)
	require.Equal(t, PhaseGrace, d.Phase())
	assert.Equal(t, 0.0, o.body.Vel.Y)
	assert.InDelta(t, 18/1.41421356, o.body.Vel.X, 1e-6)
}

func TestDashWithoutGraceTerminatesAtEnd(t *testing.T) {
	def := NewDashDefinition()
	def.PostDashCoyoteTime = 0
	o := newTestOwner()
	d := startDash(t, def, o, cp.Vector{X: 1})

	ticks(d, 8)
	assert.False(t, d.Active())
}

func TestDashJumpWhileDashingBumpsFromCurrentVelocity(t *testing.T) {
	o := newTestOwner()
	d := startDash(t, NewDashDefinition(), o, cp.Vector{X: 1})
	ticks(d, 3)

	var before cp.Vector
	o.body.OnImpulse = func(cp.Vector) { before = o.body.Vel }

	require.True(t, d.OnJumpPressed())
	assert.Equal(t, cp.Vector{X: 18}, before, "velocity is kept until the bump")
	require.Len(t, o.body.Impulses, 1)
	assert.InDelta(t, 10, o.body.Impulses[0].X, 1e-9)
	assert.InDelta(t, 0.6, o.body.Impulses[0].Y, 1e-9)

	assert.InDelta(t, 24, o.body.Vel.Length(), 1e-9, "clamped to the max result speed")
	assert.Greater(t, o.body.Vel.Y, 0.0)
	assert.Equal(t, 1.0, o.body.Gravity)
	assert.False(t, d.Active())
}

func TestDashJumpWithoutBumpStillConsumes(t *testing.T) {
	def := NewDashDefinition()
	def.JumpAddsBump = false
	o := newTestOwner()
	d := startDash(t, def, o, cp.Vector{X: 1})

	assert.True(t, d.OnJumpPressed())
	assert.Empty(t, o.body.Impulses)
	assert.Equal(t, cp.Vector{X: 18}, o.body.Vel)
	assert.False(t, d.Active())
}

func TestDashJumpDuringGrace(t *testing.T) {
	tests := []struct {
		name     string
		grounded bool
		consumed bool
		impulses int
	}{
		{name: "grounded", grounded: true, consumed: false, impulses: 0},
		{name: "airborne", grounded: false, consumed: true, impulses: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOwner()
			d := startDash(t, NewDashDefinition(), o, cp.Vector{X: 1})
			ticks(d, 8)
			require.Equal(t, PhaseGrace, d.Phase())

			o.grounded = tt.grounded
			assert.Equal(t, tt.consumed, d.OnJumpPressed())
			assert.Len(t, o.body.Impulses, tt.impulses)
			assert.False(t, d.Active())
		})
	}
}

func TestDashForceCancelRestoresGravityOnce(t *testing.T) {
	o := newTestOwner()
	o.body.Gravity = 2
	d := startDash(t, NewDashDefinition(), o, cp.Vector{X: 1})

	d.ForceCancel()
	assert.False(t, d.Active())
	assert.Equal(t, 2.0, o.body.Gravity)

	o.body.Gravity = 7
	d.ForceCancel()
	d.Tick(tick)
	assert.Equal(t, 7.0, o.body.Gravity)
}
