package controller

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/ability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedJump() JumpSettings {
	s := DefaultJumpSettings()
	s.UseDesiredHeight = false
	return s
}

func (r *rig) stepJump(j *JumpController, n int) {
	for i := 0; i < n; i++ {
		r.clock.Advance(tick)
		r.coord.Tick(tick)
		j.Tick(tick)
	}
}

func TestImpulseForHeight(t *testing.T) {
	assert.InDelta(t, math.Sqrt(120), ImpulseForHeight(-20, 1, 1, 3), 1e-9)
	assert.InDelta(t, 2*math.Sqrt(60), ImpulseForHeight(20, 0.5, 2, 3), 1e-9)
	assert.InDelta(t, math.Sqrt(0.4), ImpulseForHeight(20, 1, 1, 0), 1e-9, "height has a floor")
}

func TestJumpImpulseFromDesiredHeight(t *testing.T) {
	r := newRig(t)
	r.body.M = 2
	j := NewJumpController(r.coord, DefaultJumpSettings(), -10)

	assert.InDelta(t, math.Sqrt(60)*2, j.Impulse(), 1e-9)
}

func TestJumpGrounded(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)
	r.coord.NotifyGrounded(true)
	r.body.Vel = cp.Vector{X: 2, Y: -3}

	assert.True(t, j.Press())
	assert.Equal(t, cp.Vector{X: 2, Y: 12}, r.body.Vel, "falling speed is cleared before the impulse")
}

func TestJumpBufferedUntilLanding(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)

	assert.False(t, j.Press())
	r.stepJump(j, 3)
	assert.Empty(t, r.body.Impulses)

	r.coord.NotifyGrounded(true)
	r.stepJump(j, 1)
	require.Len(t, r.body.Impulses, 1)

	r.stepJump(j, 1)
	assert.Len(t, r.body.Impulses, 1, "a buffered press fires once")
}

func TestJumpBufferExpires(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)

	j.Press()
	r.stepJump(j, 7)
	r.coord.NotifyGrounded(true)
	r.stepJump(j, 1)

	assert.Empty(t, r.body.Impulses)
}

func TestJumpCoyoteTime(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)
	r.coord.NotifyGrounded(true)
	r.stepJump(j, 10)
	r.coord.NotifyGrounded(false)

	r.stepJump(j, 4)
	assert.True(t, j.Press(), "within coyote time after walking off")

	r.stepJump(j, 1)
	assert.False(t, j.Press(), "coyote is spent by the jump")
}

func TestJumpCoyoteElapsed(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)
	r.coord.NotifyGrounded(true)
	r.coord.NotifyGrounded(false)

	r.stepJump(j, 6)
	assert.False(t, j.Press())
}

func TestJumpTakeoffDoesNotOpenCoyote(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)
	r.coord.NotifyGrounded(true)

	require.True(t, j.Press())
	r.coord.NotifyGrounded(false)
	r.stepJump(j, 1)

	assert.False(t, j.Press())
	assert.Len(t, r.body.Impulses, 1)
}

func TestAirJumpsResetByAbilityStart(t *testing.T) {
	r := newRig(t)
	s := fixedJump()
	s.MaxAirJumps = 1
	j := NewJumpController(r.coord, s, -10)
	r.coord.Equip("grapple", ability.NewGrappleDefinition())

	assert.True(t, j.Press())
	assert.False(t, j.Press())

	r.coord.Trigger("grapple", cp.Vector{X: 1})
	r.stepJump(j, 1)
	assert.True(t, j.Press())
}

func TestJumpYieldsToAbility(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)
	r.coord.Equip("dash", ability.NewDashDefinition())
	r.coord.Trigger("dash", cp.Vector{X: 1})

	assert.True(t, j.Press())
	require.Len(t, r.body.Impulses, 1)
	assert.Greater(t, r.body.Impulses[0].X, 0.0, "the dash bump took the press")

	r.stepJump(j, 1)
	assert.Len(t, r.body.Impulses, 1)
}

func TestJumpRelease(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)
	r.body.Vel = cp.Vector{X: 1, Y: 10}

	j.Release()
	assert.Equal(t, cp.Vector{X: 1, Y: 5}, r.body.Vel)

	r.body.Vel = cp.Vector{Y: -4}
	j.Release()
	assert.Equal(t, cp.Vector{Y: -4}, r.body.Vel)
}

func TestJumpReleaseWhileOverridden(t *testing.T) {
	r := newRig(t)
	j := NewJumpController(r.coord, fixedJump(), -10)
	r.coord.Equip("dash", ability.NewDashDefinition())
	r.coord.Trigger("dash", cp.Vector{X: 1, Y: 1})
	before := r.body.Vel

	j.Release()
	assert.Equal(t, before, r.body.Vel)
}
