package controller

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
)

const (
	never         = -999.0
	minJumpHeight = 0.01
)

type JumpSettings struct {
	JumpImpulse       float64
	UseDesiredHeight  bool
	DesiredJumpHeight float64
	MaxAirJumps       int

	CoyoteTime         float64
	JumpBufferTime     float64
	CutUpwardOnRelease bool
	CutFactor          float64
}

func DefaultJumpSettings() JumpSettings {
	return JumpSettings{
		JumpImpulse:        12,
		UseDesiredHeight:   true,
		DesiredJumpHeight:  3,
		CoyoteTime:         0.1,
		JumpBufferTime:     0.12,
		CutUpwardOnRelease: true,
		CutFactor:          0.5,
	}
}

// ImpulseForHeight returns the upward impulse that lifts a body of mass by
// height under gravity (magnitude) scaled by gravityScale.
func ImpulseForHeight(gravity, gravityScale, mass, height float64) float64 {
	g := math.Abs(gravity) * gravityScale
	return math.Sqrt(2*g*max(minJumpHeight, height)) * mass
}

// JumpController is the default jump. It buffers presses, honours coyote
// time and yields to the coordinator: abilities see every press first, and
// no jump fires while an exclusive ability owns the body.
type JumpController struct {
	settings JumpSettings
	coord    *Coordinator
	impulse  float64

	lastGroundedAt float64
	lastPressedAt  float64
	airJumpsUsed   int
	// jumping is set from takeoff until the next landing.
	jumping        bool
}

// NewJumpController subscribes to coord. gravity is the world's vertical
// gravity, used when the impulse is derived from a desired height.
func NewJumpController(coord *Coordinator, settings JumpSettings, gravity float64) *JumpController {
	j := &JumpController{
		settings:       settings,
		coord:          coord,
		impulse:        settings.JumpImpulse,
		lastGroundedAt: never,
		lastPressedAt:  never,
	}
	if settings.UseDesiredHeight {
		body := coord.Body()
		j.impulse = ImpulseForHeight(gravity, body.GravityScale(), body.Mass(), settings.DesiredJumpHeight)
	}
	coord.OnGroundedChanged(j.groundedChanged)
	coord.OnAbilityStarted(func(Slot) { j.resetUsage() })
	return j
}

func (j *JumpController) Impulse() float64 { return j.impulse }

// groundedChanged stamps the last grounded time on landing and when walking
// off a ledge, so coyote time counts from the moment support was lost.
func (j *JumpController) groundedChanged(grounded bool) {
	now := j.coord.Clock().Now()
	switch {
	case grounded:
		j.lastGroundedAt = now
		j.airJumpsUsed = 0
		j.jumping = false
	case !j.jumping:
		j.lastGroundedAt = now
	}
}

// resetUsage gives back air jumps and drops any buffered press. Coyote time
// is left alone.
func (j *JumpController) resetUsage() {
	j.airJumpsUsed = 0
	j.lastPressedAt = never
}

// Press handles a jump press. It reports whether a jump or an ability
// consumed it immediately.
func (j *JumpController) Press() bool {
	if j.coord.HandleJumpPressed() {
		return true
	}
	j.lastPressedAt = j.coord.Clock().Now()
	return j.tryConsume()
}

// Release cuts upward velocity for variable jump height.
func (j *JumpController) Release() {
	if !j.settings.CutUpwardOnRelease || j.coord.MovementOverride() {
		return
	}
	body := j.coord.Body()
	if v := body.Velocity(); v.Y > 0 {
		body.SetVelocity(cp.Vector{X: v.X, Y: v.Y * (1 - common.Clamp01(j.settings.CutFactor))})
	}
}

// Tick retries a buffered press.
func (j *JumpController) Tick(float64) {
	j.tryConsume()
}

func (j *JumpController) tryConsume() bool {
	if j.coord.MovementOverride() {
		return false
	}
	now := j.coord.Clock().Now()
	if now-j.lastPressedAt > j.settings.JumpBufferTime {
		return false
	}

	withinCoyote := now-j.lastGroundedAt <= j.settings.CoyoteTime
	if j.coord.Grounded() || withinCoyote {
		j.jump()
		return true
	}
	if j.airJumpsUsed < j.settings.MaxAirJumps {
		j.jump()
		j.airJumpsUsed++
		return true
	}
	return false
}

func (j *JumpController) jump() {
	body := j.coord.Body()
	if v := body.Velocity(); v.Y < 0 {
		body.SetVelocity(cp.Vector{X: v.X})
	}
	body.ApplyImpulse(cp.Vector{Y: j.impulse})
	j.lastPressedAt = never
	j.lastGroundedAt = never
	j.jumping = true
}
