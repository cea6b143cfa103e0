package ability

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
	"github.com/milk9111/traversal/physics"
)

// airUpwardLift is the vertical part of the direction an airborne, downward
// bump is pulled toward.
const airUpwardLift = 0.35

// BumpParams shapes the dash exit bump.
type BumpParams struct {
	Impulse               float64
	HorizontalBias        float64
	VerticalBonusGrounded float64
	VerticalBonusAir      float64
	AirUpwardCorrectBias  float64
}

// DashBumpImpulse computes the impulse applied when a jump interrupts or
// follows a dash. The base direction is the current trajectory, falling back
// to the dash direction and then to facing.
func DashBumpImpulse(vel, dashDir cp.Vector, facing float64, grounded bool, p BumpParams) cp.Vector {
	var traj cp.Vector
	switch {
	case !common.IsNearZero(vel):
		traj = common.Normalize(vel)
	case !common.IsNearZero(dashDir):
		traj = dashDir
	default:
		traj = cp.Vector{X: common.Sign(facing)}
	}

	horizontalSign := func(d cp.Vector) float64 {
		if d.X == 0 {
			return common.Sign(facing)
		}
		return common.Sign(d.X)
	}

	if p.HorizontalBias > 0 {
		horiz := cp.Vector{X: horizontalSign(traj)}
		traj = common.Normalize(common.LerpVec(traj, horiz, p.HorizontalBias))
	}

	if !grounded && traj.Y < 0 && p.AirUpwardCorrectBias > 0 {
		up := common.Normalize(cp.Vector{X: horizontalSign(traj), Y: airUpwardLift})
		traj = common.Normalize(common.LerpVec(traj, up, p.AirUpwardCorrectBias))
	}

	impulse := traj.Mult(p.Impulse)
	lift := p.VerticalBonusAir
	if grounded {
		lift = p.VerticalBonusGrounded
	}
	if lift > 0 {
		impulse.Y += lift
	}
	return impulse
}

// SwingTangent returns the unit direction along which a body swinging on a
// rope around anchor is travelling. The sign follows the velocity along the
// tangent, or the horizontal velocity when that is negligible. A positive
// velocityBias blends the result toward the raw velocity direction.
func SwingTangent(pos, anchor, vel cp.Vector, velocityBias float64) cp.Vector {
	fromAnchor := pos.Sub(anchor)
	if common.IsNearZero(fromAnchor) {
		fromAnchor = cp.Vector{X: 1}
	}
	ropeDir := common.Normalize(fromAnchor)
	tangent := common.Perp(ropeDir)

	along := vel.Dot(tangent)
	sign := common.Sign(along)
	if along > -1e-3 && along < 1e-3 {
		sign = common.Sign(vel.X)
	}
	traj := tangent.Mult(sign)

	if velocityBias > 0 && !common.IsNearZero(vel) {
		traj = common.Normalize(common.LerpVec(traj, common.Normalize(vel), velocityBias))
	}
	return traj
}

// clampSpeed rescales the body's velocity down to max, keeping direction.
func clampSpeed(body physics.Body, max float64) {
	if v, clamped := common.ClampLength(body.Velocity(), max); clamped {
		body.SetVelocity(v)
	}
}
