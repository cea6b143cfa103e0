package ability

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
	"github.com/milk9111/traversal/physics"
)

const (
	// progressEpsilon is how much closer to the anchor a tick must bring the
	// body to count as progress.
	progressEpsilon = 0.005
	// anchorTolerance is the squared distance within which a line-of-sight
	// hit is taken to be the anchor surface itself.
	anchorTolerance = 1e-4
	minHoldDistance = 0.01
)

// Grapple pulls the body toward a cast point and then hangs it there.
//
//	None -> Pulling -> Latched
//
// Either state ends on jump, cancel or a tripped safety check.
type Grapple struct {
	def   *GrappleDefinition
	owner Owner
	body  physics.Body

	phase  Phase
	active bool

	anchor          cp.Vector
	constraint      physics.Constraint
	originalGravity float64

	pullTime        float64
	lastDist        float64
	noProgressTimer float64
}

var _ Runtime = (*Grapple)(nil)

func newGrapple(def *GrappleDefinition, owner Owner) *Grapple {
	return &Grapple{def: def, owner: owner, body: owner.Body()}
}

func (g *Grapple) Active() bool      { return g.active }
func (g *Grapple) Exclusive() bool   { return g.active }
func (g *Grapple) Phase() Phase      { return g.phase }
func (g *Grapple) Anchor() cp.Vector { return g.anchor }

func (g *Grapple) castOrigin() cp.Vector {
	return g.body.Position().Add(cp.Vector{Y: g.def.CastOriginYOffset})
}

func (g *Grapple) Use(aim cp.Vector) {
	if common.IsNearZero(aim) {
		aim = facingDir(g.owner)
	}
	dir := common.Normalize(aim)
	origin := g.castOrigin()

	hit, ok := g.body.Raycast(origin, dir, g.def.MaxDistance, g.def.AttachMask.OrAll())
	if !ok {
		if g.def.ShowPreviewOnMiss {
			ownerVisuals(g.owner).ShowPreview(origin, origin.Add(dir.Mult(g.def.MaxDistance)), g.def.MissPreviewTime)
		}
		return
	}

	g.originalGravity = g.body.GravityScale()
	g.body.SetGravityScale(g.def.GravityDuringPull)

	g.anchor = hit.Point
	g.constraint = g.body.CreateDistanceConstraint(g.anchor, g.holdDistance())

	g.phase = PhasePulling
	g.active = true

	g.pullTime = 0
	g.lastDist = g.anchor.Sub(g.body.Position()).Length()
	g.noProgressTimer = 0
}

func (g *Grapple) holdDistance() float64 {
	return max(g.def.HoldDistance, minHoldDistance)
}

func (g *Grapple) Tick(dt float64) {
	if !g.active {
		return
	}

	end := g.anchor
	if g.phase == PhaseLatched {
		end = g.body.ConstraintAnchor(g.constraint)
	}
	ownerVisuals(g.owner).ShowRope(RopeGrapple, g.castOrigin(), end)

	switch g.phase {
	case PhasePulling:
		g.pull(dt)
	case PhaseLatched:
		if g.def.FreezeVelocityOnLatch {
			g.body.SetVelocity(cp.Vector{})
		}
	}
}

func (g *Grapple) pull(dt float64) {
	g.pullTime += dt
	if g.def.MaxPullDuration > 0 && g.pullTime+timeEpsilon >= g.def.MaxPullDuration {
		g.cancel()
		return
	}

	pos := g.body.Position()
	if g.def.CancelIfLineBlocked {
		hit, blocked := g.body.Linecast(pos, g.anchor, g.def.AttachMask.OrAll())
		if blocked && hit.Point.Sub(g.anchor).LengthSq() > anchorTolerance {
			g.cancel()
			return
		}
	}

	toAnchor := g.anchor.Sub(pos)
	dist := toAnchor.Length()
	var dir cp.Vector
	if dist > 1e-4 {
		dir = toAnchor.Mult(1 / dist)
	}

	if dist < g.lastDist-progressEpsilon {
		g.noProgressTimer = 0
	} else {
		g.noProgressTimer += dt
	}
	g.lastDist = dist

	if g.def.MaxNoProgressTime > 0 && g.noProgressTimer+timeEpsilon >= g.def.MaxNoProgressTime {
		g.cancel()
		return
	}

	if dist <= max(g.def.SnapDistance, g.def.HoldDistance) {
		g.latch()
		return
	}

	g.body.ApplyImpulse(dir.Mult(g.def.PullAcceleration * dt))

	mass := g.body.Mass()
	v := g.body.Velocity()
	along := v.Dot(dir)
	if along > g.def.MaxPullSpeed {
		g.body.ApplyImpulse(dir.Mult(-(along - g.def.MaxPullSpeed) * mass))
	}

	if g.def.LateralDamping > 0 {
		lateral := v.Sub(dir.Mult(along))
		g.body.ApplyImpulse(lateral.Mult(-g.def.LateralDamping * dt * mass))
	}
}

func (g *Grapple) latch() {
	g.phase = PhaseLatched
	g.body.SetGravityScale(g.def.GravityWhileLatched)
	if g.def.FreezeVelocityOnLatch {
		g.body.SetVelocity(cp.Vector{})
	}
	g.body.SetConstraintDistance(g.constraint, g.holdDistance())
	g.body.SetConstraintAnchor(g.constraint, g.anchor)
	g.body.SetConstraintEnabled(g.constraint, true)
}

// OnJumpPressed detaches. The press is always consumed while attached.
func (g *Grapple) OnJumpPressed() bool {
	if !g.active {
		return false
	}
	g.cancel()
	return true
}

func (g *Grapple) ForceCancel() { g.cancel() }

func (g *Grapple) cancel() {
	if !g.active {
		return
	}
	g.active = false
	g.phase = PhaseTerminated

	g.body.SetGravityScale(g.originalGravity)
	if g.constraint != 0 {
		g.body.DestroyConstraint(g.constraint)
		g.constraint = 0
	}
	ownerVisuals(g.owner).HideRope(RopeGrapple)
}
