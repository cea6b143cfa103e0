package ability

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
	"github.com/milk9111/traversal/physics"
)

const (
	minSwingGravity = 0.01
	minArcThreshold = 0.1
	// tangentDeadZone is the tangential speed below which the attach boost
	// picks its direction from aim instead of velocity.
	tangentDeadZone = 0.01
	aimDeadZone     = 0.1
)

var down = cp.Vector{Y: -1}

// Lasso hangs the body from a rope cast diagonally upward and lets it swing,
// limited to an arc around straight down.
type Lasso struct {
	def   *LassoDefinition
	owner Owner
	body  physics.Body

	phase  Phase
	active bool

	anchor       cp.Vector
	length       float64
	constraint   physics.Constraint
	savedGravity float64
}

var _ Runtime = (*Lasso)(nil)

func newLasso(def *LassoDefinition, owner Owner) *Lasso {
	return &Lasso{def: def, owner: owner, body: owner.Body()}
}

func (l *Lasso) Active() bool      { return l.active }
func (l *Lasso) Exclusive() bool   { return l.active }
func (l *Lasso) Phase() Phase      { return l.phase }
func (l *Lasso) Anchor() cp.Vector { return l.anchor }
func (l *Lasso) Length() float64   { return l.length }

// castDir is up and toward the aimed side, or toward facing without aim.
func (l *Lasso) castDir(aim cp.Vector) cp.Vector {
	side := l.owner.FacingSign()
	if !common.IsNearZero(aim) {
		side = aim.X
	}
	return common.Normalize(cp.Vector{X: common.Sign(side), Y: 1})
}

func (l *Lasso) Use(aim cp.Vector) {
	from := l.body.Position()
	mask := l.def.AttachMask.OrAll()
	diag := l.castDir(aim)

	hit, ok := l.body.Raycast(from, diag, l.def.MaxLength, mask)
	if !ok && l.def.FallbackUpIfMiss {
		hit, ok = l.body.Raycast(from, cp.Vector{Y: 1}, l.def.MaxLength, mask)
	}
	if !ok {
		if l.def.ShowPreviewOnMiss {
			ownerVisuals(l.owner).ShowPreview(from, from.Add(diag.Mult(l.def.MaxLength)), l.def.PreviewDuration)
		}
		return
	}
	l.attach(hit, aim)
}

func (l *Lasso) attach(hit physics.Hit, aim cp.Vector) {
	l.anchor = hit.Point
	l.length = common.Clamp(hit.Distance, l.def.MinLength, l.def.MaxLength)
	l.constraint = l.body.CreateDistanceConstraint(l.anchor, l.length)
	l.body.SetConstraintEnabled(l.constraint, true)

	l.savedGravity = l.body.GravityScale()
	l.body.SetGravityScale(max(minSwingGravity, l.savedGravity*l.def.GravityMultWhileSwing))

	ropeDir := common.Normalize(l.anchor.Sub(l.body.Position()))
	tangent := common.Perp(ropeDir)
	v := l.body.Velocity()
	vt := v.Dot(tangent)

	sign := 1.0
	switch {
	case math.Abs(vt) > tangentDeadZone:
		sign = common.Sign(vt)
	case math.Abs(aim.X) > aimDeadZone:
		sign = common.Sign(aim.X)
	case common.IsNearZero(aim):
		sign = l.owner.FacingSign()
	}
	if missing := l.def.MinTangentialSpeedAtAttach - math.Abs(vt); missing > 0 {
		l.body.SetVelocity(v.Add(tangent.Mult(sign * missing)))
	}

	l.phase = PhaseSwinging
	l.active = true
}

// arcThreshold is the angle from straight down, in degrees, at which the
// outward velocity starts being removed.
func (l *Lasso) arcThreshold() float64 {
	half := common.Clamp(l.def.HardArcDeg*0.5, 1, 89.5)
	return max(minArcThreshold, half-l.def.AngleBufferDeg)
}

func (l *Lasso) Tick(float64) {
	if !l.active {
		return
	}
	pos := l.body.Position()
	ownerVisuals(l.owner).ShowRope(RopeLasso, pos, l.anchor)

	u := common.Normalize(pos.Sub(l.anchor))
	angle := common.SignedAngle(down, u)
	if math.Abs(angle) < l.arcThreshold() {
		return
	}

	outward := common.Perp(u)
	if angle < 0 {
		outward = outward.Mult(-1)
	}
	v := l.body.Velocity()
	if along := v.Dot(outward); along > 0 {
		l.body.SetVelocity(v.Sub(outward.Mult(along)))
	}
}

// OnJumpPressed detaches and launches along the swing. It always consumes
// the press while attached.
func (l *Lasso) OnJumpPressed() bool {
	if !l.active {
		return false
	}
	traj := SwingTangent(l.body.Position(), l.anchor, l.body.Velocity(), l.def.BumpVelocityBias)

	l.cancel()

	if l.def.JumpAddsBump {
		l.body.ApplyImpulse(traj.Mult(l.def.BumpImpulse))
		clampSpeed(l.body, l.def.BumpMaxResultSpeed)
	}
	return true
}

func (l *Lasso) ForceCancel() { l.cancel() }

func (l *Lasso) cancel() {
	if !l.active {
		return
	}
	l.active = false
	l.phase = PhaseTerminated

	l.body.SetGravityScale(l.savedGravity)
	if l.constraint != 0 {
		l.body.DestroyConstraint(l.constraint)
		l.constraint = 0
	}
	ownerVisuals(l.owner).HideRope(RopeLasso)
}
