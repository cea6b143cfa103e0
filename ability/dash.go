package ability

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
	"github.com/milk9111/traversal/physics"
)

// Dash moves the body at a locked velocity for a fixed duration, then keeps
// listening for a jump during a short grace window.
//
//	Dashing -> Grace -> Terminated
type Dash struct {
	def   *DashDefinition
	owner Owner
	body  physics.Body

	phase     Phase
	active    bool
	exclusive bool

	dir             cp.Vector
	elapsed         float64
	graceLeft       float64
	originalGravity float64
	gravityHeld     bool
}

var _ Runtime = (*Dash)(nil)

func newDash(def *DashDefinition, owner Owner) *Dash {
	return &Dash{def: def, owner: owner, body: owner.Body()}
}

func (d *Dash) Active() bool    { return d.active }
func (d *Dash) Exclusive() bool { return d.active && d.exclusive }
func (d *Dash) Phase() Phase    { return d.phase }

// Direction returns the normalized dash direction.
func (d *Dash) Direction() cp.Vector { return d.dir }

func (d *Dash) Use(aim cp.Vector) {
	if common.IsNearZero(aim) {
		aim = facingDir(d.owner)
	}
	d.dir = common.Normalize(aim)

	d.originalGravity = d.body.GravityScale()
	d.gravityHeld = true
	d.body.SetGravityScale(d.def.GravityDuringDash)

	if v := d.body.Velocity(); d.def.CutVerticalOnBegin && v.Y > 0 {
		d.body.SetVelocity(cp.Vector{X: v.X})
	}
	d.body.SetVelocity(d.dir.Mult(d.def.DashSpeed))

	d.elapsed = 0
	d.phase = PhaseDashing
	d.exclusive = true
	d.active = true
}

func (d *Dash) Tick(dt float64) {
	if !d.active {
		return
	}
	switch d.phase {
	case PhaseDashing:
		if d.def.LockSpeedConstant {
			d.body.SetVelocity(d.dir.Mult(d.def.DashSpeed))
		}
		d.elapsed += dt
		if d.elapsed+timeEpsilon >= d.def.DashDuration {
			d.finishDash()
		}
	case PhaseGrace:
		d.graceLeft -= dt
		if d.graceLeft <= timeEpsilon {
			d.terminate()
		}
	}
}

// finishDash is the natural end of the dash.
func (d *Dash) finishDash() {
	d.restoreGravity()
	if v := d.body.Velocity(); d.def.ZeroVerticalOnExit && v.Y > 0 {
		d.body.SetVelocity(cp.Vector{X: v.X})
	}
	d.exclusive = false
	d.graceLeft = d.def.PostDashCoyoteTime
	if d.graceLeft <= 0 {
		d.terminate()
		return
	}
	d.phase = PhaseGrace
}

func (d *Dash) OnJumpPressed() bool {
	if !d.active {
		return false
	}
	grounded := d.owner.Grounded()

	switch d.phase {
	case PhaseDashing:
		// Stop the dash without touching velocity, then bump from it.
		v := d.body.Velocity()
		d.restoreGravity()
		d.body.SetVelocity(v)
		d.exclusive = false
		d.applyBump(grounded)
		d.terminate()
		return true
	case PhaseGrace:
		if grounded {
			// A grounded press belongs to the regular jump.
			d.terminate()
			return false
		}
		d.applyBump(false)
		d.terminate()
		return true
	}
	return false
}

func (d *Dash) ForceCancel() {
	if !d.active {
		return
	}
	d.restoreGravity()
	d.terminate()
}

func (d *Dash) applyBump(grounded bool) {
	if !d.def.JumpAddsBump {
		return
	}
	impulse := DashBumpImpulse(d.body.Velocity(), d.dir, d.owner.FacingSign(), grounded, d.def.bump())
	d.body.ApplyImpulse(impulse)
	clampSpeed(d.body, d.def.BumpMaxResultSpeed)
}

func (d *Dash) restoreGravity() {
	if !d.gravityHeld {
		return
	}
	d.body.SetGravityScale(d.originalGravity)
	d.gravityHeld = false
}

func (d *Dash) terminate() {
	d.active = false
	d.exclusive = false
	d.graceLeft = 0
	d.phase = PhaseTerminated
}
