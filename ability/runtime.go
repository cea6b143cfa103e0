package ability

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/physics"
)

// Phase names where a runtime is in its state machine.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseDashing
	PhaseGrace
	PhasePulling
	PhaseLatched
	PhaseSwinging
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseDashing:
		return "dashing"
	case PhaseGrace:
		return "grace"
	case PhasePulling:
		return "pulling"
	case PhaseLatched:
		return "latched"
	case PhaseSwinging:
		return "swinging"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Runtime is one use of an ability, created fresh by Definition.NewRuntime.
//
// Exclusive implies Active. Once inactive a runtime ignores Tick and
// OnJumpPressed, and ForceCancel is a no-op.
type Runtime interface {
	Use(aim cp.Vector)
	Tick(dt float64)
	// OnJumpPressed reports whether the press was consumed.
	OnJumpPressed() bool
	// ForceCancel releases constraints and visuals, restores gravity and
	// deactivates before returning.
	ForceCancel()
	Active() bool
	Exclusive() bool
	Phase() Phase
}

// Owner is the character a runtime acts on.
type Owner interface {
	Body() physics.Body
	// FacingSign is +1 when facing right and -1 when facing left.
	FacingSign() float64
	Grounded() bool
	Visuals() Visuals
}

// timeEpsilon absorbs accumulated float error when comparing elapsed time
// against a configured duration.
const timeEpsilon = 1e-9

func facingDir(o Owner) cp.Vector {
	return cp.Vector{X: o.FacingSign()}
}

func ownerVisuals(o Owner) Visuals {
	if v := o.Visuals(); v != nil {
		return v
	}
	return NopVisuals{}
}
