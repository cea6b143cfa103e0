package controller

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
)

// Input is one frame of player intent. Press fields are edges, not levels.
type Input struct {
	MoveX        float64
	Aim          cp.Vector
	JumpPressed  bool
	JumpReleased bool
	Triggers     []Slot
	Cancel       bool
}

// Character ties the coordinator to the default movement, jump and ground
// detection. Its Tick order is ground, abilities, running, jumping.
type Character struct {
	Coordinator *Coordinator
	Jump        *JumpController
	Movement    *Movement
	Ground      *GroundSensor
}

// Apply feeds one frame of input. Abilities see a zero aim as "facing".
func (c *Character) Apply(in Input) {
	c.Movement.SetInput(in.MoveX)

	for _, slot := range in.Triggers {
		c.Trigger(slot, in.Aim)
	}
	if in.Cancel {
		c.Coordinator.CancelCurrent()
	}

	if in.JumpPressed {
		c.Jump.Press()
	}
	if in.JumpReleased {
		c.Jump.Release()
	}
}

// Trigger starts slot aimed at aim, or toward the facing side when aim is zero.
func (c *Character) Trigger(slot Slot, aim cp.Vector) bool {
	if common.IsNearZero(aim) {
		aim = cp.Vector{X: c.Coordinator.FacingSign()}
	}
	return c.Coordinator.Trigger(slot, aim)
}

func (c *Character) Tick(dt float64) {
	if c.Ground != nil {
		c.Ground.Tick(dt)
	}
	c.Coordinator.Tick(dt)
	c.Movement.Tick(dt)
	c.Jump.Tick(dt)
}

func (c *Character) Close() {
	c.Coordinator.Close()
}
