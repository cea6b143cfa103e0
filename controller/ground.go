package controller

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/physics"
)

// GroundSensor probes below the body each tick and reports changes to the
// coordinator.
type GroundSensor struct {
	coord  *Coordinator
	// Reach is how far below the body's centre a probe may hit.
	Reach  float64
	// Spread offsets the two outer probes horizontally so ledges still count.
	Spread float64
	Mask   physics.Mask

	grounded bool
}

func NewGroundSensor(coord *Coordinator, reach, spread float64, mask physics.Mask) *GroundSensor {
	return &GroundSensor{coord: coord, Reach: reach, Spread: spread, Mask: mask}
}

func (g *GroundSensor) Grounded() bool { return g.grounded }

func (g *GroundSensor) Tick(float64) {
	g.grounded = g.probe()
	g.coord.NotifyGrounded(g.grounded)
}

func (g *GroundSensor) probe() bool {
	body := g.coord.Body()
	pos := body.Position()
	down := cp.Vector{Y: -1}
	for _, dx := range []float64{0, -g.Spread, g.Spread} {
		if _, ok := body.Raycast(pos.Add(cp.Vector{X: dx}), down, g.Reach, g.Mask.OrAll()); ok {
			return true
		}
		if g.Spread == 0 {
			break
		}
	}
	return false
}
