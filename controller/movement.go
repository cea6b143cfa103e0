package controller

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
)

const inputDeadZone = 0.01

type MoveSettings struct {
	MaxRunSpeed float64
	RunAccel    float64
	RunDecel    float64

	// PreserveAirMomentum keeps horizontal speed untouched in the air when
	// there is no input. It wins over UseAirDecel.
	PreserveAirMomentum bool
	UseAirDecel         bool
	AirDecel            float64
}

func DefaultMoveSettings() MoveSettings {
	return MoveSettings{
		MaxRunSpeed:         8,
		RunAccel:            60,
		RunDecel:            45,
		PreserveAirMomentum: true,
		AirDecel:            4,
	}
}

// Movement is horizontal running. It never writes velocity while an
// exclusive ability owns the body.
type Movement struct {
	settings MoveSettings
	coord    *Coordinator
	inputX   float64
}

func NewMovement(coord *Coordinator, settings MoveSettings) *Movement {
	return &Movement{settings: settings, coord: coord}
}

// SetInput stores the horizontal axis in [-1, 1] and turns the character
// toward it.
func (m *Movement) SetInput(x float64) {
	m.inputX = common.Clamp(x, -1, 1)
	if math.Abs(m.inputX) > inputDeadZone {
		m.coord.SetFacing(m.inputX > 0)
	}
}

func (m *Movement) Input() float64 { return m.inputX }

func (m *Movement) Tick(dt float64) {
	if m.coord.MovementOverride() {
		return
	}
	body := m.coord.Body()
	v := body.Velocity()

	if math.Abs(m.inputX) < inputDeadZone {
		switch {
		case m.coord.Grounded():
			v.X = common.MoveTowards(v.X, 0, m.settings.RunDecel*dt)
		case m.settings.PreserveAirMomentum:
			return
		case m.settings.UseAirDecel:
			v.X = common.MoveTowards(v.X, 0, m.settings.AirDecel*dt)
		default:
			return
		}
		body.SetVelocity(v)
		return
	}

	target := m.inputX * m.settings.MaxRunSpeed
	body.SetVelocity(cp.Vector{X: common.MoveTowards(v.X, target, m.settings.RunAccel*dt), Y: v.Y})
}
