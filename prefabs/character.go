package prefabs

import (
	"fmt"

	"github.com/milk9111/traversal/ability"
	"github.com/milk9111/traversal/controller"
	"github.com/milk9111/traversal/physics"
)

type BodySpec struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Mass         float64 `yaml:"mass"`
	GravityScale float64 `yaml:"gravity_scale"`
}

// SlotSpec binds an ability file to a slot and, for the sandbox, to an input.
type SlotSpec struct {
	ID      string `yaml:"id"`
	Ability string `yaml:"ability"`
	Key     string `yaml:"key"`
	Button  string `yaml:"button"`
}

type JumpSpec struct {
	JumpImpulse        float64 `yaml:"jump_impulse"`
	UseDesiredHeight   bool    `yaml:"use_desired_height"`
	DesiredJumpHeight  float64 `yaml:"desired_jump_height"`
	MaxAirJumps        int     `yaml:"max_air_jumps"`
	CoyoteTime         float64 `yaml:"coyote_time"`
	JumpBufferTime     float64 `yaml:"jump_buffer_time"`
	CutUpwardOnRelease bool    `yaml:"cut_upward_on_release"`
	CutFactor          float64 `yaml:"cut_factor"`
}

type MoveSpec struct {
	MaxRunSpeed         float64 `yaml:"max_run_speed"`
	RunAccel            float64 `yaml:"run_accel"`
	RunDecel            float64 `yaml:"run_decel"`
	PreserveAirMomentum bool    `yaml:"preserve_air_momentum"`
	UseAirDecel         bool    `yaml:"use_air_decel"`
	AirDecel            float64 `yaml:"air_decel"`
}

type GroundSpec struct {
	Reach  float64 `yaml:"reach"`
	Spread float64 `yaml:"spread"`
	Mask   uint    `yaml:"mask"`
}

type CharacterSpec struct {
	Name  string     `yaml:"name"`
	Body  BodySpec   `yaml:"body"`
	Slots []SlotSpec `yaml:"slots"`

	RefillAmmoOnGround              bool `yaml:"refill_ammo_on_ground"`
	ResetCooldownOnGround           bool `yaml:"reset_cooldown_on_ground"`
	RefillWhileGroundedOnAbilityEnd bool `yaml:"refill_while_grounded_on_ability_end"`

	Jump   JumpSpec   `yaml:"jump"`
	Move   MoveSpec   `yaml:"move"`
	Ground GroundSpec `yaml:"ground"`
}

func DefaultCharacterSpec() *CharacterSpec {
	j := controller.DefaultJumpSettings()
	m := controller.DefaultMoveSettings()
	return &CharacterSpec{
		Name:                            "runner",
		Body:                            BodySpec{Width: 0.8, Height: 1.6, Mass: 1, GravityScale: 1},
		RefillAmmoOnGround:              true,
		RefillWhileGroundedOnAbilityEnd: true,
		Jump: JumpSpec{
			JumpImpulse:        j.JumpImpulse,
			UseDesiredHeight:   j.UseDesiredHeight,
			DesiredJumpHeight:  j.DesiredJumpHeight,
			MaxAirJumps:        j.MaxAirJumps,
			CoyoteTime:         j.CoyoteTime,
			JumpBufferTime:     j.JumpBufferTime,
			CutUpwardOnRelease: j.CutUpwardOnRelease,
			CutFactor:          j.CutFactor,
		},
		Move: MoveSpec{
			MaxRunSpeed:         m.MaxRunSpeed,
			RunAccel:            m.RunAccel,
			RunDecel:            m.RunDecel,
			PreserveAirMomentum: m.PreserveAirMomentum,
			UseAirDecel:         m.UseAirDecel,
			AirDecel:            m.AirDecel,
		},
		Ground: GroundSpec{Reach: 0.85, Spread: 0.35},
	}
}

func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	spec := DefaultCharacterSpec()
	if err := decodeInto(filename, spec); err != nil {
		return nil, err
	}
	if spec.Body.Mass <= 0 {
		return nil, fmt.Errorf("prefabs: %s: body mass must be positive", filename)
	}
	seen := make(map[string]bool, len(spec.Slots))
	for _, s := range spec.Slots {
		if s.ID == "" || s.Ability == "" {
			return nil, fmt.Errorf("prefabs: %s: slot needs an id and an ability file", filename)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("prefabs: %s: duplicate slot %q", filename, s.ID)
		}
		seen[s.ID] = true
	}
	return spec, nil
}

func (s *CharacterSpec) JumpSettings() controller.JumpSettings {
	return controller.JumpSettings{
		JumpImpulse:        s.Jump.JumpImpulse,
		UseDesiredHeight:   s.Jump.UseDesiredHeight,
		DesiredJumpHeight:  s.Jump.DesiredJumpHeight,
		MaxAirJumps:        max(0, s.Jump.MaxAirJumps),
		CoyoteTime:         max(0, s.Jump.CoyoteTime),
		JumpBufferTime:     max(0, s.Jump.JumpBufferTime),
		CutUpwardOnRelease: s.Jump.CutUpwardOnRelease,
		CutFactor:          s.Jump.CutFactor,
	}
}

func (s *CharacterSpec) MoveSettings() controller.MoveSettings {
	return controller.MoveSettings{
		MaxRunSpeed:         s.Move.MaxRunSpeed,
		RunAccel:            s.Move.RunAccel,
		RunDecel:            s.Move.RunDecel,
		PreserveAirMomentum: s.Move.PreserveAirMomentum,
		UseAirDecel:         s.Move.UseAirDecel,
		AirDecel:            s.Move.AirDecel,
	}
}

func (s *CharacterSpec) GroundMask() physics.Mask { return physics.Mask(s.Ground.Mask) }

func (s *CharacterSpec) CoordinatorOptions() []controller.Option {
	return []controller.Option{
		controller.WithRefillAmmoOnGround(s.RefillAmmoOnGround),
		controller.WithResetCooldownOnGround(s.ResetCooldownOnGround),
		controller.WithRefillWhileGroundedOnAbilityEnd(s.RefillWhileGroundedOnAbilityEnd),
	}
}

// Equip loads every slot's ability file and equips it on c.
func (s *CharacterSpec) Equip(c *controller.Coordinator) error {
	defs := make([]ability.Definition, len(s.Slots))
	for i, slot := range s.Slots {
		def, err := LoadAbility(slot.Ability)
		if err != nil {
			return fmt.Errorf("prefabs: slot %s: %w", slot.ID, err)
		}
		defs[i] = def
	}
	for i, slot := range s.Slots {
		c.Equip(controller.Slot(slot.ID), defs[i])
	}
	return nil
}
