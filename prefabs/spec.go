package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/traversal/ability"
	"github.com/milk9111/traversal/common"
	"github.com/milk9111/traversal/physics"
	"gopkg.in/yaml.v3"
)

// LoadSpec decodes filename into a zero T.
func LoadSpec[T any](filename string) (T, error) {
	var spec T
	err := decodeInto(filename, &spec)
	return spec, err
}

// decodeInto decodes filename over spec, so keys missing from the file keep
// whatever spec already held.
func decodeInto(filename string, spec any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

const (
	KindDash    = "dash"
	KindGrapple = "grapple"
	KindLasso   = "lasso"
)

const (
	minHardArcDeg = 40
	maxHardArcDeg = 179
)

type CommonSpec struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"`
	Cooldown float64 `yaml:"cooldown"`
	AmmoMax  int     `yaml:"ammo_max"`
}

func commonSpec(kind string, c ability.Common) CommonSpec {
	return CommonSpec{Name: c.Name, Kind: kind, Cooldown: c.Cooldown, AmmoMax: c.AmmoMax}
}

func (c CommonSpec) common() ability.Common {
	ammo := c.AmmoMax
	if ammo < 0 {
		ammo = -1
	}
	return ability.Common{Name: c.Name, Cooldown: max(0, c.Cooldown), AmmoMax: ammo}
}

// LineStyleSpec is how the sandbox draws a rope or miss preview.
type LineStyleSpec struct {
	Width float32    `yaml:"width"`
	Color *YAMLColor `yaml:"color"`
}

type DashSpec struct {
	CommonSpec `yaml:",inline"`

	DashSpeed    float64 `yaml:"dash_speed"`
	DashDuration float64 `yaml:"dash_duration"`

	GravityDuringDash  float64 `yaml:"gravity_during_dash"`
	LockSpeedConstant  bool    `yaml:"lock_speed_constant"`
	CutVerticalOnBegin bool    `yaml:"cut_vertical_on_begin"`
	ZeroVerticalOnExit bool    `yaml:"zero_vertical_on_exit"`

	JumpAddsBump              bool    `yaml:"jump_adds_bump"`
	BumpImpulse               float64 `yaml:"bump_impulse"`
	BumpHorizontalBias        float64 `yaml:"bump_horizontal_bias"`
	BumpVerticalBonusGrounded float64 `yaml:"bump_vertical_bonus_grounded"`
	BumpVerticalBonusAir      float64 `yaml:"bump_vertical_bonus_air"`
	AirUpwardCorrectBias      float64 `yaml:"air_upward_correct_bias"`
	BumpMaxResultSpeed        float64 `yaml:"bump_max_result_speed"`

	PostDashCoyoteTime float64 `yaml:"post_dash_coyote_time"`
}

func DefaultDashSpec() *DashSpec {
	d := ability.NewDashDefinition()
	return &DashSpec{
		CommonSpec:                commonSpec(KindDash, d.Common),
		DashSpeed:                 d.DashSpeed,
		DashDuration:              d.DashDuration,
		GravityDuringDash:         d.GravityDuringDash,
		LockSpeedConstant:         d.LockSpeedConstant,
		CutVerticalOnBegin:        d.CutVerticalOnBegin,
		ZeroVerticalOnExit:        d.ZeroVerticalOnExit,
		JumpAddsBump:              d.JumpAddsBump,
		BumpImpulse:               d.BumpImpulse,
		BumpHorizontalBias:        d.BumpHorizontalBias,
		BumpVerticalBonusGrounded: d.BumpVerticalBonusGrounded,
		BumpVerticalBonusAir:      d.BumpVerticalBonusAir,
		AirUpwardCorrectBias:      d.AirUpwardCorrectBias,
		BumpMaxResultSpeed:        d.BumpMaxResultSpeed,
		PostDashCoyoteTime:        d.PostDashCoyoteTime,
	}
}

func LoadDashSpec(filename string) (*DashSpec, error) {
	spec := DefaultDashSpec()
	if err := decodeInto(filename, spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *DashSpec) Definition() *ability.DashDefinition {
	return &ability.DashDefinition{
		Common:                    s.common(),
		DashSpeed:                 s.DashSpeed,
		DashDuration:              max(0, s.DashDuration),
		GravityDuringDash:         s.GravityDuringDash,
		LockSpeedConstant:         s.LockSpeedConstant,
		CutVerticalOnBegin:        s.CutVerticalOnBegin,
		ZeroVerticalOnExit:        s.ZeroVerticalOnExit,
		JumpAddsBump:              s.JumpAddsBump,
		BumpImpulse:               s.BumpImpulse,
		BumpHorizontalBias:        common.Clamp01(s.BumpHorizontalBias),
		BumpVerticalBonusGrounded: s.BumpVerticalBonusGrounded,
		BumpVerticalBonusAir:      s.BumpVerticalBonusAir,
		AirUpwardCorrectBias:      common.Clamp01(s.AirUpwardCorrectBias),
		BumpMaxResultSpeed:        s.BumpMaxResultSpeed,
		PostDashCoyoteTime:        max(0, s.PostDashCoyoteTime),
	}
}

type GrappleSpec struct {
	CommonSpec `yaml:",inline"`

	MaxDistance       float64 `yaml:"max_distance"`
	AttachMask        uint    `yaml:"attach_mask"`
	CastOriginYOffset float64 `yaml:"cast_origin_y_offset"`
	ShowPreviewOnMiss bool    `yaml:"show_preview_on_miss"`
	MissPreviewTime   float64 `yaml:"miss_preview_time"`

	PullAcceleration  float64 `yaml:"pull_acceleration"`
	MaxPullSpeed      float64 `yaml:"max_pull_speed"`
	LateralDamping    float64 `yaml:"lateral_damping"`
	SnapDistance      float64 `yaml:"snap_distance"`
	GravityDuringPull float64 `yaml:"gravity_during_pull"`

	MaxPullDuration     float64 `yaml:"max_pull_duration"`
	MaxNoProgressTime   float64 `yaml:"max_no_progress_time"`
	CancelIfLineBlocked bool    `yaml:"cancel_if_line_blocked"`

	HoldDistance          float64 `yaml:"hold_distance"`
	GravityWhileLatched   float64 `yaml:"gravity_while_latched"`
	FreezeVelocityOnLatch bool    `yaml:"freeze_velocity_on_latch"`

	Rope    LineStyleSpec `yaml:"rope"`
	Preview LineStyleSpec `yaml:"preview"`
}

func DefaultGrappleSpec() *GrappleSpec {
	g := ability.NewGrappleDefinition()
	return &GrappleSpec{
		CommonSpec:            commonSpec(KindGrapple, g.Common),
		MaxDistance:           g.MaxDistance,
		AttachMask:            uint(g.AttachMask),
		CastOriginYOffset:     g.CastOriginYOffset,
		ShowPreviewOnMiss:     g.ShowPreviewOnMiss,
		MissPreviewTime:       g.MissPreviewTime,
		PullAcceleration:      g.PullAcceleration,
		MaxPullSpeed:          g.MaxPullSpeed,
		LateralDamping:        g.LateralDamping,
		SnapDistance:          g.SnapDistance,
		GravityDuringPull:     g.GravityDuringPull,
		MaxPullDuration:       g.MaxPullDuration,
		MaxNoProgressTime:     g.MaxNoProgressTime,
		CancelIfLineBlocked:   g.CancelIfLineBlocked,
		HoldDistance:          g.HoldDistance,
		GravityWhileLatched:   g.GravityWhileLatched,
		FreezeVelocityOnLatch: g.FreezeVelocityOnLatch,
		Rope:                  LineStyleSpec{Width: 0.04},
		Preview:               LineStyleSpec{Width: 0.02},
	}
}

func LoadGrappleSpec(filename string) (*GrappleSpec, error) {
	spec := DefaultGrappleSpec()
	if err := decodeInto(filename, spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *GrappleSpec) Definition() *ability.GrappleDefinition {
	return &ability.GrappleDefinition{
		Common:                s.common(),
		MaxDistance:           s.MaxDistance,
		AttachMask:            physics.Mask(s.AttachMask),
		CastOriginYOffset:     s.CastOriginYOffset,
		ShowPreviewOnMiss:     s.ShowPreviewOnMiss,
		MissPreviewTime:       s.MissPreviewTime,
		PullAcceleration:      s.PullAcceleration,
		MaxPullSpeed:          s.MaxPullSpeed,
		LateralDamping:        common.Clamp01(s.LateralDamping),
		SnapDistance:          s.SnapDistance,
		GravityDuringPull:     s.GravityDuringPull,
		MaxPullDuration:       s.MaxPullDuration,
		MaxNoProgressTime:     s.MaxNoProgressTime,
		CancelIfLineBlocked:   s.CancelIfLineBlocked,
		HoldDistance:          s.HoldDistance,
		GravityWhileLatched:   s.GravityWhileLatched,
		FreezeVelocityOnLatch: s.FreezeVelocityOnLatch,
	}
}

type LassoSpec struct {
	CommonSpec `yaml:",inline"`

	MaxLength         float64 `yaml:"max_length"`
	MinLength         float64 `yaml:"min_length"`
	AttachMask        uint    `yaml:"attach_mask"`
	FallbackUpIfMiss  bool    `yaml:"fallback_up_if_miss"`
	ShowPreviewOnMiss bool    `yaml:"show_preview_on_miss"`
	PreviewDuration   float64 `yaml:"preview_duration"`

	GravityMultWhileSwing      float64 `yaml:"gravity_mult_while_swing"`
	MinTangentialSpeedAtAttach float64 `yaml:"min_tangential_speed_at_attach"`

	HardArcDeg     float64 `yaml:"hard_arc_deg"`
	AngleBufferDeg float64 `yaml:"angle_buffer_deg"`

	JumpAddsBump       bool    `yaml:"jump_adds_bump"`
	BumpImpulse        float64 `yaml:"bump_impulse"`
	BumpVelocityBias   float64 `yaml:"bump_velocity_bias"`
	BumpMaxResultSpeed float64 `yaml:"bump_max_result_speed"`

	Rope    LineStyleSpec `yaml:"rope"`
	Preview LineStyleSpec `yaml:"preview"`
}

func DefaultLassoSpec() *LassoSpec {
	l := ability.NewLassoDefinition()
	return &LassoSpec{
		CommonSpec:                 commonSpec(KindLasso, l.Common),
		MaxLength:                  l.MaxLength,
		MinLength:                  l.MinLength,
		AttachMask:                 uint(l.AttachMask),
		FallbackUpIfMiss:           l.FallbackUpIfMiss,
		ShowPreviewOnMiss:          l.ShowPreviewOnMiss,
		PreviewDuration:            l.PreviewDuration,
		GravityMultWhileSwing:      l.GravityMultWhileSwing,
		MinTangentialSpeedAtAttach: l.MinTangentialSpeedAtAttach,
		HardArcDeg:                 l.HardArcDeg,
		AngleBufferDeg:             l.AngleBufferDeg,
		JumpAddsBump:               l.JumpAddsBump,
		BumpImpulse:                l.BumpImpulse,
		BumpVelocityBias:           l.BumpVelocityBias,
		BumpMaxResultSpeed:         l.BumpMaxResultSpeed,
		Rope:                       LineStyleSpec{Width: 0.04},
		Preview:                    LineStyleSpec{Width: 0.025},
	}
}

func LoadLassoSpec(filename string) (*LassoSpec, error) {
	spec := DefaultLassoSpec()
	if err := decodeInto(filename, spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *LassoSpec) Definition() *ability.LassoDefinition {
	minLen := max(0, s.MinLength)
	return &ability.LassoDefinition{
		Common:                     s.common(),
		MaxLength:                  max(minLen, s.MaxLength),
		MinLength:                  minLen,
		AttachMask:                 physics.Mask(s.AttachMask),
		FallbackUpIfMiss:           s.FallbackUpIfMiss,
		ShowPreviewOnMiss:          s.ShowPreviewOnMiss,
		PreviewDuration:            s.PreviewDuration,
		GravityMultWhileSwing:      s.GravityMultWhileSwing,
		MinTangentialSpeedAtAttach: s.MinTangentialSpeedAtAttach,
		HardArcDeg:                 common.Clamp(s.HardArcDeg, minHardArcDeg, maxHardArcDeg),
		AngleBufferDeg:             s.AngleBufferDeg,
		JumpAddsBump:               s.JumpAddsBump,
		BumpImpulse:                s.BumpImpulse,
		BumpVelocityBias:           common.Clamp01(s.BumpVelocityBias),
		BumpMaxResultSpeed:         s.BumpMaxResultSpeed,
	}
}

// LoadAbility reads an ability file of any kind and returns its definition.
func LoadAbility(filename string) (ability.Definition, error) {
	head, err := LoadSpec[CommonSpec](filename)
	if err != nil {
		return nil, err
	}
	switch head.Kind {
	case KindDash:
		s, err := LoadDashSpec(filename)
		if err != nil {
			return nil, err
		}
		return s.Definition(), nil
	case KindGrapple:
		s, err := LoadGrappleSpec(filename)
		if err != nil {
			return nil, err
		}
		return s.Definition(), nil
	case KindLasso:
		s, err := LoadLassoSpec(filename)
		if err != nil {
			return nil, err
		}
		return s.Definition(), nil
	default:
		return nil, fmt.Errorf("prefabs: %s: unknown ability kind %q", filename, head.Kind)
	}
}

// LoadLineStyles returns the rope and preview styles of a grapple or lasso
// file. Other kinds have none.
func LoadLineStyles(filename string) (rope, preview LineStyleSpec, err error) {
	head, err := LoadSpec[CommonSpec](filename)
	if err != nil {
		return rope, preview, err
	}
	switch head.Kind {
	case KindGrapple:
		s, err := LoadGrappleSpec(filename)
		if err != nil {
			return rope, preview, err
		}
		return s.Rope, s.Preview, nil
	case KindLasso:
		s, err := LoadLassoSpec(filename)
		if err != nil {
			return rope, preview, err
		}
		return s.Rope, s.Preview, nil
	}
	return rope, preview, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// ColorOr returns the parsed colour, or fallback when none was set.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
