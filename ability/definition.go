package ability

import "github.com/milk9111/traversal/physics"

// Common holds the gating settings every ability shares.
type Common struct {
	Name     string
	Cooldown float64 // seconds, 0 = none
	AmmoMax  int     // -1 = infinite
}

func (c Common) Settings() Common { return c }

// FiniteAmmo reports whether uses are counted.
func (c Common) FiniteAmmo() bool { return c.AmmoMax >= 0 }

// Definition is immutable ability tuning plus a runtime factory. Its identity
// keys the shared usage state in a Registry.
type Definition interface {
	Settings() Common
	NewRuntime(owner Owner) Runtime
}

type DashDefinition struct {
	Common

	DashSpeed    float64
	DashDuration float64

	GravityDuringDash  float64
	LockSpeedConstant  bool
	CutVerticalOnBegin bool
	// ZeroVerticalOnExit clears positive Y velocity at the natural end of a
	// dash so it does not end in a small hop.
	ZeroVerticalOnExit bool

	JumpAddsBump              bool
	BumpImpulse               float64
	BumpHorizontalBias        float64
	BumpVerticalBonusGrounded float64
	BumpVerticalBonusAir      float64
	AirUpwardCorrectBias      float64
	BumpMaxResultSpeed        float64 // 0 = no clamp

	PostDashCoyoteTime float64
}

func NewDashDefinition() *DashDefinition {
	return &DashDefinition{
		Common:                    Common{Name: "dash", AmmoMax: -1},
		DashSpeed:                 18,
		DashDuration:              0.16,
		GravityDuringDash:         0,
		LockSpeedConstant:         true,
		CutVerticalOnBegin:        true,
		ZeroVerticalOnExit:        true,
		JumpAddsBump:              true,
		BumpImpulse:               10,
		BumpHorizontalBias:        0.25,
		BumpVerticalBonusGrounded: 1.2,
		BumpVerticalBonusAir:      0.6,
		AirUpwardCorrectBias:      0.35,
		BumpMaxResultSpeed:        24,
		PostDashCoyoteTime:        0.15,
	}
}

func (d *DashDefinition) NewRuntime(owner Owner) Runtime {
	return newDash(d, owner)
}

func (d *DashDefinition) bump() BumpParams {
	return BumpParams{
		Impulse:               d.BumpImpulse,
		HorizontalBias:        d.BumpHorizontalBias,
		VerticalBonusGrounded: d.BumpVerticalBonusGrounded,
		VerticalBonusAir:      d.BumpVerticalBonusAir,
		AirUpwardCorrectBias:  d.AirUpwardCorrectBias,
	}
}

type GrappleDefinition struct {
	Common

	MaxDistance       float64
	AttachMask        physics.Mask
	CastOriginYOffset float64
	ShowPreviewOnMiss bool
	MissPreviewTime   float64

	PullAcceleration  float64
	MaxPullSpeed      float64
	LateralDamping    float64
	SnapDistance      float64
	GravityDuringPull float64

	MaxPullDuration     float64
	MaxNoProgressTime   float64
	CancelIfLineBlocked bool

	HoldDistance          float64
	GravityWhileLatched   float64
	FreezeVelocityOnLatch bool
}

func NewGrappleDefinition() *GrappleDefinition {
	return &GrappleDefinition{
		Common:                Common{Name: "grapple", AmmoMax: -1},
		MaxDistance:           14,
		CastOriginYOffset:     0.15,
		ShowPreviewOnMiss:     true,
		MissPreviewTime:       0.2,
		PullAcceleration:      60,
		MaxPullSpeed:          18,
		LateralDamping:        0.25,
		SnapDistance:          0.4,
		GravityDuringPull:     0.2,
		MaxPullDuration:       1.75,
		MaxNoProgressTime:     0.25,
		CancelIfLineBlocked:   true,
		HoldDistance:          0.25,
		GravityWhileLatched:   0,
		FreezeVelocityOnLatch: true,
	}
}

func (g *GrappleDefinition) NewRuntime(owner Owner) Runtime {
	return newGrapple(g, owner)
}

type LassoDefinition struct {
	Common

	MaxLength         float64
	MinLength         float64
	AttachMask        physics.Mask
	FallbackUpIfMiss  bool
	ShowPreviewOnMiss bool
	PreviewDuration   float64

	GravityMultWhileSwing      float64
	MinTangentialSpeedAtAttach float64

	HardArcDeg     float64
	AngleBufferDeg float64

	JumpAddsBump       bool
	BumpImpulse        float64
	BumpVelocityBias   float64
	BumpMaxResultSpeed float64 // 0 = no clamp
}

func NewLassoDefinition() *LassoDefinition {
	return &LassoDefinition{
		Common:                     Common{Name: "lasso", AmmoMax: -1},
		MaxLength:                  12,
		MinLength:                  1.5,
		FallbackUpIfMiss:           true,
		ShowPreviewOnMiss:          true,
		PreviewDuration:            0.25,
		GravityMultWhileSwing:      1.15,
		MinTangentialSpeedAtAttach: 10,
		HardArcDeg:                 140,
		AngleBufferDeg:             0.5,
		JumpAddsBump:               true,
		BumpImpulse:                7,
		BumpVelocityBias:           0.25,
		BumpMaxResultSpeed:         22,
	}
}

func (l *LassoDefinition) NewRuntime(owner Owner) Runtime {
	return newLasso(l, owner)
}
