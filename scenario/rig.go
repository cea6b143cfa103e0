package scenario

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/ability"
	"github.com/milk9111/traversal/common"
	"github.com/milk9111/traversal/controller"
	"github.com/milk9111/traversal/physics"
	"github.com/milk9111/traversal/prefabs"
	"github.com/milk9111/traversal/sim"
)

const (
	DefaultCharacter = "character.yaml"
	DefaultCourse    = "course.yaml"

	// Step is the fixed simulation step, 50 Hz.
	Step = 1.0 / 50
)

// Rig is a character standing in a course, advanced one fixed step at a
// time. The sandbox drives it from the keyboard, scripts drive it from tengo.
type Rig struct {
	World     *physics.World
	Body      *physics.ChipmunkBody
	Character *controller.Character
	Ropes     *ability.RopeSet
	Spec      *prefabs.CharacterSpec
	Course    *prefabs.CourseSpec

	sched  *sim.Scheduler
	logger *log.Logger

	moveX float64
	aim   cp.Vector
}

type RigOption func(*rigConfig)

type rigConfig struct {
	character string
	course    string
	logger    *log.Logger
}

func WithCharacter(filename string) RigOption {
	return func(c *rigConfig) { c.character = filename }
}

func WithCourse(filename string) RigOption {
	return func(c *rigConfig) { c.course = filename }
}

func WithLogger(l *log.Logger) RigOption {
	return func(c *rigConfig) { c.logger = l }
}

// NewRig loads the character and course prefabs and wires them together.
func NewRig(opts ...RigOption) (*Rig, error) {
	cfg := rigConfig{character: DefaultCharacter, course: DefaultCourse, logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	spec, err := prefabs.LoadCharacterSpec(cfg.character)
	if err != nil {
		return nil, err
	}
	course, err := prefabs.LoadCourseSpec(cfg.course)
	if err != nil {
		return nil, err
	}

	world := course.Build()
	body := world.NewBody(course.Spawn.Vector(), spec.Body.Width, spec.Body.Height, spec.Body.Mass)
	body.SetGravityScale(spec.Body.GravityScale)

	ropes := ability.NewRopeSet()
	sched := sim.NewScheduler(Step)

	coordOpts := append(spec.CoordinatorOptions(), controller.WithVisuals(ropes), controller.WithLogger(cfg.logger))
	coord := controller.NewCoordinator(body, ability.NewRegistry(), sched.Clock(), coordOpts...)
	if err := spec.Equip(coord); err != nil {
		return nil, err
	}

	ch := &controller.Character{
		Coordinator: coord,
		Jump:        controller.NewJumpController(coord, spec.JumpSettings(), course.Gravity),
		Movement:    controller.NewMovement(coord, spec.MoveSettings()),
		Ground:      controller.NewGroundSensor(coord, spec.Ground.Reach, spec.Ground.Spread, spec.GroundMask()),
	}

	sched.Add(ch)
	sched.Add(world)
	sched.Add(ropes)

	cfg.logger.Printf("scenario: rig %s in %s with %d slots", spec.Name, course.Name, len(spec.Slots))

	return &Rig{
		World:     world,
		Body:      body,
		Character: ch,
		Ropes:     ropes,
		Spec:      spec,
		Course:    course,
		sched:     sched,
		logger:    cfg.logger,
	}, nil
}

func (r *Rig) Coordinator() *controller.Coordinator { return r.Character.Coordinator }

func (r *Rig) Scheduler() *sim.Scheduler { return r.sched }

// Ticks returns how many fixed steps have run.
func (r *Rig) Ticks() int { return r.sched.Ticks() }

// Now returns simulation time in seconds.
func (r *Rig) Now() float64 { return r.sched.Clock().Now() }

// SetMove holds the horizontal axis until changed.
func (r *Rig) SetMove(x float64) {
	r.moveX = x
	r.Character.Movement.SetInput(x)
}

// SetAim holds the aim direction until changed. Zero means facing.
func (r *Rig) SetAim(aim cp.Vector) { r.aim = aim }

func (r *Rig) Aim() cp.Vector { return r.aim }

// Apply feeds one frame of edges on top of the held move and aim.
func (r *Rig) Apply(in controller.Input) {
	in.MoveX = r.moveX
	if common.IsNearZero(in.Aim) {
		in.Aim = r.aim
	}
	r.Character.Apply(in)
}

func (r *Rig) Trigger(slot controller.Slot) bool {
	return r.Character.Trigger(slot, r.aim)
}

func (r *Rig) Jump() bool { return r.Character.Jump.Press() }

func (r *Rig) ReleaseJump() { r.Character.Jump.Release() }

func (r *Rig) Cancel() { r.Coordinator().CancelCurrent() }

// Advance runs n fixed steps.
func (r *Rig) Advance(n int) {
	for i := 0; i < n; i++ {
		r.sched.Tick()
	}
}

// Update runs as many fixed steps as fit in a frame delta.
func (r *Rig) Update(frameDelta float64) int {
	return r.sched.Step(frameDelta)
}

// Teleport places the body and sets its velocity.
func (r *Rig) Teleport(pos, vel cp.Vector) {
	r.Body.SetPosition(pos)
	r.Body.SetVelocity(vel)
}

// Ammo returns the remaining uses of slot, -1 when unlimited.
func (r *Rig) Ammo(slot controller.Slot) (int, error) {
	def, ok := r.Coordinator().Definition(slot)
	if !ok {
		return 0, fmt.Errorf("scenario: no slot %q", slot)
	}
	return r.Coordinator().Registry().Ammo(def), nil
}

// Snapshot captures the character's observable state.
func (r *Rig) Snapshot() State {
	coord := r.Coordinator()
	s := State{
		Tick:     r.Ticks(),
		Time:     r.Now(),
		Pos:      vec(r.Body.Position()),
		Vel:      vec(r.Body.Velocity()),
		Gravity:  r.Body.GravityScale(),
		Grounded: coord.Grounded(),
		Facing:   coord.FacingSign(),
		Slot:     string(coord.CurrentSlot()),
		Phase:    ability.PhaseNone.String(),
	}
	if rt := coord.Current(); rt != nil {
		s.Phase = rt.Phase().String()
		s.Active = rt.Active()
		s.Exclusive = rt.Exclusive()
	}
	return s
}

func (r *Rig) Close() {
	r.Character.Close()
}
