package controller

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/ability"
	"github.com/milk9111/traversal/physics"
	"github.com/milk9111/traversal/sim"
)

// Slot names an equipped ability, e.g. "dash" or "lasso".
type Slot string

type slot struct {
	id    Slot
	def   ability.Definition
	spent bool // finite ammo used since the last landing
}

type Option func(*Coordinator)

func WithRefillAmmoOnGround(on bool) Option {
	return func(c *Coordinator) { c.refillAmmoOnGround = on }
}

func WithResetCooldownOnGround(on bool) Option {
	return func(c *Coordinator) { c.resetCooldownOnGround = on }
}

// WithRefillWhileGroundedOnAbilityEnd refills a spent slot when its runtime
// ends while the character is standing.
func WithRefillWhileGroundedOnAbilityEnd(on bool) Option {
	return func(c *Coordinator) { c.refillOnEnd = on }
}

func WithVisuals(v ability.Visuals) Option {
	return func(c *Coordinator) { c.visuals = v }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// Coordinator decides which ability drives the body. At most one runtime is
// current at a time; starting another force-cancels it first.
type Coordinator struct {
	body    physics.Body
	reg     *ability.Registry
	clock   sim.Clock
	visuals ability.Visuals
	logger  *log.Logger

	refillAmmoOnGround    bool
	resetCooldownOnGround bool
	refillOnEnd           bool

	slots       []*slot
	current     ability.Runtime
	currentSlot *slot

	grounded    bool
	facingRight bool

	onStarted         []func(Slot)
	onGroundedChanged []func(bool)
}

var _ ability.Owner = (*Coordinator)(nil)

func NewCoordinator(body physics.Body, reg *ability.Registry, clock sim.Clock, opts ...Option) *Coordinator {
	if body == nil {
		panic("controller: coordinator needs a physics body")
	}
	if reg == nil {
		reg = ability.NewRegistry()
	}
	if clock == nil {
		clock = &sim.FixedClock{}
	}
	c := &Coordinator{
		body:               body,
		reg:                reg,
		clock:              clock,
		visuals:            ability.NopVisuals{},
		logger:             log.Default(),
		refillAmmoOnGround: true,
		refillOnEnd:        true,
		facingRight:        true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Equip binds def to id, replacing whatever was there.
func (c *Coordinator) Equip(id Slot, def ability.Definition) {
	for _, s := range c.slots {
		if s.id == id {
			if c.currentSlot == s {
				c.CancelCurrent()
			}
			s.def = def
			s.spent = false
			return
		}
	}
	c.slots = append(c.slots, &slot{id: id, def: def})
}

func (c *Coordinator) Definition(id Slot) (ability.Definition, bool) {
	if s := c.lookup(id); s != nil {
		return s.def, true
	}
	return nil, false
}

func (c *Coordinator) Slots() []Slot {
	ids := make([]Slot, 0, len(c.slots))
	for _, s := range c.slots {
		ids = append(ids, s.id)
	}
	return ids
}

func (c *Coordinator) lookup(id Slot) *slot {
	for _, s := range c.slots {
		if s.id == id {
			return s
		}
	}
	return nil
}

// Trigger starts the ability in id if it is ready. It reports whether a
// runtime was created. A runtime whose cast missed is still recorded and
// dropped on the next tick.
func (c *Coordinator) Trigger(id Slot, aim cp.Vector) bool {
	s := c.lookup(id)
	if s == nil || s.def == nil {
		return false
	}
	now := c.clock.Now()
	if !c.reg.IsReady(s.def, now) {
		return false
	}
	c.CancelCurrent()

	rt := s.def.NewRuntime(c)
	rt.Use(aim)
	c.reg.MarkUsed(s.def, now)
	if s.def.Settings().FiniteAmmo() {
		s.spent = true
	}
	c.current = rt
	c.currentSlot = s

	c.logger.Printf("coordinator: started %s (%s) active=%v", id, s.def.Settings().Name, rt.Active())
	for _, fn := range c.onStarted {
		fn(id)
	}
	return true
}

// CancelCurrent force-cancels the current runtime. Safe with nothing current.
func (c *Coordinator) CancelCurrent() {
	if c.current == nil {
		return
	}
	if c.current.Active() {
		c.logger.Printf("coordinator: cancelled %s", c.currentSlot.id)
	}
	c.current.ForceCancel()
	c.current = nil
	c.currentSlot = nil
}

// HandleJumpPressed offers the press to the current runtime and reports
// whether it was consumed.
func (c *Coordinator) HandleJumpPressed() bool {
	if c.current == nil || !c.current.Active() {
		return false
	}
	return c.current.OnJumpPressed()
}

// NotifyGrounded records the ground state. Landing refills spent slots and
// optionally resets cooldowns.
func (c *Coordinator) NotifyGrounded(grounded bool) {
	if c.grounded == grounded {
		return
	}
	c.grounded = grounded
	for _, fn := range c.onGroundedChanged {
		fn(grounded)
	}
	if !grounded {
		return
	}
	for _, s := range c.slots {
		if c.refillAmmoOnGround && s.spent {
			c.reg.Refill(s.def)
			s.spent = false
		}
		if c.resetCooldownOnGround {
			c.reg.ResetCooldown(s.def)
		}
	}
}

// MovementOverride reports whether an exclusive runtime owns the body's
// velocity and gravity.
func (c *Coordinator) MovementOverride() bool {
	return c.current != nil && c.current.Active() && c.current.Exclusive()
}

// Tick advances the current runtime, then drops it if it has finished.
func (c *Coordinator) Tick(dt float64) {
	if c.current == nil {
		return
	}
	if c.current.Active() {
		c.current.Tick(dt)
	}
	if c.current.Active() {
		return
	}
	if c.refillOnEnd && c.grounded {
		c.refillSlot(c.currentSlot)
	}
	c.current = nil
	c.currentSlot = nil
}

func (c *Coordinator) refillSlot(s *slot) {
	if !c.refillAmmoOnGround || s == nil || !s.spent {
		return
	}
	c.reg.Refill(s.def)
	s.spent = false
}

// Close cancels whatever is running.
func (c *Coordinator) Close() {
	c.CancelCurrent()
}

// OnAbilityStarted registers fn to run after every successful Trigger.
func (c *Coordinator) OnAbilityStarted(fn func(Slot)) {
	c.onStarted = append(c.onStarted, fn)
}

func (c *Coordinator) OnGroundedChanged(fn func(bool)) {
	c.onGroundedChanged = append(c.onGroundedChanged, fn)
}

func (c *Coordinator) Current() ability.Runtime { return c.current }

// CurrentSlot returns the slot of the current runtime, or "" with none.
func (c *Coordinator) CurrentSlot() Slot {
	if c.currentSlot == nil {
		return ""
	}
	return c.currentSlot.id
}

func (c *Coordinator) Registry() *ability.Registry { return c.reg }
func (c *Coordinator) Clock() sim.Clock            { return c.clock }

func (c *Coordinator) SetFacing(right bool) { c.facingRight = right }

// ability.Owner

func (c *Coordinator) Body() physics.Body { return c.body }

func (c *Coordinator) FacingSign() float64 {
	if c.facingRight {
		return 1
	}
	return -1
}

func (c *Coordinator) Grounded() bool { return c.grounded }

func (c *Coordinator) Visuals() ability.Visuals { return c.visuals }
