package sim

// Ticker is anything advanced once per fixed step.
type Ticker interface {
	Tick(dt float64)
}

// TickFunc adapts a plain function to Ticker.
type TickFunc func(dt float64)

func (f TickFunc) Tick(dt float64) { f(dt) }

// Clock reports simulation time in seconds.
type Clock interface {
	Now() float64
}

// FixedClock is advanced explicitly, normally by a Scheduler.
type FixedClock struct {
	now float64
}

func (c *FixedClock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.now
}

func (c *FixedClock) Advance(dt float64) {
	c.now += dt
}

const defaultMaxSteps = 5

// Scheduler runs its tickers in insertion order at a fixed step.
type Scheduler struct {
	step     float64
	maxSteps int
	acc      float64
	ticks    int
	clock    *FixedClock
	tickers  []Ticker
}

func NewScheduler(step float64, tickers ...Ticker) *Scheduler {
	if step <= 0 {
		step = 1.0 / 50.0
	}
	copied := append([]Ticker(nil), tickers...)
	return &Scheduler{
		step:     step,
		maxSteps: defaultMaxSteps,
		clock:    &FixedClock{},
		tickers:  copied,
	}
}

func (s *Scheduler) Add(t Ticker) {
	if t == nil {
		return
	}
	s.tickers = append(s.tickers, t)
}

// Dt returns the fixed step length.
func (s *Scheduler) Dt() float64 { return s.step }

// Clock returns the simulation clock driven by this scheduler.
func (s *Scheduler) Clock() *FixedClock { return s.clock }

// Ticks returns how many fixed steps have run.
func (s *Scheduler) Ticks() int { return s.ticks }

// Tick runs exactly one fixed step.
func (s *Scheduler) Tick() {
	s.clock.Advance(s.step)
	s.ticks++
	for _, t := range s.tickers {
		t.Tick(s.step)
	}
}

// Step accumulates a variable frame delta and runs as many whole fixed steps
// as fit, capped so a long stall cannot spiral. It returns the steps run.
func (s *Scheduler) Step(frameDelta float64) int {
	if frameDelta <= 0 {
		return 0
	}
	s.acc += frameDelta
	n := 0
	for s.acc >= s.step && n < s.maxSteps {
		s.acc -= s.step
		s.Tick()
		n++
	}
	if n == s.maxSteps {
		s.acc = 0
	}
	return n
}
