package ability

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/physics"
	"github.com/milk9111/traversal/physics/physicstest"
)

const tick = 1.0 / 50

type testOwner struct {
	body     *physicstest.Body
	facing   float64
	grounded bool
	ropes    *RopeSet
}

func newTestOwner() *testOwner {
	return &testOwner{
		body:   physicstest.New(cp.Vector{}),
		facing: 1,
		ropes:  NewRopeSet(),
	}
}

func (o *testOwner) Body() physics.Body  { return o.body }
func (o *testOwner) FacingSign() float64 { return o.facing }
func (o *testOwner) Grounded() bool      { return o.grounded }
func (o *testOwner) Visuals() Visuals    { return o.ropes }

func ticks(r Runtime, n int) {
	for i := 0; i < n; i++ {
		r.Tick(tick)
	}
}
