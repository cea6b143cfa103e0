package ability

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RopeID distinguishes the rope lines owned by different abilities.
type RopeID int

const (
	RopeGrapple RopeID = iota + 1
	RopeLasso
)

// Visuals receives the cosmetic side effects of abilities. Implementations
// must not touch the physics body.
type Visuals interface {
	ShowRope(id RopeID, a, b cp.Vector)
	HideRope(id RopeID)
	// ShowPreview draws a short-lived segment for a cast that missed.
	ShowPreview(a, b cp.Vector, lifetime float64)
}

type NopVisuals struct{}

func (NopVisuals) ShowRope(RopeID, cp.Vector, cp.Vector) {}

func (NopVisuals) HideRope(RopeID) {}

func (NopVisuals) ShowPreview(cp.Vector, cp.Vector, float64) {}

type Segment struct {
	A, B cp.Vector
}

// Preview is a fading miss segment. Alpha goes from 1 to 0 over its lifetime.
type Preview struct {
	Segment
	Alpha float64

	tween *gween.Tween
}

// RopeSet keeps the segments a renderer should draw this frame.
type RopeSet struct {
	ropes    map[RopeID]Segment
	previews []*Preview
}

func NewRopeSet() *RopeSet {
	return &RopeSet{ropes: make(map[RopeID]Segment)}
}

func (r *RopeSet) ShowRope(id RopeID, a, b cp.Vector) {
	if r.ropes == nil {
		r.ropes = make(map[RopeID]Segment)
	}
	r.ropes[id] = Segment{A: a, B: b}
}

func (r *RopeSet) HideRope(id RopeID) {
	delete(r.ropes, id)
}

func (r *RopeSet) ShowPreview(a, b cp.Vector, lifetime float64) {
	if lifetime <= 0 {
		return
	}
	r.previews = append(r.previews, &Preview{
		Segment: Segment{A: a, B: b},
		Alpha:   1,
		tween:   gween.New(1, 0, float32(lifetime), ease.Linear),
	})
}

// Update fades previews and drops the finished ones.
func (r *RopeSet) Update(dt float64) {
	kept := r.previews[:0]
	for _, p := range r.previews {
		alpha, done := p.tween.Update(float32(dt))
		if done {
			continue
		}
		p.Alpha = float64(alpha)
		kept = append(kept, p)
	}
	for i := len(kept); i < len(r.previews); i++ {
		r.previews[i] = nil
	}
	r.previews = kept
}

// Tick lets the set run on the fixed-step scheduler.
func (r *RopeSet) Tick(dt float64) { r.Update(dt) }

// Ropes returns the visible ropes ordered by id.
func (r *RopeSet) Ropes() []Segment {
	ids := make([]int, 0, len(r.ropes))
	for id := range r.ropes {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := make([]Segment, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.ropes[RopeID(id)])
	}
	return out
}

// Rope returns the segment for id, if shown.
func (r *RopeSet) Rope(id RopeID) (Segment, bool) {
	s, ok := r.ropes[id]
	return s, ok
}

func (r *RopeSet) Previews() []Preview {
	out := make([]Preview, 0, len(r.previews))
	for _, p := range r.previews {
		out = append(out, *p)
	}
	return out
}
