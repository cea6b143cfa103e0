package prefabs

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/physics"
)

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p PointSpec) Vector() cp.Vector { return cp.Vector{X: p.X, Y: p.Y} }

// BlockSpec is a solid axis-aligned box centred on X, Y.
type BlockSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	W      float64 `yaml:"w"`
	H      float64 `yaml:"h"`
	Layers uint    `yaml:"layers"`
}

// CourseSpec is a test course: world gravity, a spawn point and static
// geometry.
type CourseSpec struct {
	Name    string      `yaml:"name"`
	Gravity float64     `yaml:"gravity"`
	Spawn   PointSpec   `yaml:"spawn"`
	Blocks  []BlockSpec `yaml:"blocks"`
}

func LoadCourseSpec(filename string) (*CourseSpec, error) {
	spec := &CourseSpec{Gravity: -30}
	if err := decodeInto(filename, spec); err != nil {
		return nil, err
	}
	for i, b := range spec.Blocks {
		if b.W <= 0 || b.H <= 0 {
			return nil, fmt.Errorf("prefabs: %s: block %d has no area", filename, i)
		}
	}
	return spec, nil
}

// Build creates a world holding the course geometry.
func (c *CourseSpec) Build() *physics.World {
	w := physics.NewWorld(cp.Vector{Y: c.Gravity})
	for _, b := range c.Blocks {
		w.AddStaticBox(cp.Vector{X: b.X, Y: b.Y}, b.W, b.H, physics.Mask(b.Layers))
	}
	return w
}
