package scenario

import (
	"fmt"
	"io"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func vec(v cp.Vector) Vec { return Vec{X: v.X, Y: v.Y} }

// State is what a script can observe about the character after a step.
type State struct {
	Tick      int     `yaml:"tick"`
	Time      float64 `yaml:"time"`
	Pos       Vec     `yaml:"pos"`
	Vel       Vec     `yaml:"vel"`
	Gravity   float64 `yaml:"gravity"`
	Grounded  bool    `yaml:"grounded"`
	Facing    float64 `yaml:"facing"`
	Slot      string  `yaml:"slot,omitempty"`
	Phase     string  `yaml:"phase"`
	Active    bool    `yaml:"active"`
	Exclusive bool    `yaml:"exclusive"`
}

type Event struct {
	Tick   int    `yaml:"tick"`
	Kind   string `yaml:"kind"`
	Detail string `yaml:"detail,omitempty"`
}

// Trace is the record of one script run.
type Trace struct {
	Script   string   `yaml:"script"`
	Ticks    int      `yaml:"ticks"`
	Final    State    `yaml:"final"`
	Events   []Event  `yaml:"events,omitempty"`
	Failures []string `yaml:"failures,omitempty"`
	Logs     []string `yaml:"logs,omitempty"`
}

func (t *Trace) Passed() bool { return len(t.Failures) == 0 }

func (t *Trace) event(tick int, kind, detail string) {
	t.Events = append(t.Events, Event{Tick: tick, Kind: kind, Detail: detail})
}

func (t *Trace) fail(tick int, msg string) {
	t.Failures = append(t.Failures, fmt.Sprintf("tick %d: %s", tick, msg))
}

// WriteYAML writes the trace as a YAML document.
func (t *Trace) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("scenario: encode trace: %w", err)
	}
	return enc.Close()
}
