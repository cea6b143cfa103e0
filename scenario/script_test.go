package scenario

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/milk9111/traversal/controller"
	"github.com/milk9111/traversal/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRig(t *testing.T) (*Rig, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	rig, err := NewRig(WithLogger(log.New(logs, "", 0)))
	require.NoError(t, err)
	t.Cleanup(rig.Close)
	return rig, logs
}

func TestNewRig(t *testing.T) {
	rig, logs := newTestRig(t)

	assert.Equal(t, []controller.Slot{"dash", "grapple", "lasso"}, rig.Coordinator().Slots())
	assert.InDelta(t, 0.8, rig.Body.Position().Y, 1e-9)
	assert.Contains(t, logs.String(), "scenario: rig runner in playground with 3 slots")
}

func TestNewRigMissingPrefab(t *testing.T) {
	_, err := NewRig(WithCharacter("nobody.yaml"), WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	assert.ErrorContains(t, err, "nobody.yaml")

	_, err = NewRig(WithCourse("nowhere.yaml"), WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	assert.ErrorContains(t, err, "nowhere.yaml")
}

func TestRigStandsOnFloor(t *testing.T) {
	rig, _ := newTestRig(t)
	rig.Advance(10)

	s := rig.Snapshot()
	assert.Equal(t, 10, s.Tick)
	assert.InDelta(t, 0.2, s.Time, 1e-9)
	assert.True(t, s.Grounded)
	assert.Equal(t, "none", s.Phase)
	assert.InDelta(t, 0.8, s.Pos.Y, 0.05)
}

func TestRigApplyKeepsHeldInput(t *testing.T) {
	rig, _ := newTestRig(t)
	rig.Advance(5)

	rig.SetMove(-1)
	rig.Apply(controller.Input{Triggers: []controller.Slot{"dash"}})

	s := rig.Snapshot()
	assert.Equal(t, "dash", s.Slot)
	assert.Equal(t, -1.0, s.Facing)
	assert.Less(t, s.Vel.X, 0.0, "held move turned the dash around")
}

func TestBundledScriptsPass(t *testing.T) {
	names, err := prefabs.Scripts()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			rig, _ := newTestRig(t)
			trace, err := RunFile(context.Background(), rig, name)
			require.NoError(t, err)
			assert.True(t, trace.Passed(), "failures: %v", trace.Failures)
			assert.Equal(t, rig.Ticks(), trace.Ticks)
		})
	}
}

func TestRunCollectsFailures(t *testing.T) {
	rig, logs := newTestRig(t)
	src := `
sim.expect(false, "boom")
sim.expect(1 == 1, "fine")
sim.step(3)
sim.expect(sim.state().tick == 2)
sim.log("at", sim.state().tick)
sim.expect(sim.seconds(0.5) == 25, "seconds rounds to ticks")
`
	trace, err := Run(context.Background(), rig, "inline", []byte(src))
	require.NoError(t, err)

	assert.False(t, trace.Passed())
	assert.Equal(t, []string{"tick 0: boom", "tick 3: expectation failed"}, trace.Failures)
	assert.Equal(t, []string{"at 3"}, trace.Logs)
	assert.Equal(t, 3, trace.Final.Tick)
	assert.Contains(t, logs.String(), "scenario: inline: FAIL tick 0: boom")
}

func TestRunRecordsEvents(t *testing.T) {
	rig, _ := newTestRig(t)
	src := `
sim.step(2)
sim.trigger("dash")
sim.step()
`
	trace, err := Run(context.Background(), rig, "events", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []Event{
		{Tick: 1, Kind: "landed"},
		{Tick: 2, Kind: "started", Detail: "dash"},
	}, trace.Events)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "compile", src: "sim.step(("},
		{name: "argument", src: `sim.step("many")`},
		{name: "arity", src: "sim.aim(1)"},
		{name: "slot", src: `sim.ammo("kick")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig, _ := newTestRig(t)
			_, err := Run(context.Background(), rig, tt.name, []byte(tt.src))
			assert.ErrorContains(t, err, "scenario: "+tt.name)
		})
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	rig, _ := newTestRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, rig, "cancelled", []byte("for { sim.step() }"))
	assert.Error(t, err)
}

func TestTraceWriteYAML(t *testing.T) {
	rig, _ := newTestRig(t)
	trace, err := Run(context.Background(), rig, "inline", []byte(`sim.step(1); sim.expect(false, "nope")`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, trace.WriteYAML(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "script: inline\n"))
	assert.Contains(t, out, "final:\n")
	assert.Contains(t, out, "tick 1: nope")
}
