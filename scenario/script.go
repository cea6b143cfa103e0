package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/controller"
	"github.com/milk9111/traversal/prefabs"
)

// MaxTicks bounds a single script run, five minutes of simulated time.
const MaxTicks = 5 * 60 * 50

var ErrTickLimit = errors.New("scenario: tick limit reached")

type runner struct {
	ctx   context.Context
	rig   *Rig
	trace *Trace
	name  string
}

// RunFile loads a script from prefabs/scripts and runs it against rig.
func RunFile(ctx context.Context, rig *Rig, name string) (*Trace, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", name, err)
	}
	return Run(ctx, rig, name, src)
}

// Run executes a tengo script that drives rig through the global `sim`
// module. Failed expectations are collected in the trace; an error means the
// script itself could not finish.
func Run(ctx context.Context, rig *Rig, name string, src []byte) (*Trace, error) {
	r := &runner{ctx: ctx, rig: rig, trace: &Trace{Script: name}, name: name}

	coord := rig.Coordinator()
	coord.OnAbilityStarted(func(s controller.Slot) {
		r.trace.event(rig.Ticks(), "started", string(s))
	})
	coord.OnGroundedChanged(func(g bool) {
		kind := "left_ground"
		if g {
			kind = "landed"
		}
		r.trace.event(rig.Ticks(), kind, "")
	})

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("sim", r.module()); err != nil {
		return nil, err
	}

	_, err := script.RunContext(ctx)
	r.trace.Ticks = rig.Ticks()
	r.trace.Final = rig.Snapshot()
	if err != nil {
		return r.trace, fmt.Errorf("scenario: %s: %w", name, err)
	}
	return r.trace, nil
}

func (r *runner) module() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["step"] = &tengo.UserFunction{Name: "step", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n := 1
		if len(args) > 0 {
			v, ok := tengo.ToInt(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "n", Expected: "int", Found: args[0].TypeName()}
			}
			n = v
		}
		if err := r.step(n); err != nil {
			return nil, err
		}
		return stateObject(r.rig.Snapshot()), nil
	}}

	values["seconds"] = &tengo.UserFunction{Name: "seconds", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		s, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "seconds", Expected: "float", Found: args[0].TypeName()}
		}
		return &tengo.Int{Value: int64(s/Step + 0.5)}, nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, err := floatArg(args, 0, "x")
		if err != nil {
			return nil, err
		}
		r.rig.SetMove(x)
		return tengo.UndefinedValue, nil
	}}

	values["aim"] = &tengo.UserFunction{Name: "aim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, err := floatArg(args, 0, "x")
		if err != nil {
			return nil, err
		}
		y, err := floatArg(args, 1, "y")
		if err != nil {
			return nil, err
		}
		r.rig.SetAim(cp.Vector{X: x, Y: y})
		return tengo.UndefinedValue, nil
	}}

	values["trigger"] = &tengo.UserFunction{Name: "trigger", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		slot := strings.TrimSpace(objectAsString(args[0]))
		return boolObject(r.rig.Trigger(controller.Slot(slot))), nil
	}}

	values["jump"] = &tengo.UserFunction{Name: "jump", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(r.rig.Jump()), nil
	}}

	values["release"] = &tengo.UserFunction{Name: "release", Value: func(args ...tengo.Object) (tengo.Object, error) {
		r.rig.ReleaseJump()
		return tengo.UndefinedValue, nil
	}}

	values["cancel"] = &tengo.UserFunction{Name: "cancel", Value: func(args ...tengo.Object) (tengo.Object, error) {
		r.rig.Cancel()
		return tengo.UndefinedValue, nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return stateObject(r.rig.Snapshot()), nil
	}}

	values["ammo"] = &tengo.UserFunction{Name: "ammo", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, err := r.rig.Ammo(controller.Slot(objectAsString(args[0])))
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(n)}, nil
	}}

	values["teleport"] = &tengo.UserFunction{Name: "teleport", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var nums [4]float64
		if len(args) != 2 && len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		for i := range args {
			v, err := floatArg(args, i, "coordinate")
			if err != nil {
				return nil, err
			}
			nums[i] = v
		}
		r.rig.Teleport(cp.Vector{X: nums[0], Y: nums[1]}, cp.Vector{X: nums[2], Y: nums[3]})
		return tengo.UndefinedValue, nil
	}}

	values["expect"] = &tengo.UserFunction{Name: "expect", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		if !args[0].IsFalsy() {
			return tengo.TrueValue, nil
		}
		msg := "expectation failed"
		if len(args) > 1 {
			msg = objectAsString(args[1])
		}
		r.trace.fail(r.rig.Ticks(), msg)
		r.rig.logger.Printf("scenario: %s: FAIL tick %d: %s", r.name, r.rig.Ticks(), msg)
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		line := strings.Join(parts, " ")
		r.trace.Logs = append(r.trace.Logs, line)
		r.rig.logger.Printf("scenario: %s: %s", r.name, line)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func (r *runner) step(n int) error {
	for i := 0; i < n; i++ {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if r.rig.Ticks() >= MaxTicks {
			return ErrTickLimit
		}
		r.rig.Advance(1)
	}
	return nil
}

func stateObject(s State) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"tick":      &tengo.Int{Value: int64(s.Tick)},
		"time":      &tengo.Float{Value: s.Time},
		"x":         &tengo.Float{Value: s.Pos.X},
		"y":         &tengo.Float{Value: s.Pos.Y},
		"vx":        &tengo.Float{Value: s.Vel.X},
		"vy":        &tengo.Float{Value: s.Vel.Y},
		"gravity":   &tengo.Float{Value: s.Gravity},
		"facing":    &tengo.Float{Value: s.Facing},
		"grounded":  boolObject(s.Grounded),
		"slot":      &tengo.String{Value: s.Slot},
		"phase":     &tengo.String{Value: s.Phase},
		"active":    boolObject(s.Active),
		"exclusive": boolObject(s.Exclusive),
	}}
}

func floatArg(args []tengo.Object, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, tengo.ErrWrongNumArguments
	}
	v, ok := tengo.ToFloat64(args[i])
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: name, Expected: "float", Found: args[i].TypeName()}
	}
	return v, nil
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
