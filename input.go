package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/controller"
	"github.com/milk9111/traversal/prefabs"
)

const stickDeadzone = 0.2

var buttonNames = map[string]ebiten.StandardGamepadButton{
	"A":            ebiten.StandardGamepadButtonRightBottom,
	"B":            ebiten.StandardGamepadButtonRightRight,
	"X":            ebiten.StandardGamepadButtonRightLeft,
	"Y":            ebiten.StandardGamepadButtonRightTop,
	"LeftBumper":   ebiten.StandardGamepadButtonFrontTopLeft,
	"RightBumper":  ebiten.StandardGamepadButtonFrontTopRight,
	"LeftTrigger":  ebiten.StandardGamepadButtonFrontBottomLeft,
	"RightTrigger": ebiten.StandardGamepadButtonFrontBottomRight,
}

// binding maps one ability slot to a key and an optional gamepad button.
type binding struct {
	slot      controller.Slot
	key       ebiten.Key
	hasKey    bool
	button    ebiten.StandardGamepadButton
	hasButton bool
}

func parseBindings(slots []prefabs.SlotSpec) ([]binding, error) {
	out := make([]binding, 0, len(slots))
	for _, s := range slots {
		b := binding{slot: controller.Slot(s.ID)}
		if s.Key != "" {
			if err := b.key.UnmarshalText([]byte(s.Key)); err != nil {
				return nil, fmt.Errorf("sandbox: slot %s: key %q: %w", s.ID, s.Key, err)
			}
			b.hasKey = true
		}
		if s.Button != "" {
			btn, ok := buttonNames[s.Button]
			if !ok {
				return nil, fmt.Errorf("sandbox: slot %s: unknown button %q", s.ID, s.Button)
			}
			b.button = btn
			b.hasButton = true
		}
		out = append(out, b)
	}
	return out, nil
}

// pollInput reads keyboard, mouse and the first gamepad into one frame of
// character input. cursor is the mouse position in world units.
func pollInput(bindings []binding, body, cursor cp.Vector) controller.Input {
	var in controller.Input

	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	if left {
		in.MoveX -= 1
	}
	if right {
		in.MoveX += 1
	}
	in.Aim = cp.Vector{X: in.MoveX}
	if up {
		in.Aim.Y += 1
	}
	if down {
		in.Aim.Y -= 1
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		in.Aim = cursor.Sub(body)
	}

	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.JumpReleased = inpututil.IsKeyJustReleased(ebiten.KeySpace)
	in.Cancel = inpututil.IsKeyJustPressed(ebiten.KeyC)

	for _, b := range bindings {
		if b.hasKey && inpututil.IsKeyJustPressed(b.key) {
			in.Triggers = append(in.Triggers, b.slot)
		}
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			in.MoveX = leftX
		}

		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.JumpReleased = in.JumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)
		in.Cancel = in.Cancel || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			// stick Y grows downward
			in.Aim = cp.Vector{X: rx, Y: -ry}
		}

		for _, b := range bindings {
			if b.hasButton && inpututil.IsStandardGamepadButtonJustPressed(id, b.button) {
				in.Triggers = append(in.Triggers, b.slot)
			}
		}
	}

	return in
}
