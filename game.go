package main

import (
	"fmt"
	"image/color"
	"log"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/ability"
	"github.com/milk9111/traversal/common"
	"github.com/milk9111/traversal/prefabs"
	"github.com/milk9111/traversal/scenario"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// defaultZoom is pixels per world unit.
	defaultZoom = 36
)

type lineStyle struct {
	width float32
	color color.Color
}

type Game struct {
	frames int
	debug  bool

	characterName string
	courseName    string

	rig      *scenario.Rig
	bindings []binding
	ropes    map[ability.RopeID]lineStyle
	preview  lineStyle
	camera   *Camera

	watcher *prefabs.Watcher
}

func NewGame(characterName, courseName string, debug, watch bool) (*Game, error) {
	g := &Game{
		debug:         debug,
		characterName: characterName,
		courseName:    courseName,
		camera:        NewCamera(baseWidth, baseHeight, defaultZoom),
	}
	if err := g.load(); err != nil {
		return nil, err
	}

	if watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("sandbox: hot reload off: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load builds a fresh rig from the prefabs. On error the old rig stays.
func (g *Game) load() error {
	rig, err := scenario.NewRig(scenario.WithCharacter(g.characterName), scenario.WithCourse(g.courseName))
	if err != nil {
		return err
	}
	bindings, err := parseBindings(rig.Spec.Slots)
	if err != nil {
		rig.Close()
		return err
	}

	ropes := map[ability.RopeID]lineStyle{
		ability.RopeGrapple: {width: 0.05, color: colornames.Khaki},
		ability.RopeLasso:   {width: 0.04, color: colornames.Peru},
	}
	preview := lineStyle{width: 0.03, color: colornames.Lightgrey}
	for _, slot := range rig.Spec.Slots {
		def, err := prefabs.LoadAbility(slot.Ability)
		if err != nil {
			continue
		}
		rope, prev, err := prefabs.LoadLineStyles(slot.Ability)
		if err != nil {
			continue
		}
		var id ability.RopeID
		switch def.(type) {
		case *ability.GrappleDefinition:
			id = ability.RopeGrapple
		case *ability.LassoDefinition:
			id = ability.RopeLasso
		default:
			continue
		}
		if rope.Width > 0 {
			ropes[id] = lineStyle{width: rope.Width, color: rope.Color.ColorOr(ropes[id].color)}
		}
		if prev.Width > 0 {
			preview = lineStyle{width: prev.Width, color: prev.Color.ColorOr(preview.color)}
		}
	}

	if g.rig != nil {
		g.rig.Close()
	}
	g.rig = rig
	g.bindings = bindings
	g.ropes = ropes
	g.preview = preview
	g.camera.SetWorldBounds(courseBounds(rig.Course))
	g.camera.SnapTo(rig.Body.Position())
	return nil
}

func courseBounds(c *prefabs.CourseSpec) cp.BB {
	var bb cp.BB
	for i, b := range c.Blocks {
		box := cp.NewBBForExtents(cp.Vector{X: b.X, Y: b.Y}, b.W/2, b.H/2)
		if i == 0 {
			bb = box
			continue
		}
		bb = bb.Merge(box)
	}
	return bb
}

func (g *Game) reload(reason string) {
	if err := g.load(); err != nil {
		log.Printf("sandbox: reload after %s failed: %v", reason, err)
		return
	}
	log.Printf("sandbox: reloaded after %s", reason)
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload("restart")
	}
	if g.watcher != nil {
		if changed := g.watcher.Drain(); len(changed) > 0 {
			g.reload(path.Base(changed[0]))
		}
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.camera.SetZoom(g.camera.Zoom() * (1 + 0.1*dy))
	}

	body := g.rig.Body.Position()
	mx, my := ebiten.CursorPosition()
	in := pollInput(g.bindings, body, g.camera.ToWorld(float64(mx), float64(my)))
	g.rig.SetMove(in.MoveX)
	g.rig.SetAim(in.Aim)
	g.rig.Apply(in)

	g.rig.Update(1 / float64(ebiten.TPS()))
	g.camera.Update(g.rig.Body.Position())
	return nil
}

// fillBox draws an axis-aligned world box centred on c.
func (g *Game) fillBox(screen *ebiten.Image, c cp.Vector, w, h float64, clr color.Color) {
	x, y := g.camera.ToScreen(cp.Vector{X: c.X - w/2, Y: c.Y + h/2})
	zoom := g.camera.Zoom()
	vector.FillRect(screen, x, y, float32(w*zoom), float32(h*zoom), clr, false)
}

func (g *Game) line(screen *ebiten.Image, s ability.Segment, style lineStyle, alpha float64) {
	x0, y0 := g.camera.ToScreen(s.A)
	x1, y1 := g.camera.ToScreen(s.B)
	clr := color.NRGBAModel.Convert(style.color).(color.NRGBA)
	clr.A = uint8(float64(clr.A) * common.Clamp01(alpha))
	vector.StrokeLine(screen, x0, y0, x1, y1, max(1, style.width*float32(g.camera.Zoom())), clr, true)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, b := range g.rig.Course.Blocks {
		g.fillBox(screen, cp.Vector{X: b.X, Y: b.Y}, b.W, b.H, colornames.Slategray)
	}

	for _, p := range g.rig.Ropes.Previews() {
		g.line(screen, p.Segment, g.preview, p.Alpha)
	}
	for _, id := range []ability.RopeID{ability.RopeGrapple, ability.RopeLasso} {
		if s, ok := g.rig.Ropes.Rope(id); ok {
			g.line(screen, s, g.ropes[id], 1)
		}
	}

	s := g.rig.Snapshot()
	bodyColor := color.Color(colornames.Whitesmoke)
	if s.Exclusive {
		bodyColor = colornames.Orange
	}
	spec := g.rig.Spec.Body
	g.fillBox(screen, g.rig.Body.Position(), spec.Width, spec.Height, bodyColor)

	if g.debug {
		drawSpace(screen, g.camera, g.rig.World.Space())
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  [R] restart  [C] cancel", ebiten.ActualFPS()))
	if g.debug {
		ammo := ""
		for _, b := range g.bindings {
			if n, err := g.rig.Ammo(b.slot); err == nil && n >= 0 {
				ammo += fmt.Sprintf(" %s=%d", b.slot, n)
			}
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
			"tick %d  slot %q  phase %s  grounded %v  gravity %.2f\nvel (%.2f, %.2f)  ammo:%s",
			s.Tick, s.Slot, s.Phase, s.Grounded, s.Gravity, s.Vel.X, s.Vel.Y, ammo,
		), 0, 20)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.rig.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
