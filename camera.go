package main

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/traversal/common"
)

const (
	minZoom = 12
	maxZoom = 96
)

// Camera maps y-up world units to y-down screen pixels, centred on Pos.
type Camera struct {
	Pos cp.Vector

	screenW float64
	screenH float64
	// zoom is pixels per world unit.
	zoom float64
	// smoothing factor (0..1). higher -> faster follow. e.g. 0.15
	smooth float64
	// world bounds, ignored when empty
	bounds cp.BB
}

func NewCamera(screenW, screenH int, zoom float64) *Camera {
	return &Camera{screenW: float64(screenW), screenH: float64(screenH), zoom: zoom, smooth: 0.15}
}

// SetZoom updates the camera zoom, clamped to a readable range.
func (c *Camera) SetZoom(z float64) {
	c.zoom = common.Clamp(z, minZoom, maxZoom)
}

func (c *Camera) Zoom() float64 { return c.zoom }

// SetWorldBounds keeps the view inside bb when it is wider than the view.
func (c *Camera) SetWorldBounds(bb cp.BB) {
	c.bounds = bb
}

// Update moves the camera toward target. Call once per frame.
func (c *Camera) Update(target cp.Vector) {
	if c.smooth <= 0 {
		c.Pos = target
	} else {
		c.Pos = common.LerpVec(c.Pos, target, c.smooth)
	}
	c.clampToBounds()
}

// SnapTo places the camera without smoothing, e.g. after a reload.
func (c *Camera) SnapTo(p cp.Vector) {
	c.Pos = p
	c.clampToBounds()
}

func (c *Camera) clampToBounds() {
	if c.bounds.R <= c.bounds.L || c.bounds.T <= c.bounds.B {
		return
	}
	halfW := c.screenW / c.zoom / 2
	halfH := c.screenH / c.zoom / 2
	c.Pos.X = clampAxis(c.Pos.X, c.bounds.L+halfW, c.bounds.R-halfW)
	c.Pos.Y = clampAxis(c.Pos.Y, c.bounds.B+halfH, c.bounds.T-halfH)
}

// clampAxis centres on the range when the view is larger than it.
func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return common.Clamp(v, lo, hi)
}

func (c *Camera) ToScreen(p cp.Vector) (float32, float32) {
	x := (p.X-c.Pos.X)*c.zoom + c.screenW/2
	y := c.screenH/2 - (p.Y-c.Pos.Y)*c.zoom
	return float32(x), float32(y)
}

func (c *Camera) ToWorld(x, y float64) cp.Vector {
	return cp.Vector{
		X: (x-c.screenW/2)/c.zoom + c.Pos.X,
		Y: (c.screenH/2-y)/c.zoom + c.Pos.Y,
	}
}
