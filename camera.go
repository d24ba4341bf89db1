package bauble

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultZoom is the zoom a camera reset returns to.
const DefaultZoom = 2.0

// DefaultRotation is the orientation a camera reset returns to: 1/8 turn on
// each axis, the X axis tilted back (-0.125 wrapped into [0, 1)).
var DefaultRotation = Rotation{X: 0.875, Y: 0.125}

// resetAnim holds the tweens of a smooth camera reset. Rotation tweens run
// over unwrapped values so they take the short way around.
type resetAnim struct {
	tweenX    *gween.Tween
	tweenY    *gween.Tween
	tweenZoom *gween.Tween
	done      [3]bool
}

// Camera is the externally observable view state read by the renderer.
type Camera struct {
	Rotation *Signal[Rotation]
	Zoom     *Signal[float64]
	ViewType *Signal[ViewType]

	g     *Graph
	reset *resetAnim
}

// NewCamera creates a camera at the default orientation and zoom.
func NewCamera(g *Graph) *Camera {
	return &Camera{
		Rotation: NewSignal(g, DefaultRotation),
		Zoom:     NewSignal(g, DefaultZoom),
		ViewType: NewSignal(g, ViewNormal),
		g:        g,
	}
}

// Reset snaps rotation and zoom back to the defaults in one batch, so
// dependents see a single change. Any smooth reset in progress is dropped.
func (c *Camera) Reset() {
	c.reset = nil
	c.g.Batch(func() {
		c.Rotation.Set(DefaultRotation)
		c.Zoom.Set(DefaultZoom)
	})
}

// ResetSmooth animates rotation and zoom back to the defaults over duration
// seconds. The animation advances with each rendered frame.
func (c *Camera) ResetSmooth(duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.Reset()
		return
	}
	rot := c.Rotation.Peek()
	zoom := c.Zoom.Peek()
	toX := rot.X + shortestTurn(rot.X, DefaultRotation.X)
	toY := rot.Y + shortestTurn(rot.Y, DefaultRotation.Y)
	c.reset = &resetAnim{
		tweenX:    gween.New(float32(rot.X), float32(toX), duration, easeFn),
		tweenY:    gween.New(float32(rot.Y), float32(toY), duration, easeFn),
		tweenZoom: gween.New(float32(zoom), float32(DefaultZoom), duration, easeFn),
	}
}

// Resetting reports whether a smooth reset is in progress.
func (c *Camera) Resetting() bool {
	return c.reset != nil
}

// update advances a smooth reset by dt seconds and reports whether it is
// still running. Called from the frame step, inside its batch.
func (c *Camera) update(dt float32) bool {
	a := c.reset
	if a == nil {
		return false
	}
	rot := c.Rotation.Peek()
	zoom := c.Zoom.Peek()
	if !a.done[0] {
		v, done := a.tweenX.Update(dt)
		rot.X = wrapUnit(float64(v))
		a.done[0] = done
	}
	if !a.done[1] {
		v, done := a.tweenY.Update(dt)
		rot.Y = wrapUnit(float64(v))
		a.done[1] = done
	}
	if !a.done[2] {
		v, done := a.tweenZoom.Update(dt)
		zoom = float64(v)
		a.done[2] = done
	}
	if a.done[0] && a.done[1] && a.done[2] {
		// Land exactly on the defaults; the tweens run in float32.
		c.reset = nil
		rot, zoom = DefaultRotation, DefaultZoom
	}
	c.g.Batch(func() {
		c.Rotation.Set(rot)
		c.Zoom.Set(zoom)
	})
	return c.reset != nil
}

// wrapUnit maps v into [0, 1).
func wrapUnit(v float64) float64 {
	return floorMod(v, 1)
}

// shortestTurn returns the signed distance from one wrapped angle to another,
// in [-0.5, 0.5).
func shortestTurn(from, to float64) float64 {
	d := floorMod(to-from, 1)
	if d >= 0.5 {
		d -= 1
	}
	return d
}

// smoothResetEase is the easing used by the reset control.
var smoothResetEase ease.TweenFunc = ease.OutCubic

// smoothResetDuration is the reset control's animation length in seconds.
const smoothResetDuration = float32(0.35)

// SmoothReset runs ResetSmooth with the reset control's duration and easing.
func (c *Camera) SmoothReset() {
	c.ResetSmooth(smoothResetDuration, smoothResetEase)
}
