package bauble

import (
	"math"
	"time"
)

// --- Constants ---

const (
	// GestureDebounce is how long after a pinch ends that panning stays
	// suppressed. Lifting the second finger of a pinch otherwise produces a
	// small unwanted pan.
	GestureDebounce = 100 * time.Millisecond

	cameraRotateSpeed = 1.0 / 512 // turns per canvas pixel
	cameraZoomSpeed   = 0.01      // zoom units per wheel pixel
	cameraPixelScale  = 0.5
)

// InputEvent is one pointer, gesture or wheel event. Which fields are
// meaningful depends on Type.
type InputEvent struct {
	Type      EventType
	PointerID int           // pointer events
	X, Y      float64       // pointer events, canvas CSS pixels
	Scale     float64       // EventGestureChange: pinch scale relative to its start
	DeltaY    float64       // EventWheel: pixels, positive away from the user
	At        time.Duration // host timestamp
}

// InputSource produces the input events of one host tick.
type InputSource interface {
	// Poll appends the events observed since the last call to buf.
	Poll(buf []InputEvent) []InputEvent
}

// PointerCapturer routes all events of a pointer to the canvas while it is
// captured, like the DOM's setPointerCapture.
type PointerCapturer interface {
	SetPointerCapture(pointerID int)
	ReleasePointerCapture(pointerID int)
}

// Controller turns pointer, pinch and wheel events into camera rotation and
// zoom updates. One pointer at a time rotates; a pinch in progress suppresses
// rotation, and so does the debounce window after it.
type Controller struct {
	// HijackScroll routes wheel events to zoom.
	HijackScroll bool
	// Capturer, if set, is told when the rotating pointer is captured and
	// released.
	Capturer PointerCapturer

	camera *Camera
	ratioX float64 // canvas device pixels per CSS pixel
	ratioY float64

	rotatePointer  int
	rotating       bool
	pointerX       float64
	pointerY       float64
	gesturing      bool
	gestureEnded   bool
	gestureEndedAt time.Duration
	baselineZoom   float64
}

// NewController creates an idle controller driving cam.
func NewController(cam *Camera) *Controller {
	return &Controller{
		camera:       cam,
		ratioX:       1,
		ratioY:       1,
		baselineZoom: 1,
	}
}

// SetPixelRatio sets the canvas device-pixel to CSS-pixel ratio per axis.
// Non-positive values are ignored.
func (c *Controller) SetPixelRatio(x, y float64) {
	if x > 0 {
		c.ratioX = x
	}
	if y > 0 {
		c.ratioY = y
	}
}

// State returns the current state of the gesture state machine.
func (c *Controller) State() ControllerState {
	switch {
	case c.gesturing:
		return StateGesturing
	case c.rotating:
		return StateRotating
	default:
		return StateIdle
	}
}

// RotatePointer returns the captured pointer id, if any.
func (c *Controller) RotatePointer() (int, bool) {
	return c.rotatePointer, c.rotating
}

// Handle feeds one event through the state machine. It reports whether the
// event was consumed (the host should suppress its default action).
func (c *Controller) Handle(ev InputEvent) bool {
	switch ev.Type {
	case EventPointerDown:
		return c.pointerDown(ev)
	case EventPointerMove:
		return c.pointerMove(ev)
	case EventPointerUp:
		return c.pointerUp(ev)
	case EventGestureStart:
		c.gestureStart()
		return true
	case EventGestureChange:
		return c.gestureChange(ev)
	case EventGestureEnd:
		c.gestureEnd(ev)
		return true
	case EventWheel:
		return c.wheel(ev)
	}
	return false
}

func (c *Controller) pointerDown(ev InputEvent) bool {
	if c.rotating || c.gesturing {
		return false
	}
	c.rotating = true
	c.rotatePointer = ev.PointerID
	c.pointerX, c.pointerY = ev.X, ev.Y
	if c.Capturer != nil {
		c.Capturer.SetPointerCapture(ev.PointerID)
	}
	return true
}

func (c *Controller) pointerMove(ev InputEvent) bool {
	if !c.rotating || ev.PointerID != c.rotatePointer {
		return false
	}
	// Track the position even when suppressed so panning resumes without a jump.
	wasX, wasY := c.pointerX, c.pointerY
	c.pointerX, c.pointerY = ev.X, ev.Y

	if c.gesturing {
		return true
	}
	if c.gestureEnded && ev.At-c.gestureEndedAt < GestureDebounce {
		return true
	}

	dx := ev.X - wasX
	dy := ev.Y - wasY
	kx := cameraPixelScale * c.ratioX * cameraRotateSpeed
	ky := cameraPixelScale * c.ratioY * cameraRotateSpeed
	c.camera.Rotation.Update(func(r Rotation) Rotation {
		return Rotation{
			X: wrapUnit(r.X - ky*dy),
			Y: wrapUnit(r.Y - kx*dx),
		}
	})
	return true
}

func (c *Controller) pointerUp(ev InputEvent) bool {
	if !c.rotating || ev.PointerID != c.rotatePointer {
		return false
	}
	c.rotating = false
	if c.Capturer != nil {
		c.Capturer.ReleasePointerCapture(ev.PointerID)
	}
	return true
}

func (c *Controller) gestureStart() {
	c.baselineZoom = c.camera.Zoom.Peek()
	c.gesturing = true
}

// gestureChange sets zoom = baseline / scale: spreading the fingers (scale
// above 1) lowers the zoom value, which moves the camera in.
func (c *Controller) gestureChange(ev InputEvent) bool {
	if !c.gesturing {
		return false
	}
	if !(ev.Scale > 0) || math.IsInf(ev.Scale, 0) {
		return true
	}
	c.camera.Zoom.Set(c.baselineZoom / ev.Scale)
	return true
}

func (c *Controller) gestureEnd(ev InputEvent) {
	c.gesturing = false
	c.gestureEnded = true
	c.gestureEndedAt = ev.At
}

func (c *Controller) wheel(ev InputEvent) bool {
	if !c.HijackScroll {
		return false
	}
	c.camera.Zoom.Update(func(z float64) float64 {
		return z + cameraZoomSpeed*ev.DeltaY
	})
	return true
}
