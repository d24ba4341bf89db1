package bauble

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

	// wheelNotch converts one wheel step into browser-style pixel delta.
	wheelNotch = 100
)

// touchState is the last known position of one touch slot.
type touchState struct {
	used bool
	id   ebiten.TouchID
	x, y float64
}

// ebitenInput translates Ebitengine's polled input state into InputEvents.
// Two simultaneous touches become a pinch gesture.
type ebitenInput struct {
	mouseDown    bool
	mouseX       float64
	mouseY       float64
	touches      [maxPointers]touchState
	touchIDs     []ebiten.TouchID
	pinching     bool
	pinchInitial float64
}

// Poll implements InputSource.
func (in *ebitenInput) Poll(buf []InputEvent) []InputEvent {
	buf = in.pollMouse(buf)
	buf = in.pollTouches(buf)
	buf = in.pollPinch(buf)
	if _, dy := ebiten.Wheel(); dy != 0 {
		buf = append(buf, InputEvent{Type: EventWheel, DeltaY: -dy * wheelNotch})
	}
	return buf
}

func (in *ebitenInput) pollMouse(buf []InputEvent) []InputEvent {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.mouseDown = true
		in.mouseX, in.mouseY = x, y
		return append(buf, InputEvent{Type: EventPointerDown, PointerID: 0, X: x, Y: y})
	}
	if x != in.mouseX || y != in.mouseY {
		in.mouseX, in.mouseY = x, y
		buf = append(buf, InputEvent{Type: EventPointerMove, PointerID: 0, X: x, Y: y})
	}
	if in.mouseDown && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		in.mouseDown = false
		buf = append(buf, InputEvent{Type: EventPointerUp, PointerID: 0, X: x, Y: y})
	}
	return buf
}

func (in *ebitenInput) pollTouches(buf []InputEvent) []InputEvent {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])

	var active [maxPointers]bool
	for _, tid := range in.touchIDs {
		slot, fresh := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)
		ts := &in.touches[slot]
		switch {
		case fresh:
			buf = append(buf, InputEvent{Type: EventPointerDown, PointerID: slot, X: x, Y: y})
		case x != ts.x || y != ts.y:
			buf = append(buf, InputEvent{Type: EventPointerMove, PointerID: slot, X: x, Y: y})
		}
		ts.x, ts.y = x, y
	}

	// Release slots whose touch ended.
	for i := 1; i < maxPointers; i++ {
		ts := &in.touches[i]
		if ts.used && !active[i] {
			buf = append(buf, InputEvent{Type: EventPointerUp, PointerID: i, X: ts.x, Y: ts.y})
			*ts = touchState{}
		}
	}
	return buf
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9). fresh is true
// when the slot was just allocated. Returns -1 if all slots are taken.
func (in *ebitenInput) touchSlot(tid ebiten.TouchID) (slot int, fresh bool) {
	for i := 1; i < maxPointers; i++ {
		if in.touches[i].used && in.touches[i].id == tid {
			return i, false
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touches[i].used {
			in.touches[i] = touchState{used: true, id: tid}
			return i, true
		}
	}
	return -1, false
}

// pollPinch reports a gesture while exactly two touches are down.
func (in *ebitenInput) pollPinch(buf []InputEvent) []InputEvent {
	var pts [2]*touchState
	count := 0
	for i := 1; i < maxPointers; i++ {
		if in.touches[i].used {
			if count < 2 {
				pts[count] = &in.touches[i]
			}
			count++
		}
	}

	if count != 2 {
		if in.pinching {
			in.pinching = false
			buf = append(buf, InputEvent{Type: EventGestureEnd})
		}
		return buf
	}

	dist := math.Hypot(pts[1].x-pts[0].x, pts[1].y-pts[0].y)
	if !in.pinching {
		in.pinching = true
		in.pinchInitial = dist
		return append(buf, InputEvent{Type: EventGestureStart})
	}
	if in.pinchInitial <= 0 {
		return buf
	}
	return append(buf, InputEvent{Type: EventGestureChange, Scale: dist / in.pinchInitial})
}
