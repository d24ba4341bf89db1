package bauble

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestInjectDragQueue(t *testing.T) {
	f := newSessionFixture(t, "shader")

	// Drag from (10,10) to (50,10) over 4 frames:
	// press, two interpolated moves, final move, release.
	f.s.InjectDrag(10, 10, 50, 10, 4)
	want := []InputEvent{
		{Type: EventPointerDown, X: 10, Y: 10},
		{Type: EventPointerMove, X: 10 + 40.0/3, Y: 10},
		{Type: EventPointerMove, X: 10 + 80.0/3, Y: 10},
		{Type: EventPointerMove, X: 50, Y: 10},
		{Type: EventPointerUp, X: 50, Y: 10},
	}
	if diff := cmp.Diff(want, f.s.injectQueue, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("queued events mismatch (-want +got):\n%s", diff)
	}
}

func TestInjectDragRotatesOnePerUpdate(t *testing.T) {
	f := newSessionFixture(t, "shader")
	start := f.s.Camera.Rotation.Peek()
	f.s.InjectDrag(0, 0, 64, 0, 2)

	f.s.Update(0, nil) // press
	if f.s.Controller.State() != StateRotating {
		t.Fatalf("State = %v after the press update", f.s.Controller.State())
	}
	if len(f.s.injectQueue) != 2 {
		t.Fatalf("expected 2 remaining events, got %d", len(f.s.injectQueue))
	}

	f.s.Update(time.Millisecond, nil) // move
	f.s.Update(2*time.Millisecond, nil)
	if f.s.Controller.State() != StateIdle {
		t.Errorf("State = %v after the release update", f.s.Controller.State())
	}
	got := f.s.Camera.Rotation.Peek()
	wantY := wrapUnit(start.Y - rotateK*64)
	if got.X != start.X || math.Abs(got.Y-wantY) > 1e-12 {
		t.Errorf("rotation = %+v, want Y %v", got, wantY)
	}
}

func TestInjectPinch(t *testing.T) {
	f := newSessionFixture(t, "shader")
	f.s.InjectPinch(2, 3)

	types := make([]EventType, len(f.s.injectQueue))
	for i, ev := range f.s.injectQueue {
		types[i] = ev.Type
	}
	wantTypes := []EventType{EventGestureStart, EventGestureChange, EventGestureChange, EventGestureEnd}
	if diff := cmp.Diff(wantTypes, types); diff != "" {
		t.Fatalf("event types mismatch (-want +got):\n%s", diff)
	}
	if s := f.s.injectQueue[1].Scale; s != 1.5 {
		t.Errorf("interpolated scale = %v, want 1.5", s)
	}

	for len(f.s.injectQueue) > 0 {
		f.s.Update(0, nil)
	}
	if got := f.s.Camera.Zoom.Peek(); got != DefaultZoom/2 {
		t.Errorf("zoom = %v, want %v", got, DefaultZoom/2)
	}
	if f.s.Controller.State() != StateIdle {
		t.Errorf("State = %v, want idle", f.s.Controller.State())
	}
}

func TestInjectedEventsAreStamped(t *testing.T) {
	f := newSessionFixture(t, "shader")
	f.s.InjectPointerDown(0, 0, 0)
	f.s.InjectPinch(2, 2)
	f.s.InjectPointerMove(0, 0, 100)

	now := time.Second
	for len(f.s.injectQueue) > 0 {
		f.s.Update(now, nil)
		now += 10 * time.Millisecond
	}
	// The move arrived 40ms after the pinch ended: inside the debounce window.
	if f.s.Camera.Rotation.Peek() != DefaultRotation {
		t.Errorf("move inside the debounce window rotated the camera: %+v", f.s.Camera.Rotation.Peek())
	}
}
