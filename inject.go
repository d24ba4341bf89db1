package bauble

import "time"

// Synthetic input. Injected events are consumed one per Update, before (and
// instead of) the host's real input, so scripted interactions are replayed
// frame by frame exactly as a user would produce them.

// Pointer id used by injected single-pointer interactions (the mouse).
const injectPointerID = 0

// InjectPointerDown queues a pointer press at canvas coordinates (x, y).
func (s *Session) InjectPointerDown(id int, x, y float64) {
	s.injectQueue = append(s.injectQueue, InputEvent{Type: EventPointerDown, PointerID: id, X: x, Y: y})
}

// InjectPointerMove queues a pointer move to (x, y).
func (s *Session) InjectPointerMove(id int, x, y float64) {
	s.injectQueue = append(s.injectQueue, InputEvent{Type: EventPointerMove, PointerID: id, X: x, Y: y})
}

// InjectPointerUp queues a pointer release at (x, y).
func (s *Session) InjectPointerUp(id int, x, y float64) {
	s.injectQueue = append(s.injectQueue, InputEvent{Type: EventPointerUp, PointerID: id, X: x, Y: y})
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves, then a final move and release at (toX, toY). The
// sequence consumes frames+1 updates; frames below 2 is treated as 2.
func (s *Session) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPointerDown(injectPointerID, fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectPointerMove(injectPointerID, fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectPointerMove(injectPointerID, toX, toY)
	s.InjectPointerUp(injectPointerID, toX, toY)
}

// InjectPinch queues a pinch: gesture start, frames-2 scale changes
// interpolated from 1 towards scale, a final change at scale, then gesture
// end. frames below 2 is treated as 2.
func (s *Session) InjectPinch(scale float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.injectQueue = append(s.injectQueue, InputEvent{Type: EventGestureStart})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.injectQueue = append(s.injectQueue, InputEvent{Type: EventGestureChange, Scale: 1 + (scale-1)*t})
	}
	s.injectQueue = append(s.injectQueue,
		InputEvent{Type: EventGestureChange, Scale: scale},
		InputEvent{Type: EventGestureEnd},
	)
}

// InjectWheel queues a wheel event.
func (s *Session) InjectWheel(deltaY float64) {
	s.injectQueue = append(s.injectQueue, InputEvent{Type: EventWheel, DeltaY: deltaY})
}

// processInjectedInput pops one injected event, stamps it with now and feeds
// it to the controller. Returns true if an event was consumed (real input
// should be skipped this tick).
func (s *Session) processInjectedInput(now time.Duration) bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	ev := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	ev.At = now
	s.Controller.Handle(ev)
	return true
}
