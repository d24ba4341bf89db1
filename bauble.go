package bauble

// Rotation is the camera orientation, each axis in turns wrapped into [0, 1).
type Rotation struct {
	X, Y float64
}

// LoopMode selects what playback time does at the bounds of the loop window.
type LoopMode uint8

const (
	LoopNone    LoopMode = iota // count upwards past LoopEnd
	LoopWrap                    // jump back to LoopStart at LoopEnd
	LoopReverse                 // bounce back and forth between the bounds
)

func (m LoopMode) String() string {
	switch m {
	case LoopNone:
		return "none"
	case LoopWrap:
		return "wrap"
	case LoopReverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// ParseLoopMode returns the LoopMode whose String is s.
func ParseLoopMode(s string) (LoopMode, bool) {
	for _, m := range []LoopMode{LoopNone, LoopWrap, LoopReverse} {
		if m.String() == s {
			return m, true
		}
	}
	return LoopNone, false
}

// TimerState is the playback state set by the play/pause/stop controls.
type TimerState uint8

const (
	TimerPlaying TimerState = iota
	TimerPaused
	TimerStopped
)

func (s TimerState) String() string {
	switch s {
	case TimerPlaying:
		return "playing"
	case TimerPaused:
		return "paused"
	case TimerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ViewType selects the render mode of the shader.
type ViewType uint8

const (
	ViewNormal               ViewType = iota // render normally
	ViewDebugSteps                           // visualize raymarching step count
	ViewDebugSurfaceDistance                 // visualize distance to the surface
)

func (v ViewType) String() string {
	switch v {
	case ViewNormal:
		return "normal"
	case ViewDebugSteps:
		return "steps"
	case ViewDebugSurfaceDistance:
		return "distance"
	default:
		return "unknown"
	}
}

// ParseViewType returns the ViewType whose String is s.
func ParseViewType(s string) (ViewType, bool) {
	for _, v := range []ViewType{ViewNormal, ViewDebugSteps, ViewDebugSurfaceDistance} {
		if v.String() == s {
			return v, true
		}
	}
	return ViewNormal, false
}

// ControllerState is the state of the camera gesture state machine.
type ControllerState uint8

const (
	StateIdle      ControllerState = iota // no pointer captured, no pinch
	StateRotating                         // one pointer captured, panning
	StateGesturing                        // pinch in progress; wins over rotating
)

func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRotating:
		return "rotating"
	case StateGesturing:
		return "gesturing"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventPointerDown   EventType = iota // a pointer was pressed
	EventPointerMove                    // a pointer moved
	EventPointerUp                      // a pointer was released
	EventGestureStart                   // a two-finger pinch began
	EventGestureChange                  // the pinch scale changed
	EventGestureEnd                     // the pinch ended
	EventWheel                          // the scroll wheel moved
)

func (t EventType) String() string {
	switch t {
	case EventPointerDown:
		return "pointerdown"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	case EventGestureStart:
		return "gesturestart"
	case EventGestureChange:
		return "gesturechange"
	case EventGestureEnd:
		return "gestureend"
	case EventWheel:
		return "wheel"
	default:
		return "unknown"
	}
}
