package bauble

import "time"

// FrameSource delivers single-shot frame callbacks, like a browser's
// requestAnimationFrame. now is a monotonic host timestamp.
type FrameSource interface {
	RequestFrame(fn func(now time.Duration))
}

// StepFunc renders one frame after elapsed seconds and reports whether
// another frame should follow.
type StepFunc func(elapsed float64) bool

// RenderLoop coalesces redraw requests into at most one pending frame and
// keeps requesting frames for as long as the step function asks for them.
type RenderLoop struct {
	frames    FrameSource
	step      StepFunc
	scheduled bool
	then      time.Duration
	hasThen   bool // false means the next frame reports zero elapsed
}

// NewRenderLoop creates an idle loop; nothing runs until Schedule.
func NewRenderLoop(frames FrameSource, step StepFunc) *RenderLoop {
	return &RenderLoop{frames: frames, step: step}
}

// Schedule requests a frame. It is a no-op while a frame is already pending.
func (l *RenderLoop) Schedule() {
	if l.scheduled {
		return
	}
	l.scheduled = true
	l.frames.RequestFrame(l.fire)
}

// Scheduled reports whether a frame callback is pending.
func (l *RenderLoop) Scheduled() bool {
	return l.scheduled
}

func (l *RenderLoop) fire(now time.Duration) {
	l.scheduled = false
	var elapsed float64
	if l.hasThen {
		elapsed = (now - l.then).Seconds()
	}
	if l.step(elapsed) {
		l.Schedule()
		l.then, l.hasThen = now, true
	} else {
		l.hasThen = false
	}
}

// FrameQueue is a FrameSource driven by an explicit Fire call, once per host
// tick. Callbacks requested while firing wait for the next Fire.
type FrameQueue struct {
	pending []func(time.Duration)
	spare   []func(time.Duration)
}

// RequestFrame queues fn for the next Fire.
func (q *FrameQueue) RequestFrame(fn func(now time.Duration)) {
	q.pending = append(q.pending, fn)
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// Fire runs the callbacks queued before the call and returns how many ran.
func (q *FrameQueue) Fire(now time.Duration) int {
	fns := q.pending
	q.pending = q.spare[:0]
	for i, fn := range fns {
		fn(now)
		fns[i] = nil
	}
	q.spare = fns[:0]
	return len(fns)
}
