package bauble

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Default loop window, in seconds.
const (
	DefaultLoopStart = 0.0
	DefaultLoopEnd   = 2 * math.Pi
)

// ErrInvalidTimestamp is returned when scrub input has no leading integer.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Timer holds the playback clock. T, LoopStart and LoopEnd may be written at
// any time (scrubbing); Tick only advances T while playing an animated shader.
type Timer struct {
	T         *Signal[float64]
	LoopMode  *Signal[LoopMode]
	LoopStart *Signal[float64]
	LoopEnd   *Signal[float64]
	State     *Signal[TimerState]

	g         *Graph
	direction float64 // +1, or -1 on the way back under LoopReverse
}

// NewTimer creates a playing timer at t = 0 with no looping.
func NewTimer(g *Graph) *Timer {
	return &Timer{
		T:         NewSignal(g, 0.0),
		LoopMode:  NewSignal(g, LoopNone),
		LoopStart: NewSignal(g, DefaultLoopStart),
		LoopEnd:   NewSignal(g, DefaultLoopEnd),
		State:     NewSignal(g, TimerPlaying),
		g:         g,
		direction: 1,
	}
}

// Direction returns +1, or -1 while a LoopReverse bounce is running backwards.
func (t *Timer) Direction() float64 {
	return t.direction
}

// Tick advances T by elapsed seconds according to the loop mode and returns
// the new time. T is left untouched when isAnimating is false, when the timer
// is not playing, or when elapsed is not finite.
func (t *Timer) Tick(elapsed float64, isAnimating bool) float64 {
	now := t.T.Peek()
	if !isAnimating || t.State.Peek() != TimerPlaying {
		return now
	}
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return now
	}
	next := t.advance(now, elapsed)
	t.T.Set(next)
	return next
}

func (t *Timer) advance(now, elapsed float64) float64 {
	start, end := t.LoopStart.Peek(), t.LoopEnd.Peek()
	span := end - start
	mode := t.LoopMode.Peek()

	// A window with no positive width cannot be looped over; play straight.
	if mode == LoopNone || !(span > 0) {
		t.direction = 1
		return now + elapsed
	}

	switch mode {
	case LoopWrap:
		t.direction = 1
		next := start + floorMod(now+elapsed-start, span)
		if next >= end {
			next = start
		}
		return next

	case LoopReverse:
		period := 2 * span
		// Unfold the bounce: positions in [span, period) are the way back.
		pos := now - start
		if t.direction < 0 {
			pos = period - pos
		}
		offset := floorMod(pos+elapsed, period)
		if offset <= span {
			t.direction = 1
			return math.Min(start+offset, end)
		}
		t.direction = -1
		return math.Max(end-(offset-span), start)
	}
	return now + elapsed
}

// floorMod returns a mod m in [0, m) for m > 0, including for negative a.
func floorMod(a, m float64) float64 {
	r := math.Mod(a, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

// Play resumes advancing T.
func (t *Timer) Play() {
	t.State.Set(TimerPlaying)
}

// Pause freezes T at its current value.
func (t *Timer) Pause() {
	t.State.Set(TimerPaused)
}

// Stop freezes playback and rewinds T to the loop start.
func (t *Timer) Stop() {
	t.g.Batch(func() {
		t.direction = 1
		t.State.Set(TimerStopped)
		t.T.Set(t.LoopStart.Peek())
	})
}

// SetLoopMode switches the loop policy. Leaving LoopReverse resets the
// direction so playback continues forwards.
func (t *Timer) SetLoopMode(mode LoopMode) {
	if mode != LoopReverse {
		t.direction = 1
	}
	t.LoopMode.Set(mode)
}

// --- Scrub fields ---

// ParseTimestamp reads the leading base-10 integer of s, ignoring leading
// whitespace and anything after the digits: "2.75" scrubs to 2 even though
// FormatTimestamp shows two decimals.
func ParseTimestamp(s string) (float64, error) {
	trimmed := strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(trimmed) && (trimmed[end] == '+' || trimmed[end] == '-') {
		end++
	}
	digits := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, ErrInvalidTimestamp)
	}
	n, err := strconv.ParseInt(trimmed[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return float64(n), nil
}

// FormatTimestamp renders seconds with two decimals.
func FormatTimestamp(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 2, 64)
}

// ScrubTime parses text with ParseTimestamp and writes it to T.
func (t *Timer) ScrubTime(text string) error {
	return scrub(t.T, text)
}

// ScrubLoopStart parses text with ParseTimestamp and writes it to LoopStart.
func (t *Timer) ScrubLoopStart(text string) error {
	return scrub(t.LoopStart, text)
}

// ScrubLoopEnd parses text with ParseTimestamp and writes it to LoopEnd.
func (t *Timer) ScrubLoopEnd(text string) error {
	return scrub(t.LoopEnd, text)
}

// scrub leaves the signal untouched on invalid input.
func scrub(s *Signal[float64], text string) error {
	v, err := ParseTimestamp(text)
	if err != nil {
		return err
	}
	s.Set(v)
	return nil
}
