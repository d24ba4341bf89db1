package bauble

import (
	"log/slog"
	"time"
)

// frameStats holds per-frame timing and counters.
// Only populated when Session.debug is true.
type frameStats struct {
	frames      int
	evaluations int
	elapsed     float64
	evalTime    time.Duration // timer tick + evaluation + recompilation
	drawTime    time.Duration
}

// debugLog writes one line of frame stats at debug level.
func (s *Session) debugLog(stats frameStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		slog.Int("frame", stats.frames),
		slog.Int("evaluations", stats.evaluations),
		slog.Float64("elapsed", stats.elapsed),
		slog.Duration("eval", stats.evalTime),
		slog.Duration("draw", stats.drawTime),
		slog.Duration("total", stats.evalTime+stats.drawTime),
	)
}

// FrameCount returns the number of frames rendered while debug mode was on.
func (s *Session) FrameCount() int {
	return s.stats.frames
}

// debugSummary is the text of the on-screen debug overlay.
func (s *Session) debugSummary() string {
	rot := s.Camera.Rotation.Peek()
	return "t: " + FormatTimestamp(s.Timer.T.Peek()) +
		" [" + FormatTimestamp(s.Timer.LoopStart.Peek()) + ", " + FormatTimestamp(s.Timer.LoopEnd.Peek()) + "]" +
		" loop: " + s.Timer.LoopMode.Peek().String() +
		" " + s.Timer.State.Peek().String() + "\n" +
		"camera: " + FormatTimestamp(rot.X) + ", " + FormatTimestamp(rot.Y) +
		" zoom " + FormatTimestamp(s.Camera.Zoom.Peek()) +
		" view " + s.Camera.ViewType.Peek().String() +
		" input " + s.Controller.State().String() + "\n" +
		s.LastResult.Peek().String()
}
