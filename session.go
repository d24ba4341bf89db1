package bauble

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Errors returned by NewSession for an incomplete Config.
var (
	ErrNoEvaluator   = errors.New("no evaluator")
	ErrNoRenderer    = errors.New("no renderer")
	ErrNoScript      = errors.New("no script source")
	ErrNoFrameSource = errors.New("no frame source")
)

const defaultPostCap = 64

// Config holds the collaborators of a Session.
type Config struct {
	Evaluator Evaluator
	Renderer  Renderer
	Script    ScriptSource
	Frames    FrameSource
	// HijackScroll routes wheel events to camera zoom.
	HijackScroll bool
	// Logger receives evaluation and compilation failures. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Session owns the reactive state of one live-coding view: the camera, the
// timer, the script-dirty flag and the last evaluation result, plus the
// render loop that redraws when any of them change.
//
// All methods except Post must be called from the host's update goroutine.
type Session struct {
	Camera     *Camera
	Timer      *Timer
	Controller *Controller

	// ScriptDirty is set when the script changed since it was last evaluated.
	ScriptDirty *Signal[bool]
	// LastResult is the outcome of the most recent evaluation.
	LastResult *Signal[EvaluationState]
	// IsAnimated reports whether the current shader depends on time.
	IsAnimated *Signal[bool]

	// Views and LoopModes back the radio-style choice controls.
	Views     *Selector[ViewType]
	LoopModes *Selector[LoopMode]

	// ScreenshotDir is where Screenshot writes PNGs.
	ScreenshotDir string

	graph     *Graph
	evaluator Evaluator
	renderer  Renderer
	script    ScriptSource
	loop      *RenderLoop
	redraw    *Effect
	logger    *slog.Logger

	posts       chan func()
	injectQueue []InputEvent
	inputBuf    []InputEvent
	testRunner  *TestRunner

	screenshotQueue []string

	debug bool
	stats frameStats
}

// NewSession validates cfg and wires the session. The first frame is
// requested immediately so the initial script gets evaluated.
func NewSession(cfg Config) (*Session, error) {
	switch {
	case cfg.Evaluator == nil:
		return nil, fmt.Errorf("new session: %w", ErrNoEvaluator)
	case cfg.Renderer == nil:
		return nil, fmt.Errorf("new session: %w", ErrNoRenderer)
	case cfg.Script == nil:
		return nil, fmt.Errorf("new session: %w", ErrNoScript)
	case cfg.Frames == nil:
		return nil, fmt.Errorf("new session: %w", ErrNoFrameSource)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := NewGraph()
	cam := NewCamera(g)
	s := &Session{
		Camera:        cam,
		Timer:         NewTimer(g),
		Controller:    NewController(cam),
		ScriptDirty:   NewSignal(g, true),
		LastResult:    NewSignal[EvaluationState](g, EvaluationUnknown{}),
		IsAnimated:    NewSignal(g, false),
		ScreenshotDir: "screenshots",
		graph:         g,
		evaluator:     cfg.Evaluator,
		renderer:      cfg.Renderer,
		script:        cfg.Script,
		logger:        logger.With("component", "bauble"),
		posts:         make(chan func(), defaultPostCap),
	}
	s.Controller.HijackScroll = cfg.HijackScroll
	s.Views = NewSelector(g, cam.ViewType)
	s.LoopModes = NewSelector(g, s.Timer.LoopMode)
	s.loop = NewRenderLoop(cfg.Frames, s.step)

	// Any visible change schedules a frame, animated or not. T and State are
	// included so scrubbing and the play/stop controls redraw while paused.
	s.redraw = g.OnEffect(s.loop.Schedule,
		cam.Rotation, cam.Zoom, s.ScriptDirty, cam.ViewType,
		s.Timer.T, s.Timer.State,
	)
	return s, nil
}

// Graph returns the signal graph all of the session's signals belong to.
func (s *Session) Graph() *Graph {
	return s.graph
}

// Logger returns the session's logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// MarkScriptDirty flags the script for re-evaluation on the next frame.
func (s *Session) MarkScriptDirty() {
	s.ScriptDirty.Set(true)
}

// RequestRedraw schedules a frame without changing any state.
func (s *Session) RequestRedraw() {
	s.loop.Schedule()
}

// SmoothResetCamera starts the animated camera reset and schedules the frame
// that drives it.
func (s *Session) SmoothResetCamera() {
	s.Camera.SmoothReset()
	s.loop.Schedule()
}

// Post queues fn to run on the update goroutine at the start of the next
// Update. Safe to call from any goroutine; blocks while the queue is full.
func (s *Session) Post(fn func()) {
	s.posts <- fn
}

// Update runs one host tick: queued posts, the test runner, then input.
// Injected events take priority over src, one per tick. Every event is
// stamped with now. The host fires its FrameSource after Update.
func (s *Session) Update(now time.Duration, src InputSource) {
	s.drainPosts()
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if s.processInjectedInput(now) {
		return
	}
	if src == nil {
		return
	}
	s.inputBuf = src.Poll(s.inputBuf[:0])
	for _, ev := range s.inputBuf {
		ev.At = now
		s.Controller.Handle(ev)
	}
}

func (s *Session) drainPosts() {
	for {
		select {
		case fn := <-s.posts:
			fn()
		default:
			return
		}
	}
}

// step is the render loop's per-frame function. Every write it makes lands
// in one batch, so it triggers at most one follow-up frame.
func (s *Session) step(elapsed float64) bool {
	var animating bool
	s.graph.Batch(func() {
		animating = s.frame(elapsed)
	})
	return animating
}

func (s *Session) frame(elapsed float64) bool {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.Timer.Tick(elapsed, s.IsAnimated.Peek())
	resetting := s.Camera.update(float32(elapsed))

	if s.ScriptDirty.Peek() {
		s.ScriptDirty.Set(false)
		s.evaluate()
	}
	if s.debug {
		s.stats.evalTime = time.Since(t0)
		t0 = time.Now()
	}

	s.renderer.Draw()

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.stats.frames++
		s.stats.elapsed = elapsed
		s.debugLog(s.stats)
	}
	return s.IsAnimated.Peek() || resetting
}

// evaluate runs the script and, on success, recompiles the shader. Failures
// are recorded in LastResult and logged; the previous shader and the
// animated flag stay as they were.
func (s *Session) evaluate() {
	if s.debug {
		s.stats.evaluations++
	}
	result := s.evaluator.EvaluateScript(s.script.Text())
	if result.IsError {
		s.LastResult.Set(EvaluationFailed{Message: result.Error})
		s.logger.Error("script evaluation failed", "error", result.Error)
		return
	}
	if err := s.renderer.RecompileShader(result.ShaderSource); err != nil {
		s.LastResult.Set(ShaderCompilationFailed{Message: err.Error()})
		s.logger.Error("shader compilation failed", "error", err)
		return
	}
	s.LastResult.Set(EvaluationSuccess{})
	s.IsAnimated.Set(result.IsAnimated)
}

// SetDebugMode enables or disables per-frame timing stats at debug level.
func (s *Session) SetDebugMode(enabled bool) {
	s.debug = enabled
}
