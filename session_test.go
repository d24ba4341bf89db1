package bauble

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeRenderer records compiles and draws. Sources containing "bad" fail to
// compile.
type fakeRenderer struct {
	active   string
	compiled []string
	drawn    []string // active shader at each draw
}

func (r *fakeRenderer) RecompileShader(source string) error {
	r.compiled = append(r.compiled, source)
	if strings.Contains(source, "bad") {
		return errors.New("syntax error")
	}
	r.active = source
	return nil
}

func (r *fakeRenderer) Draw() {
	r.drawn = append(r.drawn, r.active)
}

// scriptEvaluator interprets test scripts: "error:<msg>" fails, a leading
// "anim:" marks the shader animated, anything else is the shader source.
func scriptEvaluator(calls *int) Evaluator {
	return EvaluatorFunc(func(script string) EvaluationResult {
		*calls++
		if msg, ok := strings.CutPrefix(script, "error:"); ok {
			return EvaluationResult{IsError: true, Error: msg}
		}
		if src, ok := strings.CutPrefix(script, "anim:"); ok {
			return EvaluationResult{ShaderSource: src, IsAnimated: true}
		}
		return EvaluationResult{ShaderSource: script}
	})
}

// mutableScript is a ScriptSource the test can edit.
type mutableScript struct {
	text string
}

func (m *mutableScript) Text() string { return m.text }

type sessionFixture struct {
	s      *Session
	frames *FrameQueue
	r      *fakeRenderer
	script *mutableScript
	evals  int
	now    time.Duration
}

func newSessionFixture(t *testing.T, script string) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		frames: &FrameQueue{},
		r:      &fakeRenderer{},
		script: &mutableScript{text: script},
	}
	s, err := NewSession(Config{
		Evaluator: scriptEvaluator(&f.evals),
		Renderer:  f.r,
		Script:    f.script,
		Frames:    f.frames,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	f.s = s
	return f
}

// tick runs one host tick 1/60 s after the previous one.
func (f *sessionFixture) tick() int {
	f.now += time.Second / 60
	f.s.Update(f.now, nil)
	return f.frames.Fire(f.now)
}

func TestNewSessionValidation(t *testing.T) {
	ev := EvaluatorFunc(func(string) EvaluationResult { return EvaluationResult{} })
	r := &fakeRenderer{}
	src := StaticScript("")
	q := &FrameQueue{}

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no evaluator", Config{Renderer: r, Script: src, Frames: q}, ErrNoEvaluator},
		{"no renderer", Config{Evaluator: ev, Script: src, Frames: q}, ErrNoRenderer},
		{"no script", Config{Evaluator: ev, Renderer: r, Frames: q}, ErrNoScript},
		{"no frames", Config{Evaluator: ev, Renderer: r, Script: src}, ErrNoFrameSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewSession error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSessionFirstFrameEvaluates(t *testing.T) {
	f := newSessionFixture(t, "shader-a")
	if f.frames.Pending() != 1 {
		t.Fatalf("Pending = %d, want the initial frame", f.frames.Pending())
	}
	if f.s.LastResult.Peek() != (EvaluationUnknown{}) {
		t.Errorf("LastResult = %v before the first frame", f.s.LastResult.Peek())
	}

	f.tick()
	if f.evals != 1 {
		t.Errorf("evals = %d, want 1", f.evals)
	}
	if f.s.LastResult.Peek() != (EvaluationSuccess{}) {
		t.Errorf("LastResult = %v, want success", f.s.LastResult.Peek())
	}
	if f.s.ScriptDirty.Peek() {
		t.Error("ScriptDirty should be cleared")
	}

	// Clearing the dirty flag inside the frame asks for one more redraw,
	// after which a static shader goes idle.
	for i := 0; i < 5; i++ {
		f.tick()
	}
	if f.frames.Pending() != 0 {
		t.Errorf("static shader kept the loop running")
	}
	if f.evals != 1 {
		t.Errorf("evals = %d, want 1 (no re-evaluation without an edit)", f.evals)
	}
}

func TestSessionEvaluationError(t *testing.T) {
	f := newSessionFixture(t, "shader-a")
	f.tick()

	f.script.text = "error:unexpected token"
	f.s.MarkScriptDirty()
	f.tick()

	want := EvaluationFailed{Message: "unexpected token"}
	if got := f.s.LastResult.Peek(); got != want {
		t.Errorf("LastResult = %v, want %v", got, want)
	}
	if diff := cmp.Diff([]string{"shader-a"}, f.r.compiled); diff != "" {
		t.Errorf("RecompileShader called on evaluation error (-want +got):\n%s", diff)
	}
	if last := f.r.drawn[len(f.r.drawn)-1]; last != "shader-a" {
		t.Errorf("drew %q, want the previous shader", last)
	}
}

func TestSessionShaderCompilationError(t *testing.T) {
	f := newSessionFixture(t, "anim:shader-a")
	f.tick()
	if !f.s.IsAnimated.Peek() {
		t.Fatal("IsAnimated should follow the evaluation")
	}

	f.script.text = "bad-shader"
	f.s.MarkScriptDirty()
	f.tick()

	got, ok := f.s.LastResult.Peek().(ShaderCompilationFailed)
	if !ok || got.Message != "syntax error" {
		t.Fatalf("LastResult = %v, want shader compilation failure", f.s.LastResult.Peek())
	}
	if !f.s.IsAnimated.Peek() {
		t.Error("IsAnimated changed after a failed compilation")
	}
	if last := f.r.drawn[len(f.r.drawn)-1]; last != "shader-a" {
		t.Errorf("drew %q, want the previously active shader", last)
	}

	// The next good edit recovers.
	f.script.text = "shader-b"
	f.s.MarkScriptDirty()
	f.tick()
	if f.s.LastResult.Peek() != (EvaluationSuccess{}) {
		t.Errorf("LastResult = %v, want success", f.s.LastResult.Peek())
	}
	if f.s.IsAnimated.Peek() {
		t.Error("IsAnimated should be false for a static shader")
	}
}

func TestSessionAnimatedKeepsRunning(t *testing.T) {
	f := newSessionFixture(t, "anim:shader")
	for i := 0; i < 10; i++ {
		if n := f.tick(); n != 1 {
			t.Fatalf("tick %d fired %d frames, want 1", i, n)
		}
	}
	if f.frames.Pending() != 1 {
		t.Errorf("animated shader should keep a frame pending")
	}
	// The first frame reports zero elapsed, then 1/60 s per tick.
	if got, want := f.s.Timer.T.Peek(), 9.0/60; got < want-1e-6 || got > want+1e-6 {
		t.Errorf("T = %v, want %v", got, want)
	}
}

func TestSessionChangesScheduleOneFrame(t *testing.T) {
	f := newSessionFixture(t, "shader")
	for i := 0; i < 3; i++ {
		f.tick()
	}
	if f.frames.Pending() != 0 {
		t.Fatal("expected an idle loop")
	}

	tests := []struct {
		name  string
		write func(s *Session)
	}{
		{"rotation", func(s *Session) { s.Camera.Rotation.Set(Rotation{X: 0.1}) }},
		{"zoom", func(s *Session) { s.Camera.Zoom.Set(5) }},
		{"view", func(s *Session) { s.Views.Select(ViewDebugSteps) }},
		{"dirty", func(s *Session) { s.MarkScriptDirty() }},
		{"time", func(s *Session) { _ = s.Timer.ScrubTime("3") }},
		{"state", func(s *Session) { s.Timer.Pause() }},
		{"reset", func(s *Session) { s.Camera.Reset() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.write(f.s)
			tt.write(f.s)
			f.s.RequestRedraw()
			if f.frames.Pending() != 1 {
				t.Fatalf("Pending = %d, want 1", f.frames.Pending())
			}
			for i := 0; i < 3; i++ {
				f.tick()
			}
			if f.frames.Pending() != 0 {
				t.Errorf("loop did not go idle")
			}
		})
	}
}

func TestSessionPausedAnimationRedrawsOnEdit(t *testing.T) {
	f := newSessionFixture(t, "anim:a")
	f.tick()
	f.s.Timer.Pause()
	at := f.s.Timer.T.Peek()

	f.script.text = "anim:b"
	f.s.MarkScriptDirty()
	f.tick()
	if f.r.active != "b" {
		t.Errorf("active shader = %q, want b", f.r.active)
	}
	if f.s.Timer.T.Peek() != at {
		t.Errorf("paused timer advanced to %v", f.s.Timer.T.Peek())
	}
}

func TestSessionSmoothResetRunsFrames(t *testing.T) {
	f := newSessionFixture(t, "shader")
	for i := 0; i < 3; i++ {
		f.tick()
	}
	f.s.Camera.Zoom.Set(8)
	for i := 0; i < 3; i++ {
		f.tick()
	}

	f.s.SmoothResetCamera()
	for i := 0; i < 60 && f.s.Camera.Resetting(); i++ {
		f.tick()
	}
	if f.s.Camera.Resetting() {
		t.Fatal("smooth reset did not finish within a second of frames")
	}
	if f.s.Camera.Zoom.Peek() != DefaultZoom {
		t.Errorf("zoom = %v, want %v", f.s.Camera.Zoom.Peek(), DefaultZoom)
	}
}

type sliceInput struct {
	events []InputEvent
}

func (in *sliceInput) Poll(buf []InputEvent) []InputEvent {
	buf = append(buf, in.events...)
	in.events = in.events[:0]
	return buf
}

func TestSessionUpdateHandlesInput(t *testing.T) {
	f := newSessionFixture(t, "shader")
	in := &sliceInput{events: []InputEvent{
		{Type: EventPointerDown, X: 0, Y: 0},
		{Type: EventPointerMove, X: 0, Y: 16},
	}}
	before := f.s.Camera.Rotation.Peek()
	f.s.Update(time.Second, in)

	if f.s.Controller.State() != StateRotating {
		t.Errorf("State = %v, want rotating", f.s.Controller.State())
	}
	if f.s.Camera.Rotation.Peek() == before {
		t.Error("rotation did not change")
	}
}

func TestSessionInjectedInputTakesPriority(t *testing.T) {
	f := newSessionFixture(t, "shader")
	f.s.InjectWheel(10)
	f.s.Controller.HijackScroll = true

	in := &sliceInput{events: []InputEvent{{Type: EventWheel, DeltaY: 1000}}}
	f.s.Update(0, in)
	if got, want := f.s.Camera.Zoom.Peek(), DefaultZoom+cameraZoomSpeed*10; math.Abs(got-want) > 1e-12 {
		t.Errorf("zoom = %v, want %v (real input skipped)", got, want)
	}
	if len(in.events) != 1 {
		t.Error("real input should stay queued while injected input is consumed")
	}
}

func TestSessionPost(t *testing.T) {
	f := newSessionFixture(t, "shader")
	for i := 0; i < 3; i++ {
		f.tick()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.s.Post(f.s.MarkScriptDirty)
	}()
	wg.Wait()

	if f.s.ScriptDirty.Peek() {
		t.Fatal("posted function ran before Update")
	}
	f.tick()
	if f.evals != 2 {
		t.Errorf("evals = %d, want 2", f.evals)
	}
}

func TestSessionDebugStats(t *testing.T) {
	f := newSessionFixture(t, "anim:shader")
	f.s.SetDebugMode(true)
	for i := 0; i < 4; i++ {
		f.tick()
	}
	if f.s.FrameCount() != 4 {
		t.Errorf("FrameCount = %d, want 4", f.s.FrameCount())
	}
	if f.s.stats.evaluations != 1 {
		t.Errorf("evaluations = %d, want 1", f.s.stats.evaluations)
	}
}
