package bauble

import (
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game is the Ebitengine host for a Session. Every Update polls input and
// fires the session's frame queue; Draw presents the shader canvas scaled to
// the window.
type Game struct {
	cfg      RunConfig
	session  *Session
	frames   *FrameQueue
	renderer *KageRenderer
	input    ebitenInput
	overlay  *overlay

	start   time.Time
	last    time.Duration
	screenW int
	screenH int
	drawOp  ebiten.DrawImageOptions
}

// NewGame builds a session around a Kage renderer of the configured canvas
// size. script is evaluated by evaluator on the first frame and whenever the
// session is marked dirty.
func NewGame(cfg RunConfig, evaluator Evaluator, script ScriptSource, logger *slog.Logger) (*Game, error) {
	cfg = cfg.withDefaults()
	frames := &FrameQueue{}
	renderer := NewKageRenderer(cfg.CanvasWidth, cfg.CanvasHeight)

	s, err := NewSession(Config{
		Evaluator:    evaluator,
		Renderer:     renderer,
		Script:       script,
		Frames:       frames,
		HijackScroll: cfg.HijackScroll,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	renderer.Attach(s.Timer, s.Camera)
	s.ScreenshotDir = cfg.ScreenshotDir
	s.SetDebugMode(cfg.Debug)

	g := &Game{
		cfg:      cfg,
		session:  s,
		frames:   frames,
		renderer: renderer,
		start:    time.Now(),
		screenW:  cfg.Width,
		screenH:  cfg.Height,
	}
	g.drawOp.Filter = ebiten.FilterLinear
	if cfg.Debug {
		g.overlay = newOverlay(s)
	}
	return g, nil
}

// Session returns the hosted session.
func (g *Game) Session() *Session {
	return g.session
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	now := time.Since(g.start)
	dt := (now - g.last).Seconds()
	g.last = now

	g.handleKeys()
	g.session.Update(now, &g.input)
	g.frames.Fire(now)

	if g.overlay != nil {
		g.overlay.update(dt, g.session)
	}
	if g.cfg.ExitAfterTest {
		if r := g.session.TestRunner(); r != nil && r.Done() && len(g.session.screenshotQueue) == 0 {
			return ebiten.Termination
		}
	}
	return nil
}

// handleKeys maps the toolbar controls to keys.
func (g *Game) handleKeys() {
	s := g.session
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if s.Timer.State.Peek() == TimerPlaying {
			s.Timer.Pause()
		} else {
			s.Timer.Play()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.Timer.Stop()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.SmoothResetCamera()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		s.Timer.SetLoopMode((s.Timer.LoopMode.Peek() + 1) % (LoopReverse + 1))
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		s.Views.Select(ViewNormal)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		s.Views.Select(ViewDebugSteps)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		s.Views.Select(ViewDebugSurfaceDistance)
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		s.Screenshot("manual")
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	canvas := g.renderer.Canvas()
	cb := canvas.Bounds()
	sb := screen.Bounds()

	g.drawOp.GeoM.Reset()
	g.drawOp.GeoM.Scale(float64(sb.Dx())/float64(cb.Dx()), float64(sb.Dy())/float64(cb.Dy()))
	screen.DrawImage(canvas, &g.drawOp)

	g.session.flushScreenshots(canvas)
	if g.overlay != nil {
		g.overlay.draw(screen)
	}
}

// Layout implements ebiten.Game. The screen matches the window; pointer
// deltas are converted to canvas pixels through the controller's ratio.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	if g.screenW > 0 && g.screenH > 0 {
		g.session.Controller.SetPixelRatio(
			float64(g.cfg.CanvasWidth)/float64(g.screenW),
			float64(g.cfg.CanvasHeight)/float64(g.screenH),
		)
	}
	return g.screenW, g.screenH
}

// Run opens a window for g and blocks until it is closed or, with
// ExitAfterTest, until the test script finishes.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
