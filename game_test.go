package bauble

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestNewGame(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g, err := NewGame(RunConfig{CanvasWidth: 64, CanvasHeight: 32, ScreenshotDir: "out", Debug: true},
		scriptEvaluator(new(int)), StaticScript("shader"), logger)
	if err != nil {
		t.Fatal(err)
	}
	s := g.Session()
	if s.ScreenshotDir != "out" {
		t.Errorf("ScreenshotDir = %q", s.ScreenshotDir)
	}
	if b := g.renderer.Canvas().Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("canvas = %v, want 64x32", b)
	}
	if g.overlay == nil {
		t.Error("debug config should create the overlay")
	}
	if w, h := g.Layout(32, 32); w != 32 || h != 32 {
		t.Errorf("Layout = %d, %d", w, h)
	}
	if s.Controller.ratioX != 2 || s.Controller.ratioY != 1 {
		t.Errorf("pixel ratio = %v, %v; want 2, 1", s.Controller.ratioX, s.Controller.ratioY)
	}
}

func TestNewGameRequiresEvaluator(t *testing.T) {
	_, err := NewGame(RunConfig{}, nil, StaticScript(""), nil)
	if !errors.Is(err, ErrNoEvaluator) {
		t.Errorf("err = %v, want ErrNoEvaluator", err)
	}
}
