package bauble

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// KageRenderer is a Renderer that compiles script output as an Ebitengine
// Kage shader and draws it over an offscreen canvas. The shader sees these
// uniforms (undeclared ones are ignored):
//
//	var Time float        // Timer.T, seconds
//	var Rotation vec2     // Camera.Rotation, turns
//	var Zoom float        // Camera.Zoom
//	var ViewType float    // Camera.ViewType as a number
//	var Resolution vec2   // canvas size in pixels
type KageRenderer struct {
	canvas   *ebiten.Image
	shader   *ebiten.Shader
	shaderOp ebiten.DrawRectShaderOptions
	uniforms map[string]any

	timer  *Timer
	camera *Camera

	compiles int
	draws    int
}

// NewKageRenderer creates a renderer with a width x height canvas.
func NewKageRenderer(width, height int) *KageRenderer {
	return &KageRenderer{
		canvas:   ebiten.NewImage(width, height),
		uniforms: make(map[string]any, 5),
	}
}

// Attach connects the renderer to the state it reads when drawing.
func (r *KageRenderer) Attach(timer *Timer, camera *Camera) {
	r.timer = timer
	r.camera = camera
}

// Canvas returns the image the shader draws into.
func (r *KageRenderer) Canvas() *ebiten.Image {
	return r.canvas
}

// HasShader reports whether a shader has compiled successfully.
func (r *KageRenderer) HasShader() bool {
	return r.shader != nil
}

// RecompileShader compiles source and makes it the active shader. On error
// the previous shader stays active.
func (r *KageRenderer) RecompileShader(source string) error {
	s, err := ebiten.NewShader([]byte(source))
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	if r.shader != nil {
		r.shader.Deallocate()
	}
	r.shader = s
	r.compiles++
	return nil
}

// Draw renders the active shader into the canvas. Without a shader, or
// before Attach, the canvas is cleared.
func (r *KageRenderer) Draw() {
	r.draws++
	if r.shader == nil || r.timer == nil || r.camera == nil {
		r.canvas.Clear()
		return
	}
	bounds := r.canvas.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rot := r.camera.Rotation.Peek()

	r.uniforms["Time"] = float32(r.timer.T.Peek())
	r.uniforms["Rotation"] = []float32{float32(rot.X), float32(rot.Y)}
	r.uniforms["Zoom"] = float32(r.camera.Zoom.Peek())
	r.uniforms["ViewType"] = float32(r.camera.ViewType.Peek())
	r.uniforms["Resolution"] = []float32{float32(w), float32(h)}
	r.shaderOp.Uniforms = r.uniforms
	r.canvas.DrawRectShader(w, h, r.shader, &r.shaderOp)
}

// Draws returns how many times Draw has run.
func (r *KageRenderer) Draws() int {
	return r.draws
}
