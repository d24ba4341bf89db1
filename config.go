package bauble

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig configures the desktop host started by Run.
type RunConfig struct {
	// Title is the window title. Default "bauble".
	Title string `yaml:"title"`
	// Width and Height are the initial window size. Default 768x768.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// CanvasWidth and CanvasHeight are the shader canvas size in pixels.
	// Default 1024x1024.
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`

	// Script is the path of the script file to evaluate and watch.
	Script string `yaml:"script"`
	// HijackScroll makes the mouse wheel zoom the camera.
	HijackScroll bool `yaml:"hijack_scroll"`
	// Debug shows the overlay and logs per-frame stats.
	Debug bool `yaml:"debug"`
	// ScreenshotDir is where screenshots are written. Default "screenshots".
	ScreenshotDir string `yaml:"screenshot_dir"`
	// TestScript is the path of a JSON test script to replay on start.
	TestScript string `yaml:"test_script"`
	// ExitAfterTest quits once the test script has finished.
	ExitAfterTest bool `yaml:"exit_after_test"`
}

// ParseRunConfig decodes a YAML run config. Unknown keys are rejected. An
// empty document yields the defaults.
func ParseRunConfig(data []byte) (RunConfig, error) {
	var cfg RunConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	return cfg.withDefaults(), nil
}

// LoadRunConfig reads and parses the YAML run config at path.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("load run config: %w", err)
	}
	return ParseRunConfig(data)
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = "bauble"
	}
	if c.Width <= 0 {
		c.Width = 768
	}
	if c.Height <= 0 {
		c.Height = 768
	}
	if c.CanvasWidth <= 0 {
		c.CanvasWidth = 1024
	}
	if c.CanvasHeight <= 0 {
		c.CanvasHeight = 1024
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	return c
}
