package domo

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SceneConfig configures a Scene.
type SceneConfig struct {
	// MaxBatchSize is the quad capacity of each batch. Zero selects
	// DefaultMaxBatchSize.
	MaxBatchSize int `yaml:"maxBatchSize"`
	// ViewWidth and ViewHeight are the visible world size. Zero selects
	// DefaultViewWidth × DefaultViewHeight.
	ViewWidth  float32 `yaml:"viewWidth"`
	ViewHeight float32 `yaml:"viewHeight"`
	// Camera is the initial camera position.
	Camera Vec2 `yaml:"camera"`
	// ShaderPath selects a shader file; empty uses the embedded default.
	ShaderPath string `yaml:"shader"`
}

// RunConfig configures the window and frame loop started by Run.
type RunConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	ClearColor Color  `yaml:"clearColor"`
	// ShowFPS draws the current frame rate in the top-left corner.
	ShowFPS bool `yaml:"showFPS"`
	// Debug enables per-frame stats logging on the scene.
	Debug bool `yaml:"debug"`
	// ScreenshotDir is where screenshots are written. Empty means
	// "screenshots".
	ScreenshotDir string `yaml:"screenshotDir"`
	// TestScript is a path to a JSON test script; empty disables scripted
	// runs.
	TestScript string `yaml:"testScript"`
}

// DefaultRunConfig returns the settings used for zero fields.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "domo",
		Width:         1920,
		Height:        1080,
		ClearColor:    ColorWhite,
		ScreenshotDir: "screenshots",
	}
}

// withDefaults fills zero fields from DefaultRunConfig.
func (c RunConfig) withDefaults() RunConfig {
	d := DefaultRunConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = d.ScreenshotDir
	}
	return c
}

// ReadRunConfig decodes a YAML run configuration. Missing fields keep the
// values of DefaultRunConfig.
func ReadRunConfig(r io.Reader) (RunConfig, error) {
	c := DefaultRunConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return RunConfig{}, errors.Wrap(err, "domo: decode run config")
	}
	return c.withDefaults(), nil
}

// LoadRunConfig reads a YAML run configuration file.
func LoadRunConfig(path string) (RunConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return RunConfig{}, errors.Wrap(err, "domo: open run config")
	}
	defer f.Close()
	return ReadRunConfig(f)
}
