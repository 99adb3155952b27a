package domo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadRunConfig(t *testing.T) {
	cfg, err := ReadRunConfig(strings.NewReader(`
title: demo
width: 800
clearColor: {r: 0, g: 0, b: 0, a: 1}
showFPS: true
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "demo" || cfg.Width != 800 || !cfg.ShowFPS {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Height != 1080 || cfg.ScreenshotDir != "screenshots" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.ClearColor != (Color{0, 0, 0, 1}) {
		t.Errorf("ClearColor = %+v", cfg.ClearColor)
	}
}

func TestReadRunConfigEmpty(t *testing.T) {
	cfg, err := ReadRunConfig(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultRunConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestReadRunConfigUnknownKey(t *testing.T) {
	if _, err := ReadRunConfig(strings.NewReader("fullscreen: true\n")); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestRunConfigWithDefaults(t *testing.T) {
	cfg := RunConfig{Width: -5, Title: "x"}.withDefaults()
	if cfg.Width != 1920 || cfg.Height != 1080 || cfg.Title != "x" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("height: 600\ndebug: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Height != 600 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := LoadRunConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
