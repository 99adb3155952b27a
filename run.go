package domo

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// game adapts a Scene to ebiten.Game.
type game struct {
	scene  *Scene
	dev    *EbitenDevice
	cfg    RunConfig
	clock  *Clock
	shots  screenshotter
	runner *TestRunner
	fps    *fpsOverlay
	err    error
}

var _ runnerHost = (*game)(nil)

// Run opens a window, starts scene on an Ebitengine device and drives it
// until the window closes, the test script completes, or a frame fails.
// Asset errors from scene start are returned before the window opens.
func Run(scene *Scene, cfg RunConfig) error {
	cfg = cfg.withDefaults()

	g := &game{
		scene: scene,
		dev:   NewEbitenDevice(),
		cfg:   cfg,
		clock: NewClock(),
		shots: screenshotter{dir: cfg.ScreenshotDir},
	}
	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			return errors.Wrap(err, "domo: read test script")
		}
		if g.runner, err = LoadTestScript(data); err != nil {
			return err
		}
	}

	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}

	scene.SetDebugMode(cfg.Debug)
	if err := scene.Start(NewAssets(g.dev, nil)); err != nil {
		return err
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.err
}

// Screenshot queues a labeled capture of the next drawn frame.
func (g *game) Screenshot(label string) { g.shots.Queue(label) }

// Camera returns the scene camera.
func (g *game) Camera() *OrthoCamera { return g.scene.Camera() }

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.runner != nil && g.runner.Done() && !g.shots.Pending() {
		return ebiten.Termination
	}

	// The first tick has no previous frame and returns -1; Scene.Update
	// skips it.
	dt := g.clock.Tick()
	g.scene.Update(dt)
	if g.fps != nil {
		g.fps.update(dt, g.scene.Renderer().Stats())
	}

	if g.runner != nil {
		g.runner.step(g)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.ClearColor.RGBA())
	g.dev.SetTarget(screen)
	if err := g.scene.Draw(); err != nil && g.err == nil {
		g.err = err
	}
	g.shots.Flush(screen)

	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
