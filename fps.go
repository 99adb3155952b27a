package domo

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows FPS, TPS and batch stats in the top-left corner. The
// text is redrawn about twice a second.
type fpsOverlay struct {
	img       *ebiten.Image
	sinceDraw float64
	everDrawn bool
}

func newFPSOverlay() *fpsOverlay {
	// 140x48 fits three lines of debug font.
	return &fpsOverlay{img: ebiten.NewImage(140, 48)}
}

// update redraws the overlay text when due.
func (o *fpsOverlay) update(dt float64, stats RenderStats) {
	if dt > 0 {
		o.sinceDraw += dt
	}
	if o.everDrawn && o.sinceDraw < 0.5 {
		return
	}
	o.sinceDraw = 0
	o.everDrawn = true

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nBatches: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), stats.Batches))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
