package domo

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// screenshotter collects labels during a frame and writes one PNG per label
// from the rendered frame.
type screenshotter struct {
	dir   string
	queue []string
}

// Queue schedules a screenshot of the current frame.
func (s *screenshotter) Queue(label string) {
	s.queue = append(s.queue, label)
}

// Pending reports whether screenshots are waiting to be written.
func (s *screenshotter) Pending() bool {
	return len(s.queue) > 0
}

// Flush captures screen for every queued label.
func (s *screenshotter) Flush(screen *ebiten.Image) {
	if len(s.queue) == 0 {
		return
	}
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	s.write(unpremultiply(pixels, w, h), time.Now())
}

// write saves img under every queued label and clears the queue.
func (s *screenshotter) write(img *image.NRGBA, now time.Time) {
	defer func() { s.queue = s.queue[:0] }()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		Logger().Error("screenshot: create directory", zap.String("dir", s.dir), zap.Error(err))
		return
	}
	stamp := now.Format("20060102_150405")
	for _, label := range s.queue {
		path := filepath.Join(s.dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			Logger().Error("screenshot", zap.Error(err))
			continue
		}
		Logger().Info("screenshot written", zap.String("path", path))
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
