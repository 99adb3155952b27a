package domo

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-scroll", "after-scroll"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	var s screenshotter
	if s.Pending() {
		t.Error("empty queue reports pending")
	}
	s.Queue("a")
	s.Queue("b")
	if !s.Pending() || len(s.queue) != 2 {
		t.Fatalf("queue = %v, want [a b]", s.queue)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 32, 0, 128, // half-transparent
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	want := []byte{
		255, 0, 0, 255,
		127, 63, 0, 128,
		0, 0, 0, 0,
	}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], want[i])
		}
	}
}

func TestScreenshotWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := screenshotter{dir: dir}
	s.Queue("first shot")
	s.Queue("second")

	img := unpremultiply([]byte{1, 2, 3, 255, 4, 5, 6, 255}, 2, 1)
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	s.write(img, now)

	if s.Pending() {
		t.Error("queue not cleared")
	}
	for _, name := range []string{"20240309_140506_first_shot.png", "20240309_140506_second.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		decoded, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if b := decoded.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
			t.Errorf("%s bounds = %v", name, b)
		}
	}
}
