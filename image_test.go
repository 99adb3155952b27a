package domo

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodePixelsChannels(t *testing.T) {
	rect := image.Rect(0, 0, 2, 2)
	tests := []struct {
		name    string
		img     image.Image
		want    int
		wantErr bool
	}{
		{"nrgba", image.NewNRGBA(rect), 4, false},
		{"rgba", image.NewRGBA(rect), 4, false},
		{"ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio444), 3, false},
		{"gray", image.NewGray(rect), 0, true},
		{"gray16", image.NewGray16(rect), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decodePixels(tt.img)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedChannels) {
					t.Fatalf("err = %v, want ErrUnsupportedChannels", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if d.Channels != tt.want || d.Width != 2 || d.Height != 2 {
				t.Errorf("decoded = %dx%d/%d", d.Width, d.Height, d.Channels)
			}
			if len(d.Pix) != 2*2*tt.want {
				t.Errorf("len(Pix) = %d", len(d.Pix))
			}
		})
	}
}

func TestDecodePixelsRowsTopFirst(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 128})
	d, err := decodePixels(img)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{255, 0, 0, 255, 0, 0, 255, 128}
	for i := range want {
		if d.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", d.Pix, want)
		}
	}
}

func TestDecodedImageNRGBA(t *testing.T) {
	d := DecodedImage{Pix: []byte{1, 2, 3, 4, 5, 6}, Width: 2, Height: 1, Channels: 3}
	img := d.NRGBA()
	want := []byte{1, 2, 3, 255, 4, 5, 6, 255}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", img.Pix, want)
		}
	}
}

func TestFileDecoder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.NRGBA{10, 20, 30, 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	d, err := FileDecoder{}.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if d.Width != 3 || d.Height != 2 || d.Channels != 4 {
		t.Fatalf("decoded = %dx%d/%d", d.Width, d.Height, d.Channels)
	}
	px := d.Pix[(1*3+2)*4:]
	if px[0] != 10 || px[1] != 20 || px[2] != 30 || px[3] != 255 {
		t.Errorf("pixel = %v", px[:4])
	}
}

func TestFileDecoderErrors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	grayPath := filepath.Join(dir, "gray.png")
	f, err := os.Create(grayPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tests := []struct {
		name string
		path string
		kind AssetKind
	}{
		{"missing", filepath.Join(dir, "none.png"), AssetMissing},
		{"junk", junk, AssetDecode},
		{"gray", grayPath, AssetChannels},
	}
	for _, tt := range tests {
		_, err := FileDecoder{}.Decode(tt.path)
		var ae *AssetError
		if !errors.As(err, &ae) || ae.Kind != tt.kind {
			t.Errorf("%s: err = %v, want kind %v", tt.name, err, tt.kind)
		}
	}
}
