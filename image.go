package domo

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// DecodedImage is raw 8-bit pixel data ready for upload. Rows are stored
// top-first; Channels is 3 (RGB) or 4 (RGBA).
type DecodedImage struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// ImageDecoder turns an image file into raw pixels. Decode may be called
// from several goroutines at once by Assets.Preload.
type ImageDecoder interface {
	Decode(path string) (DecodedImage, error)
}

// ImageDecoderFunc adapts a function to ImageDecoder.
type ImageDecoderFunc func(path string) (DecodedImage, error)

// Decode implements ImageDecoder.
func (f ImageDecoderFunc) Decode(path string) (DecodedImage, error) { return f(path) }

// FileDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP files from disk.
type FileDecoder struct{}

var _ ImageDecoder = FileDecoder{}

// Decode implements ImageDecoder. Errors are *AssetError values.
func (FileDecoder) Decode(path string) (DecodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return DecodedImage{}, assetError(AssetMissing, path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return DecodedImage{}, assetError(AssetDecode, path, errors.Wrap(err, "decode"))
	}
	out, err := decodePixels(img)
	if err != nil {
		return DecodedImage{}, assetError(AssetChannels, path, errors.Wrapf(err, "%s image", format))
	}
	return out, nil
}

// imageChannels reports the channel count a decoded image maps to.
// Opaque color models become RGB, gray models report 1.
func imageChannels(img image.Image) int {
	switch img.(type) {
	case *image.YCbCr, *image.CMYK:
		return 3
	case *image.Gray, *image.Gray16:
		return 1
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return 1
	}
	return 4
}

// decodePixels flattens img into tightly packed 8-bit rows.
func decodePixels(img image.Image) (DecodedImage, error) {
	ch := imageChannels(img)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch ch {
	case 4:
		nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
		return DecodedImage{Pix: nrgba.Pix, Width: w, Height: h, Channels: 4}, nil
	case 3:
		pix := make([]byte, 0, w*h*3)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				pix = append(pix, c.R, c.G, c.B)
			}
		}
		return DecodedImage{Pix: pix, Width: w, Height: h, Channels: 3}, nil
	default:
		return DecodedImage{}, errors.Wrapf(ErrUnsupportedChannels, "%d channels", ch)
	}
}

// NRGBA expands the pixels into an *image.NRGBA.
func (d DecodedImage) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	switch d.Channels {
	case 4:
		copy(out.Pix, d.Pix)
	case 3:
		for i, j := 0, 0; i+2 < len(d.Pix); i, j = i+3, j+4 {
			out.Pix[j] = d.Pix[i]
			out.Pix[j+1] = d.Pix[i+1]
			out.Pix[j+2] = d.Pix[i+2]
			out.Pix[j+3] = 0xff
		}
	}
	return out
}
