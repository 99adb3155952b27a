package domo

import (
	"fmt"
	"testing"
)

// newTestAssets returns a headless device and an asset cache whose decoder
// yields a w×h RGBA image for every path.
func newTestAssets(t testing.TB) (*HeadlessDevice, *Assets) {
	t.Helper()
	dev := NewHeadlessDevice()
	dec := ImageDecoderFunc(func(string) (DecodedImage, error) {
		return DecodedImage{Pix: make([]byte, 64*32*4), Width: 64, Height: 32, Channels: 4}, nil
	})
	return dev, NewAssets(dev, dec)
}

func newTestShader(t testing.TB, a *Assets) *Shader {
	t.Helper()
	s, err := a.DefaultShader()
	if err != nil {
		t.Fatalf("DefaultShader: %v", err)
	}
	return s
}

// newTestTextures uploads n distinct 64x32 textures.
func newTestTextures(t testing.TB, a *Assets, n int) []*Texture {
	t.Helper()
	out := make([]*Texture, n)
	for i := range out {
		tex, err := a.Texture(fmt.Sprintf("tex%d.png", i))
		if err != nil {
			t.Fatalf("Texture: %v", err)
		}
		out[i] = tex
	}
	return out
}

func colorEntity(name string, z int, pos, scale Vec2, c Color) *Entity {
	e := NewEntity(name, NewTransform(pos, scale), z)
	e.AddBehavior(NewColorSprite(c))
	return e
}

func textureEntity(name string, z int, tex *Texture) *Entity {
	e := NewEntity(name, NewTransform(Vec2{0, 0}, Vec2{16, 16}), z)
	e.AddBehavior(NewTextureSprite(NewSprite(tex)))
	return e
}

// vertexAt returns the floats of one vertex in a batch vertex buffer.
func vertexAt(verts []float32, quad, corner int) []float32 {
	off := quad*floatsPerQuad + corner*floatsPerVertex
	return verts[off : off+floatsPerVertex]
}
