package domo

import (
	"testing"
)

// setupBenchScene creates a started scene with n sprites spread over
// textures distinct textures and a few draw layers.
func setupBenchScene(b *testing.B, n, textures int) (*HeadlessDevice, *Scene) {
	b.Helper()
	dev, a := newTestAssets(b)
	texs := newTestTextures(b, a, textures)
	s := NewScene(SceneConfig{})
	if err := s.Start(a); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < n; i++ {
		e := NewEntity("sp", NewTransform(Vec2{float32(i%100) * 40, float32(i/100) * 40}, Vec2{32, 32}), i%3)
		e.AddBehavior(NewTextureSprite(NewSprite(texs[i%textures])))
		if err := s.AddEntity(e); err != nil {
			b.Fatal(err)
		}
	}
	return dev, s
}

func BenchmarkDraw_10000Sprites_Static(b *testing.B) {
	dev, s := setupBenchScene(b, 10000, 4)
	if err := s.Draw(); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dev.Reset()
		if err := s.Draw(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDraw_10000Sprites_Moving(b *testing.B) {
	dev, s := setupBenchScene(b, 10000, 4)
	ents := s.Entities()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, e := range ents {
			e.Transform.Position.X += 0.5
		}
		dev.Reset()
		if err := s.Draw(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDraw_10000Sprites_ManyTextures(b *testing.B) {
	dev, s := setupBenchScene(b, 10000, 40)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dev.Reset()
		if err := s.Draw(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRoute_1000Sprites(b *testing.B) {
	_, a := newTestAssets(b)
	shader := newTestShader(b, a)
	texs := newTestTextures(b, a, 16)
	ents := make([]*Entity, 1000)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		for j := range ents {
			ents[j] = textureEntity("sp", j%4, texs[j%len(texs)])
		}
		r := NewRenderer(a.Device(), shader)
		b.StartTimer()
		for _, e := range ents {
			if err := r.Add(e); err != nil {
				b.Fatal(err)
			}
		}
	}
}
