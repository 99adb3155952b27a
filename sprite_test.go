package domo

import "testing"

func TestNewSpritesStartDirty(t *testing.T) {
	c := NewColorSprite(ColorMagenta)
	if !c.IsDirty() || c.Texture() != nil || c.Color() != ColorMagenta {
		t.Error("color sprite defaults wrong")
	}
	if c.TexCoords() != DefaultTexCoords {
		t.Error("color sprite should use the default tex coords")
	}
	tex := &Texture{path: "a.png", handle: 1, width: 4, height: 4}
	s := NewTextureSprite(NewSprite(tex))
	if s.Texture() != tex || s.Color() != ColorWhite {
		t.Error("texture sprite defaults wrong")
	}
}

func TestSetColorMarksDirty(t *testing.T) {
	s := NewColorSprite(ColorWhite)
	s.clean()
	s.SetColor(ColorWhite)
	if s.IsDirty() {
		t.Error("same color should not mark dirty")
	}
	s.SetColor(ColorMagenta)
	if !s.IsDirty() || s.Color() != ColorMagenta {
		t.Error("new color should mark dirty")
	}
}

func TestSetSpriteMarksDirty(t *testing.T) {
	s := NewColorSprite(ColorWhite)
	s.clean()
	tex := &Texture{path: "b.png", handle: 2, width: 4, height: 4}
	s.SetSprite(NewSprite(tex))
	if !s.IsDirty() || s.Texture() != tex {
		t.Error("SetSprite should mark dirty")
	}
	s.clean()
	s.MarkDirty()
	if !s.IsDirty() {
		t.Error("MarkDirty")
	}
}

func TestSpriteRendererTracksTransform(t *testing.T) {
	e := NewEntity("e", NewTransform(Vec2{1, 1}, Vec2{2, 2}), 0)
	s := NewColorSprite(ColorWhite)
	e.AddBehavior(s)
	e.Start()
	s.clean()

	e.Update(0.1)
	if s.IsDirty() {
		t.Error("unchanged transform marked dirty")
	}
	e.Transform.Position.X = 5
	e.Update(0.1)
	if !s.IsDirty() {
		t.Error("moved transform should mark dirty")
	}
}
