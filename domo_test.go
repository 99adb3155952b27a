package domo

import (
	"image/color"
	"testing"
)

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		in   Color
		want color.NRGBA
	}{
		{ColorWhite, color.NRGBA{255, 255, 255, 255}},
		{ColorMagenta, color.NRGBA{255, 0, 255, 255}},
		{Color{0.5, 0.25, 0, 0.5}, color.NRGBA{128, 64, 0, 128}},
		{Color{-1, 2, 0, 1}, color.NRGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		if got := tt.in.RGBA(); got != tt.want {
			t.Errorf("%+v.RGBA() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVec2(t *testing.T) {
	v := Vec2{1, 2}.Add(Vec2{3, 4})
	if v != (Vec2{4, 6}) {
		t.Errorf("Add = %v", v)
	}
	v = Vec2{2, 3}.Mul(Vec2{4, 5})
	if v != (Vec2{8, 15}) {
		t.Errorf("Mul = %v", v)
	}
}
