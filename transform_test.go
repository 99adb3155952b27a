package domo

import (
	"testing"
)

const epsilon = 1e-4

func assertNear(t *testing.T, name string, got, want float32) {
	t.Helper()
	if d := got - want; d > epsilon || d < -epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	assertNear(t, name+".X", got.X, want.X)
	assertNear(t, name+".Y", got.Y, want.Y)
}

func TestTransformCorners(t *testing.T) {
	tr := NewTransform(Vec2{100, 200}, Vec2{30, 40})
	want := [4]Vec2{
		{130, 240}, // top-right
		{130, 200}, // bottom-right
		{100, 200}, // bottom-left
		{100, 240}, // top-left
	}
	for i := range want {
		assertVec(t, "corner", tr.Corner(i), want[i])
	}
}

func TestTransformCornersFollowOffsetTable(t *testing.T) {
	tests := []struct {
		name     string
		pos, scl Vec2
	}{
		{"origin", Vec2{0, 0}, Vec2{1, 1}},
		{"negative position", Vec2{-50, -25}, Vec2{10, 20}},
		{"non-uniform", Vec2{3.5, 7.25}, Vec2{256, 0.5}},
		{"zero scale", Vec2{9, 9}, Vec2{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransform(tt.pos, tt.scl)
			for i := 0; i < verticesPerQuad; i++ {
				want := tt.pos.Add(quadCorners[i].Mul(tt.scl))
				assertVec(t, tt.name, tr.Corner(i), want)
			}
		})
	}
}

func TestTransformEquals(t *testing.T) {
	a := NewTransform(Vec2{1, 2}, Vec2{3, 4})
	b := a
	if !a.Equals(b) {
		t.Error("copies should be equal")
	}
	b.Position.X = 1.5
	if a.Equals(b) {
		t.Error("moved transform should differ")
	}
}

func TestTransformBounds(t *testing.T) {
	tr := NewTransform(Vec2{10, 20}, Vec2{5, 6})
	r := tr.Bounds()
	if r != (Rect{10, 20, 5, 6}) {
		t.Errorf("Bounds = %+v", r)
	}
	if !r.Contains(15, 26) || r.Contains(16, 20) {
		t.Error("Contains mismatch")
	}
}
