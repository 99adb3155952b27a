package domo

// Transform is the 2D placement of an entity. Scale is the full quad extent
// in world units, not a multiplier.
type Transform struct {
	Position Vec2
	Scale    Vec2
}

// NewTransform returns a transform at pos with extent scale.
func NewTransform(pos, scale Vec2) Transform {
	return Transform{Position: pos, Scale: scale}
}

// Equals reports whether t and o are identical.
func (t Transform) Equals(o Transform) bool {
	return t == o
}

// quadCorners are the unit offsets of the four quad corners, paired with the
// index pattern (0,1,2, 0,2,3). Corner 0 is top-right, then clockwise through
// bottom-right, bottom-left and top-left.
var quadCorners = [verticesPerQuad]Vec2{
	{1, 1},
	{1, 0},
	{0, 0},
	{0, 1},
}

// Corner returns the world position of quad corner i (0..3):
// Position + offset_i ⊙ Scale.
func (t Transform) Corner(i int) Vec2 {
	return t.Position.Add(quadCorners[i].Mul(t.Scale))
}

// Bounds returns the rectangle covered by the quad.
func (t Transform) Bounds() Rect {
	return Rect{X: t.Position.X, Y: t.Position.Y, Width: t.Scale.X, Height: t.Scale.Y}
}
