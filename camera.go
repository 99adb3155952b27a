package domo

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera supplies the projection and view matrices for a render flush.
type Camera interface {
	ProjectionMatrix() mgl32.Mat4
	ViewMatrix() mgl32.Mat4
}

// Default visible world size: 40 × 21 tiles of 32 units.
const (
	DefaultViewWidth  = 32 * 40
	DefaultViewHeight = 32 * 21
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// OrthoCamera is an orthographic camera looking down -Z. Position is the
// world point shown at the bottom-left corner of the view.
type OrthoCamera struct {
	Position Vec2

	// BoundsEnabled clamps the camera so the visible area stays within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to.
	Bounds Rect

	width, height float32
	projection    mgl32.Mat4

	followTarget *Entity
	followOffset Vec2
	followLerp   float32

	scrollTween *scrollAnim
}

var _ Camera = (*OrthoCamera)(nil)

// NewOrthoCamera creates a camera at pos showing the default view size.
func NewOrthoCamera(pos Vec2) *OrthoCamera {
	c := &OrthoCamera{Position: pos}
	c.SetViewSize(DefaultViewWidth, DefaultViewHeight)
	return c
}

// SetViewSize changes the visible world size and recomputes the projection.
func (c *OrthoCamera) SetViewSize(width, height float32) {
	if width <= 0 || height <= 0 {
		panic("domo: camera view size must be positive")
	}
	c.width, c.height = width, height
	c.projection = mgl32.Ortho(0, width, 0, height, 0, 100)
}

// ViewSize returns the visible world size.
func (c *OrthoCamera) ViewSize() (width, height float32) {
	return c.width, c.height
}

// ProjectionMatrix implements Camera.
func (c *OrthoCamera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// ViewMatrix implements Camera.
func (c *OrthoCamera) ViewMatrix() mgl32.Mat4 {
	eye := mgl32.Vec3{c.Position.X, c.Position.Y, 20}
	center := mgl32.Vec3{c.Position.X, c.Position.Y, -1}
	up := mgl32.Vec3{0, 1, 0}
	return mgl32.LookAtV(eye, center, up)
}

// VisibleRect returns the world rectangle currently in view.
func (c *OrthoCamera) VisibleRect() Rect {
	return Rect{X: c.Position.X, Y: c.Position.Y, Width: c.width, Height: c.height}
}

// ScreenToWorld converts a screen pixel (origin top-left) on a screen of
// the given size to world coordinates.
func (c *OrthoCamera) ScreenToWorld(sx, sy float32, screenW, screenH int) Vec2 {
	return Vec2{
		X: c.Position.X + sx/float32(screenW)*c.width,
		Y: c.Position.Y + (1-sy/float32(screenH))*c.height,
	}
}

// Follow makes the camera keep e centered, shifted by offset. A lerp of 1
// snaps immediately; lower values follow smoothly.
func (c *OrthoCamera) Follow(e *Entity, offset Vec2, lerp float32) {
	c.followTarget = e
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *OrthoCamera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera position to (x, y) over duration seconds.
// A nil fn selects ease.InOutQuad.
func (c *OrthoCamera) ScrollTo(x, y float32, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.InOutQuad
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(c.Position.X, x, duration, fn),
		tweenY: gween.New(c.Position.Y, y, duration, fn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *OrthoCamera) Scrolling() bool {
	return c.scrollTween != nil
}

// SetBounds enables bounds clamping.
func (c *OrthoCamera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *OrthoCamera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow, scroll and bounds clamping. Called from
// Scene.Update.
func (c *OrthoCamera) Update(dt float64) {
	if t := c.followTarget; t != nil {
		tx := t.Transform.Position.X + t.Transform.Scale.X/2 + c.followOffset.X - c.width/2
		ty := t.Transform.Position.Y + t.Transform.Scale.Y/2 + c.followOffset.Y - c.height/2
		c.Position.X += (tx - c.Position.X) * c.followLerp
		c.Position.Y += (ty - c.Position.Y) * c.followLerp
	}

	if s := c.scrollTween; s != nil {
		if !s.doneX {
			c.Position.X, s.doneX = s.tweenX.Update(float32(dt))
		}
		if !s.doneY {
			c.Position.Y, s.doneY = s.tweenY.Update(float32(dt))
		}
		if s.doneX && s.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds keeps the visible area inside Bounds. If Bounds is smaller
// than the view on an axis, the view is centered on it.
func (c *OrthoCamera) clampToBounds() {
	minX, maxX := c.Bounds.X, c.Bounds.X+c.Bounds.Width-c.width
	minY, maxY := c.Bounds.Y, c.Bounds.Y+c.Bounds.Height-c.height

	if minX > maxX {
		c.Position.X = c.Bounds.X + (c.Bounds.Width-c.width)/2
	} else {
		c.Position.X = max(minX, min(c.Position.X, maxX))
	}
	if minY > maxY {
		c.Position.Y = c.Bounds.Y + (c.Bounds.Height-c.height)/2
	} else {
		c.Position.Y = max(minY, min(c.Position.Y, maxY))
	}
}
