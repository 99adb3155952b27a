package domo

import (
	"image"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// ebitenUnits is the number of texture units the Ebitengine device exposes.
const ebitenUnits = 16

type ebitenArray struct {
	layout   VertexLayout
	vertices []float32
	indices  []uint32
}

type ebitenProgram struct {
	projection mgl32.Mat4
	view       mgl32.Mat4
}

// EbitenDevice draws batches onto an *ebiten.Image. It does not compile
// GLSL; programs emulate the default shader: positions go through
// projection·view, colors multiply the sampled texel and the slot attribute
// selects the texture unit (0 samples plain white).
//
// Quads are submitted with DrawTriangles32, one call per run of consecutive
// quads sampling the same texture.
type EbitenDevice struct {
	target *ebiten.Image

	nextID   uint32
	arrays   map[VertexArrayID]*ebitenArray
	textures map[TextureID]*ebiten.Image
	programs map[ProgramID]*ebitenProgram
	units    [ebitenUnits]TextureID
	current  ProgramID

	white *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32
}

var _ Device = (*EbitenDevice)(nil)

// NewEbitenDevice creates a device. Call SetTarget before rendering.
func NewEbitenDevice() *EbitenDevice {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &EbitenDevice{
		arrays:   make(map[VertexArrayID]*ebitenArray),
		textures: make(map[TextureID]*ebiten.Image),
		programs: make(map[ProgramID]*ebitenProgram),
		// Sampling the center pixel avoids bleeding at the edges.
		white: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// SetTarget selects the image subsequent draws render onto.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) {
	d.target = img
}

// Target returns the current render target.
func (d *EbitenDevice) Target() *ebiten.Image {
	return d.target
}

func (d *EbitenDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

// NewVertexArray implements Device.
func (d *EbitenDevice) NewVertexArray(layout VertexLayout, maxFloats int, indices []uint32) (VertexArrayID, error) {
	if layout.Stride < floatsPerVertex {
		return 0, errors.Errorf("domo: ebiten device needs a stride of at least %d floats, got %d", floatsPerVertex, layout.Stride)
	}
	vao := VertexArrayID(d.id())
	d.arrays[vao] = &ebitenArray{
		layout:   layout,
		vertices: make([]float32, maxFloats),
		indices:  append([]uint32(nil), indices...),
	}
	return vao, nil
}

// UploadVertices implements Device.
func (d *EbitenDevice) UploadVertices(vao VertexArrayID, data []float32) {
	copy(d.arrays[vao].vertices, data)
}

// NewTexture implements Device.
func (d *EbitenDevice) NewTexture(img DecodedImage) (TextureID, error) {
	if img.Channels != 3 && img.Channels != 4 {
		return 0, errors.Wrapf(ErrUnsupportedChannels, "%d channels", img.Channels)
	}
	tex := TextureID(d.id())
	d.textures[tex] = ebiten.NewImageFromImage(img.NRGBA())
	return tex, nil
}

// Image returns the ebiten image backing tex, or nil.
func (d *EbitenDevice) Image(tex TextureID) *ebiten.Image {
	return d.textures[tex]
}

// BindTexture implements Device.
func (d *EbitenDevice) BindTexture(unit int, tex TextureID) { d.units[unit] = tex }

// UnbindTexture implements Device.
func (d *EbitenDevice) UnbindTexture(unit int) { d.units[unit] = 0 }

// NewProgram implements Device. Sources are only checked for both stages.
func (d *EbitenDevice) NewProgram(vertexSrc, fragmentSrc string) (ProgramID, error) {
	if !strings.Contains(vertexSrc, "main") || !strings.Contains(fragmentSrc, "main") {
		return 0, errors.New("ebiten device: shader stage without main function")
	}
	p := ProgramID(d.id())
	d.programs[p] = &ebitenProgram{projection: mgl32.Ident4(), view: mgl32.Ident4()}
	return p, nil
}

// UseProgram implements Device.
func (d *EbitenDevice) UseProgram(p ProgramID) { d.current = p }

// DetachProgram implements Device.
func (d *EbitenDevice) DetachProgram() { d.current = 0 }

// UniformMat4 implements Device. Only the projection and view matrices
// affect drawing.
func (d *EbitenDevice) UniformMat4(p ProgramID, name string, m mgl32.Mat4) {
	prog := d.programs[p]
	switch name {
	case UniformProjection:
		prog.projection = m
	case UniformView:
		prog.view = m
	}
}

// UniformFloat implements Device.
func (d *EbitenDevice) UniformFloat(ProgramID, string, float32) {}

// UniformInts implements Device. Slot i always maps to unit i.
func (d *EbitenDevice) UniformInts(ProgramID, string, []int32) {}

// DrawElements implements Device.
func (d *EbitenDevice) DrawElements(vao VertexArrayID, count int) {
	if d.target == nil {
		return
	}
	a := d.arrays[vao]
	prog := d.programs[d.current]
	mvp := mgl32.Ident4()
	if prog != nil {
		mvp = prog.projection.Mul4(prog.view)
	}
	b := d.target.Bounds()
	tw, th := float32(b.Dx()), float32(b.Dy())

	d.verts = d.verts[:0]
	d.inds = d.inds[:0]
	var run *ebiten.Image
	stride := a.layout.Stride

	for q := 0; q < count/indicesPerQuad; q++ {
		first := q * verticesPerQuad * stride
		img := d.slotImage(a.vertices[first+texSlotOffset])
		if run != nil && img != run {
			d.flush(run)
		}
		run = img

		iw, ih := float32(1), float32(1)
		if img != d.white {
			s := img.Bounds().Size()
			iw, ih = float32(s.X), float32(s.Y)
		}

		base := uint32(len(d.verts))
		for v := 0; v < verticesPerQuad; v++ {
			vert := a.vertices[first+v*stride:]
			clip := mvp.Mul4x1(mgl32.Vec4{vert[posOffset], vert[posOffset+1], 0, 1})
			alpha := vert[colorOffset+3]
			ev := ebiten.Vertex{
				DstX:   (clip.X() + 1) / 2 * tw,
				DstY:   (1 - clip.Y()) / 2 * th,
				ColorR: vert[colorOffset] * alpha,
				ColorG: vert[colorOffset+1] * alpha,
				ColorB: vert[colorOffset+2] * alpha,
				ColorA: alpha,
			}
			if img == d.white {
				ev.SrcX, ev.SrcY = 1, 1
			} else {
				ev.SrcX = vert[texCoordsOffset] * iw
				ev.SrcY = (1 - vert[texCoordsOffset+1]) * ih
			}
			d.verts = append(d.verts, ev)
		}
		vbase := uint32(q * verticesPerQuad)
		for _, idx := range a.indices[q*indicesPerQuad : (q+1)*indicesPerQuad] {
			d.inds = append(d.inds, base+idx-vbase)
		}
	}
	if run != nil {
		d.flush(run)
	}
}

// slotImage resolves the texture sampled by a vertex slot attribute.
func (d *EbitenDevice) slotImage(slot float32) *ebiten.Image {
	unit := int(slot + 0.5)
	if unit <= 0 || unit >= ebitenUnits {
		return d.white
	}
	if img := d.textures[d.units[unit]]; img != nil {
		return img
	}
	return d.white
}

func (d *EbitenDevice) flush(img *ebiten.Image) {
	if len(d.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	if img != d.white {
		op.Address = ebiten.AddressRepeat
	}
	d.target.DrawTriangles32(d.verts, d.inds, img, &op)
	d.verts = d.verts[:0]
	d.inds = d.inds[:0]
}
