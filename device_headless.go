package domo

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// headlessUnits is the number of texture units the headless device exposes.
const headlessUnits = 16

// DrawCall is one DrawElements call captured by HeadlessDevice.
type DrawCall struct {
	VertexArray VertexArrayID
	Program     ProgramID
	Count       int                      // indices drawn
	Units       [headlessUnits]TextureID // texture bound to each unit at draw time
	Vertices    []float32                // copy of the vertex data covered by Count
	Projection  mgl32.Mat4
	View        mgl32.Mat4
	Slots       []int32 // value of the texture-slot uniform
}

type headlessArray struct {
	layout   VertexLayout
	vertices []float32
	indices  []uint32
	uploads  int
}

type headlessProgram struct {
	vertexSrc   string
	fragmentSrc string
	mat4s       map[string]mgl32.Mat4
	floats      map[string]float32
	ints        map[string][]int32
}

// HeadlessDevice is a CPU-side Device that keeps buffer contents in memory
// and records every draw call. It is used for tests, benchmarks, and for
// validating scenes without a window.
type HeadlessDevice struct {
	// CompileError, when non-nil, is returned by every NewProgram call.
	CompileError error
	// VertexArrayError, when non-nil, is returned by every NewVertexArray call.
	VertexArrayError error

	// DrawCalls lists draws since the last Reset, in submission order.
	DrawCalls []DrawCall

	nextID   uint32
	arrays   map[VertexArrayID]*headlessArray
	textures map[TextureID]DecodedImage
	programs map[ProgramID]*headlessProgram
	units    [headlessUnits]TextureID
	current  ProgramID
}

var _ Device = (*HeadlessDevice)(nil)

// NewHeadlessDevice creates an empty headless device.
func NewHeadlessDevice() *HeadlessDevice {
	return &HeadlessDevice{
		arrays:   make(map[VertexArrayID]*headlessArray),
		textures: make(map[TextureID]DecodedImage),
		programs: make(map[ProgramID]*headlessProgram),
	}
}

func (d *HeadlessDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

// NewVertexArray implements Device.
func (d *HeadlessDevice) NewVertexArray(layout VertexLayout, maxFloats int, indices []uint32) (VertexArrayID, error) {
	if d.VertexArrayError != nil {
		return 0, d.VertexArrayError
	}
	if layout.Stride <= 0 || maxFloats%layout.Stride != 0 {
		return 0, errors.Errorf("domo: vertex buffer of %d floats does not fit stride %d", maxFloats, layout.Stride)
	}
	vao := VertexArrayID(d.id())
	d.arrays[vao] = &headlessArray{
		layout:   layout,
		vertices: make([]float32, maxFloats),
		indices:  append([]uint32(nil), indices...),
	}
	return vao, nil
}

// UploadVertices implements Device.
func (d *HeadlessDevice) UploadVertices(vao VertexArrayID, data []float32) {
	a := d.mustArray(vao)
	if len(data) > len(a.vertices) {
		panic("domo: vertex upload exceeds buffer size")
	}
	copy(a.vertices, data)
	a.uploads++
}

// DrawElements implements Device.
func (d *HeadlessDevice) DrawElements(vao VertexArrayID, count int) {
	a := d.mustArray(vao)
	if count > len(a.indices) {
		panic("domo: draw exceeds index buffer")
	}
	quads := count / indicesPerQuad
	n := quads * verticesPerQuad * a.layout.Stride
	if n > len(a.vertices) {
		n = len(a.vertices)
	}
	call := DrawCall{
		VertexArray: vao,
		Program:     d.current,
		Count:       count,
		Units:       d.units,
		Vertices:    append([]float32(nil), a.vertices[:n]...),
	}
	if p := d.programs[d.current]; p != nil {
		call.Projection = p.mat4s[UniformProjection]
		call.View = p.mat4s[UniformView]
		call.Slots = append([]int32(nil), p.ints[UniformTextures]...)
	}
	d.DrawCalls = append(d.DrawCalls, call)
}

// NewTexture implements Device.
func (d *HeadlessDevice) NewTexture(img DecodedImage) (TextureID, error) {
	if img.Channels != 3 && img.Channels != 4 {
		return 0, errors.Wrapf(ErrUnsupportedChannels, "%d channels", img.Channels)
	}
	if len(img.Pix) != img.Width*img.Height*img.Channels {
		return 0, errors.Errorf("domo: pixel buffer is %d bytes, want %d", len(img.Pix), img.Width*img.Height*img.Channels)
	}
	tex := TextureID(d.id())
	d.textures[tex] = img
	return tex, nil
}

// BindTexture implements Device.
func (d *HeadlessDevice) BindTexture(unit int, tex TextureID) {
	d.units[unit] = tex
}

// UnbindTexture implements Device.
func (d *HeadlessDevice) UnbindTexture(unit int) {
	d.units[unit] = 0
}

// NewProgram implements Device. A source missing a main function is
// rejected the way a real compiler would.
func (d *HeadlessDevice) NewProgram(vertexSrc, fragmentSrc string) (ProgramID, error) {
	if d.CompileError != nil {
		return 0, d.CompileError
	}
	if !strings.Contains(vertexSrc, "main") {
		return 0, errors.New("vertex shader: no main function")
	}
	if !strings.Contains(fragmentSrc, "main") {
		return 0, errors.New("fragment shader: no main function")
	}
	p := ProgramID(d.id())
	d.programs[p] = &headlessProgram{
		vertexSrc:   vertexSrc,
		fragmentSrc: fragmentSrc,
		mat4s:       make(map[string]mgl32.Mat4),
		floats:      make(map[string]float32),
		ints:        make(map[string][]int32),
	}
	return p, nil
}

// UseProgram implements Device.
func (d *HeadlessDevice) UseProgram(p ProgramID) {
	d.current = p
}

// DetachProgram implements Device.
func (d *HeadlessDevice) DetachProgram() {
	d.current = 0
}

// UniformMat4 implements Device.
func (d *HeadlessDevice) UniformMat4(p ProgramID, name string, m mgl32.Mat4) {
	d.mustProgram(p).mat4s[name] = m
}

// UniformFloat implements Device.
func (d *HeadlessDevice) UniformFloat(p ProgramID, name string, v float32) {
	d.mustProgram(p).floats[name] = v
}

// UniformInts implements Device.
func (d *HeadlessDevice) UniformInts(p ProgramID, name string, v []int32) {
	d.mustProgram(p).ints[name] = append([]int32(nil), v...)
}

// --- Inspection ---

// Reset clears the recorded draw calls.
func (d *HeadlessDevice) Reset() {
	d.DrawCalls = d.DrawCalls[:0]
}

// NumPrograms returns how many programs were successfully compiled.
func (d *HeadlessDevice) NumPrograms() int {
	return len(d.programs)
}

// NumTextures returns how many textures were uploaded.
func (d *HeadlessDevice) NumTextures() int {
	return len(d.textures)
}

// Uploads returns how many times the vertex buffer of vao was uploaded.
func (d *HeadlessDevice) Uploads(vao VertexArrayID) int {
	return d.mustArray(vao).uploads
}

// Indices returns the index buffer of vao.
func (d *HeadlessDevice) Indices(vao VertexArrayID) []uint32 {
	return d.mustArray(vao).indices
}

// BoundTexture returns the texture bound to unit.
func (d *HeadlessDevice) BoundTexture(unit int) TextureID {
	return d.units[unit]
}

// CurrentProgram returns the program in use, or 0.
func (d *HeadlessDevice) CurrentProgram() ProgramID {
	return d.current
}

// UniformFloatValue returns the last float uploaded under name for p.
func (d *HeadlessDevice) UniformFloatValue(p ProgramID, name string) (float32, bool) {
	v, ok := d.mustProgram(p).floats[name]
	return v, ok
}

func (d *HeadlessDevice) mustArray(vao VertexArrayID) *headlessArray {
	a, ok := d.arrays[vao]
	if !ok {
		panic("domo: unknown vertex array")
	}
	return a
}

func (d *HeadlessDevice) mustProgram(p ProgramID) *headlessProgram {
	prog, ok := d.programs[p]
	if !ok {
		panic("domo: unknown program")
	}
	return prog
}
