package domo

import "github.com/go-gl/mathgl/mgl32"

// VertexArrayID, TextureID and ProgramID are opaque device handles.
// Zero is never a valid handle.
type (
	VertexArrayID uint32
	TextureID     uint32
	ProgramID     uint32
)

// VertexAttrib describes one float attribute within an interleaved vertex.
type VertexAttrib struct {
	Location int // shader attribute location
	Size     int // number of float32 components
	Offset   int // offset in floats from the start of the vertex
}

// VertexLayout describes an interleaved float32 vertex.
type VertexLayout struct {
	Stride  int // floats per vertex
	Attribs []VertexAttrib
}

// Device is the graphics device the renderer drives. Its shape follows the
// OpenGL buffer/texture/program model; implementations are HeadlessDevice,
// EbitenDevice and glgpu.Device.
//
// All methods are called from the render goroutine only.
type Device interface {
	// NewVertexArray allocates a dynamic vertex buffer of maxFloats floats
	// with the given layout and a static index buffer holding indices.
	NewVertexArray(layout VertexLayout, maxFloats int, indices []uint32) (VertexArrayID, error)
	// UploadVertices replaces the vertex buffer contents starting at offset 0.
	UploadVertices(vao VertexArrayID, data []float32)
	// DrawElements draws count indices from the start of the index buffer
	// as triangles.
	DrawElements(vao VertexArrayID, count int)

	// NewTexture uploads decoded pixels. Rows in img are top-first.
	NewTexture(img DecodedImage) (TextureID, error)
	// BindTexture binds tex to the texture unit.
	BindTexture(unit int, tex TextureID)
	// UnbindTexture clears the texture unit.
	UnbindTexture(unit int)

	// NewProgram compiles and links a shader program.
	NewProgram(vertexSrc, fragmentSrc string) (ProgramID, error)
	// UseProgram makes p the current program.
	UseProgram(p ProgramID)
	// DetachProgram clears the current program.
	DetachProgram()
	// UniformMat4, UniformFloat and UniformInts upload uniforms of the
	// current program addressed by name.
	UniformMat4(p ProgramID, name string, m mgl32.Mat4)
	UniformFloat(p ProgramID, name string, v float32)
	UniformInts(p ProgramID, name string, v []int32)
}

// Shader uniform names the renderer relies on.
const (
	UniformProjection = "uProjection"
	UniformView       = "uView"
	UniformTextures   = "uTextures"
	UniformTime       = "uTime"
)
