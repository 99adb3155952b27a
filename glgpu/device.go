// Package glgpu implements domo.Device on OpenGL 4.1 core via go-gl.
//
// All methods must be called on the goroutine owning the GL context, after
// Init.
package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/phanxgames/domo"
)

type vertexArray struct {
	vao, vbo, ebo uint32
	floats        int
}

type program struct {
	id       uint32
	uniforms map[string]int32
}

// Device is an OpenGL implementation of domo.Device.
type Device struct {
	arrays   map[domo.VertexArrayID]*vertexArray
	programs map[domo.ProgramID]*program
}

var _ domo.Device = (*Device)(nil)

// Init loads the GL function pointers for the current context and returns
// a device with alpha blending enabled.
func Init() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "glgpu: init")
	}
	domo.Logger().Info("OpenGL initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	return &Device{
		arrays:   make(map[domo.VertexArrayID]*vertexArray),
		programs: make(map[domo.ProgramID]*program),
	}, nil
}

// Clear fills the default framebuffer with c.
func (d *Device) Clear(c domo.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Viewport sets the GL viewport to the framebuffer size.
func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// NewVertexArray implements domo.Device.
func (d *Device) NewVertexArray(layout domo.VertexLayout, maxFloats int, indices []uint32) (domo.VertexArrayID, error) {
	va := &vertexArray{floats: maxFloats}

	gl.GenVertexArrays(1, &va.vao)
	gl.BindVertexArray(va.vao)

	gl.GenBuffers(1, &va.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, maxFloats*4, nil, gl.DYNAMIC_DRAW)

	gl.GenBuffers(1, &va.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(layout.Stride * 4)
	for _, a := range layout.Attribs {
		loc := uint32(a.Location)
		gl.VertexAttribPointer(loc, int32(a.Size), gl.FLOAT, false, stride, gl.PtrOffset(a.Offset*4))
		gl.EnableVertexAttribArray(loc)
	}
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return 0, errors.Errorf("glgpu: create vertex array: GL error 0x%x", code)
	}
	id := domo.VertexArrayID(va.vao)
	d.arrays[id] = va
	return id, nil
}

// UploadVertices implements domo.Device.
func (d *Device) UploadVertices(vao domo.VertexArrayID, data []float32) {
	va := d.arrays[vao]
	if len(data) > va.floats {
		panic("glgpu: vertex upload exceeds buffer size")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
}

// DrawElements implements domo.Device.
func (d *Device) DrawElements(vao domo.VertexArrayID, count int) {
	gl.BindVertexArray(d.arrays[vao].vao)
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// NewTexture implements domo.Device. Rows are flipped on upload so that
// v = 0 is the bottom of the image.
func (d *Device) NewTexture(img domo.DecodedImage) (domo.TextureID, error) {
	var internal int32
	var format uint32
	switch img.Channels {
	case 3:
		internal, format = gl.RGB, gl.RGB
	case 4:
		internal, format = gl.RGBA, gl.RGBA
	default:
		return 0, errors.Wrapf(domo.ErrUnsupportedChannels, "%d channels", img.Channels)
	}
	pix := flipRows(img.Pix, img.Width*img.Channels, img.Height)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(img.Width), int32(img.Height), 0, format, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, errors.Errorf("glgpu: upload texture: GL error 0x%x", code)
	}
	return domo.TextureID(tex), nil
}

// flipRows returns pix with its rows in reverse order.
func flipRows(pix []byte, rowBytes, rows int) []byte {
	out := make([]byte, len(pix))
	for y := 0; y < rows; y++ {
		copy(out[(rows-1-y)*rowBytes:(rows-y)*rowBytes], pix[y*rowBytes:(y+1)*rowBytes])
	}
	return out
}

// BindTexture implements domo.Device.
func (d *Device) BindTexture(unit int, tex domo.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

// UnbindTexture implements domo.Device.
func (d *Device) UnbindTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// NewProgram implements domo.Device.
func (d *Device) NewProgram(vertexSrc, fragmentSrc string) (domo.ProgramID, error) {
	vs, err := compileStage(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, errors.Wrap(err, "vertex shader")
	}
	fs, err := compileStage(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, errors.Wrap(err, "fragment shader")
	}

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var linked int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &linked)
	gl.DetachShader(id, vs)
	gl.DetachShader(id, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	if linked == gl.FALSE {
		var logSize int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetProgramInfoLog(id, int32(len(buf)), &logSize, &buf[0])
		msg := string(buf[:logSize])
		domo.Logger().Error("failed to link program", zap.String("log", msg))
		gl.DeleteProgram(id)
		return 0, errors.Errorf("failed to link program: %q", msg)
	}

	p := domo.ProgramID(id)
	d.programs[p] = &program{id: id, uniforms: make(map[string]int32)}
	return p, nil
}

func compileStage(kind uint32, src string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var ok int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		var logSize int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetShaderInfoLog(shader, int32(len(buf)), &logSize, &buf[0])
		msg := string(buf[:logSize])
		domo.Logger().Error("failed to compile shader", zap.String("log", msg))
		gl.DeleteShader(shader)
		return 0, errors.Errorf("failed to compile shader: %q", msg)
	}
	return shader, nil
}

// UseProgram implements domo.Device.
func (d *Device) UseProgram(p domo.ProgramID) {
	gl.UseProgram(uint32(p))
}

// DetachProgram implements domo.Device.
func (d *Device) DetachProgram() {
	gl.UseProgram(0)
}

// location returns the cached uniform location of name, or -1.
func (d *Device) location(p domo.ProgramID, name string) int32 {
	prog := d.programs[p]
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(prog.id, gl.Str(name+"\x00"))
	prog.uniforms[name] = loc
	return loc
}

// UniformMat4 implements domo.Device.
func (d *Device) UniformMat4(p domo.ProgramID, name string, m mgl32.Mat4) {
	if loc := d.location(p, name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// UniformFloat implements domo.Device.
func (d *Device) UniformFloat(p domo.ProgramID, name string, v float32) {
	if loc := d.location(p, name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

// UniformInts implements domo.Device.
func (d *Device) UniformInts(p domo.ProgramID, name string, v []int32) {
	if len(v) == 0 {
		return
	}
	if loc := d.location(p, name); loc >= 0 {
		gl.Uniform1iv(loc, int32(len(v)), &v[0])
	}
}

// Delete releases every buffer and program created by the device.
func (d *Device) Delete() {
	for id, va := range d.arrays {
		gl.DeleteBuffers(1, &va.vbo)
		gl.DeleteBuffers(1, &va.ebo)
		gl.DeleteVertexArrays(1, &va.vao)
		delete(d.arrays, id)
	}
	for id, p := range d.programs {
		gl.DeleteProgram(p.id)
		delete(d.programs, id)
	}
}
