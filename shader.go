package domo

import (
	_ "embed"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// DefaultShaderName is the cache key of the embedded default shader.
const DefaultShaderName = "domo:default"

//go:embed shaders/default.glsl
var defaultShaderSource string

// DefaultShaderSource returns the embedded batch shader: a vertex stage
// applying uProjection·uView and a fragment stage sampling uTextures[slot].
func DefaultShaderSource() string {
	return defaultShaderSource
}

// Shader is a compiled and linked program plus its sources.
type Shader struct {
	path        string
	program     ProgramID
	vertexSrc   string
	fragmentSrc string
}

// Path returns the canonical path or name the shader is cached under.
func (s *Shader) Path() string { return s.path }

// Program returns the device program handle.
func (s *Shader) Program() ProgramID { return s.program }

// VertexSource returns the vertex stage source.
func (s *Shader) VertexSource() string { return s.vertexSrc }

// FragmentSource returns the fragment stage source.
func (s *Shader) FragmentSource() string { return s.fragmentSrc }

// Use makes the shader the current program.
func (s *Shader) Use(dev Device) { dev.UseProgram(s.program) }

// Detach clears the current program.
func (s *Shader) Detach(dev Device) { dev.DetachProgram() }

// UploadMat4 sets a mat4 uniform.
func (s *Shader) UploadMat4(dev Device, name string, m mgl32.Mat4) {
	dev.UniformMat4(s.program, name, m)
}

// UploadFloat sets a float uniform.
func (s *Shader) UploadFloat(dev Device, name string, v float32) {
	dev.UniformFloat(s.program, name, v)
}

// UploadInts sets an int array uniform.
func (s *Shader) UploadInts(dev Device, name string, v []int32) {
	dev.UniformInts(s.program, name, v)
}

const shaderTypeMarker = "#type"

// splitShaderSource splits a combined shader file into its vertex and
// fragment stages. Each stage starts with a "#type vertex" or
// "#type fragment" line; stages may appear in either order.
func splitShaderSource(src string) (vertex, fragment string, err error) {
	stages := make(map[string]string, 2)
	rest := src
	first := strings.Index(rest, shaderTypeMarker)
	if first < 0 {
		return "", "", errors.Wrap(ErrShaderSyntax, "no #type marker")
	}
	rest = rest[first:]
	for rest != "" {
		line, body, _ := strings.Cut(rest, "\n")
		kind := strings.TrimSpace(strings.TrimPrefix(line, shaderTypeMarker))
		next := strings.Index(body, shaderTypeMarker)
		if next < 0 {
			next = len(body)
		}
		switch kind {
		case "vertex", "fragment":
			if _, dup := stages[kind]; dup {
				return "", "", errors.Wrapf(ErrShaderSyntax, "duplicate %s stage", kind)
			}
			stages[kind] = body[:next]
		default:
			return "", "", errors.Wrapf(ErrShaderSyntax, "unknown stage %q", kind)
		}
		rest = body[next:]
	}
	vertex, okV := stages["vertex"]
	fragment, okF := stages["fragment"]
	if !okV || !okF {
		return "", "", errors.Wrap(ErrShaderSyntax, "need both vertex and fragment stages")
	}
	return vertex, fragment, nil
}

// compileShader parses src and links it on dev.
func compileShader(dev Device, path, src string) (*Shader, error) {
	vs, fs, err := splitShaderSource(src)
	if err != nil {
		return nil, assetError(AssetShaderSyntax, path, err)
	}
	prog, err := dev.NewProgram(vs, fs)
	if err != nil {
		Logger().Sugar().Errorw("shader compile failed", "path", path, "error", err)
		return nil, assetError(AssetCompile, path, err)
	}
	return &Shader{path: path, program: prog, vertexSrc: vs, fragmentSrc: fs}, nil
}
