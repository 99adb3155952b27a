package domo

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitShaderSource(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		vertex   string
		fragment string
		wantErr  bool
	}{
		{
			name:     "vertex first",
			src:      "#type vertex\nvoid main() {}\n#type fragment\nvoid main() { f(); }\n",
			vertex:   "void main() {}\n",
			fragment: "void main() { f(); }\n",
		},
		{
			name:     "fragment first",
			src:      "#type fragment\nFRAG\n#type vertex\nVERT\n",
			vertex:   "VERT\n",
			fragment: "FRAG\n",
		},
		{
			name:     "leading comment and trailing spaces",
			src:      "// header\n#type   vertex  \nV\n#type fragment\r\nF",
			vertex:   "V\n",
			fragment: "F",
		},
		{name: "no markers", src: "void main() {}", wantErr: true},
		{name: "missing fragment", src: "#type vertex\nV\n", wantErr: true},
		{name: "duplicate stage", src: "#type vertex\nA\n#type vertex\nB\n#type fragment\nF\n", wantErr: true},
		{name: "unknown stage", src: "#type geometry\nG\n#type vertex\nV\n#type fragment\nF\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, f, err := splitShaderSource(tt.src)
			if tt.wantErr {
				if !errors.Is(err, ErrShaderSyntax) {
					t.Fatalf("err = %v, want ErrShaderSyntax", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.vertex {
				t.Errorf("vertex = %q, want %q", v, tt.vertex)
			}
			if f != tt.fragment {
				t.Errorf("fragment = %q, want %q", f, tt.fragment)
			}
		})
	}
}

func TestDefaultShaderSource(t *testing.T) {
	v, f, err := splitShaderSource(DefaultShaderSource())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"aPos", "aColor", "aTexCoords", "aTexID", UniformProjection, UniformView} {
		if !strings.Contains(v, want) {
			t.Errorf("vertex stage lacks %s", want)
		}
	}
	if !strings.Contains(f, UniformTextures) {
		t.Errorf("fragment stage lacks %s", UniformTextures)
	}
}

func TestShaderUploads(t *testing.T) {
	dev, a := newTestAssets(t)
	s := newTestShader(t, a)
	s.Use(dev)
	if dev.CurrentProgram() != s.Program() {
		t.Error("Use did not select the program")
	}
	s.UploadFloat(dev, UniformTime, 1.5)
	if v, ok := dev.UniformFloatValue(s.Program(), UniformTime); !ok || v != 1.5 {
		t.Errorf("uTime = %v", v)
	}
	s.Detach(dev)
	if dev.CurrentProgram() != 0 {
		t.Error("Detach did not clear the program")
	}
}
