package s2d

// BufferKind selects what a device buffer holds.
type BufferKind uint8

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

// BufferID names a buffer created by a Device.
type BufferID int

// ShaderSources is the fixed program used by RenderCommands. Devices compile
// whichever form they understand.
type ShaderSources struct {
	Vertex   string // GLSL vertex stage
	Fragment string // GLSL fragment stage
	Kage     []byte // Kage equivalent of the fragment stage
}

// Device is the rendering surface RenderCommands draws through. It is only
// called from the frame thread.
type Device interface {
	// ViewportSize returns the drawable size in pixels.
	ViewportSize() (w, h int)
	CreateBuffer(kind BufferKind) BufferID
	CompileProgram(src ShaderSources) error
	// UseProgram activates the program and sets its resolution uniform.
	UseProgram(resolutionW, resolutionH float32)
	// UploadBuffer replaces a buffer's contents. Contents change every flush.
	UploadBuffer(id BufferID, data []byte)
	BindTexture(t *Texture)
	// ReleaseTexture frees the device's copy of t. Binding t again uploads
	// it anew.
	ReleaseTexture(t *Texture)
	SetBlend(enabled bool)
	Clear(c Color)
	DrawIndexed(vertices, indices BufferID, indexCount int)
	// ContextLost reports whether the rendering context is currently lost.
	ContextLost() bool
}

// DefaultShaders is the program RenderCommands compiles: pixel positions are
// mapped to clip space with Y flipped so (0,0) is the top-left, and the
// fragment is the texture sample multiplied by the vertex color.
var DefaultShaders = ShaderSources{
	Vertex: `attribute vec2 a_position;
attribute vec4 a_color;
attribute vec2 a_texcoord;

uniform vec2 u_resolution;

varying vec4 v_color;
varying vec2 v_texcoord;

void main() {
	vec2 clipSpace = (a_position / u_resolution) * 2.0 - 1.0;
	gl_Position = vec4(clipSpace * vec2(1, -1), 0, 1);
	v_color = a_color;
	v_texcoord = a_texcoord;
}
`,
	Fragment: `precision mediump float;

varying vec4 v_color;
varying vec2 v_texcoord;

uniform sampler2D u_texture;

void main() {
	gl_FragColor = texture2D(u_texture, v_texcoord) * v_color;
}
`,
	Kage: []byte(`//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return imageSrc0At(srcPos) * vec4(color.rgb*color.a, color.a)
}
`),
}
